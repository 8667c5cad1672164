// Package util contains small text helpers shared by the verb handlers and the
// world description code.
package util

import (
	"strings"
	"unicode"
)

// MakeTextList gives a nice list of things based on their display name. If
// articles is true, each item that doesn't already start with an article gets
// an indefinite one.
func MakeTextList(items []string, articles bool) string {
	if len(items) < 1 {
		return ""
	}

	withArts := make([]string, len(items))
	for i := range items {
		item := items[i]
		if articles && !HasArticle(item) {
			item = ArticleFor(item, false) + " " + item
		}
		withArts[i] = item
	}

	if len(withArts) == 1 {
		return withArts[0]
	} else if len(withArts) == 2 {
		return withArts[0] + " and " + withArts[1]
	}

	// if its more than two, use an oxford comma
	withArts[len(withArts)-1] = "and " + withArts[len(withArts)-1]
	return strings.Join(withArts, ", ")
}

// HasArticle returns whether s already starts with "a", "an", or "the".
func HasArticle(s string) bool {
	first, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(s)), " ")
	return first == "a" || first == "an" || first == "the"
}

// ArticleFor returns the article for the given string. It will be capitalized
// the same as the string. If definite is true, the returned value will be "the"
// capitalized as described; otherwise, it will be "a"/"an" capitalized as
// described.
func ArticleFor(s string, definite bool) string {
	sRunes := []rune(s)

	if len(sRunes) < 1 {
		return ""
	}

	leadingUpper := unicode.IsUpper(sRunes[0])
	allCaps := leadingUpper
	if leadingUpper && len(sRunes) > 1 {
		allCaps = unicode.IsUpper(sRunes[1])
	}

	var art string
	if definite {
		if allCaps {
			art = "THE"
		} else if leadingUpper {
			art = "The"
		} else {
			art = "the"
		}
		return art
	}

	if allCaps || leadingUpper {
		art = "A"
	} else {
		art = "a"
	}

	first := unicode.ToUpper(sRunes[0])
	if first == 'A' || first == 'E' || first == 'I' || first == 'O' || first == 'U' {
		if allCaps {
			art += "N"
		} else {
			art += "n"
		}
	}

	return art
}

// CapitalizeFirst returns s with its first rune upper-cased.
func CapitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
