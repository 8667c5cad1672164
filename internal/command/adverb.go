package command

import "strings"

var irregularAdverbs = map[string]string{
	"good": "well",
	"fast": "fast",
	"hard": "hard",
	"shy":  "shyly",
	"sly":  "slyly",
	"dry":  "dryly",
}

// CompleteAdverb gives the adverb form of a modifier, so that "laugh maniac"
// and "laugh maniacally" describe the same laugh. Apart from a few irregular
// words, words already ending in -ly are returned as they are.
func CompleteAdverb(word string) string {
	w := strings.ToLower(word)

	if adv, ok := irregularAdverbs[w]; ok {
		return adv
	}
	if strings.HasSuffix(w, "ly") {
		return w
	}

	n := len(w)
	switch {
	case strings.HasSuffix(w, "ic"), strings.HasSuffix(w, "ac"):
		return w + "ally"
	case n > 2 && strings.HasSuffix(w, "le") && !isVowel(w[n-3]):
		return w[:n-1] + "y"
	case n > 1 && w[n-1] == 'y' && !isVowel(w[n-2]):
		return w[:n-1] + "ily"
	case strings.HasSuffix(w, "ll"):
		return w + "y"
	case strings.HasSuffix(w, "ue"):
		return w[:n-1] + "ly"
	default:
		return w + "ly"
	}
}

func isVowel(b byte) bool {
	switch b {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	default:
		return false
	}
}
