// Package annotate provides the linguistic annotation the command interpreter
// consumes: splitting a line of text into tokens tagged with a part of speech,
// and grouping tokens into noun chunks.
//
// The interpreter only ever talks to an Annotator. Lexicon is the annotator
// shipped with TunaMUD; it is a small rule-based tagger built from closed word
// classes and a handful of suffix heuristics, which is plenty for the
// verb-plus-arguments commands players type.
package annotate

import (
	"context"
	"fmt"
)

// POS is a part-of-speech tag.
type POS int

const (
	Other POS = iota
	Adposition
	Determiner
	Adverb
	Adjective
	Noun
	Pronoun
	Verb
	Conjunction
	Punctuation
)

func (p POS) String() string {
	switch p {
	case Other:
		return "X"
	case Adposition:
		return "ADP"
	case Determiner:
		return "DET"
	case Adverb:
		return "ADV"
	case Adjective:
		return "ADJ"
	case Noun:
		return "NOUN"
	case Pronoun:
		return "PRON"
	case Verb:
		return "VERB"
	case Conjunction:
		return "CCONJ"
	case Punctuation:
		return "PUNCT"
	default:
		return fmt.Sprintf("POS(%d)", int(p))
	}
}

// IsModifier returns whether the POS is one that can describe how something is
// done.
func (p POS) IsModifier() bool {
	return p == Adverb || p == Adjective
}

// IsNominal returns whether the POS can head a noun chunk.
func (p POS) IsNominal() bool {
	return p == Noun || p == Pronoun || p == Other
}

// Token is a single annotated word of input.
type Token struct {
	Text string
	POS  POS
}

func (t Token) String() string {
	return fmt.Sprintf("%s/%s", t.Text, t.POS)
}

// Annotator tags text with parts of speech. Implementations must be safe for
// concurrent use.
type Annotator interface {
	// Annotate splits text into tokens, in input order, each tagged with its
	// part of speech.
	Annotate(ctx context.Context, text string) ([]Token, error)

	// NounChunks groups a slice of tokens into the noun phrases it contains.
	// Tokens that are not part of any noun phrase are not included in the
	// result.
	NounChunks(tokens []Token) [][]Token
}
