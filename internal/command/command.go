// Package command turns lines of player input into Phrases and holds the
// registry of verbs that Phrases may begin with.
package command

import (
	"context"
	"fmt"

	"github.com/dekarrin/tunamud/internal/world"
)

// Class is the kind of verb a Phrase was built for.
type Class int

const (
	// ClassAction verbs do something to the world and may take targets.
	ClassAction Class = iota

	// ClassEmote verbs express something about the caller and take at most
	// one descriptor and one target.
	ClassEmote
)

func (c Class) String() string {
	switch c {
	case ClassAction:
		return "action"
	case ClassEmote:
		return "emote"
	default:
		return fmt.Sprintf("Class(%d)", int(c))
	}
}

// Handler is the implementation of a single verb.
type Handler interface {
	// Name is the verb that invokes the handler. It is matched against input
	// without regard to case.
	Name() string

	// ValidatePhraseStructure checks that the noun chunks and linking words of
	// a phrase make sense for the verb. The returned error, if any, matches
	// tmerrors.ErrBadArguments and its game message says what is wrong.
	ValidatePhraseStructure(nounChunks, linkingWords []string) error

	// Execute carries out the phrase for the caller and gives the text to
	// send back to them.
	Execute(ctx context.Context, w world.Store, caller world.Character, p *Phrase) (string, error)
}

// Phrase is a single parsed and validated line of player input.
//
// A Phrase is built once per line and its parts may only be walked once; see
// Parts.
type Phrase struct {
	// Verb is the first word of the input, lower-cased.
	Verb string

	// NounChunks are the arguments of the verb, in input order, with
	// determiners removed (and adverbs, for actions).
	NounChunks []string

	// LinkingWords are the adpositions found after the verb, in input order.
	// LinkingWords[i], if present, is the one that follows NounChunks[i].
	LinkingWords []string

	// Descriptors holds the adverb describing an emote, if one was given. It is
	// always empty for actions.
	Descriptors []string

	Class Class

	// Handler is the registered handler for Verb.
	Handler Handler

	partsTaken bool
}

// Parts returns the parts of the phrase as a one-shot Sequence: the verb, then
// for an emote its descriptor and target (each if present), and for an action
// each noun chunk followed by the linking word after it, if another chunk
// follows that linking word.
//
// Parts may be called only once per Phrase. Later calls return a Sequence
// whose Next always fails with ErrSequenceConsumed.
func (p *Phrase) Parts() *Sequence {
	if p.partsTaken {
		return &Sequence{err: ErrSequenceConsumed}
	}
	p.partsTaken = true

	parts := []string{p.Verb}

	switch p.Class {
	case ClassEmote:
		if len(p.Descriptors) > 0 {
			parts = append(parts, p.Descriptors[0])
		}
		if len(p.NounChunks) > 0 {
			parts = append(parts, p.NounChunks[0])
		}
	case ClassAction:
		for i, chunk := range p.NounChunks {
			parts = append(parts, chunk)
			if i < len(p.LinkingWords) && i+1 < len(p.NounChunks) {
				parts = append(parts, p.LinkingWords[i])
			}
		}
	}

	return &Sequence{parts: parts}
}

// Target gives the first noun chunk of the phrase, or the empty string if
// there is none.
func (p *Phrase) Target() string {
	if len(p.NounChunks) < 1 {
		return ""
	}
	return p.NounChunks[0]
}

// Descriptor gives the emote descriptor of the phrase, or the empty string if
// there is none.
func (p *Phrase) Descriptor() string {
	if len(p.Descriptors) < 1 {
		return ""
	}
	return p.Descriptors[0]
}
