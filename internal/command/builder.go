package command

import (
	"context"
	"strings"

	"github.com/dekarrin/tunamud/internal/annotate"
	"github.com/dekarrin/tunamud/internal/tmerrors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Builder builds Phrases from lines of input. A Builder is safe for concurrent
// use so long as its Annotator is.
type Builder struct {
	annotator annotate.Annotator
	registry  *Registry
}

// NewBuilder creates a Builder that tags input with a and recognizes the verbs
// in reg.
func NewBuilder(a annotate.Annotator, reg *Registry) *Builder {
	return &Builder{
		annotator: a,
		registry:  reg,
	}
}

// Registry returns the verbs the Builder recognizes.
func (b *Builder) Registry() *Registry {
	return b.registry
}

// Build parses a line of input into a Phrase and checks its structure against
// the verb's handler.
//
// If the first word is not a registered verb, or the input cannot be tagged at
// all, the returned error matches tmerrors.ErrUnknownVerb. If the handler
// rejects the structure of the phrase, it matches tmerrors.ErrBadArguments.
func (b *Builder) Build(ctx context.Context, raw string) (*Phrase, error) {
	// a Caser carries state, so each call gets its own.
	text := strings.TrimSpace(cases.Lower(language.Und).String(raw))
	if text == "" {
		return nil, tmerrors.UnknownVerb("")
	}

	tokens, err := b.annotator.Annotate(ctx, text)
	if err != nil {
		return nil, tmerrors.WrapUnknownVerb(err, strings.Fields(text)[0])
	}
	if len(tokens) < 1 {
		return nil, tmerrors.UnknownVerb(text)
	}

	p := &Phrase{Verb: tokens[0].Text}

	class, h, ok := b.registry.Lookup(p.Verb)
	if !ok {
		return nil, tmerrors.UnknownVerb(p.Verb)
	}
	p.Class = class
	p.Handler = h

	args := tokens[1:]
	if class == ClassEmote && len(args) > 0 {
		// only the word right after the verb describes the emote; later
		// modifiers are dropped along with every other adverb.
		if describesEmote(args[0].POS) {
			p.Descriptors = []string{CompleteAdverb(args[0].Text)}
			args = args[1:]
		}
	}

	p.NounChunks, p.LinkingWords = segment(args)

	if err := h.ValidatePhraseStructure(p.NounChunks, p.LinkingWords); err != nil {
		return nil, err
	}

	return p, nil
}

// describesEmote returns whether a word tagged pos can say how an emote is
// done. Anything the lexicon does not know is tagged a noun, so unlisted
// adjectives such as "hysteric" count.
func describesEmote(pos annotate.POS) bool {
	switch pos {
	case annotate.Adposition, annotate.Determiner, annotate.Pronoun, annotate.Punctuation, annotate.Conjunction:
		return false
	default:
		return true
	}
}

// segment splits tokens into noun chunks at each linking word. Determiners,
// adverbs, and punctuation are not part of any chunk.
func segment(tokens []annotate.Token) (chunks []string, linking []string) {
	var running []string

	flush := func() {
		if len(running) > 0 {
			chunks = append(chunks, strings.Join(running, " "))
			running = nil
		}
	}

	for _, tok := range tokens {
		switch tok.POS {
		case annotate.Determiner, annotate.Adverb, annotate.Punctuation:
			continue
		case annotate.Adposition:
			flush()
			linking = append(linking, tok.Text)
		default:
			running = append(running, tok.Text)
		}
	}
	flush()

	return chunks, linking
}
