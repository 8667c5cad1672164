package command

import (
	"context"
	"errors"
	"testing"

	"github.com/dekarrin/tunamud/internal/annotate"
	"github.com/dekarrin/tunamud/internal/tmerrors"
	"github.com/dekarrin/tunamud/internal/world"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHandler struct {
	name     string
	validate func(nounChunks, linkingWords []string) error
}

func (h stubHandler) Name() string { return h.name }

func (h stubHandler) ValidatePhraseStructure(nounChunks, linkingWords []string) error {
	if h.validate == nil {
		return nil
	}
	return h.validate(nounChunks, linkingWords)
}

func (h stubHandler) Execute(ctx context.Context, w world.Store, caller world.Character, p *Phrase) (string, error) {
	return h.name, nil
}

type failingAnnotator struct {
	err error
}

func (fa failingAnnotator) Annotate(ctx context.Context, text string) ([]annotate.Token, error) {
	return nil, fa.err
}

func (fa failingAnnotator) NounChunks(tokens []annotate.Token) [][]annotate.Token {
	return nil
}

func newTestBuilder(t *testing.T) *Builder {
	reg, err := NewRegistry(
		Action(stubHandler{name: "put"}),
		Action(stubHandler{name: "look"}),
		Action(stubHandler{name: "kill", validate: func(nc, lw []string) error {
			if len(nc) < 1 {
				return tmerrors.BadArguments("Kill what?")
			}
			return nil
		}}),
		Emote(stubHandler{name: "laugh"}),
	)
	require.NoError(t, err)

	return NewBuilder(annotate.NewLexicon(), reg)
}

func Test_Builder_Build(t *testing.T) {
	testCases := []struct {
		name        string
		input       string
		expectVerb  string
		expectClass Class
		expectNC    []string
		expectLW    []string
		expectDesc  []string
	}{
		{
			name:        "verb only",
			input:       "look",
			expectVerb:  "look",
			expectClass: ClassAction,
		},
		{
			name:        "chunks split by linking word",
			input:       "put big blue cracker in shiny gold chest",
			expectVerb:  "put",
			expectClass: ClassAction,
			expectNC:    []string{"big blue cracker", "shiny gold chest"},
			expectLW:    []string{"in"},
		},
		{
			name:        "determiners are dropped",
			input:       "put the cracker in a chest",
			expectVerb:  "put",
			expectClass: ClassAction,
			expectNC:    []string{"cracker", "chest"},
			expectLW:    []string{"in"},
		},
		{
			name:        "adverbs are dropped from actions",
			input:       "kill the goblin quickly",
			expectVerb:  "kill",
			expectClass: ClassAction,
			expectNC:    []string{"goblin"},
		},
		{
			name:        "leading linking word",
			input:       "look at the goblin",
			expectVerb:  "look",
			expectClass: ClassAction,
			expectNC:    []string{"goblin"},
			expectLW:    []string{"at"},
		},
		{
			name:        "input is lower-cased and trimmed",
			input:       "  KILL Stinky Goblin!  ",
			expectVerb:  "kill",
			expectClass: ClassAction,
			expectNC:    []string{"stinky goblin"},
		},
		{
			name:        "emote alone",
			input:       "laugh",
			expectVerb:  "laugh",
			expectClass: ClassEmote,
		},
		{
			name:        "emote with adverb",
			input:       "laugh maniacally",
			expectVerb:  "laugh",
			expectClass: ClassEmote,
			expectDesc:  []string{"maniacally"},
		},
		{
			name:        "emote with adjective",
			input:       "laugh maniac",
			expectVerb:  "laugh",
			expectClass: ClassEmote,
			expectDesc:  []string{"maniacally"},
		},
		{
			name:        "emote with unlisted adjective",
			input:       "laugh hysteric",
			expectVerb:  "laugh",
			expectClass: ClassEmote,
			expectDesc:  []string{"hysterically"},
		},
		{
			name:        "emote with unlisted adjective and target",
			input:       "laugh sheepish at george",
			expectVerb:  "laugh",
			expectClass: ClassEmote,
			expectNC:    []string{"george"},
			expectLW:    []string{"at"},
			expectDesc:  []string{"sheepishly"},
		},
		{
			name:        "emote with pronoun target has no descriptor",
			input:       "laugh at me",
			expectVerb:  "laugh",
			expectClass: ClassEmote,
			expectNC:    []string{"me"},
			expectLW:    []string{"at"},
		},
		{
			name:        "emote with two modifiers keeps the first",
			input:       "laugh joyfully maniacally",
			expectVerb:  "laugh",
			expectClass: ClassEmote,
			expectDesc:  []string{"joyfully"},
		},
		{
			name:        "emote with target and no descriptor",
			input:       "laugh at george",
			expectVerb:  "laugh",
			expectClass: ClassEmote,
			expectNC:    []string{"george"},
			expectLW:    []string{"at"},
		},
		{
			name:        "emote with descriptor and target",
			input:       "laugh maniacally at the goblin",
			expectVerb:  "laugh",
			expectClass: ClassEmote,
			expectNC:    []string{"goblin"},
			expectLW:    []string{"at"},
			expectDesc:  []string{"maniacally"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			b := newTestBuilder(t)

			p, err := b.Build(context.Background(), tc.input)
			require.NoError(t, err)

			assert.Equal(tc.expectVerb, p.Verb)
			assert.Equal(tc.expectClass, p.Class)
			assert.Equal(tc.expectNC, p.NounChunks)
			assert.Equal(tc.expectLW, p.LinkingWords)
			assert.Equal(tc.expectDesc, p.Descriptors)
			assert.Equal(tc.expectVerb, p.Handler.Name())
		})
	}
}

func Test_Builder_Build_errors(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expectErr error
		expectMsg string
	}{
		{name: "empty input", input: "", expectErr: tmerrors.ErrUnknownVerb},
		{name: "whitespace only", input: " \t ", expectErr: tmerrors.ErrUnknownVerb},
		{name: "punctuation only", input: "?!", expectErr: tmerrors.ErrUnknownVerb},
		{name: "unregistered verb", input: "dance wildly", expectErr: tmerrors.ErrUnknownVerb},
		{name: "verb not first", input: "the goblin kill", expectErr: tmerrors.ErrUnknownVerb},
		{name: "validator rejects", input: "kill", expectErr: tmerrors.ErrBadArguments, expectMsg: "Kill what?"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			b := newTestBuilder(t)

			p, err := b.Build(context.Background(), tc.input)

			assert.Nil(p)
			assert.ErrorIs(err, tc.expectErr)
			if tc.expectMsg != "" {
				assert.Equal(tc.expectMsg, tmerrors.GameMessage(err))
			}
		})
	}
}

func Test_Builder_Build_annotatorFailure(t *testing.T) {
	assert := assert.New(t)
	boom := errors.New("tagger exploded")

	reg, err := NewRegistry(Action(stubHandler{name: "look"}))
	require.NoError(t, err)
	b := NewBuilder(failingAnnotator{err: boom}, reg)

	_, err = b.Build(context.Background(), "look")

	assert.ErrorIs(err, tmerrors.ErrUnknownVerb)
	assert.ErrorIs(err, boom)
}

func Test_Phrase_Parts(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect []string
	}{
		{
			name:   "verb only",
			input:  "look",
			expect: []string{"look"},
		},
		{
			name:   "action interleaves chunks and linking words",
			input:  "put big blue cracker in shiny gold chest",
			expect: []string{"put", "big blue cracker", "in", "shiny gold chest"},
		},
		{
			name:   "trailing linking word is dropped",
			input:  "put cracker in",
			expect: []string{"put", "cracker"},
		},
		{
			name:   "emote gives descriptor then target",
			input:  "laugh maniacally at george",
			expect: []string{"laugh", "maniacally", "george"},
		},
		{
			name:   "emote without descriptor",
			input:  "laugh at george",
			expect: []string{"laugh", "george"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := newTestBuilder(t)
			p, err := b.Build(context.Background(), tc.input)
			require.NoError(t, err)

			actual, err := p.Parts().All()
			require.NoError(t, err)

			if diff := cmp.Diff(tc.expect, actual); diff != "" {
				t.Errorf("parts mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func Test_Phrase_Parts_oneShot(t *testing.T) {
	assert := assert.New(t)
	p := &Phrase{Verb: "look", Class: ClassAction}

	seq := p.Parts()
	part, err := seq.Next()
	assert.NoError(err)
	assert.Equal("look", part)

	_, err = seq.Next()
	assert.ErrorIs(err, ErrEndOfSequence)
	_, err = seq.Next()
	assert.ErrorIs(err, ErrEndOfSequence, "exhausted sequence must stay exhausted")

	_, err = p.Parts().Next()
	assert.ErrorIs(err, ErrSequenceConsumed)
	assert.ErrorIs(err, ErrEndOfSequence, "consumed phrase must also read as ended")

	all, err := p.Parts().All()
	assert.ErrorIs(err, ErrSequenceConsumed)
	assert.Empty(all)

	assert.NotErrorIs(ErrEndOfSequence, ErrSequenceConsumed)
}

func Test_Phrase_TargetAndDescriptor(t *testing.T) {
	assert := assert.New(t)

	empty := &Phrase{}
	assert.Equal("", empty.Target())
	assert.Equal("", empty.Descriptor())

	full := &Phrase{NounChunks: []string{"goblin", "chest"}, Descriptors: []string{"happily"}}
	assert.Equal("goblin", full.Target())
	assert.Equal("happily", full.Descriptor())
}
