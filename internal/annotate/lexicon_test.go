package annotate

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Lexicon_Annotate(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect []Token
	}{
		{
			name:   "blank string",
			input:  "",
			expect: []Token{},
		},
		{
			name:  "verb and noun",
			input: "kill goblin",
			expect: []Token{
				{Text: "kill", POS: Noun},
				{Text: "goblin", POS: Noun},
			},
		},
		{
			name:  "determiner and preposition",
			input: "put the cracker in a chest",
			expect: []Token{
				{Text: "put", POS: Noun},
				{Text: "the", POS: Determiner},
				{Text: "cracker", POS: Noun},
				{Text: "in", POS: Adposition},
				{Text: "a", POS: Determiner},
				{Text: "chest", POS: Noun},
			},
		},
		{
			name:  "ly adverb and adjective",
			input: "laugh maniacally maniac",
			expect: []Token{
				{Text: "laugh", POS: Noun},
				{Text: "maniacally", POS: Adverb},
				{Text: "maniac", POS: Adjective},
			},
		},
		{
			name:  "ly noun exception",
			input: "look at butterfly",
			expect: []Token{
				{Text: "look", POS: Noun},
				{Text: "at", POS: Adposition},
				{Text: "butterfly", POS: Noun},
			},
		},
		{
			name:  "punctuation is split off",
			input: "kill goblin, now!",
			expect: []Token{
				{Text: "kill", POS: Noun},
				{Text: "goblin", POS: Noun},
				{Text: ",", POS: Punctuation},
				{Text: "now", POS: Adverb},
				{Text: "!", POS: Punctuation},
			},
		},
		{
			name:  "hyphens and apostrophes stay in words",
			input: "look at jack-o'-lantern",
			expect: []Token{
				{Text: "look", POS: Noun},
				{Text: "at", POS: Adposition},
				{Text: "jack-o'-lantern", POS: Noun},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			lx := NewLexicon()
			actual, err := lx.Annotate(context.Background(), tc.input)

			assert.NoError(err)
			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_Lexicon_Annotate_cancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLexicon().Annotate(ctx, "look")

	assert.ErrorIs(t, err, context.Canceled)
}

func Test_Lexicon_NounChunks(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect []string
	}{
		{
			name:   "no chunks",
			input:  "at in",
			expect: nil,
		},
		{
			name:   "one chunk with determiner and adjectives",
			input:  "the slimy green goblin",
			expect: []string{"the slimy green goblin"},
		},
		{
			name:   "chunks split by preposition",
			input:  "big blue cracker in shiny gold chest",
			expect: []string{"big blue cracker", "shiny gold chest"},
		},
		{
			name:   "dangling adjective is not a chunk",
			input:  "goblin at shiny",
			expect: []string{"goblin"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			lx := NewLexicon()
			toks, err := lx.Annotate(context.Background(), tc.input)
			assert.NoError(err)

			var actual []string
			for _, chunk := range lx.NounChunks(toks) {
				var words string
				for i := range chunk {
					if i > 0 {
						words += " "
					}
					words += chunk[i].Text
				}
				actual = append(actual, words)
			}

			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_Lexicon_With(t *testing.T) {
	assert := assert.New(t)

	base := NewLexicon()
	extended := base.With(LexiconFile{
		Adjectives:  []string{"Grumpy"},
		Adpositions: []string{"atop"},
		Nouns:       []string{"gently"},
	})

	assert.Equal(Adjective, extended.Tag("grumpy"))
	assert.Equal(Adposition, extended.Tag("atop"))
	assert.Equal(Noun, extended.Tag("gently"))

	// base is untouched
	assert.Equal(Noun, base.Tag("atop"))
	assert.Equal(Adverb, base.Tag("gently"))
}

func Test_LoadLexiconFile(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	contents := "adjectives:\n  - grumpy\nadpositions:\n  - atop\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))

	lx, err := LoadLexiconFile(path)
	require.NoError(t, err)

	assert.Equal(Adjective, lx.Tag("grumpy"))
	assert.Equal(Adposition, lx.Tag("atop"))
	assert.Equal(Determiner, lx.Tag("the"))
}

func Test_LoadLexiconFile_missing(t *testing.T) {
	_, err := LoadLexiconFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
