package annotate

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

var (
	defaultAdpositions = []string{
		"about", "above", "across", "after", "against", "along", "among",
		"around", "at", "before", "behind", "below", "beneath", "beside",
		"between", "beyond", "by", "for", "from", "in", "inside", "into", "near",
		"of", "off", "on", "onto", "outside", "over", "through", "to", "toward",
		"towards", "under", "underneath", "upon", "with", "within", "without",
	}

	defaultDeterminers = []string{
		"a", "an", "the", "this", "that", "these", "those", "my", "your", "his",
		"its", "our", "their", "some", "any", "each", "every",
	}

	defaultAdverbs = []string{
		"again", "almost", "fast", "hard", "here", "just", "now", "quite",
		"rather", "so", "then", "there", "too", "very", "well",
	}

	defaultAdjectives = []string{
		"angry", "bashful", "big", "blue", "bright", "calm", "cheerful", "cruel",
		"dramatic", "evil", "fierce", "gentle", "gleeful", "gold", "golden",
		"good", "green", "happy", "heroic", "joyful", "loud", "mad", "maniac",
		"manic", "nervous", "proud", "quiet", "red", "sad", "shiny", "shy",
		"silly", "slimy", "sly", "small", "smug", "stinky", "sweet", "tired",
		"wicked", "wild",
	}

	defaultPronouns = []string{
		"me", "you", "him", "her", "it", "us", "them", "myself", "yourself",
		"himself", "herself", "itself", "everyone", "everybody", "someone",
	}

	defaultConjunctions = []string{"and", "or", "but", "nor"}

	// nouns that would otherwise be caught by the -ly adverb heuristic.
	defaultNouns = []string{
		"ally", "belly", "bully", "butterfly", "dragonfly", "family", "firefly",
		"fly", "jelly", "lily", "rally",
	}
)

// LexiconFile is the YAML form of a set of lexicon entries. Each list extends
// the word class of the same name; a word listed in a class overrides whatever
// the default lexicon says about it.
type LexiconFile struct {
	Adpositions  []string `yaml:"adpositions"`
	Determiners  []string `yaml:"determiners"`
	Adverbs      []string `yaml:"adverbs"`
	Adjectives   []string `yaml:"adjectives"`
	Nouns        []string `yaml:"nouns"`
	Pronouns     []string `yaml:"pronouns"`
	Conjunctions []string `yaml:"conjunctions"`
	Verbs        []string `yaml:"verbs"`
}

// Lexicon is a rule-based Annotator. Words are looked up in a table of known
// words first; unknown words ending in "-ly" are tagged as adverbs and
// everything else is tagged as a noun.
//
// A Lexicon is immutable once created and may be shared by any number of
// goroutines.
type Lexicon struct {
	words map[string]POS
}

// NewLexicon creates a Lexicon loaded with the default English word lists.
func NewLexicon() *Lexicon {
	lx := &Lexicon{words: make(map[string]POS)}

	lx.addAll(defaultNouns, Noun)
	lx.addAll(defaultAdjectives, Adjective)
	lx.addAll(defaultAdverbs, Adverb)
	lx.addAll(defaultPronouns, Pronoun)
	lx.addAll(defaultConjunctions, Conjunction)
	lx.addAll(defaultDeterminers, Determiner)
	lx.addAll(defaultAdpositions, Adposition)

	return lx
}

// LoadLexiconFile creates a Lexicon from the defaults extended with the
// entries in the YAML file at path.
func LoadLexiconFile(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon file: %w", err)
	}

	var lf LexiconFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return NewLexicon().With(lf), nil
}

// With returns a new Lexicon that has every word of lx plus the entries of lf.
// lx itself is not modified.
func (lx *Lexicon) With(lf LexiconFile) *Lexicon {
	newLx := &Lexicon{words: make(map[string]POS, len(lx.words))}
	for k, v := range lx.words {
		newLx.words[k] = v
	}

	newLx.addAll(lf.Nouns, Noun)
	newLx.addAll(lf.Verbs, Verb)
	newLx.addAll(lf.Adjectives, Adjective)
	newLx.addAll(lf.Adverbs, Adverb)
	newLx.addAll(lf.Pronouns, Pronoun)
	newLx.addAll(lf.Conjunctions, Conjunction)
	newLx.addAll(lf.Determiners, Determiner)
	newLx.addAll(lf.Adpositions, Adposition)

	return newLx
}

func (lx *Lexicon) addAll(words []string, pos POS) {
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		lx.words[w] = pos
	}
}

// Tag gives the part of speech of a single word.
func (lx *Lexicon) Tag(word string) POS {
	lower := strings.ToLower(word)

	if pos, ok := lx.words[lower]; ok {
		return pos
	}

	runes := []rune(lower)
	if len(runes) == 1 && (unicode.IsPunct(runes[0]) || unicode.IsSymbol(runes[0])) {
		return Punctuation
	}

	// "sly" and friends are in the adjective list; anything shorter than four
	// letters is too short to be a real -ly adverb.
	if len(runes) > 3 && strings.HasSuffix(lower, "ly") {
		return Adverb
	}

	return Noun
}

// Annotate splits text into word and punctuation tokens and tags each one.
func (lx *Lexicon) Annotate(ctx context.Context, text string) ([]Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	words := tokenize(text)
	tokens := make([]Token, len(words))
	for i := range words {
		tokens[i] = Token{Text: words[i], POS: lx.Tag(words[i])}
	}

	return tokens, nil
}

// NounChunks finds every run of the form Det? Modifier* Nominal+ in tokens.
func (lx *Lexicon) NounChunks(tokens []Token) [][]Token {
	var chunks [][]Token

	i := 0
	for i < len(tokens) {
		start := i

		if tokens[i].POS == Determiner {
			i++
		}
		for i < len(tokens) && tokens[i].POS.IsModifier() {
			i++
		}

		nounStart := i
		for i < len(tokens) && tokens[i].POS.IsNominal() {
			i++
		}

		if i > nounStart {
			chunk := make([]Token, i-start)
			copy(chunk, tokens[start:i])
			chunks = append(chunks, chunk)
		} else {
			// nothing here starts a noun phrase; move past it.
			i = start + 1
		}
	}

	return chunks
}

// tokenize splits text into words made of letters, digits, apostrophes and
// hyphens, with every punctuation rune as a token of its own.
func tokenize(text string) []string {
	var tokens []string
	var sb strings.Builder

	flush := func() {
		if sb.Len() > 0 {
			tokens = append(tokens, sb.String())
			sb.Reset()
		}
	}

	for _, ch := range text {
		if unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '\'' || ch == '-' {
			sb.WriteRune(ch)
			continue
		}

		flush()
		if unicode.IsPunct(ch) || unicode.IsSymbol(ch) {
			tokens = append(tokens, string(ch))
		}
	}
	flush()

	return tokens
}
