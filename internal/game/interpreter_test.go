package game

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/dekarrin/tunamud/internal/annotate"
	"github.com/dekarrin/tunamud/internal/command"
	"github.com/dekarrin/tunamud/internal/verb"
	"github.com/dekarrin/tunamud/internal/world"
	"github.com/dekarrin/tunamud/internal/world/inmem"
	"github.com/dekarrin/tunamud/internal/world/worldtest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestInterpreter(t *testing.T) (*Interpreter, worldtest.Fixture) {
	reg, err := verb.NewRegistry()
	require.NoError(t, err)

	s := inmem.NewStore()
	fx := worldtest.Populate(t, s)

	return New(command.NewBuilder(annotate.NewLexicon(), reg), s, zap.NewNop()), fx
}

func pinned(idx int) func(int) int {
	return func(n int) int { return idx }
}

func Test_Interpreter_Handle(t *testing.T) {
	testCases := []struct {
		name   string
		input  []byte
		pick   int
		expect string
	}{
		{name: "empty input", input: []byte{}, expect: ""},
		{name: "whitespace only", input: []byte(" \t\r\n"), expect: ""},
		{name: "byte order mark only", input: []byte("\xef\xbb\xbf"), expect: ""},
		{name: "unknown verb", input: []byte("rawriamadinosaur"), pick: 2, expect: "Come again?"},
		{name: "unknown verb gets other pick", input: []byte("rawriamadinosaur"), pick: 0, expect: "I'm sorry, what?"},
		{name: "bad arguments are verbatim", input: []byte("put big blue cracker"), expect: "Put big blue cracker where?"},
		{name: "direction with argument", input: []byte("north door"), expect: "Go where?"},
		{name: "unknown target", input: []byte("look unknowncharacter"), pick: 1, expect: "Couldn't find that."},
		{name: "known target", input: []byte("look testcharacter"), expect: "A test character."},
		{name: "mixed case", input: []byte("LOOK TestCharacter"), expect: "A test character."},
		{name: "byte order mark is dropped", input: []byte("\xef\xbb\xbflook testcharacter\r\n"), expect: "A test character."},
		{name: "no exit", input: []byte("west"), expect: verb.NoExitMessage},
		{name: "emote", input: []byte("laugh maniac at the goblin"), expect: "You laugh maniacally at a stinky green goblin."},
		{name: "emote with unlisted adjective", input: []byte("laugh hysteric"), expect: "You laugh hysterically."},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			in, fx := newTestInterpreter(t)
			in.Rand = pinned(tc.pick)

			actual := in.Handle(context.Background(), fx.Player, tc.input)

			assert.Equal(VerbResponse{Payload: tc.expect, CallerID: fx.Player.ID}, actual)
		})
	}
}

func Test_Interpreter_Handle_unknownVerbsOnlyUsePool(t *testing.T) {
	in, fx := newTestInterpreter(t)
	in.Rand = nil
	rng := rand.New(rand.NewSource(1))

	const letters = "abcdefghijklmnopqrstuvwxyz"

	for i := 0; i < 10000; i++ {
		// the zq prefix keeps the word from ever being a real verb.
		var sb strings.Builder
		sb.WriteString("zq")
		for n := rng.Intn(10); n > 0; n-- {
			sb.WriteByte(letters[rng.Intn(len(letters))])
		}
		if rng.Intn(2) == 0 {
			sb.WriteString(" at the goblin")
		}

		resp := in.Handle(context.Background(), fx.Player, []byte(sb.String()))

		if !assert.Contains(t, PhraseErrorMessages, resp.Payload, "input %q", sb.String()) {
			return
		}
	}
}

func Test_Interpreter_Handle_followsCaller(t *testing.T) {
	assert := assert.New(t)
	in, fx := newTestInterpreter(t)
	ctx := context.Background()

	resp := in.Handle(ctx, fx.Player, []byte("n"))
	assert.True(strings.HasPrefix(resp.Payload, "Kitchen\n"), "payload: %q", resp.Payload)

	// fx.Player still says the hall; the interpreter must not trust it.
	resp = in.Handle(ctx, fx.Player, []byte("look spoon"))
	assert.Equal("You see nothing special about a wooden spoon.", resp.Payload)
}

func Test_Interpreter_Handle_unknownCaller(t *testing.T) {
	in, _ := newTestInterpreter(t)
	ghost := world.Character{Entity: world.Entity{ID: uuid.New()}}

	resp := in.Handle(context.Background(), ghost, []byte("look"))

	assert.Equal(t, VerbResponse{Payload: InternalErrorMessage, CallerID: ghost.ID}, resp)
}

type brokenHandler struct{}

func (brokenHandler) Name() string { return "explode" }

func (brokenHandler) ValidatePhraseStructure(nounChunks, linkingWords []string) error {
	return nil
}

func (brokenHandler) Execute(ctx context.Context, w world.Store, caller world.Character, p *command.Phrase) (string, error) {
	return "", errors.New("database is on fire")
}

func Test_Interpreter_Handle_internalErrorIsHidden(t *testing.T) {
	assert := assert.New(t)

	reg, err := command.NewRegistry(command.Action(brokenHandler{}))
	require.NoError(t, err)
	s := inmem.NewStore()
	fx := worldtest.Populate(t, s)
	in := New(command.NewBuilder(annotate.NewLexicon(), reg), s, nil)

	resp := in.Handle(context.Background(), fx.Player, []byte("explode"))

	assert.Equal(InternalErrorMessage, resp.Payload)
	assert.NotContains(resp.Payload, "fire")
}

func Test_Terminate(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect string
	}{
		{name: "empty", input: "", expect: "\r\n"},
		{name: "no terminator", input: "Come again?", expect: "Come again?\r\n"},
		{name: "already terminated", input: "Come again?\r\n", expect: "Come again?\r\n"},
		{name: "bare newline is upgraded", input: "Come again?\n", expect: "Come again?\r\n"},
		{name: "inner newlines are kept", input: "Hall\nExits: north.", expect: "Hall\nExits: north.\r\n"},
		{name: "lone carriage return", input: "hi\r", expect: "hi\r\r\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, []byte(tc.expect), Terminate(tc.input))
		})
	}
}
