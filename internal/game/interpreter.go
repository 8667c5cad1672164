// Package game contains the dispatcher that takes lines of player input all
// the way to the text sent back to the player.
package game

import (
	"context"
	"errors"
	"math/rand"
	"strings"

	"github.com/dekarrin/tunamud/internal/command"
	"github.com/dekarrin/tunamud/internal/tmerrors"
	"github.com/dekarrin/tunamud/internal/world"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"
)

var (
	// PhraseErrorMessages are the responses to input that does not start with
	// a known verb.
	PhraseErrorMessages = []string{
		"I'm sorry, what?",
		"I don't understand what you want.",
		"Come again?",
		"Please try to be more coherent.",
	}

	// TargetErrorMessages are the responses to a command about something that
	// isn't there.
	TargetErrorMessages = []string{
		"You don't see that here.",
		"Couldn't find that.",
		"Nothing by that description is around.",
		"Look again; it isn't here.",
	}
)

// InternalErrorMessage is the response when a command fails for a reason that
// has nothing to do with what the player typed.
const InternalErrorMessage = "Something went wrong. Try again."

// VerbResponse is the result of handling one line of input.
type VerbResponse struct {
	// Payload is the text to send back, without a line terminator. It is empty
	// only when the input was blank.
	Payload string

	// CallerID is the ID of the character who sent the input.
	CallerID uuid.UUID
}

// Interpreter handles lines of input from players. It is safe for concurrent
// use so long as Rand is.
type Interpreter struct {
	Builder *command.Builder
	World   world.Store

	// Log receives debug output about rejected input and warnings about
	// failed commands. If nil, nothing is logged.
	Log *zap.Logger

	// Rand picks a message out of a pool of n messages. If nil, math/rand is
	// used.
	Rand func(n int) int
}

// New creates an Interpreter that builds phrases with b and runs them against
// w.
func New(b *command.Builder, w world.Store, log *zap.Logger) *Interpreter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Interpreter{
		Builder: b,
		World:   w,
		Log:     log,
	}
}

// Handle interprets one line of input from caller and gives the response to
// it. It never fails; every problem is turned into a message for the player.
func (in *Interpreter) Handle(ctx context.Context, caller world.Character, raw []byte) VerbResponse {
	resp := VerbResponse{CallerID: caller.ID}

	text := strings.TrimSpace(decodeInput(raw))
	if text == "" {
		return resp
	}

	log := in.logger().With(zap.String("caller", caller.ID.String()), zap.String("input", text))

	p, err := in.Builder.Build(ctx, text)
	if err != nil {
		switch {
		case errors.Is(err, tmerrors.ErrUnknownVerb):
			log.Debug("could not parse input", zap.Error(err))
			resp.Payload = in.pick(PhraseErrorMessages)
		case errors.Is(err, tmerrors.ErrBadArguments):
			resp.Payload = tmerrors.GameMessage(err)
		default:
			log.Warn("building phrase failed", zap.Error(err))
			resp.Payload = InternalErrorMessage
		}
		return resp
	}

	// the caller may have moved since the value we were given was read.
	current, err := in.World.Character(ctx, caller.ID)
	if err != nil {
		log.Warn("could not refresh caller", zap.Error(err))
		resp.Payload = InternalErrorMessage
		return resp
	}

	out, err := p.Handler.Execute(ctx, in.World, current, p)
	if err != nil {
		switch {
		case errors.Is(err, tmerrors.ErrUnknownTarget):
			log.Debug("target not found", zap.Error(err))
			resp.Payload = in.pick(TargetErrorMessages)
		case errors.Is(err, tmerrors.ErrBadArguments):
			resp.Payload = tmerrors.GameMessage(err)
		default:
			log.Warn("command failed", zap.String("verb", p.Verb), zap.Error(err))
			resp.Payload = InternalErrorMessage
		}
		return resp
	}

	resp.Payload = out
	return resp
}

func (in *Interpreter) logger() *zap.Logger {
	if in.Log == nil {
		return zap.NewNop()
	}
	return in.Log
}

func (in *Interpreter) pick(pool []string) string {
	pickFn := in.Rand
	if pickFn == nil {
		pickFn = rand.Intn
	}
	return pool[pickFn(len(pool))]
}

// decodeInput reads raw as UTF-8, dropping a leading byte order mark and
// replacing invalid bytes.
func decodeInput(raw []byte) string {
	decoded, err := unicode.UTF8BOM.NewDecoder().Bytes(raw)
	if err != nil {
		return strings.ToValidUTF8(string(raw), "\uFFFD")
	}
	return string(decoded)
}
