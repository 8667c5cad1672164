// Package tmerrors contains the error taxonomy used by the TunaMUD command
// interpreter. Every error produced here carries two messages: a technical one
// returned by Error() and a human-readable one meant to be shown to the player,
// obtained with GameMessage.
//
// Each error also wraps one of the sentinel kinds below so callers can branch
// on the kind with errors.Is without caring about the message.
package tmerrors

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownVerb is the kind of error raised when the first word of a
	// command is not a registered verb.
	ErrUnknownVerb = errors.New("unknown verb")

	// ErrBadArguments is the kind of error raised when a verb's structural
	// validator rejects the noun chunks and linking words it was given.
	ErrBadArguments = errors.New("bad arguments")

	// ErrUnknownTarget is the kind of error raised when a noun chunk does not
	// resolve to anything in the world.
	ErrUnknownTarget = errors.New("unknown target")

	// ErrBadRoomConnection is the kind of error raised when a move is
	// attempted in a direction the current room has no exit for.
	ErrBadRoomConnection = errors.New("bad room connection")
)

// interpreterError is an error caused by attempting to interpret input. Either
// the input could not be understood or it specifies doing something that is
// impossible or not allowed at the current time.
type interpreterError struct {
	msg   string
	human string
	kind  error
	wrap  error
}

func (e *interpreterError) Error() string {
	return e.msg
}

// GameMessage shows the message that should be displayed in-game to describe
// the error.
func (e *interpreterError) GameMessage() string {
	return e.human
}

// Unwrap gives the kind of the error along with any error it wraps.
func (e *interpreterError) Unwrap() []error {
	if e.wrap != nil {
		return []error{e.kind, e.wrap}
	}
	return []error{e.kind}
}

func newError(kind, wrap error, game, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("%s: %q", kind.Error(), game)
	}
	return &interpreterError{
		msg:   technical,
		human: game,
		kind:  kind,
		wrap:  wrap,
	}
}

// UnknownVerb returns a new error of kind ErrUnknownVerb for the given verb.
// Its game message is empty; the dispatcher picks its own wording for these.
func UnknownVerb(verb string) error {
	return newError(ErrUnknownVerb, nil, "", fmt.Sprintf("unknown verb: %q", verb))
}

// WrapUnknownVerb is like UnknownVerb but also wraps the error that prevented
// the verb from being recognized, such as an annotator failure.
func WrapUnknownVerb(e error, verb string) error {
	return newError(ErrUnknownVerb, e, "", fmt.Sprintf("unknown verb %q: %v", verb, e))
}

// BadArguments returns a new error of kind ErrBadArguments whose game message
// is exactly msg.
func BadArguments(msg string) error {
	return newError(ErrBadArguments, nil, msg, "")
}

// BadArgumentsf is BadArguments with a format string.
func BadArgumentsf(format string, a ...interface{}) error {
	return BadArguments(fmt.Sprintf(format, a...))
}

// UnknownTarget returns a new error of kind ErrUnknownTarget for a noun chunk
// that matched nothing.
func UnknownTarget(query string) error {
	return newError(ErrUnknownTarget, nil, "", fmt.Sprintf("no target matches %q", query))
}

// BadRoomConnection returns a new error of kind ErrBadRoomConnection for an
// attempt to leave the given room in the given direction.
func BadRoomConnection(roomName, direction string) error {
	return newError(ErrBadRoomConnection, nil, "", fmt.Sprintf("room %q has no exit %q", roomName, direction))
}

// GameMessage gets the message to display to the player for the given error.
// If it is one of the types defined in tmerrors, the special game message is
// returned (which may be empty for kinds whose wording the dispatcher picks).
// Otherwise, err.Error() is returned.
func GameMessage(err error) string {
	var intErr *interpreterError
	if errors.As(err, &intErr) {
		return intErr.GameMessage()
	}
	return err.Error()
}
