// Package serr holds the errors used across the TunaMUD server. Its Error type
// can be created with one or more causes, and errors.Is on it is true for any
// of them.
package serr

import "errors"

var (
	ErrBadCredentials = errors.New("the supplied name/password combination is incorrect")
	ErrNotFound       = errors.New("the requested entity could not be found")
	ErrDB             = errors.New("an error occured with the DB")
	ErrBadArgument    = errors.New("one or more of the arguments is invalid")
	ErrBodyUnmarshal  = errors.New("malformed data in request")
)

// Error is an error with a message and any number of causes. errors.Is(e, c)
// is true for every cause c of e.
//
// If Error has at least one cause, Error() gives its message followed by the
// message of its first cause.
//
// Create one with New or WrapDB.
type Error struct {
	msg   string
	cause []error
}

// Error gives the message of e joined with the message of its first cause. If
// e has no message of its own, only the cause's message is given.
func (e Error) Error() string {
	if e.msg == "" && e.cause != nil {
		return e.cause[0].Error()
	}

	if e.cause != nil {
		return e.msg + ": " + e.cause[0].Error()
	}

	return e.msg
}

// Unwrap returns the causes of e, or nil if it has none.
func (e Error) Unwrap() []error {
	if len(e.cause) > 0 {
		return e.cause
	}
	return nil
}

// Is returns whether target is one of the causes of e.
func (e Error) Is(target error) bool {
	for i := range e.cause {
		if e.cause[i] == target {
			return true
		}
	}
	return false
}

// WrapDB creates a new Error with err and ErrDB as its causes. msg may be left
// as "".
func WrapDB(msg string, err error) Error {
	return Error{
		msg:   msg,
		cause: []error{err, ErrDB},
	}
}

// New creates a new Error with the given message and causes.
func New(msg string, causes ...error) Error {
	err := Error{msg: msg}
	if len(causes) > 0 {
		err.cause = make([]error, len(causes))
		copy(err.cause, causes)
	}
	return err
}
