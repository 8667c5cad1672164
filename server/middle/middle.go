// Package middle contains middleware for use with the TunaMUD server.
package middle

import (
	"context"
	"net/http"
	"time"

	"github.com/dekarrin/tunamud/internal/world"
	"github.com/dekarrin/tunamud/server/result"
	"github.com/dekarrin/tunamud/server/token"
)

// Middleware is a function that takes a handler and returns a new handler which
// wraps the given one and provides some additional functionality.
type Middleware func(next http.Handler) http.Handler

// AuthKey is a key in the context of a request populated by an AuthHandler.
type AuthKey int64

const (
	AuthLoggedIn AuthKey = iota
	AuthCharacter
)

// AuthHandler is middleware that extracts the token from a request and looks
// up the character it was issued to.
//
// AuthCharacter in the context of the request passed on holds that character,
// and AuthLoggedIn holds whether there was one. Only optional auth ever
// passes on a request that is not logged in.
type AuthHandler struct {
	chars         token.CharacterGetter
	secret        []byte
	required      bool
	unauthedDelay time.Duration
	next          http.Handler
}

func (ah *AuthHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	var loggedIn bool
	var caller world.Character

	tok, err := token.Get(req)
	if err == nil {
		caller, err = token.Validate(req.Context(), tok, ah.secret, ah.chars)
		loggedIn = err == nil
	}

	if !loggedIn && ah.required {
		r := result.Unauthorized("", err.Error())
		time.Sleep(ah.unauthedDelay)
		r.WriteResponse(w)
		return
	}

	ctx := req.Context()
	ctx = context.WithValue(ctx, AuthLoggedIn, loggedIn)
	ctx = context.WithValue(ctx, AuthCharacter, caller)
	req = req.WithContext(ctx)
	ah.next.ServeHTTP(w, req)
}

// RequireAuth gives Middleware that rejects requests without a valid token
// with an HTTP-401, after waiting unauthDelay.
func RequireAuth(chars token.CharacterGetter, secret []byte, unauthDelay time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return &AuthHandler{
			chars:         chars,
			secret:        secret,
			unauthedDelay: unauthDelay,
			required:      true,
			next:          next,
		}
	}
}

// OptionalAuth gives Middleware that passes on every request, logged in or
// not.
func OptionalAuth(chars token.CharacterGetter, secret []byte, unauthDelay time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return &AuthHandler{
			chars:         chars,
			secret:        secret,
			unauthedDelay: unauthDelay,
			required:      false,
			next:          next,
		}
	}
}
