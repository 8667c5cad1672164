// Package token issues and checks the JWTs that characters use to
// authenticate with the server.
package token

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dekarrin/tunamud/internal/world"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Issuer is the issuer set on and required of every token.
const Issuer = "tunamud"

// Lifetime is how long a token stays valid after it is issued.
const Lifetime = time.Hour

// QueryParam is the URL query parameter a token may be given in when the
// client cannot set headers, as with browser websockets.
const QueryParam = "token"

// CharacterGetter looks characters up by ID.
type CharacterGetter interface {
	Character(ctx context.Context, id uuid.UUID) (world.Character, error)
}

// Generate issues a new token for c signed with secret.
func Generate(secret []byte, c world.Character) (string, error) {
	claims := &jwt.MapClaims{
		"iss":        Issuer,
		"exp":        time.Now().Add(Lifetime).Unix(),
		"sub":        c.ID.String(),
		"authorized": true,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)

	tokStr, err := tok.SignedString(signKey(secret, c))
	if err != nil {
		return "", err
	}
	return tokStr, nil
}

// Validate checks tok and returns the character it was issued to.
func Validate(ctx context.Context, tok string, secret []byte, chars CharacterGetter) (world.Character, error) {
	var c world.Character

	_, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		// the key depends on who the subject is, so look them up first.
		subj, err := t.Claims.GetSubject()
		if err != nil {
			return nil, fmt.Errorf("cannot get subject: %w", err)
		}

		id, err := uuid.Parse(subj)
		if err != nil {
			return nil, fmt.Errorf("cannot parse subject UUID: %w", err)
		}

		c, err = chars.Character(ctx, id)
		if err != nil {
			if errors.Is(err, world.ErrNotFound) {
				return nil, fmt.Errorf("subject does not exist")
			}
			return nil, fmt.Errorf("subject could not be validated")
		}

		return signKey(secret, c), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer(Issuer), jwt.WithLeeway(time.Minute))

	if err != nil {
		return world.Character{}, err
	}

	return c, nil
}

// Get gives the token in the Authorization header of req, or if there is no
// such header, the one in the QueryParam of its URL.
func Get(req *http.Request) (string, error) {
	authHeader := strings.TrimSpace(req.Header.Get("Authorization"))

	if authHeader == "" {
		if tok := strings.TrimSpace(req.URL.Query().Get(QueryParam)); tok != "" {
			return tok, nil
		}
		return "", fmt.Errorf("no authorization header present")
	}

	authParts := strings.SplitN(authHeader, " ", 2)
	if len(authParts) != 2 {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	scheme := strings.TrimSpace(strings.ToLower(authParts[0]))
	token := strings.TrimSpace(authParts[1])

	if scheme != "bearer" {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	return token, nil
}

// signKey ties a token to the character's current password hash.
func signKey(secret []byte, c world.Character) []byte {
	var key []byte
	key = append(key, secret...)
	key = append(key, []byte(c.PasswordHash)...)
	return key
}
