package tunas

import (
	"context"
	"encoding/base64"
	"errors"

	"github.com/dekarrin/tunamud/internal/world"
	"github.com/dekarrin/tunamud/server/serr"
	"golang.org/x/crypto/bcrypt"
)

// Login verifies the provided name and password against the character with
// that name and returns the character if they match.
//
// If the credentials do not match a character that can log in, the returned
// error matches serr.ErrBadCredentials. If the error occured due to an
// unexpected problem with the DB, it will match serr.ErrDB.
func (svc Service) Login(ctx context.Context, name string, password string) (world.Character, error) {
	c, err := svc.World.CharacterByName(ctx, name)
	if err != nil {
		if errors.Is(err, world.ErrNotFound) {
			return world.Character{}, serr.ErrBadCredentials
		}
		return world.Character{}, serr.WrapDB("", err)
	}

	// characters without a password are only playable from the console.
	if c.PasswordHash == "" {
		return world.Character{}, serr.ErrBadCredentials
	}

	bcryptHash, err := base64.StdEncoding.DecodeString(c.PasswordHash)
	if err != nil {
		return world.Character{}, serr.New("stored password hash is corrupt", err)
	}

	err = bcrypt.CompareHashAndPassword(bcryptHash, []byte(password))
	if err != nil {
		if err == bcrypt.ErrMismatchedHashAndPassword {
			return world.Character{}, serr.ErrBadCredentials
		}
		return world.Character{}, serr.New("could not check password", err)
	}

	return c, nil
}
