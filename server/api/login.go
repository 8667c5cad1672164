package api

import (
	"errors"
	"net/http"

	"github.com/dekarrin/tunamud/server/result"
	"github.com/dekarrin/tunamud/server/serr"
	"github.com/dekarrin/tunamud/server/token"
)

// HTTPCreateLogin returns a HandlerFunc that logs in a character with a name
// and password and returns the auth token for that character.
func (api API) HTTPCreateLogin() http.HandlerFunc {
	return api.Endpoint(api.epCreateLogin)
}

func (api API) epCreateLogin(req *http.Request) result.Result {
	loginData := LoginRequest{}
	err := parseJSON(req, &loginData)
	if err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	if loginData.Name == "" {
		return result.BadRequest("name: property is empty or missing from request", "empty name")
	}
	if loginData.Password == "" {
		return result.BadRequest("password: property is empty or missing from request", "empty password")
	}

	c, err := api.Backend.Login(req.Context(), loginData.Name, loginData.Password)
	if err != nil {
		if errors.Is(err, serr.ErrBadCredentials) {
			return result.Unauthorized(serr.ErrBadCredentials.Error(), "character '%s': %s", loginData.Name, err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	tok, err := token.Generate(api.Secret, c)
	if err != nil {
		return result.InternalServerError("could not generate JWT: " + err.Error())
	}

	resp := LoginResponse{
		Token:       tok,
		CharacterID: c.ID.String(),
	}
	return result.Created(resp, "character '%s' successfully logged in", c.Name)
}
