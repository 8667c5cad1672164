package api

import (
	"net/http"

	"github.com/dekarrin/tunamud/internal/version"
	"github.com/dekarrin/tunamud/internal/world"
	"github.com/dekarrin/tunamud/server/middle"
	"github.com/dekarrin/tunamud/server/result"
)

// HTTPGetInfo returns a HandlerFunc that retrieves information on the API and
// server.
//
// The context of the request must say whether the client is logged in, as
// set by middle.OptionalAuth.
func (api API) HTTPGetInfo() http.HandlerFunc {
	return api.Endpoint(api.epGetInfo)
}

func (api API) epGetInfo(req *http.Request) result.Result {
	loggedIn, _ := req.Context().Value(middle.AuthLoggedIn).(bool)

	var resp InfoModel
	resp.Version.Server = version.ServerCurrent
	resp.Version.TunaMUD = version.Current

	clientStr := "unauthed client"
	if loggedIn {
		c := req.Context().Value(middle.AuthCharacter).(world.Character)
		clientStr = "character '" + c.Name + "'"
	}
	return result.OK(resp, "%s got API info", clientStr)
}
