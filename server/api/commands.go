package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/dekarrin/tunamud/internal/transcript"
	"github.com/dekarrin/tunamud/internal/world"
	"github.com/dekarrin/tunamud/server/middle"
	"github.com/dekarrin/tunamud/server/result"
	"go.uber.org/zap"
)

// HTTPCreateCommand returns a HandlerFunc that runs one command for the
// logged-in character and gives back the response to it. The response is an
// HTTP-201 with the recorded entry, or an HTTP-200 without ID or creation time
// if the command ran but could not be recorded.
//
// The context of the request must hold the logged-in character, as set by
// middle.RequireAuth.
func (api API) HTTPCreateCommand() http.HandlerFunc {
	return api.Endpoint(api.epCreateCommand)
}

func (api API) epCreateCommand(req *http.Request) result.Result {
	caller := req.Context().Value(middle.AuthCharacter).(world.Character)

	var cmd CommandRequest
	if err := parseJSON(req, &cmd); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if strings.TrimSpace(cmd.Input) == "" {
		return result.BadRequest("input: property is empty or missing from request", "empty input")
	}

	entry, err := api.Backend.RunCommand(req.Context(), caller, []byte(cmd.Input))
	if err != nil {
		// the command has already happened, so the player still gets its
		// response; it just has no place in the history.
		api.logger().Error("could not record command", zap.String("character", caller.Name), zap.Error(err))
		return result.OK(commandModel(entry), "character '%s' ran %q without recording it", caller.Name, entry.Input)
	}

	return result.Created(commandModel(entry), "character '%s' ran %q", caller.Name, entry.Input)
}

// HTTPGetAllCommands returns a HandlerFunc that gives every command the
// logged-in character has run.
//
// The context of the request must hold the logged-in character, as set by
// middle.RequireAuth.
func (api API) HTTPGetAllCommands() http.HandlerFunc {
	return api.Endpoint(api.epGetAllCommands)
}

func (api API) epGetAllCommands(req *http.Request) result.Result {
	caller := req.Context().Value(middle.AuthCharacter).(world.Character)

	history, err := api.Backend.History(req.Context(), caller.ID)
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp := make([]CommandModel, len(history))
	for i := range history {
		resp[i] = commandModel(history[i])
	}

	return result.OK(resp, "character '%s' got %d command(s)", caller.Name, len(resp))
}

func commandModel(e transcript.Entry) CommandModel {
	m := CommandModel{
		Input:  e.Input,
		Output: e.Output,
	}
	if !e.Created.IsZero() {
		m.ID = e.ID.String()
		m.Created = e.Created.UTC().Format(time.RFC3339)
	}
	return m
}
