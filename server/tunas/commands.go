package tunas

import (
	"context"
	"strings"

	"github.com/dekarrin/tunamud/internal/transcript"
	"github.com/dekarrin/tunamud/internal/world"
	"github.com/dekarrin/tunamud/server/serr"
	"github.com/google/uuid"
)

// RunCommand interprets one line of input from caller and records it in the
// transcript. Blank input gets a blank response and is not recorded.
//
// The returned error is only non-nil when the transcript could not be
// written, in which case it matches serr.ErrDB.
func (svc Service) RunCommand(ctx context.Context, caller world.Character, input []byte) (transcript.Entry, error) {
	resp := svc.Interpreter.Handle(ctx, caller, input)

	entry := transcript.Entry{
		CallerID: resp.CallerID,
		Input:    strings.TrimSpace(string(input)),
		Output:   resp.Payload,
	}
	if resp.Payload == "" {
		return entry, nil
	}

	recorded, err := svc.Transcript.Create(ctx, entry)
	if err != nil {
		return entry, serr.WrapDB("could not record command", err)
	}
	return recorded, nil
}

// History returns every command the character with the given ID has run,
// oldest first.
func (svc Service) History(ctx context.Context, callerID uuid.UUID) ([]transcript.Entry, error) {
	all, err := svc.Transcript.GetAllByCaller(ctx, callerID)
	if err != nil {
		return nil, serr.WrapDB("could not get history", err)
	}
	return all, nil
}
