// Package verb contains the handlers for every verb players can use and the
// table that registers them.
package verb

import (
	"context"
	"fmt"

	"github.com/dekarrin/tunamud/internal/command"
	"github.com/dekarrin/tunamud/internal/tmerrors"
	"github.com/dekarrin/tunamud/internal/world"
)

// Helper is implemented by handlers that can describe themselves for HELP.
type Helper interface {
	// Usage is how the verb is typed, e.g. "PUT something IN something".
	Usage() string

	// Help is a one-line description of what the verb does.
	Help() string
}

// NewRegistry creates the registry of every verb in the game. Adding a verb
// means adding it here.
func NewRegistry() (*command.Registry, error) {
	help := &Help{}

	entries := []command.Entry{
		command.Action(Look{}),
		command.Action(Kill{}),
		command.Action(Put{}),
		command.Action(Exits{}),
		command.Action(help),
	}

	for _, d := range world.Directions {
		entries = append(entries, command.Action(NewDirection(d, d)))
	}
	for alias, d := range directionAliases {
		entries = append(entries, command.Action(NewDirection(alias, d)))
	}

	for _, e := range emotes {
		entries = append(entries, command.Emote(e))
	}

	reg, err := command.NewRegistry(entries...)
	if err != nil {
		return nil, fmt.Errorf("build verb registry: %w", err)
	}

	help.registry = reg
	return reg, nil
}

// resolveTarget finds the first entity in the caller's room, the caller
// included, whose short description contains query.
func resolveTarget(ctx context.Context, w world.Store, caller world.Character, query string) (world.Entity, error) {
	matches, err := w.MatchShortDescription(ctx, caller.Location, query)
	if err != nil {
		return world.Entity{}, fmt.Errorf("match %q: %w", query, err)
	}
	if len(matches) < 1 {
		return world.Entity{}, tmerrors.UnknownTarget(query)
	}

	return matches[0], nil
}

// describeTarget gives how a target is named in output, which is "yourself"
// if the caller is the target.
func describeTarget(caller world.Character, target world.Entity) string {
	if target.ID == caller.ID {
		return "yourself"
	}
	return target.ShortDesc
}
