package verb

import (
	"context"
	"errors"

	"github.com/dekarrin/tunamud/internal/command"
	"github.com/dekarrin/tunamud/internal/tmerrors"
	"github.com/dekarrin/tunamud/internal/world"
)

// NoExitMessage is the response to moving in a direction with no exit.
const NoExitMessage = "There's no exit in that direction."

var directionAliases = map[string]string{
	"n":  world.North,
	"e":  world.East,
	"s":  world.South,
	"w":  world.West,
	"ne": world.NorthEast,
	"nw": world.NorthWest,
	"se": world.SouthEast,
	"sw": world.SouthWest,
}

// Direction is the handler for every movement verb. Each registered verb, the
// short aliases included, is its own Direction that moves the caller a fixed
// way.
type Direction struct {
	name      string
	direction string
}

// NewDirection creates a Direction invoked by name that moves in the given
// compass direction.
func NewDirection(name, direction string) Direction {
	return Direction{name: name, direction: direction}
}

func (d Direction) Name() string {
	return d.name
}

func (d Direction) Usage() string {
	return d.name
}

func (d Direction) Help() string {
	return "go " + d.direction
}

func (d Direction) ValidatePhraseStructure(nounChunks, linkingWords []string) error {
	if len(nounChunks) > 0 || len(linkingWords) > 0 {
		return tmerrors.BadArguments("Go where?")
	}
	return nil
}

func (d Direction) Execute(ctx context.Context, w world.Store, caller world.Character, p *command.Phrase) (string, error) {
	room, err := w.Move(ctx, caller.ID, d.direction)
	if err != nil {
		if errors.Is(err, tmerrors.ErrBadRoomConnection) {
			return NoExitMessage, nil
		}
		return "", err
	}

	return world.Describe(ctx, w, room.ID, caller.ID)
}
