package world

import (
	"context"
	"fmt"
	"strings"

	"github.com/dekarrin/tunamud/internal/util"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Describe gives the full description of a room as a player standing in it
// would see it: the name of the room, its description, the exits out of it,
// and everything in it except for the viewer. viewerID may be uuid.Nil.
func Describe(ctx context.Context, s Store, roomID, viewerID uuid.UUID) (string, error) {
	room, err := s.Room(ctx, roomID)
	if err != nil {
		return "", fmt.Errorf("get room: %w", err)
	}

	exits, err := s.Exits(ctx, roomID)
	if err != nil {
		return "", fmt.Errorf("get exits: %w", err)
	}

	contents, err := s.EntitiesIn(ctx, roomID)
	if err != nil {
		return "", fmt.Errorf("get room contents: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(cases.Title(language.English).String(room.Name))
	if room.Description != "" {
		sb.WriteString("\n")
		sb.WriteString(room.Description)
	}

	sb.WriteString("\n")
	sb.WriteString(DescribeExits(exits))

	var seen []string
	for _, e := range contents {
		if e.ID == viewerID {
			continue
		}
		seen = append(seen, e.ShortDesc)
	}
	if len(seen) > 0 {
		sb.WriteString("\nYou see ")
		sb.WriteString(util.MakeTextList(seen, true))
		sb.WriteString(".")
	}

	return sb.String(), nil
}

// DescribeExits gives the line listing the given exits.
func DescribeExits(exits []Exit) string {
	if len(exits) < 1 {
		return "There are no obvious exits."
	}

	dirs := make([]string, len(exits))
	for i := range exits {
		dirs[i] = exits[i].Direction
	}
	return "Exits: " + util.MakeTextList(dirs, false) + "."
}
