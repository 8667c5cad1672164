package world_test

import (
	"context"
	"testing"

	"github.com/dekarrin/tunamud/internal/world"
	"github.com/dekarrin/tunamud/internal/world/inmem"
	"github.com/dekarrin/tunamud/internal/world/worldtest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func Test_Describe(t *testing.T) {
	s := inmem.NewStore()
	fx := worldtest.Populate(t, s)

	testCases := []struct {
		name   string
		room   uuid.UUID
		viewer uuid.UUID
		expect string
	}{
		{
			name:   "viewer is left out",
			room:   fx.Hall.ID,
			viewer: fx.Player.ID,
			expect: "Great Hall\n" +
				"A drafty hall.\n" +
				"Exits: north and east.\n" +
				"You see a stinky green goblin and a shiny gold chest.",
		},
		{
			name:   "no viewer",
			room:   fx.Hall.ID,
			viewer: uuid.Nil,
			expect: "Great Hall\n" +
				"A drafty hall.\n" +
				"Exits: north and east.\n" +
				"You see a stinky green goblin, a shiny gold chest, and a testcharacter.",
		},
		{
			name:   "no description, exits, or contents",
			room:   fx.Garden.ID,
			viewer: fx.Player.ID,
			expect: "Garden\n" +
				"There are no obvious exits.",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := world.Describe(context.Background(), s, tc.room, tc.viewer)

			assert.NoError(err)
			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_Describe_missingRoom(t *testing.T) {
	_, err := world.Describe(context.Background(), inmem.NewStore(), uuid.New(), uuid.Nil)
	assert.ErrorIs(t, err, world.ErrNotFound)
}

func Test_Opposite(t *testing.T) {
	testCases := []struct {
		input  string
		expect string
	}{
		{input: world.North, expect: world.South},
		{input: "NorthEast", expect: world.SouthWest},
		{input: world.West, expect: world.East},
		{input: "up", expect: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expect, world.Opposite(tc.input))
		})
	}
}

func Test_SortExits(t *testing.T) {
	assert := assert.New(t)

	input := []world.Exit{
		{Direction: "portal"},
		{Direction: world.West},
		{Direction: world.North},
		{Direction: world.SouthEast},
	}

	actual := world.SortExits(input)

	assert.Equal([]world.Exit{
		{Direction: world.North},
		{Direction: world.SouthEast},
		{Direction: world.West},
		{Direction: "portal"},
	}, actual)
	assert.Equal("portal", input[0].Direction, "input must not be reordered")
}
