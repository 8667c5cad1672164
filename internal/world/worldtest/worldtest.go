// Package worldtest contains a suite of behavior tests that every world.Store
// implementation must pass, so that the backends stay interchangeable.
package worldtest

import (
	"context"
	"testing"

	"github.com/dekarrin/tunamud/internal/tmerrors"
	"github.com/dekarrin/tunamud/internal/world"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fixture is the small world built by Populate.
type Fixture struct {
	Hall    world.Room
	Kitchen world.Room
	Garden  world.Room

	Goblin  world.Entity
	Chest   world.Entity
	Spoon   world.Entity
	Player  world.Character
	Visitor world.Character
}

// Populate fills s with a hall, a kitchen to its north, and a garden to its
// east that cannot be returned from.
func Populate(t *testing.T, s world.Store) Fixture {
	ctx := context.Background()
	var fx Fixture
	var err error

	fx.Hall, err = s.CreateRoom(ctx, world.Room{Name: "great hall", Description: "A drafty hall."})
	require.NoError(t, err)
	fx.Kitchen, err = s.CreateRoom(ctx, world.Room{Name: "kitchen", Description: "It smells of onions."})
	require.NoError(t, err)
	fx.Garden, err = s.CreateRoom(ctx, world.Room{Name: "garden"})
	require.NoError(t, err)

	require.NoError(t, s.ConnectRooms(ctx, fx.Hall.ID, fx.Kitchen.ID, world.North))
	require.NoError(t, s.ConnectRooms(ctx, fx.Kitchen.ID, fx.Hall.ID, world.South))
	require.NoError(t, s.ConnectRooms(ctx, fx.Hall.ID, fx.Garden.ID, world.East))

	fx.Goblin, err = s.CreateEntity(ctx, world.Entity{
		Kind:      world.KindMobile,
		ShortDesc: "a stinky green goblin",
		LongDesc:  "It is very green and very stinky.",
		Location:  fx.Hall.ID,
	})
	require.NoError(t, err)
	fx.Chest, err = s.CreateEntity(ctx, world.Entity{
		Kind:      world.KindObject,
		ShortDesc: "a shiny gold chest",
		LongDesc:  "Gold, and shiny.",
		Location:  fx.Hall.ID,
	})
	require.NoError(t, err)
	fx.Spoon, err = s.CreateEntity(ctx, world.Entity{
		Kind:      world.KindObject,
		ShortDesc: "a wooden spoon",
		Location:  fx.Kitchen.ID,
	})
	require.NoError(t, err)

	fx.Player, err = s.CreateCharacter(ctx, world.Character{
		Entity: world.Entity{
			ShortDesc: "testcharacter",
			LongDesc:  "A test character.",
			Location:  fx.Hall.ID,
		},
		Name: "Tester",
	})
	require.NoError(t, err)
	fx.Visitor, err = s.CreateCharacter(ctx, world.Character{
		Entity: world.Entity{
			ShortDesc: "a green visitor",
			Location:  fx.Kitchen.ID,
		},
		Name: "visitor",
	})
	require.NoError(t, err)

	return fx
}

// Run runs the full Store suite. newStore must return a new, empty store each
// time it is called; the suite closes it.
func Run(t *testing.T, newStore func(t *testing.T) world.Store) {
	t.Run("Room", func(t *testing.T) {
		assert := assert.New(t)
		s := newStore(t)
		defer s.Close()
		fx := Populate(t, s)

		actual, err := s.Room(context.Background(), fx.Kitchen.ID)
		assert.NoError(err)
		assert.Equal(fx.Kitchen, actual)

		_, err = s.Room(context.Background(), uuid.New())
		assert.ErrorIs(err, world.ErrNotFound)
	})

	t.Run("ConnectRooms rejects duplicate direction", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()
		fx := Populate(t, s)

		err := s.ConnectRooms(context.Background(), fx.Hall.ID, fx.Garden.ID, world.North)
		assert.ErrorIs(t, err, world.ErrConstraintViolation)
	})

	t.Run("CreateCharacter rejects duplicate name", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()
		fx := Populate(t, s)

		_, err := s.CreateCharacter(context.Background(), world.Character{
			Entity: world.Entity{ShortDesc: "another tester", Location: fx.Hall.ID},
			Name:   "tester",
		})
		assert.ErrorIs(t, err, world.ErrConstraintViolation)
	})

	t.Run("Character and CharacterByName", func(t *testing.T) {
		assert := assert.New(t)
		s := newStore(t)
		defer s.Close()
		fx := Populate(t, s)

		byID, err := s.Character(context.Background(), fx.Player.ID)
		assert.NoError(err)
		assert.Equal(fx.Player, byID)
		assert.Equal(world.KindCharacter, byID.Kind)

		byName, err := s.CharacterByName(context.Background(), "TESTER")
		assert.NoError(err)
		assert.Equal(fx.Player, byName)

		_, err = s.CharacterByName(context.Background(), "nobody")
		assert.ErrorIs(err, world.ErrNotFound)

		ent, err := s.Entity(context.Background(), fx.Player.ID)
		assert.NoError(err)
		assert.Equal(fx.Player.Entity, ent)
	})

	t.Run("Exits are in compass order", func(t *testing.T) {
		assert := assert.New(t)
		s := newStore(t)
		defer s.Close()
		fx := Populate(t, s)

		exits, err := s.Exits(context.Background(), fx.Hall.ID)
		assert.NoError(err)
		assert.Equal([]world.Exit{
			{From: fx.Hall.ID, To: fx.Kitchen.ID, Direction: world.North},
			{From: fx.Hall.ID, To: fx.Garden.ID, Direction: world.East},
		}, exits)

		exits, err = s.Exits(context.Background(), fx.Garden.ID)
		assert.NoError(err)
		assert.Empty(exits)
	})

	t.Run("EntitiesIn keeps creation order", func(t *testing.T) {
		assert := assert.New(t)
		s := newStore(t)
		defer s.Close()
		fx := Populate(t, s)

		ents, err := s.EntitiesIn(context.Background(), fx.Hall.ID)
		assert.NoError(err)
		assert.Equal([]world.Entity{fx.Goblin, fx.Chest, fx.Player.Entity}, ents)
	})

	t.Run("MatchShortDescription", func(t *testing.T) {
		testCases := []struct {
			name   string
			query  string
			expect func(fx Fixture) []world.Entity
		}{
			{
				name:   "exact",
				query:  "a wooden spoon",
				expect: func(fx Fixture) []world.Entity { return nil },
			},
			{
				name:   "substring",
				query:  "goblin",
				expect: func(fx Fixture) []world.Entity { return []world.Entity{fx.Goblin} },
			},
			{
				name:   "case is ignored",
				query:  "SHINY Gold",
				expect: func(fx Fixture) []world.Entity { return []world.Entity{fx.Chest} },
			},
			{
				name:   "several matches in creation order",
				query:  "a s",
				expect: func(fx Fixture) []world.Entity { return []world.Entity{fx.Goblin, fx.Chest} },
			},
			{
				name:   "characters are matched too",
				query:  "testchar",
				expect: func(fx Fixture) []world.Entity { return []world.Entity{fx.Player.Entity} },
			},
			{
				name:   "other rooms are not searched",
				query:  "visitor",
				expect: func(fx Fixture) []world.Entity { return nil },
			},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				assert := assert.New(t)
				s := newStore(t)
				defer s.Close()
				fx := Populate(t, s)

				actual, err := s.MatchShortDescription(context.Background(), fx.Hall.ID, tc.query)
				assert.NoError(err)
				assert.Equal(tc.expect(fx), actual)
			})
		}
	})

	t.Run("MatchShortDescription non-ASCII case is ignored", func(t *testing.T) {
		assert := assert.New(t)
		s := newStore(t)
		defer s.Close()
		fx := Populate(t, s)
		ctx := context.Background()

		eclair, err := s.CreateEntity(ctx, world.Entity{
			Kind:      world.KindObject,
			ShortDesc: "an ÉCLAIR from Ørsted's bakery",
			LongDesc:  "It is still warm.",
			Location:  fx.Hall.ID,
		})
		if !assert.NoError(err) {
			return
		}

		actual, err := s.MatchShortDescription(ctx, fx.Hall.ID, "éclair")
		assert.NoError(err)
		assert.Equal([]world.Entity{eclair}, actual)

		actual, err = s.MatchShortDescription(ctx, fx.Hall.ID, "ØRSTED")
		assert.NoError(err)
		assert.Equal([]world.Entity{eclair}, actual)
	})

	t.Run("Move", func(t *testing.T) {
		assert := assert.New(t)
		s := newStore(t)
		defer s.Close()
		fx := Populate(t, s)
		ctx := context.Background()

		room, err := s.Move(ctx, fx.Player.ID, "NORTH")
		assert.NoError(err)
		assert.Equal(fx.Kitchen, room)

		moved, err := s.Character(ctx, fx.Player.ID)
		assert.NoError(err)
		assert.Equal(fx.Kitchen.ID, moved.Location)

		_, err = s.Move(ctx, fx.Player.ID, world.West)
		assert.ErrorIs(err, tmerrors.ErrBadRoomConnection)

		// a failed move leaves the character where they were
		stayed, err := s.Entity(ctx, fx.Player.ID)
		assert.NoError(err)
		assert.Equal(fx.Kitchen.ID, stayed.Location)

		_, err = s.Move(ctx, uuid.New(), world.North)
		assert.ErrorIs(err, world.ErrNotFound)
	})
}
