package sqlite

import (
	"context"
	"testing"

	"github.com/dekarrin/tunamud/internal/world"
	"github.com/dekarrin/tunamud/internal/world/worldtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Store(t *testing.T) {
	worldtest.Run(t, func(t *testing.T) world.Store {
		s, err := NewStore(t.TempDir())
		require.NoError(t, err)
		return s
	})
}

func Test_Store_persistsAcrossReopen(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	s, err := NewStore(dir)
	require.NoError(t, err)
	fx := worldtest.Populate(t, s)
	require.NoError(t, s.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	c, err := reopened.CharacterByName(context.Background(), "tester")
	assert.NoError(err)
	assert.Equal(fx.Player, c)
}

func Test_Store_entityInMissingRoom(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	_, err = s.CreateEntity(context.Background(), world.Entity{ShortDesc: "a ghost"})
	assert.ErrorIs(t, err, world.ErrConstraintViolation)
}
