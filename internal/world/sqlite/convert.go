package sqlite

import (
	"github.com/dekarrin/tunamud/internal/world"
	"github.com/google/uuid"
)

func convertToDB_UUID(u uuid.UUID) string {
	return u.String()
}

func convertFromDB_UUID(s string, target *uuid.UUID) error {
	u, err := uuid.Parse(s)
	if err != nil {
		return err
	}
	*target = u
	return nil
}

func convertToDB_Kind(k world.Kind) string {
	return k.String()
}

func convertFromDB_Kind(s string, target *world.Kind) error {
	k, err := world.ParseKind(s)
	if err != nil {
		return err
	}
	*target = k
	return nil
}
