package worldfile

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/dekarrin/tunamud/internal/world"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Populated gives the IDs of everything Populate created.
type Populated struct {
	// Start is the ID of the start room.
	Start uuid.UUID

	// Rooms maps room labels to their IDs.
	Rooms map[string]uuid.UUID

	// Characters maps lower-cased character names to the created characters.
	Characters map[string]world.Character
}

// Populate creates everything in wd in the store. Character passwords are
// hashed with bcrypt at the given cost; a cost of 0 uses bcrypt.DefaultCost.
// Characters without a password get no hash and cannot log in remotely.
func Populate(ctx context.Context, s world.Store, wd WorldData, passwordCost int) (Populated, error) {
	if passwordCost == 0 {
		passwordCost = bcrypt.DefaultCost
	}

	pop := Populated{
		Rooms:      make(map[string]uuid.UUID, len(wd.Rooms)),
		Characters: make(map[string]world.Character, len(wd.Characters)),
	}

	for _, r := range wd.Rooms {
		created, err := s.CreateRoom(ctx, world.Room{Name: r.Name, Description: r.Description})
		if err != nil {
			return pop, fmt.Errorf("create room %q: %w", r.Label, err)
		}
		pop.Rooms[r.Label] = created.ID
	}
	pop.Start = pop.Rooms[wd.Start]

	for _, ex := range wd.Exits {
		if err := s.ConnectRooms(ctx, pop.Rooms[ex.From], pop.Rooms[ex.To], ex.Direction); err != nil {
			return pop, fmt.Errorf("connect %q %s to %q: %w", ex.From, ex.Direction, ex.To, err)
		}
	}

	for _, e := range wd.Entities {
		_, err := s.CreateEntity(ctx, world.Entity{
			Kind:      e.Kind,
			ShortDesc: e.ShortDesc,
			LongDesc:  e.LongDesc,
			Location:  pop.Rooms[e.Room],
		})
		if err != nil {
			return pop, fmt.Errorf("create %s %q: %w", e.Kind, e.ShortDesc, err)
		}
	}

	for _, c := range wd.Characters {
		var storedPass string
		if c.Password != "" {
			passHash, err := bcrypt.GenerateFromPassword([]byte(c.Password), passwordCost)
			if err != nil {
				return pop, fmt.Errorf("character %q: hash password: %w", c.Name, err)
			}
			storedPass = base64.StdEncoding.EncodeToString(passHash)
		}

		created, err := s.CreateCharacter(ctx, world.Character{
			Entity: world.Entity{
				ShortDesc: c.ShortDesc,
				LongDesc:  c.LongDesc,
				Location:  pop.Rooms[c.Room],
			},
			Name:         c.Name,
			PasswordHash: storedPass,
		})
		if err != nil {
			return pop, fmt.Errorf("create character %q: %w", c.Name, err)
		}
		pop.Characters[strings.ToLower(c.Name)] = created
	}

	return pop, nil
}
