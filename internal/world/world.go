// Package world holds the data model of the MUD world that verb handlers query
// and mutate, and the Store interface that persistence backends implement.
package world

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrConstraintViolation = errors.New("a uniqueness constraint was violated")
	ErrNotFound            = errors.New("the requested resource was not found")
)

// Compass directions that rooms may be connected by.
const (
	North     = "north"
	East      = "east"
	South     = "south"
	West      = "west"
	NorthEast = "northeast"
	NorthWest = "northwest"
	SouthEast = "southeast"
	SouthWest = "southwest"
)

// Directions is every compass direction, in the order they are listed to
// players.
var Directions = []string{North, NorthEast, East, SouthEast, South, SouthWest, West, NorthWest}

var opposites = map[string]string{
	North:     South,
	South:     North,
	East:      West,
	West:      East,
	NorthEast: SouthWest,
	SouthWest: NorthEast,
	NorthWest: SouthEast,
	SouthEast: NorthWest,
}

// Opposite returns the direction that leads back the way direction came. The
// empty string is returned if direction is not a compass direction.
func Opposite(direction string) string {
	return opposites[strings.ToLower(direction)]
}

// IsDirection returns whether s names a compass direction.
func IsDirection(s string) bool {
	_, ok := opposites[strings.ToLower(s)]
	return ok
}

// Kind is the kind of thing an Entity is.
type Kind int

const (
	KindObject Kind = iota
	KindMobile
	KindCharacter
)

func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindMobile:
		return "mobile"
	case KindCharacter:
		return "character"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind parses the string form of a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "object":
		return KindObject, nil
	case "mobile":
		return KindMobile, nil
	case "character":
		return KindCharacter, nil
	default:
		return KindObject, fmt.Errorf("must be one of 'object', 'mobile', or 'character'")
	}
}

// Room is a location in the world.
type Room struct {
	ID          uuid.UUID
	Name        string
	Description string
}

// Exit is a one-way connection from one room to another.
type Exit struct {
	From      uuid.UUID
	To        uuid.UUID
	Direction string
}

// Entity is anything that exists inside a room: an object, a mobile, or a
// player character.
type Entity struct {
	ID   uuid.UUID
	Kind Kind

	// ShortDesc is what players see in lists and what targets are matched
	// against, e.g. "a stinky green goblin".
	ShortDesc string

	// LongDesc is what players see when they look at the entity.
	LongDesc string

	// Location is the ID of the room the entity is in.
	Location uuid.UUID
}

// Character is an Entity controlled by a player.
type Character struct {
	Entity

	// Name is the unique login name of the character.
	Name string

	// PasswordHash is the bcrypt hash of the character's password, base64
	// encoded. It is empty for characters that cannot log in remotely.
	PasswordHash string
}

// Store is the persistence layer for the world. Implementations must be safe
// for concurrent use; the interpreter assumes nothing wider than a single call
// is transactional.
type Store interface {
	// CreateRoom creates a new room. The ID of r is ignored and generated.
	CreateRoom(ctx context.Context, r Room) (Room, error)

	// ConnectRooms creates an exit from one room to another. It fails with
	// ErrConstraintViolation if from already has an exit in that direction.
	ConnectRooms(ctx context.Context, from, to uuid.UUID, direction string) error

	// CreateEntity creates a new entity. The ID of e is ignored and generated.
	CreateEntity(ctx context.Context, e Entity) (Entity, error)

	// CreateCharacter creates a new character. The ID of c is ignored and
	// generated; names must be unique.
	CreateCharacter(ctx context.Context, c Character) (Character, error)

	Room(ctx context.Context, id uuid.UUID) (Room, error)
	Entity(ctx context.Context, id uuid.UUID) (Entity, error)
	Character(ctx context.Context, id uuid.UUID) (Character, error)
	CharacterByName(ctx context.Context, name string) (Character, error)

	// Exits returns all exits leading out of the room, ordered by direction
	// as listed in Directions.
	Exits(ctx context.Context, roomID uuid.UUID) ([]Exit, error)

	// EntitiesIn returns every entity located in the room, in the order they
	// were created.
	EntitiesIn(ctx context.Context, roomID uuid.UUID) ([]Entity, error)

	// MatchShortDescription returns every entity in the room whose short
	// description contains query, ignoring case, in the order they were
	// created.
	MatchShortDescription(ctx context.Context, roomID uuid.UUID, query string) ([]Entity, error)

	// Move moves the character through the exit of their current room in the
	// given direction and returns the room they end up in. If there is no
	// such exit, the returned error matches tmerrors.ErrBadRoomConnection.
	Move(ctx context.Context, characterID uuid.UUID, direction string) (Room, error)

	Close() error
}

// SortExits puts exits in the order their directions appear in Directions.
// Exits in unknown directions go last, in their original order.
func SortExits(exits []Exit) []Exit {
	order := make(map[string]int, len(Directions))
	for i, d := range Directions {
		order[d] = i
	}

	rank := func(e Exit) int {
		if r, ok := order[e.Direction]; ok {
			return r
		}
		return len(Directions)
	}

	sorted := make([]Exit, len(exits))
	copy(sorted, exits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return rank(sorted[i]) < rank(sorted[j])
	})

	return sorted
}
