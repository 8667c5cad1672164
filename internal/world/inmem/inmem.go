// Package inmem provides a world.Store that keeps everything in memory. It is
// lost when the process exits.
package inmem

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dekarrin/tunamud/internal/tmerrors"
	"github.com/dekarrin/tunamud/internal/world"
	"github.com/google/uuid"
)

// NewStore creates a new, empty in-memory world Store.
func NewStore() *Store {
	return &Store{
		rooms:       make(map[uuid.UUID]world.Room),
		exits:       make(map[uuid.UUID]map[string]uuid.UUID),
		entities:    make(map[uuid.UUID]world.Entity),
		chars:       make(map[uuid.UUID]world.Character),
		byNameIndex: make(map[string]uuid.UUID),
	}
}

// Store is an in-memory world.Store. The zero value is not ready for use;
// create one with NewStore.
type Store struct {
	mtx sync.RWMutex

	rooms    map[uuid.UUID]world.Room
	exits    map[uuid.UUID]map[string]uuid.UUID
	entities map[uuid.UUID]world.Entity
	chars    map[uuid.UUID]world.Character

	// entity IDs in creation order, characters included.
	order       []uuid.UUID
	byNameIndex map[string]uuid.UUID
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) CreateRoom(ctx context.Context, r world.Room) (world.Room, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return world.Room{}, fmt.Errorf("could not generate ID: %w", err)
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	r.ID = newUUID
	s.rooms[r.ID] = r

	return r, nil
}

func (s *Store) ConnectRooms(ctx context.Context, from, to uuid.UUID, direction string) error {
	direction = strings.ToLower(direction)

	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.rooms[from]; !ok {
		return world.ErrNotFound
	}
	if _, ok := s.rooms[to]; !ok {
		return world.ErrNotFound
	}

	roomExits, ok := s.exits[from]
	if !ok {
		roomExits = make(map[string]uuid.UUID)
		s.exits[from] = roomExits
	}
	if _, ok := roomExits[direction]; ok {
		return world.ErrConstraintViolation
	}

	roomExits[direction] = to
	return nil
}

func (s *Store) CreateEntity(ctx context.Context, e world.Entity) (world.Entity, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return world.Entity{}, fmt.Errorf("could not generate ID: %w", err)
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.rooms[e.Location]; !ok {
		return world.Entity{}, world.ErrConstraintViolation
	}

	e.ID = newUUID
	s.entities[e.ID] = e
	s.order = append(s.order, e.ID)

	return e, nil
}

func (s *Store) CreateCharacter(ctx context.Context, c world.Character) (world.Character, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return world.Character{}, fmt.Errorf("could not generate ID: %w", err)
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.rooms[c.Location]; !ok {
		return world.Character{}, world.ErrConstraintViolation
	}
	name := strings.ToLower(c.Name)
	if _, ok := s.byNameIndex[name]; ok {
		return world.Character{}, world.ErrConstraintViolation
	}

	c.ID = newUUID
	c.Kind = world.KindCharacter

	s.entities[c.ID] = c.Entity
	s.chars[c.ID] = c
	s.order = append(s.order, c.ID)
	s.byNameIndex[name] = c.ID

	return c, nil
}

func (s *Store) Room(ctx context.Context, id uuid.UUID) (world.Room, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	r, ok := s.rooms[id]
	if !ok {
		return world.Room{}, world.ErrNotFound
	}
	return r, nil
}

func (s *Store) Entity(ctx context.Context, id uuid.UUID) (world.Entity, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	e, ok := s.entities[id]
	if !ok {
		return world.Entity{}, world.ErrNotFound
	}
	return e, nil
}

func (s *Store) Character(ctx context.Context, id uuid.UUID) (world.Character, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return s.character(id)
}

// character must be called with at least a read lock held.
func (s *Store) character(id uuid.UUID) (world.Character, error) {
	c, ok := s.chars[id]
	if !ok {
		return world.Character{}, world.ErrNotFound
	}

	// location lives on the entity record so Move only has to update one place.
	c.Entity = s.entities[id]
	return c, nil
}

func (s *Store) CharacterByName(ctx context.Context, name string) (world.Character, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	id, ok := s.byNameIndex[strings.ToLower(name)]
	if !ok {
		return world.Character{}, world.ErrNotFound
	}
	return s.character(id)
}

func (s *Store) Exits(ctx context.Context, roomID uuid.UUID) ([]world.Exit, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	if _, ok := s.rooms[roomID]; !ok {
		return nil, world.ErrNotFound
	}

	var exits []world.Exit
	for dir, to := range s.exits[roomID] {
		exits = append(exits, world.Exit{From: roomID, To: to, Direction: dir})
	}

	return world.SortExits(exits), nil
}

func (s *Store) EntitiesIn(ctx context.Context, roomID uuid.UUID) ([]world.Entity, error) {
	return s.findInRoom(roomID, func(world.Entity) bool { return true })
}

func (s *Store) MatchShortDescription(ctx context.Context, roomID uuid.UUID, query string) ([]world.Entity, error) {
	query = strings.ToLower(query)
	return s.findInRoom(roomID, func(e world.Entity) bool {
		return strings.Contains(strings.ToLower(e.ShortDesc), query)
	})
}

func (s *Store) findInRoom(roomID uuid.UUID, keep func(world.Entity) bool) ([]world.Entity, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	if _, ok := s.rooms[roomID]; !ok {
		return nil, world.ErrNotFound
	}

	var found []world.Entity
	for _, id := range s.order {
		e := s.entities[id]
		if e.Location == roomID && keep(e) {
			found = append(found, e)
		}
	}

	return found, nil
}

func (s *Store) Move(ctx context.Context, characterID uuid.UUID, direction string) (world.Room, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	e, ok := s.entities[characterID]
	if !ok {
		return world.Room{}, world.ErrNotFound
	}

	to, ok := s.exits[e.Location][strings.ToLower(direction)]
	if !ok {
		return world.Room{}, tmerrors.BadRoomConnection(s.rooms[e.Location].Name, direction)
	}

	e.Location = to
	s.entities[characterID] = e

	return s.rooms[to], nil
}
