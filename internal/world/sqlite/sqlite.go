// Package sqlite provides a world.Store persisted in a SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dekarrin/tunamud/internal/tmerrors"
	"github.com/dekarrin/tunamud/internal/world"
	"github.com/google/uuid"
	"modernc.org/sqlite"
)

// DefaultFilename is the name of the world database file created in the
// storage directory by NewStore.
const DefaultFilename = "world.db"

// Store is a world.Store backed by SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens the world database in storageDir, creating it and its tables
// if they do not yet exist.
func NewStore(storageDir string) (*Store, error) {
	return Open(filepath.Join(storageDir, DefaultFilename))
}

// Open opens the world database at the given file. The special name
// ":memory:" opens a private in-memory database.
func Open(file string) (*Store, error) {
	db, err := sql.Open("sqlite", file+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, wrapDBError(err)
	}

	// an in-memory database only lives as long as its one connection.
	if file == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) init() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS rooms (
			id TEXT NOT NULL PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS exits (
			from_room TEXT NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
			direction TEXT NOT NULL,
			to_room TEXT NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
			PRIMARY KEY (from_room, direction)
		);`,
		`CREATE TABLE IF NOT EXISTS entities (
			id TEXT NOT NULL PRIMARY KEY,
			kind TEXT NOT NULL,
			short_desc TEXT NOT NULL,
			long_desc TEXT NOT NULL,
			location TEXT NOT NULL REFERENCES rooms(id)
		);`,
		`CREATE TABLE IF NOT EXISTS characters (
			entity_id TEXT NOT NULL PRIMARY KEY REFERENCES entities(id) ON DELETE CASCADE,
			name TEXT NOT NULL UNIQUE COLLATE NOCASE,
			password_hash TEXT NOT NULL
		);`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return wrapDBError(err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) CreateRoom(ctx context.Context, r world.Room) (world.Room, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return world.Room{}, fmt.Errorf("could not generate ID: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO rooms (id, name, description) VALUES (?, ?, ?);`,
		convertToDB_UUID(newUUID),
		r.Name,
		r.Description,
	)
	if err != nil {
		return world.Room{}, wrapDBError(err)
	}

	return s.Room(ctx, newUUID)
}

func (s *Store) ConnectRooms(ctx context.Context, from, to uuid.UUID, direction string) error {
	// foreign key failures would be reported as constraint violations; check
	// existence first so a missing room is ErrNotFound like everywhere else.
	if _, err := s.Room(ctx, from); err != nil {
		return err
	}
	if _, err := s.Room(ctx, to); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO exits (from_room, direction, to_room) VALUES (?, ?, ?);`,
		convertToDB_UUID(from),
		strings.ToLower(direction),
		convertToDB_UUID(to),
	)
	return wrapDBError(err)
}

func (s *Store) CreateEntity(ctx context.Context, e world.Entity) (world.Entity, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return world.Entity{}, fmt.Errorf("could not generate ID: %w", err)
	}

	if err := s.insertEntity(ctx, s.db, newUUID, e); err != nil {
		return world.Entity{}, err
	}

	return s.Entity(ctx, newUUID)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) insertEntity(ctx context.Context, db execer, id uuid.UUID, e world.Entity) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO entities (id, kind, short_desc, long_desc, location) VALUES (?, ?, ?, ?, ?);`,
		convertToDB_UUID(id),
		convertToDB_Kind(e.Kind),
		e.ShortDesc,
		e.LongDesc,
		convertToDB_UUID(e.Location),
	)
	return wrapDBError(err)
}

func (s *Store) CreateCharacter(ctx context.Context, c world.Character) (world.Character, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return world.Character{}, fmt.Errorf("could not generate ID: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return world.Character{}, wrapDBError(err)
	}
	defer tx.Rollback()

	c.Kind = world.KindCharacter
	if err := s.insertEntity(ctx, tx, newUUID, c.Entity); err != nil {
		return world.Character{}, err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO characters (entity_id, name, password_hash) VALUES (?, ?, ?);`,
		convertToDB_UUID(newUUID),
		c.Name,
		c.PasswordHash,
	)
	if err != nil {
		return world.Character{}, wrapDBError(err)
	}

	if err := tx.Commit(); err != nil {
		return world.Character{}, wrapDBError(err)
	}

	return s.Character(ctx, newUUID)
}

func (s *Store) Room(ctx context.Context, id uuid.UUID) (world.Room, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT name, description FROM rooms WHERE id = ?;`,
		convertToDB_UUID(id),
	)

	r := world.Room{ID: id}
	if err := row.Scan(&r.Name, &r.Description); err != nil {
		return world.Room{}, wrapDBError(err)
	}

	return r, nil
}

const entityColumns = `e.id, e.kind, e.short_desc, e.long_desc, e.location`

func (s *Store) Entity(ctx context.Context, id uuid.UUID) (world.Entity, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+entityColumns+` FROM entities AS e WHERE e.id = ?;`,
		convertToDB_UUID(id),
	)

	return scanEntity(row.Scan)
}

const characterQuery = `SELECT ` + entityColumns + `, c.name, c.password_hash
	FROM characters AS c
	INNER JOIN entities AS e ON e.id = c.entity_id`

func (s *Store) Character(ctx context.Context, id uuid.UUID) (world.Character, error) {
	row := s.db.QueryRowContext(ctx,
		characterQuery+` WHERE c.entity_id = ?;`,
		convertToDB_UUID(id),
	)
	return scanCharacter(row)
}

func (s *Store) CharacterByName(ctx context.Context, name string) (world.Character, error) {
	row := s.db.QueryRowContext(ctx,
		characterQuery+` WHERE c.name = ?;`,
		name,
	)
	return scanCharacter(row)
}

func (s *Store) Exits(ctx context.Context, roomID uuid.UUID) ([]world.Exit, error) {
	if _, err := s.Room(ctx, roomID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT direction, to_room FROM exits WHERE from_room = ?;`,
		convertToDB_UUID(roomID),
	)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var exits []world.Exit
	for rows.Next() {
		ex := world.Exit{From: roomID}
		var to string
		if err := rows.Scan(&ex.Direction, &to); err != nil {
			return nil, wrapDBError(err)
		}
		if err := convertFromDB_UUID(to, &ex.To); err != nil {
			return nil, fmt.Errorf("stored room ID %q is invalid: %w", to, err)
		}
		exits = append(exits, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError(err)
	}

	return world.SortExits(exits), nil
}

func (s *Store) EntitiesIn(ctx context.Context, roomID uuid.UUID) ([]world.Entity, error) {
	return s.queryEntities(ctx, roomID,
		`SELECT `+entityColumns+` FROM entities AS e WHERE e.location = ? ORDER BY e.rowid;`,
		convertToDB_UUID(roomID),
	)
}

// MatchShortDescription folds case in Go rather than with SQLite's lower(),
// which only knows ASCII.
func (s *Store) MatchShortDescription(ctx context.Context, roomID uuid.UUID, query string) ([]world.Entity, error) {
	ents, err := s.EntitiesIn(ctx, roomID)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(query)

	var found []world.Entity
	for _, e := range ents {
		if strings.Contains(strings.ToLower(e.ShortDesc), query) {
			found = append(found, e)
		}
	}
	return found, nil
}

func (s *Store) queryEntities(ctx context.Context, roomID uuid.UUID, query string, args ...any) ([]world.Entity, error) {
	if _, err := s.Room(ctx, roomID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var found []world.Entity
	for rows.Next() {
		e, err := scanEntity(rows.Scan)
		if err != nil {
			return nil, err
		}
		found = append(found, e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError(err)
	}

	return found, nil
}

func (s *Store) Move(ctx context.Context, characterID uuid.UUID, direction string) (world.Room, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return world.Room{}, wrapDBError(err)
	}
	defer tx.Rollback()

	var fromID string
	var fromName string
	err = tx.QueryRowContext(ctx,
		`SELECT r.id, r.name FROM entities AS e
		INNER JOIN rooms AS r ON r.id = e.location
		WHERE e.id = ?;`,
		convertToDB_UUID(characterID),
	).Scan(&fromID, &fromName)
	if err != nil {
		return world.Room{}, wrapDBError(err)
	}

	var toID string
	err = tx.QueryRowContext(ctx,
		`SELECT to_room FROM exits WHERE from_room = ? AND direction = ?;`,
		fromID,
		strings.ToLower(direction),
	).Scan(&toID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return world.Room{}, tmerrors.BadRoomConnection(fromName, direction)
		}
		return world.Room{}, wrapDBError(err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE entities SET location = ? WHERE id = ?;`,
		toID,
		convertToDB_UUID(characterID),
	)
	if err != nil {
		return world.Room{}, wrapDBError(err)
	}

	if err := tx.Commit(); err != nil {
		return world.Room{}, wrapDBError(err)
	}

	var to uuid.UUID
	if err := convertFromDB_UUID(toID, &to); err != nil {
		return world.Room{}, fmt.Errorf("stored room ID %q is invalid: %w", toID, err)
	}
	return s.Room(ctx, to)
}

func scanEntity(scan func(dest ...any) error, extra ...any) (world.Entity, error) {
	var e world.Entity
	var id, kind, loc string

	dest := append([]any{&id, &kind, &e.ShortDesc, &e.LongDesc, &loc}, extra...)
	if err := scan(dest...); err != nil {
		return world.Entity{}, wrapDBError(err)
	}

	if err := convertFromDB_UUID(id, &e.ID); err != nil {
		return world.Entity{}, fmt.Errorf("stored ID %q is invalid: %w", id, err)
	}
	if err := convertFromDB_Kind(kind, &e.Kind); err != nil {
		return world.Entity{}, fmt.Errorf("stored kind %q is invalid: %w", kind, err)
	}
	if err := convertFromDB_UUID(loc, &e.Location); err != nil {
		return world.Entity{}, fmt.Errorf("stored location %q is invalid: %w", loc, err)
	}

	return e, nil
}

func scanCharacter(row *sql.Row) (world.Character, error) {
	var c world.Character
	var err error

	c.Entity, err = scanEntity(row.Scan, &c.Name, &c.PasswordHash)
	if err != nil {
		return world.Character{}, err
	}
	return c, nil
}

func wrapDBError(err error) error {
	if err == nil {
		return nil
	}

	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		// primary result code 19 is SQLITE_CONSTRAINT; extended codes keep it
		// in the low byte.
		if sqliteErr.Code()&0xff == 19 {
			return world.ErrConstraintViolation
		}
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return world.ErrNotFound
	}
	return err
}
