package transcript

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
	"modernc.org/sqlite"
)

// DefaultFilename is the name of the database file created in the storage
// directory by NewSQLiteRepository.
const DefaultFilename = "transcript.db"

// SQLiteRepository is a Repository backed by SQLite. Each entry is kept
// rezi-encoded in a single column, with its ID and caller pulled out for
// lookups.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens the transcript database in storageDir, creating
// it if needed.
func NewSQLiteRepository(storageDir string) (*SQLiteRepository, error) {
	file := filepath.Join(storageDir, DefaultFilename)

	db, err := sql.Open("sqlite", file)
	if err != nil {
		return nil, wrapDBError(err)
	}

	repo := &SQLiteRepository{db: db}
	if err := repo.init(); err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

func (repo *SQLiteRepository) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS transcript (
		id TEXT NOT NULL PRIMARY KEY,
		caller_id TEXT NOT NULL,
		data TEXT NOT NULL,
		created INTEGER NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}
	_, err = repo.db.Exec(`CREATE INDEX IF NOT EXISTS transcript_by_caller ON transcript (caller_id);`)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *SQLiteRepository) Close() error {
	return repo.db.Close()
}

func (repo *SQLiteRepository) Create(ctx context.Context, e Entry) (Entry, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return Entry{}, fmt.Errorf("could not generate ID: %w", err)
	}

	e.ID = newUUID
	e.Created = time.Unix(time.Now().Unix(), 0)

	encData := base64.StdEncoding.EncodeToString(rezi.EncBinary(e))

	_, err = repo.db.ExecContext(
		ctx,
		`INSERT INTO transcript (id, caller_id, data, created) VALUES (?, ?, ?, ?);`,
		e.ID.String(),
		e.CallerID.String(),
		encData,
		e.Created.Unix(),
	)
	if err != nil {
		return Entry{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *SQLiteRepository) GetByID(ctx context.Context, id uuid.UUID) (Entry, error) {
	var encData string
	row := repo.db.QueryRowContext(ctx, `SELECT data FROM transcript WHERE id = ?;`, id.String())
	if err := row.Scan(&encData); err != nil {
		return Entry{}, wrapDBError(err)
	}

	return decodeEntry(encData)
}

func (repo *SQLiteRepository) GetAllByCaller(ctx context.Context, callerID uuid.UUID) ([]Entry, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT data FROM transcript WHERE caller_id = ? ORDER BY rowid;`, callerID.String())
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	all := []Entry{}
	for rows.Next() {
		var encData string
		if err := rows.Scan(&encData); err != nil {
			return nil, wrapDBError(err)
		}

		e, err := decodeEntry(encData)
		if err != nil {
			return all, err
		}
		all = append(all, e)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func decodeEntry(encData string) (Entry, error) {
	data, err := base64.StdEncoding.DecodeString(encData)
	if err != nil {
		return Entry{}, fmt.Errorf("stored entry is not valid base64: %w", err)
	}

	var e Entry
	if _, err := rezi.DecBinary(data, &e); err != nil {
		return Entry{}, fmt.Errorf("stored entry is invalid: %w", err)
	}
	return e, nil
}

func wrapDBError(err error) error {
	if err == nil {
		return nil
	}

	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code()&0xff == 19 {
			return ErrConstraintViolation
		}
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
