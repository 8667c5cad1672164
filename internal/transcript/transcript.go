// Package transcript keeps the history of commands entered by characters and
// the responses they got.
package transcript

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
)

var (
	ErrNotFound            = errors.New("the requested transcript entry was not found")
	ErrConstraintViolation = errors.New("a uniqueness constraint was violated")
)

// Entry is one line of input from a character along with the response that
// was sent back.
type Entry struct {
	ID       uuid.UUID
	CallerID uuid.UUID
	Input    string
	Output   string
	Created  time.Time
}

// MarshalBinary converts the Entry into bytes. Created is kept only to the
// second.
func (e Entry) MarshalBinary() ([]byte, error) {
	var data []byte

	data = append(data, rezi.EncBinary(e.ID)...)
	data = append(data, rezi.EncBinary(e.CallerID)...)
	data = append(data, rezi.EncString(e.Input)...)
	data = append(data, rezi.EncString(e.Output)...)
	data = append(data, rezi.EncInt(int(e.Created.Unix()))...)

	return data, nil
}

// UnmarshalBinary sets e to the Entry encoded in data, which must have been
// produced by MarshalBinary.
func (e *Entry) UnmarshalBinary(data []byte) error {
	var decoded Entry
	var n int
	var err error

	n, err = rezi.DecBinary(data, &decoded.ID)
	if err != nil {
		return fmt.Errorf("ID: %w", err)
	}
	data = data[n:]

	n, err = rezi.DecBinary(data, &decoded.CallerID)
	if err != nil {
		return fmt.Errorf("caller ID: %w", err)
	}
	data = data[n:]

	decoded.Input, n, err = rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("input: %w", err)
	}
	data = data[n:]

	decoded.Output, n, err = rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("output: %w", err)
	}
	data = data[n:]

	created, _, err := rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("created: %w", err)
	}
	decoded.Created = time.Unix(int64(created), 0)

	*e = decoded
	return nil
}

// Repository stores transcript entries.
type Repository interface {
	// Create stores a new Entry. ID and Created are assigned by the
	// Repository; the values in e are ignored.
	Create(ctx context.Context, e Entry) (Entry, error)

	// GetByID returns the entry with the given ID. If there is none, the
	// returned error matches ErrNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (Entry, error)

	// GetAllByCaller returns every entry made by the given character, oldest
	// first. A caller with no history gives an empty slice and no error.
	GetAllByCaller(ctx context.Context, callerID uuid.UUID) ([]Entry, error)

	Close() error
}
