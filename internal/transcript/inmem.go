package transcript

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository is a Repository that keeps entries only for the life of
// the process.
type MemoryRepository struct {
	mtx           sync.RWMutex
	entries       map[uuid.UUID]Entry
	byCallerIndex map[uuid.UUID][]uuid.UUID
}

// NewMemoryRepository creates an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		entries:       make(map[uuid.UUID]Entry),
		byCallerIndex: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (repo *MemoryRepository) Close() error {
	return nil
}

func (repo *MemoryRepository) Create(ctx context.Context, e Entry) (Entry, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return Entry{}, fmt.Errorf("could not generate ID: %w", err)
	}

	e.ID = newUUID
	e.Created = time.Unix(time.Now().Unix(), 0)

	repo.mtx.Lock()
	defer repo.mtx.Unlock()

	repo.entries[e.ID] = e
	repo.byCallerIndex[e.CallerID] = append(repo.byCallerIndex[e.CallerID], e.ID)

	return e, nil
}

func (repo *MemoryRepository) GetByID(ctx context.Context, id uuid.UUID) (Entry, error) {
	repo.mtx.RLock()
	defer repo.mtx.RUnlock()

	e, ok := repo.entries[id]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return e, nil
}

func (repo *MemoryRepository) GetAllByCaller(ctx context.Context, callerID uuid.UUID) ([]Entry, error) {
	repo.mtx.RLock()
	defer repo.mtx.RUnlock()

	ids := repo.byCallerIndex[callerID]
	all := make([]Entry, len(ids))
	for i := range ids {
		all[i] = repo.entries[ids[i]]
	}
	return all, nil
}
