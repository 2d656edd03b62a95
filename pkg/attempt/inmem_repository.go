package attempt

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

// InMemoryRepository is a map-backed attempt store for tests and demo
// servers. Safe for concurrent use.
type InMemoryRepository struct {
	mutex    sync.RWMutex
	attempts map[uuid.UUID][]Attempt
}

// NewInMemoryRepository creates a new in-memory attempt repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		attempts: make(map[uuid.UUID][]Attempt),
	}
}

func (r *InMemoryRepository) Record(ctx context.Context, attempt Attempt) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.attempts[attempt.UserID] = append(r.attempts[attempt.UserID], attempt)
	return nil
}

func (r *InMemoryRepository) ListSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]Attempt, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var result []Attempt
	for _, a := range r.attempts[userID] {
		if !a.CreatedAt.Before(since) {
			result = append(result, a)
		}
	}
	slices.SortFunc(result, func(a, b Attempt) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return result, nil
}
