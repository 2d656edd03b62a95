package emailotp

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// InMemoryRepository is a map-backed challenge store for tests and demo
// servers. Safe for concurrent use.
type InMemoryRepository struct {
	mutex      sync.Mutex
	challenges map[uuid.UUID]Challenge
}

// NewInMemoryRepository creates a new in-memory challenge repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		challenges: make(map[uuid.UUID]Challenge),
	}
}

func (r *InMemoryRepository) Replace(ctx context.Context, challenge Challenge) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.challenges[challenge.UserID] = challenge
	return nil
}

func (r *InMemoryRepository) Get(ctx context.Context, userID uuid.UUID) (Challenge, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	challenge, ok := r.challenges[userID]
	if !ok {
		return Challenge{}, ErrNoActiveChallenge
	}
	return challenge, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, userID uuid.UUID, fn func(*Challenge) error) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	challenge, ok := r.challenges[userID]
	if !ok {
		return ErrNoActiveChallenge
	}

	err := fn(&challenge)
	r.challenges[userID] = challenge
	return err
}

func (r *InMemoryRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	delete(r.challenges, userID)
	return nil
}
