package mfa

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryRepository is a map-backed profile store for tests and demo
// servers. Safe for concurrent use.
type InMemoryRepository struct {
	mutex    sync.Mutex
	profiles map[uuid.UUID]Profile
}

// NewInMemoryRepository creates a new in-memory profile repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		profiles: make(map[uuid.UUID]Profile),
	}
}

func (r *InMemoryRepository) Get(ctx context.Context, userID uuid.UUID) (Profile, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	profile, ok := r.profiles[userID]
	if !ok {
		return Profile{UserID: userID}, nil
	}
	return profile, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, userID uuid.UUID, fn func(*Profile) error) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	profile, ok := r.profiles[userID]
	if !ok {
		profile = Profile{UserID: userID, CreatedAt: time.Now().UTC()}
	}

	if err := fn(&profile); err != nil {
		return err
	}

	profile.UpdatedAt = time.Now().UTC()
	r.profiles[userID] = profile
	return nil
}
