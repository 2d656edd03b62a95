package directory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// InMemoryDirectory is a map-backed UserDirectory for tests and demo
// servers. Safe for concurrent use.
type InMemoryDirectory struct {
	mutex sync.RWMutex
	users map[uuid.UUID]User
}

// NewInMemoryDirectory creates a new in-memory user directory.
func NewInMemoryDirectory() *InMemoryDirectory {
	return &InMemoryDirectory{
		users: make(map[uuid.UUID]User),
	}
}

// Register adds a user with the given plaintext password and returns the
// stored record.
func (d *InMemoryDirectory) Register(ctx context.Context, email, name, password string, roles []string) (User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return User{}, err
	}

	user := User{
		ID:           uuid.New(),
		Email:        strings.ToLower(email),
		Name:         name,
		Roles:        roles,
		PasswordHash: hash,
		Active:       true,
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.users[user.ID] = user
	return user, nil
}

func (d *InMemoryDirectory) FindByEmail(ctx context.Context, email string) (User, error) {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	email = strings.ToLower(email)
	for _, user := range d.users {
		if user.Email == email {
			return user, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (d *InMemoryDirectory) FindByID(ctx context.Context, userID uuid.UUID) (User, error) {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	user, ok := d.users[userID]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

func (d *InMemoryDirectory) VerifyPassword(ctx context.Context, userID uuid.UUID, password string) (bool, error) {
	d.mutex.RLock()
	user, ok := d.users[userID]
	d.mutex.RUnlock()

	if !ok {
		return false, ErrUserNotFound
	}
	return CheckPasswordHash(password, user.PasswordHash), nil
}
