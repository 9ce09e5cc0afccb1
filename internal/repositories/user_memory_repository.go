package repositories

import (
	"context"
	"sync"

	"hyperdrive/internal/models"
	appErr "hyperdrive/pkg/errors"
)

// MemoryUserRepository is an in-memory implementation of UserRepository.
type MemoryUserRepository struct {
	users  map[uint]models.User
	nextID uint
	mu     sync.RWMutex
}

// NewMemoryUserRepository creates a new instance of MemoryUserRepository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users:  make(map[uint]models.User),
		nextID: 1,
	}
}

// Create stores a copy of user and assigns its ID.
func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.Email != nil {
		for _, u := range r.users {
			if u.Email != nil && *u.Email == *user.Email {
				return appErr.New(appErr.CodeConflict, "user already exists")
			}
		}
	}
	if user.Role == "" {
		user.Role = models.RoleDeveloper
	}
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = *user
	return nil
}

// GetByID returns a user by its ID.
func (r *MemoryUserRepository) GetByID(_ context.Context, id uint) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, appErr.NotFound()
	}
	return &user, nil
}

// First returns the user with the lowest ID.
func (r *MemoryUserRepository) First(_ context.Context) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var first *models.User
	for id := range r.users {
		if first == nil || id < first.ID {
			u := r.users[id]
			first = &u
		}
	}
	if first == nil {
		return nil, appErr.NotFound()
	}
	return first, nil
}
