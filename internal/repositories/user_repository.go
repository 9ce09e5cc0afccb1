package repositories

import (
	"context"

	"hyperdrive/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	// First returns the user with the lowest id.
	First(ctx context.Context) (*models.User, error)
}
