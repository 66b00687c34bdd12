package repositories

import (
	"context"

	"kasir/internal/models"
)

// UserRepository stores back office operators. Lookups of unknown users
// fail with apperrors.ErrNotFound.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
