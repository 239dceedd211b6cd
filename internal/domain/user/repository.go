package user

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the persistence contract for accounts.
// Lookups of a missing user return an ErrCodeNotFound AppError.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}

//Personal.AI order the ending
