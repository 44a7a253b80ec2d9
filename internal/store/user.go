package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskpulse/taskpulse-api/internal/domain"
)

// UserStore defines the interface for user reads needed by the analytics core.
type UserStore interface {
	// FindAll retrieves every known user, ordered by name.
	FindAll(ctx context.Context) ([]domain.User, error)

	// GetByID retrieves a user by its unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}
