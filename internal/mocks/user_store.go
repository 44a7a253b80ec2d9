package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskpulse/taskpulse-api/internal/domain"
	"github.com/taskpulse/taskpulse-api/internal/store"
)

// MockUserStore implements store.UserStore for testing
type MockUserStore struct {
	// Function fields for customizable behavior
	FindAllFn func(ctx context.Context) ([]domain.User, error)
	GetByIDFn func(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// Users is the data behind the default implementations.
	Users []domain.User
}

// NewMockUserStore creates a new mock store with the given users.
func NewMockUserStore(users ...domain.User) *MockUserStore {
	return &MockUserStore{Users: users}
}

// Ensure MockUserStore implements store.UserStore
var _ store.UserStore = (*MockUserStore)(nil)

// FindAll implements store.UserStore.FindAll
func (m *MockUserStore) FindAll(ctx context.Context) ([]domain.User, error) {
	if m.FindAllFn != nil {
		return m.FindAllFn(ctx)
	}
	out := make([]domain.User, len(m.Users))
	copy(out, m.Users)
	return out, nil
}

// GetByID implements store.UserStore.GetByID
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	for i := range m.Users {
		if m.Users[i].ID == id {
			u := m.Users[i]
			return &u, nil
		}
	}
	return nil, store.ErrUserNotFound
}
