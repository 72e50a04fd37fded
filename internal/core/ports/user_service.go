package ports

import (
	"context"

	"github.com/leadline/telecrm-api/internal/core/domain"
)

// CreateUserInput carries all data for admin user creation.
type CreateUserInput struct {
	Identity
	Name     string
	Username string
	Email    string
	Password string
	Role     string
	Phone    string
}

// UpdateUserInput carries a user edit. Empty fields are left unchanged.
// Role changes are admin-only; Password, when set, is re-hashed.
type UpdateUserInput struct {
	Identity
	TargetID string
	Name     string
	Email    string
	Phone    string
	Password string
	Role     string
}

// UserService defines user-management operations. Admins manage everyone;
// any user may read and update their own record.
type UserService interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)
	GetUser(ctx context.Context, id Identity, targetID string) (*domain.User, error)
	ListUsers(ctx context.Context, id Identity) ([]*domain.User, error)
	UpdateUser(ctx context.Context, input UpdateUserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, id Identity, targetID string) error
}
