package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/leadline/telecrm-api/internal/core/domain"
	"github.com/leadline/telecrm-api/internal/core/ports"
)

// UserService implements user management: admins create, list, update and
// delete users; every user may read and update their own record.
type UserService struct {
	users  ports.UserRepository
	policy AccessPolicy
	logger zerolog.Logger
}

func NewUserService(users ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// CreateUser creates a new account (admin only). The password is stored as a
// bcrypt hash and never rendered back.
func (s *UserService) CreateUser(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	if err := s.policy.RequireAdmin(input.Identity); err != nil {
		return nil, err
	}
	if input.Name == "" || input.Username == "" || input.Email == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: name, username, email and password are required", domain.ErrValidation)
	}
	if !domain.ValidRole(input.Role) {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, input.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         input.Name,
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         input.Role,
		Phone:        input.Phone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("role", created.Role).Msg("user created")
	return created, nil
}

// GetUser retrieves a user record: self-service for the caller's own record,
// admin-only for anyone else's.
func (s *UserService) GetUser(ctx context.Context, id ports.Identity, targetID string) (*domain.User, error) {
	if err := s.policy.CanManageUser(id, targetID); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, targetID)
}

// ListUsers returns every user (admin only).
func (s *UserService) ListUsers(ctx context.Context, id ports.Identity) ([]*domain.User, error) {
	if err := s.policy.RequireAdmin(id); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}

// UpdateUser edits profile fields and optionally the password. Role changes
// are admin-only even on the caller's own record.
func (s *UserService) UpdateUser(ctx context.Context, input ports.UpdateUserInput) (*domain.User, error) {
	if err := s.policy.CanManageUser(input.Identity, input.TargetID); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, input.TargetID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Email != "" {
		user.Email = input.Email
	}
	if input.Phone != "" {
		user.Phone = input.Phone
	}
	if input.Role != "" && input.Role != user.Role {
		if err := s.policy.RequireAdmin(input.Identity); err != nil {
			return nil, err
		}
		if !domain.ValidRole(input.Role) {
			return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, input.Role)
		}
		user.Role = input.Role
	}
	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes a user account (admin only).
func (s *UserService) DeleteUser(ctx context.Context, id ports.Identity, targetID string) error {
	if err := s.policy.RequireAdmin(id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, targetID); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", targetID).Str("deleted_by", id.UserID).Msg("user deleted")
	return nil
}
