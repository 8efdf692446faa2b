package usersvc

import (
	"context"

	"github.com/titanshop/shop-svc/internal/service/models/user"
)

type userRepository interface {
	Upsert(ctx context.Context, u user.User) error
	GetByTelegramID(ctx context.Context, telegramID int64) (*user.User, error)
	ListAdmins(ctx context.Context) ([]user.User, error)
	SetAdmin(ctx context.Context, telegramID int64, isAdmin bool) error
}

// UserService owns identity sync: every inbound bot interaction refreshes
// the user's denormalized display fields.
type UserService struct {
	repo userRepository
}

// NewUserService creates a new UserService.
func NewUserService(repo userRepository) *UserService {
	return &UserService{repo: repo}
}

// SyncUser upserts the platform identity. The admin flag is preserved.
func (s *UserService) SyncUser(ctx context.Context, u user.User) error {
	return s.repo.Upsert(ctx, u)
}

// GetUser resolves a platform identity for display purposes.
func (s *UserService) GetUser(ctx context.Context, telegramID int64) (*user.User, error) {
	return s.repo.GetByTelegramID(ctx, telegramID)
}

// ListAdmins returns the users that receive administrative notifications.
// Admin membership lives on the user row, not in an environment list.
func (s *UserService) ListAdmins(ctx context.Context) ([]user.User, error) {
	return s.repo.ListAdmins(ctx)
}

// SetAdmin flips the administrator flag for a user.
func (s *UserService) SetAdmin(ctx context.Context, telegramID int64, isAdmin bool) error {
	return s.repo.SetAdmin(ctx, telegramID, isAdmin)
}
