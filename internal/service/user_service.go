package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/fairsplit/fairsplit/internal/auth"
	"github.com/fairsplit/fairsplit/internal/models"
	"github.com/fairsplit/fairsplit/internal/storage"
)

// UserService manages user accounts and the raw balance endpoints.
// Registration and login live in the auth package; balance mutations
// driven by settlements live in the payment service.
type UserService struct {
	store storage.Store
}

// NewUserService creates a new UserService with the given storage backend.
func NewUserService(store storage.Store) *UserService {
	return &UserService{store: store}
}

// UserPatch carries the fields UpdateUser may change. Nil fields are left
// untouched.
type UserPatch struct {
	Username *string
	Password *string
	Fullname *string
	Balance  *float64
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.store.GetUser(ctx, id)
}

// GetUserByUsername retrieves a user by their unique username.
func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.store.GetUserByUsername(ctx, username)
}

// ListUsers retrieves all users, or only a group's members when groupID
// is non-empty.
func (s *UserService) ListUsers(ctx context.Context, groupID string) ([]*models.User, error) {
	if groupID == "" {
		return s.store.ListUsers(ctx)
	}
	return s.store.ListUsersByGroup(ctx, groupID)
}

// UpdateUser applies a partial update. Fields not meeting their validity
// predicate are ignored. Changing the username to one that already exists
// is a conflict.
func (s *UserService) UpdateUser(ctx context.Context, id string, patch UserPatch) (*models.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Username != nil && *patch.Username != "" && *patch.Username != user.Username {
		exists, err := s.store.ExistsByUsername(ctx, *patch.Username)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, conflictf("username already exists")
		}
		user.Username = *patch.Username
	}
	if patch.Password != nil && *patch.Password != "" {
		hash, err := auth.HashPassword(*patch.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if patch.Fullname != nil && *patch.Fullname != "" {
		user.Fullname = *patch.Fullname
	}
	if patch.Balance != nil {
		user.Balance = *patch.Balance
	}
	user.UpdatedAt = time.Now().Unix()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		slog.Error("UpdateUser failed", "user_id", id, "error", err)
		return nil, err
	}
	return user, nil
}

// SetBalance overwrites a user's balance with an arbitrary value. No
// solvency rule applies here; only request acceptance checks funds.
func (s *UserService) SetBalance(ctx context.Context, id string, balance float64) (*models.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Balance = balance
	user.UpdatedAt = time.Now().Unix()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		slog.Error("SetBalance failed", "user_id", id, "error", err)
		return nil, err
	}

	slog.Info("Balance set", "user_id", id, "balance", balance)
	return user, nil
}

// AddBalance adds a signed delta to a user's balance, unconditionally.
func (s *UserService) AddBalance(ctx context.Context, id string, delta float64) (*models.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Balance += delta
	user.UpdatedAt = time.Now().Unix()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		slog.Error("AddBalance failed", "user_id", id, "error", err)
		return nil, err
	}

	slog.Info("Balance adjusted", "user_id", id, "delta", delta, "balance", user.Balance)
	return user, nil
}

// DeleteUser removes a user unconditionally. A nonzero balance or open
// requests do not block deletion.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if err := s.store.DeleteUser(ctx, id); err != nil {
		return err
	}
	slog.Info("User deleted", "user_id", id)
	return nil
}
