package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/fairsplit/fairsplit/internal/models"
)

// memoryUserStorage is a map-backed UserStorage for tests.
type memoryUserStorage struct {
	users map[string]*models.User
}

func newMemoryUserStorage() *memoryUserStorage {
	return &memoryUserStorage{users: make(map[string]*models.User)}
}

func (m *memoryUserStorage) CreateUser(_ context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = "user-" + user.Username
	}
	m.users[user.Username] = user
	return nil
}

func (m *memoryUserStorage) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	user, ok := m.users[username]
	if !ok {
		return nil, errors.New("user not found")
	}
	return user, nil
}

func (m *memoryUserStorage) ExistsByUsername(_ context.Context, username string) (bool, error) {
	_, ok := m.users[username]
	return ok, nil
}

func TestRegisterAndAuthenticate(t *testing.T) {
	storage := newMemoryUserStorage()
	authenticator := NewPasswordAuthenticator(storage)
	ctx := context.Background()

	user, err := authenticator.Register(ctx, "alice", "Alice Test", "correct-horse-battery")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("username = %q, want alice", user.Username)
	}
	if user.PasswordHash == "correct-horse-battery" {
		t.Error("password must not be stored in plaintext")
	}
	if !user.IsActive {
		t.Error("new user should be active")
	}
	if user.Balance != 0 {
		t.Errorf("new user balance = %v, want 0", user.Balance)
	}

	got, err := authenticator.Authenticate(ctx, "alice", "correct-horse-battery")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("authenticated user = %q, want %q", got.ID, user.ID)
	}

	if _, err := authenticator.Authenticate(ctx, "alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := authenticator.Authenticate(ctx, "nobody", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestRegister_WeakPassword(t *testing.T) {
	authenticator := NewPasswordAuthenticator(newMemoryUserStorage())

	if _, err := authenticator.Register(context.Background(), "alice", "Alice", "short"); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("expected ErrWeakPassword, got %v", err)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	authenticator := NewPasswordAuthenticator(newMemoryUserStorage())
	ctx := context.Background()

	if _, err := authenticator.Register(ctx, "alice", "Alice", "password-one"); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	if _, err := authenticator.Register(ctx, "alice", "Other Alice", "password-two"); !errors.Is(err, ErrUsernameExists) {
		t.Errorf("expected ErrUsernameExists, got %v", err)
	}
}
