package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fairsplit/fairsplit/internal/models"
	"github.com/fairsplit/fairsplit/internal/storage"
	"github.com/fairsplit/fairsplit/internal/storage/sqlite"
)

// newTestStore creates a SQLite store backed by a temp file.
func newTestStore(t *testing.T) storage.Store {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func createUser(t *testing.T, store storage.Store, username string, balance float64) *models.User {
	t.Helper()

	user := models.NewUser(username, username+" Test", "hash")
	user.Balance = balance
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

func createGroup(t *testing.T, store storage.Store, name string, memberIDs ...string) *models.Group {
	t.Helper()

	group := &models.Group{Name: name, IsActive: true, MemberIDs: memberIDs}
	if err := store.CreateGroup(context.Background(), group); err != nil {
		t.Fatalf("failed to create group %s: %v", name, err)
	}
	return group
}

func userBalance(t *testing.T, store storage.Store, id string) float64 {
	t.Helper()

	user, err := store.GetUser(context.Background(), id)
	if err != nil {
		t.Fatalf("failed to get user %s: %v", id, err)
	}
	return user.Balance
}
