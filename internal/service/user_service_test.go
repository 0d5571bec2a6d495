package service

import (
	"context"
	"errors"
	"testing"

	"github.com/fairsplit/fairsplit/internal/models"
	"github.com/fairsplit/fairsplit/internal/storage"
)

func TestUpdateUser_UsernameCollision(t *testing.T) {
	store := newTestStore(t)
	svc := NewUserService(store)
	ctx := context.Background()

	createUser(t, store, "alice", 0)
	bob := createUser(t, store, "bob", 0)

	taken := "alice"
	if _, err := svc.UpdateUser(ctx, bob.ID, UserPatch{Username: &taken}); !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict for taken username, got %v", err)
	}

	// Patching to your own username is a no-op, not a conflict.
	same := "bob"
	updated, err := svc.UpdateUser(ctx, bob.ID, UserPatch{Username: &same})
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if updated.Username != "bob" {
		t.Errorf("username = %q, want bob", updated.Username)
	}
}

func TestUpdateUser_IgnoresEmptyFields(t *testing.T) {
	store := newTestStore(t)
	svc := NewUserService(store)
	ctx := context.Background()

	alice := createUser(t, store, "alice", 0)

	empty := ""
	balance := 50.0
	updated, err := svc.UpdateUser(ctx, alice.ID, UserPatch{Fullname: &empty, Balance: &balance})
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if updated.Fullname != "alice Test" {
		t.Errorf("empty fullname patch should be ignored, got %q", updated.Fullname)
	}
	if updated.Balance != 50 {
		t.Errorf("balance = %v, want 50", updated.Balance)
	}
}

func TestUpdateUser_RehashesPassword(t *testing.T) {
	store := newTestStore(t)
	svc := NewUserService(store)
	ctx := context.Background()

	alice := createUser(t, store, "alice", 0)
	oldHash := alice.PasswordHash

	password := "new-password-123"
	updated, err := svc.UpdateUser(ctx, alice.ID, UserPatch{Password: &password})
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if updated.PasswordHash == oldHash {
		t.Error("expected password hash to change")
	}
	if updated.PasswordHash == password {
		t.Error("password must not be stored in plaintext")
	}
}

func TestSetAndAddBalance(t *testing.T) {
	store := newTestStore(t)
	svc := NewUserService(store)
	ctx := context.Background()

	alice := createUser(t, store, "alice", 0)

	updated, err := svc.SetBalance(ctx, alice.ID, 100)
	if err != nil {
		t.Fatalf("SetBalance failed: %v", err)
	}
	if updated.Balance != 100 {
		t.Errorf("balance = %v, want 100", updated.Balance)
	}

	updated, err = svc.AddBalance(ctx, alice.ID, -130)
	if err != nil {
		t.Fatalf("AddBalance failed: %v", err)
	}
	if updated.Balance != -30 {
		t.Errorf("balance = %v, want -30 (overdraft allowed)", updated.Balance)
	}
}

func TestListUsers_ByGroup(t *testing.T) {
	store := newTestStore(t)
	svc := NewUserService(store)
	ctx := context.Background()

	alice := createUser(t, store, "alice", 0)
	bob := createUser(t, store, "bob", 0)
	createUser(t, store, "carol", 0)
	group := createGroup(t, store, "Trip", alice.ID, bob.ID)

	all, err := svc.ListUsers(ctx, "")
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 users, got %d", len(all))
	}

	members, err := svc.ListUsers(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListUsers by group failed: %v", err)
	}
	if len(members) != 2 {
		t.Errorf("expected 2 group members, got %d", len(members))
	}
}

func TestDeleteUser_Unconditional(t *testing.T) {
	store := newTestStore(t)
	svc := NewUserService(store)
	ctx := context.Background()

	alice := createUser(t, store, "alice", -50)
	bob := createUser(t, store, "bob", 0)

	// Open debt does not block deletion.
	request := &models.Request{Amount: 10, DebtorID: alice.ID, DebteeID: bob.ID}
	if err := store.CreateRequest(ctx, request); err != nil {
		t.Fatalf("CreateRequest failed: %v", err)
	}

	if err := svc.DeleteUser(ctx, alice.ID); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}
	if _, err := svc.GetUser(ctx, alice.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
