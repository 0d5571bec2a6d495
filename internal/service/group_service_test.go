package service

import (
	"context"
	"errors"
	"testing"

	"github.com/fairsplit/fairsplit/internal/storage"
)

func TestCreateGroup(t *testing.T) {
	store := newTestStore(t)
	svc := NewGroupService(store)
	ctx := context.Background()

	alice := createUser(t, store, "alice", 0)
	bob := createUser(t, store, "bob", 0)

	group, err := svc.CreateGroup(ctx, "Roommates", []string{alice.ID, bob.ID})
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if group.ID == "" {
		t.Fatal("expected group ID to be set")
	}
	if !group.IsActive {
		t.Error("new group should be active")
	}
	if len(group.MemberIDs) != 2 {
		t.Errorf("expected 2 members, got %d", len(group.MemberIDs))
	}
}

func TestCreateGroup_Validation(t *testing.T) {
	store := newTestStore(t)
	svc := NewGroupService(store)
	ctx := context.Background()

	if _, err := svc.CreateGroup(ctx, "", nil); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid for empty name, got %v", err)
	}
	if _, err := svc.CreateGroup(ctx, "Trip", []string{"missing"}); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid for unknown member, got %v", err)
	}
}

func TestAddUser_DuplicateIsConflict(t *testing.T) {
	store := newTestStore(t)
	svc := NewGroupService(store)
	ctx := context.Background()

	alice := createUser(t, store, "alice", 0)
	bob := createUser(t, store, "bob", 0)
	group := createGroup(t, store, "Trip", alice.ID)

	updated, err := svc.AddUser(ctx, group.ID, bob.ID)
	if err != nil {
		t.Fatalf("AddUser failed: %v", err)
	}
	if !updated.HasMember(bob.ID) {
		t.Error("expected bob to be a member")
	}

	if _, err := svc.AddUser(ctx, group.ID, bob.ID); !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict adding an existing member, got %v", err)
	}
}

func TestRemoveUser_NonMemberIsConflict(t *testing.T) {
	store := newTestStore(t)
	svc := NewGroupService(store)
	ctx := context.Background()

	alice := createUser(t, store, "alice", 0)
	bob := createUser(t, store, "bob", 0)
	group := createGroup(t, store, "Trip", alice.ID, bob.ID)

	updated, err := svc.RemoveUser(ctx, group.ID, bob.ID)
	if err != nil {
		t.Fatalf("RemoveUser failed: %v", err)
	}
	if updated.HasMember(bob.ID) {
		t.Error("expected bob to no longer be a member")
	}

	if _, err := svc.RemoveUser(ctx, group.ID, bob.ID); !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict removing a non-member, got %v", err)
	}
}

func TestUpdateGroup_IgnoresEmptyName(t *testing.T) {
	store := newTestStore(t)
	svc := NewGroupService(store)
	ctx := context.Background()

	alice := createUser(t, store, "alice", 0)
	group := createGroup(t, store, "Trip", alice.ID)

	empty := ""
	inactive := false
	updated, err := svc.UpdateGroup(ctx, group.ID, GroupPatch{Name: &empty, IsActive: &inactive})
	if err != nil {
		t.Fatalf("UpdateGroup failed: %v", err)
	}
	if updated.Name != "Trip" {
		t.Errorf("empty name patch should be ignored, got %q", updated.Name)
	}
	if updated.IsActive {
		t.Error("expected group to be inactive")
	}
}

func TestDeleteGroup_UsersSurvive(t *testing.T) {
	store := newTestStore(t)
	svc := NewGroupService(store)
	ctx := context.Background()

	alice := createUser(t, store, "alice", 0)
	group := createGroup(t, store, "Trip", alice.ID)

	if err := svc.DeleteGroup(ctx, group.ID); err != nil {
		t.Fatalf("DeleteGroup failed: %v", err)
	}

	if _, err := svc.GetGroup(ctx, group.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.GetUser(ctx, alice.ID); err != nil {
		t.Errorf("expected alice to survive group deletion, got %v", err)
	}
}
