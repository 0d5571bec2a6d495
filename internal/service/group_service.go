package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fairsplit/fairsplit/internal/models"
	"github.com/fairsplit/fairsplit/internal/storage"
)

// GroupService manages groups and their membership. The ledger itself
// only consumes the membership predicate; everything else here is
// administration.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// GroupPatch carries the fields UpdateGroup may change. Nil fields are
// left untouched. Membership changes go through AddUser/RemoveUser.
type GroupPatch struct {
	Name     *string
	IsActive *bool
}

// CreateGroup persists a new active group with the given members.
func (s *GroupService) CreateGroup(ctx context.Context, name string, memberIDs []string) (*models.Group, error) {
	if name == "" {
		return nil, invalidf("group name cannot be empty")
	}
	for _, userID := range memberIDs {
		if _, err := s.store.GetUser(ctx, userID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, invalidf("member user not found")
			}
			return nil, err
		}
	}

	group := &models.Group{
		Name:      name,
		IsActive:  true,
		MemberIDs: memberIDs,
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, err
	}

	slog.Info("Group created", "group_id", group.ID, "members", len(memberIDs))
	return group, nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, id string) (*models.Group, error) {
	return s.store.GetGroup(ctx, id)
}

// ListGroups retrieves all groups.
func (s *GroupService) ListGroups(ctx context.Context) ([]*models.Group, error) {
	return s.store.ListGroups(ctx)
}

// UpdateGroup applies a partial update to a group's name and active flag.
// An empty name in the patch is ignored rather than rejected.
func (s *GroupService) UpdateGroup(ctx context.Context, id string, patch GroupPatch) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil && *patch.Name != "" {
		group.Name = *patch.Name
	}
	if patch.IsActive != nil {
		group.IsActive = *patch.IsActive
	}
	group.UpdatedAt = time.Now().Unix()

	if err := s.store.UpdateGroup(ctx, group); err != nil {
		slog.Error("UpdateGroup failed", "group_id", id, "error", err)
		return nil, err
	}
	return group, nil
}

// DeleteGroup removes a group. Users survive; membership rows do not.
func (s *GroupService) DeleteGroup(ctx context.Context, id string) error {
	if err := s.store.DeleteGroup(ctx, id); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			slog.Error("DeleteGroup failed", "group_id", id, "error", err)
		}
		return err
	}
	slog.Info("Group deleted", "group_id", id)
	return nil
}

// AddUser adds a user to a group. Both sides of the association commit
// together. Adding an existing member is a conflict.
func (s *GroupService) AddUser(ctx context.Context, groupID, userID string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	if group.HasMember(userID) {
		return nil, conflictf("user is already a member of this group")
	}

	if err := s.store.AddGroupMember(ctx, groupID, userID); err != nil {
		slog.Error("AddUser failed", "group_id", groupID, "user_id", userID, "error", err)
		return nil, err
	}

	slog.Info("User added to group", "group_id", groupID, "user_id", userID)
	return s.store.GetGroup(ctx, groupID)
}

// RemoveUser removes a user from a group. Removing a non-member is a
// conflict.
func (s *GroupService) RemoveUser(ctx context.Context, groupID, userID string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	if !group.HasMember(userID) {
		return nil, conflictf("user is not a member of this group")
	}

	if err := s.store.RemoveGroupMember(ctx, groupID, userID); err != nil {
		slog.Error("RemoveUser failed", "group_id", groupID, "user_id", userID, "error", err)
		return nil, err
	}

	slog.Info("User removed from group", "group_id", groupID, "user_id", userID)
	return s.store.GetGroup(ctx, groupID)
}

// IsMember reports whether the user currently belongs to the group.
func (s *GroupService) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	return s.store.IsMember(ctx, groupID, userID)
}
