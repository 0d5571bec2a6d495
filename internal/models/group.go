package models

// Group represents a set of users who share expenses.
// Membership is a non-exclusive association: a user can belong to any
// number of groups, and deleting a group never deletes its users.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g. "Roommates").
	Name string

	// IsActive marks whether the group is enabled.
	IsActive bool

	// MemberIDs is the list of user IDs currently in this group.
	MemberIDs []string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last modification.
	UpdatedAt int64
}

// HasMember reports whether the user is currently in the group.
func (g *Group) HasMember(userID string) bool {
	for _, id := range g.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}
