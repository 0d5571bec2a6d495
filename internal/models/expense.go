package models

// Expense represents a shared cost paid by one user on behalf of a group,
// to be split among the assigned participants.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// Name is the human-readable description (e.g. "Groceries").
	Name string

	// Amount is the total cost. Always > 0 once validated.
	Amount float64

	// Category is a free-form label used for filtering.
	Category string

	// Paid marks whether the expense has been settled in full.
	Paid bool

	// PayerID is the user who fronted the full amount.
	PayerID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// AssignedUserIDs are the group members sharing the cost, captured
	// at creation time. If none were supplied, this is a snapshot of the
	// full group membership; later membership changes do not alter it.
	AssignedUserIDs []string

	// CreatedAt is the Unix timestamp when the expense was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last modification.
	UpdatedAt int64
}
