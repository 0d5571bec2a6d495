package models

// Request represents a single debtor's obligation, owed to the payer of
// the expense it was derived from. Once fulfilled it is immutable except
// for timestamp bookkeeping; it can only return to open by deleting the
// payment that settled it.
type Request struct {
	// ID is the unique identifier for the request (UUID format).
	ID string

	// Amount is what the debtor owes. Always > 0 once validated.
	Amount float64

	// IsFulfilled marks whether the request has been settled by a payment.
	IsFulfilled bool

	// ExpenseID links to the originating expense. Empty for standalone
	// requests, which are representable but not the primary path.
	ExpenseID string

	// DebtorID is the user who owes.
	DebtorID string

	// DebteeID is the user who is owed (the expense's payer).
	DebteeID string

	// GroupID is the group this request belongs to. May be empty for
	// standalone requests.
	GroupID string

	// CreatedAt is the Unix timestamp when the request was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last modification.
	UpdatedAt int64
}
