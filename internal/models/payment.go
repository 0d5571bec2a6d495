package models

// Payment represents a recorded transfer from debtor to debtee. Creating
// a payment is the only thing that moves balances; deleting it reverses
// the transfer exactly. When linked to a request, the payment amount
// equals the request amount; there is no partial settlement.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string

	// Name is a human-readable label (e.g. "Payment for Groceries").
	Name string

	// Amount is the transferred value. Always > 0 once validated.
	Amount float64

	// DebtorID is the user whose balance is debited.
	DebtorID string

	// DebteeID is the user whose balance is credited.
	DebteeID string

	// GroupID is the group this payment belongs to. Optional.
	GroupID string

	// RequestID links to the request this payment settles. Empty for
	// standalone payments.
	RequestID string

	// CreatedAt is the Unix timestamp when the payment was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last modification.
	UpdatedAt int64
}
