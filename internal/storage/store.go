// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/fairsplit/fairsplit/internal/models"
)

// ErrNotFound is returned when a referenced entity id does not resolve.
// Implementations wrap it with context; callers test with errors.Is.
var ErrNotFound = errors.New("not found")

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
//
// The compound methods (CreateExpense, DeleteExpense, ApplyPayment,
// ReversePayment, AddGroupMember, RemoveGroupMember) are the ledger's
// atomicity units: implementations must commit their full set of entity
// writes as one all-or-nothing transaction.
type Store interface {
	// CreateUser persists a new user. The user.ID field will be
	// populated by the store if empty.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUser retrieves a user by ID. Returns ErrNotFound if missing.
	GetUser(ctx context.Context, id string) (*models.User, error)

	// GetUserByUsername retrieves a user by their unique username.
	// Returns ErrNotFound if missing.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// ExistsByUsername reports whether a user with the username exists.
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// ListUsers retrieves all users.
	ListUsers(ctx context.Context) ([]*models.User, error)

	// ListUsersByGroup retrieves the users belonging to a group.
	ListUsersByGroup(ctx context.Context, groupID string) ([]*models.User, error)

	// UpdateUser overwrites an existing user's fields.
	UpdateUser(ctx context.Context, user *models.User) error

	// DeleteUser removes a user by ID. Returns ErrNotFound if missing.
	DeleteUser(ctx context.Context, id string) error

	// CreateGroup persists a new group with its initial members.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group (including member IDs) by ID.
	GetGroup(ctx context.Context, id string) (*models.Group, error)

	// ListGroups retrieves all groups.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// UpdateGroup overwrites a group's name and active flag. Membership
	// changes go through AddGroupMember/RemoveGroupMember.
	UpdateGroup(ctx context.Context, group *models.Group) error

	// DeleteGroup removes a group and its membership rows.
	DeleteGroup(ctx context.Context, id string) error

	// AddGroupMember records the user's membership in the group. Both
	// directions of the association commit together.
	AddGroupMember(ctx context.Context, groupID, userID string) error

	// RemoveGroupMember removes the user's membership in the group.
	RemoveGroupMember(ctx context.Context, groupID, userID string) error

	// IsMember reports whether the user currently belongs to the group.
	IsMember(ctx context.Context, groupID, userID string) (bool, error)

	// CreateExpense persists an expense together with its generated
	// requests in one transaction.
	CreateExpense(ctx context.Context, expense *models.Expense, requests []*models.Request) error

	// GetExpense retrieves an expense (including assigned user IDs).
	GetExpense(ctx context.Context, id string) (*models.Expense, error)

	// ListExpensesByGroup retrieves all expenses for a group.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	// UpdateExpense overwrites an expense's mutable fields.
	UpdateExpense(ctx context.Context, expense *models.Expense) error

	// DeleteExpense removes an expense and all requests generated from
	// it in one transaction. Returns ErrNotFound if missing.
	DeleteExpense(ctx context.Context, id string) error

	// CreateRequest persists a standalone request.
	CreateRequest(ctx context.Context, request *models.Request) error

	// GetRequest retrieves a request by ID.
	GetRequest(ctx context.Context, id string) (*models.Request, error)

	// UpdateRequest overwrites a request's amount, fulfilled flag and
	// timestamps.
	UpdateRequest(ctx context.Context, request *models.Request) error

	// DeleteRequest removes a request by ID. Returns ErrNotFound if
	// missing.
	DeleteRequest(ctx context.Context, id string) error

	// ListRequestsByExpense retrieves the requests generated from an
	// expense.
	ListRequestsByExpense(ctx context.Context, expenseID string) ([]*models.Request, error)

	// ListRequestsByDebtor retrieves requests where the user owes,
	// optionally restricted to unfulfilled ones.
	ListRequestsByDebtor(ctx context.Context, debtorID string, unfulfilledOnly bool) ([]*models.Request, error)

	// ListRequestsByDebtee retrieves requests where the user is owed.
	ListRequestsByDebtee(ctx context.Context, debteeID string) ([]*models.Request, error)

	// ListRequestsByGroup retrieves a group's requests, optionally
	// restricted to unfulfilled ones.
	ListRequestsByGroup(ctx context.Context, groupID string, unfulfilledOnly bool) ([]*models.Request, error)

	// GetPayment retrieves a payment by ID.
	GetPayment(ctx context.Context, id string) (*models.Payment, error)

	// ListPaymentsByDebtor retrieves payments made by a user.
	ListPaymentsByDebtor(ctx context.Context, debtorID string) ([]*models.Payment, error)

	// ListPaymentsByDebtee retrieves payments received by a user.
	ListPaymentsByDebtee(ctx context.Context, debteeID string) ([]*models.Payment, error)

	// ListPaymentsByGroup retrieves a group's payments.
	ListPaymentsByGroup(ctx context.Context, groupID string) ([]*models.Payment, error)

	// ApplyPayment persists the full outcome of a settlement in one
	// transaction: both updated users, the fulfilled request (if any)
	// and the new payment.
	ApplyPayment(ctx context.Context, payment *models.Payment, request *models.Request, debtor, debtee *models.User) error

	// ReversePayment persists the full reversal of a settlement in one
	// transaction: both restored users, the reopened request (if any)
	// and the payment's deletion.
	ReversePayment(ctx context.Context, payment *models.Payment, request *models.Request, debtor, debtee *models.User) error

	// Close releases any resources held by the store.
	Close() error
}
