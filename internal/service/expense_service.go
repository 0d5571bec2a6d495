package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fairsplit/fairsplit/internal/calculator"
	"github.com/fairsplit/fairsplit/internal/models"
	"github.com/fairsplit/fairsplit/internal/storage"
)

// ExpenseService owns expense creation and the split that derives one
// request per non-payer participant from each expense.
type ExpenseService struct {
	store storage.Store
}

// NewExpenseService creates a new ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store) *ExpenseService {
	return &ExpenseService{store: store}
}

// ExpensePatch carries the fields UpdateExpense may change. Nil fields
// are left untouched.
type ExpensePatch struct {
	Name     *string
	Category *string
	Paid     *bool
}

// CreateExpense validates the expense, splits its amount equally among
// the assigned users and persists the expense together with one open
// request per assigned user other than the payer. The whole write is one
// transaction.
//
// If no assigned users are supplied, the split defaults to a snapshot of
// the group's current membership, so later membership changes do not
// alter the expense.
func (s *ExpenseService) CreateExpense(ctx context.Context, expense *models.Expense) (*models.Expense, []*models.Request, error) {
	if expense.Name == "" {
		return nil, nil, invalidf("expense name cannot be empty")
	}
	if expense.Amount <= 0 {
		return nil, nil, invalidf("expense amount must be positive")
	}
	if expense.PayerID == "" || expense.GroupID == "" {
		return nil, nil, invalidf("expense must have a payer and a group")
	}

	if _, err := s.store.GetUser(ctx, expense.PayerID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, invalidf("payer user not found")
		}
		return nil, nil, err
	}

	group, err := s.store.GetGroup(ctx, expense.GroupID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, invalidf("group not found")
		}
		return nil, nil, err
	}

	if len(expense.AssignedUserIDs) > 0 {
		for _, userID := range expense.AssignedUserIDs {
			if _, err := s.store.GetUser(ctx, userID); err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					return nil, nil, invalidf("assigned user not found")
				}
				return nil, nil, err
			}
			member, err := s.store.IsMember(ctx, group.ID, userID)
			if err != nil {
				return nil, nil, err
			}
			if !member {
				return nil, nil, invalidf("assigned user does not belong to the group")
			}
		}
	} else {
		// Snapshot of the current membership, not a live reference.
		expense.AssignedUserIDs = append([]string(nil), group.MemberIDs...)
	}

	expense.Paid = false
	// Requests reference the expense id, so mint it before the split.
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}

	requests, err := calculator.BuildRequests(expense, expense.AssignedUserIDs)
	if err != nil {
		return nil, nil, invalidf("%v", err)
	}

	if err := s.store.CreateExpense(ctx, expense, requests); err != nil {
		slog.Error("CreateExpense failed", "expense_id", expense.ID, "error", err)
		return nil, nil, err
	}

	slog.Info("Expense created",
		"expense_id", expense.ID,
		"group_id", expense.GroupID,
		"amount", expense.Amount,
		"requests", len(requests),
	)
	return expense, requests, nil
}

// GetExpense retrieves an expense by ID.
func (s *ExpenseService) GetExpense(ctx context.Context, id string) (*models.Expense, error) {
	return s.store.GetExpense(ctx, id)
}

// ExpenseFilter narrows ListExpenses results. Zero values mean "no
// filter" for that field.
type ExpenseFilter struct {
	UserID   string // payer or assigned user
	Category string
	From     int64 // inclusive lower bound on CreatedAt
	To       int64 // inclusive upper bound on CreatedAt
}

// ListExpenses retrieves a group's expenses, optionally filtered by
// participant, category and creation date range.
func (s *ExpenseService) ListExpenses(ctx context.Context, groupID string, filter ExpenseFilter) ([]*models.Expense, error) {
	expenses, err := s.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	var result []*models.Expense
	for _, expense := range expenses {
		if filter.UserID != "" && !expenseInvolves(expense, filter.UserID) {
			continue
		}
		if filter.Category != "" && expense.Category != filter.Category {
			continue
		}
		if filter.From != 0 && expense.CreatedAt < filter.From {
			continue
		}
		if filter.To != 0 && expense.CreatedAt > filter.To {
			continue
		}
		result = append(result, expense)
	}
	return result, nil
}

// UpdateExpense applies a partial update. Fields not meeting their
// validity predicate are ignored rather than rejected, matching the
// update semantics of the balance and request endpoints.
func (s *ExpenseService) UpdateExpense(ctx context.Context, id string, patch ExpensePatch) (*models.Expense, error) {
	expense, err := s.store.GetExpense(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil && *patch.Name != "" {
		expense.Name = *patch.Name
	}
	if patch.Category != nil && *patch.Category != "" {
		expense.Category = *patch.Category
	}
	if patch.Paid != nil {
		expense.Paid = *patch.Paid
	}
	expense.UpdatedAt = time.Now().Unix()

	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		slog.Error("UpdateExpense failed", "expense_id", id, "error", err)
		return nil, err
	}
	return expense, nil
}

// DeleteExpense removes an expense and every request generated from it.
// An expense whose requests have been settled is frozen: the payments
// behind those requests already moved balances, so the delete is refused
// with ErrConflict instead of erasing the settlement trail.
func (s *ExpenseService) DeleteExpense(ctx context.Context, id string) error {
	requests, err := s.store.ListRequestsByExpense(ctx, id)
	if err != nil {
		return err
	}
	for _, request := range requests {
		if request.IsFulfilled {
			return conflictf("expense has settled requests and cannot be deleted")
		}
	}

	if err := s.store.DeleteExpense(ctx, id); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			slog.Error("DeleteExpense failed", "expense_id", id, "error", err)
		}
		return err
	}
	slog.Info("Expense deleted", "expense_id", id)
	return nil
}

func expenseInvolves(expense *models.Expense, userID string) bool {
	if expense.PayerID == userID {
		return true
	}
	for _, id := range expense.AssignedUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}
