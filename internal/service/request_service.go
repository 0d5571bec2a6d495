package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fairsplit/fairsplit/internal/models"
	"github.com/fairsplit/fairsplit/internal/storage"
)

// RequestService owns the request state machine: open until accepted,
// fulfilled after, and back to open only when the settling payment is
// deleted.
type RequestService struct {
	store    storage.Store
	payments *PaymentService
}

// NewRequestService creates a new RequestService. Accepting a request
// delegates the settlement itself to the payment service.
func NewRequestService(store storage.Store, payments *PaymentService) *RequestService {
	return &RequestService{store: store, payments: payments}
}

// RequestPatch carries the fields UpdateRequest may change. Nil fields
// are left untouched.
type RequestPatch struct {
	Amount *float64
}

// CreateRequest persists a standalone request. The primary path for
// requests is expense creation; this exists for debts raised directly.
func (s *RequestService) CreateRequest(ctx context.Context, request *models.Request) (*models.Request, error) {
	if request.Amount <= 0 {
		return nil, invalidf("request amount must be positive")
	}
	if request.DebtorID == "" || request.DebteeID == "" {
		return nil, invalidf("request must have a debtor and debtee")
	}
	if _, err := s.store.GetUser(ctx, request.DebtorID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, invalidf("debtor user not found")
		}
		return nil, err
	}
	if _, err := s.store.GetUser(ctx, request.DebteeID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, invalidf("debtee user not found")
		}
		return nil, err
	}

	request.IsFulfilled = false
	if err := s.store.CreateRequest(ctx, request); err != nil {
		slog.Error("CreateRequest failed", "error", err)
		return nil, err
	}

	slog.Info("Request created",
		"request_id", request.ID,
		"debtor_id", request.DebtorID,
		"debtee_id", request.DebteeID,
		"amount", request.Amount,
	)
	return request, nil
}

// GetRequest retrieves a request by ID.
func (s *RequestService) GetRequest(ctx context.Context, id string) (*models.Request, error) {
	return s.store.GetRequest(ctx, id)
}

// UpdateRequest applies a partial update. Only the amount is mutable, and
// only while the request is open; a patch that fails those predicates is
// silently ignored and the stored request returned unchanged apart from
// its update timestamp.
func (s *RequestService) UpdateRequest(ctx context.Context, id string, patch RequestPatch) (*models.Request, error) {
	request, err := s.store.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	if !request.IsFulfilled && patch.Amount != nil && *patch.Amount > 0 {
		request.Amount = *patch.Amount
	}
	request.UpdatedAt = time.Now().Unix()

	if err := s.store.UpdateRequest(ctx, request); err != nil {
		slog.Error("UpdateRequest failed", "request_id", id, "error", err)
		return nil, err
	}
	return request, nil
}

// AcceptRequest settles a request: it builds a payment for exactly the
// request amount and hands it to the settlement coordinator, which flips
// the request to fulfilled and moves both balances in one transaction.
//
// Fails with ErrConflict if the request is already fulfilled or the
// debtor's balance cannot cover the amount. The solvency check is
// inclusive: a balance exactly equal to the amount passes.
func (s *RequestService) AcceptRequest(ctx context.Context, id string) (*models.Request, error) {
	request, err := s.store.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.IsFulfilled {
		return nil, conflictf("request has already been fulfilled")
	}

	debtor, err := s.store.GetUser(ctx, request.DebtorID)
	if err != nil {
		return nil, err
	}
	if debtor.Balance < request.Amount {
		return nil, conflictf("debtor does not have enough balance to fulfill this request")
	}

	name := "Payment"
	if request.ExpenseID != "" {
		expense, err := s.store.GetExpense(ctx, request.ExpenseID)
		if err != nil {
			return nil, err
		}
		name = "Payment for " + expense.Name
	}

	payment := &models.Payment{
		Name:      name,
		Amount:    request.Amount,
		DebtorID:  request.DebtorID,
		DebteeID:  request.DebteeID,
		GroupID:   request.GroupID,
		RequestID: request.ID,
	}
	if _, err := s.payments.CreatePayment(ctx, payment); err != nil {
		return nil, err
	}

	slog.Info("Request accepted", "request_id", id, "payment_id", payment.ID)
	return s.store.GetRequest(ctx, id)
}

// DeleteRequest removes an open request. Fulfilled requests can only be
// reopened by deleting their payment, never deleted directly.
func (s *RequestService) DeleteRequest(ctx context.Context, id string) error {
	request, err := s.store.GetRequest(ctx, id)
	if err != nil {
		return err
	}
	if request.IsFulfilled {
		return conflictf("cannot delete a fulfilled request")
	}
	if err := s.store.DeleteRequest(ctx, id); err != nil {
		slog.Error("DeleteRequest failed", "request_id", id, "error", err)
		return err
	}
	slog.Info("Request deleted", "request_id", id)
	return nil
}

// ListRequestsByExpense retrieves the requests generated from an expense.
func (s *RequestService) ListRequestsByExpense(ctx context.Context, expenseID string) ([]*models.Request, error) {
	return s.store.ListRequestsByExpense(ctx, expenseID)
}

// ListRequestsByDebtor retrieves requests where the user owes, optionally
// only the open ones.
func (s *RequestService) ListRequestsByDebtor(ctx context.Context, debtorID string, unfulfilledOnly bool) ([]*models.Request, error) {
	return s.store.ListRequestsByDebtor(ctx, debtorID, unfulfilledOnly)
}

// ListRequestsByDebtee retrieves requests where the user is owed.
func (s *RequestService) ListRequestsByDebtee(ctx context.Context, debteeID string) ([]*models.Request, error) {
	return s.store.ListRequestsByDebtee(ctx, debteeID)
}

// ListRequestsByGroup retrieves a group's requests, optionally only the
// open ones.
func (s *RequestService) ListRequestsByGroup(ctx context.Context, groupID string, unfulfilledOnly bool) ([]*models.Request, error) {
	return s.store.ListRequestsByGroup(ctx, groupID, unfulfilledOnly)
}
