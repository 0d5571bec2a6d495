package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fairsplit/fairsplit/internal/calculator"
	"github.com/fairsplit/fairsplit/internal/models"
	"github.com/fairsplit/fairsplit/internal/storage"
)

// PaymentService is the settlement coordinator: the single write path for
// user balances. Creating a payment debits the debtor and credits the
// debtee; deleting one reverses the transfer exactly.
type PaymentService struct {
	store storage.Store
}

// NewPaymentService creates a new PaymentService with the given storage backend.
func NewPaymentService(store storage.Store) *PaymentService {
	return &PaymentService{store: store}
}

// CreatePayment validates the payment, applies the balance transfer and
// persists both users, the linked request (if any) and the payment as one
// transaction. When a request is linked, the payment amount must equal
// the request amount exactly (no partial settlement) and the request
// flips to fulfilled in the same commit.
func (s *PaymentService) CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	if payment.Name == "" {
		return nil, invalidf("payment name cannot be empty")
	}
	if payment.Amount <= 0 {
		return nil, invalidf("payment amount must be positive")
	}
	if payment.DebtorID == "" || payment.DebteeID == "" {
		return nil, invalidf("payment must have a debtor and debtee")
	}

	debtor, err := s.store.GetUser(ctx, payment.DebtorID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, invalidf("debtor user not found")
		}
		return nil, err
	}
	debtee, err := s.store.GetUser(ctx, payment.DebteeID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, invalidf("debtee user not found")
		}
		return nil, err
	}

	now := time.Now().Unix()

	var request *models.Request
	if payment.RequestID != "" {
		request, err = s.store.GetRequest(ctx, payment.RequestID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, invalidf("request not found")
			}
			return nil, err
		}
		if payment.Amount != request.Amount {
			return nil, invalidf("payment amount must match request amount")
		}
		request.IsFulfilled = true
		request.UpdatedAt = now
	}

	calculator.Transfer(debtor, debtee, payment.Amount)
	debtor.UpdatedAt = now
	debtee.UpdatedAt = now

	if err := s.store.ApplyPayment(ctx, payment, request, debtor, debtee); err != nil {
		slog.Error("CreatePayment failed", "payment_id", payment.ID, "error", err)
		return nil, err
	}

	slog.Info("Payment created",
		"payment_id", payment.ID,
		"debtor_id", payment.DebtorID,
		"debtee_id", payment.DebteeID,
		"amount", payment.Amount,
		"request_id", payment.RequestID,
	)
	return payment, nil
}

// DeletePayment reverses a settlement in one transaction: the linked
// request (if any) reopens, both balances are restored exactly and the
// payment row is removed. A missing payment id is reported as
// found=false, not an error.
func (s *PaymentService) DeletePayment(ctx context.Context, id string) (bool, error) {
	payment, err := s.store.GetPayment(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	debtor, err := s.store.GetUser(ctx, payment.DebtorID)
	if err != nil {
		return false, err
	}
	debtee, err := s.store.GetUser(ctx, payment.DebteeID)
	if err != nil {
		return false, err
	}

	now := time.Now().Unix()

	var request *models.Request
	if payment.RequestID != "" {
		request, err = s.store.GetRequest(ctx, payment.RequestID)
		if err != nil {
			return false, err
		}
		request.IsFulfilled = false
		request.UpdatedAt = now
	}

	calculator.Reverse(debtor, debtee, payment.Amount)
	debtor.UpdatedAt = now
	debtee.UpdatedAt = now

	if err := s.store.ReversePayment(ctx, payment, request, debtor, debtee); err != nil {
		slog.Error("DeletePayment failed", "payment_id", id, "error", err)
		return false, err
	}

	slog.Info("Payment deleted",
		"payment_id", id,
		"debtor_id", payment.DebtorID,
		"debtee_id", payment.DebteeID,
		"amount", payment.Amount,
	)
	return true, nil
}

// GetPayment retrieves a payment by ID.
func (s *PaymentService) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	return s.store.GetPayment(ctx, id)
}

// ListPaymentsByDebtor retrieves payments made by a user.
func (s *PaymentService) ListPaymentsByDebtor(ctx context.Context, debtorID string) ([]*models.Payment, error) {
	return s.store.ListPaymentsByDebtor(ctx, debtorID)
}

// ListPaymentsByDebtee retrieves payments received by a user.
func (s *PaymentService) ListPaymentsByDebtee(ctx context.Context, debteeID string) ([]*models.Payment, error) {
	return s.store.ListPaymentsByDebtee(ctx, debteeID)
}

// ListPaymentsByGroup retrieves a group's payments.
func (s *PaymentService) ListPaymentsByGroup(ctx context.Context, groupID string) ([]*models.Payment, error) {
	return s.store.ListPaymentsByGroup(ctx, groupID)
}
