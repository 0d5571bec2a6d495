package service

import (
	"context"
	"errors"
	"testing"

	"github.com/fairsplit/fairsplit/internal/models"
	"github.com/fairsplit/fairsplit/internal/storage"
)

func TestCreatePayment_TransfersBalance(t *testing.T) {
	store := newTestStore(t)
	svc := NewPaymentService(store)
	ctx := context.Background()

	alice := createUser(t, store, "alice", 20)
	bob := createUser(t, store, "bob", 100)

	payment, err := svc.CreatePayment(ctx, &models.Payment{
		Name:     "Lunch money",
		Amount:   30,
		DebtorID: bob.ID,
		DebteeID: alice.ID,
	})
	if err != nil {
		t.Fatalf("CreatePayment failed: %v", err)
	}
	if payment.ID == "" {
		t.Fatal("expected payment ID to be set")
	}

	if got := userBalance(t, store, bob.ID); got != 70 {
		t.Errorf("debtor balance = %v, want 70", got)
	}
	if got := userBalance(t, store, alice.ID); got != 50 {
		t.Errorf("debtee balance = %v, want 50", got)
	}
}

func TestCreatePayment_AmountMustMatchRequest(t *testing.T) {
	store := newTestStore(t)
	svc := NewPaymentService(store)
	ctx := context.Background()

	alice := createUser(t, store, "alice", 0)
	bob := createUser(t, store, "bob", 100)

	request := &models.Request{Amount: 30, DebtorID: bob.ID, DebteeID: alice.ID}
	if err := store.CreateRequest(ctx, request); err != nil {
		t.Fatalf("CreateRequest failed: %v", err)
	}

	_, err := svc.CreatePayment(ctx, &models.Payment{
		Name:      "Partial",
		Amount:    20,
		DebtorID:  bob.ID,
		DebteeID:  alice.ID,
		RequestID: request.ID,
	})
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for amount mismatch, got %v", err)
	}

	// Nothing changed: balances untouched, request still open.
	if got := userBalance(t, store, bob.ID); got != 100 {
		t.Errorf("debtor balance = %v, want 100", got)
	}
	got, err := store.GetRequest(ctx, request.ID)
	if err != nil {
		t.Fatalf("GetRequest failed: %v", err)
	}
	if got.IsFulfilled {
		t.Error("request should remain open after a rejected payment")
	}
}

func TestCreatePayment_FulfillsLinkedRequest(t *testing.T) {
	store := newTestStore(t)
	svc := NewPaymentService(store)
	ctx := context.Background()

	alice := createUser(t, store, "alice", 0)
	bob := createUser(t, store, "bob", 100)

	request := &models.Request{Amount: 30, DebtorID: bob.ID, DebteeID: alice.ID}
	if err := store.CreateRequest(ctx, request); err != nil {
		t.Fatalf("CreateRequest failed: %v", err)
	}

	if _, err := svc.CreatePayment(ctx, &models.Payment{
		Name:      "Settle up",
		Amount:    30,
		DebtorID:  bob.ID,
		DebteeID:  alice.ID,
		RequestID: request.ID,
	}); err != nil {
		t.Fatalf("CreatePayment failed: %v", err)
	}

	got, err := store.GetRequest(ctx, request.ID)
	if err != nil {
		t.Fatalf("GetRequest failed: %v", err)
	}
	if !got.IsFulfilled {
		t.Error("expected linked request to be fulfilled")
	}
}

func TestDeletePayment_ReversesSettlement(t *testing.T) {
	store := newTestStore(t)
	svc := NewPaymentService(store)
	ctx := context.Background()

	alice := createUser(t, store, "alice", 0)
	bob := createUser(t, store, "bob", 100)

	request := &models.Request{Amount: 30, DebtorID: bob.ID, DebteeID: alice.ID}
	if err := store.CreateRequest(ctx, request); err != nil {
		t.Fatalf("CreateRequest failed: %v", err)
	}

	payment, err := svc.CreatePayment(ctx, &models.Payment{
		Name:      "Settle up",
		Amount:    30,
		DebtorID:  bob.ID,
		DebteeID:  alice.ID,
		RequestID: request.ID,
	})
	if err != nil {
		t.Fatalf("CreatePayment failed: %v", err)
	}

	found, err := svc.DeletePayment(ctx, payment.ID)
	if err != nil {
		t.Fatalf("DeletePayment failed: %v", err)
	}
	if !found {
		t.Fatal("expected payment to be found")
	}

	// Balances restored, request reopened, payment gone.
	if got := userBalance(t, store, bob.ID); got != 100 {
		t.Errorf("debtor balance = %v, want 100", got)
	}
	if got := userBalance(t, store, alice.ID); got != 0 {
		t.Errorf("debtee balance = %v, want 0", got)
	}
	gotRequest, err := store.GetRequest(ctx, request.ID)
	if err != nil {
		t.Fatalf("GetRequest failed: %v", err)
	}
	if gotRequest.IsFulfilled {
		t.Error("expected request to be reopened")
	}
	if _, err := svc.GetPayment(ctx, payment.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound for deleted payment, got %v", err)
	}
}

func TestDeletePayment_MissingIsNotAnError(t *testing.T) {
	store := newTestStore(t)
	svc := NewPaymentService(store)

	found, err := svc.DeletePayment(context.Background(), "missing")
	if err != nil {
		t.Fatalf("DeletePayment failed: %v", err)
	}
	if found {
		t.Error("expected found=false for a missing payment")
	}
}

func TestCreatePayment_Validation(t *testing.T) {
	store := newTestStore(t)
	svc := NewPaymentService(store)
	ctx := context.Background()

	alice := createUser(t, store, "alice", 0)
	bob := createUser(t, store, "bob", 100)

	tests := []struct {
		name    string
		payment *models.Payment
	}{
		{
			name:    "empty name",
			payment: &models.Payment{Amount: 10, DebtorID: bob.ID, DebteeID: alice.ID},
		},
		{
			name:    "zero amount",
			payment: &models.Payment{Name: "X", Amount: 0, DebtorID: bob.ID, DebteeID: alice.ID},
		},
		{
			name:    "missing debtee",
			payment: &models.Payment{Name: "X", Amount: 10, DebtorID: bob.ID},
		},
		{
			name:    "unknown debtor",
			payment: &models.Payment{Name: "X", Amount: 10, DebtorID: "missing", DebteeID: alice.ID},
		},
		{
			name:    "unknown request",
			payment: &models.Payment{Name: "X", Amount: 10, DebtorID: bob.ID, DebteeID: alice.ID, RequestID: "missing"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreatePayment(ctx, tt.payment); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestPaymentRoundTrip_RepeatedSettleAndReverse(t *testing.T) {
	store := newTestStore(t)
	svc := NewPaymentService(store)
	ctx := context.Background()

	alice := createUser(t, store, "alice", 10)
	bob := createUser(t, store, "bob", 40)

	request := &models.Request{Amount: 15, DebtorID: bob.ID, DebteeID: alice.ID}
	if err := store.CreateRequest(ctx, request); err != nil {
		t.Fatalf("CreateRequest failed: %v", err)
	}

	// Settle and reverse twice; balances must come back exactly.
	for i := 0; i < 2; i++ {
		payment, err := svc.CreatePayment(ctx, &models.Payment{
			Name:      "Settle up",
			Amount:    15,
			DebtorID:  bob.ID,
			DebteeID:  alice.ID,
			RequestID: request.ID,
		})
		if err != nil {
			t.Fatalf("CreatePayment round %d failed: %v", i, err)
		}
		found, err := svc.DeletePayment(ctx, payment.ID)
		if err != nil || !found {
			t.Fatalf("DeletePayment round %d failed: found=%v err=%v", i, found, err)
		}
	}

	if got := userBalance(t, store, bob.ID); got != 40 {
		t.Errorf("debtor balance = %v, want 40", got)
	}
	if got := userBalance(t, store, alice.ID); got != 10 {
		t.Errorf("debtee balance = %v, want 10", got)
	}
}
