package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fairsplit/fairsplit/internal/models"
	"github.com/fairsplit/fairsplit/internal/storage"
)

const paymentColumns = "id, name, amount, debtor_id, debtee_id, group_id, request_id, created_at, updated_at"

// GetPayment retrieves a payment by ID.
func (s *SQLiteStore) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE id = ?`, id)
	payment, err := scanPayment(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("payment %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return payment, nil
}

// ListPaymentsByDebtor retrieves payments made by a user, newest first.
func (s *SQLiteStore) ListPaymentsByDebtor(ctx context.Context, debtorID string) ([]*models.Payment, error) {
	return s.listPayments(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE debtor_id = ? ORDER BY created_at DESC`,
		debtorID)
}

// ListPaymentsByDebtee retrieves payments received by a user, newest first.
func (s *SQLiteStore) ListPaymentsByDebtee(ctx context.Context, debteeID string) ([]*models.Payment, error) {
	return s.listPayments(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE debtee_id = ? ORDER BY created_at DESC`,
		debteeID)
}

// ListPaymentsByGroup retrieves a group's payments, newest first.
func (s *SQLiteStore) ListPaymentsByGroup(ctx context.Context, groupID string) ([]*models.Payment, error) {
	return s.listPayments(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE group_id = ? ORDER BY created_at DESC`,
		groupID)
}

// ApplyPayment persists the full outcome of a settlement in one
// transaction: both updated users, the fulfilled request (if any) and the
// new payment row.
func (s *SQLiteStore) ApplyPayment(ctx context.Context, payment *models.Payment, request *models.Request, debtor, debtee *models.User) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if payment.CreatedAt == 0 {
		payment.CreatedAt = now
	}
	if payment.UpdatedAt == 0 {
		payment.UpdatedAt = now
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := updateUserTx(ctx, tx, debtor); err != nil {
		return err
	}
	if err := updateUserTx(ctx, tx, debtee); err != nil {
		return err
	}
	if request != nil {
		if err := updateRequestTx(ctx, tx, request); err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO payments (`+paymentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		payment.ID, payment.Name, payment.Amount,
		payment.DebtorID, payment.DebteeID,
		nullable(payment.GroupID), nullable(payment.RequestID),
		payment.CreatedAt, payment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ReversePayment persists the full reversal of a settlement in one
// transaction: both restored users, the reopened request (if any) and the
// payment's deletion.
func (s *SQLiteStore) ReversePayment(ctx context.Context, payment *models.Payment, request *models.Request, debtor, debtee *models.User) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := updateUserTx(ctx, tx, debtor); err != nil {
		return err
	}
	if err := updateUserTx(ctx, tx, debtee); err != nil {
		return err
	}
	if request != nil {
		if err := updateRequestTx(ctx, tx, request); err != nil {
			return err
		}
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM payments WHERE id = ?", payment.ID)
	if err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("payment %s: %w", payment.ID, storage.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func updateUserTx(ctx context.Context, tx *sql.Tx, user *models.User) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE users SET balance = ?, updated_at = ? WHERE id = ?",
		user.Balance, user.UpdatedAt, user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user balance: %w", err)
	}
	return nil
}

func updateRequestTx(ctx context.Context, tx *sql.Tx, request *models.Request) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE requests SET is_fulfilled = ?, updated_at = ? WHERE id = ?",
		request.IsFulfilled, request.UpdatedAt, request.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update request: %w", err)
	}
	return nil
}

func (s *SQLiteStore) listPayments(ctx context.Context, query string, args ...interface{}) ([]*models.Payment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}
	return payments, nil
}

func scanPayment(row rowScanner) (*models.Payment, error) {
	payment := &models.Payment{}
	var groupID, requestID sql.NullString
	err := row.Scan(
		&payment.ID,
		&payment.Name,
		&payment.Amount,
		&payment.DebtorID,
		&payment.DebteeID,
		&groupID,
		&requestID,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	payment.GroupID = fromNull(groupID)
	payment.RequestID = fromNull(requestID)
	return payment, nil
}
