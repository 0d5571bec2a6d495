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

const requestColumns = "id, amount, is_fulfilled, expense_id, debtor_id, debtee_id, group_id, created_at, updated_at"

// CreateRequest persists a standalone request.
func (s *SQLiteStore) CreateRequest(ctx context.Context, request *models.Request) error {
	if request.ID == "" {
		request.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if request.CreatedAt == 0 {
		request.CreatedAt = now
	}
	if request.UpdatedAt == 0 {
		request.UpdatedAt = now
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO requests (`+requestColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		request.ID, request.Amount, request.IsFulfilled,
		nullable(request.ExpenseID), request.DebtorID, request.DebteeID,
		nullable(request.GroupID), request.CreatedAt, request.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert request: %w", err)
	}
	return nil
}

// GetRequest retrieves a request by ID.
func (s *SQLiteStore) GetRequest(ctx context.Context, id string) (*models.Request, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM requests WHERE id = ?`, id)
	request, err := scanRequest(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("request %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	return request, nil
}

// UpdateRequest overwrites a request's amount, fulfilled flag and timestamps.
func (s *SQLiteStore) UpdateRequest(ctx context.Context, request *models.Request) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE requests SET amount = ?, is_fulfilled = ?, updated_at = ? WHERE id = ?",
		request.Amount, request.IsFulfilled, request.UpdatedAt, request.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update request: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("request %s: %w", request.ID, storage.ErrNotFound)
	}
	return nil
}

// DeleteRequest removes a request by ID.
func (s *SQLiteStore) DeleteRequest(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM requests WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete request: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("request %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// ListRequestsByExpense retrieves the requests generated from an expense.
func (s *SQLiteStore) ListRequestsByExpense(ctx context.Context, expenseID string) ([]*models.Request, error) {
	return s.listRequests(ctx,
		`SELECT `+requestColumns+` FROM requests WHERE expense_id = ? ORDER BY created_at`,
		expenseID)
}

// ListRequestsByDebtor retrieves requests where the user owes, optionally
// restricted to unfulfilled ones.
func (s *SQLiteStore) ListRequestsByDebtor(ctx context.Context, debtorID string, unfulfilledOnly bool) ([]*models.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE debtor_id = ?`
	if unfulfilledOnly {
		query += " AND is_fulfilled = 0"
	}
	return s.listRequests(ctx, query+" ORDER BY created_at DESC", debtorID)
}

// ListRequestsByDebtee retrieves requests where the user is owed.
func (s *SQLiteStore) ListRequestsByDebtee(ctx context.Context, debteeID string) ([]*models.Request, error) {
	return s.listRequests(ctx,
		`SELECT `+requestColumns+` FROM requests WHERE debtee_id = ? ORDER BY created_at DESC`,
		debteeID)
}

// ListRequestsByGroup retrieves a group's requests, optionally restricted
// to unfulfilled ones.
func (s *SQLiteStore) ListRequestsByGroup(ctx context.Context, groupID string, unfulfilledOnly bool) ([]*models.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE group_id = ?`
	if unfulfilledOnly {
		query += " AND is_fulfilled = 0"
	}
	return s.listRequests(ctx, query+" ORDER BY created_at DESC", groupID)
}

func (s *SQLiteStore) listRequests(ctx context.Context, query string, args ...interface{}) ([]*models.Request, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	var requests []*models.Request
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, request)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate requests: %w", err)
	}
	return requests, nil
}

func scanRequest(row rowScanner) (*models.Request, error) {
	request := &models.Request{}
	var expenseID, groupID sql.NullString
	err := row.Scan(
		&request.ID,
		&request.Amount,
		&request.IsFulfilled,
		&expenseID,
		&request.DebtorID,
		&request.DebteeID,
		&groupID,
		&request.CreatedAt,
		&request.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	request.ExpenseID = fromNull(expenseID)
	request.GroupID = fromNull(groupID)
	return request, nil
}
