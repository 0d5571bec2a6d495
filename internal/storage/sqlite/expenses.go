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

// CreateExpense persists an expense together with its generated requests
// as one transaction. Either the expense, its assignment rows and every
// request commit, or nothing does.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense, requests []*models.Request) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if expense.CreatedAt == 0 {
		expense.CreatedAt = now
	}
	if expense.UpdatedAt == 0 {
		expense.UpdatedAt = now
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, name, amount, category, paid, payer_id, group_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.Name, expense.Amount, expense.Category, expense.Paid,
		expense.PayerID, expense.GroupID, expense.CreatedAt, expense.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for _, userID := range expense.AssignedUserIDs {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_assigned_users (expense_id, user_id) VALUES (?, ?)",
			expense.ID, userID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense assignment: %w", err)
		}
	}

	for _, request := range requests {
		if request.ID == "" {
			request.ID = uuid.New().String()
		}
		request.ExpenseID = expense.ID
		if request.CreatedAt == 0 {
			request.CreatedAt = now
		}
		if request.UpdatedAt == 0 {
			request.UpdatedAt = now
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO requests (id, amount, is_fulfilled, expense_id, debtor_id, debtee_id, group_id, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			request.ID, request.Amount, request.IsFulfilled,
			request.ExpenseID, request.DebtorID, request.DebteeID,
			nullable(request.GroupID), request.CreatedAt, request.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert request: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetExpense retrieves an expense by ID, including assigned user IDs.
func (s *SQLiteStore) GetExpense(ctx context.Context, id string) (*models.Expense, error) {
	expense := &models.Expense{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, amount, category, paid, payer_id, group_id, created_at, updated_at
		 FROM expenses WHERE id = ?`,
		id,
	).Scan(&expense.ID, &expense.Name, &expense.Amount, &expense.Category, &expense.Paid,
		&expense.PayerID, &expense.GroupID, &expense.CreatedAt, &expense.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("expense %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	assigned, err := s.expenseAssignedIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	expense.AssignedUserIDs = assigned
	return expense, nil
}

// ListExpensesByGroup retrieves all expenses for a group, newest first.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, amount, category, paid, payer_id, group_id, created_at, updated_at
		 FROM expenses WHERE group_id = ? ORDER BY created_at DESC`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses by group: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense := &models.Expense{}
		if err := rows.Scan(&expense.ID, &expense.Name, &expense.Amount, &expense.Category, &expense.Paid,
			&expense.PayerID, &expense.GroupID, &expense.CreatedAt, &expense.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for _, expense := range expenses {
		assigned, err := s.expenseAssignedIDs(ctx, expense.ID)
		if err != nil {
			return nil, err
		}
		expense.AssignedUserIDs = assigned
	}
	return expenses, nil
}

// UpdateExpense overwrites an expense's mutable fields. Assignment rows
// are a creation-time snapshot and never rewritten here.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE expenses SET name = ?, category = ?, paid = ?, updated_at = ? WHERE id = ?",
		expense.Name, expense.Category, expense.Paid, expense.UpdatedAt, expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("expense %s: %w", expense.ID, storage.ErrNotFound)
	}
	return nil
}

// DeleteExpense removes an expense and every request generated from it
// as one transaction.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM requests WHERE expense_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete expense requests: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM expense_assigned_users WHERE expense_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete expense assignments: %w", err)
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("expense %s: %w", id, storage.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) expenseAssignedIDs(ctx context.Context, expenseID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id FROM expense_assigned_users WHERE expense_id = ? ORDER BY user_id",
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense assignments: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan expense assignment: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense assignments: %w", err)
	}
	return ids, nil
}
