package calculator

import (
	"fmt"

	"github.com/fairsplit/fairsplit/internal/models"
)

// SplitShare computes the per-participant share of an expense amount
// using plain floating-point division. No remainder redistribution is
// performed: for amounts that do not divide evenly the shares will not
// sum back to the amount exactly, and callers compare with a tolerance.
func SplitShare(amount float64, participants int) (float64, error) {
	if participants <= 0 {
		return 0, fmt.Errorf("must have at least one participant")
	}
	return amount / float64(participants), nil
}

// BuildRequests materializes one open request per assigned user, skipping
// the payer: the payer fronted the money and owes nothing to themselves.
// Each request is for the equal share of the expense amount, debtor = the
// assigned user, debtee = the payer.
func BuildRequests(expense *models.Expense, assignedUserIDs []string) ([]*models.Request, error) {
	share, err := SplitShare(expense.Amount, len(assignedUserIDs))
	if err != nil {
		return nil, err
	}

	var requests []*models.Request
	for _, userID := range assignedUserIDs {
		if userID == expense.PayerID {
			continue
		}
		requests = append(requests, &models.Request{
			Amount:      share,
			IsFulfilled: false,
			ExpenseID:   expense.ID,
			DebtorID:    userID,
			DebteeID:    expense.PayerID,
			GroupID:     expense.GroupID,
		})
	}
	return requests, nil
}
