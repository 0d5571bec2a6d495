package calculator

import "github.com/fairsplit/fairsplit/internal/models"

// Transfer moves amount from debtor to debtee: the debtor's balance drops
// by amount and the debtee's rises by the same value. Balances may go
// negative; solvency is enforced only at request-acceptance time.
func Transfer(debtor, debtee *models.User, amount float64) {
	debtor.Balance -= amount
	debtee.Balance += amount
}

// Reverse undoes a previous transfer of amount from debtor to debtee.
func Reverse(debtor, debtee *models.User, amount float64) {
	debtor.Balance += amount
	debtee.Balance -= amount
}
