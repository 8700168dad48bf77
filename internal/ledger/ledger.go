// Package ledger derives display figures from an account's movement history.
//
// All derivations are pure and uncached: they recompute from the full
// movement sequence every time, so the figures can never drift from the
// history they are derived from.
package ledger

import (
	"sort"

	"bankist/internal/models"
)

// Summary holds the derived income/expense/interest figures for one account.
type Summary struct {
	// Income is the sum of all positive movements.
	Income float64 `json:"income"`

	// Expense is the sum of all negative movements. The sign is retained,
	// so Expense is always <= 0.
	Expense float64 `json:"expense"`

	// Interest is the sum over positive movements of
	// amount * interestRate / 100.
	Interest float64 `json:"interest"`
}

// Balance returns the sum of all movement amounts.
func Balance(movs []models.Movement) float64 {
	var total float64
	for _, m := range movs {
		total += m.Amount
	}
	return total
}

// Summarize computes the income, expense and interest figures for a movement
// history at the given deposit interest rate (a percentage).
func Summarize(movs []models.Movement, interestRate float64) Summary {
	var s Summary
	for _, m := range movs {
		if m.Amount > 0 {
			s.Income += m.Amount
			s.Interest += m.Amount * interestRate / 100
		} else {
			s.Expense += m.Amount
		}
	}
	return s
}

// SortedForDisplay returns a copy of the movement history, sorted ascending
// by amount when ascending is true and in insertion order otherwise. The
// input slice is never mutated; insertion order is significant and must
// survive any number of display sorts.
func SortedForDisplay(movs []models.Movement, ascending bool) []models.Movement {
	out := make([]models.Movement, len(movs))
	copy(out, movs)
	if ascending {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Amount < out[j].Amount
		})
	}
	return out
}
