package models

import (
	"time"

	"github.com/google/uuid"

	"bankist/internal/username"
)

// Account is a ledger account: an owner, login credentials, and an ordered
// movement history from which balance and summary figures are derived.
type Account struct {
	// ID is the unique identifier for the account (UUID format).
	// The username is derived from the owner name and may in principle
	// collide between owners; the UUID is the durable key.
	ID string `json:"id"`

	// Owner is the display name of the account holder.
	Owner string `json:"owner"`

	// Username is the login handle: the lowercased initials of the owner
	// name. Fixed at creation and never recomputed.
	Username string `json:"username"`

	// InterestRate is the percentage applied to deposits when computing
	// the interest summary figure.
	InterestRate float64 `json:"interest_rate"`

	// PinHash is the bcrypt hash of the account's numeric pin.
	PinHash string `json:"-"`

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64 `json:"created_at"`

	// Movements is the ordered transaction history. Positive amounts are
	// deposits, negative amounts withdrawals. Append-only.
	Movements []Movement `json:"movements"`
}

// Movement is a single signed transaction amount recorded against an account.
type Movement struct {
	Amount     float64 `json:"amount"`
	RecordedAt int64   `json:"recorded_at"`
}

// NewAccount creates an account for the given owner, deriving the username
// from the owner name. Returns username.ErrInvalidName if the owner name
// cannot yield a username.
func NewAccount(owner string, interestRate float64, pinHash string) (*Account, error) {
	handle, err := username.Derive(owner)
	if err != nil {
		return nil, err
	}
	return &Account{
		ID:           uuid.New().String(),
		Owner:        owner,
		Username:     handle,
		InterestRate: interestRate,
		PinHash:      pinHash,
		CreatedAt:    time.Now().Unix(),
	}, nil
}

// Amounts returns just the signed amounts of the movement history, in order.
func Amounts(movs []Movement) []float64 {
	out := make([]float64, len(movs))
	for i, m := range movs {
		out[i] = m.Amount
	}
	return out
}
