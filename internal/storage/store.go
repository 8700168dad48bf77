// Package storage provides abstractions for the account directory.
package storage

import (
	"context"
	"errors"

	"bankist/internal/models"
)

var (
	// ErrAccountNotFound indicates the requested account is not in the
	// directory.
	ErrAccountNotFound = errors.New("account not found")

	// ErrUsernameTaken indicates another account already derived the same
	// username. Usernames must stay unique so lookup is never ambiguous.
	ErrUsernameTaken = errors.New("username already taken")
)

// Directory defines the interface for account storage operations.
// This abstraction keeps the operations layer independent of the backing
// store, so backends can be swapped without changing the service code.
type Directory interface {
	// CreateAccount persists a new account together with any movements
	// already on it. Returns ErrUsernameTaken on a username collision.
	CreateAccount(ctx context.Context, acct *models.Account) error

	// GetByUsername retrieves an account, including its full movement
	// history in insertion order. Returns ErrAccountNotFound if absent.
	GetByUsername(ctx context.Context, username string) (*models.Account, error)

	// GetByID retrieves an account by its UUID, including movements.
	GetByID(ctx context.Context, id string) (*models.Account, error)

	// ListAccounts returns all accounts with their movements, in creation
	// order.
	ListAccounts(ctx context.Context) ([]*models.Account, error)

	// DeleteAccount removes an account and its entire movement history
	// irreversibly. Returns ErrAccountNotFound if absent.
	DeleteAccount(ctx context.Context, id string) error

	// AppendMovement records a signed amount on an account.
	AppendMovement(ctx context.Context, accountID string, amount float64, at int64) error

	// Transfer records -amount on the sender and +amount on the receiver
	// in a single transaction: either both movements land or neither does.
	Transfer(ctx context.Context, fromID, toID string, amount float64, at int64) error

	// Close releases any resources held by the directory.
	Close() error
}
