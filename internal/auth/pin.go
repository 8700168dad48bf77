package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/crypto/bcrypt"

	"bankist/internal/models"
)

var (
	// ErrAccountNotFound indicates no account exists for the username.
	ErrAccountNotFound = errors.New("no account for that username")

	// ErrWrongPin indicates the supplied pin does not match the account's.
	ErrWrongPin = errors.New("wrong pin")

	// ErrNoSession indicates an operation that requires an authenticated
	// account was invoked without one.
	ErrNoSession = errors.New("no account is logged in")
)

// AccountSource defines the lookup the authenticator needs. This keeps the
// authenticator independent of the storage implementation.
type AccountSource interface {
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
}

// PinAuthenticator verifies username/pin credentials against a directory.
// Pins are stored bcrypt-hashed; authentication succeeds exactly when the
// supplied pin equals the pin the account was created with.
type PinAuthenticator struct {
	source AccountSource
}

// NewPinAuthenticator creates an authenticator backed by the given source.
func NewPinAuthenticator(source AccountSource) *PinAuthenticator {
	return &PinAuthenticator{source: source}
}

// HashPin returns the bcrypt hash of a numeric pin for storage at rest.
func HashPin(pin int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(strconv.Itoa(pin)), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash pin: %w", err)
	}
	return string(hash), nil
}

// Authenticate looks the username up and verifies the pin, returning the
// account on success. Fails with ErrAccountNotFound or ErrWrongPin.
func (a *PinAuthenticator) Authenticate(ctx context.Context, username string, pin int) (*models.Account, error) {
	acct, err := a.source.GetByUsername(ctx, username)
	if err != nil {
		return nil, ErrAccountNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.PinHash), []byte(strconv.Itoa(pin))); err != nil {
		return nil, ErrWrongPin
	}

	return acct, nil
}
