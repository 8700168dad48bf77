// Package service implements the ledger operations: the rule layer that
// validates every mutation against directory and session state before
// applying it.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"bankist/internal/auth"
	"bankist/internal/ledger"
	"bankist/internal/metrics"
	"bankist/internal/models"
	"bankist/internal/storage"
)

// Business-rule rejections. These are expected, user-correctable outcomes,
// not faults; a rejected operation mutates nothing.
var (
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrInsufficientFunds  = errors.New("insufficient balance")
	ErrSelfTransfer       = errors.New("cannot transfer to the sending account")
	ErrLoanIneligible     = errors.New("no movement covers 10% of the requested loan")
	ErrCredentialMismatch = errors.New("credentials do not match the logged-in account")
)

// LedgerService owns the account directory and the session and exposes the
// operations the presentation layer calls into. All reads recompute derived
// figures from the stored movement history; nothing is cached.
type LedgerService struct {
	dir           storage.Directory
	session       *auth.Session
	authenticator *auth.PinAuthenticator
	logger        *slog.Logger
}

// NewLedgerService creates the operations layer over the given directory,
// starting unauthenticated.
func NewLedgerService(dir storage.Directory, logger *slog.Logger) *LedgerService {
	return &LedgerService{
		dir:           dir,
		session:       auth.NewSession(),
		authenticator: auth.NewPinAuthenticator(dir),
		logger:        logger,
	}
}

// Login authenticates the username/pin pair and starts a session. On
// failure the session is left exactly as it was.
func (s *LedgerService) Login(ctx context.Context, username string, pin int) (*models.Account, error) {
	acct, err := s.authenticator.Authenticate(ctx, username, pin)
	if err != nil {
		s.logger.Warn("login failed", "username", username, "error", err)
		metrics.Logins.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, err
	}

	s.session.Start(acct.ID)
	s.logger.Info("login", "username", acct.Username, "account_id", acct.ID)
	metrics.Logins.WithLabelValues(metrics.OutcomeOK).Inc()
	return acct, nil
}

// Logout clears the session. Always succeeds, even when nobody is logged in.
func (s *LedgerService) Logout() {
	s.session.Clear()
	s.logger.Info("logout")
}

// Transfer moves amount from the logged-in account to the named receiver.
// Validation order: positive amount, receiver exists, sender balance covers
// the amount, receiver is not the sender. Any rejection leaves both
// movement histories untouched; on success the debit and credit land in a
// single transaction.
func (s *LedgerService) Transfer(ctx context.Context, toUsername string, amount float64) error {
	sender, err := s.current(ctx)
	if err != nil {
		return err
	}

	receiver, err := s.validateTransfer(ctx, sender, toUsername, amount)
	if err != nil {
		s.logger.Warn("transfer rejected",
			"from", sender.Username,
			"to", toUsername,
			"amount", amount,
			"reason", err,
		)
		metrics.Transfers.WithLabelValues(metrics.OutcomeRejected).Inc()
		return err
	}

	if err := s.dir.Transfer(ctx, sender.ID, receiver.ID, amount, time.Now().Unix()); err != nil {
		metrics.Transfers.WithLabelValues(metrics.OutcomeError).Inc()
		return err
	}

	s.logger.Info("transfer",
		"from", sender.Username,
		"to", receiver.Username,
		"amount", amount,
	)
	metrics.Transfers.WithLabelValues(metrics.OutcomeOK).Inc()
	return nil
}

// validateTransfer applies the transfer preconditions in their required
// order: positive amount, receiver exists, sufficient balance, no
// self-transfer.
func (s *LedgerService) validateTransfer(ctx context.Context, sender *models.Account, toUsername string, amount float64) (*models.Account, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	receiver, err := s.dir.GetByUsername(ctx, toUsername)
	if err != nil {
		return nil, err
	}
	if ledger.Balance(sender.Movements) < amount {
		return nil, ErrInsufficientFunds
	}
	if receiver.ID == sender.ID {
		return nil, ErrSelfTransfer
	}
	return receiver, nil
}

// RequestLoan grants a loan of amount iff amount is positive and some
// existing movement on the account is at least 10% of it. An approved loan
// is recorded as a single unmatched deposit; a rejection records nothing.
func (s *LedgerService) RequestLoan(ctx context.Context, amount float64) error {
	acct, err := s.current(ctx)
	if err != nil {
		return err
	}

	if amount <= 0 {
		metrics.Loans.WithLabelValues(metrics.OutcomeRejected).Inc()
		return ErrInvalidAmount
	}

	eligible := false
	for _, mov := range acct.Movements {
		if mov.Amount >= amount*0.1 {
			eligible = true
			break
		}
	}
	if !eligible {
		s.logger.Warn("loan rejected", "username", acct.Username, "amount", amount)
		metrics.Loans.WithLabelValues(metrics.OutcomeRejected).Inc()
		return ErrLoanIneligible
	}

	if err := s.dir.AppendMovement(ctx, acct.ID, amount, time.Now().Unix()); err != nil {
		metrics.Loans.WithLabelValues(metrics.OutcomeError).Inc()
		return err
	}

	s.logger.Info("loan granted", "username", acct.Username, "amount", amount)
	metrics.Loans.WithLabelValues(metrics.OutcomeOK).Inc()
	return nil
}

// CloseAccount deletes the logged-in account and ends the session. The
// supplied credentials must match the session's account exactly; on any
// mismatch the account stays and the session remains active.
func (s *LedgerService) CloseAccount(ctx context.Context, username string, pin int) error {
	acct, err := s.current(ctx)
	if err != nil {
		return err
	}

	if username != acct.Username {
		metrics.Closures.WithLabelValues(metrics.OutcomeRejected).Inc()
		return ErrCredentialMismatch
	}
	if _, err := s.authenticator.Authenticate(ctx, username, pin); err != nil {
		metrics.Closures.WithLabelValues(metrics.OutcomeRejected).Inc()
		return ErrCredentialMismatch
	}

	if err := s.dir.DeleteAccount(ctx, acct.ID); err != nil {
		metrics.Closures.WithLabelValues(metrics.OutcomeError).Inc()
		return err
	}
	s.session.Clear()

	s.logger.Info("account closed", "username", acct.Username, "account_id", acct.ID)
	metrics.Closures.WithLabelValues(metrics.OutcomeOK).Inc()
	return nil
}

// Movements returns the logged-in account's movement history, optionally
// sorted ascending by amount. The sort is a display transform on a copy;
// the stored insertion order is never touched.
func (s *LedgerService) Movements(ctx context.Context, sortAscending bool) ([]models.Movement, error) {
	acct, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	return ledger.SortedForDisplay(acct.Movements, sortAscending), nil
}

// Balance returns the logged-in account's current balance.
func (s *LedgerService) Balance(ctx context.Context) (float64, error) {
	acct, err := s.current(ctx)
	if err != nil {
		return 0, err
	}
	return ledger.Balance(acct.Movements), nil
}

// Summary returns the logged-in account's income/expense/interest figures.
func (s *LedgerService) Summary(ctx context.Context) (ledger.Summary, error) {
	acct, err := s.current(ctx)
	if err != nil {
		return ledger.Summary{}, err
	}
	return ledger.Summarize(acct.Movements, acct.InterestRate), nil
}

// ListAccounts returns every account in the directory, for display
// iteration. Requires no session.
func (s *LedgerService) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	return s.dir.ListAccounts(ctx)
}

// current resolves the session to a fresh account snapshot. Fails with
// auth.ErrNoSession when nobody is logged in; a session pointing at an
// account that no longer exists is cleared and treated the same way.
func (s *LedgerService) current(ctx context.Context) (*models.Account, error) {
	id, ok := s.session.ActiveID()
	if !ok {
		return nil, auth.ErrNoSession
	}
	acct, err := s.dir.GetByID(ctx, id)
	if errors.Is(err, storage.ErrAccountNotFound) {
		s.session.Clear()
		return nil, auth.ErrNoSession
	}
	if err != nil {
		return nil, err
	}
	return acct, nil
}
