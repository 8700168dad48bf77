// Package sqlite provides a SQLite-backed implementation of the
// storage.Directory interface.
//
// The default DSN is ":memory:", so directory state lives only for the
// process lifetime; passing a file path instead persists it.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"bankist/internal/models"
	"bankist/internal/storage"
)

// InMemoryDSN keeps the whole directory in process memory.
const InMemoryDSN = ":memory:"

// Ensure SQLiteDirectory implements storage.Directory
var _ storage.Directory = (*SQLiteDirectory)(nil)

// SQLiteDirectory implements storage.Directory using SQLite.
type SQLiteDirectory struct {
	db *sql.DB
}

// New creates a SQLiteDirectory for the given DSN. For file DSNs it creates
// the parent directories; migrations run automatically either way.
func New(dsn string) (*SQLiteDirectory, error) {
	if dsn == "" {
		dsn = InMemoryDSN
	}

	if dsn != InMemoryDSN {
		dir := filepath.Dir(dsn)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A :memory: DSN opens a fresh empty database per connection; keep a
	// single connection so every query sees the same directory.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteDirectory{db: db}, nil
}

// Close closes the database connection.
func (d *SQLiteDirectory) Close() error {
	return d.db.Close()
}

// CreateAccount persists a new account and any movements already on it.
func (d *SQLiteDirectory) CreateAccount(ctx context.Context, acct *models.Account) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var taken int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM accounts WHERE username = ?", acct.Username,
	).Scan(&taken)
	if err != nil {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if taken > 0 {
		return storage.ErrUsernameTaken
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO accounts (id, owner, username, interest_rate, pin_hash, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		acct.ID, acct.Owner, acct.Username, acct.InterestRate, acct.PinHash, acct.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}

	for _, mov := range acct.Movements {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO movements (account_id, amount, recorded_at) VALUES (?, ?, ?)",
			acct.ID, mov.Amount, mov.RecordedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert movement: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetByUsername retrieves an account with its movement history.
func (d *SQLiteDirectory) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	return d.getAccount(ctx, "username = ?", username)
}

// GetByID retrieves an account with its movement history.
func (d *SQLiteDirectory) GetByID(ctx context.Context, id string) (*models.Account, error) {
	return d.getAccount(ctx, "id = ?", id)
}

func (d *SQLiteDirectory) getAccount(ctx context.Context, where string, arg any) (*models.Account, error) {
	acct := &models.Account{}
	err := d.db.QueryRowContext(ctx,
		"SELECT id, owner, username, interest_rate, pin_hash, created_at FROM accounts WHERE "+where,
		arg,
	).Scan(&acct.ID, &acct.Owner, &acct.Username, &acct.InterestRate, &acct.PinHash, &acct.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	movs, err := d.movementsFor(ctx, acct.ID)
	if err != nil {
		return nil, err
	}
	acct.Movements = movs

	return acct, nil
}

// ListAccounts returns all accounts with movements, in creation order.
func (d *SQLiteDirectory) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	rows, err := d.db.QueryContext(ctx,
		"SELECT id, owner, username, interest_rate, pin_hash, created_at FROM accounts ORDER BY rowid",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		acct := &models.Account{}
		if err := rows.Scan(&acct.ID, &acct.Owner, &acct.Username, &acct.InterestRate, &acct.PinHash, &acct.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, acct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}

	for _, acct := range accounts {
		movs, err := d.movementsFor(ctx, acct.ID)
		if err != nil {
			return nil, err
		}
		acct.Movements = movs
	}

	return accounts, nil
}

// DeleteAccount removes an account; its movements cascade with it.
func (d *SQLiteDirectory) DeleteAccount(ctx context.Context, id string) error {
	res, err := d.db.ExecContext(ctx, "DELETE FROM accounts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return storage.ErrAccountNotFound
	}
	return nil
}

// AppendMovement records a signed amount on an account.
func (d *SQLiteDirectory) AppendMovement(ctx context.Context, accountID string, amount float64, at int64) error {
	_, err := d.db.ExecContext(ctx,
		"INSERT INTO movements (account_id, amount, recorded_at) VALUES (?, ?, ?)",
		accountID, amount, at,
	)
	if err != nil {
		return fmt.Errorf("failed to insert movement: %w", err)
	}
	return nil
}

// Transfer records the debit and the credit inside one transaction, so a
// failure on either side leaves both histories untouched.
func (d *SQLiteDirectory) Transfer(ctx context.Context, fromID, toID string, amount float64, at int64) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO movements (account_id, amount, recorded_at) VALUES (?, ?, ?)",
		fromID, -amount, at,
	)
	if err != nil {
		return fmt.Errorf("failed to record debit: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO movements (account_id, amount, recorded_at) VALUES (?, ?, ?)",
		toID, amount, at,
	)
	if err != nil {
		return fmt.Errorf("failed to record credit: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transfer: %w", err)
	}

	return nil
}

func (d *SQLiteDirectory) movementsFor(ctx context.Context, accountID string) ([]models.Movement, error) {
	rows, err := d.db.QueryContext(ctx,
		"SELECT amount, recorded_at FROM movements WHERE account_id = ? ORDER BY seq",
		accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get movements: %w", err)
	}
	defer rows.Close()

	var movs []models.Movement
	for rows.Next() {
		var m models.Movement
		if err := rows.Scan(&m.Amount, &m.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan movement: %w", err)
		}
		movs = append(movs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate movements: %w", err)
	}

	return movs, nil
}
