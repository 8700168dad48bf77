package storage

import (
	"context"
	"fmt"

	"bankist/internal/auth"
	"bankist/internal/models"
)

// Seed populates the directory with the fixed demo accounts, hashing each
// pin at rest and replaying the fixture movement history in order. Called
// once at process start; tests use it to build the same world.
func Seed(ctx context.Context, dir Directory) error {
	for _, seed := range models.SeedAccounts() {
		pinHash, err := auth.HashPin(seed.Pin)
		if err != nil {
			return fmt.Errorf("failed to hash pin for %q: %w", seed.Owner, err)
		}

		acct, err := models.NewAccount(seed.Owner, seed.InterestRate, pinHash)
		if err != nil {
			return fmt.Errorf("failed to build account for %q: %w", seed.Owner, err)
		}
		for i, amount := range seed.Movements {
			acct.Movements = append(acct.Movements, models.Movement{
				Amount:     amount,
				RecordedAt: acct.CreatedAt + int64(i),
			})
		}

		if err := dir.CreateAccount(ctx, acct); err != nil {
			return fmt.Errorf("failed to seed account %q: %w", seed.Owner, err)
		}
	}
	return nil
}
