// Package metrics exposes Prometheus counters for the ledger operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation outcomes. Rejections are expected, user-correctable conditions,
// so they get their own outcome rather than being lumped in with errors.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

var (
	// Logins counts login attempts by outcome.
	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bankist_logins_total",
		Help: "Login attempts by outcome.",
	}, []string{"outcome"})

	// Transfers counts transfer attempts by outcome.
	Transfers = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bankist_transfers_total",
		Help: "Transfer attempts by outcome.",
	}, []string{"outcome"})

	// Loans counts loan requests by outcome.
	Loans = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bankist_loans_total",
		Help: "Loan requests by outcome.",
	}, []string{"outcome"})

	// Closures counts account closure attempts by outcome.
	Closures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bankist_closures_total",
		Help: "Account closure attempts by outcome.",
	}, []string{"outcome"})
)
