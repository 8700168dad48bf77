package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bankist/internal/middleware"
)

// Handler builds the full route table. Mutating and per-account read
// endpoints sit behind bearer-token auth; the account list, health and
// metrics endpoints are open.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/login", s.login)
	mux.HandleFunc("GET /api/accounts", s.accounts)

	protected := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireAuth(s.jwt, h)
	}
	mux.Handle("POST /api/logout", protected(s.logout))
	mux.Handle("POST /api/transfer", protected(s.transfer))
	mux.Handle("POST /api/loan", protected(s.loan))
	mux.Handle("POST /api/close", protected(s.closeAccount))
	mux.Handle("GET /api/movements", protected(s.movements))
	mux.Handle("GET /api/balance", protected(s.balance))
	mux.Handle("GET /api/summary", protected(s.summary))

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return middleware.Logging(mux)
}
