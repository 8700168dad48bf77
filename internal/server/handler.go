// Package server exposes the ledger operations as a JSON API. It is the
// presentation boundary: all parsing of raw input happens here, so the
// operations layer only ever sees typed values.
package server

import (
	"encoding/json"
	"net/http"

	"bankist/internal/auth"
	"bankist/internal/ledger"
	"bankist/internal/models"
	"bankist/internal/service"
)

// Server wires the operations layer to HTTP.
type Server struct {
	svc *service.LedgerService
	jwt *auth.JWTManager
}

// New creates a Server over the given operations layer.
func New(svc *service.LedgerService, jwt *auth.JWTManager) *Server {
	return &Server{svc: svc, jwt: jwt}
}

type accountView struct {
	Owner    string  `json:"owner"`
	Username string  `json:"username"`
	Balance  float64 `json:"balance"`
}

func viewOf(acct *models.Account) accountView {
	return accountView{
		Owner:    acct.Owner,
		Username: acct.Username,
		Balance:  ledger.Balance(acct.Movements),
	}
}

// login handles POST /api/login.
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Pin      int    `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}

	acct, err := s.svc.Login(r.Context(), req.Username, req.Pin)
	if err != nil {
		writeDomainErr(w, err)
		return
	}

	token, err := s.jwt.Generate(acct)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Token   string      `json:"token"`
		Account accountView `json:"account"`
	}{Token: token, Account: viewOf(acct)})
}

// logout handles POST /api/logout.
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.svc.Logout()
	w.WriteHeader(http.StatusNoContent)
}

// transfer handles POST /api/transfer.
func (s *Server) transfer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		To     string  `json:"to"`
		Amount float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}

	if err := s.svc.Transfer(r.Context(), req.To, req.Amount); err != nil {
		writeDomainErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// loan handles POST /api/loan.
func (s *Server) loan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}

	if err := s.svc.RequestLoan(r.Context(), req.Amount); err != nil {
		writeDomainErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// closeAccount handles POST /api/close.
func (s *Server) closeAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Pin      int    `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}

	if err := s.svc.CloseAccount(r.Context(), req.Username, req.Pin); err != nil {
		writeDomainErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// movements handles GET /api/movements. ?sort=asc returns a copy sorted
// ascending by amount; the stored order is untouched either way.
func (s *Server) movements(w http.ResponseWriter, r *http.Request) {
	sortAscending := r.URL.Query().Get("sort") == "asc"

	movs, err := s.svc.Movements(r.Context(), sortAscending)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, movs)
}

// balance handles GET /api/balance.
func (s *Server) balance(w http.ResponseWriter, r *http.Request) {
	bal, err := s.svc.Balance(r.Context())
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Balance float64 `json:"balance"`
	}{Balance: bal})
}

// summary handles GET /api/summary.
func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.svc.Summary(r.Context())
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// accounts handles GET /api/accounts: the owner/username list the login
// screen shows. No session required.
func (s *Server) accounts(w http.ResponseWriter, r *http.Request) {
	accts, err := s.svc.ListAccounts(r.Context())
	if err != nil {
		writeDomainErr(w, err)
		return
	}

	views := make([]accountView, len(accts))
	for i, acct := range accts {
		views[i] = viewOf(acct)
	}
	writeJSON(w, http.StatusOK, views)
}
