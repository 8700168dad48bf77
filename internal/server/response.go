package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"bankist/internal/auth"
	"bankist/internal/service"
	"bankist/internal/storage"
)

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr writes an error payload with the given status.
func writeErr(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, struct {
		Error string `json:"error"`
	}{Error: err.Error()})
}

// writeDomainErr maps domain errors to HTTP statuses: authentication
// failures to 401, lookup misses to 404, business-rule rejections to 422,
// anything else to 500.
func writeDomainErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrNoSession),
		errors.Is(err, auth.ErrWrongPin),
		errors.Is(err, auth.ErrAccountNotFound):
		writeErr(w, http.StatusUnauthorized, err)
	case errors.Is(err, storage.ErrAccountNotFound):
		writeErr(w, http.StatusNotFound, err)
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInsufficientFunds),
		errors.Is(err, service.ErrSelfTransfer),
		errors.Is(err, service.ErrLoanIneligible),
		errors.Is(err, service.ErrCredentialMismatch):
		writeErr(w, http.StatusUnprocessableEntity, err)
	default:
		writeErr(w, http.StatusInternalServerError, err)
	}
}
