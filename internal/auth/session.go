package auth

import "sync"

// Session tracks which account, if any, is currently authenticated. It is a
// process-wide singleton with an explicit login/logout lifecycle: set on
// successful login, cleared by logout or by closing the logged-in account.
// The session holds only the account ID, never the account itself; state is
// always re-read from the directory.
type Session struct {
	mu        sync.Mutex
	accountID string
}

// NewSession returns an unauthenticated session.
func NewSession() *Session {
	return &Session{}
}

// Start marks the given account as the authenticated one, replacing any
// previous login.
func (s *Session) Start(accountID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accountID = accountID
}

// Clear ends the session. Idempotent: clearing an unauthenticated session
// is a no-op.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accountID = ""
}

// ActiveID returns the authenticated account's ID, or false when no account
// is logged in.
func (s *Session) ActiveID() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.accountID == "" {
		return "", false
	}
	return s.accountID, true
}
