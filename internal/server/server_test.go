package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bankist/internal/auth"
	"bankist/internal/service"
	"bankist/internal/storage"
	"bankist/internal/storage/sqlite"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	dir, err := sqlite.New(sqlite.InMemoryDSN)
	if err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	t.Cleanup(func() { dir.Close() })

	if err := storage.Seed(context.Background(), dir); err != nil {
		t.Fatalf("Failed to seed directory: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewLedgerService(dir, logger)
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)

	ts := httptest.NewServer(New(svc, jwtManager).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

type loginResponse struct {
	Token   string `json:"token"`
	Account struct {
		Owner    string  `json:"owner"`
		Username string  `json:"username"`
		Balance  float64 `json:"balance"`
	} `json:"account"`
}

func login(t *testing.T, ts *httptest.Server, username string, pin int) loginResponse {
	t.Helper()
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/login", "", map[string]any{
		"username": username,
		"pin":      pin,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d, want 200", resp.StatusCode)
	}
	return decode[loginResponse](t, resp)
}

func TestLoginEndpoint(t *testing.T) {
	ts := newTestServer(t)

	t.Run("success returns token and account view", func(t *testing.T) {
		got := login(t, ts, "js", 1111)
		if got.Token == "" {
			t.Error("expected a token")
		}
		if got.Account.Username != "js" || got.Account.Owner != "Jonas Schmedtmann" {
			t.Errorf("account = %+v", got.Account)
		}
		if math.Abs(got.Account.Balance-3840) > 1e-9 {
			t.Errorf("balance = %v, want 3840", got.Account.Balance)
		}
	})

	t.Run("wrong pin", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, ts.URL+"/api/login", "", map[string]any{
			"username": "js", "pin": 9999,
		})
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", resp.StatusCode)
		}
	})

	t.Run("unknown username", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, ts.URL+"/api/login", "", map[string]any{
			"username": "zzz", "pin": 1111,
		})
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", resp.StatusCode)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, ts.URL+"/api/login", "", nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})
}

func TestProtectedEndpointsRequireToken(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/api/balance", "/api/summary", "/api/movements"} {
		resp := doJSON(t, http.MethodGet, ts.URL+path, "", nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("GET %s without token: status = %d, want 401", path, resp.StatusCode)
		}
	}
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/transfer", "garbage-token", map[string]any{
		"to": "jd", "amount": 10,
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("transfer with bad token: status = %d, want 401", resp.StatusCode)
	}
}

func TestTransferFlow(t *testing.T) {
	ts := newTestServer(t)
	session := login(t, ts, "js", 1111)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/transfer", session.Token, map[string]any{
		"to": "jd", "amount": 500,
	})
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("transfer status = %d, want 204", resp.StatusCode)
	}

	balResp := doJSON(t, http.MethodGet, ts.URL+"/api/balance", session.Token, nil)
	if balResp.StatusCode != http.StatusOK {
		t.Fatalf("balance status = %d, want 200", balResp.StatusCode)
	}
	bal := decode[struct {
		Balance float64 `json:"balance"`
	}](t, balResp)
	if math.Abs(bal.Balance-3340) > 1e-9 {
		t.Errorf("balance after transfer = %v, want 3340", bal.Balance)
	}

	reject := doJSON(t, http.MethodPost, ts.URL+"/api/transfer", session.Token, map[string]any{
		"to": "jd", "amount": 1e9,
	})
	if reject.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("oversized transfer status = %d, want 422", reject.StatusCode)
	}

	self := doJSON(t, http.MethodPost, ts.URL+"/api/transfer", session.Token, map[string]any{
		"to": "js", "amount": 10,
	})
	if self.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("self transfer status = %d, want 422", self.StatusCode)
	}
}

func TestMovementsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	session := login(t, ts, "ss", 4444)

	type movement struct {
		Amount float64 `json:"amount"`
	}

	sortedResp := doJSON(t, http.MethodGet, ts.URL+"/api/movements?sort=asc", session.Token, nil)
	sorted := decode[[]movement](t, sortedResp)
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Amount < sorted[i-1].Amount {
			t.Fatalf("movements not ascending: %+v", sorted)
		}
	}

	plainResp := doJSON(t, http.MethodGet, ts.URL+"/api/movements", session.Token, nil)
	plain := decode[[]movement](t, plainResp)
	want := []float64{430, 1000, 700, 50, 90}
	if len(plain) != len(want) {
		t.Fatalf("movement count = %d, want %d", len(plain), len(want))
	}
	for i, amount := range want {
		if plain[i].Amount != amount {
			t.Errorf("movements[%d] = %v, want %v (stored order must survive sorting)", i, plain[i].Amount, amount)
		}
	}
}

func TestCloseAccountFlow(t *testing.T) {
	ts := newTestServer(t)
	session := login(t, ts, "stw", 3333)

	mismatch := doJSON(t, http.MethodPost, ts.URL+"/api/close", session.Token, map[string]any{
		"username": "stw", "pin": 9999,
	})
	if mismatch.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("close with wrong pin status = %d, want 422", mismatch.StatusCode)
	}

	// Session must still be live after the rejected close.
	if resp := doJSON(t, http.MethodGet, ts.URL+"/api/balance", session.Token, nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("balance after rejected close = %d, want 200", resp.StatusCode)
	}

	closed := doJSON(t, http.MethodPost, ts.URL+"/api/close", session.Token, map[string]any{
		"username": "stw", "pin": 3333,
	})
	if closed.StatusCode != http.StatusNoContent {
		t.Fatalf("close status = %d, want 204", closed.StatusCode)
	}

	// The token is still cryptographically valid, but the session is gone.
	if resp := doJSON(t, http.MethodGet, ts.URL+"/api/balance", session.Token, nil); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("balance after close = %d, want 401", resp.StatusCode)
	}

	accountsResp := doJSON(t, http.MethodGet, ts.URL+"/api/accounts", "", nil)
	accounts := decode[[]struct {
		Username string `json:"username"`
	}](t, accountsResp)
	for _, acct := range accounts {
		if acct.Username == "stw" {
			t.Error("closed account still listed")
		}
	}
	if len(accounts) != 3 {
		t.Errorf("account count = %d, want 3", len(accounts))
	}
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t)

	if resp := doJSON(t, http.MethodGet, ts.URL+"/healthz", "", nil); resp.StatusCode != http.StatusOK {
		t.Errorf("healthz status = %d, want 200", resp.StatusCode)
	}
	if resp := doJSON(t, http.MethodGet, ts.URL+"/metrics", "", nil); resp.StatusCode != http.StatusOK {
		t.Errorf("metrics status = %d, want 200", resp.StatusCode)
	}
}
