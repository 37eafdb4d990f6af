// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/testutil"
)

func newTestRouter(t *testing.T) (*http.ServeMux, *testutil.Env) {
	env := testutil.NewEnv(t)
	return NewRouter(env.DB, env.Config, env.Engine, env.Exchange, env.Ledger), env
}

func TestHealthEndpoint(t *testing.T) {
	mux, _ := newTestRouter(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	mux, _ := newTestRouter(t)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	expected := "quickly-vote API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}
}

func TestRouteExistence(t *testing.T) {
	mux, _ := newTestRouter(t)

	// Routes may answer 400, 401, 404 or 409 without data; they must not be 405
	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/"},

		{"POST", "/accounts/register"},
		{"GET", "/accounts/me"},
		{"GET", "/accounts/0x0000000000000000000000000000000000000001/balance"},

		{"POST", "/credits/purchase"},
		{"POST", "/credits/redeem"},
		{"POST", "/credits/transfer"},

		{"GET", "/projects"},
		{"GET", "/projects/count"},
		{"GET", "/projects/1"},
		{"POST", "/projects"},
		{"POST", "/projects/1/votes"},

		{"GET", "/round"},
		{"GET", "/round/voters"},
		{"POST", "/round/settle"},
		{"GET", "/rounds/1/result"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s returned 405, expected route handler to exist", tc.method, tc.path)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	mux, _ := newTestRouter(t)

	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/health"},
		{"DELETE", "/projects/1"},
		{"PUT", "/projects/1/votes"},
		{"DELETE", "/round/settle"},
		{"PATCH", "/credits/purchase"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected 405 for %s %s, got %d", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestPathParameterExtraction(t *testing.T) {
	mux, env := newTestRouter(t)

	address, _ := testutil.CreateTestAccount(t, env, 250)
	if _, err := env.Engine.Register(t.Context(), address, "path params"); err != nil {
		t.Fatal(err)
	}

	t.Run("project id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/projects/1", nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d. Body: %s", w.Code, w.Body.String())
		}
		var p models.ProjectWithVotes
		if err := json.NewDecoder(w.Body).Decode(&p); err != nil {
			t.Fatal(err)
		}
		if p.Title != "path params" || p.Owner != address {
			t.Errorf("unexpected project: %+v", p)
		}
	})

	t.Run("balance address", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/accounts/"+address+"/balance", nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d. Body: %s", w.Code, w.Body.String())
		}
		var b models.BalanceResponse
		if err := json.NewDecoder(w.Body).Decode(&b); err != nil {
			t.Fatal(err)
		}
		if b.Balance != 150 {
			t.Errorf("Expected balance 150 after deposit, got %d", b.Balance)
		}
	})

	t.Run("count is not an id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/projects/count", nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)

		var c models.ProjectCountResponse
		if err := json.NewDecoder(w.Body).Decode(&c); err != nil {
			t.Fatal(err)
		}
		if c.Count != 1 {
			t.Errorf("Expected count 1, got %d", c.Count)
		}
	})

	t.Run("vote on project id", func(t *testing.T) {
		voter, voterKey := testutil.CreateTestAccount(t, env, 10)
		req := testutil.MakeRequest("POST", "/projects/1/votes", models.CastVoteRequest{Amount: 5}, testutil.AccountHeaders(voter, voterKey))
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)

		// Standby until quorum
		if w.Code != http.StatusConflict {
			t.Errorf("Expected 409 before quorum, got %d", w.Code)
		}
	})
}

func TestSpecificMethodRouting(t *testing.T) {
	mux, _ := newTestRouter(t)

	testCases := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{"POST to health endpoint", "POST", "/health", http.StatusMethodNotAllowed},
		{"unknown project", "GET", "/projects/99", http.StatusNotFound},
		{"unsettled round", "GET", "/rounds/1/result", http.StatusNotFound},
		{"settle without key", "POST", "/round/settle", http.StatusUnauthorized},
		{"me without headers", "GET", "/accounts/me", http.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != tc.expectedStatus {
				t.Errorf("Expected %d for %s %s, got %d", tc.expectedStatus, tc.method, tc.path, w.Code)
			}
		})
	}
}
