// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/neilotoole/slogt"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/db"
	"github.com/danielhkuo/quickly-vote/events"
	"github.com/danielhkuo/quickly-vote/exchange"
	"github.com/danielhkuo/quickly-vote/ledger"
	"github.com/danielhkuo/quickly-vote/round"
)

// TestDBURL is an in-memory sqlite database private to one connection
const TestDBURL = ":memory:"

// TestOperatorKey is the operator key in GetTestConfig
const TestOperatorKey = "test-operator-key"

// SetupTestDB creates a fresh in-memory database with the full schema.
// It is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, TestDBURL)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:            3318,
		DatabaseURL:     TestDBURL,
		DatabaseType:    db.TypeSQLite,
		AccountKeySalt:  "test-account-salt",
		IPHashSalt:      "test-ip-salt",
		OperatorKey:     TestOperatorKey,
		Quorum:          round.DefaultQuorum,
		DepositCredits:  round.DefaultDeposit,
		RoundDuration:   round.DefaultDuration,
		TreasuryAccount: round.DefaultTreasury,
		ExpiryInterval:  time.Minute,
		CreditsPerCoin:  exchange.DefaultCreditsPerCoin,
		MinPurchaseWei:  exchange.DefaultMinPurchaseWei.String(),
		RedeemPercent:   exchange.DefaultRedeemPercent,
	}
}

// Env bundles everything the HTTP layer needs, wired against one test database.
type Env struct {
	DB       *sql.DB
	Config   cliparse.Config
	Ledger   *ledger.SQL
	Engine   *round.Engine
	Exchange *exchange.Exchange
	Clock    *clock.Mock
	Events   *events.Recorder

	sink   events.Sink
	logger *slog.Logger
}

// NewEnv builds an Env on a fresh database. Events go to both a Recorder and the SQL event log.
func NewEnv(t *testing.T) *Env {
	t.Helper()

	conn := SetupTestDB(t)
	cfg := GetTestConfig()
	logger := slogt.New(t)

	env := &Env{
		DB:     conn,
		Config: cfg,
		Ledger: ledger.NewSQL(conn),
		Clock:  clock.NewMock(),
		Events: &events.Recorder{},
	}
	env.Clock.Set(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	env.sink = events.Multi{env.Events, events.NewSQLSink(conn)}
	env.logger = logger

	env.Restart(t)

	xcfg, err := cfg.ExchangeConfig()
	if err != nil {
		t.Fatalf("Failed to build exchange config: %v", err)
	}
	x, err := exchange.New(env.Ledger, xcfg, env.sink, logger)
	if err != nil {
		t.Fatalf("Failed to create exchange: %v", err)
	}
	env.Exchange = x

	return env
}

// Restart replaces Engine with one restored from the event log, the way the
// server starts up. Handlers built on the old engine must be rebuilt.
func (env *Env) Restart(t *testing.T) *round.Engine {
	t.Helper()

	journal, err := events.LoadLatestRound(t.Context(), env.DB)
	if err != nil {
		t.Fatalf("Failed to load round history: %v", err)
	}
	current, err := round.RestoreRound(journal, env.Config.RoundConfig())
	if err != nil {
		t.Fatalf("Failed to restore round: %v", err)
	}

	engine, err := round.NewEngine(env.Ledger, env.Config.RoundConfig(),
		round.WithClock(env.Clock),
		round.WithSink(env.sink),
		round.WithLogger(env.logger),
		round.WithRound(current),
	)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	env.Engine = engine
	return engine
}

// CreateTestAccount registers an account holding balance credit and returns its address and key
func CreateTestAccount(t *testing.T, env *Env, balance uint64) (address, accountKey string) {
	t.Helper()

	address, err := auth.GenerateAddress()
	if err != nil {
		t.Fatalf("Failed to generate address: %v", err)
	}

	now := time.Now().UTC()
	_, err = env.DB.Exec(`
		INSERT INTO account (address, balance, created_at, last_seen_at)
		VALUES ($1, $2, $3, $4)
	`, address, 0, now, now)
	if err != nil {
		t.Fatalf("Failed to create test account: %v", err)
	}

	if balance > 0 {
		if err := env.Ledger.Credit(context.Background(), address, balance, "test funding"); err != nil {
			t.Fatalf("Failed to fund test account: %v", err)
		}
	}

	return address, auth.GenerateAccountKey(address, env.Config.AccountKeySalt)
}

// AccountHeaders returns the authentication headers for an account
func AccountHeaders(address, accountKey string) map[string]string {
	return map[string]string{
		"X-Account":     address,
		"X-Account-Key": accountKey,
	}
}

// Balance reads an account balance or fails the test
func Balance(t *testing.T, env *Env, address string) uint64 {
	t.Helper()
	b, err := env.Ledger.BalanceOf(context.Background(), address)
	if err != nil {
		t.Fatalf("Failed to read balance: %v", err)
	}
	return b
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
