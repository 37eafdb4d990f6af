// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/ledger"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/round"
)

type AccountHandler struct {
	db     *sql.DB
	cfg    cliparse.Config
	ledger ledger.Ledger
	engine *round.Engine
}

func NewAccountHandler(db *sql.DB, cfg cliparse.Config, l ledger.Ledger, engine *round.Engine) *AccountHandler {
	return &AccountHandler{db: db, cfg: cfg, ledger: l, engine: engine}
}

// Register handles POST /accounts/register
// Creates an empty account and returns its address and key
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	address, err := auth.GenerateAddress()
	if err != nil {
		slog.Error("failed to generate address", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register account")
		return
	}

	ipHash := auth.HashIP(middleware.GetClientIP(r), h.cfg.IPHashSalt)

	now := time.Now().UTC()
	_, err = h.db.Exec(`
		INSERT INTO account (address, balance, ip_hash, created_at, last_seen_at)
		VALUES ($1, $2, $3, $4, $5)
	`, address, 0, ipHash, now, now)
	if err != nil {
		slog.Error("failed to insert account", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register account")
		return
	}

	slog.Info("account registered", "address", address)

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterAccountResponse{
		Address:    address,
		AccountKey: auth.GenerateAccountKey(address, h.cfg.AccountKeySalt),
	})
}

// GetMe handles GET /accounts/me
// Returns the caller's balance and standing in the current round
func (h *AccountHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	address, ok := requireAccount(w, r, h.cfg)
	if !ok {
		return
	}

	balance, err := h.ledger.BalanceOf(r.Context(), address)
	if err != nil {
		slog.Error("failed to read balance", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	resp := models.AccountResponse{
		Address:  address,
		Balance:  balance,
		HasVoted: h.engine.HasVoted(address),
	}
	if id, ok := h.engine.ProjectOf(address); ok {
		resp.ProjectID = &id
	}

	touchAccount(h.db, address)

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// GetBalance handles GET /accounts/{address}/balance
func (h *AccountHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	address, err := auth.NormalizeAddress(r.PathValue("address"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	balance, err := h.ledger.BalanceOf(r.Context(), address)
	if err != nil {
		slog.Error("failed to read balance", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.BalanceResponse{
		Address: address,
		Balance: balance,
	})
}

// touchAccount updates last_seen_at. Failures are only logged.
func touchAccount(db *sql.DB, address string) {
	_, err := db.Exec(`
		UPDATE account SET last_seen_at = $1 WHERE address = $2
	`, time.Now().UTC(), address)
	if err != nil {
		slog.Error("failed to update account last_seen_at", "error", err)
	}
}
