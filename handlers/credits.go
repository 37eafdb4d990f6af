// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/exchange"
	"github.com/danielhkuo/quickly-vote/ledger"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/models"
)

type CreditHandler struct {
	db       *sql.DB
	cfg      cliparse.Config
	ledger   ledger.Ledger
	exchange *exchange.Exchange
}

func NewCreditHandler(db *sql.DB, cfg cliparse.Config, l ledger.Ledger, x *exchange.Exchange) *CreditHandler {
	return &CreditHandler{db: db, cfg: cfg, ledger: l, exchange: x}
}

// Purchase handles POST /credits/purchase
// Mints credit for the declared wei amount
func (h *CreditHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	address, ok := requireAccount(w, r, h.cfg)
	if !ok {
		return
	}

	var req models.PurchaseCreditsRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	wei, err := exchange.ParseWei(req.Wei)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "wei must be a non-negative integer")
		return
	}

	credits, err := h.exchange.Purchase(r.Context(), address, wei)
	if err != nil {
		writeDomainError(w, err, "Failed to purchase credits")
		return
	}

	balance, ok := h.balance(w, r, address)
	if !ok {
		return
	}
	touchAccount(h.db, address)

	middleware.JSONResponse(w, http.StatusOK, models.PurchaseCreditsResponse{
		Credits: credits,
		Balance: balance,
	})
}

// Redeem handles POST /credits/redeem
func (h *CreditHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	address, ok := requireAccount(w, r, h.cfg)
	if !ok {
		return
	}

	var req models.RedeemCreditsRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	wei, err := h.exchange.Redeem(r.Context(), address, req.Credits)
	if err != nil {
		writeDomainError(w, err, "Failed to redeem credits")
		return
	}

	balance, ok := h.balance(w, r, address)
	if !ok {
		return
	}
	touchAccount(h.db, address)

	middleware.JSONResponse(w, http.StatusOK, models.RedeemCreditsResponse{
		Wei:     wei.String(),
		Balance: balance,
	})
}

// Transfer handles POST /credits/transfer
func (h *CreditHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	address, ok := requireAccount(w, r, h.cfg)
	if !ok {
		return
	}

	var req models.TransferCreditsRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	to, err := auth.NormalizeAddress(req.To)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "to must be a valid address")
		return
	}

	if err := h.ledger.Transfer(r.Context(), address, to, req.Amount); err != nil {
		writeDomainError(w, err, "Failed to transfer credits")
		return
	}

	slog.Info("credits transferred", "from", address, "to", to, "amount", req.Amount)

	balance, ok := h.balance(w, r, address)
	if !ok {
		return
	}
	touchAccount(h.db, address)

	middleware.JSONResponse(w, http.StatusOK, models.BalanceResponse{
		Address: address,
		Balance: balance,
	})
}

func (h *CreditHandler) balance(w http.ResponseWriter, r *http.Request, address string) (uint64, bool) {
	balance, err := h.ledger.BalanceOf(r.Context(), address)
	if err != nil {
		slog.Error("failed to read balance", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return 0, false
	}
	return balance, true
}
