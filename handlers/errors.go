// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/exchange"
	"github.com/danielhkuo/quickly-vote/ledger"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/round"
)

var errMissingAccount = errors.New("X-Account and X-Account-Key headers required")

// authenticateAccount returns the caller's address from the X-Account and
// X-Account-Key headers.
func authenticateAccount(r *http.Request, cfg cliparse.Config) (string, error) {
	rawAddress := r.Header.Get("X-Account")
	key := r.Header.Get("X-Account-Key")
	if rawAddress == "" || key == "" {
		return "", errMissingAccount
	}

	address, err := auth.NormalizeAddress(rawAddress)
	if err != nil {
		return "", err
	}
	if err := auth.ValidateAccountKey(address, key, cfg.AccountKeySalt); err != nil {
		return "", err
	}
	return address, nil
}

// requireAccount authenticates the caller or writes a 401
func requireAccount(w http.ResponseWriter, r *http.Request, cfg cliparse.Config) (string, bool) {
	address, err := authenticateAccount(r, cfg)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, err.Error())
		return "", false
	}
	return address, true
}

func parseProjectID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "project id must be a positive integer")
		return 0, false
	}
	return id, true
}

// statusFor maps a domain error to its HTTP status. Unknown errors are 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, round.ErrInvalidTitle),
		errors.Is(err, round.ErrInvalidAmount),
		errors.Is(err, round.ErrInvalidAccount),
		errors.Is(err, ledger.ErrZeroAmount),
		errors.Is(err, ledger.ErrAmountTooLarge),
		errors.Is(err, exchange.ErrBelowMinimum),
		errors.Is(err, exchange.ErrZeroCredits),
		errors.Is(err, exchange.ErrTooLarge),
		errors.Is(err, auth.ErrInvalidAddress):
		return http.StatusBadRequest
	case errors.Is(err, round.ErrInvalidProject):
		return http.StatusNotFound
	case errors.Is(err, round.ErrInsufficientBalance),
		errors.Is(err, round.ErrInsufficientDeposit),
		errors.Is(err, ledger.ErrInsufficientBalance):
		return http.StatusPaymentRequired
	case errors.Is(err, round.ErrRoundInProgress),
		errors.Is(err, round.ErrVotingNotStarted),
		errors.Is(err, round.ErrRoundNotActive),
		errors.Is(err, round.ErrDuplicateRegistration),
		errors.Is(err, round.ErrDuplicateVote),
		errors.Is(err, round.ErrSelfVote):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// writeDomainError writes err with its mapped status. Internal errors are
// logged and not echoed to the client.
func writeDomainError(w http.ResponseWriter, err error, msg string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error(msg, "error", err)
		middleware.ErrorResponse(w, status, msg)
		return
	}
	middleware.ErrorResponse(w, status, err.Error())
}
