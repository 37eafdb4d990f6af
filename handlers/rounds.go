// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/events"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/round"
)

type RoundHandler struct {
	db     *sql.DB
	cfg    cliparse.Config
	engine *round.Engine
}

func NewRoundHandler(db *sql.DB, cfg cliparse.Config, engine *round.Engine) *RoundHandler {
	return &RoundHandler{db: db, cfg: cfg, engine: engine}
}

// GetRound handles GET /round
func (h *RoundHandler) GetRound(w http.ResponseWriter, r *http.Request) {
	info := h.engine.Info()

	resp := models.RoundResponse{
		Number:       info.Number,
		Status:       info.Status,
		Expired:      info.Expired,
		ProjectCount: info.ProjectCount,
		VoterCount:   info.VoterCount,
	}
	if info.Status == models.StatusVoting {
		startedAt, endsAt := info.StartedAt, info.EndsAt
		resp.StartedAt = &startedAt
		resp.EndsAt = &endsAt
		resp.EndsIn = humanize.RelTime(endsAt, h.engine.Now(), "ago", "from now")
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// GetVoters handles GET /round/voters
func (h *RoundHandler) GetVoters(w http.ResponseWriter, r *http.Request) {
	voters := h.engine.Voters()
	middleware.JSONResponse(w, http.StatusOK, models.VotersResponse{
		Voters: voters,
		Count:  len(voters),
	})
}

// Settle handles POST /round/settle
// Operator only. Closes the voting round and pays out.
func (h *RoundHandler) Settle(w http.ResponseWriter, r *http.Request) {
	if err := auth.ValidateOperatorKey(r.Header.Get("X-Operator-Key"), h.cfg.OperatorKey); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid operator key")
		return
	}

	st, err := h.engine.Settle(r.Context())
	if err != nil {
		writeDomainError(w, err, "Failed to settle round")
		return
	}

	slog.Info("round settled by operator", "round", st.RoundNumber, "outcome", st.Outcome)

	middleware.JSONResponse(w, http.StatusOK, st)
}

// GetResult handles GET /rounds/{number}/result
// Returns an archived settlement
func (h *RoundHandler) GetResult(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.ParseUint(r.PathValue("number"), 10, 64)
	if err != nil || number == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "round number must be a positive integer")
		return
	}

	st, err := events.LoadSettlement(r.Context(), h.db, number)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Round has not been settled")
		return
	}
	if err != nil {
		slog.Error("failed to load settlement", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, st)
}
