// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/round"
)

type VotingHandler struct {
	db     *sql.DB
	cfg    cliparse.Config
	engine *round.Engine
}

func NewVotingHandler(db *sql.DB, cfg cliparse.Config, engine *round.Engine) *VotingHandler {
	return &VotingHandler{db: db, cfg: cfg, engine: engine}
}

// CastVote handles POST /projects/{id}/votes
// Stakes the caller's credit on a project. One vote per account per round.
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	address, ok := requireAccount(w, r, h.cfg)
	if !ok {
		return
	}

	projectID, ok := parseProjectID(w, r)
	if !ok {
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	total, err := h.engine.Vote(r.Context(), address, projectID, req.Amount)
	if err != nil {
		writeDomainError(w, err, "Failed to cast vote")
		return
	}
	touchAccount(h.db, address)

	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{
		ProjectID: projectID,
		Amount:    req.Amount,
		Total:     total,
	})
}
