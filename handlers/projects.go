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

type ProjectHandler struct {
	db     *sql.DB
	cfg    cliparse.Config
	engine *round.Engine
}

func NewProjectHandler(db *sql.DB, cfg cliparse.Config, engine *round.Engine) *ProjectHandler {
	return &ProjectHandler{db: db, cfg: cfg, engine: engine}
}

// RegisterProject handles POST /projects
// Takes the deposit from the caller and enters their project into the current round
func (h *ProjectHandler) RegisterProject(w http.ResponseWriter, r *http.Request) {
	address, ok := requireAccount(w, r, h.cfg)
	if !ok {
		return
	}

	var req models.RegisterProjectRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if len(req.Title) > 200 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title must be at most 200 characters")
		return
	}

	reg, err := h.engine.Register(r.Context(), address, req.Title)
	if err != nil {
		writeDomainError(w, err, "Failed to register project")
		return
	}
	touchAccount(h.db, address)

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterProjectResponse{
		ProjectID:   reg.ID,
		RoundNumber: reg.RoundNumber,
		Status:      reg.Status,
	})
}

// ListProjects handles GET /projects
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	info := h.engine.Info()
	middleware.JSONResponse(w, http.StatusOK, models.ProjectsResponse{
		RoundNumber: info.Number,
		Status:      info.Status,
		Projects:    h.engine.Projects(),
	})
}

// GetProjectCount handles GET /projects/count
func (h *ProjectHandler) GetProjectCount(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.ProjectCountResponse{
		Count: h.engine.ProjectCount(),
	})
}

// GetProject handles GET /projects/{id}
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, ok := parseProjectID(w, r)
	if !ok {
		return
	}

	project, err := h.engine.Project(id)
	if err != nil {
		writeDomainError(w, err, "Failed to load project")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, project)
}
