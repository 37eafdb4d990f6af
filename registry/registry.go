// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package registry

import (
	"errors"
	"sort"
	"time"

	"github.com/danielhkuo/quickly-vote/models"
)

var (
	ErrDuplicateRegistration = errors.New("owner already registered a project this round")
	ErrProjectNotFound       = errors.New("project not found")
)

// Registry holds the projects of the current round.
// It is not safe for concurrent use; the round engine serializes access.
type Registry struct {
	projects map[uint64]*models.Project
	byOwner  map[string]uint64
	nextID   uint64
}

func New() *Registry {
	r := &Registry{}
	r.Reset()
	return r
}

// Add stores a project under the next sequential id, starting at 1.
func (r *Registry) Add(owner, title string, deposit uint64, at time.Time) (models.Project, error) {
	if _, ok := r.byOwner[owner]; ok {
		return models.Project{}, ErrDuplicateRegistration
	}

	p := &models.Project{
		ID:           r.nextID,
		Owner:        owner,
		Title:        title,
		Deposit:      deposit,
		RegisteredAt: at,
	}
	r.nextID++
	r.projects[p.ID] = p
	r.byOwner[owner] = p.ID

	return *p, nil
}

func (r *Registry) Get(id uint64) (models.Project, bool) {
	p, ok := r.projects[id]
	if !ok {
		return models.Project{}, false
	}
	return *p, true
}

func (r *Registry) Title(id uint64) (string, error) {
	p, ok := r.projects[id]
	if !ok {
		return "", ErrProjectNotFound
	}
	return p.Title, nil
}

// ProjectOf returns the id of the owner's project, if any.
func (r *Registry) ProjectOf(owner string) (uint64, bool) {
	id, ok := r.byOwner[owner]
	return id, ok
}

func (r *Registry) Count() int {
	return len(r.projects)
}

// All returns the projects ordered by id.
func (r *Registry) All() []models.Project {
	out := make([]models.Project, 0, len(r.projects))
	for _, p := range r.projects {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Reset drops every project and restarts ids at 1.
func (r *Registry) Reset() {
	r.projects = make(map[uint64]*models.Project)
	r.byOwner = make(map[string]uint64)
	r.nextID = 1
}
