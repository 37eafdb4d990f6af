// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package round

import (
	"time"

	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/registry"
)

type vote struct {
	voter     string
	projectID uint64
	amount    uint64
}

// Round is the mutable state of the current voting round.
// Settlement is the only thing that clears it.
type Round struct {
	Number    uint64
	Status    string
	StartedAt time.Time
	Projects  *registry.Registry

	// Escrowed deposits and stakes
	Held uint64

	weights map[uint64]uint64
	voters  map[uint64][]string
	voted   map[string]uint64
	votes   []vote
}

// NewRound returns round 1 in Standby.
func NewRound() *Round {
	r := &Round{Number: 1, Projects: registry.New()}
	r.clear()
	return r
}

func (r *Round) clear() {
	r.Status = models.StatusStandby
	r.StartedAt = time.Time{}
	r.Held = 0
	r.Projects.Reset()
	r.weights = make(map[uint64]uint64)
	r.voters = make(map[uint64][]string)
	r.voted = make(map[string]uint64)
	r.votes = nil
}

// advance moves to the next round number with empty state.
func (r *Round) advance() {
	r.Number++
	r.clear()
}

func (r *Round) recordVote(voter string, projectID, amount uint64) uint64 {
	r.weights[projectID] += amount
	r.voters[projectID] = append(r.voters[projectID], voter)
	r.voted[voter] = projectID
	r.votes = append(r.votes, vote{voter: voter, projectID: projectID, amount: amount})
	r.Held += amount
	return r.weights[projectID]
}

func (r *Round) hasVoted(voter string) bool {
	_, ok := r.voted[voter]
	return ok
}

// expired reports whether a Voting round has run for at least d.
func (r *Round) expired(now time.Time, d time.Duration) bool {
	return r.Status == models.StatusVoting && now.Sub(r.StartedAt) >= d
}

func (r *Round) tallies() []models.Tally {
	projects := r.Projects.All()
	out := make([]models.Tally, len(projects))
	for i, p := range projects {
		voters := make([]string, len(r.voters[p.ID]))
		copy(voters, r.voters[p.ID])
		out[i] = models.Tally{
			ProjectID: p.ID,
			Owner:     p.Owner,
			Weight:    r.weights[p.ID],
			Voters:    voters,
		}
	}
	return out
}
