// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package round

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/danielhkuo/quickly-vote/events"
	"github.com/danielhkuo/quickly-vote/models"
)

// RestoreRound rebuilds the round a previous process left behind.
//
// A settled round resumes at the next number. An open round is replayed from
// its registrations and votes, so the deposits and stakes already taken from
// the ledger stay in escrow and are paid out when it settles.
func RestoreRound(j events.RoundJournal, cfg Config) (*Round, error) {
	r := NewRound()
	if j.Number == 0 {
		return r, nil
	}
	if j.Settled {
		r.Number = j.Number + 1
		return r, nil
	}
	r.Number = j.Number

	regs := slices.Clone(j.Registered)
	slices.SortFunc(regs, func(a, b events.ProjectRegistered) int {
		return cmp.Compare(a.ProjectID, b.ProjectID)
	})
	for _, ev := range regs {
		p, err := r.Projects.Add(ev.Owner, ev.Title, ev.Deposit, ev.RegisteredAt)
		if err != nil {
			return nil, fmt.Errorf("failed to replay project %d: %w", ev.ProjectID, err)
		}
		if p.ID != ev.ProjectID {
			return nil, fmt.Errorf("round %d: project %d replayed as %d", r.Number, ev.ProjectID, p.ID)
		}
		r.Held += p.Deposit
	}

	switch {
	case j.Started != nil:
		r.Status = models.StatusVoting
		r.StartedAt = time.Unix(j.Started.StartedAt, 0).UTC()
	case len(regs) > 0 && len(regs) >= cfg.Quorum:
		// RoundStarted was not recorded; voting began with the last registration
		r.Status = models.StatusVoting
		r.StartedAt = regs[len(regs)-1].RegisteredAt
	}

	for _, v := range j.Votes {
		if r.Status != models.StatusVoting {
			return nil, fmt.Errorf("round %d: vote by %s before voting started", r.Number, v.Voter)
		}
		if _, ok := r.Projects.Get(v.ProjectID); !ok {
			return nil, fmt.Errorf("round %d: vote for unknown project %d", r.Number, v.ProjectID)
		}
		if r.hasVoted(v.Voter) {
			return nil, fmt.Errorf("round %d: %s voted twice", r.Number, v.Voter)
		}
		r.recordVote(v.Voter, v.ProjectID, v.Amount)
	}

	return r, nil
}

