// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package round

import (
	"github.com/danielhkuo/quickly-vote/ledger"
	"github.com/danielhkuo/quickly-vote/models"
)

// leaders returns the projects left after ranking by vote weight and then
// by distinct voter count. One leader is a win, two a draw, more a void.
func leaders(tallies []models.Tally) []models.Tally {
	var maxWeight uint64
	for _, t := range tallies {
		if t.Weight > maxWeight {
			maxWeight = t.Weight
		}
	}

	var tied []models.Tally
	for _, t := range tallies {
		if t.Weight == maxWeight {
			tied = append(tied, t)
		}
	}
	if len(tied) <= 1 {
		return tied
	}

	maxVoters := 0
	for _, t := range tied {
		if len(t.Voters) > maxVoters {
			maxVoters = len(t.Voters)
		}
	}

	var narrowed []models.Tally
	for _, t := range tied {
		if len(t.Voters) == maxVoters {
			narrowed = append(narrowed, t)
		}
	}
	return narrowed
}

// computeSettlement decides the outcome of r and every payout it implies.
// It does not touch the ledger or the round.
func computeSettlement(r *Round, cfg Config) models.Settlement {
	tallies := r.tallies()
	top := leaders(tallies)

	st := models.Settlement{
		RoundNumber: r.Number,
		Tallies:     tallies,
		Collected:   r.Held,
	}

	weights := make(map[uint64]uint64, len(tallies))
	for _, t := range tallies {
		weights[t.ProjectID] = t.Weight
	}

	switch len(top) {
	case 1:
		st.Outcome = models.OutcomeWin
		st.WinnerID = top[0].ProjectID
		st.Payouts = winPayouts(r, cfg.Payout, st.WinnerID, weights)
	case 2:
		st.Outcome = models.OutcomeDraw
		st.TiedIDs = []uint64{top[0].ProjectID, top[1].ProjectID}
		refund := map[uint64]bool{top[0].ProjectID: true, top[1].ProjectID: true}
		st.Payouts = refundPayouts(r, func(id uint64) bool { return refund[id] })
	default:
		st.Outcome = models.OutcomeVoid
		for _, t := range top {
			st.TiedIDs = append(st.TiedIDs, t.ProjectID)
		}
		st.Payouts = refundPayouts(r, func(uint64) bool { return true })
	}

	var paid uint64
	for _, p := range st.Payouts {
		paid += p.Amount
	}
	st.Retained = st.Collected - paid

	return st
}

func winPayouts(r *Round, policy PayoutPolicy, winnerID uint64, weights map[uint64]uint64) []models.Payout {
	var out []models.Payout

	for _, p := range r.Projects.All() {
		switch {
		case p.ID == winnerID:
			out = append(out, models.Payout{Account: p.Owner, ProjectID: p.ID, Amount: p.Deposit, Reason: models.ReasonDepositRefund})
			if reward := weights[p.ID] * policy.OwnerRewardPercent / 100; reward > 0 {
				out = append(out, models.Payout{Account: p.Owner, ProjectID: p.ID, Amount: reward, Reason: models.ReasonOwnerReward})
			}
		case weights[p.ID] > 0:
			out = append(out, models.Payout{Account: p.Owner, ProjectID: p.ID, Amount: p.Deposit, Reason: models.ReasonDepositRefund})
		}
		// projects nobody voted for forfeit their deposit
	}

	for _, v := range r.votes {
		pct := policy.LoserVoterPercent
		if v.projectID == winnerID {
			pct = policy.WinnerVoterPercent
		}
		if amount := v.amount * pct / 100; amount > 0 {
			out = append(out, models.Payout{Account: v.voter, ProjectID: v.projectID, Amount: amount, Reason: models.ReasonStakeReturn})
		}
	}

	return out
}

// refundPayouts returns every stake in full plus the deposits of the projects keep selects.
func refundPayouts(r *Round, keep func(id uint64) bool) []models.Payout {
	var out []models.Payout
	for _, p := range r.Projects.All() {
		if keep(p.ID) {
			out = append(out, models.Payout{Account: p.Owner, ProjectID: p.ID, Amount: p.Deposit, Reason: models.ReasonDepositRefund})
		}
	}
	for _, v := range r.votes {
		out = append(out, models.Payout{Account: v.voter, ProjectID: v.projectID, Amount: v.amount, Reason: models.ReasonStakeReturn})
	}
	return out
}

func postings(st models.Settlement, treasury string) []ledger.Posting {
	out := make([]ledger.Posting, 0, len(st.Payouts)+1)
	for _, p := range st.Payouts {
		out = append(out, ledger.Posting{Account: p.Account, Amount: p.Amount, Reason: p.Reason})
	}
	if st.Retained > 0 {
		out = append(out, ledger.Posting{Account: treasury, Amount: st.Retained, Reason: models.ReasonTreasury})
	}
	return out
}
