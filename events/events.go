// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package events

import (
	"context"
	"errors"
	"time"

	"github.com/danielhkuo/quickly-vote/models"
)

type Kind string

const (
	KindProjectRegistered Kind = "project_registered"
	KindRoundStarted      Kind = "round_started"
	KindVoteCast          Kind = "vote_cast"
	KindRoundWon          Kind = "round_won"
	KindRoundDrawn        Kind = "round_drawn"
	KindRoundVoided       Kind = "round_voided"
	KindDepositRefunded   Kind = "deposit_refunded"
	KindRoundEnded        Kind = "round_ended"
	KindCreditsPurchased  Kind = "credits_purchased"
	KindCreditsRedeemed   Kind = "credits_redeemed"
)

// Event is one of the types declared in this file.
type Event interface {
	Kind() Kind
	// Round is the round number the event belongs to, 0 for events outside a round.
	Round() uint64
	sealed()
}

// Sink receives events after the state change that produced them is complete.
// A failing sink never undoes that change.
type Sink interface {
	Emit(ctx context.Context, ev Event) error
}

type ProjectRegistered struct {
	RoundNumber  uint64    `json:"round_number"`
	Owner        string    `json:"owner"`
	ProjectID    uint64    `json:"project_id"`
	Title        string    `json:"title"`
	Deposit      uint64    `json:"deposit"`
	RegisteredAt time.Time `json:"registered_at"`
}

type RoundStarted struct {
	RoundNumber  uint64 `json:"round_number"`
	StartedAt    int64  `json:"started_at"`
	ProjectCount int    `json:"project_count"`
}

type VoteCast struct {
	RoundNumber uint64 `json:"round_number"`
	Voter       string `json:"voter"`
	ProjectID   uint64 `json:"project_id"`
	Amount      uint64 `json:"amount"`
}

type RoundWon struct {
	RoundNumber uint64 `json:"round_number"`
	ProjectID   uint64 `json:"project_id"`
	Owner       string `json:"owner"`
	Weight      uint64 `json:"weight"`
}

type RoundDrawn struct {
	RoundNumber uint64 `json:"round_number"`
	ProjectID1  uint64 `json:"project_id1"`
	ProjectID2  uint64 `json:"project_id2"`
}

type RoundVoided struct {
	RoundNumber uint64   `json:"round_number"`
	TiedIDs     []uint64 `json:"tied_ids"`
}

type DepositRefunded struct {
	RoundNumber uint64 `json:"round_number"`
	Owner       string `json:"owner"`
	ProjectID   uint64 `json:"project_id"`
	Amount      uint64 `json:"amount"`
}

type RoundEnded struct {
	Settlement models.Settlement `json:"settlement"`
}

type CreditsPurchased struct {
	Account string `json:"account"`
	Wei     string `json:"wei"`
	Credits uint64 `json:"credits"`
}

type CreditsRedeemed struct {
	Account string `json:"account"`
	Credits uint64 `json:"credits"`
	Wei     string `json:"wei"`
}

func (ProjectRegistered) Kind() Kind { return KindProjectRegistered }
func (RoundStarted) Kind() Kind      { return KindRoundStarted }
func (VoteCast) Kind() Kind          { return KindVoteCast }
func (RoundWon) Kind() Kind          { return KindRoundWon }
func (RoundDrawn) Kind() Kind        { return KindRoundDrawn }
func (RoundVoided) Kind() Kind       { return KindRoundVoided }
func (DepositRefunded) Kind() Kind   { return KindDepositRefunded }
func (RoundEnded) Kind() Kind        { return KindRoundEnded }
func (CreditsPurchased) Kind() Kind  { return KindCreditsPurchased }
func (CreditsRedeemed) Kind() Kind   { return KindCreditsRedeemed }

func (e ProjectRegistered) Round() uint64 { return e.RoundNumber }
func (e RoundStarted) Round() uint64      { return e.RoundNumber }
func (e VoteCast) Round() uint64          { return e.RoundNumber }
func (e RoundWon) Round() uint64          { return e.RoundNumber }
func (e RoundDrawn) Round() uint64        { return e.RoundNumber }
func (e RoundVoided) Round() uint64       { return e.RoundNumber }
func (e DepositRefunded) Round() uint64   { return e.RoundNumber }
func (e RoundEnded) Round() uint64        { return e.Settlement.RoundNumber }
func (CreditsPurchased) Round() uint64    { return 0 }
func (CreditsRedeemed) Round() uint64     { return 0 }

func (ProjectRegistered) sealed() {}
func (RoundStarted) sealed()      {}
func (VoteCast) sealed()          {}
func (RoundWon) sealed()          {}
func (RoundDrawn) sealed()        {}
func (RoundVoided) sealed()       {}
func (DepositRefunded) sealed()   {}
func (RoundEnded) sealed()        {}
func (CreditsPurchased) sealed()  {}
func (CreditsRedeemed) sealed()   {}

// Multi fans an event out to every sink and joins their errors.
type Multi []Sink

func (m Multi) Emit(ctx context.Context, ev Event) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Emit(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard drops every event.
type Discard struct{}

func (Discard) Emit(context.Context, Event) error { return nil }
