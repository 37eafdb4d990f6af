// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Round status constants
const (
	StatusStandby = "standby"
	StatusVoting  = "voting"
)

// Settlement outcome constants
const (
	OutcomeWin  = "win"
	OutcomeDraw = "draw"
	OutcomeVoid = "void"
)

// Payout reasons
const (
	ReasonDepositRefund = "deposit_refund"
	ReasonOwnerReward   = "owner_reward"
	ReasonStakeReturn   = "stake_return"
	ReasonTreasury      = "treasury"
)

// Request types

type PurchaseCreditsRequest struct {
	// Base currency amount in wei, as a decimal string
	Wei string `json:"wei"`
}

type RedeemCreditsRequest struct {
	Credits uint64 `json:"credits"`
}

type TransferCreditsRequest struct {
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

type RegisterProjectRequest struct {
	Title string `json:"title"`
}

type CastVoteRequest struct {
	Amount uint64 `json:"amount"`
}

// Response types

type RegisterAccountResponse struct {
	Address    string `json:"address"`
	AccountKey string `json:"account_key"`
}

type AccountResponse struct {
	Address   string  `json:"address"`
	Balance   uint64  `json:"balance"`
	ProjectID *uint64 `json:"project_id,omitempty"`
	HasVoted  bool    `json:"has_voted"`
}

type BalanceResponse struct {
	Address string `json:"address"`
	Balance uint64 `json:"balance"`
}

type PurchaseCreditsResponse struct {
	Credits uint64 `json:"credits"`
	Balance uint64 `json:"balance"`
}

type RedeemCreditsResponse struct {
	Wei     string `json:"wei"`
	Balance uint64 `json:"balance"`
}

type RegisterProjectResponse struct {
	ProjectID   uint64 `json:"project_id"`
	RoundNumber uint64 `json:"round_number"`
	Status      string `json:"status"`
}

type CastVoteResponse struct {
	ProjectID uint64 `json:"project_id"`
	Amount    uint64 `json:"amount"`
	Total     uint64 `json:"total"`
}

type ProjectCountResponse struct {
	Count int `json:"count"`
}

type ProjectsResponse struct {
	RoundNumber uint64             `json:"round_number"`
	Status      string             `json:"status"`
	Projects    []ProjectWithVotes `json:"projects"`
}

type VotersResponse struct {
	Voters []string `json:"voters"`
	Count  int      `json:"count"`
}

type RoundResponse struct {
	Number       uint64     `json:"number"`
	Status       string     `json:"status"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	EndsAt       *time.Time `json:"ends_at,omitempty"`
	EndsIn       string     `json:"ends_in,omitempty"`
	Expired      bool       `json:"expired"`
	ProjectCount int        `json:"project_count"`
	VoterCount   int        `json:"voter_count"`
}

// Domain types

type Project struct {
	ID           uint64    `json:"id"`
	Owner        string    `json:"owner"`
	Title        string    `json:"title"`
	Deposit      uint64    `json:"deposit"`
	RegisteredAt time.Time `json:"registered_at"`
}

// Tally is the running vote count of one project.
type Tally struct {
	ProjectID uint64   `json:"project_id"`
	Owner     string   `json:"owner"`
	Weight    uint64   `json:"weight"`
	Voters    []string `json:"voters"`
}

type ProjectWithVotes struct {
	Project
	Weight     uint64 `json:"weight"`
	VoterCount int    `json:"voter_count"`
}

type Payout struct {
	Account   string `json:"account"`
	ProjectID uint64 `json:"project_id,omitempty"`
	Amount    uint64 `json:"amount"`
	Reason    string `json:"reason"`
}

// Settlement is the immutable record of how a round closed.
type Settlement struct {
	ID          string    `json:"id"`
	RoundNumber uint64    `json:"round_number"`
	Outcome     string    `json:"outcome"`
	WinnerID    uint64    `json:"winner_id,omitempty"`
	TiedIDs     []uint64  `json:"tied_ids,omitempty"`
	Tallies     []Tally   `json:"tallies"`
	Payouts     []Payout  `json:"payouts"`
	Collected   uint64    `json:"collected"`
	Retained    uint64    `json:"retained"`
	Expired     bool      `json:"expired"`
	SettledAt   time.Time `json:"settled_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
