// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package round

import (
	"errors"

	"github.com/danielhkuo/quickly-vote/ledger"
	"github.com/danielhkuo/quickly-vote/registry"
)

// Every error below rejects the call without any effect on balances or round state.
var (
	ErrInsufficientBalance   = errors.New("not enough credit to vote")
	ErrInsufficientDeposit   = errors.New("not enough credit for the registration deposit")
	ErrDuplicateRegistration = registry.ErrDuplicateRegistration
	ErrDuplicateVote         = errors.New("voter already voted this round")
	ErrRoundInProgress       = errors.New("voting round in progress, wait for it to end before registering")
	ErrVotingNotStarted      = errors.New("voting has not started")
	ErrRoundNotActive        = errors.New("voting is not underway")
	ErrInvalidProject        = errors.New("invalid project id")
	ErrSelfVote              = errors.New("cannot vote for your own project")
	ErrInvalidAmount         = errors.New("vote amount must be positive")
	ErrInvalidTitle          = errors.New("project title is required")
	ErrInvalidAccount        = ledger.ErrInvalidAccount
)
