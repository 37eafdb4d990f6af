// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package round

import (
	"errors"
	"time"
)

const (
	DefaultQuorum   = 3
	DefaultDeposit  = 100
	DefaultDuration = 24 * time.Hour
	DefaultTreasury = "treasury"
)

// PayoutPolicy sets the percentages paid out when a round has an outright winner.
type PayoutPolicy struct {
	// Share of the winning project's vote weight paid to its owner
	OwnerRewardPercent uint64
	// Share of each stake returned to voters of the winning project
	WinnerVoterPercent uint64
	// Share of each stake returned to voters of every other project
	LoserVoterPercent uint64
}

type Config struct {
	Quorum   int
	Deposit  uint64
	Duration time.Duration
	// Ledger account that receives whatever a settlement does not pay out
	Treasury string
	Payout   PayoutPolicy
}

func DefaultConfig() Config {
	return Config{
		Quorum:   DefaultQuorum,
		Deposit:  DefaultDeposit,
		Duration: DefaultDuration,
		Treasury: DefaultTreasury,
		Payout: PayoutPolicy{
			OwnerRewardPercent: 80,
			WinnerVoterPercent: 20,
			LoserVoterPercent:  40,
		},
	}
}

func (c Config) Validate() error {
	if c.Quorum < 1 {
		return errors.New("quorum must be at least 1")
	}
	if c.Duration <= 0 {
		return errors.New("round duration must be positive")
	}
	if c.Treasury == "" {
		return errors.New("treasury account is required")
	}
	// The winner's pool and each losing stake can never pay out more than they hold
	if c.Payout.OwnerRewardPercent+c.Payout.WinnerVoterPercent > 100 {
		return errors.New("owner and winner voter shares exceed 100 percent")
	}
	if c.Payout.LoserVoterPercent > 100 {
		return errors.New("loser voter share exceeds 100 percent")
	}
	return nil
}
