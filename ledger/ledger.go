// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"errors"
	"math"
	"strings"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrZeroAmount          = errors.New("amount must be at least 1")
	ErrInvalidAccount      = errors.New("invalid account")
	ErrAmountTooLarge      = errors.New("amount exceeds the ledger limit")
)

// MaxAmount bounds every amount and balance. The SQL schema stores both as BIGINT.
const MaxAmount = math.MaxInt64

// Entry types recorded in the journal
const (
	EntryCredit = "credit"
	EntryDebit  = "debit"
)

// Posting is a single credit applied as part of a batch.
type Posting struct {
	Account string `json:"account"`
	Amount  uint64 `json:"amount"`
	Reason  string `json:"reason"`
}

// Ledger holds non-negative credit balances per account.
//
// Debit fails with ErrInsufficientBalance and leaves the balance untouched.
// Amounts above MaxAmount, and credits that would lift a balance above it,
// fail with ErrAmountTooLarge. CreditBatch applies every posting or none of them.
type Ledger interface {
	BalanceOf(ctx context.Context, account string) (uint64, error)
	Credit(ctx context.Context, account string, amount uint64, reason string) error
	Debit(ctx context.Context, account string, amount uint64, reason string) error
	Transfer(ctx context.Context, from, to string, amount uint64) error
	CreditBatch(ctx context.Context, postings []Posting) error
}

func validAccount(account string) error {
	if strings.TrimSpace(account) == "" {
		return ErrInvalidAccount
	}
	return nil
}

func validAmount(amount uint64) error {
	if amount > MaxAmount {
		return ErrAmountTooLarge
	}
	return nil
}

// addBalance returns balance+amount, or ErrAmountTooLarge past MaxAmount.
func addBalance(balance, amount uint64) (uint64, error) {
	if amount > MaxAmount || balance > MaxAmount-amount {
		return 0, ErrAmountTooLarge
	}
	return balance + amount, nil
}
