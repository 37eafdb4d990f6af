// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"sync"
)

// Memory is an in-process Ledger.
type Memory struct {
	mu       sync.Mutex
	balances map[string]uint64
}

func NewMemory() *Memory {
	return &Memory{balances: make(map[string]uint64)}
}

func (m *Memory) BalanceOf(_ context.Context, account string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[account], nil
}

func (m *Memory) Credit(_ context.Context, account string, amount uint64, _ string) error {
	if err := validAccount(account); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	next, err := addBalance(m.balances[account], amount)
	if err != nil {
		return err
	}
	m.balances[account] = next
	return nil
}

func (m *Memory) Debit(_ context.Context, account string, amount uint64, _ string) error {
	if err := validAccount(account); err != nil {
		return err
	}
	if err := validAmount(amount); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.balances[account] < amount {
		return ErrInsufficientBalance
	}
	m.balances[account] -= amount
	return nil
}

func (m *Memory) Transfer(_ context.Context, from, to string, amount uint64) error {
	if amount == 0 {
		return ErrZeroAmount
	}
	if err := validAccount(from); err != nil {
		return err
	}
	if err := validAccount(to); err != nil {
		return err
	}
	if err := validAmount(amount); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.balances[from] < amount {
		return ErrInsufficientBalance
	}
	if from == to {
		return nil
	}
	next, err := addBalance(m.balances[to], amount)
	if err != nil {
		return err
	}
	m.balances[from] -= amount
	m.balances[to] = next
	return nil
}

func (m *Memory) CreditBatch(_ context.Context, postings []Posting) error {
	for _, p := range postings {
		if err := validAccount(p.Account); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	// Check every posting before applying any
	next := make(map[string]uint64, len(postings))
	for _, p := range postings {
		current, ok := next[p.Account]
		if !ok {
			current = m.balances[p.Account]
		}
		b, err := addBalance(current, p.Amount)
		if err != nil {
			return err
		}
		next[p.Account] = b
	}
	for account, b := range next {
		m.balances[account] = b
	}
	return nil
}

// Total sums every balance. Used to check conservation.
func (m *Memory) Total() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total uint64
	for _, b := range m.balances {
		total += b
	}
	return total
}
