// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SQL is a Ledger stored in the account and ledger_entry tables.
// Every mutation runs in its own transaction and writes a journal row.
type SQL struct {
	db *sql.DB
}

func NewSQL(db *sql.DB) *SQL {
	return &SQL{db: db}
}

func (s *SQL) BalanceOf(ctx context.Context, account string) (uint64, error) {
	var balance int64
	err := s.db.QueryRowContext(ctx, `
		SELECT balance FROM account WHERE address = $1
	`, account).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query balance: %w", err)
	}
	return uint64(balance), nil
}

func (s *SQL) Credit(ctx context.Context, account string, amount uint64, reason string) error {
	if err := validAccount(account); err != nil {
		return err
	}
	if err := validAmount(amount); err != nil {
		return err
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return credit(ctx, tx, account, amount, reason)
	})
}

func (s *SQL) Debit(ctx context.Context, account string, amount uint64, reason string) error {
	if err := validAccount(account); err != nil {
		return err
	}
	if err := validAmount(amount); err != nil {
		return err
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return debit(ctx, tx, account, amount, reason)
	})
}

func (s *SQL) Transfer(ctx context.Context, from, to string, amount uint64) error {
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
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := debit(ctx, tx, from, amount, "transfer to "+to); err != nil {
			return err
		}
		return credit(ctx, tx, to, amount, "transfer from "+from)
	})
}

func (s *SQL) CreditBatch(ctx context.Context, postings []Posting) error {
	for _, p := range postings {
		if err := validAccount(p.Account); err != nil {
			return err
		}
		if err := validAmount(p.Amount); err != nil {
			return err
		}
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, p := range postings {
			if err := credit(ctx, tx, p.Account, p.Amount, p.Reason); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQL) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func credit(ctx context.Context, tx *sql.Tx, account string, amount uint64, reason string) error {
	if amount == 0 {
		return nil
	}

	var balance int64
	err := tx.QueryRowContext(ctx, `
		SELECT balance FROM account WHERE address = $1
	`, account).Scan(&balance)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to read balance: %w", err)
	}
	if _, err := addBalance(uint64(balance), amount); err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO account (address, balance, created_at, last_seen_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (address) DO UPDATE SET balance = account.balance + excluded.balance
	`, account, int64(amount), now, now)
	if err != nil {
		return fmt.Errorf("failed to credit account: %w", err)
	}
	return journal(ctx, tx, account, EntryCredit, amount, reason, now)
}

func debit(ctx context.Context, tx *sql.Tx, account string, amount uint64, reason string) error {
	if amount == 0 {
		return nil
	}
	res, err := tx.ExecContext(ctx, `
		UPDATE account SET balance = balance - $1
		WHERE address = $2 AND balance >= $3
	`, int64(amount), account, int64(amount))
	if err != nil {
		return fmt.Errorf("failed to debit account: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to debit account: %w", err)
	}
	if n == 0 {
		return ErrInsufficientBalance
	}
	return journal(ctx, tx, account, EntryDebit, amount, reason, time.Now().UTC())
}

func journal(ctx context.Context, tx *sql.Tx, account, entryType string, amount uint64, reason string, at time.Time) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO ledger_entry (id, account, entry_type, amount, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.NewString(), account, entryType, int64(amount), reason, at)
	if err != nil {
		return fmt.Errorf("failed to write ledger entry: %w", err)
	}
	return nil
}
