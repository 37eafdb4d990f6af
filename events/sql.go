// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-vote/models"
)

// SQLSink appends events to event_log and archives settlements in round_result.
type SQLSink struct {
	db *sql.DB
}

func NewSQLSink(db *sql.DB) *SQLSink {
	return &SQLSink{db: db}
}

func (s *SQLSink) Emit(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO event_log (id, round_number, kind, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.NewString(), int64(ev.Round()), string(ev.Kind()), string(payload), now)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	if ended, ok := ev.(RoundEnded); ok {
		if err := archiveSettlement(ctx, tx, ended.Settlement); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func archiveSettlement(ctx context.Context, tx *sql.Tx, st models.Settlement) error {
	payload, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode settlement: %w", err)
	}

	var winner sql.NullInt64
	if st.Outcome == models.OutcomeWin {
		winner = sql.NullInt64{Int64: int64(st.WinnerID), Valid: true}
	}

	id := st.ID
	if id == "" {
		id = uuid.NewString()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO round_result (id, round_number, outcome, winner_project_id, payload, settled_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, int64(st.RoundNumber), st.Outcome, winner, string(payload), st.SettledAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to archive settlement: %w", err)
	}
	return nil
}

// LoadSettlement reads an archived settlement by round number.
// Returns sql.ErrNoRows when the round has not been settled.
func LoadSettlement(ctx context.Context, db *sql.DB, roundNumber uint64) (models.Settlement, error) {
	var payload string
	err := db.QueryRowContext(ctx, `
		SELECT payload FROM round_result WHERE round_number = $1
	`, int64(roundNumber)).Scan(&payload)
	if err != nil {
		return models.Settlement{}, err
	}

	var st models.Settlement
	if err := json.Unmarshal([]byte(payload), &st); err != nil {
		return models.Settlement{}, fmt.Errorf("failed to decode settlement: %w", err)
	}
	return st, nil
}
