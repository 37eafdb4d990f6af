// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// RoundJournal is what the event log and settlement archive remember about
// the newest round. Events are only loaded for a round that never settled.
type RoundJournal struct {
	Number     uint64
	Settled    bool
	Registered []ProjectRegistered
	Started    *RoundStarted
	Votes      []VoteCast
}

// LoadLatestRound reads the newest round recorded by SQLSink.
// Number is 0 when nothing has been recorded yet.
func LoadLatestRound(ctx context.Context, db *sql.DB) (RoundJournal, error) {
	var latest int64
	err := db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(n), 0) FROM (
			SELECT MAX(round_number) AS n FROM event_log
			UNION ALL
			SELECT MAX(round_number) AS n FROM round_result
		) rounds
	`).Scan(&latest)
	if err != nil {
		return RoundJournal{}, fmt.Errorf("failed to query latest round: %w", err)
	}
	if latest <= 0 {
		return RoundJournal{}, nil
	}

	j := RoundJournal{Number: uint64(latest)}

	var archived int
	err = db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM round_result WHERE round_number = $1
	`, latest).Scan(&archived)
	if err != nil {
		return RoundJournal{}, fmt.Errorf("failed to query settlement: %w", err)
	}
	if archived > 0 {
		j.Settled = true
		return j, nil
	}

	rows, err := db.QueryContext(ctx, `
		SELECT kind, payload FROM event_log
		WHERE round_number = $1 AND kind IN ($2, $3, $4)
		ORDER BY created_at
	`, latest, string(KindProjectRegistered), string(KindRoundStarted), string(KindVoteCast))
	if err != nil {
		return RoundJournal{}, fmt.Errorf("failed to query round events: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind, payload string
		if err := rows.Scan(&kind, &payload); err != nil {
			return RoundJournal{}, fmt.Errorf("failed to scan event: %w", err)
		}

		switch Kind(kind) {
		case KindProjectRegistered:
			var ev ProjectRegistered
			if err := json.Unmarshal([]byte(payload), &ev); err != nil {
				return RoundJournal{}, fmt.Errorf("failed to decode %s: %w", kind, err)
			}
			j.Registered = append(j.Registered, ev)
		case KindRoundStarted:
			var ev RoundStarted
			if err := json.Unmarshal([]byte(payload), &ev); err != nil {
				return RoundJournal{}, fmt.Errorf("failed to decode %s: %w", kind, err)
			}
			j.Started = &ev
		case KindVoteCast:
			var ev VoteCast
			if err := json.Unmarshal([]byte(payload), &ev); err != nil {
				return RoundJournal{}, fmt.Errorf("failed to decode %s: %w", kind, err)
			}
			j.Votes = append(j.Votes, ev)
		}
	}
	if err := rows.Err(); err != nil {
		return RoundJournal{}, fmt.Errorf("failed to read round events: %w", err)
	}

	return j, nil
}
