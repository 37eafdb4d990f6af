// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package events

import (
	"context"
	"log/slog"
)

// LogSink writes each event as a structured log line.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Emit(ctx context.Context, ev Event) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	attrs := []any{"kind", string(ev.Kind())}
	switch e := ev.(type) {
	case ProjectRegistered:
		attrs = append(attrs, "round", e.RoundNumber, "owner", e.Owner, "project_id", e.ProjectID)
	case RoundStarted:
		attrs = append(attrs, "round", e.RoundNumber, "project_count", e.ProjectCount)
	case VoteCast:
		attrs = append(attrs, "round", e.RoundNumber, "voter", e.Voter, "project_id", e.ProjectID, "amount", e.Amount)
	case RoundWon:
		attrs = append(attrs, "round", e.RoundNumber, "project_id", e.ProjectID, "weight", e.Weight)
	case RoundDrawn:
		attrs = append(attrs, "round", e.RoundNumber, "project_id1", e.ProjectID1, "project_id2", e.ProjectID2)
	case RoundVoided:
		attrs = append(attrs, "round", e.RoundNumber, "tied", e.TiedIDs)
	case DepositRefunded:
		attrs = append(attrs, "round", e.RoundNumber, "owner", e.Owner, "project_id", e.ProjectID, "amount", e.Amount)
	case RoundEnded:
		attrs = append(attrs, "round", e.Settlement.RoundNumber, "outcome", e.Settlement.Outcome,
			"collected", e.Settlement.Collected, "retained", e.Settlement.Retained)
	case CreditsPurchased:
		attrs = append(attrs, "account", e.Account, "wei", e.Wei, "credits", e.Credits)
	case CreditsRedeemed:
		attrs = append(attrs, "account", e.Account, "credits", e.Credits, "wei", e.Wei)
	}

	logger.InfoContext(ctx, "event", attrs...)
	return nil
}
