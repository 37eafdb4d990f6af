// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package round implements the voting round state machine and its settlement.

# Lifecycle

A round is either standby or voting:

	standby --(quorum-th registration)--> voting
	voting  --(Settle, or expiry)-------> standby (next round number)

Registration is only accepted in standby. Voting and settlement are only
accepted while voting. Every mutating call starts with MaybeExpireRound, so a
round that has run for Config.Duration is settled with the votes it already has
before the call itself is evaluated:

	eng, err := round.NewEngine(ldg, round.DefaultConfig(),
		round.WithSink(sink),
		round.WithLogger(logger),
	)
	reg, err := eng.Register(ctx, owner, "My project")
	total, err := eng.Vote(ctx, voter, reg.ID, 50)
	st, err := eng.Settle(ctx)

# Settlement

Projects are ranked by vote weight, then by distinct voter count. With one
leader the round is won:

  - the winner's owner gets the deposit back plus OwnerRewardPercent of the
    winner's vote weight
  - voters of the winner get WinnerVoterPercent of their stake back
  - voters of other projects get LoserVoterPercent of their stake back
  - other owners get their deposit back if their project received any vote

Two leaders make a draw: the two owners get their deposits back and every
stake is returned. Three or more leaders void the round: every deposit and
every stake is returned.

Whatever is not paid out goes to the treasury account, so the ledger total
is unchanged by a settlement. All credits of one settlement are applied with a
single ledger.CreditBatch.

# Events

The engine emits events through an events.Sink after each state change.
Sink errors are logged and never undo the change.

# Restart

With events.SQLSink as a sink, the event log is enough to resume after a
restart. RestoreRound turns events.LoadLatestRound into the round to pass to
WithRound: the next number after a settled round, or the open round replayed
with its deposits and stakes still held.
*/
package round
