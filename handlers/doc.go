// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Vote API.

# Handler Types

Each handler is a struct with database and config dependencies plus the
domain objects it drives:

  - AccountHandler: Account registration and balance lookups
  - CreditHandler: Credit purchase, redemption and transfer
  - ProjectHandler: Project registration and listing
  - VotingHandler: Vote casting
  - RoundHandler: Round state, settlement and archived results

Handlers are created via constructor functions:

	projectHandler := handlers.NewProjectHandler(db, cfg, engine)

# Round Lifecycle

A round is in standby until the quorum of projects has registered, then
voting until it is settled or expires:

	POST /projects            → RegisterProject (standby only, pays deposit)
	POST /projects/{id}/votes → CastVote (voting only, once per account)
	POST /round/settle        → Settle (requires X-Operator-Key)

Writes arriving after the round deadline settle the stale round first.

# Authentication

Account operations require the X-Account and X-Account-Key headers
returned by POST /accounts/register.

# Errors

Domain errors map to status codes in errors.go: validation 400, bad
credentials 401, insufficient credit 402, unknown project or round 404,
and round state conflicts 409.
*/
package handlers
