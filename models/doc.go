// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - PurchaseCreditsRequest: wei (decimal string)
  - RedeemCreditsRequest: credits
  - TransferCreditsRequest: to, amount
  - RegisterProjectRequest: title
  - CastVoteRequest: amount

# Response Types

Types for JSON responses:

  - RegisterAccountResponse: address, account_key
  - AccountResponse / BalanceResponse: balances
  - RegisterProjectResponse: project_id, round_number, status
  - CastVoteResponse: project_id, amount, total
  - RoundResponse: round number, status and timing
  - ErrorResponse: error, message

# Domain Types

Shared by the registry, round engine and event sinks:

  - Project: a registered project in the current round
  - Tally: vote weight and voters of one project
  - Payout: one credit applied at settlement
  - Settlement: immutable record of a closed round

# Constants

Round status values:

	StatusStandby = "standby"
	StatusVoting  = "voting"

Settlement outcomes:

	OutcomeWin  = "win"
	OutcomeDraw = "draw"
	OutcomeVoid = "void"
*/
package models
