// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Vote API server.

Quickly Vote runs rounds of token-weighted project voting. Participants buy
voting credit, pay a deposit to enter a project, stake credit on other
projects, and are paid out when the round settles.

# Starting the Server

The server requires environment variables or CLI flags for configuration.
A .env file in the working directory is loaded first if present:

	DATABASE_URL=file:vote.db ACCOUNT_KEY_SALT=... IP_HASH_SALT=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -account-salt ... -ip-salt ...

# Configuration

Required settings:

  - DATABASE_URL (-d): sqlite path or PostgreSQL connection string
  - ACCOUNT_KEY_SALT (-account-salt): Secret for account key HMAC
  - IP_HASH_SALT (-ip-salt): Secret for hashing client IPs

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - OPERATOR_KEY (-operator-key): Enables POST /round/settle
  - ROUND_QUORUM, ROUND_DEPOSIT, ROUND_DURATION: Round rules (3, 100, 24h)
  - TREASURY_ACCOUNT: Receives credit retained at settlement
  - EXPIRY_CHECK_INTERVAL: How often expired rounds are settled (default: 1m, 0 disables)
  - CREDITS_PER_COIN, MIN_PURCHASE_WEI, REDEEM_PERCENT: Exchange rates

# Architecture

  - round: Round state machine and settlement
  - registry: Projects of the current round
  - ledger: Credit balances (memory and SQL)
  - exchange: Fixed-rate credit purchase and redemption
  - events: Typed events, logging and the settlement archive
  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response and domain types
  - auth: Addresses, account keys and IP hashing
  - db: Schema creation for sqlite and postgres
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
