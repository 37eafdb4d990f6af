// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Vote API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, engine, exchange, ledger)

# Endpoints

Health:

	GET /health

Accounts (X-Account and X-Account-Key identify the caller):

	POST /accounts/register          - Create an account
	GET  /accounts/me                - Balance, project and vote status
	GET  /accounts/{address}/balance - Public balance lookup

Credit:

	POST /credits/purchase - Mint credit for wei
	POST /credits/redeem   - Burn credit for wei
	POST /credits/transfer - Move credit to another account

Projects (current round):

	GET  /projects            - List with tallies
	GET  /projects/count      - Registered count
	GET  /projects/{id}       - One project
	POST /projects            - Register, paying the deposit
	POST /projects/{id}/votes - Stake credit on a project

Round:

	GET  /round                    - Status and deadline
	GET  /round/voters             - Accounts that voted
	POST /round/settle             - Close voting (requires X-Operator-Key)
	GET  /rounds/{number}/result   - Archived settlement

# Handler Initialization

The router creates one handler per resource. Handlers that move credit
share the ledger and round engine passed to NewRouter, so every request
sees the same balances and round state.
*/
package router
