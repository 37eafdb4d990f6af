// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/exchange"
	"github.com/danielhkuo/quickly-vote/handlers"
	"github.com/danielhkuo/quickly-vote/ledger"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/round"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, engine *round.Engine, x *exchange.Exchange, l ledger.Ledger) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	accountHandler := handlers.NewAccountHandler(db, cfg, l, engine)
	creditHandler := handlers.NewCreditHandler(db, cfg, l, x)
	projectHandler := handlers.NewProjectHandler(db, cfg, engine)
	votingHandler := handlers.NewVotingHandler(db, cfg, engine)
	roundHandler := handlers.NewRoundHandler(db, cfg, engine)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Accounts
	mux.HandleFunc("POST /accounts/register", middleware.WithLogging(accountHandler.Register))
	mux.HandleFunc("GET /accounts/me", middleware.WithLogging(accountHandler.GetMe))
	mux.HandleFunc("GET /accounts/{address}/balance", middleware.WithLogging(accountHandler.GetBalance))

	// Credit exchange
	mux.HandleFunc("POST /credits/purchase", middleware.WithLogging(creditHandler.Purchase))
	mux.HandleFunc("POST /credits/redeem", middleware.WithLogging(creditHandler.Redeem))
	mux.HandleFunc("POST /credits/transfer", middleware.WithLogging(creditHandler.Transfer))

	// Projects in the current round
	mux.HandleFunc("GET /projects", middleware.WithLogging(projectHandler.ListProjects))
	mux.HandleFunc("GET /projects/count", middleware.WithLogging(projectHandler.GetProjectCount))
	mux.HandleFunc("GET /projects/{id}", middleware.WithLogging(projectHandler.GetProject))
	mux.HandleFunc("POST /projects", middleware.WithLogging(projectHandler.RegisterProject))

	// Voting
	mux.HandleFunc("POST /projects/{id}/votes", middleware.WithLogging(votingHandler.CastVote))

	// Round state and results
	mux.HandleFunc("GET /round", middleware.WithLogging(roundHandler.GetRound))
	mux.HandleFunc("GET /round/voters", middleware.WithLogging(roundHandler.GetVoters))
	mux.HandleFunc("POST /round/settle", middleware.WithLogging(roundHandler.Settle))
	mux.HandleFunc("GET /rounds/{number}/result", middleware.WithLogging(roundHandler.GetResult))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-vote API v1"))
	})

	return mux
}
