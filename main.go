package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/db"
	"github.com/danielhkuo/quickly-vote/events"
	"github.com/danielhkuo/quickly-vote/exchange"
	"github.com/danielhkuo/quickly-vote/ledger"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/round"
	"github.com/danielhkuo/quickly-vote/router"
)

func main() {
	var err error

	if err := cliparse.LoadDotEnv(); err != nil {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Connect to the database
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err, "type", cfg.DatabaseType)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	l := ledger.NewSQL(dbConn)
	sink := events.Multi{
		events.LogSink{Logger: slog.Default()},
		events.NewSQLSink(dbConn),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Pick up numbering and any open round from the event log
	journal, err := events.LoadLatestRound(ctx, dbConn)
	if err != nil {
		slog.Error("failed to read round history", "error", err)
		os.Exit(1)
	}
	current, err := round.RestoreRound(journal, cfg.RoundConfig())
	if err != nil {
		slog.Error("failed to restore round", "error", err, "round", journal.Number)
		os.Exit(1)
	}
	slog.Info("Round restored", "round", current.Number, "status", current.Status, "projects", current.Projects.Count(), "held", current.Held)

	engine, err := round.NewEngine(l, cfg.RoundConfig(), round.WithSink(sink), round.WithRound(current))
	if err != nil {
		slog.Error("invalid round configuration", "error", err)
		os.Exit(1)
	}

	xcfg, err := cfg.ExchangeConfig()
	if err != nil {
		slog.Error("invalid exchange configuration", "error", err)
		os.Exit(1)
	}
	x, err := exchange.New(l, xcfg, sink, slog.Default())
	if err != nil {
		slog.Error("invalid exchange configuration", "error", err)
		os.Exit(1)
	}

	// Settle rounds that expire while nobody is writing
	if cfg.ExpiryInterval > 0 {
		go engine.Watch(ctx, cfg.ExpiryInterval)
	}

	// Create router
	mux := router.NewRouter(dbConn, cfg, engine, x, l)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		cancel()
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "round_duration", cfg.RoundDuration, "quorum", cfg.Quorum)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
