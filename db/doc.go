// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections and schema creation.

# Connecting

Open picks the driver from the configured database type:

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

sqlite (modernc.org/sqlite) is the default; postgres uses lib/pq.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - account: Participant addresses and credit balances
  - ledger_entry: One row per credit or debit
  - event_log: Every event emitted by the round engine and exchange
  - round_result: Archived settlement of each finished round

The round itself is held in memory by the engine; only its effects
(balances, events, settlements) are stored.
*/
package db
