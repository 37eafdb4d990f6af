// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

Load an optional .env file, then parse the environment and flags:

	if err := cliparse.LoadDotEnv(); err != nil { ... }
	cfg, err := cliparse.ParseFlags(os.Args[1:])

Environment variables provide defaults and flags override them.

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: Database connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - AccountKeySalt: Secret for account key HMAC (required)
  - IPHashSalt: Secret for hashing client IPs (required)
  - OperatorKey: Key for POST /round/settle (optional, settlement by expiry only when empty)
  - Quorum, DepositCredits, RoundDuration, TreasuryAccount: round rules
  - ExpiryInterval: background expiry check period
  - CreditsPerCoin, MinPurchaseWei, RedeemPercent: exchange rate

# CLI Flags

	-p                 Server port
	-d                 Database URL
	-t                 Database type
	-account-salt      Account key salt
	-ip-salt           IP hash salt
	-operator-key      Operator key
	-quorum            Projects needed to start voting
	-deposit           Registration deposit
	-round-duration    Voting window, e.g. 24h
	-treasury          Treasury account
	-expiry-interval   Expiry check period
	-credits-per-coin  Mint rate
	-min-purchase-wei  Minimum purchase
	-redeem-percent    Redemption rate

# Environment Variables

	PORT, DATABASE_URL, DATABASE_TYPE, ACCOUNT_KEY_SALT, IP_HASH_SALT, OPERATOR_KEY,
	ROUND_QUORUM, ROUND_DEPOSIT, ROUND_DURATION, TREASURY_ACCOUNT,
	EXPIRY_CHECK_INTERVAL, CREDITS_PER_COIN, MIN_PURCHASE_WEI, REDEEM_PERCENT
*/
package cliparse
