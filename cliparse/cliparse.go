// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/danielhkuo/quickly-vote/exchange"
	"github.com/danielhkuo/quickly-vote/round"
)

type Config struct {
	Port         int    `env:"PORT" envDefault:"3318"`
	DatabaseURL  string `env:"DATABASE_URL"`
	DatabaseType string `env:"DATABASE_TYPE" envDefault:"sqlite"`

	// Secrets
	AccountKeySalt string `env:"ACCOUNT_KEY_SALT"`
	IPHashSalt     string `env:"IP_HASH_SALT"`
	// Empty disables manual settlement
	OperatorKey    string `env:"OPERATOR_KEY"`

	// Round rules
	Quorum          int           `env:"ROUND_QUORUM" envDefault:"3"`
	DepositCredits  uint64        `env:"ROUND_DEPOSIT" envDefault:"100"`
	RoundDuration   time.Duration `env:"ROUND_DURATION" envDefault:"24h"`
	TreasuryAccount string        `env:"TREASURY_ACCOUNT" envDefault:"treasury"`
	ExpiryInterval  time.Duration `env:"EXPIRY_CHECK_INTERVAL" envDefault:"1m"`

	// Exchange
	CreditsPerCoin uint64 `env:"CREDITS_PER_COIN" envDefault:"100"`
	MinPurchaseWei string `env:"MIN_PURCHASE_WEI" envDefault:"10000000000000000"`
	RedeemPercent  uint64 `env:"REDEEM_PERCENT" envDefault:"90"`
}

// LoadDotEnv loads variables from a .env file without overriding ones already
// set. A missing file is not an error.
func LoadDotEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// ParseFlags reads the environment, then lets CLI flags override it
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid environment: %w", err)
	}

	fs := flag.NewFlagSet("quickly-vote", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", cfg.Port, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", cfg.DatabaseURL, "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", cfg.DatabaseType, "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AccountKeySalt, "account-salt", cfg.AccountKeySalt, "Account key salt (prefer env)")
	fs.StringVar(&cfg.IPHashSalt, "ip-salt", cfg.IPHashSalt, "IP hash salt (prefer env)")
	fs.StringVar(&cfg.OperatorKey, "operator-key", cfg.OperatorKey, "Key allowed to settle rounds (prefer env)")

	fs.IntVar(&cfg.Quorum, "quorum", cfg.Quorum, "Projects needed to start voting")
	fs.Uint64Var(&cfg.DepositCredits, "deposit", cfg.DepositCredits, "Registration deposit in credits")
	fs.DurationVar(&cfg.RoundDuration, "round-duration", cfg.RoundDuration, "How long voting stays open")
	fs.StringVar(&cfg.TreasuryAccount, "treasury", cfg.TreasuryAccount, "Account receiving retained credit")
	fs.DurationVar(&cfg.ExpiryInterval, "expiry-interval", cfg.ExpiryInterval, "How often to check for an expired round (0 disables)")

	fs.Uint64Var(&cfg.CreditsPerCoin, "credits-per-coin", cfg.CreditsPerCoin, "Credits minted per coin")
	fs.StringVar(&cfg.MinPurchaseWei, "min-purchase-wei", cfg.MinPurchaseWei, "Smallest purchase in wei")
	fs.Uint64Var(&cfg.RedeemPercent, "redeem-percent", cfg.RedeemPercent, "Share of the purchase rate paid on redemption")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	// Secrets - MUST be provided
	if cfg.AccountKeySalt == "" {
		return Config{}, errors.New("ACCOUNT_KEY_SALT required")
	}
	if cfg.IPHashSalt == "" {
		return Config{}, errors.New("IP_HASH_SALT required")
	}

	return cfg, nil
}

// RoundConfig returns the round rules, keeping the default payout policy
func (c Config) RoundConfig() round.Config {
	rc := round.DefaultConfig()
	rc.Quorum = c.Quorum
	rc.Deposit = c.DepositCredits
	rc.Duration = c.RoundDuration
	rc.Treasury = c.TreasuryAccount
	return rc
}

// ExchangeConfig returns the mint and redeem rates
func (c Config) ExchangeConfig() (exchange.Config, error) {
	xc := exchange.DefaultConfig()
	xc.CreditsPerCoin = c.CreditsPerCoin
	xc.RedeemPercent = c.RedeemPercent
	if c.MinPurchaseWei != "" {
		minWei, err := exchange.ParseWei(c.MinPurchaseWei)
		if err != nil {
			return exchange.Config{}, fmt.Errorf("invalid minimum purchase: %w", err)
		}
		xc.MinPurchaseWei = minWei
	}
	return xc, nil
}
