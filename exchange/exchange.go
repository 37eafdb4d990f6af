// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package exchange

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/quickly-vote/events"
	"github.com/danielhkuo/quickly-vote/ledger"
)

var (
	ErrBelowMinimum = errors.New("purchase is below the minimum amount")
	ErrZeroCredits  = errors.New("credits must be at least 1")
	ErrTooLarge     = errors.New("amount is too large")
)

const (
	DefaultCreditsPerCoin = 100
	DefaultRedeemPercent  = 90
)

var (
	// 1 coin in wei
	DefaultWeiPerCoin = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	// 0.01 coin
	DefaultMinPurchaseWei = new(big.Int).Exp(big.NewInt(10), big.NewInt(16), nil)
)

type Config struct {
	CreditsPerCoin uint64
	WeiPerCoin     *big.Int
	MinPurchaseWei *big.Int
	RedeemPercent  uint64
}

func DefaultConfig() Config {
	return Config{
		CreditsPerCoin: DefaultCreditsPerCoin,
		WeiPerCoin:     new(big.Int).Set(DefaultWeiPerCoin),
		MinPurchaseWei: new(big.Int).Set(DefaultMinPurchaseWei),
		RedeemPercent:  DefaultRedeemPercent,
	}
}

func (c Config) Validate() error {
	if c.CreditsPerCoin == 0 {
		return errors.New("credits per coin must be positive")
	}
	if c.WeiPerCoin == nil || c.WeiPerCoin.Sign() <= 0 {
		return errors.New("wei per coin must be positive")
	}
	if c.MinPurchaseWei == nil || c.MinPurchaseWei.Sign() < 0 {
		return errors.New("minimum purchase must not be negative")
	}
	if c.RedeemPercent == 0 || c.RedeemPercent > 100 {
		return errors.New("redeem percent must be between 1 and 100")
	}
	return nil
}

// Exchange converts base currency into credit and back at a fixed rate.
// It moves credit on the ledger only; settling the base currency is the caller's job.
type Exchange struct {
	cfg    Config
	ledger ledger.Ledger
	sink   events.Sink
	logger *slog.Logger
}

func New(l ledger.Ledger, cfg Config, sink events.Sink, logger *slog.Logger) (*Exchange, error) {
	if l == nil {
		return nil, errors.New("ledger is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid exchange config: %w", err)
	}
	if sink == nil {
		sink = events.Discard{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Exchange{cfg: cfg, ledger: l, sink: sink, logger: logger}, nil
}

func (x *Exchange) Config() Config {
	return x.cfg
}

// Quote returns the credit that wei buys, rounded down.
func (x *Exchange) Quote(wei *big.Int) (uint64, error) {
	if wei == nil || wei.Cmp(x.cfg.MinPurchaseWei) < 0 {
		return 0, ErrBelowMinimum
	}
	credits := new(big.Int).Mul(wei, new(big.Int).SetUint64(x.cfg.CreditsPerCoin))
	credits.Quo(credits, x.cfg.WeiPerCoin)
	if credits.Sign() == 0 {
		return 0, ErrZeroCredits
	}
	if !credits.IsUint64() || credits.Uint64() > ledger.MaxAmount {
		return 0, ErrTooLarge
	}
	return credits.Uint64(), nil
}

// RedeemQuote returns the wei paid out for credits after the redemption discount.
func (x *Exchange) RedeemQuote(credits uint64) (*big.Int, error) {
	if credits == 0 {
		return nil, ErrZeroCredits
	}
	wei := new(big.Int).SetUint64(credits)
	wei.Mul(wei, x.cfg.WeiPerCoin)
	wei.Mul(wei, new(big.Int).SetUint64(x.cfg.RedeemPercent))
	wei.Quo(wei, new(big.Int).SetUint64(x.cfg.CreditsPerCoin*100))
	return wei, nil
}

// Purchase mints credit for account in exchange for wei.
func (x *Exchange) Purchase(ctx context.Context, account string, wei *big.Int) (uint64, error) {
	credits, err := x.Quote(wei)
	if err != nil {
		return 0, err
	}
	if err := x.ledger.Credit(ctx, account, credits, "credit purchase"); err != nil {
		return 0, fmt.Errorf("failed to mint credit: %w", err)
	}

	x.logger.Info("credits purchased", "account", account, "credits", humanize.Comma(int64(credits)), "wei", wei.String())
	if err := x.sink.Emit(ctx, events.CreditsPurchased{Account: account, Wei: wei.String(), Credits: credits}); err != nil {
		x.logger.Warn("failed to deliver event", "kind", events.KindCreditsPurchased, "error", err)
	}
	return credits, nil
}

// Redeem burns credits from account and returns the wei owed for them.
func (x *Exchange) Redeem(ctx context.Context, account string, credits uint64) (*big.Int, error) {
	wei, err := x.RedeemQuote(credits)
	if err != nil {
		return nil, err
	}
	if err := x.ledger.Debit(ctx, account, credits, "credit redemption"); err != nil {
		if errors.Is(err, ledger.ErrInsufficientBalance) ||
			errors.Is(err, ledger.ErrInvalidAccount) ||
			errors.Is(err, ledger.ErrAmountTooLarge) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to burn credit: %w", err)
	}

	x.logger.Info("credits redeemed", "account", account, "credits", humanize.Comma(int64(credits)), "wei", wei.String())
	if err := x.sink.Emit(ctx, events.CreditsRedeemed{Account: account, Credits: credits, Wei: wei.String()}); err != nil {
		x.logger.Warn("failed to deliver event", "kind", events.KindCreditsRedeemed, "error", err)
	}
	return wei, nil
}

// ParseWei parses a base-10 wei amount.
func ParseWei(s string) (*big.Int, error) {
	wei, ok := new(big.Int).SetString(s, 10)
	if !ok || wei.Sign() < 0 {
		return nil, fmt.Errorf("invalid wei amount %q", s)
	}
	return wei, nil
}
