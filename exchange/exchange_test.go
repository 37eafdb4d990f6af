// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package exchange

import (
	"context"
	"math/big"
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-vote/events"
	"github.com/danielhkuo/quickly-vote/ledger"
)

func wei(t *testing.T, s string) *big.Int {
	t.Helper()
	w, err := ParseWei(s)
	require.NoError(t, err)
	return w
}

func newExchange(t *testing.T) (*Exchange, *ledger.Memory, *events.Recorder) {
	t.Helper()
	mem := ledger.NewMemory()
	rec := &events.Recorder{}
	x, err := New(mem, DefaultConfig(), rec, slogt.New(t))
	require.NoError(t, err)
	return x, mem, rec
}

func TestQuote(t *testing.T) {
	x, _, _ := newExchange(t)

	tests := []struct {
		name    string
		wei     string
		want    uint64
		wantErr error
	}{
		{"one coin", "1000000000000000000", 100, nil},
		{"half a coin", "500000000000000000", 50, nil},
		{"minimum purchase", "10000000000000000", 1, nil},
		{"rounds down", "15000000000000000", 1, nil},
		{"below minimum", "9999999999999999", 0, ErrBelowMinimum},
		{"zero", "0", 0, ErrBelowMinimum},
		{"largest ledger amount", "92233720368547758070000000000000000", 9223372036854775807, nil},
		{"past the ledger limit", "92233720368547758080000000000000000", 0, ErrTooLarge},
		{"overflows credit", "1000000000000000000000000000000000000000", 0, ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := x.Quote(wei(t, tt.wei))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestPurchase(t *testing.T) {
	x, mem, rec := newExchange(t)
	ctx := context.Background()

	credits, err := x.Purchase(ctx, "0xabc", wei(t, "500000000000000000"))
	require.NoError(t, err)
	require.Equal(t, uint64(50), credits)

	b, err := mem.BalanceOf(ctx, "0xabc")
	require.NoError(t, err)
	require.Equal(t, uint64(50), b)

	got := rec.OfKind(events.KindCreditsPurchased)
	require.Len(t, got, 1)
	require.Equal(t, events.CreditsPurchased{Account: "0xabc", Wei: "500000000000000000", Credits: 50}, got[0])

	_, err = x.Purchase(ctx, "0xabc", big.NewInt(1))
	require.ErrorIs(t, err, ErrBelowMinimum)

	_, err = x.Purchase(ctx, "", wei(t, "1000000000000000000"))
	require.ErrorIs(t, err, ledger.ErrInvalidAccount)
}

func TestRedeem(t *testing.T) {
	x, mem, rec := newExchange(t)
	ctx := context.Background()
	require.NoError(t, mem.Credit(ctx, "0xabc", 300, "funding"))

	paid, err := x.Redeem(ctx, "0xabc", 300)
	require.NoError(t, err)
	require.Equal(t, "2700000000000000000", paid.String())

	b, err := mem.BalanceOf(ctx, "0xabc")
	require.NoError(t, err)
	require.Zero(t, b)
	require.Len(t, rec.OfKind(events.KindCreditsRedeemed), 1)

	_, err = x.Redeem(ctx, "0xabc", 1)
	require.ErrorIs(t, err, ledger.ErrInsufficientBalance)

	_, err = x.Redeem(ctx, "0xabc", 0)
	require.ErrorIs(t, err, ErrZeroCredits)
}

func TestNewValidatesConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RedeemPercent = 120
	_, err := New(ledger.NewMemory(), cfg, nil, nil)
	require.Error(t, err)

	cfg = DefaultConfig()
	cfg.WeiPerCoin = big.NewInt(0)
	_, err = New(ledger.NewMemory(), cfg, nil, nil)
	require.Error(t, err)

	_, err = New(nil, DefaultConfig(), nil, nil)
	require.Error(t, err)
}

func TestParseWei(t *testing.T) {
	_, err := ParseWei("-5")
	require.Error(t, err)
	_, err = ParseWei("1.5")
	require.Error(t, err)
	_, err = ParseWei("")
	require.Error(t, err)
}
