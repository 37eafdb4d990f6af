// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"testing"

	"github.com/danielhkuo/quickly-vote/events"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/testutil"
)

func TestCreditPurchase(t *testing.T) {
	env := testutil.NewEnv(t)
	h := NewCreditHandler(env.DB, env.Config, env.Ledger, env.Exchange)
	address, key := testutil.CreateTestAccount(t, env, 0)
	headers := testutil.AccountHeaders(address, key)

	tests := []struct {
		name        string
		body        interface{}
		headers     map[string]string
		wantStatus  int
		wantCredits uint64
	}{
		{"half a coin", models.PurchaseCreditsRequest{Wei: "500000000000000000"}, headers, http.StatusOK, 50},
		{"three coins", models.PurchaseCreditsRequest{Wei: "3000000000000000000"}, headers, http.StatusOK, 300},
		{"below minimum", models.PurchaseCreditsRequest{Wei: "1000"}, headers, http.StatusBadRequest, 0},
		{"not a number", models.PurchaseCreditsRequest{Wei: "1e18"}, headers, http.StatusBadRequest, 0},
		{"negative", models.PurchaseCreditsRequest{Wei: "-1"}, headers, http.StatusBadRequest, 0},
		{"invalid JSON", "nope", headers, http.StatusBadRequest, 0},
		{"unauthenticated", models.PurchaseCreditsRequest{Wei: "1000000000000000000"}, nil, http.StatusUnauthorized, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(h.Purchase, testutil.MakeRequest("POST", "/credits/purchase", tt.body, tt.headers))
			testutil.AssertStatus(t, w, tt.wantStatus)
			if tt.wantStatus != http.StatusOK {
				return
			}
			var resp models.PurchaseCreditsResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Credits != tt.wantCredits {
				t.Errorf("expected %d credits, got %d", tt.wantCredits, resp.Credits)
			}
		})
	}

	if got := testutil.Balance(t, env, address); got != 350 {
		t.Errorf("expected balance 350, got %d", got)
	}
	if n := len(env.Events.OfKind(events.KindCreditsPurchased)); n != 2 {
		t.Errorf("expected 2 purchase events, got %d", n)
	}
}

func TestCreditRedeem(t *testing.T) {
	env := testutil.NewEnv(t)
	h := NewCreditHandler(env.DB, env.Config, env.Ledger, env.Exchange)
	address, key := testutil.CreateTestAccount(t, env, 300)
	headers := testutil.AccountHeaders(address, key)

	w := serve(h.Redeem, testutil.MakeRequest("POST", "/credits/redeem", models.RedeemCreditsRequest{Credits: 300}, headers))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.RedeemCreditsResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Wei != "2700000000000000000" {
		t.Errorf("expected 2.7 coin in wei, got %s", resp.Wei)
	}
	if resp.Balance != 0 {
		t.Errorf("expected empty balance, got %d", resp.Balance)
	}

	w = serve(h.Redeem, testutil.MakeRequest("POST", "/credits/redeem", models.RedeemCreditsRequest{Credits: 1}, headers))
	testutil.AssertStatus(t, w, http.StatusPaymentRequired)

	w = serve(h.Redeem, testutil.MakeRequest("POST", "/credits/redeem", models.RedeemCreditsRequest{Credits: 0}, headers))
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestCreditTransfer(t *testing.T) {
	env := testutil.NewEnv(t)
	h := NewCreditHandler(env.DB, env.Config, env.Ledger, env.Exchange)
	from, key := testutil.CreateTestAccount(t, env, 100)
	to, _ := testutil.CreateTestAccount(t, env, 0)
	headers := testutil.AccountHeaders(from, key)

	tests := []struct {
		name       string
		body       models.TransferCreditsRequest
		wantStatus int
	}{
		{"valid", models.TransferCreditsRequest{To: to, Amount: 40}, http.StatusOK},
		{"zero amount", models.TransferCreditsRequest{To: to, Amount: 0}, http.StatusBadRequest},
		{"too much", models.TransferCreditsRequest{To: to, Amount: 61}, http.StatusPaymentRequired},
		{"bad recipient", models.TransferCreditsRequest{To: "alice", Amount: 1}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(h.Transfer, testutil.MakeRequest("POST", "/credits/transfer", tt.body, headers))
			testutil.AssertStatus(t, w, tt.wantStatus)
		})
	}

	if got := testutil.Balance(t, env, from); got != 60 {
		t.Errorf("expected sender balance 60, got %d", got)
	}
	if got := testutil.Balance(t, env, to); got != 40 {
		t.Errorf("expected recipient balance 40, got %d", got)
	}
}

func TestCreditAmountsPastLedgerLimit(t *testing.T) {
	env := testutil.NewEnv(t)
	h := NewCreditHandler(env.DB, env.Config, env.Ledger, env.Exchange)
	from, key := testutil.CreateTestAccount(t, env, 100)
	to, _ := testutil.CreateTestAccount(t, env, 0)
	headers := testutil.AccountHeaders(from, key)
	huge := uint64(1)<<63 + 5

	tests := []struct {
		name    string
		handler http.HandlerFunc
		path    string
		body    interface{}
	}{
		{"transfer", h.Transfer, "/credits/transfer", models.TransferCreditsRequest{To: to, Amount: huge}},
		{"redeem", h.Redeem, "/credits/redeem", models.RedeemCreditsRequest{Credits: huge}},
		// 1e19 credit
		{"purchase", h.Purchase, "/credits/purchase", models.PurchaseCreditsRequest{Wei: "100000000000000000000000000000000000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(tt.handler, testutil.MakeRequest("POST", tt.path, tt.body, headers))
			testutil.AssertStatus(t, w, http.StatusBadRequest)
		})
	}

	if got := testutil.Balance(t, env, from); got != 100 {
		t.Errorf("expected sender balance 100, got %d", got)
	}
	if got := testutil.Balance(t, env, to); got != 0 {
		t.Errorf("expected recipient balance 0, got %d", got)
	}
}
