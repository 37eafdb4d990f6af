// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/testutil"
)

type testAccount struct {
	address string
	key     string
}

func (a testAccount) headers() map[string]string {
	return testutil.AccountHeaders(a.address, a.key)
}

// startTestRound funds three owners with 300 credit each and registers their projects
func startTestRound(t *testing.T, env *testutil.Env) []testAccount {
	t.Helper()
	owners := make([]testAccount, 3)
	for i := range owners {
		address, key := testutil.CreateTestAccount(t, env, 300)
		owners[i] = testAccount{address: address, key: key}
		if _, err := env.Engine.Register(t.Context(), address, "p"+string(rune('1'+i))); err != nil {
			t.Fatalf("Failed to register project: %v", err)
		}
	}
	if env.Engine.Status() != models.StatusVoting {
		t.Fatal("expected voting to start at quorum")
	}
	return owners
}

func castVote(h *VotingHandler, a testAccount, projectID string, amount uint64) *httptest.ResponseRecorder {
	req := testutil.MakeRequest("POST", "/projects/"+projectID+"/votes", models.CastVoteRequest{Amount: amount}, a.headers())
	req.SetPathValue("id", projectID)
	return serve(h.CastVote, req)
}

func TestCastVote(t *testing.T) {
	env := testutil.NewEnv(t)
	h := NewVotingHandler(env.DB, env.Config, env.Engine)
	owners := startTestRound(t, env)

	address, key := testutil.CreateTestAccount(t, env, 40)
	outsider := testAccount{address: address, key: key}

	tests := []struct {
		name       string
		voter      testAccount
		projectID  string
		amount     uint64
		wantStatus int
	}{
		{"own project", owners[0], "1", 50, http.StatusConflict},
		{"unknown project", owners[0], "9", 50, http.StatusNotFound},
		{"bad project id", owners[0], "x", 50, http.StatusBadRequest},
		{"zero amount", owners[0], "2", 0, http.StatusBadRequest},
		{"more than balance", outsider, "2", 41, http.StatusPaymentRequired},
		{"valid", owners[0], "2", 50, http.StatusCreated},
		{"second vote", owners[0], "3", 10, http.StatusConflict},
		{"outsider", outsider, "2", 40, http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := castVote(h, tt.voter, tt.projectID, tt.amount)
			testutil.AssertStatus(t, w, tt.wantStatus)
		})
	}

	total, err := env.Engine.VotesFor(2)
	if err != nil {
		t.Fatal(err)
	}
	if total != 90 {
		t.Errorf("expected 90 on project 2, got %d", total)
	}
	if got := testutil.Balance(t, env, owners[0].address); got != 150 {
		t.Errorf("expected 150 left after deposit and stake, got %d", got)
	}
}

func TestCastVoteResponse(t *testing.T) {
	env := testutil.NewEnv(t)
	h := NewVotingHandler(env.DB, env.Config, env.Engine)
	owners := startTestRound(t, env)

	w := castVote(h, owners[1], "3", 60)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.CastVoteResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.ProjectID != 3 || resp.Amount != 60 || resp.Total != 60 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestCastVoteBeforeVoting(t *testing.T) {
	env := testutil.NewEnv(t)
	h := NewVotingHandler(env.DB, env.Config, env.Engine)
	address, key := testutil.CreateTestAccount(t, env, 300)

	w := castVote(h, testAccount{address, key}, "1", 50)
	testutil.AssertStatus(t, w, http.StatusConflict)
}

func TestCastVoteUnauthenticated(t *testing.T) {
	env := testutil.NewEnv(t)
	h := NewVotingHandler(env.DB, env.Config, env.Engine)
	startTestRound(t, env)

	req := testutil.MakeRequest("POST", "/projects/1/votes", models.CastVoteRequest{Amount: 5}, nil)
	req.SetPathValue("id", "1")
	w := serve(h.CastVote, req)
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}
