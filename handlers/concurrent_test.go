// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/testutil"
)

func totalCredit(t *testing.T, env *testutil.Env) int64 {
	t.Helper()
	var total int64
	if err := env.DB.QueryRow("SELECT COALESCE(SUM(balance), 0) FROM account").Scan(&total); err != nil {
		t.Fatalf("Failed to sum balances: %v", err)
	}
	return total
}

// TestConcurrentVotes verifies that simultaneous votes from different
// accounts are all counted and no credit is lost
func TestConcurrentVotes(t *testing.T) {
	env := testutil.NewEnv(t)
	h := NewVotingHandler(env.DB, env.Config, env.Engine)
	startTestRound(t, env)

	numVoters := 10
	voters := make([]testAccount, numVoters)
	for i := range voters {
		address, key := testutil.CreateTestAccount(t, env, 100)
		voters[i] = testAccount{address: address, key: key}
	}
	before := totalCredit(t, env)

	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numVoters; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			projectID := strconv.Itoa(idx%3 + 1)
			w := castVote(h, voters[idx], projectID, uint64(10+idx))
			if w.Code == http.StatusCreated {
				successCount.Add(1)
			}
		}(i)
	}

	wg.Wait()

	if int(successCount.Load()) != numVoters {
		t.Errorf("Expected %d successful votes, got %d", numVoters, successCount.Load())
	}
	if env.Engine.VoterCount() != numVoters {
		t.Errorf("Expected %d voters, got %d", numVoters, env.Engine.VoterCount())
	}

	var weight uint64
	for _, p := range env.Engine.Projects() {
		weight += p.Weight
	}
	// 10 + 11 + ... + 19
	if weight != 145 {
		t.Errorf("Expected total weight 145, got %d", weight)
	}
	if after := totalCredit(t, env); before-after != 145 {
		t.Errorf("Expected 145 credit in escrow, balances moved by %d", before-after)
	}
}

// TestConcurrentDuplicateVotes verifies that one account voting from several
// goroutines is counted exactly once
func TestConcurrentDuplicateVotes(t *testing.T) {
	env := testutil.NewEnv(t)
	h := NewVotingHandler(env.DB, env.Config, env.Engine)
	startTestRound(t, env)

	address, key := testutil.CreateTestAccount(t, env, 100)
	voter := testAccount{address: address, key: key}

	var successCount, conflictCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := castVote(h, voter, "1", 20)
			switch w.Code {
			case http.StatusCreated:
				successCount.Add(1)
			case http.StatusConflict:
				conflictCount.Add(1)
			}
		}()
	}

	wg.Wait()

	if successCount.Load() != 1 {
		t.Errorf("Expected exactly 1 successful vote, got %d", successCount.Load())
	}
	if conflictCount.Load() != 4 {
		t.Errorf("Expected 4 conflicts, got %d", conflictCount.Load())
	}
	if got := testutil.Balance(t, env, address); got != 80 {
		t.Errorf("Expected one stake taken, balance %d", got)
	}
}

// TestConcurrentSettle verifies that only one of several simultaneous
// settlement requests pays out
func TestConcurrentSettle(t *testing.T) {
	env := testutil.NewEnv(t)
	h := NewRoundHandler(env.DB, env.Config, env.Engine)
	owners := startTestRound(t, env)
	if _, err := env.Engine.Vote(t.Context(), owners[0].address, 2, 50); err != nil {
		t.Fatal(err)
	}
	before := totalCredit(t, env)

	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := serve(h.Settle, testutil.MakeRequest("POST", "/round/settle", nil, operatorHeaders(testutil.TestOperatorKey)))
			if w.Code == http.StatusOK {
				successCount.Add(1)
			}
		}()
	}

	wg.Wait()

	if successCount.Load() != 1 {
		t.Errorf("Expected exactly 1 settlement, got %d", successCount.Load())
	}

	// deposits 300 and the stake of 50 were in escrow
	if after := totalCredit(t, env); after-before != 350 {
		t.Errorf("Expected 350 credit released, got %d", after-before)
	}

	var archived int
	if err := env.DB.QueryRow("SELECT COUNT(*) FROM round_result").Scan(&archived); err != nil {
		t.Fatal(err)
	}
	if archived != 1 {
		t.Errorf("Expected 1 archived result, got %d", archived)
	}
}

// TestConcurrentRegistrations verifies that no more than quorum projects get
// in when many owners register at once
func TestConcurrentRegistrations(t *testing.T) {
	env := testutil.NewEnv(t)
	h := NewProjectHandler(env.DB, env.Config, env.Engine)

	numOwners := 6
	owners := make([]testAccount, numOwners)
	for i := range owners {
		address, key := testutil.CreateTestAccount(t, env, 300)
		owners[i] = testAccount{address: address, key: key}
	}

	var successCount, conflictCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numOwners; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			body := models.RegisterProjectRequest{Title: "project " + strconv.Itoa(idx)}
			w := serve(h.RegisterProject, testutil.MakeRequest("POST", "/projects", body, owners[idx].headers()))
			switch w.Code {
			case http.StatusCreated:
				successCount.Add(1)
			case http.StatusConflict:
				conflictCount.Add(1)
			}
		}(i)
	}

	wg.Wait()

	if successCount.Load() != 3 {
		t.Errorf("Expected 3 registrations, got %d", successCount.Load())
	}
	if conflictCount.Load() != 3 {
		t.Errorf("Expected 3 rejected registrations, got %d", conflictCount.Load())
	}
	if env.Engine.Status() != models.StatusVoting {
		t.Errorf("Expected voting, got %s", env.Engine.Status())
	}

	var deposits uint64
	for _, o := range owners {
		deposits += 300 - testutil.Balance(t, env, o.address)
	}
	if deposits != 300 {
		t.Errorf("Expected 300 credit in deposits, got %d", deposits)
	}
}
