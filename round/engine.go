// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package round

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-vote/events"
	"github.com/danielhkuo/quickly-vote/ledger"
	"github.com/danielhkuo/quickly-vote/models"
)

// Engine runs the round state machine. Every method holds one mutex for its
// whole duration, ledger calls included, so each call applies fully or not at all.
type Engine struct {
	mu     sync.Mutex
	cfg    Config
	ledger ledger.Ledger
	sink   events.Sink
	clock  clock.Clock
	logger *slog.Logger
	round  *Round
}

type Option func(*Engine)

func WithClock(c clock.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

func WithSink(s events.Sink) Option {
	return func(e *Engine) { e.sink = s }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithRound makes the engine drive an existing round instead of a fresh one.
func WithRound(r *Round) Option {
	return func(e *Engine) { e.round = r }
}

func NewEngine(l ledger.Ledger, cfg Config, opts ...Option) (*Engine, error) {
	if l == nil {
		return nil, errors.New("ledger is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid round config: %w", err)
	}

	e := &Engine{
		cfg:    cfg,
		ledger: l,
		sink:   events.Discard{},
		clock:  clock.New(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.sink == nil {
		e.sink = events.Discard{}
	}
	if e.clock == nil {
		e.clock = clock.New()
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.round == nil {
		e.round = NewRound()
	}
	return e, nil
}

func (e *Engine) Config() Config {
	return e.cfg
}

// Now reads the engine's clock.
func (e *Engine) Now() time.Time {
	return e.clock.Now()
}

// MaybeExpireRound settles the active round if it has run for the configured
// duration. It reports whether a settlement happened.
func (e *Engine) MaybeExpireRound(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.maybeExpire(ctx, e.round)
}

func (e *Engine) maybeExpire(ctx context.Context, r *Round) (bool, error) {
	if !r.expired(e.clock.Now(), e.cfg.Duration) {
		return false, nil
	}
	if _, err := e.settle(ctx, r, true); err != nil {
		return false, err
	}
	return true, nil
}

// Registration is a registered project together with the round it entered,
// as seen before Register released the engine.
type Registration struct {
	models.Project
	RoundNumber uint64
	Status      string
}

// Register enters a project for owner into the current round, holding the
// deposit. The registration that reaches quorum starts voting.
func (e *Engine) Register(ctx context.Context, owner, title string) (Registration, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	r := e.round
	if _, err := e.maybeExpire(ctx, r); err != nil {
		return Registration{}, err
	}

	owner = strings.TrimSpace(owner)
	title = strings.TrimSpace(title)
	if owner == "" {
		return Registration{}, ErrInvalidAccount
	}
	if r.Status == models.StatusVoting {
		return Registration{}, ErrRoundInProgress
	}
	if _, ok := r.Projects.ProjectOf(owner); ok {
		return Registration{}, ErrDuplicateRegistration
	}
	if title == "" {
		return Registration{}, ErrInvalidTitle
	}

	balance, err := e.ledger.BalanceOf(ctx, owner)
	if err != nil {
		return Registration{}, fmt.Errorf("failed to read balance: %w", err)
	}
	if balance < e.cfg.Deposit {
		return Registration{}, ErrInsufficientDeposit
	}
	if err := e.ledger.Debit(ctx, owner, e.cfg.Deposit, fmt.Sprintf("round %d deposit", r.Number)); err != nil {
		if errors.Is(err, ledger.ErrInsufficientBalance) {
			return Registration{}, ErrInsufficientDeposit
		}
		return Registration{}, fmt.Errorf("failed to take deposit: %w", err)
	}

	now := e.clock.Now()
	p, err := r.Projects.Add(owner, title, e.cfg.Deposit, now)
	if err != nil {
		// unreachable after the ProjectOf check, but never keep a deposit without a project
		if cerr := e.ledger.Credit(ctx, owner, e.cfg.Deposit, "deposit returned"); cerr != nil {
			e.logger.Error("failed to return deposit", "owner", owner, "error", cerr)
		}
		return Registration{}, err
	}
	r.Held += p.Deposit

	e.logger.Info("project registered", "round", r.Number, "project_id", p.ID, "owner", owner)
	e.emit(ctx, events.ProjectRegistered{
		RoundNumber:  r.Number,
		Owner:        owner,
		ProjectID:    p.ID,
		Title:        p.Title,
		Deposit:      p.Deposit,
		RegisteredAt: p.RegisteredAt,
	})

	if r.Projects.Count() >= e.cfg.Quorum {
		r.Status = models.StatusVoting
		r.StartedAt = now
		e.logger.Info("voting started", "round", r.Number, "projects", r.Projects.Count())
		e.emit(ctx, events.RoundStarted{RoundNumber: r.Number, StartedAt: now.Unix(), ProjectCount: r.Projects.Count()})
	}

	return Registration{Project: p, RoundNumber: r.Number, Status: r.Status}, nil
}

// Vote stakes amount of voter's credit on projectID and returns the project's new total.
func (e *Engine) Vote(ctx context.Context, voter string, projectID, amount uint64) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	r := e.round
	if _, err := e.maybeExpire(ctx, r); err != nil {
		return 0, err
	}

	voter = strings.TrimSpace(voter)
	if voter == "" {
		return 0, ErrInvalidAccount
	}
	if r.Status != models.StatusVoting {
		return 0, ErrVotingNotStarted
	}
	if amount == 0 {
		return 0, ErrInvalidAmount
	}
	p, ok := r.Projects.Get(projectID)
	if !ok {
		return 0, ErrInvalidProject
	}
	if p.Owner == voter {
		return 0, ErrSelfVote
	}
	if r.hasVoted(voter) {
		return 0, ErrDuplicateVote
	}

	balance, err := e.ledger.BalanceOf(ctx, voter)
	if err != nil {
		return 0, fmt.Errorf("failed to read balance: %w", err)
	}
	if balance < amount {
		return 0, ErrInsufficientBalance
	}
	if err := e.ledger.Debit(ctx, voter, amount, fmt.Sprintf("round %d vote for project %d", r.Number, projectID)); err != nil {
		if errors.Is(err, ledger.ErrInsufficientBalance) {
			return 0, ErrInsufficientBalance
		}
		return 0, fmt.Errorf("failed to take stake: %w", err)
	}

	total := r.recordVote(voter, projectID, amount)

	e.logger.Info("vote cast", "round", r.Number, "project_id", projectID, "voter", voter, "amount", amount)
	e.emit(ctx, events.VoteCast{RoundNumber: r.Number, Voter: voter, ProjectID: projectID, Amount: amount})

	return total, nil
}

// Settle closes the active round. A round that has already expired is
// settled here as well and marked as expired.
func (e *Engine) Settle(ctx context.Context) (models.Settlement, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	r := e.round
	if r.Status != models.StatusVoting {
		return models.Settlement{}, ErrRoundNotActive
	}
	return e.settle(ctx, r, r.expired(e.clock.Now(), e.cfg.Duration))
}

func (e *Engine) settle(ctx context.Context, r *Round, expired bool) (models.Settlement, error) {
	st := computeSettlement(r, e.cfg)
	st.ID = uuid.NewString()
	st.Expired = expired
	st.SettledAt = e.clock.Now()

	// One batch so a partially paid round is never visible
	if err := e.ledger.CreditBatch(ctx, postings(st, e.cfg.Treasury)); err != nil {
		return models.Settlement{}, fmt.Errorf("failed to apply settlement: %w", err)
	}

	r.advance()

	e.logger.Info("round settled",
		"round", st.RoundNumber,
		"outcome", st.Outcome,
		"winner", st.WinnerID,
		"collected", st.Collected,
		"retained", st.Retained,
		"expired", expired,
	)

	for _, p := range st.Payouts {
		if p.Reason == models.ReasonDepositRefund {
			e.emit(ctx, events.DepositRefunded{RoundNumber: st.RoundNumber, Owner: p.Account, ProjectID: p.ProjectID, Amount: p.Amount})
		}
	}

	switch st.Outcome {
	case models.OutcomeWin:
		var owner string
		var weight uint64
		for _, t := range st.Tallies {
			if t.ProjectID == st.WinnerID {
				owner, weight = t.Owner, t.Weight
			}
		}
		e.emit(ctx, events.RoundWon{RoundNumber: st.RoundNumber, ProjectID: st.WinnerID, Owner: owner, Weight: weight})
	case models.OutcomeDraw:
		e.emit(ctx, events.RoundDrawn{RoundNumber: st.RoundNumber, ProjectID1: st.TiedIDs[0], ProjectID2: st.TiedIDs[1]})
	case models.OutcomeVoid:
		e.emit(ctx, events.RoundVoided{RoundNumber: st.RoundNumber, TiedIDs: st.TiedIDs})
	}
	e.emit(ctx, events.RoundEnded{Settlement: st})

	return st, nil
}

func (e *Engine) emit(ctx context.Context, ev events.Event) {
	if err := e.sink.Emit(ctx, ev); err != nil {
		e.logger.Warn("failed to deliver event", "kind", ev.Kind(), "error", err)
	}
}

// Queries

// Info describes the current round.
type Info struct {
	Number       uint64
	Status       string
	StartedAt    time.Time
	EndsAt       time.Time
	Expired      bool
	ProjectCount int
	VoterCount   int
}

func (e *Engine) Info() Info {
	e.mu.Lock()
	defer e.mu.Unlock()

	r := e.round
	info := Info{
		Number:       r.Number,
		Status:       r.Status,
		ProjectCount: r.Projects.Count(),
		VoterCount:   len(r.votes),
	}
	if r.Status == models.StatusVoting {
		info.StartedAt = r.StartedAt
		info.EndsAt = r.StartedAt.Add(e.cfg.Duration)
		info.Expired = r.expired(e.clock.Now(), e.cfg.Duration)
	}
	return info
}

func (e *Engine) Status() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.round.Status
}

func (e *Engine) ProjectTitle(id uint64) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	title, err := e.round.Projects.Title(id)
	if err != nil {
		return "", ErrInvalidProject
	}
	return title, nil
}

func (e *Engine) ProjectCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.round.Projects.Count()
}

func (e *Engine) Project(id uint64) (models.ProjectWithVotes, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.round.Projects.Get(id)
	if !ok {
		return models.ProjectWithVotes{}, ErrInvalidProject
	}
	return models.ProjectWithVotes{
		Project:    p,
		Weight:     e.round.weights[id],
		VoterCount: len(e.round.voters[id]),
	}, nil
}

func (e *Engine) Projects() []models.ProjectWithVotes {
	e.mu.Lock()
	defer e.mu.Unlock()
	all := e.round.Projects.All()
	out := make([]models.ProjectWithVotes, len(all))
	for i, p := range all {
		out[i] = models.ProjectWithVotes{
			Project:    p,
			Weight:     e.round.weights[p.ID],
			VoterCount: len(e.round.voters[p.ID]),
		}
	}
	return out
}

func (e *Engine) VotesFor(id uint64) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.round.Projects.Get(id); !ok {
		return 0, ErrInvalidProject
	}
	return e.round.weights[id], nil
}

// Voters lists everyone who voted this round, in voting order.
func (e *Engine) Voters() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.round.votes))
	for i, v := range e.round.votes {
		out[i] = v.voter
	}
	return out
}

func (e *Engine) VoterCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.round.votes)
}

func (e *Engine) HasVoted(voter string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.round.hasVoted(voter)
}

func (e *Engine) ProjectOf(owner string) (uint64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.round.Projects.ProjectOf(owner)
}
