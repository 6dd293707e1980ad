package matchup

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rewired-gh/sideline/internal/league"
	"github.com/rewired-gh/sideline/internal/logger"
	"github.com/rewired-gh/sideline/internal/models"
	"github.com/rewired-gh/sideline/internal/viewmodel"
)

// Backend is the part of the Sideline API a market page needs.
type Backend interface {
	FetchMarket(ctx context.Context, id string) (*models.Market, error)
	FetchRoster(ctx context.Context, leagueKey, team string) ([]models.Athlete, error)
	FetchPlayerStatsVs(ctx context.Context, leagueKey, athleteID, opponent string) (models.PlayerStats, error)
}

// Phase is the coarse progress of a session.
type Phase string

const (
	PhaseMarket  Phase = "loading_market"
	PhaseRosters Phase = "loading_rosters"
	PhaseStats   Phase = "loading_stats"
	PhaseReady   Phase = "ready"
	PhaseFailed  Phase = "failed"
)

// User-visible failure messages.
const (
	MsgNoMarketID    = "No market ID provided"
	MsgMarketFailed  = "Could not load market details"
	MsgRostersFailed = "Could not load team rosters"
)

// LoadError is a failure that ends a session. Message is fit for display.
type LoadError struct {
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Snapshot is the state of a session at one point in time. Snapshots are
// values; later transitions never modify one already handed out.
type Snapshot struct {
	SessionID string
	Phase     Phase
	Market    *models.Market
	League    string
	TeamA     string
	TeamB     string
	RosterA   []models.Athlete
	RosterB   []models.Athlete
	Stats     StatsBoard
	Error     string
}

// Session loads one market page.
type Session struct {
	id          string
	backend     Backend
	marketID    string
	market      *models.Market
	league      string
	concurrency int
	observer    func(Snapshot)
	log         *zap.SugaredLogger

	mu   sync.Mutex
	snap Snapshot
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithMarket supplies the market up front so it is not fetched.
func WithMarket(m *models.Market) SessionOption {
	return func(s *Session) { s.market = m }
}

// WithDefaultLeague is used when the market slug names no supported league.
func WithDefaultLeague(leagueKey string) SessionOption {
	return func(s *Session) { s.league = leagueKey }
}

// WithConcurrency bounds the number of stats requests in flight.
func WithConcurrency(n int) SessionOption {
	return func(s *Session) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithObserver is called with every new snapshot, in order. It runs while
// the session lock is held and must not call back into the session.
func WithObserver(fn func(Snapshot)) SessionOption {
	return func(s *Session) { s.observer = fn }
}

// NewSession creates a session for marketID.
func NewSession(backend Backend, marketID string, opts ...SessionOption) *Session {
	s := &Session{
		id:          uuid.New().String(),
		backend:     backend,
		marketID:    marketID,
		concurrency: 8,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = logger.With("session", s.id)
	s.snap = Snapshot{SessionID: s.id, Phase: PhaseMarket, Stats: NewStatsBoard()}
	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// apply runs fn against a copy of the current snapshot and publishes the
// result. After ctx is done it does nothing.
func (s *Session) apply(ctx context.Context, fn func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ctx.Err() != nil {
		return
	}
	next := s.snap
	fn(&next)
	s.snap = next
	if s.observer != nil {
		s.observer(next)
	}
}

func (s *Session) fail(ctx context.Context, msg string, err error) (Snapshot, error) {
	s.log.Warnf("%s: %v", msg, err)
	s.apply(ctx, func(snap *Snapshot) {
		snap.Phase = PhaseFailed
		snap.Error = msg
	})
	return s.Snapshot(), &LoadError{Message: msg, Err: err}
}

// Load runs the page to completion: market, then both rosters, then every
// player's stats against the other team. Per-player failures stay in the
// stats board; only market and roster failures end the session with an error.
func (s *Session) Load(ctx context.Context) (Snapshot, error) {
	m := s.market
	if m == nil {
		if s.marketID == "" {
			return s.fail(ctx, MsgNoMarketID, nil)
		}
		fetched, err := s.backend.FetchMarket(ctx, s.marketID)
		if err != nil {
			return s.fail(ctx, MsgMarketFailed, err)
		}
		m = fetched
	}

	leagueKey := league.FromSlug(m.Slug, s.league)
	teamA, teamB, ok := viewmodel.SplitTeams(m.DisplayQuestion())
	s.apply(ctx, func(snap *Snapshot) {
		snap.Phase = PhaseRosters
		snap.Market = m
		snap.League = leagueKey
		snap.TeamA, snap.TeamB = teamA, teamB
	})
	if !ok {
		return s.fail(ctx, MsgRostersFailed, fmt.Errorf("question %q is not a head-to-head matchup", m.DisplayQuestion()))
	}

	var rosterA, rosterB []models.Athlete
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rosterA, err = s.backend.FetchRoster(gctx, leagueKey, teamA)
		return err
	})
	g.Go(func() error {
		var err error
		rosterB, err = s.backend.FetchRoster(gctx, leagueKey, teamB)
		return err
	})
	if err := g.Wait(); err != nil {
		return s.fail(ctx, MsgRostersFailed, err)
	}
	rosterA, rosterB = validAthletes(rosterA, s.log), validAthletes(rosterB, s.log)

	type job struct{ athleteID, opponent string }
	var jobs []job
	supported := league.Lookup(leagueKey).StatsSupported
	if supported {
		for _, a := range rosterA {
			jobs = append(jobs, job{a.ID, teamB})
		}
		for _, a := range rosterB {
			jobs = append(jobs, job{a.ID, teamA})
		}
	}

	ids := make([]string, len(jobs))
	for i, j := range jobs {
		ids[i] = j.athleteID
	}
	s.apply(ctx, func(snap *Snapshot) {
		snap.Phase = PhaseStats
		snap.RosterA, snap.RosterB = rosterA, rosterB
		snap.Stats = NewStatsBoard(ids...)
	})
	s.log.Infof("Loaded rosters for %s vs. %s (%d + %d players, league %s)",
		teamA, teamB, len(rosterA), len(rosterB), leagueKey)

	p := pool.New().WithMaxGoroutines(s.concurrency)
	for _, j := range jobs {
		j := j
		p.Go(func() {
			stats, err := s.backend.FetchPlayerStatsVs(ctx, leagueKey, j.athleteID, j.opponent)
			if err != nil {
				s.log.Debugf("Stats for %s vs %s failed: %v", j.athleteID, j.opponent, err)
			}
			s.apply(ctx, func(snap *Snapshot) {
				if err != nil {
					snap.Stats = snap.Stats.With(j.athleteID, Failed[models.PlayerStats](err))
					return
				}
				snap.Stats = snap.Stats.With(j.athleteID, Loaded(stats))
			})
		})
	}
	p.Wait()

	s.apply(ctx, func(snap *Snapshot) { snap.Phase = PhaseReady })
	if err := ctx.Err(); err != nil {
		return s.Snapshot(), err
	}
	return s.Snapshot(), nil
}

// validAthletes drops roster entries that cannot be keyed or labelled.
func validAthletes(roster []models.Athlete, log *zap.SugaredLogger) []models.Athlete {
	out := make([]models.Athlete, 0, len(roster))
	for _, a := range roster {
		if err := a.Validate(); err != nil {
			log.Debugf("Skipping roster entry: %v", err)
			continue
		}
		out = append(out, a)
	}
	return out
}
