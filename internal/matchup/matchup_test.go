package matchup

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rewired-gh/sideline/internal/models"
	"github.com/rewired-gh/sideline/internal/viewmodel"
)

type fakeBackend struct {
	mu          sync.Mutex
	market      *models.Market
	marketErr   error
	rosters     map[string][]models.Athlete
	rosterErr   error
	stats       map[string]models.PlayerStats
	statsErr    map[string]error
	statsCalls  []string
	marketCalls int

	splitsErr error
	formErr   error
}

func (f *fakeBackend) FetchMarket(ctx context.Context, id string) (*models.Market, error) {
	f.mu.Lock()
	f.marketCalls++
	f.mu.Unlock()
	if f.marketErr != nil {
		return nil, f.marketErr
	}
	return f.market, nil
}

func (f *fakeBackend) FetchRoster(ctx context.Context, leagueKey, team string) ([]models.Athlete, error) {
	if f.rosterErr != nil {
		return nil, f.rosterErr
	}
	return f.rosters[team], nil
}

func (f *fakeBackend) FetchPlayerStatsVs(ctx context.Context, leagueKey, athleteID, opponent string) (models.PlayerStats, error) {
	f.mu.Lock()
	f.statsCalls = append(f.statsCalls, athleteID+"@"+opponent)
	f.mu.Unlock()
	if err := f.statsErr[athleteID]; err != nil {
		return nil, err
	}
	if s, ok := f.stats[athleteID]; ok {
		return s, nil
	}
	return models.NoData{}, nil
}

func (f *fakeBackend) FetchLocationSplits(ctx context.Context, leagueKey, team, season string) (*models.TeamLocationSplits, error) {
	if f.splitsErr != nil {
		return nil, f.splitsErr
	}
	return &models.TeamLocationSplits{
		TeamName: team,
		Season:   "2024-25",
		Home:     &models.LocationSplit{Games: 10, Wins: 7, Losses: 3},
	}, nil
}

func (f *fakeBackend) FetchRecentForm(ctx context.Context, leagueKey, team, season string, gamesBack int) (*models.TeamRecentForm, error) {
	if f.formErr != nil {
		return nil, f.formErr
	}
	return &models.TeamRecentForm{
		TeamName:   team,
		Season:     "2024-25",
		RecentForm: &models.RecentForm{GamesBack: gamesBack, Wins: 6, Losses: 4, StreakType: "W", StreakCount: 3},
	}, nil
}

func fptr(f float64) *float64 { return &f }

func athlete(id, first, last string) models.Athlete {
	return models.Athlete{ID: id, FirstName: first, LastName: last, FullName: first + " " + last}
}

func nbaBackend() *fakeBackend {
	return &fakeBackend{
		market: &models.Market{ID: "42", Question: "Lakers vs. Celtics", Slug: "nba-lal-bos-2025-01-15"},
		rosters: map[string][]models.Athlete{
			"Lakers":  {athlete("1", "Austin", "Reaves"), athlete("2", "LeBron", "James"), {ID: "", FullName: "Nobody"}},
			"Celtics": {athlete("3", "Jayson", "Tatum"), athlete("4", "Jaylen", "Brown")},
		},
		stats: map[string]models.PlayerStats{
			"1": models.BasketballStats{GamesPlayed: 3, AvgPoints: fptr(15)},
			"2": models.BasketballStats{GamesPlayed: 5, AvgPoints: fptr(27)},
			"3": models.BasketballStats{GamesPlayed: 0},
		},
		statsErr: map[string]error{"4": errors.New("boom")},
	}
}

func TestSessionLoad(t *testing.T) {
	backend := nbaBackend()

	var snapshots []Snapshot
	s := NewSession(backend, "42", WithConcurrency(2), WithObserver(func(snap Snapshot) {
		snapshots = append(snapshots, snap)
	}))

	snap, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if snap.Phase != PhaseReady || snap.League != "nba" {
		t.Errorf("Unexpected final state: phase=%s league=%s", snap.Phase, snap.League)
	}
	if snap.TeamA != "Lakers" || snap.TeamB != "Celtics" {
		t.Errorf("Unexpected teams: %q vs %q", snap.TeamA, snap.TeamB)
	}
	if len(snap.RosterA) != 2 {
		t.Errorf("Expected invalid roster entry to be dropped, got %d players", len(snap.RosterA))
	}
	if snap.Stats.Len() != 4 || snap.Stats.Pending() != 0 {
		t.Errorf("Expected 4 resolved entries, got len=%d pending=%d", snap.Stats.Len(), snap.Stats.Pending())
	}
	if r, _ := snap.Stats.Get("4"); r.State != StateFailed {
		t.Errorf("Expected player 4 to fail, got %s", r.State)
	}
	if r, _ := snap.Stats.Get("2"); r.State != StateLoaded || r.Value.Games() != 5 {
		t.Errorf("Unexpected player 2 result: %+v", r)
	}

	// rosters, stats start, 4 stat results, ready
	if len(snapshots) != 7 {
		t.Fatalf("Expected 7 snapshots, got %d", len(snapshots))
	}
	if snapshots[0].Phase != PhaseRosters || snapshots[0].Market == nil {
		t.Errorf("Unexpected first snapshot: %+v", snapshots[0])
	}
	if first := snapshots[1]; first.Stats.Pending() != 4 {
		t.Errorf("Expected every player loading before fan-out, got %d pending", first.Stats.Pending())
	}
	for i := 2; i < 6; i++ {
		if got, want := snapshots[i].Stats.Pending(), 5-i; got != want {
			t.Errorf("snapshot %d pending = %d, want %d", i, got, want)
		}
	}

	backend.mu.Lock()
	defer backend.mu.Unlock()
	want := map[string]bool{"1@Celtics": true, "2@Celtics": true, "3@Lakers": true, "4@Lakers": true}
	for _, call := range backend.statsCalls {
		if !want[call] {
			t.Errorf("Unexpected stats call %s", call)
		}
	}
}

func TestSessionFailures(t *testing.T) {
	tests := []struct {
		name     string
		marketID string
		backend  func() *fakeBackend
		wantMsg  string
	}{
		{
			name:     "no market id",
			marketID: "",
			backend:  nbaBackend,
			wantMsg:  MsgNoMarketID,
		},
		{
			name:     "market fetch fails",
			marketID: "42",
			backend: func() *fakeBackend {
				b := nbaBackend()
				b.marketErr = errors.New("down")
				return b
			},
			wantMsg: MsgMarketFailed,
		},
		{
			name:     "roster fetch fails",
			marketID: "42",
			backend: func() *fakeBackend {
				b := nbaBackend()
				b.rosterErr = errors.New("down")
				return b
			},
			wantMsg: MsgRostersFailed,
		},
		{
			name:     "not a head-to-head market",
			marketID: "42",
			backend: func() *fakeBackend {
				b := nbaBackend()
				b.market.Question = "Will LeBron James win MVP?"
				return b
			},
			wantMsg: MsgRostersFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := NewSession(tt.backend(), tt.marketID).Load(context.Background())
			var le *LoadError
			if !errors.As(err, &le) || le.Message != tt.wantMsg {
				t.Fatalf("Expected %q, got %v", tt.wantMsg, err)
			}
			if snap.Phase != PhaseFailed || snap.Error != tt.wantMsg {
				t.Errorf("Unexpected snapshot: phase=%s error=%q", snap.Phase, snap.Error)
			}
		})
	}
}

func TestSessionPreSuppliedMarket(t *testing.T) {
	backend := nbaBackend()
	m := *backend.market
	backend.marketErr = errors.New("must not be called")

	snap, err := NewSession(backend, "", WithMarket(&m)).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if backend.marketCalls != 0 {
		t.Errorf("Expected no market fetch, got %d", backend.marketCalls)
	}
	if snap.Market == nil || snap.Market.ID != "42" {
		t.Errorf("Unexpected market: %+v", snap.Market)
	}
}

func TestSessionUnsupportedLeague(t *testing.T) {
	backend := nbaBackend()
	backend.market.Slug = "mlb-nyy-bos-2025-04-01"

	snap, err := NewSession(backend, "42", WithDefaultLeague("MLB")).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if snap.League != "mlb" || snap.Stats.Len() != 0 || len(backend.statsCalls) != 0 {
		t.Errorf("Expected no stats fetches for mlb, got league=%s calls=%v", snap.League, backend.statsCalls)
	}

	view := BuildView(snap, time.Now())
	if got := view.Teams[0].Players[0].Stats.Kind; got != viewmodel.StatLineUnsupported {
		t.Errorf("Expected unsupported stat line, got %s", got)
	}
}

func TestSessionCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int
	s := NewSession(nbaBackend(), "42", WithObserver(func(Snapshot) { calls++ }))
	snap, _ := s.Load(ctx)

	if calls != 0 {
		t.Errorf("Expected no published snapshots after cancellation, got %d", calls)
	}
	if snap.Phase != PhaseMarket || snap.Market != nil {
		t.Errorf("Expected untouched state, got phase=%s", snap.Phase)
	}
}

func TestStatsBoardImmutable(t *testing.T) {
	a := NewStatsBoard("1", "2")
	b := a.With("1", Loaded[models.PlayerStats](models.NoData{GamesPlayed: 2}))

	if r, _ := a.Get("1"); r.State != StateLoading {
		t.Errorf("Original board changed: %s", r.State)
	}
	if r, _ := b.Get("1"); r.State != StateLoaded {
		t.Errorf("Expected loaded, got %s", r.State)
	}
	if a.Pending() != 2 || b.Pending() != 1 {
		t.Errorf("Unexpected pending counts %d, %d", a.Pending(), b.Pending())
	}
	if got := b.LoadedStats(); len(got) != 1 || got["1"].Games() != 2 {
		t.Errorf("Unexpected loaded stats: %v", got)
	}
	if !Failed[int](errors.New("x")).Done() || Loading[int]().Done() {
		t.Error("Unexpected Done results")
	}
}

func TestBuildView(t *testing.T) {
	snap, err := NewSession(nbaBackend(), "42").Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	view := BuildView(snap, time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC))
	if view.Market == nil || view.Market.HomeTeam != "Lakers" {
		t.Fatalf("Unexpected market detail: %+v", view.Market)
	}
	if len(view.Teams) != 2 {
		t.Fatalf("Expected 2 team columns, got %d", len(view.Teams))
	}

	lakers := view.Teams[0]
	if lakers.Opponent != "Celtics" {
		t.Errorf("Unexpected opponent %q", lakers.Opponent)
	}
	// James (27 ppg) before Reaves (15 ppg)
	if lakers.Players[0].ID != "2" || lakers.Players[1].ID != "1" {
		t.Errorf("Unexpected Lakers order: %+v", lakers.Players)
	}
	if lakers.Players[0].Stats.Kind != viewmodel.StatLineBasketball {
		t.Errorf("Unexpected stat line: %+v", lakers.Players[0].Stats)
	}

	celtics := view.Teams[1]
	// no games for either: Brown before Tatum
	if celtics.Players[0].ID != "4" || celtics.Players[0].Stats.Kind != viewmodel.StatLineError {
		t.Errorf("Unexpected first Celtic: %+v", celtics.Players[0])
	}
	if celtics.Players[1].Stats.Kind != viewmodel.StatLineNoGames {
		t.Errorf("Unexpected second Celtic: %+v", celtics.Players[1])
	}
}

func TestBuildViewLoading(t *testing.T) {
	snap := Snapshot{
		Phase:   PhaseStats,
		League:  "nba",
		TeamA:   "Lakers",
		TeamB:   "Celtics",
		RosterA: []models.Athlete{athlete("1", "Austin", "Reaves")},
		Stats:   NewStatsBoard("1"),
	}
	view := BuildView(snap, time.Now())
	if view.Pending != 1 {
		t.Errorf("Expected 1 pending, got %d", view.Pending)
	}
	if got := view.Teams[0].Players[0].Stats; got.Kind != viewmodel.StatLineLoading || got.Message != "Loading vs Celtics..." {
		t.Errorf("Unexpected loading line: %+v", got)
	}
	if len(view.Teams[1].Players) != 0 {
		t.Errorf("Expected empty column, got %+v", view.Teams[1].Players)
	}
}

func TestLoadAnalytics(t *testing.T) {
	backend := nbaBackend()
	got := LoadAnalytics(context.Background(), backend, "nba", "", 10, "Lakers", "Celtics")
	if len(got) != 2 {
		t.Fatalf("Expected 2 panels, got %d", len(got))
	}
	if got[0].Team != "Lakers" || got[0].SplitsError != "" || got[0].FormError != "" {
		t.Errorf("Unexpected Lakers panel: %+v", got[0])
	}
	if got[1].Season != "2024-25" {
		t.Errorf("Unexpected season %q", got[1].Season)
	}

	backend.formErr = errors.New("down")
	got = LoadAnalytics(context.Background(), backend, "nba", "", 10, "Lakers")
	if got[0].FormError == "" || got[0].SplitsError != "" {
		t.Errorf("Expected only form to fail: %+v", got[0])
	}
}
