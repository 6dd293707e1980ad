// Package server exposes the view models over HTTP as JSON. Every request
// fetches fresh data from the backend; nothing is cached between requests.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rewired-gh/sideline/internal/logger"
	"github.com/rewired-gh/sideline/internal/matchup"
	"github.com/rewired-gh/sideline/internal/models"
	"github.com/rewired-gh/sideline/internal/sideline"
	"github.com/rewired-gh/sideline/internal/viewmodel"
)

// Backend is the Sideline API as used by the server.
type Backend interface {
	matchup.Backend
	matchup.AnalyticsBackend
	FetchLeague(ctx context.Context, leagueKey string) ([]models.Event, error)
	FetchMatchupLocationContext(ctx context.Context, homeTeamID, awayTeamID, season string) (*models.MatchupLocationContext, error)
	FetchMatchupMomentum(ctx context.Context, team1ID, team2ID, season string, gamesBack int) (*models.MatchupMomentum, error)
}

// Options configures the server.
type Options struct {
	DefaultLeague    string
	Season           string
	GamesBack        int
	StatsConcurrency int
	CORSOrigins      []string
	RequestTimeout   time.Duration
	// Registry, when set, receives HTTP metrics and is served on /metrics.
	Registry *prometheus.Registry
	Now      func() time.Time
}

const maxGamesBack = 20

// Server handles the JSON API.
type Server struct {
	backend Backend
	opts    Options
	metrics *httpMetrics
}

// New creates a server.
func New(backend Backend, opts Options) *Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.GamesBack <= 0 {
		opts.GamesBack = 10
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}
	s := &Server{backend: backend, opts: opts}
	if opts.Registry != nil {
		s.metrics = newHTTPMetrics(opts.Registry)
	}
	return s
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(s.metrics))
	r.Use(chimiddleware.Recoverer)
	if s.opts.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(s.opts.RequestTimeout))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.CORSOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.opts.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.opts.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/leagues/{league}/board", s.handleBoard)
		r.Get("/markets/{id}", s.handleMarket)
		r.Get("/markets/{id}/matchup", s.handleMatchup)
		r.Get("/teams/{league}/{team}/analytics", s.handleTeamAnalytics)
		r.Get("/matchups/location-context", s.handleLocationContext)
		r.Get("/matchups/momentum", s.handleMomentum)
	})
	return r
}

// handleBoard serves a league board. Query params: top (cards per section).
func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	leagueKey := strings.ToLower(chi.URLParam(r, "league"))
	top, err := intParam(r, "top", 0, 0, 1000)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	events, err := s.backend.FetchLeague(r.Context(), leagueKey)
	if err != nil {
		s.upstreamError(w, "Could not load markets", err)
		return
	}

	board := viewmodel.BuildBoard(events, leagueKey, s.opts.Now())
	if top > 0 {
		for i := range board.Sections {
			if len(board.Sections[i].Cards) > top {
				board.Sections[i].Cards = board.Sections[i].Cards[:top]
			}
		}
	}
	respondJSON(w, http.StatusOK, board)
}

func (s *Server) handleMarket(w http.ResponseWriter, r *http.Request) {
	m, err := s.backend.FetchMarket(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.upstreamError(w, matchup.MsgMarketFailed, err)
		return
	}
	respondJSON(w, http.StatusOK, viewmodel.BuildDetail(*m, s.opts.Now()))
}

// handleMatchup loads the full market page, waiting for every stat line.
func (s *Server) handleMatchup(w http.ResponseWriter, r *http.Request) {
	session := matchup.NewSession(s.backend, chi.URLParam(r, "id"),
		matchup.WithDefaultLeague(s.opts.DefaultLeague),
		matchup.WithConcurrency(s.opts.StatsConcurrency),
	)
	snap, err := session.Load(r.Context())
	if err != nil {
		var le *matchup.LoadError
		if errors.As(err, &le) {
			if le.Message == matchup.MsgNoMarketID {
				respondError(w, http.StatusBadRequest, le.Message)
				return
			}
			s.upstreamError(w, le.Message, le.Err)
			return
		}
		// Client went away.
		logger.Debug("Matchup %s abandoned: %v", session.ID(), err)
		return
	}
	respondJSON(w, http.StatusOK, matchup.BuildView(snap, s.opts.Now()))
}

// handleTeamAnalytics serves location splits and recent form for a team.
// Query params: season, games_back. Partial failures are reported inline.
func (s *Server) handleTeamAnalytics(w http.ResponseWriter, r *http.Request) {
	gamesBack, err := intParam(r, "games_back", s.opts.GamesBack, 1, maxGamesBack)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	panels := matchup.LoadAnalytics(r.Context(), s.backend,
		strings.ToLower(chi.URLParam(r, "league")), s.season(r), gamesBack, chi.URLParam(r, "team"))
	respondJSON(w, http.StatusOK, panels[0])
}

func (s *Server) handleLocationContext(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	home, away := q.Get("home_team_id"), q.Get("away_team_id")
	if home == "" || away == "" {
		respondError(w, http.StatusBadRequest, "home_team_id and away_team_id are required")
		return
	}
	lc, err := s.backend.FetchMatchupLocationContext(r.Context(), home, away, s.season(r))
	if err != nil {
		s.upstreamError(w, "Could not load location context", err)
		return
	}
	respondJSON(w, http.StatusOK, lc)
}

func (s *Server) handleMomentum(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	team1, team2 := q.Get("team1_id"), q.Get("team2_id")
	if team1 == "" || team2 == "" {
		respondError(w, http.StatusBadRequest, "team1_id and team2_id are required")
		return
	}
	gamesBack, err := intParam(r, "games_back", s.opts.GamesBack, 1, maxGamesBack)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	mm, err := s.backend.FetchMatchupMomentum(r.Context(), team1, team2, s.season(r), gamesBack)
	if err != nil {
		s.upstreamError(w, "Could not load momentum", err)
		return
	}
	respondJSON(w, http.StatusOK, mm)
}

func (s *Server) season(r *http.Request) string {
	if v := r.URL.Query().Get("season"); v != "" {
		return v
	}
	return s.opts.Season
}

// upstreamError maps a backend failure to a response: 404 passes through,
// a missing identifier is the caller's fault, everything else is a 502.
func (s *Server) upstreamError(w http.ResponseWriter, msg string, err error) {
	logger.Warn("%s: %v", msg, err)

	var fe *sideline.FetchError
	switch {
	case errors.As(err, &fe) && fe.StatusCode == http.StatusNotFound:
		respondError(w, http.StatusNotFound, msg)
	case errors.Is(err, sideline.ErrInvalid):
		respondError(w, http.StatusBadRequest, msg)
	default:
		respondError(w, http.StatusBadGateway, msg)
	}
}

// intParam parses an optional integer query parameter within [lo, hi].
func intParam(r *http.Request, name string, def, lo, hi int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < lo || n > hi {
		return 0, &paramError{name: name, lo: lo, hi: hi}
	}
	return n, nil
}

type paramError struct {
	name   string
	lo, hi int
}

func (e *paramError) Error() string {
	return e.name + " must be an integer between " + strconv.Itoa(e.lo) + " and " + strconv.Itoa(e.hi)
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
