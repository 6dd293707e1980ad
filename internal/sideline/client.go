// Package sideline is the HTTP client for the Sideline backend: league
// boards, markets, rosters, player matchup stats and team analytics. Every
// call is a read-only GET returning JSON.
package sideline

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rewired-gh/sideline/internal/league"
	"github.com/rewired-gh/sideline/internal/logger"
	"github.com/rewired-gh/sideline/internal/models"
	"github.com/rewired-gh/sideline/internal/ranking"
)

const maxBodyBytes = 8 << 20

// Client provides access to the Sideline backend API
type Client struct {
	baseURL        string
	httpClient     *http.Client
	userAgent      string
	maxRetries     int
	retryDelayBase time.Duration
	metrics        *Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithRetries retries transport failures and 5xx responses up to n extra
// times, waiting base, 2*base, ... between attempts. The default is no retry.
func WithRetries(n int, base time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = n
		c.retryDelayBase = base
	}
}

// WithMetrics records per-operation request metrics.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a new backend client
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchLeague retrieves the events of a league. The endpoint returns either
// events (objects with a "markets" list) or bare markets carrying their parent
// event; bare markets are grouped by event title in first-seen order.
func (c *Client) FetchLeague(ctx context.Context, leagueKey string) ([]models.Event, error) {
	const op = "fetch league"
	body, u, err := c.get(ctx, op, []string{"league", leagueKey}, nil)
	if err != nil {
		return nil, err
	}

	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		var wrapped struct {
			Events []json.RawMessage `json:"events"`
		}
		if err2 := json.Unmarshal(body, &wrapped); err2 != nil {
			return nil, &FetchError{Op: op, URL: u, Kind: ErrDecode, Err: err}
		}
		items = wrapped.Events
	}

	var events []models.Event
	var bare []models.Market
	for i, item := range items {
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(item, &probe); err != nil {
			logger.Warn("Skipping league item %d: %v", i, err)
			continue
		}
		if _, isEvent := probe["markets"]; isEvent {
			var e models.Event
			if err := json.Unmarshal(item, &e); err != nil {
				logger.Warn("Skipping malformed event %d: %v", i, err)
				continue
			}
			events = append(events, e)
			continue
		}
		var m models.Market
		if err := json.Unmarshal(item, &m); err != nil {
			logger.Warn("Skipping malformed market %d: %v", i, err)
			continue
		}
		bare = append(bare, m)
	}

	if len(bare) > 0 {
		fallback := strings.ToUpper(leagueKey) + " Markets"
		events = append(events, ranking.GroupByEvent(bare, fallback)...)
	}
	if events == nil {
		events = []models.Event{}
	}
	return events, nil
}

// FetchMarket retrieves a single market by id
func (c *Client) FetchMarket(ctx context.Context, id string) (*models.Market, error) {
	var m models.Market
	if err := c.getJSON(ctx, "fetch market", []string{"market", id}, nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// FetchRoster retrieves the roster of a team. The payload is a list of
// athletes, or an object with an "athletes" list.
func (c *Client) FetchRoster(ctx context.Context, leagueKey, team string) ([]models.Athlete, error) {
	const op = "fetch roster"
	body, u, err := c.get(ctx, op, []string{"league", leagueKey, team}, nil)
	if err != nil {
		return nil, err
	}

	var athletes []models.Athlete
	if err := json.Unmarshal(body, &athletes); err != nil {
		var wrapped struct {
			Athletes []models.Athlete `json:"athletes"`
		}
		if err2 := json.Unmarshal(body, &wrapped); err2 != nil {
			return nil, &FetchError{Op: op, URL: u, Kind: ErrDecode, Err: err}
		}
		athletes = wrapped.Athletes
	}
	if athletes == nil {
		athletes = []models.Athlete{}
	}
	return athletes, nil
}

// FetchPlayerStatsVs retrieves a player's averages against an opponent,
// decoded with the stat schema of the league's sport.
func (c *Client) FetchPlayerStatsVs(ctx context.Context, leagueKey, athleteID, opponent string) (models.PlayerStats, error) {
	const op = "fetch player stats"
	body, u, err := c.get(ctx, op, []string{"player", leagueKey, athleteID, "stats-vs", opponent}, nil)
	if err != nil {
		return nil, err
	}
	stats, err := models.DecodePlayerStats(league.Lookup(leagueKey).Sport, body)
	if err != nil {
		return nil, &FetchError{Op: op, URL: u, Kind: ErrDecode, Err: err}
	}
	return stats, nil
}

// FetchLocationSplits retrieves a team's home/away splits. An empty season
// asks for the latest.
func (c *Client) FetchLocationSplits(ctx context.Context, leagueKey, team, season string) (*models.TeamLocationSplits, error) {
	var s models.TeamLocationSplits
	err := c.getJSON(ctx, "fetch location splits",
		[]string{"team", leagueKey, team, "location-splits"}, seasonQuery(season), &s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// FetchRecentForm retrieves a team's last-N-games form.
func (c *Client) FetchRecentForm(ctx context.Context, leagueKey, team, season string, gamesBack int) (*models.TeamRecentForm, error) {
	q := seasonQuery(season)
	q.Set("games_back", strconv.Itoa(gamesBack))

	var f models.TeamRecentForm
	if err := c.getJSON(ctx, "fetch recent form", []string{"team", leagueKey, team, "recent-form"}, q, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// FetchMatchupLocationContext retrieves the home team's home record and the
// away team's away record.
func (c *Client) FetchMatchupLocationContext(ctx context.Context, homeTeamID, awayTeamID, season string) (*models.MatchupLocationContext, error) {
	q := seasonQuery(season)
	q.Set("home_team_id", homeTeamID)
	q.Set("away_team_id", awayTeamID)

	var mc models.MatchupLocationContext
	if err := c.getJSON(ctx, "fetch location context", []string{"team", "matchup", "location-context"}, q, &mc); err != nil {
		return nil, err
	}
	return &mc, nil
}

// FetchMatchupMomentum retrieves the recent form of both teams in a matchup.
func (c *Client) FetchMatchupMomentum(ctx context.Context, team1ID, team2ID, season string, gamesBack int) (*models.MatchupMomentum, error) {
	q := seasonQuery(season)
	q.Set("team1_id", team1ID)
	q.Set("team2_id", team2ID)
	q.Set("games_back", strconv.Itoa(gamesBack))

	var mm models.MatchupMomentum
	if err := c.getJSON(ctx, "fetch momentum", []string{"team", "matchup", "momentum"}, q, &mm); err != nil {
		return nil, err
	}
	return &mm, nil
}

func seasonQuery(season string) url.Values {
	q := url.Values{}
	if season != "" {
		q.Set("season", season)
	}
	return q
}

// getJSON fetches and decodes into out.
func (c *Client) getJSON(ctx context.Context, op string, segments []string, query url.Values, out any) error {
	body, u, err := c.get(ctx, op, segments, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &FetchError{Op: op, URL: u, Kind: ErrDecode, Err: err}
	}
	return nil
}

// get performs the request and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, op string, segments []string, query url.Values) (body []byte, u string, err error) {
	u = c.buildURL(segments, query)
	started := time.Now()
	defer func() { c.metrics.observe(op, started, err) }()

	for _, s := range segments {
		if strings.TrimSpace(s) == "" {
			return nil, u, &FetchError{Op: op, URL: u, Kind: ErrInvalid}
		}
	}

	resp, err := c.doRequest(ctx, op, u)
	if err != nil {
		return nil, u, err
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, u, &FetchError{Op: op, URL: u, Kind: ErrTransport, Err: err}
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, u, &FetchError{Op: op, URL: u, Kind: ErrDecode, Err: io.ErrUnexpectedEOF}
	}
	return body, u, nil
}

func (c *Client) buildURL(segments []string, query url.Values) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	u := c.baseURL + "/" + strings.Join(escaped, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// doRequest performs HTTP request with retry logic
func (c *Client) doRequest(ctx context.Context, op, u string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt) * c.retryDelayBase
			logger.Debug("Retrying %s (attempt %d) in %v", op, attempt+1, delay)
			select {
			case <-ctx.Done():
				return nil, &FetchError{Op: op, URL: u, Kind: ErrTransport, Err: ctx.Err()}
			case <-time.After(delay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, &FetchError{Op: op, URL: u, Kind: ErrTransport, Err: err}
		}
		req.Header.Set("Accept", "application/json")
		if c.userAgent != "" {
			req.Header.Set("User-Agent", c.userAgent)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = &FetchError{Op: op, URL: u, Kind: ErrTransport, Err: err}
			if ctx.Err() != nil {
				return nil, lastErr
			}
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			lastErr = &FetchError{Op: op, URL: u, StatusCode: resp.StatusCode, Kind: ErrStatus}
			if resp.StatusCode < 500 {
				return nil, lastErr
			}
			continue
		}

		return resp, nil
	}

	return nil, lastErr
}
