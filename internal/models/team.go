package models

import "strings"

// LocationSplit is a team's aggregate performance at one location (home or away).
type LocationSplit struct {
	Location             string   `json:"location"`
	Games                int      `json:"games"`
	Wins                 int      `json:"wins"`
	Losses               int      `json:"losses"`
	WinPct               float64  `json:"win_pct"` // 0.0 to 1.0
	PointsPerGame        float64  `json:"points_per_game"`
	PointsAgainstPerGame float64  `json:"points_against_per_game"`
	PlusMinus            float64  `json:"plus_minus"`
	FieldGoalPct         float64  `json:"field_goal_pct"`
	ThreePtPct           float64  `json:"three_pt_pct"`
	FreeThrowPct         float64  `json:"free_throw_pct"`
	ReboundsPerGame      float64  `json:"rebounds_per_game"`
	AssistsPerGame       float64  `json:"assists_per_game"`
	OffensiveRating      *float64 `json:"offensive_rating,omitempty"`
	DefensiveRating      *float64 `json:"defensive_rating,omitempty"`
	NetRating            *float64 `json:"net_rating,omitempty"`
}

// TeamLocationSplits is the location-splits response for one team.
type TeamLocationSplits struct {
	TeamID   FlexString     `json:"team_id"`
	TeamName string         `json:"team_name"`
	Season   string         `json:"season"`
	Home     *LocationSplit `json:"home,omitempty"`
	Away     *LocationSplit `json:"away,omitempty"`
}

// StreakType is W for a win streak, L for a loss streak and N for none.
type StreakType string

const (
	StreakWin  StreakType = "W"
	StreakLoss StreakType = "L"
	StreakNone StreakType = "N"
)

// Streak is a run of consecutive results.
type Streak struct {
	Type  StreakType `json:"type"`
	Count int        `json:"count"`
}

// RecentForm is a team's performance over its last N games.
type RecentForm struct {
	GamesBack            int     `json:"games_back"`
	Games                int     `json:"games"`
	Wins                 int     `json:"wins"`
	Losses               int     `json:"losses"`
	WinPct               float64 `json:"win_pct"`
	StreakType           string  `json:"streak_type"`
	StreakCount          int     `json:"streak_count"`
	PointsPerGame        float64 `json:"points_per_game"`
	PointsAgainstPerGame float64 `json:"points_against_per_game"`
	PointDifferential    float64 `json:"point_differential"`
	FieldGoalPct         float64 `json:"field_goal_pct"`
	ThreePtPct           float64 `json:"three_pt_pct"`
	FreeThrowPct         float64 `json:"free_throw_pct"`
	ReboundsPerGame      float64 `json:"rebounds_per_game"`
	AssistsPerGame       float64 `json:"assists_per_game"`
	StealsPerGame        float64 `json:"steals_per_game"`
	BlocksPerGame        float64 `json:"blocks_per_game"`
	FirstGameDate        string  `json:"first_game_date,omitempty"`
	LastGameDate         string  `json:"last_game_date,omitempty"`
}

// Streak normalizes the streak descriptor. Unknown types and empty runs are N.
func (f *RecentForm) Streak() Streak {
	t := StreakType(strings.ToUpper(strings.TrimSpace(f.StreakType)))
	if (t != StreakWin && t != StreakLoss) || f.StreakCount <= 0 {
		return Streak{Type: StreakNone}
	}
	return Streak{Type: t, Count: f.StreakCount}
}

// RecentGame is one result in a recent-form sample.
type RecentGame struct {
	GameDate      string `json:"game_date"`
	Opponent      string `json:"opponent"`
	IsHome        bool   `json:"is_home"`
	Result        string `json:"result"`
	PointsScored  int    `json:"points_scored"`
	PointsAllowed int    `json:"points_allowed"`
}

// TeamRecentForm is the recent-form response for one team.
type TeamRecentForm struct {
	TeamID      FlexString   `json:"team_id"`
	TeamName    string       `json:"team_name"`
	Season      string       `json:"season"`
	RecentForm  *RecentForm  `json:"recent_form,omitempty"`
	RecentGames []RecentGame `json:"recent_games,omitempty"`
}

// MatchupLocationContext pairs the home team's home record with the away
// team's away record.
type MatchupLocationContext struct {
	Season   string `json:"season"`
	HomeTeam struct {
		TeamID     FlexString     `json:"team_id"`
		TeamName   string         `json:"team_name"`
		HomeRecord *LocationSplit `json:"home_record,omitempty"`
	} `json:"home_team"`
	AwayTeam struct {
		TeamID     FlexString     `json:"team_id"`
		TeamName   string         `json:"team_name"`
		AwayRecord *LocationSplit `json:"away_record,omitempty"`
	} `json:"away_team"`
}

// MomentumSide is one team's entry in a momentum comparison.
type MomentumSide struct {
	TeamID     FlexString  `json:"team_id"`
	TeamName   string      `json:"team_name"`
	RecentForm *RecentForm `json:"recent_form,omitempty"`
}

// MatchupMomentum compares the recent form of two teams.
type MatchupMomentum struct {
	Season    string       `json:"season"`
	GamesBack int          `json:"games_back"`
	Team1     MomentumSide `json:"team1"`
	Team2     MomentumSide `json:"team2"`
}
