package viewmodel

import (
	"fmt"

	"github.com/rewired-gh/sideline/internal/models"
)

const (
	noSplitData = "No data"
	noFormData  = "No recent form data"
)

// SplitPanel is a team's record at home or away.
type SplitPanel struct {
	Label     string `json:"label"`
	Available bool   `json:"available"`
	Message   string `json:"message,omitempty"`
	Record    string `json:"record,omitempty"`
	WinPct    string `json:"win_pct,omitempty"`
	PPG       string `json:"ppg,omitempty"`
	OppPPG    string `json:"opp_ppg,omitempty"`
	PlusMinus string `json:"plus_minus,omitempty"`
	FGPct     string `json:"fg_pct,omitempty"`
	ThreePct  string `json:"three_pct,omitempty"`
	FTPct     string `json:"ft_pct,omitempty"`
}

// BuildSplit renders a location split. location is "home" or "away".
func BuildSplit(split *models.LocationSplit, location string) SplitPanel {
	p := SplitPanel{Label: "Home"}
	if location == "away" {
		p.Label = "Away"
	}
	if split == nil {
		p.Message = noSplitData
		return p
	}

	p.Available = true
	p.Record = FormatRecord(split.Wins, split.Losses)
	p.WinPct = FormatWinPct(split.WinPct)
	p.PPG = FormatStat(&split.PointsPerGame)
	p.OppPPG = FormatStat(&split.PointsAgainstPerGame)
	p.PlusMinus = FormatSigned(split.PlusMinus)
	p.FGPct = FormatWinPct(split.FieldGoalPct)
	p.ThreePct = FormatWinPct(split.ThreePtPct)
	p.FTPct = FormatWinPct(split.FreeThrowPct)
	return p
}

// FormPanel is a team's last-N-games momentum.
type FormPanel struct {
	Available   bool              `json:"available"`
	Message     string            `json:"message,omitempty"`
	Record      string            `json:"record,omitempty"`
	WinPct      string            `json:"win_pct,omitempty"`
	Streak      string            `json:"streak,omitempty"` // "W3", "L2" or "-"
	StreakType  models.StreakType `json:"streak_type,omitempty"`
	PPG         string            `json:"ppg,omitempty"`
	FGPct       string            `json:"fg_pct,omitempty"`
	Rebounds    string            `json:"rebounds,omitempty"`
	Assists     string            `json:"assists,omitempty"`
	Steals      string            `json:"steals,omitempty"`
	Blocks      string            `json:"blocks,omitempty"`
	RecentGames []string          `json:"recent_games,omitempty"`
}

// BuildForm renders recent form. games may be nil.
func BuildForm(form *models.RecentForm, games []models.RecentGame) FormPanel {
	if form == nil {
		return FormPanel{Message: noFormData}
	}

	streak := form.Streak()
	p := FormPanel{
		Available:  true,
		Record:     FormatRecord(form.Wins, form.Losses),
		WinPct:     FormatWinPct(form.WinPct),
		Streak:     StreakLabel(streak),
		StreakType: streak.Type,
		PPG:        FormatStat(&form.PointsPerGame),
		FGPct:      FormatWinPct(form.FieldGoalPct),
		Rebounds:   FormatStat(&form.ReboundsPerGame),
		Assists:    FormatStat(&form.AssistsPerGame),
		Steals:     FormatStat(&form.StealsPerGame),
		Blocks:     FormatStat(&form.BlocksPerGame),
	}
	for _, g := range games {
		p.RecentGames = append(p.RecentGames, formatRecentGame(g))
	}
	return p
}

// StreakLabel renders a streak as "W3" or "L2", and "-" when there is none.
func StreakLabel(s models.Streak) string {
	if s.Type == models.StreakNone || s.Type == "" {
		return "-"
	}
	return fmt.Sprintf("%s%d", s.Type, s.Count)
}

func formatRecentGame(g models.RecentGame) string {
	where := "@"
	if g.IsHome {
		where = "vs"
	}
	return fmt.Sprintf("%s %s %s %d-%d", g.GameDate, where, g.Opponent, g.PointsScored, g.PointsAllowed)
}

// TeamAnalytics is the situational-stats panel for one team. A fetch failure
// for either half is carried as a message; the other half still renders.
type TeamAnalytics struct {
	Team        string     `json:"team"`
	Season      string     `json:"season,omitempty"`
	Home        SplitPanel `json:"home"`
	Away        SplitPanel `json:"away"`
	Form        FormPanel  `json:"form"`
	SplitsError string     `json:"splits_error,omitempty"`
	FormError   string     `json:"form_error,omitempty"`
}

// BuildTeamAnalytics combines the two analytics responses for a team. Either
// response may be nil, with or without an accompanying error.
func BuildTeamAnalytics(
	team string,
	splits *models.TeamLocationSplits, splitsErr error,
	form *models.TeamRecentForm, formErr error,
) TeamAnalytics {
	a := TeamAnalytics{
		Team: team,
		Home: BuildSplit(nil, "home"),
		Away: BuildSplit(nil, "away"),
		Form: BuildForm(nil, nil),
	}

	if splitsErr != nil {
		a.SplitsError = "Location splits unavailable"
	} else if splits != nil {
		a.Season = splits.Season
		a.Home = BuildSplit(splits.Home, "home")
		a.Away = BuildSplit(splits.Away, "away")
	}

	if formErr != nil {
		a.FormError = "Recent form unavailable"
	} else if form != nil {
		if a.Season == "" {
			a.Season = form.Season
		}
		a.Form = BuildForm(form.RecentForm, form.RecentGames)
	}
	return a
}
