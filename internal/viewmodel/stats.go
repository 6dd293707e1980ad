package viewmodel

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize/english"

	"github.com/rewired-gh/sideline/internal/models"
)

// StatLineKind says how a player's stat line should be rendered.
type StatLineKind string

const (
	StatLineLoading     StatLineKind = "loading"
	StatLineError       StatLineKind = "error"
	StatLineNoGames     StatLineKind = "no_games"
	StatLineBasketball  StatLineKind = "basketball"
	StatLineFootball    StatLineKind = "football"
	StatLineUnsupported StatLineKind = "unsupported"
)

// StatFigure is one headline number, e.g. {"PPG", "24.3"}.
type StatFigure struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// StatLine is a player's record against the upcoming opponent.
type StatLine struct {
	Kind    StatLineKind `json:"kind"`
	Message string       `json:"message,omitempty"`
	Figures []StatFigure `json:"figures,omitempty"`
	Context string       `json:"context,omitempty"` // "vs Celtics • 5 games"
	Note    string       `json:"note,omitempty"`
}

// LoadingStatLine is shown while a player's stats are in flight.
func LoadingStatLine(opponent string) StatLine {
	return StatLine{Kind: StatLineLoading, Message: fmt.Sprintf("Loading vs %s...", opponent)}
}

// FailedStatLine is shown when a player's stats could not be fetched.
func FailedStatLine() StatLine {
	return StatLine{Kind: StatLineError, Message: "Stats unavailable"}
}

// BuildStatLine renders loaded stats for a player in the given league.
func BuildStatLine(stats models.PlayerStats, leagueKey, opponent string) StatLine {
	if stats == nil || stats.Games() == 0 {
		return StatLine{Kind: StatLineNoGames, Message: fmt.Sprintf("No prior games vs %s", opponent)}
	}
	context := fmt.Sprintf("vs %s • %s", opponent, english.Plural(stats.Games(), "game", ""))

	switch s := stats.(type) {
	case models.BasketballStats:
		line := StatLine{
			Kind: StatLineBasketball,
			Figures: []StatFigure{
				{"PPG", formatFixed(s.AvgPoints, 1)},
				{"RPG", formatFixed(s.AvgRebounds, 1)},
				{"APG", formatFixed(s.AvgAssists, 1)},
			},
			Context: context,
		}
		if s.AvgFGPercentage != nil && *s.AvgFGPercentage > 0 {
			line.Note = "FG% " + formatFixed(s.AvgFGPercentage, 1) + "%"
		}
		return line
	case models.FootballStats:
		line := StatLine{Kind: StatLineFootball, Context: context}
		add := func(label string, v *float64, places int32, positiveOnly bool) {
			if v == nil || (positiveOnly && *v <= 0) {
				return
			}
			line.Figures = append(line.Figures, StatFigure{label, formatFixed(v, places)})
		}
		add("Pass Yds", s.AvgPassingYards, 0, false)
		add("Pass TD", s.AvgPassingTDs, 1, true)
		add("INT", s.AvgInterceptions, 1, true)
		add("Rush Yds", s.AvgRushingYards, 0, false)
		add("Rec Yds", s.AvgReceivingYards, 0, false)
		add("Rec", s.AvgReceptions, 1, true)
		return line
	default:
		return UnsupportedStatLine(leagueKey)
	}
}

// UnsupportedStatLine is shown for leagues without per-player matchup stats.
func UnsupportedStatLine(leagueKey string) StatLine {
	return StatLine{
		Kind:    StatLineUnsupported,
		Message: fmt.Sprintf("Stats display not yet supported for %s", strings.ToUpper(leagueKey)),
	}
}
