package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/spf13/cast"
)

// Sport selects the stat schema for a league.
type Sport string

const (
	SportBasketball Sport = "basketball"
	SportFootball   Sport = "football"
	SportBaseball   Sport = "baseball"
	SportUnknown    Sport = "unknown"
)

// PlayerStats is a player's aggregate against one opponent. It is one of
// BasketballStats, FootballStats or NoData.
type PlayerStats interface {
	// Games is the number of completed games against the opponent.
	Games() int
	isPlayerStats()
}

// BasketballStats holds per-game averages for a basketball player.
// Nil fields were not reported.
type BasketballStats struct {
	GamesPlayed     int      `json:"games_played"`
	AvgPoints       *float64 `json:"avg_points,omitempty"`
	AvgRebounds     *float64 `json:"avg_rebounds,omitempty"`
	AvgAssists      *float64 `json:"avg_assists,omitempty"`
	AvgSteals       *float64 `json:"avg_steals,omitempty"`
	AvgBlocks       *float64 `json:"avg_blocks,omitempty"`
	AvgFGPercentage *float64 `json:"avg_fg_percentage,omitempty"`
}

// FootballStats holds per-game averages for a football player.
// Nil fields were not reported.
type FootballStats struct {
	GamesPlayed       int      `json:"games_played"`
	AvgPassingYards   *float64 `json:"avg_passing_yards,omitempty"`
	AvgPassingTDs     *float64 `json:"avg_passing_tds,omitempty"`
	AvgInterceptions  *float64 `json:"avg_interceptions,omitempty"`
	AvgRushingYards   *float64 `json:"avg_rushing_yards,omitempty"`
	AvgRushingTDs     *float64 `json:"avg_rushing_tds,omitempty"`
	AvgReceptions     *float64 `json:"avg_receptions,omitempty"`
	AvgReceivingYards *float64 `json:"avg_receiving_yards,omitempty"`
	AvgReceivingTDs   *float64 `json:"avg_receiving_tds,omitempty"`
}

// NoData is returned when the payload carries no usable stats, or the sport
// has no stat schema.
type NoData struct {
	GamesPlayed int `json:"games_played"`
}

func (s BasketballStats) Games() int { return s.GamesPlayed }
func (s FootballStats) Games() int   { return s.GamesPlayed }
func (s NoData) Games() int          { return s.GamesPlayed }

func (BasketballStats) isPlayerStats() {}
func (FootballStats) isPlayerStats()   {}
func (NoData) isPlayerStats()          {}

// DecodePlayerStats decodes a stats-vs-opponent payload for the given sport.
// Games are read from games_played, gamesPlayed or games; averages from the
// avg_x, avgX or x_avg spellings. A body that is valid JSON but not an object
// decodes to NoData. Malformed JSON is an error.
func DecodePlayerStats(sport Sport, body []byte) (PlayerStats, error) {
	var v any
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to decode player stats: %w", err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return NoData{}, nil
	}

	games := cast.ToInt(lookupNumber(obj, "games_played", "gamesPlayed", "games"))

	switch sport {
	case SportBasketball:
		s := BasketballStats{
			GamesPlayed: games,
			AvgPoints:   lookup(obj, "avg_points", "avgPoints", "points_avg"),
			AvgRebounds: lookup(obj, "avg_rebounds", "avgRebounds", "rebounds_total_avg", "rebounds_avg"),
			AvgAssists:  lookup(obj, "avg_assists", "avgAssists", "assists_avg"),
			AvgSteals:   lookup(obj, "avg_steals", "avgSteals", "steals_avg"),
			AvgBlocks:   lookup(obj, "avg_blocks", "avgBlocks", "blocks_avg"),
			AvgFGPercentage: lookup(obj,
				"avg_fg_percentage", "avgFGPercentage", "fg_percentage_avg"),
		}
		if s.AvgFGPercentage == nil {
			s.AvgFGPercentage = ratioPercent(
				lookup(obj, "field_goals_made_avg", "field_goals_made"),
				lookup(obj, "field_goal_attempts_avg", "field_goal_attempts"),
			)
		}
		return s, nil
	case SportFootball:
		return FootballStats{
			GamesPlayed:       games,
			AvgPassingYards:   lookup(obj, "avg_passing_yards", "avgPassingYards", "passing_yards_avg"),
			AvgPassingTDs:     lookup(obj, "avg_passing_tds", "avgPassingTDs", "passing_tds_avg"),
			AvgInterceptions:  lookup(obj, "avg_interceptions", "avgInterceptions", "passing_ints_avg"),
			AvgRushingYards:   lookup(obj, "avg_rushing_yards", "avgRushingYards", "rushing_yards_avg"),
			AvgRushingTDs:     lookup(obj, "avg_rushing_tds", "avgRushingTDs", "rushing_tds_avg"),
			AvgReceptions:     lookup(obj, "avg_receptions", "avgReceptions", "receptions_avg"),
			AvgReceivingYards: lookup(obj, "avg_receiving_yards", "avgReceivingYards", "receiving_yards_avg"),
			AvgReceivingTDs:   lookup(obj, "avg_receiving_tds", "avgReceivingTDs", "receiving_tds_avg"),
		}, nil
	default:
		return NoData{GamesPlayed: games}, nil
	}
}

// lookup returns the first key that holds a finite number or numeric string.
func lookup(obj map[string]any, keys ...string) *float64 {
	for _, k := range keys {
		v, ok := obj[k]
		if !ok || v == nil {
			continue
		}
		if _, isBool := v.(bool); isBool {
			continue
		}
		n, err := cast.ToFloat64E(v)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			continue
		}
		return &n
	}
	return nil
}

func lookupNumber(obj map[string]any, keys ...string) float64 {
	if n := lookup(obj, keys...); n != nil {
		return *n
	}
	return 0
}

func ratioPercent(made, attempts *float64) *float64 {
	if made == nil || attempts == nil || *attempts <= 0 {
		return nil
	}
	pct := *made / *attempts * 100
	return &pct
}
