package viewmodel

import (
	"strings"
	"time"

	"github.com/rewired-gh/sideline/internal/league"
	"github.com/rewired-gh/sideline/internal/models"
	"github.com/rewired-gh/sideline/internal/ranking"
)

const (
	EmptyBoardMessage   = "No markets available yet."
	EmptySectionMessage = "No markets available for this event."
)

// Section is one event on a league board.
type Section struct {
	Title        string `json:"title"`
	Cards        []Card `json:"cards"`
	EmptyMessage string `json:"empty_message,omitempty"`
}

// Board is a league page: one section per event, cards ranked by probability.
type Board struct {
	League       string    `json:"league"`
	Sections     []Section `json:"sections"`
	EmptyMessage string    `json:"empty_message,omitempty"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// BuildBoard builds the board for a league. Events whose titles name an
// award or leaderboard get short, player-only card titles.
func BuildBoard(events []models.Event, leagueKey string, now time.Time) Board {
	b := Board{
		League:      strings.ToUpper(leagueKey),
		Sections:    make([]Section, 0, len(events)),
		GeneratedAt: now,
	}
	if len(events) == 0 {
		b.EmptyMessage = EmptyBoardMessage
		return b
	}

	extract := league.Extractor(b.League)
	for _, e := range events {
		s := Section{Title: e.Title, Cards: make([]Card, 0, len(e.Markets))}
		if len(e.Markets) == 0 {
			s.EmptyMessage = EmptySectionMessage
			b.Sections = append(b.Sections, s)
			continue
		}

		var opts CardOptions
		if league.UsesShortTitles(e.Title) {
			opts.Extract = extract
		}
		for _, m := range ranking.RankMarketsByProbability(e.Markets) {
			s.Cards = append(s.Cards, BuildCard(m, opts, now))
		}
		b.Sections = append(b.Sections, s)
	}
	return b
}

// CardCount returns the number of cards across all sections.
func (b Board) CardCount() int {
	n := 0
	for _, s := range b.Sections {
		n += len(s.Cards)
	}
	return n
}
