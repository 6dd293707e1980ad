// Package ranking orders markets and roster players for display and groups
// bare markets into events.
package ranking

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/rewired-gh/sideline/internal/fields"
	"github.com/rewired-gh/sideline/internal/models"
)

// Probability returns the first decoded outcome price, or 0 when it is
// missing, unparsable or outside [0, 1].
func Probability(m models.Market) float64 {
	prices := m.Prices()
	if len(prices) == 0 || !fields.IsPrice(prices[0]) {
		return 0
	}
	return prices[0]
}

// RankMarketsByProbability returns the markets sorted by first outcome price,
// highest first. The sort is stable and the input is not modified.
func RankMarketsByProbability(markets []models.Market) []models.Market {
	probs := make([]float64, len(markets))
	idx := make([]int, len(markets))
	for i := range markets {
		probs[i] = Probability(markets[i])
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return probs[idx[a]] > probs[idx[b]]
	})

	ranked := make([]models.Market, len(markets))
	for i, j := range idx {
		ranked[i] = markets[j]
	}
	return ranked
}

// RankRosterByRelevance puts players with completed games against the opponent
// first, ordered by primary stat descending. Everyone else follows in
// last-name order. A player without an entry in stats counts as having no
// games. The input is not modified.
func RankRosterByRelevance(
	players []models.Athlete,
	stats map[string]models.PlayerStats,
	primary func(models.PlayerStats) float64,
) []models.Athlete {
	var withGames, without []models.Athlete
	for _, p := range players {
		if s, ok := stats[p.ID]; ok && s != nil && s.Games() > 0 {
			withGames = append(withGames, p)
		} else {
			without = append(without, p)
		}
	}

	sort.SliceStable(withGames, func(i, j int) bool {
		return primary(stats[withGames[i].ID]) > primary(stats[withGames[j].ID])
	})

	col := collate.New(language.English)
	sort.SliceStable(without, func(i, j int) bool {
		return col.CompareString(without[i].LastName, without[j].LastName) < 0
	})

	ranked := make([]models.Athlete, 0, len(players))
	ranked = append(ranked, withGames...)
	return append(ranked, without...)
}

// GroupByEvent groups bare markets by the title of their embedded parent
// event. Markets without one land in a group titled fallbackTitle. Group
// order follows the first market seen for each title.
func GroupByEvent(markets []models.Market, fallbackTitle string) []models.Event {
	groups := make(map[string]*models.Event)
	var order []string

	for _, m := range markets {
		title := m.EventTitle()
		if title == "" {
			title = fallbackTitle
		}
		if _, exists := groups[title]; !exists {
			e := &models.Event{Title: title, Markets: []models.Market{}}
			for _, parent := range m.Events {
				if parent.Title == title {
					e.ID = parent.ID
					e.Slug = parent.Slug
					break
				}
			}
			groups[title] = e
			order = append(order, title)
		}
		g := groups[title]
		g.Markets = append(g.Markets, m)
	}

	result := make([]models.Event, 0, len(order))
	for _, title := range order {
		result = append(result, *groups[title])
	}
	return result
}
