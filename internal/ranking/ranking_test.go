package ranking

import (
	"encoding/json"
	"testing"

	"github.com/rewired-gh/sideline/internal/league"
	"github.com/rewired-gh/sideline/internal/models"
)

func market(id, prices string) models.Market {
	raw, _ := json.Marshal(prices)
	return models.Market{ID: models.FlexString(id), Question: "Q" + id, OutcomePrices: raw}
}

func ids(markets []models.Market) []string {
	out := make([]string, len(markets))
	for i, m := range markets {
		out[i] = m.ID.String()
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRankMarketsByProbability(t *testing.T) {
	input := []models.Market{
		market("a", `["0.2","0.8"]`),
		market("b", `["0.7","0.3"]`),
		market("c", `not json`),
		market("d", `["0.2","0.8"]`),
		market("e", `["0.9","0.1"]`),
		market("f", `["","1"]`),
	}

	got := ids(RankMarketsByProbability(input))
	want := []string{"e", "b", "a", "d", "c", "f"}
	if !equal(got, want) {
		t.Errorf("RankMarketsByProbability() = %v, want %v", got, want)
	}

	// input untouched
	if first := input[0].ID; first != "a" {
		t.Errorf("input was reordered, first = %s", first)
	}
}

func TestProbabilityMalformed(t *testing.T) {
	for _, prices := range []string{`["Infinity"]`, `["1e20"]`, `["-0.4"]`, `[]`} {
		if got := Probability(market("x", prices)); got != 0 {
			t.Errorf("Probability(%s) = %v, want 0", prices, got)
		}
	}

	got := ids(RankMarketsByProbability([]models.Market{
		market("a", `["Infinity"]`),
		market("b", `["0.4"]`),
		market("c", `["1e20"]`),
	}))
	if !equal(got, []string{"b", "a", "c"}) {
		t.Errorf("malformed prices should rank as unpriced, got %v", got)
	}
}

func TestRankMarketsByProbabilityStable(t *testing.T) {
	input := []models.Market{
		market("1", `["0.5"]`),
		market("2", `["0.5"]`),
		market("3", `["0.5"]`),
		market("4", `["0.5"]`),
	}
	got := ids(RankMarketsByProbability(input))
	if !equal(got, []string{"1", "2", "3", "4"}) {
		t.Errorf("equal probabilities reordered: %v", got)
	}
}

func fptr(f float64) *float64 { return &f }

func TestRankRosterByRelevance(t *testing.T) {
	players := []models.Athlete{
		{ID: "1", FullName: "Zed Zimmer", LastName: "Zimmer"},
		{ID: "2", FullName: "Al Adams", LastName: "Adams"},
		{ID: "3", FullName: "Star Player", LastName: "Player"},
		{ID: "4", FullName: "Bench Guy", LastName: "Guy"},
		{ID: "5", FullName: "Role Player", LastName: "Roleplayer"},
		{ID: "6", FullName: "No Stats", LastName: "Baker"},
	}
	stats := map[string]models.PlayerStats{
		"1": models.BasketballStats{GamesPlayed: 0, AvgPoints: fptr(40)},
		"2": models.BasketballStats{GamesPlayed: 0},
		"3": models.BasketballStats{GamesPlayed: 5, AvgPoints: fptr(20)},
		"4": models.BasketballStats{GamesPlayed: 2, AvgPoints: fptr(4)},
		"5": models.BasketballStats{GamesPlayed: 3, AvgPoints: fptr(11)},
	}

	ranked := RankRosterByRelevance(players, stats, league.Lookup("NBA").PrimaryStat)

	got := make([]string, len(ranked))
	for i, p := range ranked {
		got[i] = p.ID
	}
	// games first by points, then Adams, Baker, Zimmer
	want := []string{"3", "5", "4", "2", "6", "1"}
	if !equal(got, want) {
		t.Errorf("RankRosterByRelevance() = %v, want %v", got, want)
	}
}

func TestRankRosterCollation(t *testing.T) {
	players := []models.Athlete{
		{ID: "1", LastName: "Ötzi"},
		{ID: "2", LastName: "de Rossi"},
		{ID: "3", LastName: "Zubac"},
		{ID: "4", LastName: "Anderson"},
	}
	ranked := RankRosterByRelevance(players, nil, league.Lookup("NBA").PrimaryStat)

	got := make([]string, len(ranked))
	for i, p := range ranked {
		got[i] = p.ID
	}
	want := []string{"4", "2", "1", "3"}
	if !equal(got, want) {
		t.Errorf("collated order = %v, want %v", got, want)
	}
}

func TestGroupByEvent(t *testing.T) {
	withEvent := func(id, title string) models.Market {
		m := market(id, `["0.5"]`)
		if title != "" {
			m.Events = []models.Event{{ID: models.FlexString("e-" + title), Title: title}}
		}
		return m
	}

	markets := []models.Market{
		withEvent("1", "NBA MVP"),
		withEvent("2", "Lakers vs. Celtics"),
		withEvent("3", "NBA MVP"),
		withEvent("4", ""),
	}

	groups := GroupByEvent(markets, "Other Markets")
	if len(groups) != 3 {
		t.Fatalf("Expected 3 groups, got %d", len(groups))
	}

	wantTitles := []string{"NBA MVP", "Lakers vs. Celtics", "Other Markets"}
	for i, g := range groups {
		if g.Title != wantTitles[i] {
			t.Errorf("group %d title = %q, want %q", i, g.Title, wantTitles[i])
		}
	}
	if !equal(ids(groups[0].Markets), []string{"1", "3"}) {
		t.Errorf("Unexpected MVP markets: %v", ids(groups[0].Markets))
	}
	if groups[0].ID != "e-NBA MVP" {
		t.Errorf("Expected event id carried over, got %q", groups[0].ID)
	}
}
