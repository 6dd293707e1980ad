package viewmodel

import (
	"strings"
	"time"

	"github.com/rewired-gh/sideline/internal/fields"
	"github.com/rewired-gh/sideline/internal/models"
)

const (
	detailFallbackTitle = "Market Details"
	endsLayout          = "January 2, 2006 3:04 PM"
	startsLayout        = "January 2, 2006"
	dateTBD             = "TBD"

	// TeamSeparator splits head-to-head questions such as "Lakers vs. Celtics".
	TeamSeparator = " vs. "
)

// OutcomeRow is one outcome on the market page.
type OutcomeRow struct {
	Label       string `json:"label"`
	Percent     *int64 `json:"percent,omitempty"`
	PercentText string `json:"percent_text"`
	BarWidth    int64  `json:"bar_width"` // 0..100
}

// Detail is the full market page.
type Detail struct {
	ID          string       `json:"id"`
	Slug        string       `json:"slug,omitempty"`
	ConditionID string       `json:"condition_id,omitempty"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	ImageURL    string       `json:"image_url,omitempty"`
	Outcomes    []OutcomeRow `json:"outcomes"`
	EndsText    string       `json:"ends_text"`
	StartsText  string       `json:"starts_text,omitempty"`
	Status      Status       `json:"status"`
	Card        Card         `json:"card"`
	HomeTeam    string       `json:"home_team,omitempty"`
	AwayTeam    string       `json:"away_team,omitempty"`
}

// BuildDetail builds the market page. End and start dates are rendered in
// now's location.
func BuildDetail(m models.Market, now time.Time) Detail {
	d := Detail{
		ID:          m.ID.String(),
		Slug:        m.Slug,
		ConditionID: m.ConditionID,
		Title:       firstNonEmpty(m.DisplayQuestion(), detailFallbackTitle),
		Description: m.Description,
		ImageURL:    m.Image,
		Outcomes:    buildOutcomeRows(m.OutcomeLabels(), m.Prices()),
		EndsText:    dateTBD,
		Card:        BuildCard(m, CardOptions{}, now),
	}
	d.Status = d.Card.Status

	if end := m.EndTime(); end != nil {
		d.EndsText = end.In(now.Location()).Format(endsLayout)
	}
	if start := m.StartTime(); start != nil {
		d.StartsText = start.In(now.Location()).Format(startsLayout)
	}

	if a, b, ok := SplitTeams(m.DisplayQuestion()); ok {
		d.HomeTeam, d.AwayTeam = a, b
	}
	return d
}

func buildOutcomeRows(labels []string, prices []float64) []OutcomeRow {
	rows := make([]OutcomeRow, 0, len(labels))
	for i, label := range labels {
		row := OutcomeRow{Label: label, PercentText: Placeholder}
		if i < len(prices) && fields.IsPrice(prices[i]) {
			pct := fields.Percent(prices[i])
			row.Percent = &pct
			row.PercentText = FormatPercent(pct)
			row.BarWidth = max(0, min(pct, 100))
		}
		rows = append(rows, row)
	}
	return rows
}

// SplitTeams splits "A vs. B" into its two team names. It reports false unless
// the question has exactly two non-empty sides.
func SplitTeams(question string) (string, string, bool) {
	parts := strings.Split(question, TeamSeparator)
	if len(parts) != 2 {
		return "", "", false
	}
	a, b := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if a == "" || b == "" {
		return "", "", false
	}
	return a, b, true
}
