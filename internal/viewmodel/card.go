// Package viewmodel turns backend records into display-ready structures:
// market cards, league boards, market detail pages, player stat lines and
// team analytics panels. Every builder is a pure function of its inputs and
// a caller-supplied clock, and none of them fail; missing or malformed data
// becomes a placeholder.
package viewmodel

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/rewired-gh/sideline/internal/fields"
	"github.com/rewired-gh/sideline/internal/models"
)

const (
	unknownMarketTitle = "Unknown Market"
	defaultOutcome     = "Yes"
	noTradesCaption    = "No trades yet"

	BadgeNotActive = "Not Active Yet"
	BadgeClosed    = "Market Closed"
)

// CardOptions customizes the card title.
type CardOptions struct {
	// TitleOverride replaces the title outright when non-empty.
	TitleOverride string
	// Extract shortens the market question, e.g. league.Extractor("NFL").
	Extract func(question string) string
}

// Card is the summary view of one market.
type Card struct {
	ID                        string     `json:"id"`
	Slug                      string     `json:"slug,omitempty"`
	Title                     string     `json:"title"`
	HasPrice                  bool       `json:"has_price"`
	ImpliedProbabilityPercent *int64     `json:"implied_probability_percent,omitempty"`
	ProbabilityText           string     `json:"probability_text"`
	Caption                   string     `json:"caption"`
	OutcomeLabel              string     `json:"outcome_label"`
	FormattedVolume           string     `json:"formatted_volume"`
	FormattedLiquidity        string     `json:"formatted_liquidity,omitempty"`
	Status                    Status     `json:"status"`
	EndsAt                    *time.Time `json:"ends_at,omitempty"`
	ImageURL                  string     `json:"image_url,omitempty"`
	Initial                   string     `json:"initial,omitempty"`
	Badges                    []string   `json:"badges,omitempty"`
}

// BuildCard builds the card for a market as of now.
func BuildCard(m models.Market, opts CardOptions, now time.Time) Card {
	end := m.EndTime()
	c := Card{
		ID:                 m.ID.String(),
		Slug:               m.Slug,
		Title:              resolveTitle(m, opts),
		OutcomeLabel:       defaultOutcome,
		ProbabilityText:    Placeholder,
		Caption:            noTradesCaption,
		FormattedVolume:    FormatVolume(m.VolumeAmount()),
		FormattedLiquidity: FormatLiquidity(m.LiquidityAmount()),
		Status:             LifecycleStatus(end, now),
		EndsAt:             end,
	}

	prices := m.Prices()
	if len(prices) > 0 && fields.IsPrice(prices[0]) {
		pct := fields.Percent(prices[0])
		c.HasPrice = true
		c.ImpliedProbabilityPercent = &pct
		c.ProbabilityText = FormatPercent(pct)
		if labels := m.OutcomeLabels(); len(labels) > 0 {
			c.OutcomeLabel = labels[0]
		}
		c.Caption = c.OutcomeLabel + " Implied Probability"
	}

	c.ImageURL = firstNonEmpty(m.Image, m.Icon)
	if c.ImageURL == "" {
		c.Initial = initial(c.Title)
	}

	if !m.IsActive() {
		c.Badges = append(c.Badges, BadgeNotActive)
	}
	if m.Closed {
		c.Badges = append(c.Badges, BadgeClosed)
	}
	return c
}

// resolveTitle applies override > extractor > question/title > "Unknown Market".
func resolveTitle(m models.Market, opts CardOptions) string {
	if opts.TitleOverride != "" {
		return opts.TitleOverride
	}
	q := m.DisplayQuestion()
	if q == "" {
		return unknownMarketTitle
	}
	if opts.Extract != nil {
		if t := opts.Extract(q); t != "" {
			return t
		}
	}
	return q
}

func initial(title string) string {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(title))
	if r == utf8.RuneError {
		return ""
	}
	return string(unicode.ToUpper(r))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
