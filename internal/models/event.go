// Package models defines the records the Sideline backend returns: prediction
// markets grouped into events, team rosters, per-player matchup statistics and
// team analytics. The backend is loose about types (arrays encoded as strings,
// ids as numbers or strings, amounts as numeric strings) so the decoding here
// is tolerant and keeps ambiguous fields raw until a view model needs them.
//
// Terminology:
//   - Event: a named grouping of related markets, e.g. all props for one game.
//   - Market: a single binary or multi-outcome contract within an event.
package models

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/rewired-gh/sideline/internal/fields"
)

// Event is a named grouping of markets.
type Event struct {
	ID      FlexString `json:"id,omitempty"`
	Title   string     `json:"title"`
	Slug    string     `json:"slug,omitempty"`
	Markets []Market   `json:"markets"`
}

// Market is a prediction-market record as served by the backend. Outcomes and
// prices are index-aligned JSON arrays embedded in strings; amounts may be
// numbers or numeric strings. The record is read-only.
type Market struct {
	ID            FlexString      `json:"id"`
	Question      string          `json:"question,omitempty"`
	Title         string          `json:"title,omitempty"`
	Description   string          `json:"description,omitempty"`
	Outcomes      json.RawMessage `json:"outcomes,omitempty"`      // e.g. "[\"Yes\", \"No\"]"
	OutcomePrices json.RawMessage `json:"outcomePrices,omitempty"` // e.g. "[\"0.73\", \"0.27\"]"
	Volume        json.RawMessage `json:"volume,omitempty"`
	VolumeNum     json.RawMessage `json:"volumeNum,omitempty"`
	Liquidity     json.RawMessage `json:"liquidity,omitempty"`
	LiquidityNum  json.RawMessage `json:"liquidityNum,omitempty"`
	Image         string          `json:"image,omitempty"`
	Icon          string          `json:"icon,omitempty"`
	Active        *bool           `json:"active,omitempty"`
	Closed        bool            `json:"closed"`
	EndDate       string          `json:"endDate,omitempty"`
	StartDate     string          `json:"startDate,omitempty"`
	Slug          string          `json:"slug,omitempty"`
	ConditionID   string          `json:"conditionId,omitempty"`
	Events        []Event         `json:"events,omitempty"` // parent events, when the backend embeds them
}

// Validate checks the fields a market needs to be addressable.
func (m *Market) Validate() error {
	if m.ID == "" {
		return errors.New("market ID must not be empty")
	}
	if m.Question == "" && m.Title == "" {
		return errors.New("market question or title must not be empty")
	}
	if m.VolumeAmount() < 0 {
		return errors.New("volume must not be negative")
	}
	if m.LiquidityAmount() < 0 {
		return errors.New("liquidity must not be negative")
	}
	return nil
}

// DisplayQuestion returns question, falling back to title.
func (m *Market) DisplayQuestion() string {
	if m.Question != "" {
		return m.Question
	}
	return m.Title
}

// IsActive reports whether the backend flagged the market active. An absent
// flag is not active.
func (m *Market) IsActive() bool {
	return m.Active != nil && *m.Active
}

// OutcomeLabels decodes the outcome labels.
func (m *Market) OutcomeLabels() []string {
	return fields.ParseStringList(fields.ParseEncodedArray(m.Outcomes))
}

// Prices decodes the outcome prices. Unparsable entries are NaN.
func (m *Market) Prices() []float64 {
	return fields.ParseNumericList(fields.ParseEncodedArray(m.OutcomePrices))
}

// VolumeAmount returns volumeNum, falling back to volume, then 0.
func (m *Market) VolumeAmount() float64 {
	return fields.CoerceMoney(fields.FirstPresent(m.VolumeNum, m.Volume), 0)
}

// LiquidityAmount returns liquidityNum, falling back to liquidity, then 0.
func (m *Market) LiquidityAmount() float64 {
	return fields.CoerceMoney(fields.FirstPresent(m.LiquidityNum, m.Liquidity), 0)
}

// EndTime parses endDate. It returns nil when the date is absent or malformed.
func (m *Market) EndTime() *time.Time {
	return ParseTimestamp(m.EndDate)
}

// StartTime parses startDate. It returns nil when the date is absent or malformed.
func (m *Market) StartTime() *time.Time {
	return ParseTimestamp(m.StartDate)
}

// EventTitle returns the title of the first embedded parent event, if any.
func (m *Market) EventTitle() string {
	for _, e := range m.Events {
		if e.Title != "" {
			return e.Title
		}
	}
	return ""
}

var timestampLayouts = []struct {
	layout string
	local  bool
}{
	{time.RFC3339Nano, false},
	{"2006-01-02T15:04:05Z0700", false},
	{"2006-01-02 15:04:05Z07:00", false},
	{"2006-01-02T15:04:05", true},
	{"2006-01-02 15:04:05", true},
	{"2006-01-02", false},
}

// ParseTimestamp parses the ISO-8601 variants the backend emits. Timestamps
// without a zone are read in the local zone and bare dates as UTC midnight.
func ParseTimestamp(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, l := range timestampLayouts {
		loc := time.UTC
		if l.local {
			loc = time.Local
		}
		if t, err := time.ParseInLocation(l.layout, s, loc); err == nil {
			return &t
		}
	}
	return nil
}
