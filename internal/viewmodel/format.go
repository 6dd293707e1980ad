package viewmodel

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Placeholder is shown wherever a value is missing.
const Placeholder = "—"

var thousand = decimal.NewFromInt(1000)

// FormatVolume renders a traded volume: "$2.5k" at or above 1000, otherwise
// whole dollars ("$500", "$0"). Halves round away from zero.
func FormatVolume(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	d := decimal.NewFromFloat(v)
	if v >= 1000 {
		return "$" + d.Div(thousand).StringFixed(1) + "k"
	}
	return "$" + d.StringFixed(0)
}

// FormatLiquidity renders liquidity in whole dollars. It returns "" when the
// amount is not strictly positive so the caller can omit it.
func FormatLiquidity(v float64) string {
	if !(v > 0) || math.IsInf(v, 0) {
		return ""
	}
	return "$" + decimal.NewFromFloat(v).StringFixed(0)
}

// FormatPercent renders a whole-number percentage, e.g. "73%".
func FormatPercent(p int64) string {
	return fmt.Sprintf("%d%%", p)
}

// FormatRecord renders a win-loss record, e.g. "30-11".
func FormatRecord(wins, losses int) string {
	return fmt.Sprintf("%d-%d", wins, losses)
}

// FormatWinPct renders a 0..1 ratio as a percentage with one decimal, e.g. "73.2%".
func FormatWinPct(p float64) string {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return "-"
	}
	return decimal.NewFromFloat(p).Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
}

// FormatStat renders a per-game figure with one decimal, or "-" when absent.
func FormatStat(v *float64) string {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return "-"
	}
	return decimal.NewFromFloat(*v).StringFixed(1)
}

// FormatSigned renders a differential with an explicit sign, e.g. "+6.1".
// Zero renders as "+0.0".
func FormatSigned(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	s := decimal.NewFromFloat(v).StringFixed(1)
	if v >= 0 {
		return "+" + s
	}
	return s
}

// formatFixed renders a value with the given decimals, or the placeholder.
func formatFixed(v *float64, places int32) string {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return Placeholder
	}
	return decimal.NewFromFloat(*v).StringFixed(places)
}
