// Package fields decodes the loosely-typed values the backend sends for market
// records: arrays encoded as JSON strings, and amounts that arrive either as
// numbers or as numeric strings. Every function degrades to an empty or
// fallback value instead of returning an error.
package fields

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// ParseEncodedArray decodes a JSON array that the backend embedded in a string,
// e.g. "[\"Yes\", \"No\"]". Absent, null, non-string, malformed and non-array
// values all yield an empty, non-nil slice.
func ParseEncodedArray(raw json.RawMessage) []any {
	out := []any{}
	if isAbsent(raw) {
		return out
	}

	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return out
	}

	var decoded any
	if err := json.Unmarshal([]byte(encoded), &decoded); err != nil {
		return out
	}
	items, ok := decoded.([]any)
	if !ok {
		return out
	}
	return items
}

// ParseStringList coerces decoded array items to strings.
func ParseStringList(items []any) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, cast.ToString(item))
	}
	return out
}

// ParseNumericList coerces decoded array items to float64. Entries that are not
// finite numbers, including empty strings and infinities, become NaN.
func ParseNumericList(items []any) []float64 {
	out := make([]float64, 0, len(items))
	for _, item := range items {
		out = append(out, toNumber(item))
	}
	return out
}

// CoerceMoney parses an amount that may be a JSON number or a numeric string.
// Absent or unparsable values return fallback.
func CoerceMoney(raw json.RawMessage, fallback float64) float64 {
	if isAbsent(raw) {
		return fallback
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fallback
	}
	n := toNumber(v)
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return fallback
	}
	return n
}

// FirstPresent returns the first value that is truthy in the JavaScript sense.
// Absent, null, false, 0 and "" are skipped. It returns nil when none qualify.
func FirstPresent(raws ...json.RawMessage) json.RawMessage {
	for _, raw := range raws {
		if truthy(raw) {
			return raw
		}
	}
	return nil
}

// FormatPrice renders a price as canonical decimal text, e.g. 0.5 -> "0.5".
func FormatPrice(price float64) string {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return ""
	}
	return decimal.NewFromFloat(price).String()
}

// IsPrice reports whether p is a usable probability in [0, 1].
func IsPrice(p float64) bool {
	return !math.IsNaN(p) && p >= 0 && p <= 1
}

// Percent converts a probability to a whole-number percentage. The
// multiplication is done in decimal so 0.5 yields exactly 50. Prices outside
// [0, 1] are clamped; non-finite input yields 0.
func Percent(price float64) int64 {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0
	}
	price = max(0, min(price, 1))
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func toNumber(v any) float64 {
	switch t := v.(type) {
	case nil, bool:
		return math.NaN()
	case string:
		if strings.TrimSpace(t) == "" {
			return math.NaN()
		}
	}
	n, err := cast.ToFloat64E(v)
	if err != nil || math.IsInf(n, 0) {
		return math.NaN()
	}
	return n
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func truthy(raw json.RawMessage) bool {
	if isAbsent(raw) {
		return false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0 && !math.IsNaN(t)
	case string:
		return t != ""
	default:
		return true
	}
}
