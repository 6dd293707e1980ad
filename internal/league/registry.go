// Package league holds the per-league behavior of the client: which sport a
// league plays, how market questions are shortened into display titles, and
// which stat ranks a roster.
package league

import (
	"regexp"
	"strings"

	"github.com/rewired-gh/sideline/internal/models"
)

// Rule removes the part of a question matched by Pattern.
type Rule struct {
	Pattern *regexp.Regexp
}

// Apply returns s with every match of the rule removed.
func (r Rule) Apply(s string) string {
	return r.Pattern.ReplaceAllString(s, "")
}

func rule(expr string) Rule {
	return Rule{Pattern: regexp.MustCompile(expr)}
}

// Profile describes one league.
type Profile struct {
	Key            string
	Sport          models.Sport
	TitleRules     []Rule // applied in order
	StatsSupported bool   // per-player stats-vs-opponent endpoint exists
}

// PrimaryStat is the stat rosters are ranked by: average points for
// basketball, average passing yards for football and 0 otherwise.
func (p Profile) PrimaryStat(s models.PlayerStats) float64 {
	switch st := s.(type) {
	case models.BasketballStats:
		return deref(st.AvgPoints)
	case models.FootballStats:
		return deref(st.AvgPassingYards)
	default:
		return 0
	}
}

var seasonSuffix = rule(`(?i)\s+this season\?$`)

var registry = map[string]Profile{
	"NFL": {
		Key:   "NFL",
		Sport: models.SportFootball,
		TitleRules: []Rule{
			rule(`(?i) lead the NFL in passing yards.*$`),
			rule(`(?i) lead the NFL in rushing yards.*$`),
			rule(`(?i) lead the NFL in receiving yards.*$`),
			rule(`(?i)\s+win MVP.*$`),
			seasonSuffix,
		},
		StatsSupported: true,
	},
	"NBA": {
		Key:   "NBA",
		Sport: models.SportBasketball,
		TitleRules: []Rule{
			rule(`(?i) lead the NBA in points.*$`),
			rule(`(?i) lead the NBA in rebounds.*$`),
			rule(`(?i) lead the NBA in assists.*$`),
			rule(`(?i)\s+win MVP.*$`),
			rule(`(?i)\s+win Rookie of the Year.*$`),
			seasonSuffix,
		},
		StatsSupported: true,
	},
	"MLB": {
		Key:   "MLB",
		Sport: models.SportBaseball,
		TitleRules: []Rule{
			rule(`(?i) lead MLB in home runs.*$`),
			rule(`(?i) lead MLB in batting average.*$`),
			rule(`(?i) lead MLB in wins.*$`),
			rule(`(?i)\s+win MVP.*$`),
			rule(`(?i)\s+win Cy Young.*$`),
			seasonSuffix,
		},
	},
}

var defaultProfile = Profile{
	Sport: models.SportUnknown,
	TitleRules: []Rule{
		seasonSuffix,
		rule(`\?$`),
	},
}

// Lookup returns the profile for a league identifier, case-insensitively.
// Unknown leagues get the default profile with Key set to the upper-cased input.
func Lookup(league string) Profile {
	key := strings.ToUpper(strings.TrimSpace(league))
	if p, ok := registry[key]; ok {
		return p
	}
	p := defaultProfile
	p.Key = key
	return p
}

// Known reports whether the league has a dedicated profile.
func Known(league string) bool {
	_, ok := registry[strings.ToUpper(strings.TrimSpace(league))]
	return ok
}

// FromSlug derives the lower-case league from a market slug prefix such as
// "nba-lal-bos-2025-01-01". Only leagues with stats support qualify; otherwise
// fallback is used, and "nba" when fallback is empty.
func FromSlug(slug, fallback string) string {
	prefix, _, _ := strings.Cut(strings.ToLower(slug), "-")
	if p, ok := registry[strings.ToUpper(prefix)]; ok && p.StatsSupported {
		return prefix
	}
	if fallback != "" {
		return strings.ToLower(fallback)
	}
	return "nba"
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
