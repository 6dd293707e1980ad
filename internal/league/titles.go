package league

import (
	"regexp"
	"strings"
)

const catchAllTitle = "Any Other"

var (
	willPrefix  = regexp.MustCompile(`^Will\s+`)
	whichPrefix = regexp.MustCompile(`^Which\s+\w+\s+will\s+`)
)

// ExtractShortTitle turns a market question into the name it is about, e.g.
// "Will Patrick Mahomes lead the NFL in passing yards this season?" becomes
// "Patrick Mahomes". It never returns an empty string; when nothing is left
// after cleanup the question is returned unchanged.
func ExtractShortTitle(question, league string) string {
	if strings.Contains(question, "Any Other Player") || strings.Contains(question, "Any Other Team") {
		return catchAllTitle
	}

	cleaned := willPrefix.ReplaceAllString(question, "")
	cleaned = whichPrefix.ReplaceAllString(cleaned, "")

	for _, r := range Lookup(league).TitleRules {
		cleaned = r.Apply(cleaned)
	}

	if cleaned = strings.TrimSpace(cleaned); cleaned == "" {
		return question
	}
	return cleaned
}

// Extractor binds ExtractShortTitle to a league.
func Extractor(league string) func(string) string {
	return func(question string) string {
		return ExtractShortTitle(question, league)
	}
}

var shortTitleEvents = []string{"leader", "mvp", "rookie", "cy young"}

// UsesShortTitles reports whether markets in an event are named after players
// or teams, so their cards should show the short title.
func UsesShortTitles(eventTitle string) bool {
	lower := strings.ToLower(eventTitle)
	for _, kw := range shortTitleEvents {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
