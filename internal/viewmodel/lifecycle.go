package viewmodel

import "time"

// Status is where a market is in its lifecycle relative to now.
type Status string

const (
	StatusDateTBD  Status = "date_tbd"
	StatusUpcoming Status = "upcoming"
	StatusToday    Status = "today"
	StatusClosed   Status = "closed"
)

// Label returns the display text for the status.
func (s Status) Label() string {
	switch s {
	case StatusUpcoming:
		return "Upcoming"
	case StatusToday:
		return "Today"
	case StatusClosed:
		return "Closed"
	default:
		return "Date TBD"
	}
}

// LifecycleStatus classifies an end date against now. A missing end date is
// DateTBD. An end on the same calendar day as now (in now's location) is
// Today, even if that moment has passed. Any earlier end is Closed and any
// later one is Upcoming, including an end exactly 24 hours from now.
func LifecycleStatus(end *time.Time, now time.Time) Status {
	if end == nil {
		return StatusDateTBD
	}
	e := end.In(now.Location())

	if sameDay(e, now) {
		return StatusToday
	}
	if e.Before(now) {
		return StatusClosed
	}
	if e.Sub(now) > 24*time.Hour {
		return StatusUpcoming
	}
	// Within the next 24 hours but on a later calendar day, which includes
	// the exact +24h boundary.
	return StatusUpcoming
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
