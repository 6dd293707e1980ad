package matchup

import (
	"time"

	"github.com/rewired-gh/sideline/internal/league"
	"github.com/rewired-gh/sideline/internal/models"
	"github.com/rewired-gh/sideline/internal/ranking"
	"github.com/rewired-gh/sideline/internal/viewmodel"
)

// PlayerRow is one roster entry with its stat line against the opponent.
type PlayerRow struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Jersey   string             `json:"jersey,omitempty"`
	Position string             `json:"position,omitempty"`
	PhotoURL string             `json:"photo_url,omitempty"`
	Stats    viewmodel.StatLine `json:"stats"`
}

// TeamColumn is one side of the matchup.
type TeamColumn struct {
	Team     string      `json:"team"`
	Opponent string      `json:"opponent"`
	Players  []PlayerRow `json:"players"`
}

// View is the renderable market page.
type View struct {
	SessionID string            `json:"session_id"`
	Phase     Phase             `json:"phase"`
	Error     string            `json:"error,omitempty"`
	League    string            `json:"league,omitempty"`
	Market    *viewmodel.Detail `json:"market,omitempty"`
	Teams     []TeamColumn      `json:"teams,omitempty"`
	Pending   int               `json:"pending"`
}

// BuildView renders a snapshot. Rosters are ordered by relevance using
// whatever stats have loaded so far.
func BuildView(snap Snapshot, now time.Time) View {
	v := View{
		SessionID: snap.SessionID,
		Phase:     snap.Phase,
		Error:     snap.Error,
		League:    snap.League,
		Pending:   snap.Stats.Pending(),
	}
	if snap.Market != nil {
		d := viewmodel.BuildDetail(*snap.Market, now)
		v.Market = &d
	}
	if snap.Phase == PhaseStats || snap.Phase == PhaseReady {
		v.Teams = []TeamColumn{
			buildColumn(snap, snap.TeamA, snap.TeamB, snap.RosterA),
			buildColumn(snap, snap.TeamB, snap.TeamA, snap.RosterB),
		}
	}
	return v
}

func buildColumn(snap Snapshot, team, opponent string, roster []models.Athlete) TeamColumn {
	profile := league.Lookup(snap.League)
	ranked := ranking.RankRosterByRelevance(roster, snap.Stats.LoadedStats(), profile.PrimaryStat)

	col := TeamColumn{Team: team, Opponent: opponent, Players: make([]PlayerRow, 0, len(ranked))}
	for _, a := range ranked {
		row := PlayerRow{
			ID:       a.ID,
			Name:     a.FullName,
			Jersey:   a.Jersey,
			Position: a.Position,
			PhotoURL: a.PhotoURL,
		}
		switch r, ok := snap.Stats.Get(a.ID); {
		case !profile.StatsSupported:
			row.Stats = viewmodel.UnsupportedStatLine(snap.League)
		case !ok || r.State == StateLoading:
			row.Stats = viewmodel.LoadingStatLine(opponent)
		case r.State == StateFailed:
			row.Stats = viewmodel.FailedStatLine()
		default:
			row.Stats = viewmodel.BuildStatLine(r.Value, snap.League, opponent)
		}
		col.Players = append(col.Players, row)
	}
	return col
}
