package matchup

import (
	"context"

	"github.com/sourcegraph/conc"

	"github.com/rewired-gh/sideline/internal/logger"
	"github.com/rewired-gh/sideline/internal/models"
	"github.com/rewired-gh/sideline/internal/viewmodel"
)

// AnalyticsBackend is the part of the Sideline API the analytics panel needs.
type AnalyticsBackend interface {
	FetchLocationSplits(ctx context.Context, leagueKey, team, season string) (*models.TeamLocationSplits, error)
	FetchRecentForm(ctx context.Context, leagueKey, team, season string, gamesBack int) (*models.TeamRecentForm, error)
}

type teamFetch struct {
	splits    *models.TeamLocationSplits
	splitsErr error
	form      *models.TeamRecentForm
	formErr   error
}

// LoadAnalytics fetches location splits and recent form for each team. The
// requests run concurrently and fail independently; a failed request becomes
// an inline message on its panel.
func LoadAnalytics(ctx context.Context, backend AnalyticsBackend, leagueKey, season string, gamesBack int, teams ...string) []viewmodel.TeamAnalytics {
	fetched := make([]teamFetch, len(teams))

	var wg conc.WaitGroup
	for i, team := range teams {
		i, team := i, team
		wg.Go(func() {
			fetched[i].splits, fetched[i].splitsErr = backend.FetchLocationSplits(ctx, leagueKey, team, season)
		})
		wg.Go(func() {
			fetched[i].form, fetched[i].formErr = backend.FetchRecentForm(ctx, leagueKey, team, season, gamesBack)
		})
	}
	wg.Wait()

	out := make([]viewmodel.TeamAnalytics, len(teams))
	for i, team := range teams {
		f := fetched[i]
		if f.splitsErr != nil {
			logger.Warn("Location splits for %s failed: %v", team, f.splitsErr)
		}
		if f.formErr != nil {
			logger.Warn("Recent form for %s failed: %v", team, f.formErr)
		}
		out[i] = viewmodel.BuildTeamAnalytics(team, f.splits, f.splitsErr, f.form, f.formErr)
	}
	return out
}
