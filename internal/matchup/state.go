// Package matchup drives one market page: it resolves the market, fetches
// both team rosters and fans out per-player stats requests, publishing an
// immutable snapshot after every state transition.
package matchup

import (
	"maps"

	"github.com/rewired-gh/sideline/internal/models"
)

// State is the lifecycle of one asynchronous value.
type State string

const (
	StateLoading State = "loading"
	StateFailed  State = "error"
	StateLoaded  State = "loaded"
)

// Result is a value that is still loading, failed, or loaded.
type Result[T any] struct {
	State State
	Value T
	Err   error
}

// Loading returns a result that has not resolved yet.
func Loading[T any]() Result[T] {
	return Result[T]{State: StateLoading}
}

// Failed returns a result that resolved with err.
func Failed[T any](err error) Result[T] {
	return Result[T]{State: StateFailed, Err: err}
}

// Loaded returns a result that resolved with v.
func Loaded[T any](v T) Result[T] {
	return Result[T]{State: StateLoaded, Value: v}
}

// Done reports whether the result has resolved either way.
func (r Result[T]) Done() bool {
	return r.State != StateLoading
}

// StatsBoard maps athlete id to that athlete's stats result. It is never
// modified in place; With returns an updated copy.
type StatsBoard struct {
	entries map[string]Result[models.PlayerStats]
}

// NewStatsBoard returns a board with every id loading.
func NewStatsBoard(ids ...string) StatsBoard {
	entries := make(map[string]Result[models.PlayerStats], len(ids))
	for _, id := range ids {
		entries[id] = Loading[models.PlayerStats]()
	}
	return StatsBoard{entries: entries}
}

// With returns a copy of the board with id set to r.
func (b StatsBoard) With(id string, r Result[models.PlayerStats]) StatsBoard {
	entries := make(map[string]Result[models.PlayerStats], len(b.entries)+1)
	maps.Copy(entries, b.entries)
	entries[id] = r
	return StatsBoard{entries: entries}
}

// Get returns the result for id.
func (b StatsBoard) Get(id string) (Result[models.PlayerStats], bool) {
	r, ok := b.entries[id]
	return r, ok
}

// Len is the number of tracked athletes.
func (b StatsBoard) Len() int {
	return len(b.entries)
}

// Pending counts results still loading.
func (b StatsBoard) Pending() int {
	n := 0
	for _, r := range b.entries {
		if !r.Done() {
			n++
		}
	}
	return n
}

// LoadedStats returns the stats of every loaded entry, keyed by athlete id.
func (b StatsBoard) LoadedStats() map[string]models.PlayerStats {
	out := make(map[string]models.PlayerStats)
	for id, r := range b.entries {
		if r.State == StateLoaded {
			out[id] = r.Value
		}
	}
	return out
}
