// Package render writes boards, market pages and team analytics as aligned
// plain-text tables for the command line.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/ncruces/go-strftime"

	"github.com/rewired-gh/sideline/internal/matchup"
	"github.com/rewired-gh/sideline/internal/viewmodel"
)

// DefaultTimeFormat is the strftime layout for timestamps.
const DefaultTimeFormat = "%Y-%m-%d %H:%M"

const (
	ansiBold  = "\x1b[1m"
	ansiDim   = "\x1b[2m"
	ansiReset = "\x1b[0m"
)

// Renderer writes text output to w.
type Renderer struct {
	w          io.Writer
	styled     bool
	timeFormat string
	now        func() time.Time
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithStyle enables ANSI bold and dim styling.
func WithStyle(on bool) Option {
	return func(r *Renderer) { r.styled = on }
}

// WithTimeFormat sets the strftime layout used for timestamps.
func WithTimeFormat(layout string) Option {
	return func(r *Renderer) {
		if layout != "" {
			r.timeFormat = layout
		}
	}
}

// WithClock overrides the clock used for relative times.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) { r.now = now }
}

// New creates a renderer writing to w.
func New(w io.Writer, opts ...Option) *Renderer {
	r := &Renderer{w: w, timeFormat: DefaultTimeFormat, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (r *Renderer) bold(s string) string {
	if !r.styled {
		return s
	}
	return ansiBold + s + ansiReset
}

func (r *Renderer) dim(s string) string {
	if !r.styled {
		return s
	}
	return ansiDim + s + ansiReset
}

func (r *Renderer) table() *tabwriter.Writer {
	return tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
}

// Board writes a league board. topN limits cards per section; 0 shows all.
func (r *Renderer) Board(b viewmodel.Board, topN int) error {
	fmt.Fprintf(r.w, "%s  %s\n\n", r.bold(b.League+" Board"), r.dim(strftime.Format(r.timeFormat, b.GeneratedAt)))
	if b.EmptyMessage != "" {
		_, err := fmt.Fprintln(r.w, b.EmptyMessage)
		return err
	}

	now := r.now()
	for _, s := range b.Sections {
		fmt.Fprintln(r.w, r.bold(s.Title))
		if len(s.Cards) == 0 {
			fmt.Fprintf(r.w, "  %s\n\n", s.EmptyMessage)
			continue
		}

		cards := s.Cards
		if topN > 0 && len(cards) > topN {
			cards = cards[:topN]
		}
		tw := r.table()
		fmt.Fprintln(tw, "  MARKET\tCHANCE\tVOLUME\tLIQUIDITY\tENDS\tSTATUS\tID")
		for _, c := range cards {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				c.Title, c.ProbabilityText, c.FormattedVolume,
				orPlaceholder(c.FormattedLiquidity), endsIn(c, now),
				statusText(c), c.ID)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		if rest := len(s.Cards) - len(cards); rest > 0 {
			fmt.Fprintf(r.w, "  %s\n", r.dim(fmt.Sprintf("+%s more", humanize.Comma(int64(rest)))))
		}
		fmt.Fprintln(r.w)
	}
	return nil
}

// Matchup writes a market page with both rosters.
func (r *Renderer) Matchup(v matchup.View) error {
	if v.Error != "" {
		_, err := fmt.Fprintf(r.w, "Error: %s\n", v.Error)
		return err
	}
	if v.Market != nil {
		if err := r.detail(*v.Market); err != nil {
			return err
		}
	}

	for _, col := range v.Teams {
		fmt.Fprintf(r.w, "\n%s %s\n", r.bold(col.Team), r.dim("vs "+col.Opponent))
		if len(col.Players) == 0 {
			fmt.Fprintln(r.w, "  No roster available")
			continue
		}
		tw := r.table()
		fmt.Fprintln(tw, "  #\tPLAYER\tPOS\tVS OPPONENT")
		for _, p := range col.Players {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", orPlaceholder(p.Jersey), p.Name, orPlaceholder(p.Position), statLineText(p.Stats))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	if v.Pending > 0 {
		fmt.Fprintf(r.w, "\n%s\n", r.dim(fmt.Sprintf("%d stat lines still loading", v.Pending)))
	}
	return nil
}

func (r *Renderer) detail(d viewmodel.Detail) error {
	fmt.Fprintln(r.w, r.bold(d.Title))
	if d.Description != "" {
		fmt.Fprintln(r.w, r.dim(d.Description))
	}
	fmt.Fprintf(r.w, "Ends: %s  Status: %s  Volume: %s\n", d.EndsText, d.Status.Label(), d.Card.FormattedVolume)
	if d.StartsText != "" {
		fmt.Fprintf(r.w, "Starts: %s\n", d.StartsText)
	}

	tw := r.table()
	for _, o := range d.Outcomes {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", o.Label, o.PercentText, bar(o.BarWidth))
	}
	return tw.Flush()
}

// Analytics writes the situational stats panels, one per team.
func (r *Renderer) Analytics(panels []viewmodel.TeamAnalytics) error {
	for i, a := range panels {
		if i > 0 {
			fmt.Fprintln(r.w)
		}
		title := a.Team
		if a.Season != "" {
			title += " (" + a.Season + ")"
		}
		fmt.Fprintln(r.w, r.bold(title))

		if a.SplitsError != "" {
			fmt.Fprintf(r.w, "  %s\n", a.SplitsError)
		} else {
			tw := r.table()
			fmt.Fprintln(tw, "  \tRECORD\tWIN%\tPPG\tOPP PPG\t+/-\tFG%\t3P%\tFT%")
			for _, s := range []viewmodel.SplitPanel{a.Home, a.Away} {
				if !s.Available {
					fmt.Fprintf(tw, "  %s\t%s\n", s.Label, s.Message)
					continue
				}
				fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					s.Label, s.Record, s.WinPct, s.PPG, s.OppPPG, s.PlusMinus, s.FGPct, s.ThreePct, s.FTPct)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
		}

		switch f := a.Form; {
		case a.FormError != "":
			fmt.Fprintf(r.w, "  %s\n", a.FormError)
		case !f.Available:
			fmt.Fprintf(r.w, "  %s\n", f.Message)
		default:
			fmt.Fprintf(r.w, "  Last games: %s (%s)  Streak %s  PPG %s  FG%% %s\n", f.Record, f.WinPct, f.Streak, f.PPG, f.FGPct)
			fmt.Fprintf(r.w, "  REB %s  AST %s  STL %s  BLK %s\n", f.Rebounds, f.Assists, f.Steals, f.Blocks)
			for _, g := range f.RecentGames {
				fmt.Fprintf(r.w, "    %s\n", r.dim(g))
			}
		}
	}
	return nil
}

func statLineText(s viewmodel.StatLine) string {
	if len(s.Figures) == 0 {
		if s.Message == "" {
			return s.Context
		}
		return s.Message
	}
	parts := make([]string, 0, len(s.Figures)+2)
	for _, f := range s.Figures {
		parts = append(parts, f.Label+" "+f.Value)
	}
	if s.Note != "" {
		parts = append(parts, s.Note)
	}
	if s.Context != "" {
		parts = append(parts, "("+s.Context+")")
	}
	return strings.Join(parts, "  ")
}

func statusText(c viewmodel.Card) string {
	if len(c.Badges) > 0 {
		return strings.Join(c.Badges, ", ")
	}
	return c.Status.Label()
}

func endsIn(c viewmodel.Card, now time.Time) string {
	if c.EndsAt == nil {
		return viewmodel.Placeholder
	}
	return humanize.RelTime(*c.EndsAt, now, "ago", "from now")
}

func bar(width int64) string {
	n := int(width / 5)
	return strings.Repeat("█", n) + strings.Repeat("░", 20-n)
}

func orPlaceholder(s string) string {
	if s == "" {
		return viewmodel.Placeholder
	}
	return s
}
