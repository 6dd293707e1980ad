package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/rewired-gh/sideline/internal/config"
	"github.com/rewired-gh/sideline/internal/logger"
	"github.com/rewired-gh/sideline/internal/matchup"
	"github.com/rewired-gh/sideline/internal/render"
	"github.com/rewired-gh/sideline/internal/server"
	"github.com/rewired-gh/sideline/internal/sideline"
	"github.com/rewired-gh/sideline/internal/telegram"
	"github.com/rewired-gh/sideline/internal/viewmodel"
)

var (
	configPath = flag.String("config", "", "Path to configuration file (optional)")
	topN       = flag.Int("top", 0, "Cards per section on boards (0 = all, digest uses telegram.top_n)")
	season     = flag.String("season", "", "Season override, e.g. 2024-25")
	gamesBack  = flag.Int("games-back", 0, "Recent-form sample size override")
	asJSON     = flag.Bool("json", false, "Print view models as JSON instead of tables")
	timeFormat = flag.String("time-format", render.DefaultTimeFormat, "strftime layout for timestamps")
)

const usage = `Usage: sideline [flags] <command> [args]

Commands:
  board <league>                 Show a league board
  market <id>                    Show a market page with both rosters
  analytics <league> <team>...   Show location splits and recent form
  serve                          Run the JSON API
  digest <league>                Send a league board digest to Telegram

Flags:
`

func main() {
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *season != "" {
		cfg.Matchup.Season = *season
	}
	if *gamesBack > 0 {
		cfg.Matchup.GamesBack = *gamesBack
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	defer logger.Sync()

	// Setup graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	registry := prometheus.NewRegistry()
	client := sideline.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout,
		sideline.WithUserAgent(cfg.Backend.UserAgent),
		sideline.WithRetries(cfg.Backend.MaxRetries, cfg.Backend.RetryDelayBase),
		sideline.WithMetrics(sideline.NewMetrics(registry)),
	)

	out := render.New(os.Stdout,
		render.WithStyle(render.IsTerminal(os.Stdout)),
		render.WithTimeFormat(*timeFormat),
	)

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "board":
		err = runBoard(ctx, client, out, rest)
	case "market":
		err = runMarket(ctx, client, out, cfg, rest)
	case "analytics":
		err = runAnalytics(ctx, client, out, cfg, rest)
	case "serve":
		err = runServe(ctx, client, cfg, registry)
	case "digest":
		err = runDigest(ctx, client, cfg, rest)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Fatal("%s failed: %v", cmd, err)
	}
}

func requireArgs(args []string, n int, what string) error {
	if len(args) < n {
		return fmt.Errorf("missing %s", what)
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runBoard(ctx context.Context, client *sideline.Client, out *render.Renderer, args []string) error {
	if err := requireArgs(args, 1, "league"); err != nil {
		return err
	}
	events, err := client.FetchLeague(ctx, args[0])
	if err != nil {
		return err
	}
	board := viewmodel.BuildBoard(events, args[0], time.Now())
	logger.Debug("Built %s board: %d sections, %d cards", board.League, len(board.Sections), board.CardCount())
	if *asJSON {
		return printJSON(board)
	}
	return out.Board(board, *topN)
}

func runMarket(ctx context.Context, client *sideline.Client, out *render.Renderer, cfg *config.Config, args []string) error {
	var id string
	if len(args) > 0 {
		id = args[0]
	}
	session := matchup.NewSession(client, id,
		matchup.WithDefaultLeague(cfg.Matchup.DefaultLeague),
		matchup.WithConcurrency(cfg.Matchup.StatsConcurrency),
	)
	snap, err := session.Load(ctx)
	var le *matchup.LoadError
	if err != nil && !errors.As(err, &le) {
		return err
	}

	view := matchup.BuildView(snap, time.Now())
	if *asJSON {
		return printJSON(view)
	}
	if err := out.Matchup(view); err != nil {
		return err
	}
	if le != nil {
		return le
	}
	return nil
}

func runAnalytics(ctx context.Context, client *sideline.Client, out *render.Renderer, cfg *config.Config, args []string) error {
	if err := requireArgs(args, 2, "league and team"); err != nil {
		return err
	}
	panels := matchup.LoadAnalytics(ctx, client, args[0], cfg.Matchup.Season, cfg.Matchup.GamesBack, args[1:]...)
	if *asJSON {
		return printJSON(panels)
	}
	return out.Analytics(panels)
}

func runServe(ctx context.Context, client *sideline.Client, cfg *config.Config, registry *prometheus.Registry) error {
	opts := server.Options{
		DefaultLeague:    cfg.Matchup.DefaultLeague,
		Season:           cfg.Matchup.Season,
		GamesBack:        cfg.Matchup.GamesBack,
		StatsConcurrency: cfg.Matchup.StatsConcurrency,
		CORSOrigins:      cfg.Server.CORSOrigins,
		RequestTimeout:   cfg.Server.RequestTimeout,
	}
	if cfg.Server.MetricsEnabled {
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		opts.Registry = registry
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.New(client, opts).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Serving on %s (backend %s)", cfg.Server.Addr, cfg.Backend.BaseURL)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("Shutdown signal received, cleaning up...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("Service stopped")
	return nil
}

func runDigest(ctx context.Context, client *sideline.Client, cfg *config.Config, args []string) error {
	if err := requireArgs(args, 1, "league"); err != nil {
		return err
	}
	if !cfg.Telegram.Enabled {
		return errors.New("telegram is disabled; set telegram.enabled")
	}

	tg, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.MaxRetries, cfg.Telegram.RetryDelayBase)
	if err != nil {
		return err
	}

	events, err := client.FetchLeague(ctx, args[0])
	if err != nil {
		return err
	}
	top := cfg.Telegram.TopN
	if *topN > 0 {
		top = *topN
	}
	return tg.SendBoard(ctx, viewmodel.BuildBoard(events, args[0], time.Now()), top)
}
