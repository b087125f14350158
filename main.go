package main

import (
	"context"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/memorygrid/internal/game"
	"github.com/robalobadob/memorygrid/internal/i18n"
	"github.com/robalobadob/memorygrid/internal/store"
	"github.com/robalobadob/memorygrid/internal/tui"
)

func main() {
	_ = godotenv.Load()
	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	// the terminal owns stdout, so logs go to a file
	logFile, err := openLogFile(cfg.LogFile)
	if err != nil {
		log.Fatal().Err(err).Msg("open log file")
	}
	defer logFile.Close()
	log.Logger = zerolog.New(logFile).With().Timestamp().Logger()

	if err := i18n.Register(); err != nil {
		log.Fatal().Err(err).Msg("failed to load message catalogs")
	}
	printer := i18n.Printer(cfg.Locale)

	scores, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("db", cfg.DBPath).Msg("open score store")
	}
	defer scores.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal().Err(err).Msg("create terminal screen")
	}
	if err := screen.Init(); err != nil {
		log.Fatal().Err(err).Msg("init terminal screen")
	}
	term := tui.New(screen, printer, log.With().Str("component", "tui").Logger())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []game.Option{
		game.WithTimings(cfg.timings()),
		game.WithPrinter(printer),
		game.WithLogger(log.With().Str("component", "engine").Logger()),
	}
	if cfg.Seed != 0 {
		opts = append(opts, game.WithRand(rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))))
	}
	engine, err := game.New(ctx, term, scores, opts...)
	if err != nil {
		term.Close()
		log.Fatal().Err(err).Msg("start engine")
	}
	log.Info().Str("locale", cfg.Locale).Str("db", cfg.DBPath).Msg("starting memory grid")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer stop()
		return term.Run(gctx, engine)
	})
	g.Go(func() error {
		<-gctx.Done()
		engine.Close()
		term.Close()
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("terminal loop")
	}

	logTopResults(scores)
}

func openStore(cfg Config) (store.Store, error) {
	if cfg.Ephemeral {
		return store.NewMemoryStore(), nil
	}
	return store.OpenSQLite(cfg.DBPath)
}

func openLogFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

func logTopResults(scores store.Store) {
	top, err := scores.TopResults(context.Background(), 5)
	if err != nil {
		log.Warn().Err(err).Msg("read top results")
		return
	}
	for i, r := range top {
		log.Info().
			Int("rank", i+1).
			Str("session", r.Session).
			Int("score", r.Score).
			Int("level", r.Level).
			Int("grid", r.GridSize).
			Time("finished_at", r.FinishedAt).
			Msg("top result")
	}
}
