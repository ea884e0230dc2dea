package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"betsight/config"
	"betsight/internal/adapters/notify"
	"betsight/internal/adapters/storage"
	"betsight/internal/analytics"
	"betsight/internal/domain"
	"betsight/internal/session"
	"betsight/internal/simulator"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	bets := flag.Int("bets", 0, "number of simulated bets (overrides config)")
	seed := flag.Int64("seed", time.Now().UnixNano(), "RNG seed for a reproducible session")
	balance := flag.Float64("balance", 0, "initial balance (overrides config)")
	persona := flag.String("persona", "", "betting persona: baby-betsy|midlife-mike|yolo-yolanda")
	live := flag.Bool("live", false, "pace bets in real time instead of the virtual clock")
	table := flag.Bool("table", false, "print the full report tables (default: compact 1-line)")
	history := flag.Bool("history", false, "print archived session history and exit")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	if *bets > 0 {
		cfg.Simulator.Bets = *bets
	}
	if *balance > 0 {
		cfg.Simulator.InitialBalance = *balance
	}
	if *persona != "" {
		cfg.Simulator.Persona = *persona
	}

	p, ok := simulator.Personas[cfg.Simulator.Persona]
	if !ok {
		slog.Error("unknown persona", "persona", cfg.Simulator.Persona)
		os.Exit(1)
	}

	store, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
		os.Exit(1)
	}
	defer store.Close()

	console := notify.NewConsole(*table)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *history {
		sessions, err := store.ListSessions(ctx, time.Time{}, time.Now().UTC())
		if err != nil {
			slog.Error("failed to list sessions", "err", err)
			os.Exit(1)
		}
		console.PrintHistory(sessions)
		return
	}

	slog.Info("betsight starting",
		"persona", p.ID,
		"bets", cfg.Simulator.Bets,
		"balance", cfg.Simulator.InitialBalance,
		"seed", *seed,
		"live", *live,
	)

	tracker := session.New(store)
	engine := analytics.New(cfg.EngineConfig())

	sim := simulator.New(simulator.Config{
		Seed:           *seed,
		Bets:           cfg.Simulator.Bets,
		InitialBalance: cfg.Simulator.InitialBalance,
		Persona:        p,
		Live:           *live,
	})

	archived, err := sim.Run(ctx, tracker)
	if err != nil {
		slog.Error("simulation failed", "err", err)
		os.Exit(1)
	}

	prior, err := store.ListSessions(ctx, time.Time{}, archived.StartTime)
	if err != nil {
		slog.Warn("could not load prior sessions for trend", "err", err)
	}

	snapshot := engine.Snapshot(*archived, prior...)
	console.PrintSnapshot(*archived, snapshot)

	// Advisory de ejemplo: qué pasaría con una apuesta más en las mismas condiciones
	proposed := nextBetProposal(p, archived.EffectiveFinalBalance())
	assessment := engine.AssessBet(archived.Events, archived.EffectiveFinalBalance(), proposed)
	if *table {
		console.PrintAssessment(proposed, assessment)
	}

	slog.Info("betsight done",
		"score", snapshot.ResponsibleGamblingScore,
		"riskLevel", snapshot.RiskLevel,
		"patterns", len(snapshot.DetectedPatterns),
	)
}

// nextBetProposal construye la apuesta hipotética "una más" para el advisory.
func nextBetProposal(p simulator.Persona, bankroll float64) domain.ProposedBet {
	bt := simulator.Catalog[0] // Coin Flip como baseline
	return domain.ProposedBet{
		GameType:   bt.Name,
		BetAmount:  bankroll * p.BetPct,
		Multiplier: bt.Multiplier,
		WinChance:  bt.WinChance * 100,
	}
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
