package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/duckrace/config"
	"github.com/pthm-cable/duckrace/game"
	"github.com/pthm-cable/duckrace/telemetry"
	"github.com/pthm-cable/duckrace/track"
	"github.com/pthm-cable/duckrace/viewer"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run races without graphics")
	ducks := flag.Int("ducks", 0, "Number of ducks (0 = use config)")
	duration := flag.Float64("duration", 0, "Race duration in seconds (0 = use config)")
	races := flag.Int("races", 1, "Headless: number of races to run back to back")
	logStats := flag.Bool("log-stats", false, "Output field and perf stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, results history and replays")
	saveReplays := flag.Bool("save-replays", false, "Write each race's replay log to the output directory")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Headless: stop each race after N ticks (0 = unlimited)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	setup := game.DefaultSetup(cfg)
	if *ducks > 0 {
		setup.AgentCount = *ducks
	}
	if *duration > 0 {
		setup.DurationSec = *duration
	}

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	opts := game.Options{
		Seed:        rngSeed,
		Logger:      logger,
		Output:      output,
		LogStats:    *logStats,
		SaveReplays: *saveReplays,
	}

	if *headless {
		if err := runHeadless(cfg, opts, setup, *races, *maxTicks); err != nil {
			slog.Error("headless run failed", "error", err)
			output.Close()
			os.Exit(1)
		}
		return
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Duck Race")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	session := game.NewSession(cfg, opts)
	v := viewer.New(session, int32(cfg.Screen.Width), int32(cfg.Screen.Height), output.ResultsPath(), logger)

	for !rl.WindowShouldClose() {
		v.Update()
		v.Draw()
	}
}

// runHeadless runs races on simulated time, as fast as the CPU allows.
func runHeadless(cfg *config.Config, opts game.Options, setup game.Setup, races, maxTicks int) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts.Time = track.NewManualClock(time.Now())
	session := game.NewSession(cfg, opts)

	slog.Info("starting headless races",
		"seed", opts.Seed,
		"races", races,
		"ducks", setup.AgentCount,
		"duration", setup.DurationSec,
		"max_ticks", maxTicks,
	)

	for i := 0; i < races; i++ {
		if err := session.Start(setup); err != nil {
			return err
		}
		if err := session.Run(ctx, maxTicks); err != nil {
			return err
		}
		if session.Phase() != game.PhaseFinished {
			slog.Info("max ticks reached", "race", session.RaceID(), "tick", session.TickCount())
		}
		session.Reset()
	}

	if path := opts.Output.ResultsPath(); path != "" {
		records, err := telemetry.LoadResults(path)
		if err != nil {
			return err
		}
		slog.Info("race history", "summary", telemetry.Summarize(records))
	}
	return nil
}
