package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/capture/config"
	"github.com/pthm-cable/capture/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics, with a simulated player")
	logStats := flag.Bool("log-stats", false, "Output per-round stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxRounds := flag.Int("max-rounds", 0, "Stop after N finished rounds (0 = unlimited)")
	verbose := flag.Bool("v", false, "Enable debug logging")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Seed:      rngSeed,
		LogStats:  *logStats,
		OutputDir: *outputDir,
		Headless:  *headless,
	}

	// Round numbering starts at 1 with the first batch
	done := func(g *game.Game) bool {
		return *maxRounds > 0 && g.Round() > *maxRounds
	}

	if *headless {
		if *maxRounds == 0 {
			slog.Warn("headless run without -max-rounds will not stop on its own")
		}

		g, err := game.NewGameWithOptions(opts)
		if err != nil {
			slog.Error("failed to start", "error", err)
			os.Exit(1)
		}

		slog.Info("starting headless run",
			"seed", rngSeed,
			"max_rounds", *maxRounds,
			"output_dir", g.OutputDir(),
		)

		for !done(g) {
			g.UpdateHeadless()
		}
		slog.Info("max rounds reached", "rounds", *maxRounds, "frames", g.Frames())

		if err := g.Unload(); err != nil {
			slog.Error("failed to flush output", "error", err)
			os.Exit(1)
		}
		return
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Capture")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		return
	}
	defer func() {
		if err := g.Unload(); err != nil {
			slog.Error("failed to flush output", "error", err)
		}
	}()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if done(g) {
			break
		}
	}
}
