// Package session ties a round engine to its telemetry: the stats collector,
// the CSV output and, for headless runs, the simulated player.
package session

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/capture/config"
	"github.com/pthm-cable/capture/player"
	"github.com/pthm-cable/capture/round"
	"github.com/pthm-cable/capture/telemetry"
	"github.com/pthm-cable/capture/traits"
)

// Options configures a Session.
type Options struct {
	Seed      int64
	LogStats  bool   // log each round's stats via slog
	OutputDir string // CSV output directory, empty disables
	Bot       bool   // let the simulated player make captures

	// Forwarded from the engine for hosts that mirror entities (sprites).
	OnSpawn   func(round.Entity)
	OnDestroy func(round.Handle)

	// OnStats is called after each finished round has been recorded.
	OnStats func(telemetry.RoundStats)

	Logger *slog.Logger
}

// Session owns one play session.
type Session struct {
	cfg    *config.Config
	opts   Options
	log    *slog.Logger
	engine *round.Engine

	collector *telemetry.Collector
	output    *telemetry.OutputManager
	bot       *player.Bot

	lastStats telemetry.RoundStats
	hasStats  bool
	writeErr  error

	// Entity under the cursor, as last picked by Hover
	hovered  round.Handle
	hasHover bool
}

// New creates a session. Output files are created immediately when
// opts.OutputDir is set; call Close to flush them.
func New(cfg *config.Config, opts Options) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Session{
		cfg:       cfg,
		opts:      opts,
		log:       logger,
		collector: telemetry.NewCollector(),
	}

	engine, err := round.New(cfg, round.Options{
		Seed:       opts.Seed,
		OnSpawn:    opts.OnSpawn,
		OnDestroy:  opts.OnDestroy,
		OnCapture:  s.onCapture,
		OnRoundEnd: s.onRoundEnd,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}
	s.engine = engine

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	s.output = output
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	if opts.Bot {
		// Separate stream so the bot's rolls never shift the spawn sequence
		s.bot = player.New(cfg.Player, opts.Seed+1)
	}

	return s, nil
}

// Start spawns the first batch.
func (s *Session) Start() {
	s.engine.AdvanceRound()
	s.log.Info("session started",
		"seed", s.opts.Seed,
		"spawn_count", s.cfg.Round.SpawnCount,
		"round_duration", s.cfg.Round.Duration,
		"selection", s.cfg.Round.Selection,
	)
}

// Step runs the simulated player (if any) and then advances the round timer.
func (s *Session) Step(dt float64) {
	if s.bot != nil {
		s.bot.Step(s.engine, dt)
	}
	s.engine.Tick(dt)
}

// Capture reports a player capture.
func (s *Session) Capture(h round.Handle) {
	s.engine.ReportCapture(h)
}

// Hover picks the entity at world point (x, y) as the hovered one.
func (s *Session) Hover(x, y float32) (round.Entity, bool) {
	ent, ok := s.engine.EntityAt(x, y)
	s.hovered, s.hasHover = ent.Handle, ok
	return ent, ok
}

// Hovered returns the hovered entity while it is still live. Once it has been
// captured or torn down at round end, the hover is cleared.
func (s *Session) Hovered() (round.Entity, bool) {
	if !s.hasHover {
		return round.Entity{}, false
	}
	ent, ok := s.engine.Lookup(s.hovered)
	if !ok {
		s.hasHover = false
	}
	return ent, ok
}

// Engine returns the underlying round engine.
func (s *Session) Engine() *round.Engine {
	return s.engine
}

// LastStats returns the stats of the most recently finished round.
func (s *Session) LastStats() (telemetry.RoundStats, bool) {
	return s.lastStats, s.hasStats
}

// OutputDir returns the CSV directory, or "" when output is disabled.
func (s *Session) OutputDir() string {
	return s.output.Dir()
}

// Close flushes output files. It also reports the first write error seen
// during the session.
func (s *Session) Close() error {
	if err := s.output.Close(); err != nil {
		return err
	}
	return s.writeErr
}

func (s *Session) onCapture(t traits.Trait) {
	s.collector.RecordCapture(t)
}

func (s *Session) onRoundEnd(sum round.Summary) {
	stats := s.collector.Flush(sum)
	s.lastStats = stats
	s.hasStats = true

	if err := s.output.WriteRound(stats); err != nil {
		s.recordWriteErr(err)
	}
	if err := s.output.WriteArchive(sum.Survivors, sum.Round); err != nil {
		s.recordWriteErr(err)
	}

	if s.opts.LogStats && s.cfg.Telemetry.LogRounds {
		stats.LogStats()
	}

	if s.opts.OnStats != nil {
		s.opts.OnStats(stats)
	}
}

func (s *Session) recordWriteErr(err error) {
	s.log.Error("failed to write telemetry", "error", err)
	if s.writeErr == nil {
		s.writeErr = err
	}
}
