// Package game hosts the capture rounds in a raylib window, or headless with a
// simulated player.
package game

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/capture/camera"
	"github.com/pthm-cable/capture/config"
	"github.com/pthm-cable/capture/round"
	"github.com/pthm-cable/capture/session"
	"github.com/pthm-cable/capture/telemetry"
	"github.com/pthm-cable/capture/ui"
)

// Margin in pixels kept clear around the play area.
const playAreaMargin = 40

// Options configures game behavior.
type Options struct {
	Seed      int64
	LogStats  bool
	OutputDir string
	Headless  bool
}

// sprite caches per-entity drawing data.
type sprite struct {
	color rl.Color
}

// Game holds the complete game state.
type Game struct {
	cfg     *config.Config
	session *session.Session

	// Rendering (nil in headless mode)
	camera    *camera.Camera
	hud       *ui.HUD
	inspector *ui.Inspector
	sprites   map[round.Handle]sprite

	perf     *PerfStats
	logStats bool
	paused   bool
	headless bool
	frames   int

	screenWidth, screenHeight float32
}

// NewGameWithOptions creates a game and spawns the first batch. In graphical
// mode the raylib window must already be open.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := config.Cfg()

	g := &Game{
		cfg:          cfg,
		perf:         NewPerfStats(),
		logStats:     opts.LogStats,
		headless:     opts.Headless,
		screenWidth:  cfg.Derived.ScreenW32,
		screenHeight: cfg.Derived.ScreenH32,
	}

	sopts := session.Options{
		Seed:      opts.Seed,
		LogStats:  opts.LogStats,
		OutputDir: opts.OutputDir,
		Bot:       opts.Headless,
		OnStats:   g.onRoundStats,
	}

	if !opts.Headless {
		pa := cfg.PlayArea
		g.camera = camera.New(g.screenWidth, g.screenHeight,
			float32(pa.MinX), float32(pa.MinY), float32(pa.MaxX), float32(pa.MaxY), playAreaMargin)
		g.hud = ui.NewHUD()
		g.inspector = ui.NewInspector(240)
		g.sprites = make(map[round.Handle]sprite, cfg.Round.SpawnCount)

		sopts.OnSpawn = g.onSpawn
		sopts.OnDestroy = g.onDestroy
	}

	s, err := session.New(cfg, sopts)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	g.session = s
	s.Start()

	return g, nil
}

// onSpawn caches the sprite color for a new entity.
func (g *Game) onSpawn(e round.Entity) {
	r, gr, b := e.Trait.RGB255()
	g.sprites[e.Handle] = sprite{color: rl.Color{R: r, G: gr, B: b, A: 255}}
}

func (g *Game) onDestroy(h round.Handle) {
	delete(g.sprites, h)
}

// Round returns the current round number.
func (g *Game) Round() int {
	return g.session.Engine().Round()
}

// Frames returns the number of update calls made so far.
func (g *Game) Frames() int {
	return g.frames
}

// OutputDir returns the CSV directory, or "" when output is disabled.
func (g *Game) OutputDir() string {
	return g.session.OutputDir()
}

// Unload releases resources and flushes telemetry output.
func (g *Game) Unload() error {
	return g.session.Close()
}

// lastStats returns the stats of the previous round, if any.
func (g *Game) lastStats() (telemetry.RoundStats, bool) {
	return g.session.LastStats()
}
