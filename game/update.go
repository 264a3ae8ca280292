package game

import (
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Update runs one graphical frame: input, then the round timer.
func (g *Game) Update() {
	g.handleInput()
	g.frames++

	if g.paused {
		return
	}

	start := time.Now()
	g.session.Step(float64(rl.GetFrameTime()))
	g.perf.Record("step", time.Since(start))
}

// UpdateHeadless runs one fixed-size step with the simulated player.
func (g *Game) UpdateHeadless() {
	g.frames++

	start := time.Now()
	g.session.Step(g.cfg.Derived.FrameDT)
	g.perf.Record("step", time.Since(start))
}
