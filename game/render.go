package game

import (
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/capture/round"
	"github.com/pthm-cable/capture/ui"
)

const controlsText = "Click: capture | Space: pause | F11: fullscreen"

// Draw renders the current frame.
func (g *Game) Draw() {
	start := time.Now()
	th := ui.DefaultTheme()

	rl.BeginDrawing()
	rl.ClearBackground(th.Background)

	// Play area
	x, y, w, h := g.camera.PlayAreaRect()
	rl.DrawRectangleV(rl.Vector2{X: x, Y: y}, rl.Vector2{X: w, Y: h}, th.PlayArea)
	rl.DrawRectangleLinesEx(rl.Rectangle{X: x, Y: y, Width: w, Height: h}, 1, th.PlayAreaBorder)

	// Hovered re-checks liveness, so an entity torn down by this frame's step is not shown
	hovered, hasHovered := g.session.Hovered()
	g.drawEntities(th, hovered, hasHovered)

	engine := g.session.Engine()
	actions := g.hud.Draw(ui.HUDData{
		Round:         engine.Round(),
		TimeRemaining: engine.TimeRemaining(),
		TotalCaptured: engine.TotalCaptured(),
		RoundCaptured: engine.RoundCaptured(),
		ArchiveSize:   engine.ArchiveSize(),
		Active:        engine.ActiveCount(),
		CaptureRate:   engine.CaptureRate(),
		CaptureMeter:  engine.CaptureMeter(),
		Paused:        g.paused,
		ScreenWidth:   int32(g.screenWidth),
		ScreenHeight:  int32(g.screenHeight),
	})
	if actions.TogglePause {
		g.paused = !g.paused
	}

	if stats, ok := g.lastStats(); ok {
		g.inspector.DrawRoundStats(stats, int32(g.screenWidth))
	}
	if hasHovered {
		g.inspector.DrawEntity(hovered, int32(g.screenHeight))
	}
	g.hud.DrawControls(int32(g.screenHeight), controlsText)

	rl.EndDrawing()
	g.perf.Record("draw", time.Since(start))
}

// drawEntities draws every live entity as a filled circle, in engine order so
// that the one drawn last is the one a click picks.
func (g *Game) drawEntities(th ui.Theme, hovered round.Entity, hasHovered bool) {
	for _, e := range g.session.Engine().Entities() {
		sp, ok := g.sprites[e.Handle]
		if !ok {
			continue
		}
		if !g.camera.IsVisible(e.Position.X, e.Position.Y, e.Body.Radius) {
			continue
		}

		sx, sy := g.camera.WorldToScreen(e.Position.X, e.Position.Y)
		r := g.camera.LengthToScreen(e.Body.Radius)
		center := rl.Vector2{X: sx, Y: sy}
		rl.DrawCircleV(center, r, sp.color)

		if hasHovered && hovered.Handle == e.Handle {
			rl.DrawCircleLinesV(center, r+2, th.Highlight)
		}
	}
}
