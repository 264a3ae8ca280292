package game

import rl "github.com/gen2brain/raylib-go/raylib"

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	// Window resize propagation
	g.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	mouse := rl.GetMousePosition()
	wx, wy := g.camera.ScreenToWorld(mouse.X, mouse.Y)
	hovered, ok := g.session.Hover(wx, wy)

	if g.paused || !ok {
		return
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		g.session.Capture(hovered.Handle)
	}
}

// handleResize checks for window resize and refits the camera.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.camera.Resize(w, h)
}
