package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Round         int
	TimeRemaining float64
	TotalCaptured int
	RoundCaptured int
	ArchiveSize   int
	Active        int
	CaptureRate   float64 // captures per second
	CaptureMeter  float64 // CaptureRate scaled into [0,1]
	Paused        bool
	ScreenWidth   int32
	ScreenHeight  int32
}

// HUDActions reports which HUD buttons were pressed this frame.
type HUDActions struct {
	TogglePause bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD and returns the buttons the player pressed.
func (h *HUD) Draw(data HUDData) HUDActions {
	var actions HUDActions
	th := h.renderer.Theme

	rl.DrawText(fmt.Sprintf("Time Remaining: %.1f", data.TimeRemaining), 10, 10, 20, rl.White)
	rl.DrawText(
		fmt.Sprintf("Round: %d | Captured: %d (%d this round) | Archive: %d | Alive: %d",
			data.Round, data.TotalCaptured, data.RoundCaptured, data.ArchiveSize, data.Active),
		10, 35, th.FontSize, th.LabelColor,
	)

	// Capture meter
	meterW := float32(260)
	meterX := float32(data.ScreenWidth) - meterW - 80
	rl.DrawText("Capture rate", int32(meterX), 10, th.FontSize, th.LabelColor)
	gui.ProgressBar(
		rl.Rectangle{X: meterX, Y: 28, Width: meterW, Height: 16},
		"", fmt.Sprintf("%.2f/s", data.CaptureRate),
		float32(data.CaptureMeter), 0, 1,
	)

	label := "Pause"
	if data.Paused {
		label = "Resume"
		rl.DrawText("PAUSED", 10, 55, th.FontSize, rl.Yellow)
	}
	if gui.Button(rl.Rectangle{X: float32(data.ScreenWidth) - 110, Y: float32(data.ScreenHeight) - 40, Width: 100, Height: 30}, label) {
		actions.TogglePause = true
	}

	return actions
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, h.renderer.Theme.FontSize, rl.Gray)
}
