// Package ui draws the capture game's overlays: the HUD, the capture meter and
// the trait inspector.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds UI styling constants.
type Theme struct {
	Background     rl.Color
	PlayArea       rl.Color
	PlayAreaBorder rl.Color
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	Highlight      rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		Background:     rl.Color{R: 12, G: 14, B: 18, A: 255},
		PlayArea:       rl.Color{R: 24, G: 28, B: 34, A: 255},
		PlayAreaBorder: rl.Color{R: 60, G: 70, B: 80, A: 255},
		PanelBg:        rl.Color{R: 20, G: 25, B: 30, A: 240},
		PanelBorder:    rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader:  rl.Yellow,
		LabelColor:     rl.LightGray,
		ValueColor:     rl.RayWhite,
		Highlight:      rl.White,
		Padding:        10,
		LineHeight:     18,
		LabelWidth:     90,
		FontSize:       14,
		HeaderFontSize: 16,
	}
}
