package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/capture/round"
	"github.com/pthm-cable/capture/telemetry"
)

// Inspector shows the traits of the entity under the cursor and a summary of
// the last finished round.
type Inspector struct {
	renderer *Renderer
	width    int32
}

// NewInspector creates an inspector panel of the given width.
func NewInspector(width int32) *Inspector {
	return &Inspector{renderer: NewRenderer(), width: width}
}

// DrawEntity draws the trait panel for a hovered entity at the bottom left.
func (in *Inspector) DrawEntity(ent round.Entity, screenHeight int32) {
	r := in.renderer
	th := r.Theme
	t := ent.Trait

	height := th.Padding*2 + th.LineHeight*8
	x := th.Padding
	y := screenHeight - height - 40
	r.DrawPanel(x, y, in.width, height)

	x += th.Padding
	y += th.Padding
	y = r.DrawSectionHeader(x, y, fmt.Sprintf("Entity #%d", t.ID))

	cr, cg, cb := t.RGB255()
	y = r.DrawColorSwatch(x, y, "Color", rl.Color{R: cr, G: cg, B: cb, A: 255}, t.Hex())
	y = r.DrawLabelValue(x, y, "Hue", fmt.Sprintf("%.3f", t.Hue))
	y = r.DrawLabelValue(x, y, "Saturation", fmt.Sprintf("%.3f", t.Saturation))
	y = r.DrawLabelValue(x, y, "Value", fmt.Sprintf("%.3f", t.Value))
	y = r.DrawLabelValue(x, y, "Size", fmt.Sprintf("%.3f", t.Size))

	lineage := "random"
	if t.Inherited() {
		lineage = fmt.Sprintf("child of #%d", t.ParentID)
	}
	r.DrawLabelValue(x, y, "Origin", fmt.Sprintf("gen %d, %s", t.Generation, lineage))
}

// DrawRoundStats draws the last finished round's summary at the top right.
func (in *Inspector) DrawRoundStats(s telemetry.RoundStats, screenWidth int32) {
	r := in.renderer
	th := r.Theme

	height := th.Padding*2 + th.LineHeight*6
	x := screenWidth - in.width - th.Padding
	y := int32(60)
	r.DrawPanel(x, y, in.width, height)

	x += th.Padding
	y += th.Padding
	y = r.DrawSectionHeader(x, y, fmt.Sprintf("Round %d", s.Round))
	y = r.DrawLabelValue(x, y, "Captured", fmt.Sprintf("%d / %d", s.Captured, s.Spawned))
	y = r.DrawLabelValue(x, y, "Survivors", fmt.Sprintf("%d", s.Survivors))
	y = r.DrawLabelValue(x, y, "Size", fmt.Sprintf("%.2f +/- %.2f", s.SizeMean, s.SizeStd))
	r.DrawLabelValue(x, y, "Taken/left", fmt.Sprintf("%.2f / %.2f", s.CapturedSizeMean, s.SurvivorSizeMean))
}
