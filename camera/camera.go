// Package camera maps the play area (world units, y up) onto the screen (pixels, y down).
package camera

// Camera fits a rectangular world region into the viewport, preserving aspect
// ratio and centring the result. There is no panning: the whole play area is
// always visible.
type Camera struct {
	// World bounds of the play area
	MinX, MinY, MaxX, MaxY float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Margin in pixels kept clear around the play area
	Margin float32

	// Derived by fit: pixels per world unit, and screen position of (MinX, MaxY)
	Scale            float32
	OffsetX, OffsetY float32
}

// New creates a camera showing the given world bounds in a viewport.
func New(viewportW, viewportH, minX, minY, maxX, maxY, margin float32) *Camera {
	c := &Camera{
		MinX:      minX,
		MinY:      minY,
		MaxX:      maxX,
		MaxY:      maxY,
		ViewportW: viewportW,
		ViewportH: viewportH,
		Margin:    margin,
	}
	c.fit()
	return c
}

// fit recomputes scale and offsets for the current viewport.
func (c *Camera) fit() {
	worldW := c.MaxX - c.MinX
	worldH := c.MaxY - c.MinY
	availW := c.ViewportW - 2*c.Margin
	availH := c.ViewportH - 2*c.Margin
	if availW < 1 {
		availW = 1
	}
	if availH < 1 {
		availH = 1
	}

	c.Scale = min(availW/worldW, availH/worldH)

	// Centre the scaled play area; leftover space becomes letterboxing
	c.OffsetX = (c.ViewportW - worldW*c.Scale) / 2
	c.OffsetY = (c.ViewportH - worldH*c.Scale) / 2
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = c.OffsetX + (wx-c.MinX)*c.Scale
	sy = c.OffsetY + (c.MaxY-wy)*c.Scale
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.MinX + (sx-c.OffsetX)/c.Scale
	wy = c.MaxY - (sy-c.OffsetY)/c.Scale
	return wx, wy
}

// LengthToScreen converts a world distance to pixels.
func (c *Camera) LengthToScreen(l float32) float32 {
	return l * c.Scale
}

// IsVisible returns true if a circle at (wx, wy) with given radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	sx, sy := c.WorldToScreen(wx, wy)
	r := radius * c.Scale
	return sx+r >= 0 && sx-r <= c.ViewportW && sy+r >= 0 && sy-r <= c.ViewportH
}

// Resize updates viewport dimensions and refits the play area.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.fit()
}

// VisibleWorldBounds returns the world-coordinate bounds of the whole viewport,
// letterboxing included. Returns (minX, minY, maxX, maxY).
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	minX, maxY = c.ScreenToWorld(0, 0)
	maxX, minY = c.ScreenToWorld(c.ViewportW, c.ViewportH)
	return
}

// PlayAreaRect returns the play area on screen as (x, y, width, height).
func (c *Camera) PlayAreaRect() (x, y, w, h float32) {
	return c.OffsetX, c.OffsetY, (c.MaxX - c.MinX) * c.Scale, (c.MaxY - c.MinY) * c.Scale
}
