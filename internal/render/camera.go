package render

// Camera translates between cabinet coordinates and screen columns.
// Cabinet X runs from 0 to 100 across the rail; glyphs are 2 columns wide,
// so the last usable column is Left+Width-2.
type Camera struct {
	Left  int // first screen column of the cabinet interior
	Width int // interior width in terminal columns
}

// NewCamera creates a camera for an interior starting at column left.
func NewCamera(left, width int) *Camera {
	return &Camera{Left: left, Width: max(width, 2)}
}

// Resize changes the interior bounds.
func (c *Camera) Resize(left, width int) {
	c.Left = left
	c.Width = max(width, 2)
}

// ToScreen converts a cabinet position in [0, 100] to a screen column.
// Positions outside the range are clamped to the rail.
func (c *Camera) ToScreen(x float64) int {
	x = min(max(x, 0), 100)
	span := c.Width - 2
	return c.Left + int(x*float64(span)/100+0.5)
}

// ToCabinet converts a screen column back to a cabinet position.
func (c *Camera) ToCabinet(sx int) float64 {
	span := c.Width - 2
	if span <= 0 {
		return 0
	}
	x := float64(sx-c.Left) * 100 / float64(span)
	return min(max(x, 0), 100)
}
