// Package render draws a cabinet onto a tcell screen.
package render

import (
	"snag-frenzy/assets"
	"snag-frenzy/internal/bin"
	"snag-frenzy/internal/inventory"
	"snag-frenzy/internal/prize"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Cabinet is everything one frame shows.
type Cabinet struct {
	Coins          int
	Playing        bool
	ClawX          float64
	ClawDown       bool
	TimeRemaining  int
	RoundSeconds   int
	Bin            bin.Bin
	Messages       []string
	Inventory      []inventory.Entry
	Gallery        []prize.Item
	Rounds         int
	ShowCollection bool
}

// Layout constants, in rows.
const (
	titleRow     = 0
	frameTop     = 1
	railRow      = 2
	interiorRows = 10
	pileRows     = 3
	hudRows      = 6
	maxCabinetW  = 64
)

// Renderer draws cabinets onto a tcell screen.
type Renderer struct {
	screen tcell.Screen
	camera *Camera
	width  int // cabinet width including the frame
}

// NewRenderer creates a Renderer for the given screen.
func NewRenderer(screen tcell.Screen) *Renderer {
	r := &Renderer{screen: screen, camera: NewCamera(1, 2)}
	r.Resize()
	return r
}

// Resize recomputes the layout after the terminal size changes.
func (r *Renderer) Resize() {
	w, _ := r.screen.Size()
	r.width = min(max(w, 8), maxCabinetW)
	r.camera.Resize(1, r.width-2)
}

// frameBottom is the row of the lower cabinet edge.
func frameBottom() int { return railRow + interiorRows }

// DrawFrame renders the cabinet, the HUD and, if asked, the collection.
func (r *Renderer) DrawFrame(c Cabinet) {
	r.screen.Clear()
	r.drawTitle()
	r.drawBox()
	r.drawBin(c.Bin)
	r.drawClaw(c.ClawX, c.ClawDown)
	r.DrawHUD(c)
	if c.ShowCollection {
		r.DrawCollection(c.Inventory, c.Gallery)
	}
	r.screen.Show()
}

func (r *Renderer) drawTitle() {
	x := max(0, (r.width-runewidth.StringWidth(assets.Title))/2)
	r.drawText(x, titleRow, assets.Title, tcell.StyleDefault.Foreground(colorTitle).Bold(true))
}

func (r *Renderer) drawBox() {
	style := tcell.StyleDefault.Foreground(colorFrame)
	bottom := frameBottom()
	right := r.width - 1
	for x := 1; x < right; x++ {
		r.screen.SetContent(x, frameTop, '─', nil, style)
		r.screen.SetContent(x, bottom, '─', nil, style)
	}
	for y := frameTop + 1; y < bottom; y++ {
		r.screen.SetContent(0, y, '│', nil, style)
		r.screen.SetContent(right, y, '│', nil, style)
	}
	r.screen.SetContent(0, frameTop, '┌', nil, style)
	r.screen.SetContent(right, frameTop, '┐', nil, style)
	r.screen.SetContent(0, bottom, '└', nil, style)
	r.screen.SetContent(right, bottom, '┘', nil, style)
}

// pileRow maps a slot's draw offset onto one of the bottom rows. Larger
// offsets sit higher in the pile.
func pileRow(offset int) int {
	level := min(max(offset, 0)/25, pileRows-1)
	return frameBottom() - 1 - level
}

func (r *Renderer) drawBin(b bin.Bin) {
	style := tcell.StyleDefault.Background(tcell.ColorBlack)
	for _, s := range b {
		r.putGlyph(r.camera.ToScreen(s.X), pileRow(s.Offset), assets.Glyph(s.Item), style)
	}
}

// drawClaw draws the claw on the rail, or at the top of the pile with rope
// above it while a grab is in progress.
func (r *Renderer) drawClaw(x float64, down bool) {
	sx := r.camera.ToScreen(x)
	if !down {
		r.putGlyph(sx, railRow, assets.GlyphClawOpen, tcell.StyleDefault)
		return
	}
	clawRow := frameBottom() - pileRows - 1
	ropeStyle := tcell.StyleDefault.Foreground(colorRope)
	for y := railRow; y < clawRow; y++ {
		r.putGlyph(sx, y, assets.GlyphRope, ropeStyle)
	}
	r.putGlyph(sx, clawRow, assets.GlyphClawClosed, tcell.StyleDefault)
}

// putGlyph draws a single glyph (ASCII or multi-rune emoji) at screen position (x, y).
func (r *Renderer) putGlyph(x, y int, glyph string, style tcell.Style) {
	runes := []rune(glyph)
	if len(runes) == 0 {
		return
	}
	mainc := runes[0]
	var combc []rune
	if len(runes) > 1 {
		combc = runes[1:]
	}
	r.screen.SetContent(x, y, mainc, combc, style)
	if runewidth.StringWidth(glyph) == 2 {
		// Fill the second column to avoid rendering artifacts.
		r.screen.SetContent(x+1, y, ' ', nil, style)
	}
}
