package render

import (
	"fmt"
	"strings"

	"snag-frenzy/assets"
	"snag-frenzy/internal/inventory"
	"snag-frenzy/internal/prize"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// DrawHUD renders the status line, the last messages and the key help under
// the cabinet.
func (r *Renderer) DrawHUD(c Cabinet) {
	y := frameBottom() + 1
	white := tcell.StyleDefault.Foreground(tcell.ColorWhite)

	x := r.drawText(0, y, fmt.Sprintf("%s x%d  ", assets.GlyphCoin, c.Coins), white)
	if c.Playing {
		x = r.drawText(x, y, assets.GlyphTimer+" ", white)
		x = r.drawTimer(x, y, c.TimeRemaining, c.RoundSeconds)
	} else {
		x = r.drawText(x, y, "insert coin", tcell.StyleDefault.Foreground(colorHelp).Blink(c.Coins > 0))
	}
	r.drawText(x, y, fmt.Sprintf("  %s %d", assets.GlyphTrophy, totalWon(c.Inventory)), white)

	// Message log (last 3 messages).
	start := max(0, len(c.Messages)-3)
	for i, msg := range c.Messages[start:] {
		r.drawText(0, y+1+i, msg, tcell.StyleDefault.Foreground(colorMessage))
	}
	r.drawText(0, y+hudRows-2, assets.HelpLine, tcell.StyleDefault.Foreground(colorHelp))
}

// drawTimer draws a bar of remaining seconds and returns the next column.
func (r *Renderer) drawTimer(x, y, remaining, total int) int {
	total = max(total, 1)
	remaining = min(max(remaining, 0), total)
	style := tcell.StyleDefault.Foreground(colorTimeOK)
	if remaining*3 <= total {
		style = style.Foreground(colorTimeLow)
	}
	bar := strings.Repeat("█", remaining) + strings.Repeat("░", total-remaining)
	x = r.drawText(x, y, bar, style)
	return r.drawText(x, y, fmt.Sprintf(" %ds", remaining), style)
}

// DrawCollection lists won prizes, rarest first, to the right of the cabinet,
// followed by the submitted prizes currently in the pool. Nothing is drawn
// when the terminal is too narrow.
func (r *Renderer) DrawCollection(entries []inventory.Entry, gallery []prize.Item) {
	w, h := r.screen.Size()
	left := r.width + 2
	if w-left < 20 {
		return
	}
	r.drawText(left, titleRow, "COLLECTION", tcell.StyleDefault.Foreground(colorTitle).Bold(true))
	y := frameTop + 1
	if len(entries) == 0 {
		r.drawText(left, y, "nothing yet", tcell.StyleDefault.Foreground(colorHelp))
		y++
	}
	for _, e := range entries {
		if y >= h {
			return
		}
		item := prize.Item{Name: e.Name, ImageRef: e.ImageRef, Rarity: e.Rarity, IsCustom: e.IsCustom, Creator: e.Creator}
		r.drawEntry(left, y, item, fmt.Sprintf("%s x%d ", e.Name, e.Count))
		y++
	}
	if len(gallery) == 0 || y+1 >= h {
		return
	}
	y++
	r.drawText(left, y, "SUBMITTED", tcell.StyleDefault.Foreground(colorTitle).Bold(true))
	for _, it := range gallery {
		y++
		if y >= h {
			return
		}
		r.drawEntry(left, y, it, it.Name+" ")
	}
}

// drawEntry draws one collection line: glyph, label, rarity and creator.
func (r *Renderer) drawEntry(x, y int, it prize.Item, label string) {
	r.putGlyph(x, y, assets.Glyph(it), tcell.StyleDefault)
	x = r.drawText(x+3, y, label, tcell.StyleDefault.Foreground(tcell.ColorWhite))
	x = r.drawText(x, y, it.Rarity.Label(), RarityStyle(it.Rarity))
	if it.IsCustom && !prize.Anonymous(it.Creator) {
		r.drawText(x, y, " by "+it.Creator, tcell.StyleDefault.Foreground(colorHelp))
	}
}

func totalWon(entries []inventory.Entry) int {
	n := 0
	for _, e := range entries {
		n += e.Count
	}
	return n
}

// drawText writes text starting at column x and returns the column after it.
func (r *Renderer) drawText(x, y int, text string, style tcell.Style) int {
	col := x
	for _, ch := range text {
		r.screen.SetContent(col, y, ch, nil, style)
		col += max(runewidth.RuneWidth(ch), 1)
	}
	return col
}
