package render

import (
	"snag-frenzy/internal/prize"

	"github.com/gdamore/tcell/v2"
)

// RarityColors tints names and labels by rarity. Emoji carry their own
// colors, so only text is tinted.
var RarityColors = map[prize.Rarity]tcell.Color{
	prize.Common:    tcell.ColorSilver,
	prize.Uncommon:  tcell.ColorGreen,
	prize.Rare:      tcell.ColorDodgerBlue,
	prize.UltraRare: tcell.ColorMediumPurple,
	prize.Legendary: tcell.ColorGold,
}

// Fixed cabinet colors.
var (
	colorFrame   = tcell.ColorHotPink
	colorTitle   = tcell.ColorYellow
	colorRope    = tcell.ColorGray
	colorMessage = tcell.ColorLightYellow
	colorHelp    = tcell.ColorGray
	colorTimeLow = tcell.ColorRed
	colorTimeOK  = tcell.ColorLime
)

// RarityStyle returns the text style for rarity r.
func RarityStyle(r prize.Rarity) tcell.Style {
	c, ok := RarityColors[r]
	if !ok {
		c = tcell.ColorWhite
	}
	return tcell.StyleDefault.Foreground(c)
}
