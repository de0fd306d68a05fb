package assets

import "snag-frenzy/internal/prize"

// Prize glyphs. Base prizes use emoji so they render in any terminal.
const (
	GlyphRock    = "🪨"
	GlyphCat     = "🐱"
	GlyphDog     = "🐶"
	GlyphHamster = "🐹"
	GlyphRabbit  = "🐰"
	GlyphFrog    = "🐸"
	GlyphAlien   = "👽"
	GlyphNothing = "💨"
	GlyphCustom  = "🧸" // stand-in for submitted images a terminal cannot draw
)

// basePrizes is the fixed catalog every cabinet starts with.
var basePrizes = []prize.Item{
	{Name: "Rock", ImageRef: GlyphRock, Rarity: prize.Common},
	{Name: "Cat", ImageRef: GlyphCat, Rarity: prize.Uncommon},
	{Name: "Dog", ImageRef: GlyphDog, Rarity: prize.Uncommon},
	{Name: "Hamster", ImageRef: GlyphHamster, Rarity: prize.Rare},
	{Name: "Rabbit", ImageRef: GlyphRabbit, Rarity: prize.UltraRare},
	{Name: "Frog", ImageRef: GlyphFrog, Rarity: prize.UltraRare},
	{Name: "Alien", ImageRef: GlyphAlien, Rarity: prize.Legendary},
}

// BasePrizes returns a copy of the base catalog.
func BasePrizes() []prize.Item {
	return append([]prize.Item(nil), basePrizes...)
}

// RarityWeights is the relative frequency table used by the weighted bin fill.
var RarityWeights = map[prize.Rarity]int{
	prize.Common:    50,
	prize.Uncommon:  30,
	prize.Rare:      15,
	prize.UltraRare: 8,
	prize.Legendary: 2,
}

// Glyph returns something drawable for an item. Image URLs and data URLs fall
// back to GlyphCustom.
func Glyph(it prize.Item) string {
	switch {
	case it.Name == prize.NothingName:
		return GlyphNothing
	case it.ImageRef == "":
		return GlyphCustom
	case len(it.ImageRef) > 5 && (it.ImageRef[:5] == "data:" || it.ImageRef[:4] == "url(" || it.ImageRef[:4] == "http"):
		return GlyphCustom
	}
	return it.ImageRef
}
