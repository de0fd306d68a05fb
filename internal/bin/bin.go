// Package bin decides which prizes sit in the cabinet each round and where.
package bin

import "snag-frenzy/internal/prize"

// Slot is one placed prize. X is the horizontal centre in [0, 100]; Offset and
// Rotation only affect how the prize is drawn.
type Slot struct {
	Item     prize.Item `json:"item"`
	X        float64    `json:"x"`
	Offset   int        `json:"offset"`
	Rotation int        `json:"rotation"`
}

// Bin is the ordered set of slots for the current round. Order matters to the
// grab resolver.
type Bin []Slot

// Clone returns an independent copy.
func (b Bin) Clone() Bin {
	return append(Bin(nil), b...)
}

// Take removes and returns slot i.
func (b *Bin) Take(i int) Slot {
	s := (*b)[i]
	*b = append((*b)[:i], (*b)[i+1:]...)
	return s
}

// CountRarity reports how many slots hold an item of rarity r.
func (b Bin) CountRarity(r prize.Rarity) int {
	n := 0
	for _, s := range b {
		if s.Item.Rarity == r {
			n++
		}
	}
	return n
}
