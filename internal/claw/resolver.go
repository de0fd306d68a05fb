// Package claw decides what, if anything, the claw comes back up with.
package claw

import (
	"math"

	"snag-frenzy/internal/bin"
	"snag-frenzy/internal/prize"
	"snag-frenzy/internal/rng"
)

// DefaultThreshold is the reach of the claw in bin units. A slot is a
// candidate when its distance to the claw is strictly less than this.
const DefaultThreshold = 40.0

// DefaultFallback is the grip chance for a rarity missing from the table.
const DefaultFallback = 0.8

// DefaultChances is the grip chance per rarity.
var DefaultChances = map[prize.Rarity]float64{
	prize.Common:    0.90,
	prize.Uncommon:  0.70,
	prize.Rare:      0.50,
	prize.UltraRare: 0.30,
	prize.Legendary: 0.15,
}

// Resolver holds the grab tuning.
type Resolver struct {
	Threshold float64
	Chances   map[prize.Rarity]float64
	Fallback  float64
}

// NewResolver returns a Resolver with the default tuning.
func NewResolver() *Resolver {
	chances := make(map[prize.Rarity]float64, len(DefaultChances))
	for r, p := range DefaultChances {
		chances[r] = p
	}
	return &Resolver{Threshold: DefaultThreshold, Chances: chances, Fallback: DefaultFallback}
}

// Chance returns the grip probability for a rarity.
func (r *Resolver) Chance(rarity prize.Rarity) float64 {
	if p, ok := r.Chances[rarity]; ok {
		return p
	}
	return r.Fallback
}

// InReach reports whether a slot at x is a candidate for a claw at clawX.
func (r *Resolver) InReach(x, clawX float64) bool {
	return math.Abs(x-clawX) < r.Threshold
}

// Candidates returns the indexes of in-reach slots, in bin order.
func (r *Resolver) Candidates(b bin.Bin, clawX float64) []int {
	var out []int
	for i, s := range b {
		if r.InReach(s.X, clawX) {
			out = append(out, i)
		}
	}
	return out
}

// Resolve tries each candidate in bin order and returns the first whose trial
// succeeds, removing it from the bin. Order is never changed: an early
// legendary gets its low-odds roll before a later common gets its high-odds one.
func (r *Resolver) Resolve(b *bin.Bin, clawX float64, roll rng.Roller) (prize.Item, bool) {
	for _, i := range r.Candidates(*b, clawX) {
		if rng.Chance(r.Chance((*b)[i].Item.Rarity), roll) {
			return b.Take(i).Item, true
		}
	}
	return prize.Item{}, false
}
