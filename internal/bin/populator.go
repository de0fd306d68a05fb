package bin

import (
	"math/rand"

	"snag-frenzy/internal/prize"
	"snag-frenzy/internal/rng"

	"github.com/mroth/weightedrand/v2"
	"github.com/rs/zerolog"
)

// FillMode picks how the non-guaranteed slots are chosen.
type FillMode uint8

const (
	FillUniform FillMode = iota
	FillWeighted
)

// ParseFillMode maps "uniform" and "weighted"; anything else is uniform.
func ParseFillMode(s string) FillMode {
	if s == "weighted" {
		return FillWeighted
	}
	return FillUniform
}

func (m FillMode) String() string {
	if m == FillWeighted {
		return "weighted"
	}
	return "uniform"
}

// Config controls one call to Populate.
type Config struct {
	MinItems  int // inclusive lower bound on slots per round
	MaxItems  int // inclusive upper bound on slots per round
	MaxCustom int // custom prizes mixed into the working set
	Fill      FillMode
	Weights   map[prize.Rarity]int // used by FillWeighted
	Rand      *rand.Rand
	Logger    zerolog.Logger
}

// DefaultConfig returns the standard cabinet: 5 to 8 prizes, at most 2 custom.
func DefaultConfig(r *rand.Rand) *Config {
	return &Config{
		MinItems:  5,
		MaxItems:  8,
		MaxCustom: 2,
		Fill:      FillUniform,
		Rand:      r,
	}
}

// Populate builds a fresh bin.
//
// Guaranteed items (one common, one uncommon, one rare, and one ultra rare or
// legendary on a coin flip) are spread evenly across the bin. The rest of the
// round's count is filled by picks with replacement at random positions.
// Rarities missing from the working set are skipped. When the guaranteed items
// already meet the count, nothing is filled.
func Populate(base, custom []prize.Item, cfg *Config) Bin {
	itemCount := rng.Between(cfg.Rand, cfg.MinItems, cfg.MaxItems)
	working := WorkingSet(base, custom, cfg)

	guaranteed := Guaranteed(working, cfg.Rand)
	out := make(Bin, 0, max(itemCount, len(guaranteed)))
	for i, it := range guaranteed {
		x := float64(i) * (100 / float64(len(guaranteed)+1))
		out = append(out, place(it, x, cfg.Rand))
	}

	remaining := max(0, itemCount-len(guaranteed))
	available := make([]prize.Item, 0, len(working))
	for _, it := range working {
		if it.Name != prize.NothingName {
			available = append(available, it)
		}
	}
	if len(available) == 0 {
		return out
	}
	pick := uniformPicker(available, cfg.Rand)
	if cfg.Fill == FillWeighted {
		if wp, err := weightedPicker(available, cfg.Weights); err == nil {
			pick = wp
		} else {
			cfg.Logger.Warn().Err(err).Msg("weighted fill unavailable, using uniform")
		}
	}
	for iter := 0; iter < remaining; iter++ {
		it := pick()
		x := float64(rng.Between(cfg.Rand, 5, 95))
		out = append(out, place(it, x, cfg.Rand))
	}
	return out
}

// WorkingSet is the base catalog followed by up to cfg.MaxCustom custom items,
// taken from the front of a shuffled copy of the custom pool.
func WorkingSet(base, custom []prize.Item, cfg *Config) []prize.Item {
	out := append([]prize.Item(nil), base...)
	if len(custom) == 0 || cfg.MaxCustom <= 0 {
		return out
	}
	shuffled := rng.Shuffled(cfg.Rand, custom)
	return append(out, shuffled[:min(cfg.MaxCustom, len(shuffled))]...)
}

// Guaranteed returns the coverage items in placement order. The fourth pick is
// an unweighted coin flip between ultra rare and legendary.
func Guaranteed(working []prize.Item, r *rand.Rand) []prize.Item {
	var out []prize.Item
	for _, rarity := range []prize.Rarity{prize.Common, prize.Uncommon, prize.Rare} {
		if it, ok := prize.ByRarity(working, rarity); ok {
			out = append(out, it)
		}
	}
	top := prize.Legendary
	if r.Float64() > 0.5 {
		top = prize.UltraRare
	}
	if it, ok := prize.ByRarity(working, top); ok {
		out = append(out, it)
	}
	return out
}

func place(it prize.Item, x float64, r *rand.Rand) Slot {
	return Slot{
		Item:     it,
		X:        x,
		Offset:   rng.Between(r, 10, 60),
		Rotation: rng.Between(r, -20, 20),
	}
}

func uniformPicker(items []prize.Item, r *rand.Rand) func() prize.Item {
	return func() prize.Item { return items[r.Intn(len(items))] }
}

func weightedPicker(items []prize.Item, weights map[prize.Rarity]int) (func() prize.Item, error) {
	choices := make([]weightedrand.Choice[prize.Item, int], 0, len(items))
	for _, it := range items {
		choices = append(choices, weightedrand.NewChoice(it, weights[it.Rarity]))
	}
	chooser, err := weightedrand.NewChooser(choices...)
	if err != nil {
		return nil, err
	}
	return chooser.Pick, nil
}
