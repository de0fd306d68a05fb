// snag-frenzy-simulate plays headless rounds against the configured cabinet
// and reports how often each rarity is won. Build:
//
//	go build -o snag-frenzy-simulate ./cmd/simulate
//
// Usage:
//
//	./snag-frenzy-simulate [--rounds 10000] [--seed 42] [--config snag.yaml]
package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"sort"

	"snag-frenzy/assets"
	"snag-frenzy/internal/bin"
	"snag-frenzy/internal/config"
	"snag-frenzy/internal/game"
	"snag-frenzy/internal/prize"

	"github.com/rs/zerolog"
)

func main() {
	rounds := flag.Int("rounds", 10000, "Rounds to play")
	seed := flag.Int64("seed", 0, "RNG seed (0 uses bin.seed or a random one)")
	configPath := flag.String("config", "", "Path to a YAML tuning file (optional)")
	verbose := flag.Bool("v", false, "Log every grab to stderr")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if *seed != 0 {
		cfg.Bin.Seed = *seed
	}
	log := zerolog.Nop()
	if *verbose {
		log = config.NewConsoleLogger("debug", os.Stderr)
	}

	simulate(cfg, *rounds, log).Write(os.Stdout)
}

// Report aggregates a simulation.
type Report struct {
	Rounds   int
	Wins     int
	Empty    int // grabs with nothing in reach
	CoinsIn  int
	CoinsOut int
	ByRarity map[prize.Rarity]int
	Placed   map[prize.Rarity]int // slots filled per rarity across all bins
	ByPrize  map[string]int
}

func newReport() *Report {
	return &Report{
		ByRarity: make(map[prize.Rarity]int),
		Placed:   make(map[prize.Rarity]int),
		ByPrize:  make(map[string]int),
	}
}

// BinPopulated and GrabResolved make a Report a game.Observer.
func (r *Report) BinPopulated(b bin.Bin) {
	for _, s := range b {
		r.Placed[s.Item.Rarity]++
	}
}

func (r *Report) GrabResolved(o game.Outcome) {
	r.Rounds++
	if o.Candidates == 0 {
		r.Empty++
	}
	if !o.Won {
		return
	}
	r.Wins++
	r.CoinsOut += o.CoinDelta
	r.ByRarity[o.Item.Rarity]++
	r.ByPrize[o.Item.Key()]++
}

// simulate plays rounds with zero delays. Each round buys one coin, aims
// the claw at a random slot and grabs.
func simulate(cfg *config.Config, rounds int, log zerolog.Logger) *Report {
	report := newReport()
	settings := cfg.Settings().Instant()
	settings.StartCoins = 0

	r := cfg.Rand()
	aim := rand.New(rand.NewSource(r.Int63()))
	m := game.NewMachine(game.Deps{
		Settings: settings,
		Base:     assets.BasePrizes(),
		Bin:      cfg.BinConfig(r, log),
		Resolver: cfg.Resolver(),
		Rewards:  cfg.RewardTable(),
		Observer: report,
		Logger:   log,
	})

	for iter := 0; iter < rounds; iter++ {
		m.AddCoins(1)
		report.CoinsIn++
		if !m.InsertCoin() {
			break
		}
		if b := m.Bin(); len(b) > 0 {
			steer(m, b[aim.Intn(len(b))].X)
		}
		m.Grab()
		m.Settle()
	}
	return report
}

// steer moves the claw step by step until it is as close to x as the rail allows.
func steer(m *game.Machine, x float64) {
	for {
		before := m.ClawX()
		dist := x - before
		if math.Abs(dist) <= m.Settings().ClawStep/2 {
			return
		}
		if dist > 0 {
			m.MoveClaw(game.Right)
		} else {
			m.MoveClaw(game.Left)
		}
		if m.ClawX() == before {
			return
		}
	}
}

// Write prints the report as a plain table.
func (r *Report) Write(w io.Writer) {
	fmt.Fprintf(w, "rounds      %d\n", r.Rounds)
	fmt.Fprintf(w, "wins        %d (%.1f%%)\n", r.Wins, pct(r.Wins, r.Rounds))
	fmt.Fprintf(w, "empty grabs %d\n", r.Empty)
	fmt.Fprintf(w, "coins       in %d, out %d, net %+d\n", r.CoinsIn, r.CoinsOut, r.CoinsOut-r.CoinsIn)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-11s %8s %8s %7s\n", "rarity", "placed", "won", "rate")
	for _, rarity := range prize.Rarities {
		placed, won := r.Placed[rarity], r.ByRarity[rarity]
		fmt.Fprintf(w, "%-11s %8d %8d %6.1f%%\n", rarity.Label(), placed, won, pct(won, placed))
	}

	keys := make([]string, 0, len(r.ByPrize))
	for k := range r.ByPrize {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if r.ByPrize[keys[i]] != r.ByPrize[keys[j]] {
			return r.ByPrize[keys[i]] > r.ByPrize[keys[j]]
		}
		return keys[i] < keys[j]
	})
	fmt.Fprintln(w)
	for _, k := range keys {
		fmt.Fprintf(w, "%-16s %d\n", k, r.ByPrize[k])
	}
}

func pct(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return 100 * float64(n) / float64(d)
}
