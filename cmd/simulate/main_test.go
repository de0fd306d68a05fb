package main

import (
	"bytes"
	"strings"
	"testing"

	"snag-frenzy/internal/config"

	"github.com/rs/zerolog"
)

func TestSimulateIsReproducible(t *testing.T) {
	cfg := config.Default()
	cfg.Bin.Seed = 42
	a := simulate(cfg, 500, zerolog.Nop())
	b := simulate(cfg, 500, zerolog.Nop())

	if a.Rounds != 500 || a.CoinsIn != 500 {
		t.Fatalf("rounds = %d, coins in = %d", a.Rounds, a.CoinsIn)
	}
	if a.Wins != b.Wins || a.CoinsOut != b.CoinsOut {
		t.Errorf("same seed, different results: %d/%d vs %d/%d", a.Wins, a.CoinsOut, b.Wins, b.CoinsOut)
	}
	if a.Wins == 0 || a.Wins == a.Rounds {
		t.Errorf("wins = %d of %d, expected a mix", a.Wins, a.Rounds)
	}
	won := 0
	for _, n := range a.ByRarity {
		won += n
	}
	if won != a.Wins {
		t.Errorf("rarity counts sum to %d, want %d", won, a.Wins)
	}
}

func TestSimulateAimingFindsCandidates(t *testing.T) {
	cfg := config.Default()
	cfg.Bin.Seed = 7
	r := simulate(cfg, 200, zerolog.Nop())
	if r.Empty != 0 {
		t.Errorf("%d grabs aimed at a slot found nothing in reach", r.Empty)
	}
}

func TestReportWrite(t *testing.T) {
	cfg := config.Default()
	cfg.Bin.Seed = 1
	var buf bytes.Buffer
	simulate(cfg, 50, zerolog.Nop()).Write(&buf)
	out := buf.String()
	for _, want := range []string{"rounds      50", "Legendary", "Ultra Rare", "coins"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}
