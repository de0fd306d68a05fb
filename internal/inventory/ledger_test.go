package inventory

import (
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"snag-frenzy/internal/prize"

	"github.com/rs/zerolog"
)

var (
	rock    = prize.Item{Name: "Rock", ImageRef: "🪨", Rarity: prize.Common}
	cat     = prize.Item{Name: "Cat", ImageRef: "🐱", Rarity: prize.Uncommon}
	alien   = prize.Item{Name: "Alien", ImageRef: "👽", Rarity: prize.Legendary}
	frog    = prize.Item{Name: "Frog", ImageRef: "🐸", Rarity: prize.UltraRare}
	blobKit = prize.Item{Name: "Blob", Rarity: prize.Rare, IsCustom: true, Creator: "kit"}
	blobJo  = prize.Item{Name: "Blob", Rarity: prize.Rare, IsCustom: true, Creator: "jo"}
)

func TestRecordCreatesThenIncrements(t *testing.T) {
	l := New()
	if e := l.Record(rock); e.Count != 1 {
		t.Fatalf("first record count = %d", e.Count)
	}
	if e := l.Record(rock); e.Count != 2 {
		t.Fatalf("second record count = %d", e.Count)
	}
	if l.Len() != 1 {
		t.Errorf("Len = %d, want 1", l.Len())
	}
}

func TestCustomKeysIncludeCreator(t *testing.T) {
	l := New()
	l.Record(blobKit)
	l.Record(blobJo)
	l.Record(blobKit)
	if got := l.Count("Blob-kit"); got != 2 {
		t.Errorf("Blob-kit = %d, want 2", got)
	}
	if got := l.Count("Blob-jo"); got != 1 {
		t.Errorf("Blob-jo = %d, want 1", got)
	}
	if got := l.Count("Blob"); got != 0 {
		t.Errorf("bare Blob key = %d, want 0", got)
	}
}

func TestCountsIndependentOfInterleaving(t *testing.T) {
	items := []prize.Item{rock, cat, alien, blobKit}
	const perItem = 7
	r := rand.New(rand.NewSource(42))
	for trial := 0; trial < 20; trial++ {
		var seq []prize.Item
		for _, it := range items {
			for iter := 0; iter < perItem; iter++ {
				seq = append(seq, it)
			}
		}
		r.Shuffle(len(seq), func(i, j int) { seq[i], seq[j] = seq[j], seq[i] })
		l := New()
		for _, it := range seq {
			l.Record(it)
		}
		for _, it := range items {
			if got := l.Count(it.Key()); got != perItem {
				t.Fatalf("trial %d: %s count = %d, want %d", trial, it.Key(), got, perItem)
			}
		}
	}
}

func TestOrderedRarestFirstStable(t *testing.T) {
	l := New()
	l.Record(rock)
	l.Record(blobKit)
	l.Record(cat)
	l.Record(alien)
	l.Record(blobJo)
	l.Record(frog)

	var got []string
	for _, e := range l.Ordered() {
		got = append(got, e.Key)
	}
	want := []string{"Alien", "Frog", "Blob-kit", "Blob-jo", "Cat", "Rock"}
	if len(got) != len(want) {
		t.Fatalf("ordered = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ordered = %v, want %v", got, want)
		}
	}
}

func TestRewardFor(t *testing.T) {
	cases := []struct {
		r    prize.Rarity
		want int
	}{
		{prize.Common, 1},
		{prize.Uncommon, 1},
		{prize.Rare, 2},
		{prize.UltraRare, 3},
		{prize.Legendary, 5},
		{prize.RarityUnknown, 1},
	}
	for _, tc := range cases {
		if got := RewardFor(tc.r); got != tc.want {
			t.Errorf("RewardFor(%v) = %d, want %d", tc.r, got, tc.want)
		}
	}
}

func TestSaveLoadKeepsOrderAndCounts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "inventory.json")
	l := New()
	l.Record(cat)
	l.Record(alien)
	l.Record(cat)
	l.Record(blobKit)
	if err := l.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got := Load(path, zerolog.Nop())
	if got.Count("Cat") != 2 || got.Count("Alien") != 1 || got.Count("Blob-kit") != 1 {
		t.Errorf("loaded counts wrong: %+v", got.Ordered())
	}
	if got.Ordered()[0].Rarity != prize.Legendary {
		t.Errorf("rarity lost in round trip: %+v", got.Ordered()[0])
	}
}

func TestLoadMissingIsEmpty(t *testing.T) {
	l := Load(filepath.Join(t.TempDir(), "none.json"), zerolog.Nop())
	if l.Len() != 0 {
		t.Errorf("Len = %d, want 0", l.Len())
	}
}

func TestLoadCorruptIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := Load(path, zerolog.Nop())
	if l.Len() != 0 {
		t.Errorf("Len = %d, want 0", l.Len())
	}
	l.Record(rock)
	if l.Count("Rock") != 1 {
		t.Errorf("ledger unusable after corrupt load")
	}
}

func TestSharedLedgerConcurrentRecordAndSave(t *testing.T) {
	l := New()
	path := filepath.Join(t.TempDir(), "inventory.json")
	const workers, wins = 4, 50

	var wg sync.WaitGroup
	for iter := 0; iter < workers; iter++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for iter := 0; iter < wins; iter++ {
				l.Record(rock)
				if err := l.Save(path); err != nil {
					t.Errorf("Save: %v", err)
					return
				}
				l.Ordered()
			}
		}()
	}
	wg.Wait()

	if got := l.Count("Rock"); got != workers*wins {
		t.Errorf("Rock = %d, want %d", got, workers*wins)
	}
	if got := Load(path, zerolog.Nop()).Count("Rock"); got != workers*wins {
		t.Errorf("saved Rock = %d, want %d", got, workers*wins)
	}
}
