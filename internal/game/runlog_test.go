package game

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"snag-frenzy/internal/bin"
	"snag-frenzy/internal/inventory"
	"snag-frenzy/internal/prize"

	"github.com/rs/zerolog"
)

func TestDataDirXDGEnvOverride(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	dir, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir returned error: %v", err)
	}
	if want := filepath.Join(tmp, "snag-frenzy"); dir != want {
		t.Errorf("dir = %q; want %q", dir, want)
	}
}

func TestDataDirDefaultFallback(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "")

	dir, err := DataDir()
	if err != nil {
		t.Skip("skipping: no user home directory available in test environment")
	}
	suffix := filepath.Join(".local", "share", "snag-frenzy")
	if !strings.HasSuffix(dir, suffix) {
		t.Errorf("dir %q does not end with %q", dir, suffix)
	}
}

func TestStateDirXDGEnvOverride(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_STATE_HOME", tmp)

	dir, err := StateDir()
	if err != nil {
		t.Fatalf("StateDir returned error: %v", err)
	}
	if want := filepath.Join(tmp, "snag-frenzy"); dir != want {
		t.Errorf("dir = %q; want %q", dir, want)
	}
}

func readRounds(t *testing.T, dir string) []RoundLog {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "rounds.jsonl"))
	if err != nil {
		t.Fatalf("rounds.jsonl not created: %v", err)
	}
	var out []RoundLog
	for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		var r RoundLog
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			t.Fatalf("bad line %q: %v", line, err)
		}
		out = append(out, r)
	}
	return out
}

func TestJournalAppendsRounds(t *testing.T) {
	dir := t.TempDir()
	j := NewJournal(dir, nil, zerolog.Nop())
	j.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	j.BinPopulated(make(bin.Bin, 6))
	j.GrabResolved(Outcome{Message: MsgSlipped, ClawX: 30, Candidates: 2})
	j.GrabResolved(Outcome{
		Won:       true,
		Item:      prize.Item{Name: "Blob", Rarity: prize.Rare, IsCustom: true, Creator: "kit"},
		CoinDelta: 2,
		ClawX:     55,
	})

	rounds := readRounds(t, dir)
	if len(rounds) != 2 {
		t.Fatalf("expected 2 log lines, got %d", len(rounds))
	}
	if rounds[0].Won || rounds[0].BinSize != 6 || rounds[0].Candidates != 2 {
		t.Errorf("first round = %+v", rounds[0])
	}
	if r := rounds[1]; !r.Won || r.Item != "Blob" || r.Rarity != "rare" || r.Creator != "kit" || r.CoinDelta != 2 {
		t.Errorf("second round = %+v", r)
	}
	if !rounds[0].At.Equal(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("timestamp = %v", rounds[0].At)
	}
}

func TestJournalSavesInventoryOnWin(t *testing.T) {
	dir := t.TempDir()
	l := inventory.New()
	j := NewJournal(dir, l, zerolog.Nop())

	j.GrabResolved(Outcome{Message: MsgSlipped})
	if _, err := os.Stat(InventoryPath(dir)); !os.IsNotExist(err) {
		t.Fatalf("inventory written after a miss: %v", err)
	}

	rock := prize.Item{Name: "Rock", Rarity: prize.Common}
	l.Record(rock)
	j.GrabResolved(Outcome{Won: true, Item: rock, CoinDelta: 1})

	got := inventory.Load(InventoryPath(dir), zerolog.Nop())
	if got.Count("Rock") != 1 {
		t.Errorf("saved Rock count = %d, want 1", got.Count("Rock"))
	}
}

func TestJournalWiredIntoMachine(t *testing.T) {
	dir := t.TempDir()
	m := newTestMachine(1, nil, nil)
	j := NewJournal(dir, m.Ledger(), zerolog.Nop())
	m.observer = j

	m.InsertCoin()
	m.Grab()
	m.Settle()

	if rounds := readRounds(t, dir); len(rounds) != 1 {
		t.Errorf("expected 1 round line, got %d", len(rounds))
	}
}
