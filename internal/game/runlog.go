package game

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"snag-frenzy/internal/bin"
	"snag-frenzy/internal/inventory"

	"github.com/rs/zerolog"
)

// AppName names the per-user data and state directories.
const AppName = "snag-frenzy"

// RoundLog is one line of rounds.jsonl.
type RoundLog struct {
	At         time.Time `json:"at"`
	Won        bool      `json:"won"`
	Item       string    `json:"item,omitempty"`
	Rarity     string    `json:"rarity,omitempty"`
	Creator    string    `json:"creator,omitempty"`
	CoinDelta  int       `json:"coinDelta"`
	ClawX      float64   `json:"clawX"`
	Candidates int       `json:"candidates"`
	BinSize    int       `json:"binSize"`
}

// Journal is an Observer that appends every resolved grab to rounds.jsonl and
// saves the collection after each win. Disk errors are logged and otherwise
// ignored so a full disk never stops the cabinet.
type Journal struct {
	dir     string
	ledger  *inventory.Ledger
	binSize int
	now     func() time.Time
	log     zerolog.Logger
}

// NewJournal writes under dir. ledger is the collection saved after wins.
func NewJournal(dir string, ledger *inventory.Ledger, log zerolog.Logger) *Journal {
	return &Journal{dir: dir, ledger: ledger, now: time.Now, log: log}
}

// BinPopulated remembers the bin size for the next round line.
func (j *Journal) BinPopulated(b bin.Bin) { j.binSize = len(b) }

// GrabResolved appends the round and persists the collection on a win.
func (j *Journal) GrabResolved(o Outcome) {
	entry := RoundLog{
		At:         j.now().UTC(),
		Won:        o.Won,
		CoinDelta:  o.CoinDelta,
		ClawX:      o.ClawX,
		Candidates: o.Candidates,
		BinSize:    j.binSize,
	}
	if o.Won {
		entry.Item = o.Item.Name
		entry.Rarity = o.Item.Rarity.String()
		entry.Creator = o.Item.Creator
	}
	if err := appendRound(filepath.Join(j.dir, "rounds.jsonl"), entry); err != nil {
		j.log.Warn().Err(err).Msg("round log write failed")
	}
	if o.Won && j.ledger != nil {
		if err := j.ledger.Save(InventoryPath(j.dir)); err != nil {
			j.log.Warn().Err(err).Msg("inventory save failed")
		}
	}
}

// appendRound appends entry as a single JSON line.
func appendRound(path string, entry RoundLog) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	_, err = f.Write(append(data, '\n'))
	return err
}

// InventoryPath is where the collection lives inside a data directory.
func InventoryPath(dir string) string { return filepath.Join(dir, "inventory.json") }

// DataDir returns the directory where rounds and the collection are stored.
// Follows the XDG Base Directory layout: $XDG_DATA_HOME/snag-frenzy,
// defaulting to ~/.local/share/snag-frenzy.
func DataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// StateDir is where the terminal client writes its log file:
// $XDG_STATE_HOME/snag-frenzy, defaulting to ~/.local/state/snag-frenzy.
func StateDir() (string, error) {
	return xdgDir("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

func xdgDir(env, fallback string) (string, error) {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, fallback)
	}
	return filepath.Join(base, AppName), nil
}
