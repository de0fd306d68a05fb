package inventory

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Save writes the ledger to path as a JSON array in first-win order. Saves
// through the same Ledger are serialized.
func (l *Ledger) Save(path string) error {
	l.saveMu.Lock()
	defer l.saveMu.Unlock()
	data, err := json.MarshalIndent(l.list(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode inventory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create inventory dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write inventory: %w", err)
	}
	return os.Rename(tmp, path)
}

// Load reads a ledger saved by Save. A missing file gives an empty ledger
// silently; an unreadable or corrupt one gives an empty ledger and a warning.
func Load(path string, log zerolog.Logger) *Ledger {
	l := New()
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("path", path).Msg("inventory unreadable, starting empty")
		}
		return l
	}
	var list []Entry
	if err := json.Unmarshal(data, &list); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("inventory corrupt, starting empty")
		return l
	}
	for _, e := range list {
		l.restore(e)
	}
	return l
}
