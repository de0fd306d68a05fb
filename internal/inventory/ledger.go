// Package inventory keeps the player's collection of won prizes.
package inventory

import (
	"sort"
	"sync"

	"snag-frenzy/internal/prize"
)

// Entry is one collected prize and how many times it was won.
type Entry struct {
	Key      string       `json:"key"`
	Name     string       `json:"name"`
	ImageRef string       `json:"image"`
	Rarity   prize.Rarity `json:"rarity"`
	IsCustom bool         `json:"isCustom,omitempty"`
	Creator  string       `json:"creator,omitempty"`
	Count    int          `json:"count"`
}

// Ledger accumulates wins. Counts only go up and entries are never removed.
// A Ledger may be shared by several cabinets of the same player.
type Ledger struct {
	mu      sync.Mutex
	saveMu  sync.Mutex
	entries map[string]*Entry
	order   []string // keys in first-win order
}

// New returns an empty Ledger.
func New() *Ledger {
	return &Ledger{entries: make(map[string]*Entry)}
}

// Record adds one win of item and returns the updated entry.
func (l *Ledger) Record(item prize.Item) Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := item.Key()
	e, ok := l.entries[key]
	if !ok {
		e = &Entry{
			Key:      key,
			Name:     item.Name,
			ImageRef: item.ImageRef,
			Rarity:   item.Rarity,
			IsCustom: item.IsCustom,
		}
		if item.IsCustom {
			e.Creator = item.Creator
		}
		l.entries[key] = e
		l.order = append(l.order, key)
	}
	e.Count++
	return *e
}

// Count returns how many times key was won.
func (l *Ledger) Count(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.entries[key]; ok {
		return e.Count
	}
	return 0
}

// Len returns the number of distinct prizes collected.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.order)
}

// Total returns the number of prizes won.
func (l *Ledger) Total() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.entries {
		n += e.Count
	}
	return n
}

// Ordered returns entries rarest first. Entries of the same rarity keep the
// order in which they were first won.
func (l *Ledger) Ordered() []Entry {
	out := l.list()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Rarity.Rank() < out[j].Rarity.Rank()
	})
	return out
}

// list copies the entries in first-win order.
func (l *Ledger) list() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, 0, len(l.order))
	for _, k := range l.order {
		out = append(out, *l.entries[k])
	}
	return out
}

// restore appends a saved entry, merging counts when the key already exists.
func (l *Ledger) restore(e Entry) {
	if e.Key == "" || e.Count <= 0 {
		return
	}
	if cur, ok := l.entries[e.Key]; ok {
		cur.Count += e.Count
		return
	}
	cp := e
	l.entries[e.Key] = &cp
	l.order = append(l.order, e.Key)
}

// Rewards maps rarity to the coins paid out for a win.
type Rewards map[prize.Rarity]int

// DefaultRewards pays 2, 3 and 5 coins for rare, ultra rare and legendary.
// Everything else pays 1.
func DefaultRewards() Rewards {
	return Rewards{prize.Rare: 2, prize.UltraRare: 3, prize.Legendary: 5}
}

// For returns the coin reward for a rarity.
func (rw Rewards) For(r prize.Rarity) int {
	if c, ok := rw[r]; ok {
		return c
	}
	return 1
}

// RewardFor uses the default table.
func RewardFor(r prize.Rarity) int { return DefaultRewards().For(r) }
