// Package prize defines the items a cabinet can hold and the catalog they are drawn from.
package prize

import (
	"fmt"
	"strings"
	"time"
)

// NothingName is the placeholder item name the bin filler never picks.
const NothingName = "Nothing :("

// Rarity ranks a prize from most to least common.
type Rarity uint8

const (
	RarityUnknown Rarity = iota
	Common
	Uncommon
	Rare
	UltraRare
	Legendary
)

// Rarities lists the known rarities from most common to least common.
var Rarities = []Rarity{Common, Uncommon, Rare, UltraRare, Legendary}

var rarityNames = map[Rarity]string{
	Common:    "common",
	Uncommon:  "uncommon",
	Rare:      "rare",
	UltraRare: "ultraRare",
	Legendary: "legendary",
}

var rarityLabels = map[Rarity]string{
	Common:    "Common",
	Uncommon:  "Uncommon",
	Rare:      "Rare",
	UltraRare: "Ultra Rare",
	Legendary: "Legendary",
}

// String returns the wire name ("ultraRare") or "unknown".
func (r Rarity) String() string {
	if s, ok := rarityNames[r]; ok {
		return s
	}
	return "unknown"
}

// Label returns the display name ("Ultra Rare").
func (r Rarity) Label() string {
	if s, ok := rarityLabels[r]; ok {
		return s
	}
	return "Unknown"
}

// Rank orders rarities for display: legendary is 0, common is 4, unknown sorts last.
func (r Rarity) Rank() int {
	switch r {
	case Legendary:
		return 0
	case UltraRare:
		return 1
	case Rare:
		return 2
	case Uncommon:
		return 3
	case Common:
		return 4
	}
	return 5
}

// ParseRarity accepts the wire names. Matching ignores case so "ultrarare" and
// "UltraRare" both parse.
func ParseRarity(s string) (Rarity, bool) {
	s = strings.TrimSpace(s)
	for r, name := range rarityNames {
		if strings.EqualFold(name, s) {
			return r, true
		}
	}
	return RarityUnknown, false
}

// MarshalText encodes the wire name.
func (r Rarity) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// UnmarshalText decodes a wire name. Unrecognized names decode to RarityUnknown
// instead of failing so a single odd record never poisons a whole list.
func (r *Rarity) UnmarshalText(b []byte) error {
	*r, _ = ParseRarity(string(b))
	return nil
}

// Item is one prize. Items are values and never change once loaded.
type Item struct {
	Name        string    `json:"name"`
	ImageRef    string    `json:"image"`
	Rarity      Rarity    `json:"rarity"`
	IsCustom    bool      `json:"isCustom,omitempty"`
	Creator     string    `json:"creator,omitempty"`
	SubmittedAt time.Time `json:"submittedAt,omitzero"`
}

// Key identifies the item in an inventory. Custom items include the creator so
// two people submitting the same name do not share a count.
func (it Item) Key() string {
	if it.IsCustom {
		return it.Name + "-" + it.Creator
	}
	return it.Name
}

// Credited reports whether the item should carry its creator's name.
func (it Item) Credited() bool {
	return it.IsCustom && !Anonymous(it.Creator)
}

// Anonymous reports whether a creator name stands for "no name given".
func Anonymous(creator string) bool {
	c := strings.TrimSpace(creator)
	return c == "" || strings.EqualFold(c, "anon") || strings.EqualFold(c, "anonymous")
}

// CreatorTag is the gallery credit line, e.g. "kit added this! 9/3" (day/month
// of submission). Uncredited items have no tag.
func (it Item) CreatorTag() (string, bool) {
	if !it.Credited() {
		return "", false
	}
	return fmt.Sprintf("%s added this! %d/%d", it.Creator, it.SubmittedAt.Day(), int(it.SubmittedAt.Month())), true
}
