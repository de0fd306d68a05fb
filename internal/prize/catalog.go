package prize

// Catalog is the base prize list plus whatever custom submissions were loaded.
type Catalog struct {
	base   []Item
	custom []Item
}

// NewCatalog copies both lists; custom items are flagged as custom.
func NewCatalog(base, custom []Item) *Catalog {
	c := &Catalog{base: append([]Item(nil), base...)}
	c.custom = make([]Item, 0, len(custom))
	for _, it := range custom {
		it.IsCustom = true
		c.custom = append(c.custom, it)
	}
	return c
}

// All returns base items followed by custom items, the order the gallery shows them.
func (c *Catalog) All() []Item {
	out := make([]Item, 0, len(c.base)+len(c.custom))
	out = append(out, c.base...)
	return append(out, c.custom...)
}

// ByRarity returns the first item of the given rarity in the list.
func ByRarity(items []Item, r Rarity) (Item, bool) {
	for _, it := range items {
		if it.Rarity == r {
			return it, true
		}
	}
	return Item{}, false
}
