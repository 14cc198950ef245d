// Package pricing resolves rare-opening wine names to entries of the printed
// wine list.
package pricing

import (
	"sort"
	"strings"

	"github.com/okian/rarepour/internal/domain/model"
	"github.com/okian/rarepour/internal/domain/winename"
)

// Catalog is an immutable set of price entries keyed by full wine name.
type Catalog struct {
	byName map[string]model.PriceEntry
	names  []string // sorted
	order  []string // list order, by first appearance
}

// NewCatalog indexes entries by FullName. Later entries replace earlier
// ones with the same name; entries without a name are ignored.
func NewCatalog(entries []model.PriceEntry) *Catalog {
	byName := make(map[string]model.PriceEntry, len(entries))
	var order []string
	for _, e := range entries {
		if e.FullName == "" {
			continue
		}
		if _, seen := byName[e.FullName]; !seen {
			order = append(order, e.FullName)
		}
		byName[e.FullName] = e
	}
	names := make([]string, len(order))
	copy(names, order)
	sort.Strings(names)
	return &Catalog{byName: byName, names: names, order: order}
}

// Len returns the number of distinct entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.names)
}

// Lookup returns the entry stored under fullName.
func (c *Catalog) Lookup(fullName string) (model.PriceEntry, bool) {
	if c == nil {
		return model.PriceEntry{}, false
	}
	e, ok := c.byName[fullName]
	return e, ok
}

// Entries returns all entries ordered by full name.
func (c *Catalog) Entries() []model.PriceEntry {
	if c == nil {
		return nil
	}
	out := make([]model.PriceEntry, 0, len(c.names))
	for _, n := range c.names {
		out = append(out, c.byName[n])
	}
	return out
}

// scoped is one catalog entry reduced to its house-relative remainder.
type scoped struct {
	key      string // normalised remainder
	fullName string
}

// scope returns the entries whose full name starts with house (ignoring
// case), each keyed by its normalised remainder. Unlike plain prefix
// scoping, entries that record a different house (a longer house sharing
// the prefix) are left out. When two entries share a key the one listed
// later in the wine list wins.
func (c *Catalog) scope(house string) []scoped {
	if c == nil {
		return nil
	}
	index := make(map[string]int)
	var out []scoped
	for _, name := range c.order {
		rest, ok := winename.CutPrefixFold(name, house)
		if !ok {
			continue
		}
		if h := c.byName[name].House; h != "" && !strings.EqualFold(h, house) {
			continue
		}
		key := winename.Normalize(rest)
		if i, dup := index[key]; dup {
			out[i].fullName = name
			continue
		}
		index[key] = len(out)
		out = append(out, scoped{key: key, fullName: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].key < out[j].key })
	return out
}
