package winename

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// HouseCatalog is a read-only lookup table of producer names, ordered for
// longest-prefix resolution. Safe for concurrent use.
type HouseCatalog struct {
	byLength []string // longest first, ties lexical
	sorted   []string // alphabetical, for listing
}

// NewHouseCatalog builds a catalog from display names. Blank names and
// exact duplicates are dropped.
func NewHouseCatalog(houses []string) *HouseCatalog {
	seen := make(map[string]struct{}, len(houses))
	uniq := make([]string, 0, len(houses))
	for _, h := range houses {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		uniq = append(uniq, h)
	}

	byLength := append([]string(nil), uniq...)
	sort.SliceStable(byLength, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(byLength[i]), utf8.RuneCountInString(byLength[j])
		if li != lj {
			return li > lj
		}
		return byLength[i] < byLength[j]
	})

	sorted := append([]string(nil), uniq...)
	sort.Strings(sorted)

	return &HouseCatalog{byLength: byLength, sorted: sorted}
}

// Len returns the number of houses.
func (c *HouseCatalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.sorted)
}

// Houses returns the house names in alphabetical order.
func (c *HouseCatalog) Houses() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.sorted...)
}

// Resolve splits name into the longest word-bounded house prefix and the
// trimmed remainder. ok is false when no house matches or nothing remains
// after the house.
func (c *HouseCatalog) Resolve(name string) (house, remainder string, ok bool) {
	if c == nil || name == "" {
		return "", "", false
	}
	for _, h := range c.byLength {
		rest, matched := CutPrefixFold(name, h)
		if !matched {
			continue
		}
		if r, _ := utf8.DecodeRuneInString(rest); rest != "" && isAlnum(r) {
			continue
		}
		remainder = strings.TrimSpace(rest)
		if remainder == "" {
			return "", "", false
		}
		return h, remainder, true
	}
	return "", "", false
}

// ResolveHouse is a convenience wrapper for one-off lookups. Callers that
// resolve many names should build a HouseCatalog once.
func ResolveHouse(name string, houses []string) (house, remainder string, ok bool) {
	return NewHouseCatalog(houses).Resolve(name)
}

// CutPrefixFold reports whether s begins with prefix under simple Unicode
// case folding and returns the rest of s.
func CutPrefixFold(s, prefix string) (string, bool) {
	for prefix != "" {
		if s == "" {
			return "", false
		}
		pr, pn := utf8.DecodeRuneInString(prefix)
		sr, sn := utf8.DecodeRuneInString(s)
		if pr != sr && unicode.ToLower(pr) != unicode.ToLower(sr) {
			return "", false
		}
		prefix, s = prefix[pn:], s[sn:]
	}
	return s, true
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
