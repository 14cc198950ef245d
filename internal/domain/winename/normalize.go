// Package winename canonicalises wine names coming from independently
// formatted sources and extracts the attributes encoded in them: the house
// (producer) prefix, the bottle size and the vintage year.
package winename

import (
	"regexp"
	"strings"
)

var (
	baseYearPattern = regexp.MustCompile(`\(base \d{4}\)`)
	footnotePattern = regexp.MustCompile(`\s*\*.*$`)
)

// Tokens dropped by Normalize: bottle formats and the non-vintage marker.
var stopTokens = map[string]struct{}{
	"magnum":         {},
	"jeroboam":       {},
	"methuselah":     {},
	"nabuchodonosor": {},
	"nv":             {},
}

// Normalize canonicalises a raw wine name for cross-source comparison. It
// never fails; empty or unusable input yields "". The result is a fixed
// point: Normalize(Normalize(x)) == Normalize(x).
//
// Passes repeat until nothing changes. After the first pass the string is
// lowercase, so every later change makes it strictly shorter.
func Normalize(raw string) string {
	s := normalizeOnce(raw)
	for {
		next := normalizeOnce(s)
		if next == s {
			return s
		}
		s = next
	}
}

func normalizeOnce(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToLower(s)
	s = baseYearPattern.ReplaceAllString(s, "")

	fields := strings.Fields(s)
	kept := fields[:0]
	for _, f := range fields {
		if _, drop := stopTokens[f]; drop {
			continue
		}
		kept = append(kept, f)
	}
	s = strings.Join(kept, " ")

	s = footnotePattern.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}
