// Package similarity scores how alike two short strings are on a 0-100
// scale. WRatio combines plain, partial and token-based ratios so that word
// order, punctuation and accents matter little while real differences in
// cuvée or vintage still pull the score down.
package similarity

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/adrg/strutil/metrics"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Func scores a and b from 0 (unrelated) to 100 (equivalent).
type Func func(a, b string) int

const (
	unbaseScale         = 0.95
	partialScale        = 0.9
	distantPartialScale = 0.6
	lengthRatioTokens   = 1.5
	lengthRatioDistant  = 8.0
)

// indel is Levenshtein with substitutions priced as delete+insert, which
// turns its distance into the insertion/deletion distance.
var indel = func() *metrics.Levenshtein { //nolint:gochecknoglobals // stateless metric configuration
	l := metrics.NewLevenshtein()
	l.CaseSensitive = true
	l.InsertCost = 1
	l.DeleteCost = 1
	l.ReplaceCost = 2
	return l
}()

// WRatio is a weighted ratio in the style of the fuzzywuzzy family: it picks
// the strongest of the plain, token-sorted, token-set and partial scores,
// discounting the derived ones.
func WRatio(a, b string) int {
	p1, p2 := Preprocess(a), Preprocess(b)
	if p1 == "" || p2 == "" {
		return 0
	}

	base := ratio(p1, p2)
	l1, l2 := float64(runeLen(p1)), float64(runeLen(p2))
	lenRatio := math.Max(l1, l2) / math.Min(l1, l2)

	if lenRatio < lengthRatioTokens {
		best := math.Max(base, tokenSortRatio(p1, p2)*unbaseScale)
		best = math.Max(best, tokenSetRatio(p1, p2)*unbaseScale)
		return round(best)
	}

	scale := partialScale
	if lenRatio > lengthRatioDistant {
		scale = distantPartialScale
	}
	best := math.Max(base, partialRatio(p1, p2)*scale)
	best = math.Max(best, partialTokenRatio(p1, p2)*unbaseScale*scale)
	return round(best)
}

// Ratio is the plain indel similarity of the preprocessed strings.
func Ratio(a, b string) int {
	p1, p2 := Preprocess(a), Preprocess(b)
	if p1 == "" || p2 == "" {
		return 0
	}
	return round(ratio(p1, p2))
}

// Preprocess folds accents, lowercases, turns everything that is not a
// letter or digit into a space and collapses whitespace.
func Preprocess(s string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		folded = s
	}
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, folded)
	return strings.Join(strings.Fields(mapped), " ")
}

func ratio(a, b string) float64 {
	total := runeLen(a) + runeLen(b)
	if total == 0 {
		return 100
	}
	dist := indel.Distance(a, b)
	return 100 * float64(total-dist) / float64(total)
}

// partialRatio aligns the shorter string against every same-length window
// of the longer one, including windows clipped at either end.
func partialRatio(a, b string) float64 {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		return 0
	}
	needle := string(short)
	best := 0.0
	consider := func(window []rune) bool {
		r := ratio(needle, string(window))
		if r > best {
			best = r
		}
		return best >= 100
	}
	for i := 0; i+len(short) <= len(long); i++ {
		if consider(long[i : i+len(short)]) {
			return 100
		}
	}
	for k := 1; k < len(short); k++ {
		if consider(long[:k]) || consider(long[len(long)-k:]) {
			return 100
		}
	}
	return best
}

func tokenSortRatio(a, b string) float64 {
	return ratio(sortedTokens(a), sortedTokens(b))
}

func tokenSetRatio(a, b string) float64 {
	sect, onlyA, onlyB := splitTokenSets(a, b)
	if sect != "" && (onlyA == "" || onlyB == "") {
		return 100
	}
	combinedA := strings.TrimSpace(sect + " " + onlyA)
	combinedB := strings.TrimSpace(sect + " " + onlyB)

	best := ratio(combinedA, combinedB)
	if sect != "" {
		best = math.Max(best, ratio(sect, combinedA))
		best = math.Max(best, ratio(sect, combinedB))
	}
	return best
}

func partialTokenRatio(a, b string) float64 {
	sect, onlyA, onlyB := splitTokenSets(a, b)
	if onlyA == "" || onlyB == "" {
		return 100
	}
	best := partialRatio(sortedTokens(a), sortedTokens(b))
	if sect == "" {
		return best
	}
	return math.Max(best, partialRatio(onlyA, onlyB))
}

// splitTokenSets returns the sorted intersection and the two sorted
// differences of the token sets of a and b, each joined by spaces.
func splitTokenSets(a, b string) (sect, onlyA, onlyB string) {
	setA, setB := tokenSet(a), tokenSet(b)
	var both, diffA, diffB []string
	for t := range setA {
		if _, ok := setB[t]; ok {
			both = append(both, t)
		} else {
			diffA = append(diffA, t)
		}
	}
	for t := range setB {
		if _, ok := setA[t]; !ok {
			diffB = append(diffB, t)
		}
	}
	sort.Strings(both)
	sort.Strings(diffA)
	sort.Strings(diffB)
	return strings.Join(both, " "), strings.Join(diffA, " "), strings.Join(diffB, " ")
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

func sortedTokens(s string) string {
	fields := strings.Fields(s)
	sort.Strings(fields)
	return strings.Join(fields, " ")
}

func runeLen(s string) int {
	return len([]rune(s))
}

func round(f float64) int {
	return int(math.Round(f))
}
