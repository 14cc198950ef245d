package winename

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/okian/rarepour/internal/domain/model"
)

// InferSize finds the first large-format word (magnum, jeroboam,
// methuselah, nabuchodonosor, checked in that order) appearing as a whole
// word in name.
func InferSize(name string) (model.Size, bool) {
	lower := strings.ToLower(name)
	for _, size := range model.LargeFormats() {
		if containsWord(lower, string(size)) {
			return size, true
		}
	}
	return "", false
}

// ExtractYear returns the first standalone four-digit number in name.
func ExtractYear(name string) (int, bool) {
	for i := 0; i+4 <= len(name); i++ {
		if !isASCIIDigits(name[i : i+4]) {
			continue
		}
		if !boundaryBefore(name, i) || !boundaryAfter(name, i+4) {
			continue
		}
		year, err := strconv.Atoi(name[i : i+4])
		if err != nil {
			return 0, false
		}
		return year, true
	}
	return 0, false
}

// containsWord reports whether word occurs in s delimited by non-word
// characters or the ends of s.
func containsWord(s, word string) bool {
	for offset := 0; offset <= len(s); {
		idx := strings.Index(s[offset:], word)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(word)
		if boundaryBefore(s, start) && boundaryAfter(s, end) {
			return true
		}
		offset = start + 1
	}
	return false
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isASCIIDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
