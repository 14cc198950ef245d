package preferences

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/okian/rarepour/internal/domain/model"
)

var (
	sizeWordPattern  = regexp.MustCompile(`(?i)(magnum|jeroboam|methuselah|nabuchodonosor)`)
	olderThanPattern = regexp.MustCompile(`(?i)(?:older than|before)\s+(\d{4})`)
	housesPattern    = regexp.MustCompile(`(?i)^houses?:\s*(.*)$`)
	trailingPunct    = regexp.MustCompile(`[.,;:!]$`)
)

// ParseText reads the free-form preferences file. Recognised lines:
//
//	any mention of magnum, jeroboam, methuselah or nabuchodonosor
//	"older than YYYY" or "before YYYY" (the lowest year wins)
//	"House: A, B" or "Houses: A, B"
//
// Everything else is ignored.
func ParseText(r io.Reader) (Base, error) {
	var (
		base       Base
		seenSize   = map[model.Size]bool{}
		seenHouse  = map[string]bool{}
		lineNumber int
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		for _, word := range sizeWordPattern.FindAllString(line, -1) {
			if size, ok := model.ParseSize(word); ok && !seenSize[size] {
				seenSize[size] = true
				base.Sizes = append(base.Sizes, size)
			}
		}

		if m := olderThanPattern.FindStringSubmatch(line); m != nil {
			year, err := strconv.Atoi(m[1])
			if err != nil {
				return Base{}, fmt.Errorf("%w: line %d: %q", ErrInvalidPreference, lineNumber, m[1])
			}
			if base.OlderThanYear == 0 || year < base.OlderThanYear {
				base.OlderThanYear = year
			}
		}

		if m := housesPattern.FindStringSubmatch(line); m != nil {
			for _, h := range strings.Split(m[1], ",") {
				h = trailingPunct.ReplaceAllString(strings.TrimSpace(h), "")
				if h == "" || seenHouse[h] {
					continue
				}
				seenHouse[h] = true
				base.Houses = append(base.Houses, h)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return Base{}, fmt.Errorf("read preferences: %w", err)
	}
	return base, nil
}
