// Package cli runs the recommender once against local data files and
// prints the result, for checking data and preferences offline.
package cli

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/okian/rarepour/internal/domain/preferences"
)

// AtLayout is the accepted format of the -at flag.
const AtLayout = "2006-01-02T15:04"

// Config holds the command line settings.
type Config struct {
	DataDir      string // directory with schedule.json, wine_list.json, ...
	At           string // evaluation time in AtLayout; empty means now
	Houses       string // comma separated
	Size         string
	OlderThan    int
	Attended     string // comma separated master class ids
	Exclude      string // comma separated wine names
	IgnoreTasted bool
	Timezone     string
	Verbose      bool
}

// Location loads the configured zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("time zone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Time returns the evaluation time in loc, or now when -at is empty.
func (c *Config) Time(loc *time.Location, now func() time.Time) (time.Time, error) {
	if strings.TrimSpace(c.At) == "" {
		return now().In(loc), nil
	}
	at, err := time.ParseInLocation(AtLayout, strings.TrimSpace(c.At), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("-at must look like %s: %w", AtLayout, err)
	}
	return at, nil
}

// Query expresses the flags as the same parameters the HTTP API takes.
func (c *Config) Query() url.Values {
	q := url.Values{}
	for _, h := range splitList(c.Houses) {
		q.Add(preferences.ParamHouse, h)
	}
	if c.Size != "" {
		q.Set(preferences.ParamSize, c.Size)
	}
	if c.OlderThan != 0 {
		q.Set(preferences.ParamOlderThan, strconv.Itoa(c.OlderThan))
	}
	for _, id := range splitList(c.Attended) {
		q.Add(preferences.ParamAttendedMC, id)
	}
	for _, w := range splitList(c.Exclude) {
		q.Add(preferences.ParamExclude, w)
	}
	if c.IgnoreTasted {
		q.Set(preferences.ParamIgnoreTasted, "true")
	}
	return q
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
