package source

import (
	"strings"

	json "github.com/goccy/go-json"
)

// flexString accepts a JSON string or number; extractors are not
// consistent about stand numbers and prices.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

type scheduleRecord struct {
	Date  string     `json:"date"`
	Time  string     `json:"time"`
	Name  string     `json:"name"`
	Stand flexString `json:"stand"`
}

type wineList struct {
	Stands []standRecord `json:"stands"`
}

type standRecord struct {
	Number flexString    `json:"number"`
	Name   string        `json:"name"`
	Houses []houseRecord `json:"houses"`
}

type houseRecord struct {
	Name  string       `json:"name"`
	Wines []wineRecord `json:"wines"`
}

type wineRecord struct {
	Name        string      `json:"name"`
	GlassPrice  flexString  `json:"glass_price"`
	BottlePrice *flexString `json:"bottle_price"`
}

// masterClassRecord covers both extractor formats: the listing page
// (day as a weekday name or date, time, presenter, title, link) and the
// detail pages (name, sessions, duration_minutes).
type masterClassRecord struct {
	Title           string          `json:"title"`
	Name            string          `json:"name"`
	Presenter       string          `json:"presenter"`
	Link            string          `json:"link"`
	Date            string          `json:"date"`
	Day             string          `json:"day"`
	Time            string          `json:"time"`
	Sessions        []sessionRecord `json:"sessions"`
	DurationMinutes int             `json:"duration_minutes"`
	Wines           []string        `json:"wines"`
}

type sessionRecord struct {
	Date string `json:"date"`
	Time string `json:"time"`
}
