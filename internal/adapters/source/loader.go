// Package source loads the festival data files produced by the schedule,
// wine list and master class extractors.
package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/okian/rarepour/internal/domain/model"
	"github.com/okian/rarepour/internal/domain/preferences"
	"github.com/okian/rarepour/pkg/logger"
	"github.com/okian/rarepour/pkg/metrics"
)

const dateLayout = "2006-01-02"

// Metric source labels.
const (
	sourceWineList      = "wine_list"
	sourceMasterClasses = "master_classes"
)

// Dataset is one consistent load of every source file.
type Dataset struct {
	Schedule      []model.ScheduleRecord
	PriceEntries  []model.PriceEntry // file order; later duplicates win
	Houses        []string           // every house heading, in file order
	Preferences   preferences.Base
	MasterClasses []model.MasterClass
}

// FileLoader reads a Dataset from a directory of JSON and text files.
type FileLoader struct {
	dir               string
	scheduleFile      string
	wineListFile      string
	preferencesFile   string
	masterClassesFile string
	location          *time.Location
	classDuration     time.Duration
	log               logger.Logger
}

// NewFileLoader creates a loader with configuration options.
func NewFileLoader(opts ...Option) *FileLoader {
	l := &FileLoader{
		dir:               ".",
		scheduleFile:      DefaultScheduleFile,
		wineListFile:      DefaultWineListFile,
		preferencesFile:   DefaultPreferencesFile,
		masterClassesFile: DefaultMasterClassesFile,
		location:          time.UTC,
		classDuration:     DefaultClassDuration,
		log:               logger.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads every file. The schedule and wine list are required; a missing
// preferences or master classes file yields empty values and a warning.
func (l *FileLoader) Load(ctx context.Context) (*Dataset, error) {
	ds := &Dataset{}

	schedule, err := l.loadSchedule()
	if err != nil {
		return nil, err
	}
	ds.Schedule = schedule

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load aborted: %w", err)
	}
	entries, houses, err := l.loadWineList()
	if err != nil {
		return nil, err
	}
	ds.PriceEntries, ds.Houses = entries, houses

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load aborted: %w", err)
	}
	prefs, err := l.loadPreferences(ctx)
	if err != nil {
		return nil, err
	}
	ds.Preferences = prefs

	classes, err := l.loadMasterClasses(ctx, festivalDays(schedule))
	if err != nil {
		return nil, err
	}
	ds.MasterClasses = classes

	return ds, nil
}

func (l *FileLoader) path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(l.dir, name)
}

func (l *FileLoader) decodeFile(name string, v any) error {
	p := l.path(name)
	f, err := os.Open(p) //nolint:gosec // path comes from configuration
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrSourceMissing, p)
		}
		return fmt.Errorf("open %s: %w", p, err)
	}
	defer func() { _ = f.Close() }()

	if err := json.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedSource, p, err)
	}
	return nil
}

func (l *FileLoader) loadSchedule() ([]model.ScheduleRecord, error) {
	var raw []scheduleRecord
	if err := l.decodeFile(l.scheduleFile, &raw); err != nil {
		return nil, err
	}
	out := make([]model.ScheduleRecord, 0, len(raw))
	for _, r := range raw {
		out = append(out, model.ScheduleRecord{
			Date:  strings.TrimSpace(r.Date),
			Time:  strings.TrimSpace(r.Time),
			Name:  strings.TrimSpace(r.Name),
			Stand: string(r.Stand),
		})
	}
	return out, nil
}

func (l *FileLoader) loadWineList() ([]model.PriceEntry, []string, error) {
	var raw wineList
	if err := l.decodeFile(l.wineListFile, &raw); err != nil {
		return nil, nil, err
	}

	var (
		entries []model.PriceEntry
		houses  []string
		seen    = map[string]bool{}
	)
	for _, stand := range raw.Stands {
		for _, h := range stand.Houses {
			house := collapse(h.Name)
			if house == "" {
				metrics.RecordMalformedRecord(sourceWineList)
				continue
			}
			if !seen[house] {
				seen[house] = true
				houses = append(houses, house)
			}
			for _, w := range h.Wines {
				wine := collapse(w.Name)
				if wine == "" {
					metrics.RecordMalformedRecord(sourceWineList)
					continue
				}
				entries = append(entries, model.PriceEntry{
					FullName:    collapse(house + " " + wine),
					House:       house,
					GlassPrice:  string(w.GlassPrice),
					BottlePrice: bottlePrice(w.BottlePrice),
					StandNumber: string(stand.Number),
					StandName:   strings.TrimSpace(stand.Name),
				})
			}
		}
	}
	return entries, houses, nil
}

func (l *FileLoader) loadPreferences(ctx context.Context) (preferences.Base, error) {
	p := l.path(l.preferencesFile)
	f, err := os.Open(p) //nolint:gosec // path comes from configuration
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.log.Warn(ctx, "preferences file not found, using empty preferences", logger.String("path", p))
			return preferences.Base{}, nil
		}
		return preferences.Base{}, fmt.Errorf("open %s: %w", p, err)
	}
	defer func() { _ = f.Close() }()

	base, err := preferences.ParseText(f)
	if err != nil {
		return preferences.Base{}, fmt.Errorf("%w: %s: %v", ErrMalformedSource, p, err)
	}
	return base, nil
}

func (l *FileLoader) loadMasterClasses(ctx context.Context, days map[string]string) ([]model.MasterClass, error) {
	var raw []masterClassRecord
	if err := l.decodeFile(l.masterClassesFile, &raw); err != nil {
		if errors.Is(err, ErrSourceMissing) {
			l.log.Warn(ctx, "master classes file not found, attended classes cannot be resolved",
				logger.String("path", l.path(l.masterClassesFile)))
			return nil, nil
		}
		return nil, err
	}

	var out []model.MasterClass
	for _, r := range raw {
		out = append(out, l.expandMasterClass(ctx, r, days)...)
	}
	return out, nil
}

// expandMasterClass turns one record into a class per session. A listing
// record that only names the weekday is placed on the festival day with
// that name.
func (l *FileLoader) expandMasterClass(ctx context.Context, r masterClassRecord, days map[string]string) []model.MasterClass {
	title := collapse(r.Title)
	if title == "" {
		title = collapse(r.Name)
	}
	presenter := collapse(r.Presenter)
	link := strings.TrimSpace(r.Link)

	id := link
	if id == "" {
		id = title
		if presenter != "" {
			id = presenter + "-" + title
		}
	}

	duration := l.classDuration
	if r.DurationMinutes > 0 {
		duration = time.Duration(r.DurationMinutes) * time.Minute
	}

	sessions := r.Sessions
	if len(sessions) == 0 {
		date := r.Date
		if date == "" {
			date = dayDate(r.Day, days)
		}
		sessions = []sessionRecord{{Date: date, Time: r.Time}}
	}

	out := make([]model.MasterClass, 0, len(sessions))
	for _, s := range sessions {
		mc := model.MasterClass{
			ID:        id,
			Title:     title,
			Presenter: presenter,
			Link:      link,
			Wines:     append([]string(nil), r.Wines...),
		}
		if len(sessions) > 1 {
			mc.ID = fmt.Sprintf("%s@%sT%s", id, strings.TrimSpace(s.Date), strings.TrimSpace(s.Time))
		}
		start, err := model.ParseTimestamp(s.Date, s.Time, l.location)
		if err != nil {
			metrics.RecordMalformedRecord(sourceMasterClasses)
			l.log.Warn(ctx, "master class session has no usable time, wines still count as tasted",
				logger.String("id", mc.ID),
				logger.Error(err))
		} else {
			mc.Start, mc.End = start, start.Add(duration)
		}
		out = append(out, mc)
	}
	return out
}

// festivalDays maps lowercase weekday names, full and abbreviated, to the
// earliest schedule date falling on that weekday.
func festivalDays(schedule []model.ScheduleRecord) map[string]string {
	days := make(map[string]string)
	for _, r := range schedule {
		d, err := time.Parse(dateLayout, r.Date)
		if err != nil {
			continue
		}
		name := strings.ToLower(d.Weekday().String())
		if prev, ok := days[name]; ok && prev <= r.Date {
			continue
		}
		days[name] = r.Date
		days[name[:3]] = r.Date
	}
	return days
}

// dayDate resolves a listing day: a date is kept as is, a weekday name is
// looked up in days. Unknown names are returned unchanged and fail to parse
// later.
func dayDate(day string, days map[string]string) string {
	day = strings.TrimSpace(day)
	if _, err := time.Parse(dateLayout, day); err == nil {
		return day
	}
	if date, ok := days[strings.ToLower(day)]; ok {
		return date
	}
	return day
}

func bottlePrice(v *flexString) *string {
	if v == nil || *v == "" {
		return nil
	}
	s := strings.ReplaceAll(string(*v), ",", ".")
	return &s
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
