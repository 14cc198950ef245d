package source

import (
	"time"

	"github.com/okian/rarepour/pkg/logger"
)

// Default file names inside the data directory.
const (
	DefaultScheduleFile      = "schedule.json"
	DefaultWineListFile      = "wine_list.json"
	DefaultPreferencesFile   = "preferences.txt"
	DefaultMasterClassesFile = "master_classes.json"

	DefaultClassDuration = 50 * time.Minute
)

// Option applies a configuration option to the FileLoader.
type Option func(*FileLoader)

// WithDir sets the data directory that relative file names resolve against.
func WithDir(dir string) Option {
	return func(l *FileLoader) {
		if dir != "" {
			l.dir = dir
		}
	}
}

// WithScheduleFile overrides the rare-opening schedule file name.
func WithScheduleFile(name string) Option {
	return func(l *FileLoader) {
		if name != "" {
			l.scheduleFile = name
		}
	}
}

// WithWineListFile overrides the wine list file name.
func WithWineListFile(name string) Option {
	return func(l *FileLoader) {
		if name != "" {
			l.wineListFile = name
		}
	}
}

// WithPreferencesFile overrides the preferences file name.
func WithPreferencesFile(name string) Option {
	return func(l *FileLoader) {
		if name != "" {
			l.preferencesFile = name
		}
	}
}

// WithMasterClassesFile overrides the master classes file name.
func WithMasterClassesFile(name string) Option {
	return func(l *FileLoader) {
		if name != "" {
			l.masterClassesFile = name
		}
	}
}

// WithLocation sets the zone master-class times are read in.
func WithLocation(loc *time.Location) Option {
	return func(l *FileLoader) {
		if loc != nil {
			l.location = loc
		}
	}
}

// WithClassDuration sets the slot length for classes that do not state one.
func WithClassDuration(d time.Duration) Option {
	return func(l *FileLoader) {
		if d > 0 {
			l.classDuration = d
		}
	}
}

// WithLogger sets the logger for skipped records and missing optional files.
func WithLogger(lg logger.Logger) Option {
	return func(l *FileLoader) {
		if lg != nil {
			l.log = lg
		}
	}
}
