package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/rarepour/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.DataDir, convey.ShouldEqual, "data")
				convey.So(cfg.SnapshotTTLSeconds, convey.ShouldEqual, 3600)
				convey.So(cfg.ServeStaleOnError, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("RAREPOUR_ADDR", ":8080")
			_ = os.Setenv("RAREPOUR_DATA_DIR", "/srv/festival")
			_ = os.Setenv("RAREPOUR_TIMEZONE", "UTC")
			_ = os.Setenv("RAREPOUR_SNAPSHOT_TTL_SECONDS", "120")
			_ = os.Setenv("RAREPOUR_SERVE_STALE_ON_ERROR", "false")
			_ = os.Setenv("RAREPOUR_LOG_FORMAT", "json")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.DataDir, convey.ShouldEqual, "/srv/festival")
				convey.So(cfg.Timezone, convey.ShouldEqual, "UTC")
				convey.So(cfg.SnapshotTTLSeconds, convey.ShouldEqual, 120)
				convey.So(cfg.ServeStaleOnError, convey.ShouldBeFalse)
				convey.So(cfg.LogFormat, convey.ShouldEqual, config.LogFormatJSON)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
# festival defaults
addr: ":9090"
data_dir: "/data"
schedule_file: "rare.json"
refresh_interval_seconds: 300
class_duration_minutes: 45
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("RAREPOUR_CONFIG", tmpFile)
			_ = os.Setenv("RAREPOUR_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")         // env
				convey.So(cfg.DataDir, convey.ShouldEqual, "/data")      // file
				convey.So(cfg.ScheduleFile, convey.ShouldEqual, "rare.json")
				convey.So(cfg.RefreshIntervalSeconds, convey.ShouldEqual, 300)
				convey.So(cfg.ClassDurationMinutes, convey.ShouldEqual, 45)
				convey.So(cfg.WineListFile, convey.ShouldEqual, "wine_list.json") // default
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("RAREPOUR_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("RAREPOUR_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("RAREPOUR_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a negative ttl", func() {
			_ = os.Setenv("RAREPOUR_SNAPSHOT_TTL_SECONDS", "-1")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("RAREPOUR_CLASS_DURATION_MINUTES", "fifty")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()

			_, err := config.Load(cctx)

			convey.Convey("Then loading stops", func() {
				convey.So(errors.Is(err, context.Canceled), convey.ShouldBeTrue)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"RAREPOUR_CONFIG",
		"RAREPOUR_ADDR",
		"RAREPOUR_DATA_DIR",
		"RAREPOUR_TIMEZONE",
		"RAREPOUR_SNAPSHOT_TTL_SECONDS",
		"RAREPOUR_SERVE_STALE_ON_ERROR",
		"RAREPOUR_LOG_FORMAT",
		"RAREPOUR_CLASS_DURATION_MINUTES",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "rarepour-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	if err := tmpFile.Close(); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
