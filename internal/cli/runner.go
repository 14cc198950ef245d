package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/okian/rarepour/internal/adapters/source"
	app "github.com/okian/rarepour/internal/app"
	"github.com/okian/rarepour/internal/domain/preferences"
	"github.com/okian/rarepour/internal/domain/types"
	"github.com/okian/rarepour/pkg/logger"
)

// Run loads the data once, evaluates the flags and writes the result to out.
func Run(ctx context.Context, cfg *Config, out io.Writer) error {
	return run(ctx, cfg, out, time.Now)
}

func run(ctx context.Context, cfg *Config, out io.Writer, now func() time.Time) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	at, err := cfg.Time(loc, now)
	if err != nil {
		return err
	}

	log := logger.Get()
	log.Debug(ctx, "running offline recommendation",
		logger.String("data", cfg.DataDir),
		logger.Time("at", at),
		logger.String("timezone", loc.String()))

	svc := app.New(
		app.WithLogger(log),
		app.WithLocation(loc),
		app.WithClock(func() time.Time { return at }),
		app.WithSnapshotTTL(0),
		app.WithSourceOptions(source.WithDir(cfg.DataDir)),
	)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start service: %w", err)
	}
	defer svc.Stop()

	classes, err := svc.MasterClasses(ctx)
	if err != nil {
		return fmt.Errorf("could not load festival data: %w", err)
	}
	override, err := preferences.ParseQuery(cfg.Query(), classes)
	if err != nil {
		return err
	}

	res, err := svc.NextOpeningsAt(ctx, at, override)
	if err != nil {
		return fmt.Errorf("could not load festival data: %w", err)
	}
	return Print(out, res, loc)
}

// Print writes the openings in a human readable block per opening.
func Print(out io.Writer, res types.Openings, loc *time.Location) error {
	if res.Empty() {
		_, err := fmt.Fprintln(out, res.Message())
		return err
	}

	if _, err := fmt.Fprintln(out, "--- Next Recommended Opening(s) ---"); err != nil {
		return err
	}
	for _, r := range res.Recommendations {
		t := r.Time.In(loc)
		price := "N/A"
		if r.HasPrice() {
			price = r.PriceOr("") + "€"
		}
		if _, err := fmt.Fprintf(out,
			"  Time: %s (%s)\n  Name: %s\n  Stand: %s\n  Glass Price: %s\n  Preference Score: %d\n---\n",
			t.Format("2006-01-02 15:04"), t.Format("Monday 15:04"), r.Name, r.Stand, price, r.PreferenceScore,
		); err != nil {
			return err
		}
	}
	return nil
}
