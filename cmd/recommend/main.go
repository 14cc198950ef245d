package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/okian/rarepour/internal/cli"
)

func main() {
	var (
		dataDir      = flag.String("data", "data", "Directory with the festival data files")
		at           = flag.String("at", "", "Evaluation time as "+cli.AtLayout+" (default: now)")
		houses       = flag.String("house", "", "Comma separated preferred houses")
		size         = flag.String("size", "", "Bottle size preference")
		olderThan    = flag.Int("older-than", 0, "Prefer vintages in or before this year")
		attended     = flag.String("attended", "", "Comma separated attended master class ids")
		exclude      = flag.String("exclude", "", "Comma separated wines to leave out")
		ignoreTasted = flag.Bool("ignore-tasted", false, "Keep wines tasted at attended master classes")
		tz           = flag.String("tz", "Europe/Helsinki", "Time zone of the schedule")
		verbose      = flag.Bool("verbose", false, "Enable verbose logging")
		help         = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		cli.ShowHelp(os.Stdout)
		return
	}

	if err := cli.SetupLogging(*verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := &cli.Config{
		DataDir:      *dataDir,
		At:           *at,
		Houses:       *houses,
		Size:         *size,
		OlderThan:    *olderThan,
		Attended:     *attended,
		Exclude:      *exclude,
		IgnoreTasted: *ignoreTasted,
		Timezone:     *tz,
		Verbose:      *verbose,
	}

	if err := cli.Run(ctx, cfg, os.Stdout); err != nil {
		os.Stderr.WriteString("Recommendation failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
