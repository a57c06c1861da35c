package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/subcommands"

	"github.com/GreyRaphael/eqClient/internal/app"
	"github.com/GreyRaphael/eqClient/internal/calendar"
	"github.com/GreyRaphael/eqClient/internal/slogx"
)

func init() {
	slog.SetDefault(slogx.NewDefault("info"))
}

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(&buildCmd{}, "")
	subcommands.Register(&calendarCmd{}, "")

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}

type buildCmd struct {
	from, to  int
	secu      string
	intervals string
	workers   int
	resume    bool
	fromBar1m bool
}

func (*buildCmd) Name() string     { return "build" }
func (*buildCmd) Synopsis() string { return "build minute bars and coarser bars for a date range" }
func (*buildCmd) Usage() string {
	return `build -from YYYYMMDD [-to YYYYMMDD] [-secu etf|stock] [-intervals 1,5,15] [-workers N] [-resume] [-from-bar1m]:
  Build bar tables for every trading day in the range.
`
}

func (c *buildCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.from, "from", 0, "first date (YYYYMMDD)")
	f.IntVar(&c.to, "to", 0, "last date (YYYYMMDD), defaults to -from")
	f.StringVar(&c.secu, "secu", "", "security type, overrides SECU_TYPE")
	f.StringVar(&c.intervals, "intervals", "", "bar sizes in minutes, overrides INTERVALS")
	f.IntVar(&c.workers, "workers", 0, "days built in parallel, overrides WORKERS")
	f.BoolVar(&c.resume, "resume", false, "skip dates already recorded in .lastday.json")
	f.BoolVar(&c.fromBar1m, "from-bar1m", false, "rebuild coarse bars from stored 1m files")
}

func (c *buildCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.from == 0 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	if c.to == 0 {
		c.to = c.from
	}
	a, cleanup, err := InitializeApp(app.Overrides{
		SecuType:  c.secu,
		Intervals: c.intervals,
		Workers:   c.workers,
		Resume:    c.resume,
		FromBar1m: c.fromBar1m,
	})
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		return subcommands.ExitFailure
	}
	defer cleanup()

	cfg := a.Config
	slog.Info("using tick provider", "provider", a.Runner.Ticks.GetName(), "dir", cfg.TickBaseDir())
	slog.Info("save dir", "dir", cfg.DataDir, "format", cfg.SaveFormat, "intervals", cfg.Intervals)

	sum, err := app.RunBuild(ctx, a.Runner, c.from, c.to)
	if err != nil {
		slog.Error("build failed", "error", err)
		return subcommands.ExitFailure
	}
	if sum.Failed > 0 || sum.Skipped > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type calendarCmd struct {
	from, to int
	grid     int
}

func (*calendarCmd) Name() string     { return "calendar" }
func (*calendarCmd) Synopsis() string { return "list trading dates or print a day's bucket grid" }
func (*calendarCmd) Usage() string {
	return `calendar -from YYYYMMDD -to YYYYMMDD | calendar -grid YYYYMMDD:
  List trading dates in a range, or print the minute grid of one day.
`
}

func (c *calendarCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.from, "from", 0, "first date (YYYYMMDD)")
	f.IntVar(&c.to, "to", 0, "last date (YYYYMMDD)")
	f.IntVar(&c.grid, "grid", 0, "print the bucket grid of this date")
}

func (c *calendarCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cal, err := InitializeCalendar(app.Overrides{})
	if err != nil {
		slog.Error("failed to initialize calendar", "error", err)
		return subcommands.ExitFailure
	}
	switch {
	case c.grid != 0:
		g, err := cal.Grid(c.grid)
		if err != nil {
			slog.Error("no grid", "date", c.grid, "error", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("pre-open %s\n", calendar.Format(g.PreOpen))
		for _, b := range g.Buckets {
			fmt.Println(calendar.Format(b))
		}
		fmt.Printf("%d buckets\n", g.Len())
	case c.from != 0 && c.to != 0:
		dates, err := cal.DatesBetween(c.from, c.to)
		if err != nil {
			slog.Error("cannot list dates", "error", err)
			return subcommands.ExitFailure
		}
		for _, d := range dates {
			fmt.Println(d)
		}
	default:
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	return subcommands.ExitSuccess
}
