package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/rudylameme/bvp-planning-sub000/internal/app"
	"github.com/rudylameme/bvp-planning-sub000/internal/config"
	"github.com/rudylameme/bvp-planning-sub000/internal/domain"
	"github.com/rudylameme/bvp-planning-sub000/internal/service"
)

var trafficFlags = []struct {
	name  string
	week  domain.WeekOffset
	usage string
}{
	{"traffic-w1", domain.MinusOneWeek, "Traffic export of the previous week"},
	{"traffic-ly", domain.SameWeekLastYear, "Traffic export of the same week last year"},
	{"traffic-w2", domain.MinusTwoWeeks, "Traffic export of two weeks ago"},
}

func planCommand(cfg *config.Config) *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{Name: "sales", Usage: "Sales history export (csv or xlsx)", Required: true},
	}
	for _, tf := range trafficFlags {
		flags = append(flags, &cli.StringFlag{Name: tf.name, Usage: tf.usage})
	}
	flags = append(flags,
		&cli.StringFlag{Name: "profile", Usage: "Weighting profile (standard, seasonal, heavy_promotion)", Value: cfg.Planning.DefaultProfile},
		&cli.StringFlag{Name: "mode", Usage: "Estimation mode", Value: cfg.Planning.DefaultMode},
		&cli.StringFlag{Name: "store", Usage: "Store name printed on the plan"},
		&cli.StringFlag{Name: "week-start", Usage: "First day of the planned week"},
		&cli.StringSliceFlag{Name: "closed", Usage: "Regularly closed day, repeatable (e.g. --closed sun)"},
		&cli.StringFlag{Name: "data-dir", Usage: "Directory where the session is kept", Value: cfg.App.DataDir},
		&cli.StringFlag{Name: "xlsx", Usage: "Write the print workbook to this path"},
		&cli.StringFlag{Name: "handoff", Usage: "Write the hand-off file to this path"},
	)

	return &cli.Command{
		Name:   "plan",
		Usage:  "Compute the production plan of a week from the store exports",
		Flags:  flags,
		Action: func(c *cli.Context) error { return runPlan(c, cfg) },
	}
}

func runPlan(c *cli.Context, cfg *config.Config) error {
	ctx := c.Context

	local := *cfg
	local.Storage = config.StorageConfig{Driver: "local"}
	local.App.DataDir = c.String("data-dir")
	local.Cache.Enabled = false

	a, err := app.New(ctx, &local)
	if err != nil {
		return err
	}
	defer a.Close()
	svc := a.Sessions

	sess, err := svc.CreateSession(ctx, service.CreateSessionInput{
		StoreName: c.String("store"),
		WeekStart: c.String("week-start"),
		Profile:   c.String("profile"),
		Mode:      c.String("mode"),
	})
	if err != nil {
		return err
	}

	err = withFile(c.String("sales"), func(name string, r io.Reader) error {
		sess, err = svc.ImportSales(ctx, sess.ID, name, r)
		return err
	})
	if err != nil {
		return err
	}

	for _, tf := range trafficFlags {
		path := c.String(tf.name)
		if path == "" {
			continue
		}
		err = withFile(path, func(name string, r io.Reader) error {
			sess, err = svc.ImportTraffic(ctx, sess.ID, tf.week, "", name, r)
			return err
		})
		if err != nil {
			return err
		}
	}

	if closed := c.StringSlice("closed"); len(closed) > 0 {
		closures := domain.ClosureConfig{Days: make(map[domain.Day]domain.DayClosure)}
		for _, raw := range closed {
			d, err := domain.ParseDay(raw)
			if err != nil {
				return err
			}
			closures.Days[d] = domain.FullDayClosure(domain.StatusRegularlyClosed, nil)
		}
		if sess, err = svc.SetClosures(ctx, sess.ID, closures); err != nil {
			return err
		}
	}

	plan, err := svc.Plan(ctx, sess.ID)
	if err != nil {
		return err
	}
	printSummary(c.App.Writer, sess, plan)

	if path := c.String("xlsx"); path != "" {
		data, err := svc.Workbook(ctx, sess.ID)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write workbook: %w", err)
		}
		log.Info().Str("path", path).Msg("workbook written")
	}

	if path := c.String("handoff"); path != "" {
		data, _, err := svc.ExportHandoff(ctx, sess.ID)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write hand-off file: %w", err)
		}
		log.Info().Str("path", path).Msg("hand-off file written")
	}

	return nil
}

func withFile(path string, fn func(name string, r io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return fn(filepath.Base(path), f)
}

func printSummary(w io.Writer, sess *domain.Session, plan *domain.Plan) {
	fmt.Fprintf(w, "Session %s  store=%q  week=%s  profile=%s  mode=%s\n\n",
		sess.ID, sess.Store.Name, sess.Week.WeekStart, sess.Week.Profile, sess.Week.Mode)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Jour\tMatin\tMidi\tSoir\tTotal\tPlaques\t")
	week := 0
	for _, d := range domain.Week {
		t := plan.DayTotal(d)
		week += t.Total
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%.1f\t\n", d.Label(), t.Morning, t.Midday, t.Evening, t.Total, t.Trays)
	}
	fmt.Fprintf(tw, "Semaine\t\t\t\t%d\t\t\n", week)
	tw.Flush()

	if len(plan.Lost) > 0 {
		fmt.Fprintln(w, "\nQuantités non redistribuées:")
		for _, l := range plan.Lost {
			fmt.Fprintf(w, "  %s %s %s: %d (%s)\n", l.Day.Label(), l.HalfDay, l.ProductID, l.Quantity, l.Reason)
		}
	}

	warnings := append(append([]domain.Warning(nil), sess.Warnings...), plan.Warnings...)
	if len(warnings) > 0 {
		fmt.Fprintln(w, "\nAvertissements:")
		for _, warn := range warnings {
			fmt.Fprintf(w, "  [%s] %s\n", warn.Kind, warn.Message)
		}
	}
}
