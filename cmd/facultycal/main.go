package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"facultycal/internal/calendar"
	"facultycal/internal/config"
	"facultycal/internal/digest"
	appLog "facultycal/internal/log"
	"facultycal/internal/model"
	"facultycal/internal/seed"
	"facultycal/internal/store"
	"facultycal/internal/view"
	"facultycal/internal/web"
)

const version = "0.1.0"

func main() {
	// .env is optional.
	_ = godotenv.Load()

	app := &cli.App{
		Name:    "facultycal",
		Usage:   "Faculty calendar: events, filters and month/week/day/list views.",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "/etc/facultycal/config.yaml",
				Usage:   "Path to config file (created with defaults if missing)",
				EnvVars: []string{"FACULTYCAL_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			renderCommand(),
			upcomingCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		appLog.Error("facultycal failed", err)
		os.Exit(1)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the calendar API and run the upcoming-events digest.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "listen", Usage: "HTTP listen address (overrides config if set)"},
		},
		Action: func(c *cli.Context) error {
			cfg, sess, err := bootstrap(c)
			if err != nil {
				return err
			}
			if l := c.String("listen"); l != "" {
				cfg.Listen = l
			}

			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if cfg.DigestEnabled() {
				d, err := digest.New(sess, cfg.Digest, cfg.Location(), cfg.UpcomingLimit)
				if err != nil {
					return fmt.Errorf("digest: %w", err)
				}
				d.Start()
				defer func() {
					stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					d.Stop(stopCtx)
				}()
			}

			if err := web.NewServer(cfg, sess).Run(ctx); err != nil {
				return fmt.Errorf("http server: %w", err)
			}
			appLog.Info("facultycal exiting")
			return nil
		},
	}
}

func renderCommand() *cli.Command {
	return &cli.Command{
		Name:  "render",
		Usage: "Print a calendar view to stdout.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "view", Usage: "month, week, day or list (default from config)"},
			&cli.StringFlag{Name: "date", Usage: "anchor date YYYY-MM-DD (default today)"},
			&cli.StringSliceFlag{Name: "type", Usage: "only show these event types (repeatable)"},
			&cli.BoolFlag{Name: "no-recurring", Usage: "hide recurring events"},
		},
		Action: func(c *cli.Context) error {
			cfg, sess, err := bootstrap(c)
			if err != nil {
				return err
			}

			mode := cfg.View()
			if v := c.String("view"); v != "" {
				if mode, err = view.ParseMode(v); err != nil {
					return err
				}
			}
			if err := sess.SetView(mode); err != nil {
				return err
			}

			if d := c.String("date"); d != "" {
				date, err := model.ParseDate(d, sess.Location())
				if err != nil {
					return err
				}
				sess.SelectDate(date)
			}

			if err := applyFilterFlags(c, sess); err != nil {
				return err
			}

			printModel(c.App.Writer, sess.Render())
			return nil
		},
	}
}

func upcomingCommand() *cli.Command {
	return &cli.Command{
		Name:  "upcoming",
		Usage: "Print the next events after now.",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Usage: "number of events (default from config)"},
		},
		Action: func(c *cli.Context) error {
			cfg, sess, err := bootstrap(c)
			if err != nil {
				return err
			}
			limit := cfg.UpcomingLimit
			if c.IsSet("limit") {
				limit = c.Int("limit")
			}
			for _, line := range digest.Lines(sess.UpcomingEvents(limit)) {
				fmt.Fprintln(c.App.Writer, line)
			}
			return nil
		},
	}
}

// bootstrap loads config, sets the log level and builds a seeded session.
func bootstrap(c *cli.Context) (*config.Config, *calendar.Session, error) {
	path := c.String("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load config %s: %w", path, err)
	}

	level := cfg.LogLevel
	if env := os.Getenv("LOG_LEVEL"); env != "" {
		level = env
	}
	appLog.SetLevel(appLog.ParseLevel(level))

	loc := cfg.Location()
	appLog.Info("effective config",
		"config_path", path,
		"listen", cfg.Listen,
		"timezone", loc.String(),
		"default_view", cfg.DefaultView,
		"upcoming_limit", cfg.UpcomingLimit,
		"digest", cfg.Digest,
		"seed_count", len(cfg.Seed),
	)

	sess := calendar.New(store.New(), calendar.WithLocation(loc), calendar.WithView(cfg.View()))

	drafts, err := seed.Load(c.Context, cfg.Seed, loc, seed.NewFetcher(cfg.SeedCache))
	if err != nil {
		return nil, nil, err
	}
	created, skipped := seed.Apply(sess, drafts)
	appLog.Info("seed applied", "created", created, "skipped", skipped)

	return cfg, sess, nil
}

func applyFilterFlags(c *cli.Context, sess *calendar.Session) error {
	types := c.StringSlice("type")
	if len(types) == 0 && !c.Bool("no-recurring") {
		return nil
	}

	crit := sess.Filter()
	if len(types) > 0 {
		crit.Types = make(map[model.EventType]bool, len(types))
		for _, raw := range types {
			t, ok := model.ParseEventType(strings.ToLower(raw))
			if !ok {
				return fmt.Errorf("unknown event type %q", raw)
			}
			crit.Types[t] = true
		}
	}
	if c.Bool("no-recurring") {
		crit.IncludeRecurring = false
	}
	sess.SetFilter(crit)
	return nil
}

func printModel(w io.Writer, m view.Model) {
	switch {
	case m.Month != nil:
		mv := m.Month
		fmt.Fprintf(w, "%s %d\n", mv.Month, mv.Year)
		for _, cell := range mv.Cells {
			if len(cell.Markers) == 0 {
				continue
			}
			titles := make([]string, 0, len(cell.Markers))
			for _, mk := range cell.Markers {
				titles = append(titles, mk.Title)
			}
			line := fmt.Sprintf("%s%s  %s", todayMark(cell.Today), model.FormatDate(cell.Date), strings.Join(titles, ", "))
			if cell.OverflowCount > 0 {
				line += fmt.Sprintf(" +%d more", cell.OverflowCount)
			}
			fmt.Fprintln(w, line)
		}
	case m.Week != nil:
		fmt.Fprintf(w, "Week %s to %s\n", model.FormatDate(m.Week.Start), model.FormatDate(m.Week.End))
		for _, d := range m.Week.Days {
			fmt.Fprintf(w, "%s%s %s\n", todayMark(d.Today), d.Date.Weekday().String()[:3], model.FormatDate(d.Date))
			printEvents(w, d.Events)
		}
	case m.Day != nil:
		fmt.Fprintln(w, model.FormatDate(m.Day.Date))
		printEvents(w, m.Day.Events)
	case m.List != nil:
		fmt.Fprintf(w, "%s %d\n", m.List.Month, m.List.Year)
		if len(m.List.Groups) == 0 {
			fmt.Fprintln(w, "  (no events)")
		}
		for _, g := range m.List.Groups {
			fmt.Fprintln(w, model.FormatDate(g.Date))
			printEvents(w, g.Events)
		}
	}
}

func printEvents(w io.Writer, events []model.Event) {
	for _, e := range events {
		when := "all day"
		if e.HasStartTime() {
			when = e.StartTime
			if e.EndTime != "" {
				when += "-" + e.EndTime
			}
		}
		fmt.Fprintf(w, "    %-11s %s [%s]\n", when, e.Title, e.Type)
	}
}

func todayMark(today bool) string {
	if today {
		return "* "
	}
	return "  "
}
