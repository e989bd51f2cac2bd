package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/klokku/timesheet/internal/config"
	"github.com/klokku/timesheet/pkg/business_calendar"
	"github.com/klokku/timesheet/pkg/report"
	"github.com/klokku/timesheet/pkg/session"
	"github.com/klokku/timesheet/pkg/settings"
	"github.com/klokku/timesheet/pkg/stats"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"github.com/xlab/closer"
)

const defaultConfigPath = "./config/application.yaml"

var rangeFlags = []cli.Flag{
	&cli.StringFlag{Name: "start", Usage: "first day of the range, YYYY-MM-DD (default: first day of this month)"},
	&cli.StringFlag{Name: "end", Usage: "last day of the range, YYYY-MM-DD (default: last day of this month)"},
}

// NewCLI is the command line entry point: the event store server plus the
// client commands working against it.
func NewCLI() *cli.App {
	return &cli.App{
		Name:  "timesheet",
		Usage: "time accounting on top of a calendar",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: defaultConfigPath, EnvVars: []string{"TIMESHEET_CONFIG"}, Usage: "YAML configuration file"},
		},
		Commands: []*cli.Command{
			serveCommand(),
			statsCommand(),
			reportCommand(),
			calendarCommand(),
			settingsCommand(),
		},
	}
}

func loadConfig(c *cli.Context) (config.Application, error) {
	return config.Load(c.String("config"))
}

func withSession(c *cli.Context, action func(cfg config.Application, s *session.Session) error) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	s, err := NewSession(c.Context, cfg)
	if err != nil {
		return err
	}
	defer s.Close()
	return action(cfg, s)
}

// applyRange narrows the session to --start/--end when either is given.
func applyRange(c *cli.Context, s *session.Session) error {
	if !c.IsSet("start") && !c.IsSet("end") {
		return nil
	}
	_, err := s.ApplyFilters(c.Context, c.String("start"), c.String("end"))
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the event store server",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			application, err := NewApplication(c.Context, cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			return application.Run()
		},
	}
}

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "show time per category for a date range",
		Flags: append([]cli.Flag{
			&cli.BoolFlag{Name: "csv", Usage: "print a per-day CSV table instead"},
			&cli.BoolFlag{Name: "server", Usage: "let the event store aggregate instead of the client"},
		}, rangeFlags...),
		Action: func(c *cli.Context) error {
			return withSession(c, func(cfg config.Application, s *session.Session) error {
				if err := applyRange(c, s); err != nil {
					return err
				}
				if c.Bool("csv") {
					return printStatsCSV(c, cfg, s)
				}
				if c.Bool("server") {
					return printServerStats(c, s)
				}
				if err := s.RefreshStats(c.Context); err != nil {
					return err
				}
				s.Panel().Wait()
				items, _ := s.Panel().Displayed()
				fmt.Fprintf(c.App.Writer, "%s\n", s.Filters().Current())
				for _, item := range items {
					fmt.Fprintf(c.App.Writer, "%-10s %8s\n", item.Label, item.Value)
				}
				return nil
			})
		},
	}
}

func printStatsCSV(c *cli.Context, cfg config.Application, s *session.Session) error {
	dateRange := s.Filters().Current()
	events, err := s.Events().GetEvents(c.Context, dateRange)
	if err != nil {
		return err
	}
	out, err := stats.NewCsvStatsRenderer().RenderStats(stats.SummarizeByDay(dateRange, events, cfg.Location()))
	if err != nil {
		return err
	}
	_, err = io.WriteString(c.App.Writer, out)
	return err
}

func printServerStats(c *cli.Context, s *session.Session) error {
	records, err := s.Events().GetStats(c.Context, s.Filters().Current())
	if err != nil {
		return err
	}
	for _, r := range records {
		fmt.Fprintf(c.App.Writer, "%-10s %8s\n", r.Name, report.FormatHours(r.Hours))
	}
	return nil
}

func reportCommand() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "export the statistics and task detail of a date range",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "schedule", Usage: "cron spec; keep running and export on every tick"},
		}, rangeFlags...),
		Action: func(c *cli.Context) error {
			return withSession(c, func(cfg config.Application, s *session.Session) error {
				if err := applyRange(c, s); err != nil {
					return err
				}

				spec := c.String("schedule")
				if spec == "" {
					spec = cfg.Report.Schedule
				}
				if spec != "" {
					return runScheduled(spec, s, cfg)
				}

				result, err := s.DownloadReport(c.Context)
				if err != nil {
					if errors.Is(err, report.ErrRenderNotReady) {
						return cli.Exit(report.FailureMessage, 2)
					}
					return cli.Exit(report.FailureMessage, 1)
				}
				fmt.Fprintln(c.App.Writer, result.Location)
				return nil
			})
		},
	}
}

func runScheduled(spec string, s *session.Session, cfg config.Application) error {
	scheduler, err := report.Schedule(spec, s.Generator(), cfg.Location())
	if err != nil {
		return err
	}
	// Hold exits the process, so the deferred session close would never run.
	// Closer runs bound funcs in reverse order: the scheduler stops first.
	closer.Bind(s.Close)
	closer.Bind(func() {
		<-scheduler.Stop().Done()
	})
	scheduler.Start()
	log.Infof("Exporting reports on schedule %q into %s", spec, cfg.Report.OutputDir)
	closer.Hold()
	return nil
}

func calendarCommand() *cli.Command {
	return &cli.Command{
		Name:  "calendar",
		Usage: "show the business calendar derived from the settings",
		Action: func(c *cli.Context) error {
			return withSession(c, func(_ config.Application, s *session.Session) error {
				return writeJSON(c.App.Writer, s.CalendarView().Options())
			})
		},
		Subcommands: []*cli.Command{
			{
				Name:  "windows",
				Usage: "list the working windows of a date range",
				Flags: rangeFlags,
				Action: func(c *cli.Context) error {
					return withSession(c, func(cfg config.Application, s *session.Session) error {
						if err := applyRange(c, s); err != nil {
							return err
						}
						windows, err := business_calendar.WorkingWindows(s.Settings().Current(), s.Filters().Current(), cfg.Location())
						if err != nil {
							return err
						}
						for _, w := range windows {
							fmt.Fprintf(c.App.Writer, "%s  %s-%s\n", w.Start.Format("Mon 2006-01-02"), w.Start.Format("15:04"), w.End.Format("15:04"))
						}
						fmt.Fprintf(c.App.Writer, "%s\n", report.FormatHours(business_calendar.PlannedHours(windows)))
						return nil
					})
				},
			},
			{
				Name:  "ics",
				Usage: "print the holidays as an iCalendar feed",
				Action: func(c *cli.Context) error {
					return withSession(c, func(cfg config.Application, s *session.Session) error {
						out, err := business_calendar.HolidaysICS(s.Settings().Current(), time.Now())
						if err != nil {
							return err
						}
						_, err = io.WriteString(c.App.Writer, out)
						return err
					})
				},
			},
		},
	}
}

func settingsCommand() *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "show or change the work schedule and holidays",
		Action: func(c *cli.Context) error {
			return withSession(c, func(_ config.Application, s *session.Session) error {
				return writeJSON(c.App.Writer, s.Settings().Current())
			})
		},
		Subcommands: []*cli.Command{
			{
				Name:  "set",
				Usage: "commit the work schedule and hours",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "schedule", Value: string(settings.Schedule52), Usage: "5/2, 6/1 or 7/0"},
					&cli.StringFlag{Name: "work-start", Value: "09:00"},
					&cli.StringFlag{Name: "work-end", Value: "18:00"},
				},
				Action: func(c *cli.Context) error {
					return withSession(c, func(_ config.Application, s *session.Session) error {
						committed, err := s.Settings().Commit(c.Context, settings.Schedule(c.String("schedule")), c.String("work-start"), c.String("work-end"))
						if err != nil {
							return err
						}
						return writeJSON(c.App.Writer, committed)
					})
				},
			},
			{
				Name:  "holiday",
				Usage: "manage holidays",
				Subcommands: []*cli.Command{
					{
						Name:      "add",
						ArgsUsage: "<YYYY-MM-DD>",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "kind", Value: string(settings.KindHoliday), Usage: "holiday or pre-holiday"},
						},
						Action: func(c *cli.Context) error {
							return withSession(c, func(_ config.Application, s *session.Session) error {
								_, err := s.Settings().AddHoliday(c.Context, c.Args().First(), settings.HolidayKind(c.String("kind")))
								if message, ok := settings.UserMessage(err); ok {
									return cli.Exit(message, 1)
								}
								return err
							})
						},
					},
					{
						Name:      "remove",
						ArgsUsage: "<YYYY-MM-DD>",
						Action: func(c *cli.Context) error {
							return withSession(c, func(_ config.Application, s *session.Session) error {
								_, err := s.Settings().RemoveHoliday(c.Context, c.Args().First())
								return err
							})
						},
					},
				},
			},
		},
	}
}
