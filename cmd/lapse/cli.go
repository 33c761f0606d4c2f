package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/lapse/internal/config"
	"github.com/hpungsan/lapse/internal/errors"
	"github.com/hpungsan/lapse/internal/frame"
	"github.com/hpungsan/lapse/internal/report"
	"github.com/hpungsan/lapse/internal/sync"
	"github.com/hpungsan/lapse/internal/timer"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(baseDir string) *cli.App {
	app := &cli.App{
		Name:    "lapse",
		Usage:   "Track the time you spend on projects",
		Version: Version,
		Commands: []*cli.Command{
			startCmd(baseDir),
			stopCmd(baseDir),
			cancelCmd(baseDir),
			restartCmd(baseDir),
			statusCmd(baseDir),
			addCmd(baseDir),
			logCmd(baseDir),
			reportCmd(baseDir),
			aggregateCmd(baseDir),
			projectsCmd(baseDir),
			tagsCmd(baseDir),
			framesCmd(baseDir),
			editCmd(baseDir),
			removeCmd(baseDir),
			renameCmd(baseDir),
			configCmd(baseDir),
			mergeCmd(baseDir),
			syncCmd(baseDir),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// withTimer loads the config and timer state, runs fn, and formats any
// error for the CLI.
func withTimer(baseDir string, fn func(*timer.Timer) error) error {
	cfg, err := config.Load(baseDir)
	if err != nil {
		return outputError(err)
	}
	tm, err := timer.Open(baseDir, cfg)
	if err != nil {
		return outputError(err)
	}
	if err := fn(tm); err != nil {
		return outputError(err)
	}
	return nil
}

// startCmd creates the start command.
func startCmd(baseDir string) *cli.Command {
	return &cli.Command{
		Name:      "start",
		Usage:     "Start tracking time on a project",
		ArgsUsage: "<project> [+tag...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "at", Usage: "Backdated start time (e.g. \"2024-03-05 09:00\" or \"09:00\")"},
			&cli.BoolFlag{Name: "no-gap", Aliases: []string{"G"}, Usage: "Start where the previous frame stopped"},
		},
		Action: func(c *cli.Context) error {
			project, tags := parseProjectArgs(c.Args().Slice())
			return withTimer(baseDir, func(tm *timer.Timer) error {
				opts := timer.StartOptions{NoGap: c.Bool("no-gap")}
				if at := c.String("at"); at != "" {
					ts, err := parseTime(at, time.Now())
					if err != nil {
						return err
					}
					opts.StartAt = ts
				}

				if tm.IsStarted() && tm.Config().Options.StopOnStart {
					f, err := tm.Stop(time.Time{})
					if err != nil {
						return err
					}
					printStopped(f)
				}

				sess, err := tm.Start(project, tags, opts)
				if err != nil {
					return err
				}
				if err := tm.Save(); err != nil {
					return err
				}
				printStarted(sess)
				return nil
			})
		},
	}
}

// stopCmd creates the stop command.
func stopCmd(baseDir string) *cli.Command {
	return &cli.Command{
		Name:  "stop",
		Usage: "Stop the running session, recording a frame",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "at", Usage: "Backdated stop time"},
		},
		Action: func(c *cli.Context) error {
			return withTimer(baseDir, func(tm *timer.Timer) error {
				var stopAt time.Time
				if at := c.String("at"); at != "" {
					ts, err := parseTime(at, time.Now())
					if err != nil {
						return err
					}
					stopAt = ts
				}
				f, err := tm.Stop(stopAt)
				if err != nil {
					return err
				}
				if err := tm.Save(); err != nil {
					return err
				}
				printStopped(f)
				return nil
			})
		},
	}
}

// cancelCmd creates the cancel command.
func cancelCmd(baseDir string) *cli.Command {
	return &cli.Command{
		Name:  "cancel",
		Usage: "Discard the running session without recording a frame",
		Action: func(c *cli.Context) error {
			return withTimer(baseDir, func(tm *timer.Timer) error {
				old, err := tm.Cancel()
				if err != nil {
					return err
				}
				if err := tm.Save(); err != nil {
					return err
				}
				fmt.Printf("Canceled session for project %s\n", styleProject(old.Project))
				return nil
			})
		},
	}
}

// restartCmd creates the restart command.
func restartCmd(baseDir string) *cli.Command {
	return &cli.Command{
		Name:      "restart",
		Usage:     "Start a new session using the project and tags of a previous frame",
		ArgsUsage: "[frame]",
		Action: func(c *cli.Context) error {
			key := "-1"
			if c.NArg() > 0 {
				key = c.Args().First()
			}
			return withTimer(baseDir, func(tm *timer.Timer) error {
				f, err := tm.Frames().Resolve(key)
				if err != nil {
					return err
				}
				sess, err := tm.Start(f.Project, f.Tags, timer.StartOptions{Restart: true})
				if err != nil {
					return err
				}
				if err := tm.Save(); err != nil {
					return err
				}
				printStarted(sess)
				return nil
			})
		},
	}
}

// statusCmd creates the status command.
func statusCmd(baseDir string) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show the running session, if any",
		Action: func(c *cli.Context) error {
			return withTimer(baseDir, func(tm *timer.Timer) error {
				sess, ok := tm.Current()
				if !ok {
					fmt.Println("No project started.")
					return nil
				}
				fmt.Printf("Project %s%s started %s (%s)\n",
					styleProject(sess.Project),
					styleTags(sess.Tags),
					styleTime(sess.Start),
					humanDuration(time.Since(sess.Start)))
				return nil
			})
		},
	}
}

// addCmd creates the add command.
func addCmd(baseDir string) *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Record a frame for an interval that was not tracked live",
		ArgsUsage: "<project> [+tag...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "from", Aliases: []string{"f"}, Required: true, Usage: "Interval start"},
			&cli.StringFlag{Name: "to", Aliases: []string{"t"}, Required: true, Usage: "Interval end"},
		},
		Action: func(c *cli.Context) error {
			project, tags := parseProjectArgs(c.Args().Slice())
			return withTimer(baseDir, func(tm *timer.Timer) error {
				now := time.Now()
				from, err := parseTime(c.String("from"), now)
				if err != nil {
					return err
				}
				to, err := parseTime(c.String("to"), now)
				if err != nil {
					return err
				}
				f, err := tm.Add(project, from, to, tags)
				if err != nil {
					return err
				}
				if err := tm.Save(); err != nil {
					return err
				}
				fmt.Printf("Added frame %s for project %s%s (%s)\n",
					styleID(f.ID), styleProject(f.Project), styleTags(f.Tags),
					humanDuration(f.Duration()))
				return nil
			})
		},
	}
}

// logCmd creates the log command.
func logCmd(baseDir string) *cli.Command {
	return &cli.Command{
		Name:  "log",
		Usage: "Show frames day by day over a time span",
		Flags: append(spanFlags(),
			&cli.BoolFlag{Name: "json", Usage: "Print the raw structure as JSON"},
		),
		Action: func(c *cli.Context) error {
			return withTimer(baseDir, func(tm *timer.Timer) error {
				opts, err := reportOptions(c, tm)
				if err != nil {
					return err
				}
				log, err := report.BuildLog(tm, opts)
				if err != nil {
					return err
				}
				if c.Bool("json") {
					return outputJSON(log)
				}
				printLog(log)
				return nil
			})
		},
	}
}

// reportCmd creates the report command.
func reportCmd(baseDir string) *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Show aggregated time per project and tag over a time span",
		Flags: append(spanFlags(),
			&cli.BoolFlag{Name: "json", Usage: "Print the raw structure as JSON"},
		),
		Action: func(c *cli.Context) error {
			return withTimer(baseDir, func(tm *timer.Timer) error {
				opts, err := reportOptions(c, tm)
				if err != nil {
					return err
				}
				rep, err := report.Build(tm, opts)
				if err != nil {
					return err
				}
				if c.Bool("json") {
					return outputJSON(rep)
				}
				printReport(rep)
				return nil
			})
		},
	}
}

// aggregateCmd creates the aggregate command.
func aggregateCmd(baseDir string) *cli.Command {
	return &cli.Command{
		Name:  "aggregate",
		Usage: "Show a report of each day in a time span",
		Flags: append(spanFlags(),
			&cli.BoolFlag{Name: "json", Usage: "Print the raw structure as JSON"},
		),
		Action: func(c *cli.Context) error {
			return withTimer(baseDir, func(tm *timer.Timer) error {
				opts, err := reportOptions(c, tm)
				if err != nil {
					return err
				}
				agg, err := report.BuildAggregate(tm, opts)
				if err != nil {
					return err
				}
				if c.Bool("json") {
					return outputJSON(agg)
				}
				printAggregate(agg)
				return nil
			})
		},
	}
}

// projectsCmd creates the projects command.
func projectsCmd(baseDir string) *cli.Command {
	return &cli.Command{
		Name:  "projects",
		Usage: "List all projects",
		Action: func(c *cli.Context) error {
			return withTimer(baseDir, func(tm *timer.Timer) error {
				for _, project := range tm.Frames().Projects() {
					fmt.Println(styleProject(project))
				}
				return nil
			})
		},
	}
}

// tagsCmd creates the tags command.
func tagsCmd(baseDir string) *cli.Command {
	return &cli.Command{
		Name:  "tags",
		Usage: "List all tags",
		Action: func(c *cli.Context) error {
			return withTimer(baseDir, func(tm *timer.Timer) error {
				for _, tag := range tm.Frames().Tags() {
					fmt.Println(tag)
				}
				return nil
			})
		},
	}
}

// framesCmd creates the frames command.
func framesCmd(baseDir string) *cli.Command {
	return &cli.Command{
		Name:  "frames",
		Usage: "List the ids of all frames",
		Action: func(c *cli.Context) error {
			return withTimer(baseDir, func(tm *timer.Timer) error {
				for _, f := range tm.Frames().All() {
					fmt.Println(styleID(shortID(f.ID)))
				}
				return nil
			})
		},
	}
}

// editCmd creates the edit command.
func editCmd(baseDir string) *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "Modify a recorded frame",
		ArgsUsage: "<frame>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "project", Aliases: []string{"p"}, Usage: "New project name"},
			&cli.StringFlag{Name: "from", Aliases: []string{"f"}, Usage: "New start time"},
			&cli.StringFlag{Name: "to", Aliases: []string{"t"}, Usage: "New stop time"},
			&cli.StringSliceFlag{Name: "tag", Aliases: []string{"T"}, Usage: "New tag set, replacing the old one (repeatable)"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return outputError(errors.NewInvalidRequest("a frame id or position is required"))
			}
			key := c.Args().First()
			return withTimer(baseDir, func(tm *timer.Timer) error {
				f, err := tm.Frames().Resolve(key)
				if err != nil {
					return err
				}

				now := time.Now()
				ov := frame.Override{
					Project:   c.String("project"),
					Tags:      c.StringSlice("tag"),
					UpdatedAt: now,
				}
				if from := c.String("from"); from != "" {
					ts, err := parseTime(from, now)
					if err != nil {
						return err
					}
					ov.Start = ts
				}
				if to := c.String("to"); to != "" {
					ts, err := parseTime(to, now)
					if err != nil {
						return err
					}
					ov.Stop = ts
				}

				updated := f.Replace(ov)
				if updated.Stop.Before(updated.Start) {
					return errors.NewInvalidInterval("task cannot end before it starts")
				}
				tm.Frames().SetByID(f.ID, updated)
				if err := tm.Save(); err != nil {
					return err
				}
				fmt.Printf("Edited frame %s for project %s%s, %s to %s\n",
					styleID(shortID(updated.ID)),
					styleProject(updated.Project), styleTags(updated.Tags),
					styleTime(updated.Start), styleTime(updated.Stop))
				return nil
			})
		},
	}
}

// removeCmd creates the remove command.
func removeCmd(baseDir string) *cli.Command {
	return &cli.Command{
		Name:      "remove",
		Usage:     "Delete a frame by id or position",
		ArgsUsage: "<frame>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return outputError(errors.NewInvalidRequest("a frame id or position is required"))
			}
			key := c.Args().First()
			return withTimer(baseDir, func(tm *timer.Timer) error {
				f, err := tm.Frames().Resolve(key)
				if err != nil {
					return err
				}
				if err := tm.Frames().DeleteByID(f.ID); err != nil {
					return err
				}
				if err := tm.Save(); err != nil {
					return err
				}
				fmt.Printf("Removed frame %s\n", styleID(shortID(f.ID)))
				return nil
			})
		},
	}
}

// renameCmd creates the rename command.
func renameCmd(baseDir string) *cli.Command {
	return &cli.Command{
		Name:      "rename",
		Usage:     "Rename a project or tag across all frames",
		ArgsUsage: "<project|tag> <old> <new>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 3 {
				return outputError(errors.NewInvalidRequest("usage: rename <project|tag> <old> <new>"))
			}
			kind, oldName, newName := c.Args().Get(0), c.Args().Get(1), c.Args().Get(2)
			return withTimer(baseDir, func(tm *timer.Timer) error {
				var err error
				switch kind {
				case "project":
					err = tm.RenameProject(oldName, newName)
				case "tag":
					err = tm.RenameTag(oldName, newName)
				default:
					return errors.NewInvalidRequest("rename target must be \"project\" or \"tag\"")
				}
				if err != nil {
					return err
				}
				fmt.Printf("Renamed %s %q to %q\n", kind, oldName, newName)
				return nil
			})
		},
	}
}

// configCmd creates the config command.
func configCmd(baseDir string) *cli.Command {
	return &cli.Command{
		Name:      "config",
		Usage:     "Get or set a configuration option",
		ArgsUsage: "<section.option> [value]",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 || c.NArg() > 2 {
				return outputError(errors.NewInvalidRequest("usage: config <section.option> [value]"))
			}
			key := c.Args().Get(0)
			cfg, err := config.Load(baseDir)
			if err != nil {
				return outputError(err)
			}
			if c.NArg() == 1 {
				value, err := configValue(cfg, key)
				if err != nil {
					return outputError(err)
				}
				fmt.Println(value)
				return nil
			}
			if err := setConfigValue(cfg, key, c.Args().Get(1)); err != nil {
				return outputError(err)
			}
			if err := config.Save(baseDir, cfg); err != nil {
				return outputError(err)
			}
			return nil
		},
	}
}

// configValue reads one option by its dotted key.
func configValue(cfg *config.Config, key string) (string, error) {
	switch key {
	case "options.day_start_hour":
		return strconv.Itoa(cfg.Options.DayStartHour), nil
	case "options.report_current":
		return strconv.FormatBool(cfg.Options.ReportCurrent), nil
	case "options.stop_on_start":
		return strconv.FormatBool(cfg.Options.StopOnStart), nil
	case "options.week_start":
		return cfg.Options.WeekStart, nil
	case "backend.url":
		return cfg.Backend.URL, nil
	case "backend.token":
		return cfg.Backend.Token, nil
	}
	return "", errors.NewInvalidRequest(fmt.Sprintf("no such option %q", key))
}

// setConfigValue writes one option by its dotted key.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "options.day_start_hour":
		n, err := strconv.Atoi(value)
		if err != nil {
			return errors.NewInvalidRequest("day_start_hour must be an integer")
		}
		cfg.Options.DayStartHour = n
	case "options.report_current":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return errors.NewInvalidRequest("report_current must be a boolean")
		}
		cfg.Options.ReportCurrent = b
	case "options.stop_on_start":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return errors.NewInvalidRequest("stop_on_start must be a boolean")
		}
		cfg.Options.StopOnStart = b
	case "options.week_start":
		cfg.Options.WeekStart = value
	case "backend.url":
		cfg.Backend.URL = value
	case "backend.token":
		cfg.Backend.Token = value
	default:
		return errors.NewInvalidRequest(fmt.Sprintf("no such option %q", key))
	}
	return nil
}

// mergeCmd creates the merge command.
func mergeCmd(baseDir string) *cli.Command {
	return &cli.Command{
		Name:      "merge",
		Usage:     "Reconcile the local frames against an exported frames file",
		ArgsUsage: "<frames-file>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "Resolve every conflict by keeping the file's version"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return outputError(errors.NewInvalidRequest("a frames file is required"))
			}
			path := c.Args().First()
			return withTimer(baseDir, func(tm *timer.Timer) error {
				conflicting, merging, err := sync.MergeReport(tm, path)
				if err != nil {
					return err
				}

				var keep []frame.Frame
				for _, conflict := range conflicting {
					if c.Bool("force") {
						keep = append(keep, conflict.Remote)
						continue
					}
					printConflict(conflict)
				}
				if len(conflicting) > 0 && !c.Bool("force") {
					fmt.Printf("%d conflicting frames left untouched; rerun with --force to keep the file's versions\n", len(conflicting))
				}

				if err := sync.ApplyMerge(tm, keep, merging); err != nil {
					return err
				}
				if err := tm.Save(); err != nil {
					return err
				}
				fmt.Printf("Merged %d frames, resolved %d conflicts\n", len(merging), len(keep))
				return nil
			})
		},
	}
}

// syncCmd creates the sync command.
func syncCmd(baseDir string) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Pull new frames from the backend and push pending ones",
		Action: func(c *cli.Context) error {
			return withTimer(baseDir, func(tm *timer.Timer) error {
				client, err := sync.NewClient(tm.Config())
				if err != nil {
					return err
				}
				pulled, pushed, err := sync.Run(tm, client)
				if err != nil {
					return err
				}
				if err := tm.Save(); err != nil {
					return err
				}
				fmt.Printf("Received %d frames from the server\n", len(pulled))
				fmt.Printf("Pushed %d frames to the server\n", len(pushed))
				return nil
			})
		},
	}
}

// Helper functions

// spanFlags are the filtering flags shared by log and report.
func spanFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "from", Aliases: []string{"f"}, Usage: "Span start (default: 7 days ago)"},
		&cli.StringFlag{Name: "to", Aliases: []string{"t"}, Usage: "Span end (default: now)"},
		&cli.BoolFlag{Name: "day", Aliases: []string{"d"}, Usage: "Span over the current day"},
		&cli.BoolFlag{Name: "week", Aliases: []string{"w"}, Usage: "Span over the current week"},
		&cli.BoolFlag{Name: "month", Aliases: []string{"m"}, Usage: "Span over the current month"},
		&cli.BoolFlag{Name: "year", Aliases: []string{"y"}, Usage: "Span over the current year"},
		&cli.BoolFlag{Name: "all", Aliases: []string{"a"}, Usage: "Span over every frame"},
		&cli.StringSliceFlag{Name: "project", Aliases: []string{"p"}, Usage: "Only frames of this project (repeatable)"},
		&cli.StringSliceFlag{Name: "tag", Aliases: []string{"T"}, Usage: "Only frames with this tag (repeatable)"},
		&cli.StringSliceFlag{Name: "ignore-project", Usage: "Exclude frames of this project (repeatable)"},
		&cli.StringSliceFlag{Name: "ignore-tag", Usage: "Exclude frames with this tag (repeatable)"},
		&cli.BoolFlag{Name: "current", Aliases: []string{"c"}, Usage: "Include the running session"},
		&cli.BoolFlag{Name: "no-current", Aliases: []string{"C"}, Usage: "Exclude the running session"},
		&cli.BoolFlag{Name: "partial", Usage: "Include frames partially overlapping the span, cropped"},
	}
}

// reportOptions assembles report.Options from the shared span flags.
func reportOptions(c *cli.Context, tm *timer.Timer) (report.Options, error) {
	now := time.Now()
	opts := report.Options{
		From:           now.AddDate(0, 0, -7),
		To:             now,
		Projects:       c.StringSlice("project"),
		Tags:           c.StringSlice("tag"),
		IgnoreProjects: c.StringSlice("ignore-project"),
		IgnoreTags:     c.StringSlice("ignore-tag"),
		IncludePartial: c.Bool("partial"),
	}

	switch {
	case c.Bool("day"):
		opts.From = now
	case c.Bool("week"):
		opts.From = weekStart(now, tm.Config().Options.WeekStart)
	case c.Bool("month"):
		opts.From = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	case c.Bool("year"):
		opts.From = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	case c.Bool("all"):
		opts.From = time.Time{}
		opts.To = time.Time{}
	}

	if from := c.String("from"); from != "" {
		ts, err := parseTime(from, now)
		if err != nil {
			return report.Options{}, err
		}
		opts.From = ts
	}
	if to := c.String("to"); to != "" {
		ts, err := parseTime(to, now)
		if err != nil {
			return report.Options{}, err
		}
		opts.To = ts
	}

	if c.Bool("current") {
		yes := true
		opts.Current = &yes
	}
	if c.Bool("no-current") {
		no := false
		opts.Current = &no
	}
	return opts, nil
}

// weekStart returns the most recent occurrence of the configured first
// weekday.
func weekStart(now time.Time, weekday string) time.Time {
	want := time.Monday
	switch strings.ToLower(weekday) {
	case "sunday":
		want = time.Sunday
	case "monday":
		want = time.Monday
	case "tuesday":
		want = time.Tuesday
	case "wednesday":
		want = time.Wednesday
	case "thursday":
		want = time.Thursday
	case "friday":
		want = time.Friday
	case "saturday":
		want = time.Saturday
	}
	day := now
	for day.Weekday() != want {
		day = day.AddDate(0, 0, -1)
	}
	return day
}

// parseProjectArgs splits positional args into a project name and tags.
// A "+" arg starts a new tag; following words extend it, so
// "apollo +deep work +review" yields tags "deep work" and "review".
func parseProjectArgs(args []string) (string, []string) {
	if len(args) == 0 {
		return "", nil
	}
	project := args[0]
	var tags []string
	for _, arg := range args[1:] {
		if rest, ok := strings.CutPrefix(arg, "+"); ok {
			tags = append(tags, rest)
		} else if len(tags) > 0 {
			tags[len(tags)-1] += " " + arg
		} else {
			project += " " + arg
		}
	}
	return project, tags
}

// timeLayouts are the accepted forms for --at/--from/--to values.
var timeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
	"15:04",
}

// parseTime parses a user-supplied time. Bare clock times resolve against
// today's date.
func parseTime(s string, now time.Time) (time.Time, error) {
	for _, layout := range timeLayouts {
		ts, err := time.ParseInLocation(layout, s, now.Location())
		if err != nil {
			continue
		}
		if layout == "15:04" {
			ts = time.Date(now.Year(), now.Month(), now.Day(), ts.Hour(), ts.Minute(), 0, 0, now.Location())
		}
		return ts, nil
	}
	return time.Time{}, errors.NewInvalidRequest(fmt.Sprintf("unrecognized time %q", s))
}

// shortID truncates a frame id for display.
func shortID(id string) string {
	if len(id) > 7 {
		return id[:7]
	}
	return id
}

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if lapseErr, ok := err.(*errors.LapseError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", lapseErr.Code, lapseErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
