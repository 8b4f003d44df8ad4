package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/urfave/cli/v2"

	ics "github.com/handcal/ics"
	"github.com/handcal/ics/internal/eventfile"
)

var createOutput = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

func main() {
	// Load .env file first, but don't error if it doesn't exist.
	_ = godotenv.Load()

	if err := newApp(os.Stdin, os.Stdout, os.Stderr).Run(os.Args); err != nil {
		slog.Error("icsgen failed", "error", err)
		os.Exit(1)
	}
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "icsgen",
		Usage:     "Render event records as an iCalendar document.",
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "debug, info, warn or error",
				EnvVars: []string{"ICSGEN_LOG_LEVEL"},
			},
		},
		Commands: []*cli.Command{
			buildCommand(),
		},
	}
}

func buildCommand() *cli.Command {
	return &cli.Command{
		Name:  "build",
		Usage: "Read events from a YAML, JSON or TOML file and write the .ics document.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Value: "-", Usage: "event file, - for stdin"},
			&cli.StringFlag{Name: "format", Value: "yaml", Usage: "format of stdin input: yaml, json or toml"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write to file instead of stdout"},
			&cli.StringFlag{
				Name:    "timezone",
				Usage:   "default timezone for events without one (overrides the file)",
				EnvVars: []string{"ICSGEN_TIMEZONE"},
			},
			&cli.BoolFlag{Name: "crlf", Usage: "terminate lines with CRLF"},
			&cli.BoolFlag{Name: "skip-invalid", Usage: "log and skip events with unreadable timestamps"},
		},
		Action: func(c *cli.Context) (err error) {
			logger := setupLogger(c.App.ErrWriter, c.String("log-level"))

			file, err := readEvents(c)
			if err != nil {
				return fmt.Errorf("failed to read events: %w", err)
			}

			tz := file.Timezone
			if c.IsSet("timezone") || tz == "" {
				tz = c.String("timezone")
			}
			cal := ics.NewCalendar(ics.Config{Timezone: tz}, ics.WithLogger(logger))

			for i, props := range file.Events {
				if err := cal.AddEvent(props); err != nil {
					if !c.Bool("skip-invalid") {
						return fmt.Errorf("event %d: %w", i, err)
					}
					logger.Warn("Skipping event", "index", i, "error", err)
				}
			}
			logger.Info("Events added.", "count", cal.Len(), "skipped", len(file.Events)-cal.Len(), "timezone", cal.DefaultTimezone())

			ops := []any{ics.WithTrailingNewLine(true)}
			if c.Bool("crlf") {
				ops = append(ops, ics.WithNewLineWindows)
			}

			out := c.App.Writer
			if path := c.String("output"); path != "" {
				f, ferr := createOutput(path)
				if ferr != nil {
					return fmt.Errorf("failed to create output file: %w", ferr)
				}
				defer func() {
					if cerr := f.Close(); cerr != nil && err == nil {
						err = fmt.Errorf("failed to close output file: %w", cerr)
					}
				}()
				out = f
			}
			if err := cal.SerializeTo(out, ops...); err != nil {
				return fmt.Errorf("failed to write calendar: %w", err)
			}
			return nil
		},
	}
}

func readEvents(c *cli.Context) (*eventfile.File, error) {
	path := c.String("input")
	if path != "-" {
		return eventfile.Load(path)
	}
	format, err := eventfile.ParseFormat(c.String("format"))
	if err != nil {
		return nil, err
	}
	return eventfile.Decode(c.App.Reader, format)
}

func setupLogger(w io.Writer, level string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      logLevel,
		TimeFormat: time.RFC1123Z,
		NoColor:    true,
	}))
}
