// quiet renders go test runs as a condensed grid of per-test glyphs followed
// by suite, test and timing summaries.
//
// Usage:
//
//	go test -json ./... | quiet
//	quiet run -- -race ./...
//	quiet -tui run -- ./...
//
// In the first form quiet reads a go test -json stream from stdin. With the
// run subcommand quiet starts `go test -json` itself, passing the remaining
// arguments through.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dkoosis/quiet/internal/config"
	"github.com/dkoosis/quiet/internal/detect"
	"github.com/dkoosis/quiet/internal/history"
	"github.com/dkoosis/quiet/internal/host"
	"github.com/dkoosis/quiet/internal/tui"
	"github.com/dkoosis/quiet/internal/version"
	"github.com/dkoosis/quiet/pkg/quiet"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// options is everything parsed from the command line.
type options struct {
	cli      config.CliFlags
	estimate float64
	version  bool
	execArgs []string // go test arguments; nil means read stdin
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("quiet", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage:\n  go test -json ./... | quiet [flags]\n  quiet [flags] run [--] [go test args]\n\nFlags:\n")
		fs.PrintDefaults()
	}

	opts := &options{}
	fs.StringVar(&opts.cli.ConfigFile, "config", "", "Config file (default: .quiet.yaml, then user config dir)")
	fs.StringVar(&opts.cli.Theme, "theme", "", "Theme: default, orca, mono")
	fs.BoolVar(&opts.cli.NoColor, "no-color", false, "Disable colors")
	fs.BoolVar(&opts.cli.CI, "ci", false, "CI mode: no color, no screen clearing")
	fs.StringVar(&opts.cli.Clear, "clear", "", "Clear the screen between frames: auto, always, never")
	fs.BoolVar(&opts.cli.TUI, "tui", false, "Full-screen interactive display")
	fs.BoolVar(&opts.cli.NoHistory, "no-history", false, "Do not read or record run timing history")
	fs.BoolVar(&opts.cli.Debug, "debug", false, "Log debug diagnostics to stderr")
	fs.Float64Var(&opts.estimate, "estimate", -1, "Estimated run time in seconds (default: last recorded run)")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "no-color":
			opts.cli.NoColorSet = true
		case "ci":
			opts.cli.CISet = true
		case "tui":
			opts.cli.TUISet = true
		case "no-history":
			opts.cli.NoHistorySet = true
		case "debug":
			opts.cli.DebugSet = true
		}
	})

	rest := fs.Args()
	if len(rest) > 0 {
		if rest[0] != "run" {
			return nil, fmt.Errorf("unknown command %q (expected run)", rest[0])
		}
		goArgs := rest[1:]
		if len(goArgs) > 0 && goArgs[0] == "--" {
			goArgs = goArgs[1:]
		}
		opts.execArgs = append([]string{}, goArgs...)
	}
	return opts, nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "quiet: %v\n", err)
		return 2
	}
	if opts.version {
		fmt.Fprintln(stdout, version.String())
		return 0
	}

	cfg, err := config.ResolveConfig(opts.cli)
	if err != nil {
		fmt.Fprintf(stderr, "quiet: %v\n", err)
		return 2
	}
	log := config.NewLogger(stderr, cfg.Debug)
	log.Debug("config resolved", "file", cfg.ConfigFile, "theme", cfg.ThemeName,
		"theme_source", cfg.ThemeSource, "clear", cfg.Clear, "tui", cfg.TUI, "history", cfg.History)

	// In stream mode make sure stdin really is go test -json before drawing anything.
	var input *bufio.Reader
	if opts.execArgs == nil {
		var code int
		input, code = sniffInput(stdin, stderr)
		if code >= 0 {
			return code
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if input != nil {
		// bufio.Reader is not an io.Closer; close stdin itself so the scanner unblocks.
		if c, ok := stdin.(io.Closer); ok {
			stopClose := context.AfterFunc(ctx, func() { _ = c.Close() })
			defer stopClose()
		}
	}

	rootDir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(stderr, "quiet: %v\n", err)
		return 2
	}

	store := openHistory(cfg, log)
	defer store.Close()
	previous, err := store.PackageDurations(rootDir)
	if err != nil {
		log.Warn("reading package history", "err", err)
	}
	estimate := opts.estimate
	if estimate < 0 {
		estimate, err = store.Estimate(rootDir)
		if err != nil {
			log.Warn("reading run history", "err", err)
			estimate = 0
		}
	}

	var screen quiet.Screen = quiet.NewTerminalScreen(stdout, cfg.Clear)
	var display *tui.Screen
	if cfg.TUI && quiet.IsTerminal(stdout) {
		var cancel context.CancelFunc
		ctx, cancel = context.WithCancel(ctx)
		defer cancel()
		display = tui.Start(ctx, "go test", tea.WithOutput(stdout), tea.WithInputTTY())
		screen = display
		go func() {
			// Quitting the display early interrupts the run.
			<-display.Exited()
			cancel()
		}()
	}

	reporter := quiet.New(
		quiet.GlobalConfig{RootDir: rootDir, Verbose: cfg.Debug, Args: args},
		nil,
		quiet.WithScreen(screen),
		quiet.WithTheme(cfg.Theme),
		quiet.WithLogger(log),
	)
	driver := host.NewDriver(reporter, rootDir, host.WithEstimate(estimate), host.WithLogger(log))

	began := time.Now()
	var runErr error
	var goExit int
	var goStderr []byte
	if opts.execArgs != nil {
		var res host.ExecResult
		res, runErr = host.Exec(ctx, rootDir, opts.execArgs, driver)
		goExit, goStderr = res.ExitCode, res.Stderr
		reportMalformed(stderr, res.Malformed)
	} else {
		var malformed int
		malformed, runErr = driver.Run(ctx, input)
		reportMalformed(stderr, malformed)
	}

	interrupted := ctx.Err() != nil
	complete := runErr == nil && !interrupted
	driver.Finish(complete)

	if display != nil {
		display.Done()
		if err := display.Wait(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			log.Warn("display", "err", err)
		}
	}
	if len(goStderr) > 0 {
		stderr.Write(goStderr) //nolint:errcheck // best effort
	}

	if complete {
		rec := historyRun(rootDir, driver.Aggregate(), driver.ExitCode(), time.Since(began))
		logSlowdowns(log, previous, rec.Packages)
		if err := store.RecordRun(rec); err != nil {
			log.Warn("recording run history", "err", err)
		}
	}

	switch {
	case interrupted:
		return 130
	case runErr != nil:
		fmt.Fprintf(stderr, "quiet: %v\n", runErr)
		return 2
	case driver.ExitCode() != 0:
		return driver.ExitCode()
	default:
		return goExit
	}
}

// sniffInput peeks at stdin without consuming it. Returns (reader, -1) when
// the input looks like go test -json, otherwise (nil, exitCode).
func sniffInput(stdin io.Reader, stderr io.Writer) (*bufio.Reader, int) {
	br := bufio.NewReaderSize(stdin, 8*1024)
	peeked, _ := br.Peek(4096)
	if len(peeked) == 0 {
		fmt.Fprintf(stderr, "quiet: no input on stdin\n")
		return nil, 2
	}
	switch detect.Sniff(peeked) {
	case detect.GoTestJSON:
		return br, -1
	case detect.GoTestText:
		fmt.Fprintf(stderr, "quiet: input is plain go test output; run go test with -json\n")
		return nil, 2
	default:
		fmt.Fprintf(stderr, "quiet: unrecognized input (expected go test -json)\n")
		return nil, 2
	}
}

func openHistory(cfg *config.ResolvedConfig, log *slog.Logger) *history.Store {
	store, err := history.Open(cfg.HistoryPath, cfg.History)
	if err != nil {
		log.Warn("run history disabled", "err", err)
		store, _ = history.Open("", false)
	}
	return store
}

func historyRun(rootDir string, agg quiet.AggregatedResult, exitCode int, elapsed time.Duration) history.Run {
	rec := history.Run{
		RootDir:   rootDir,
		Timestamp: time.Now().Add(-elapsed),
		Duration:  elapsed,
		Suites:    agg.NumTotalTestSuites,
		Tests:     agg.NumTotalTests,
		ExitCode:  exitCode,
	}
	for _, r := range agg.TestResults {
		status := "pass"
		switch {
		case r.NumFailingTests > 0 || r.FailureMessage != "":
			status = "fail"
		case r.Skipped:
			status = "skip"
		}
		rec.Packages = append(rec.Packages, history.PackageRun{
			Package:  r.Path,
			Duration: r.PerfStats.End.Sub(r.PerfStats.Start),
			Status:   status,
		})
	}
	return rec
}

// logSlowdowns logs packages that took at least twice as long as last time.
func logSlowdowns(log *slog.Logger, previous map[string]time.Duration, current []history.PackageRun) {
	for _, p := range current {
		before, ok := previous[p.Package]
		if !ok || before < 100*time.Millisecond {
			continue
		}
		if p.Duration >= 2*before {
			log.Debug("package slower than last run", "package", p.Package,
				"previous", before, "current", p.Duration)
		}
	}
}

func reportMalformed(stderr io.Writer, n int) {
	if n > 0 {
		fmt.Fprintf(stderr, "quiet: warning: %d malformed line(s) skipped\n", n)
	}
}
