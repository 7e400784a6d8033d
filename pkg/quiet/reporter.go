// Package quiet is a condensed test reporter. A host test runner drives it
// through three lifecycle calls (run start, each finished test file, run
// complete) and the reporter redraws a grid of per-test glyphs followed by
// suite, test and timing summary lines.
//
// The reporter is synchronous and single threaded. Every lifecycle call
// replaces the current State snapshot and redraws the whole screen.
package quiet

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Reporter accumulates host results into a State snapshot and renders it.
type Reporter struct {
	globalConfig GlobalConfig
	options      map[string]any

	screen Screen
	theme  Theme
	now    func() time.Time
	log    *slog.Logger

	state store
	err   error
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithScreen sets where frames are drawn. Defaults to stdout.
func WithScreen(s Screen) Option {
	return func(r *Reporter) {
		r.screen = s
	}
}

// WithTheme sets the rendering theme.
func WithTheme(t Theme) Option {
	return func(r *Reporter) {
		r.theme = t
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Reporter) {
		r.now = now
	}
}

// WithLogger sets the debug logger. Defaults to discarding.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reporter) {
		r.log = l
	}
}

// New creates a reporter for one run. globalConfig and options are kept as
// given; the reporter defines no option keys of its own.
func New(globalConfig GlobalConfig, options map[string]any, opts ...Option) *Reporter {
	r := &Reporter{
		globalConfig: globalConfig,
		options:      options,
		theme:        DefaultTheme(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.screen == nil {
		r.screen = NewTerminalScreen(os.Stdout, ClearAuto)
	}
	if r.log == nil {
		r.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	r.state.current = newState(r.now())
	return r
}

// GlobalConfig returns the configuration the host constructed the reporter with.
func (r *Reporter) GlobalConfig() GlobalConfig { return r.globalConfig }

// Options returns the reporter options passed by the host.
func (r *Reporter) Options() map[string]any { return r.options }

// State returns the current snapshot.
func (r *Reporter) State() State { return r.state.current }

// OnRunStart records the run start time and estimate and paints the first frame.
func (r *Reporter) OnRunStart(agg AggregatedResult, opts StartOptions) {
	r.log.Debug("run start", "suites", agg.NumTotalTestSuites, "estimated", opts.EstimatedTime)
	start := agg.StartTime
	estimated := opts.EstimatedTime
	r.state.mergeTiming(TimingUpdate{StartTime: &start, Estimated: &estimated})
	r.state.applyAggregate(agg)
	r.render(false)
}

// OnTestResult records one finished test file: elapsed time, the host's
// updated totals and one glyph per test in the file.
func (r *Reporter) OnTestResult(test Test, result TestFileResult, agg AggregatedResult) {
	r.log.Debug("test file complete", "path", test.Path, "tests", len(result.TestResults))
	elapsed := r.now().Sub(r.state.current.Timing.StartTime)
	r.state.mergeTiming(TimingUpdate{Elapsed: &elapsed})
	r.state.applyAggregate(agg)

	for _, tr := range result.TestResults {
		r.state.appendTestGlyph(r.theme.glyphFor(tr.Status))
	}

	r.render(false)
}

// OnRunComplete draws the final frame including skipped tests and failures.
// results may be nil when the host has no final aggregate.
func (r *Reporter) OnRunComplete(contexts []Context, results *AggregatedResult) {
	r.log.Debug("run complete", "contexts", len(contexts), "final", results != nil)
	if results != nil {
		r.state.applyAggregate(*results)
		for _, fr := range results.TestResults {
			if fr.FailureMessage != "" {
				r.state.appendFailureMessage(CleanFailureMessage(fr.FailureMessage))
			}
		}
		for _, fr := range results.TestResults {
			for _, tr := range fr.TestResults {
				if tr.Status == StatusPending {
					r.state.appendSkippedTest(tr.FullName)
				}
			}
		}
	}
	r.render(true)
}

// AddSkippedFile records a test file that was skipped as a whole.
func (r *Reporter) AddSkippedFile(path string) {
	r.state.appendSkippedFile(path)
}

// LastError returns the last error recorded by the reporter, if any.
func (r *Reporter) LastError() error { return r.err }

func (r *Reporter) setError(err error) { r.err = err }

// CleanFailureMessage drops the leading bullet and flattens the first
// suite separator of a host failure message.
func CleanFailureMessage(msg string) string {
	msg = strings.Replace(msg, "● ", "", 1)
	return strings.Replace(msg, " › ", " ", 1)
}

func (r *Reporter) render(final bool) {
	r.screen.Clear()
	r.screen.Print(Render(r.state.current, final, r.theme))
}
