// Package host drives a quiet.Reporter from a go test -json event stream.
//
// go test has no reporter interface of its own, so the driver plays the host
// test runner: it keeps the aggregate counters, groups tests by package (a
// package is one "test file"), builds failure messages, and calls the
// reporter's lifecycle methods in order.
package host

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/acarl005/stripansi"

	"github.com/dkoosis/quiet/pkg/quiet"
	"github.com/dkoosis/quiet/pkg/testjson"
)

// Reporter is the lifecycle the driver calls. *quiet.Reporter implements it.
type Reporter interface {
	OnRunStart(agg quiet.AggregatedResult, opts quiet.StartOptions)
	OnTestResult(test quiet.Test, result quiet.TestFileResult, agg quiet.AggregatedResult)
	OnRunComplete(contexts []quiet.Context, results *quiet.AggregatedResult)
}

// Driver converts test events into reporter lifecycle calls. It is not safe
// for concurrent use; events must be handled from one goroutine.
type Driver struct {
	reporter Reporter
	context  quiet.Context
	estimate float64
	now      func() time.Time
	log      *slog.Logger

	started  bool
	finished bool
	agg      quiet.AggregatedResult
	packages map[string]*pkgRun
	order    []string

	buildOutput map[string][]string // compiler output by ImportPath
}

// Option configures a Driver.
type Option func(*Driver)

// WithEstimate sets the estimated run duration in seconds passed at run start.
func WithEstimate(seconds float64) Option {
	return func(d *Driver) {
		d.estimate = seconds
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(d *Driver) {
		d.now = now
	}
}

// WithLogger sets the debug logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Driver) {
		d.log = l
	}
}

// NewDriver creates a driver for one run rooted at rootDir.
func NewDriver(r Reporter, rootDir string, opts ...Option) *Driver {
	d := &Driver{
		reporter:    r,
		context:     quiet.Context{RootDir: rootDir},
		now:         time.Now,
		packages:    make(map[string]*pkgRun),
		buildOutput: make(map[string][]string),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.log == nil {
		d.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return d
}

// Run feeds every event read from r to the driver. It does not finish the run.
// Returns the number of malformed lines skipped.
func (d *Driver) Run(ctx context.Context, r io.Reader) (int, error) {
	return testjson.Stream(ctx, r, d.Handle)
}

// Handle processes one event.
func (d *Driver) Handle(e testjson.TestEvent) {
	if d.finished {
		return
	}
	if !d.started {
		d.begin()
	}
	if e.Action == testjson.ActionBuildOutput {
		line := strings.TrimRight(stripansi.Strip(e.Output), "\n")
		if line != "" {
			d.buildOutput[e.ImportPath] = append(d.buildOutput[e.ImportPath], line)
		}
		return
	}
	if e.Package == "" {
		return
	}

	pkg := d.pkg(e.Package)
	switch {
	case e.IsTerminal() && e.IsPackageEvent():
		d.finishPackage(pkg, e)
	case e.IsTerminal():
		d.finishTest(pkg, e)
	case e.Action == testjson.ActionStart:
		if pkg.start.IsZero() {
			pkg.start = e.Time
		}
	case e.Action == testjson.ActionRun:
		pkg.test(e.Test)
	case e.Action == testjson.ActionOutput:
		pkg.addOutput(e.Test, e.Output)
	}
}

// Finish completes the run. When complete is false (the stream was
// interrupted) no final aggregate is passed to the reporter.
func (d *Driver) Finish(complete bool) {
	if d.finished {
		return
	}
	if !d.started {
		d.begin()
	}
	d.finished = true

	contexts := []quiet.Context{d.context}
	if !complete {
		d.log.Debug("run interrupted", "unfinished", d.unfinished())
		d.reporter.OnRunComplete(contexts, nil)
		return
	}
	final := d.snapshot()
	d.reporter.OnRunComplete(contexts, &final)
}

// ExitCode returns 1 when any test or package failed, otherwise 0.
func (d *Driver) ExitCode() int {
	if d.agg.NumFailedTests > 0 || d.agg.NumFailedTestSuites > 0 {
		return 1
	}
	return 0
}

// Aggregate returns a copy of the current aggregate.
func (d *Driver) Aggregate() quiet.AggregatedResult {
	return d.snapshot()
}

// begin starts the run on the driver's clock rather than event time, so
// replayed streams measure elapsed time from when quiet started reading.
func (d *Driver) begin() {
	at := d.now()
	d.started = true
	d.agg.StartTime = at
	d.agg.Success = true
	d.log.Debug("run start", "at", at, "estimate", d.estimate)
	d.reporter.OnRunStart(d.snapshot(), quiet.StartOptions{EstimatedTime: d.estimate, ShowStatus: true})
}

func (d *Driver) pkg(path string) *pkgRun {
	if p, ok := d.packages[path]; ok {
		return p
	}
	p := newPkgRun(path)
	d.packages[path] = p
	d.order = append(d.order, path)
	d.agg.NumTotalTestSuites++
	return p
}

// finishTest records a test result. go test reports subtests before their
// parent, so by now t knows its subtests. Only leaves are counted; a parent
// counts only when it failed without any failing subtest.
func (d *Driver) finishTest(pkg *pkgRun, e testjson.TestEvent) {
	if pkg.done {
		return
	}
	t := pkg.test(e.Test)
	if t.finished {
		return
	}
	t.finished = true
	t.duration = e.Duration()
	switch e.Action {
	case testjson.ActionPass:
		t.status = quiet.StatusPassed
	case testjson.ActionFail:
		t.status = quiet.StatusFailed
	default:
		t.status = quiet.StatusPending
	}
	pkg.propagate(t)

	t.counted = t.subtests == 0 || (t.status == quiet.StatusFailed && t.failedSubtests == 0)
	if !t.counted {
		return
	}
	d.agg.NumTotalTests++
	switch t.status {
	case quiet.StatusPassed:
		d.agg.NumPassedTests++
	case quiet.StatusFailed:
		d.agg.NumFailedTests++
		d.agg.Success = false
	default:
		d.agg.NumPendingTests++
	}
}

func (d *Driver) finishPackage(pkg *pkgRun, e testjson.TestEvent) {
	if pkg.done {
		return
	}
	pkg.done = true

	end := e.Time
	if end.IsZero() {
		end = d.now()
	}
	if e.FailedBuild != "" {
		pkg.output[""] = append(slices.Clone(d.buildOutput[e.FailedBuild]), pkg.output[""]...)
	}
	result := pkg.result(e.Action, end, e.Duration())
	switch {
	case result.NumFailingTests > 0 || e.Action == testjson.ActionFail:
		d.agg.NumFailedTestSuites++
		d.agg.Success = false
	case result.Skipped:
		d.agg.NumPendingTestSuites++
	default:
		d.agg.NumPassedTestSuites++
	}
	d.agg.TestResults = append(d.agg.TestResults, result)

	d.log.Debug("package complete", "package", pkg.path, "action", e.Action, "tests", len(result.TestResults))
	d.reporter.OnTestResult(quiet.Test{Path: pkg.path, Context: d.context}, result, d.snapshot())
}

func (d *Driver) unfinished() []string {
	var names []string
	for _, name := range d.order {
		if !d.packages[name].done {
			names = append(names, name)
		}
	}
	return names
}

// snapshot copies the aggregate so the reporter never shares the driver's slice.
func (d *Driver) snapshot() quiet.AggregatedResult {
	agg := d.agg
	agg.TestResults = slices.Clone(d.agg.TestResults)
	return agg
}

// pkgRun tracks one package while its tests run.
type pkgRun struct {
	path   string
	start  time.Time
	tests  map[string]*testRun
	order  []string
	output map[string][]string // keyed by test name, "" for package output
	done   bool
}

type testRun struct {
	name     string
	status   quiet.Status
	duration time.Duration
	finished bool
	counted  bool

	subtests       int // finished descendants
	failedSubtests int
}

func newPkgRun(path string) *pkgRun {
	return &pkgRun{
		path:   path,
		tests:  make(map[string]*testRun),
		output: make(map[string][]string),
	}
}

func (p *pkgRun) test(name string) *testRun {
	if t, ok := p.tests[name]; ok {
		return t
	}
	t := &testRun{name: name}
	p.tests[name] = t
	p.order = append(p.order, name)
	return t
}

// propagate tells every known ancestor of t that a descendant finished.
func (p *pkgRun) propagate(t *testRun) {
	name := t.name
	for {
		i := strings.LastIndexByte(name, '/')
		if i < 0 {
			return
		}
		name = name[:i]
		parent, ok := p.tests[name]
		if !ok {
			continue
		}
		parent.subtests++
		if t.status == quiet.StatusFailed {
			parent.failedSubtests++
		}
	}
}

func (p *pkgRun) addOutput(test, output string) {
	line := strings.TrimRight(stripansi.Strip(output), "\n")
	if line == "" {
		return
	}
	p.output[test] = append(p.output[test], line)
}

// result builds the finished file result for the package.
func (p *pkgRun) result(action testjson.Action, end time.Time, elapsed time.Duration) quiet.TestFileResult {
	start := p.start
	if start.IsZero() {
		start = end.Add(-elapsed)
	}
	r := quiet.TestFileResult{
		Path:      p.path,
		PerfStats: quiet.PerfStats{Start: start, End: end},
	}

	var failures []string
	for _, name := range p.order {
		t := p.tests[name]
		if !t.counted {
			continue
		}
		ancestors, title := testjson.SplitTestName(name)
		ar := quiet.AssertionResult{
			Title:          title,
			FullName:       strings.Join(append(append([]string{p.path}, ancestors...), title), " "),
			AncestorTitles: append([]string{p.path}, ancestors...),
			Status:         t.status,
			Duration:       t.duration,
		}
		switch t.status {
		case quiet.StatusPassed:
			r.NumPassingTests++
		case quiet.StatusFailed:
			r.NumFailingTests++
			msg := failureMessage(p.path, name, p.output[name])
			ar.FailureMessages = []string{msg}
			failures = append(failures, msg)
		default:
			r.NumPendingTests++
		}
		r.TestResults = append(r.TestResults, ar)
	}

	if action == testjson.ActionFail && len(failures) == 0 {
		// Build failures and package-level panics have no failing test.
		failures = append(failures, failureMessage(p.path, "", p.output[""]))
	}
	r.FailureMessage = strings.Join(failures, "\n\n")
	r.Skipped = action == testjson.ActionSkip ||
		(len(r.TestResults) > 0 && r.NumPendingTests == len(r.TestResults))
	return r
}

// failureMessage formats one failure as "● pkg › TestName" followed by the
// test's output, indented.
func failureMessage(pkg, test string, output []string) string {
	var sb strings.Builder
	sb.WriteString("● ")
	sb.WriteString(pkg)
	if test != "" {
		sb.WriteString(" › ")
		sb.WriteString(test)
	}
	var body []string
	for _, line := range output {
		if isBoilerplate(line) {
			continue
		}
		body = append(body, "    "+strings.TrimLeft(line, " \t"))
	}
	if len(body) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(strings.Join(body, "\n"))
	}
	return sb.String()
}

// isBoilerplate returns true for go test output lines that carry no failure detail.
func isBoilerplate(s string) bool {
	trimmed := strings.TrimSpace(s)
	return strings.HasPrefix(trimmed, "=== RUN") ||
		strings.HasPrefix(trimmed, "=== PAUSE") ||
		strings.HasPrefix(trimmed, "=== CONT") ||
		strings.HasPrefix(trimmed, "--- FAIL") ||
		strings.HasPrefix(trimmed, "--- PASS") ||
		strings.HasPrefix(trimmed, "--- SKIP") ||
		trimmed == "FAIL" ||
		strings.HasPrefix(trimmed, "FAIL\t") ||
		strings.HasPrefix(trimmed, "ok  \t")
}
