package quiet

import "time"

// Status is the outcome of a single test as reported by the host.
type Status string

const (
	StatusPassed   Status = "passed"
	StatusFailed   Status = "failed"
	StatusPending  Status = "pending"
	StatusSkipped  Status = "skipped"
	StatusTodo     Status = "todo"
	StatusDisabled Status = "disabled"
)

// AssertionResult is one individual test inside a test file.
type AssertionResult struct {
	Title           string
	FullName        string
	AncestorTitles  []string
	Status          Status
	Duration        time.Duration
	FailureMessages []string
}

// PerfStats records when a test file started and finished.
type PerfStats struct {
	Start time.Time
	End   time.Time
}

// TestFileResult is the outcome of one completed test file. For go test
// hosts a test file is a package.
type TestFileResult struct {
	Path            string
	TestResults     []AssertionResult
	FailureMessage  string
	NumFailingTests int
	NumPassingTests int
	NumPendingTests int
	PerfStats       PerfStats
	Skipped         bool
}

// AggregatedResult holds the host's running totals for the whole run.
type AggregatedResult struct {
	NumFailedTestSuites  int
	NumPassedTestSuites  int
	NumPendingTestSuites int
	NumTotalTestSuites   int

	NumFailedTests  int
	NumPassedTests  int
	NumPendingTests int
	NumTotalTests   int

	StartTime   time.Time
	TestResults []TestFileResult
	Success     bool
}

// StartOptions is supplied by the host when the run begins.
type StartOptions struct {
	EstimatedTime float64 // seconds
	ShowStatus    bool
}

// Context describes the project a set of test files belongs to.
type Context struct {
	RootDir string
}

// Test identifies a completed test file.
type Test struct {
	Path    string
	Context Context
}

// GlobalConfig is the host's run configuration. The reporter stores it but
// does not interpret it.
type GlobalConfig struct {
	RootDir string
	Verbose bool
	Args    []string
}
