package quiet

import (
	"slices"
	"time"
)

// Timing tracks how long the run has taken against the host's estimate.
type Timing struct {
	Elapsed   time.Duration
	Estimated float64 // seconds, as supplied by the host
	StartTime time.Time
}

// ResultSet is a set of fail/skip/pass/total counters copied from the host.
type ResultSet struct {
	Fail  int
	Skip  int
	Pass  int
	Total int
}

// State is one snapshot of everything the reporter has accumulated.
// Snapshots are never modified after they are built.
type State struct {
	Timing          Timing
	Tests           ResultSet
	Suites          ResultSet
	FailureMessages []string
	TestOutput      []string
	SkippedTests    []string
	SkippedFiles    []string
}

// Update is a partial State. Nil fields are left unchanged by Merge.
type Update struct {
	Timing          *Timing
	Tests           *ResultSet
	Suites          *ResultSet
	FailureMessages []string
	TestOutput      []string
	SkippedTests    []string
	SkippedFiles    []string
}

// TimingUpdate is a partial Timing. Nil fields keep their current value.
type TimingUpdate struct {
	Elapsed   *time.Duration
	Estimated *float64
	StartTime *time.Time
}

func newState(now time.Time) State {
	return State{
		Timing:          Timing{StartTime: now},
		FailureMessages: []string{},
		TestOutput:      []string{},
		SkippedTests:    []string{},
		SkippedFiles:    []string{},
	}
}

// Merge returns a new snapshot built from s with every non-nil field of u
// replacing the corresponding field. Merge is shallow: u.Timing replaces the
// whole Timing value.
func (s State) Merge(u Update) State {
	next := s
	if u.Timing != nil {
		next.Timing = *u.Timing
	}
	if u.Tests != nil {
		next.Tests = *u.Tests
	}
	if u.Suites != nil {
		next.Suites = *u.Suites
	}
	if u.FailureMessages != nil {
		next.FailureMessages = u.FailureMessages
	}
	if u.TestOutput != nil {
		next.TestOutput = u.TestOutput
	}
	if u.SkippedTests != nil {
		next.SkippedTests = u.SkippedTests
	}
	if u.SkippedFiles != nil {
		next.SkippedFiles = u.SkippedFiles
	}
	return next
}

// store owns the current snapshot and replaces it on every change.
type store struct {
	current State
}

func (st *store) mergeState(u Update) State {
	st.current = st.current.Merge(u)
	return st.current
}

func (st *store) mergeTiming(u TimingUpdate) State {
	t := st.current.Timing
	if u.Elapsed != nil {
		t.Elapsed = *u.Elapsed
	}
	if u.Estimated != nil {
		t.Estimated = *u.Estimated
	}
	if u.StartTime != nil {
		t.StartTime = *u.StartTime
	}
	return st.mergeState(Update{Timing: &t})
}

func (st *store) appendTestGlyph(glyph string) State {
	return st.mergeState(Update{TestOutput: appended(st.current.TestOutput, glyph)})
}

func (st *store) appendFailureMessage(text string) State {
	return st.mergeState(Update{FailureMessages: appended(st.current.FailureMessages, text)})
}

func (st *store) appendSkippedTest(name string) State {
	return st.mergeState(Update{SkippedTests: appended(st.current.SkippedTests, name)})
}

func (st *store) appendSkippedFile(name string) State {
	return st.mergeState(Update{SkippedFiles: appended(st.current.SkippedFiles, name)})
}

// applyAggregate replaces the test and suite counters with the host's totals.
func (st *store) applyAggregate(agg AggregatedResult) State {
	tests := ResultSet{
		Fail:  agg.NumFailedTests,
		Pass:  agg.NumPassedTests,
		Skip:  agg.NumPendingTests,
		Total: agg.NumTotalTests,
	}
	suites := ResultSet{
		Fail:  agg.NumFailedTestSuites,
		Pass:  agg.NumPassedTestSuites,
		Skip:  agg.NumPendingTestSuites,
		Total: agg.NumTotalTestSuites,
	}
	return st.mergeState(Update{Tests: &tests, Suites: &suites})
}

// appended returns a fresh slice so earlier snapshots never see the new item.
func appended(items []string, item string) []string {
	next := slices.Grow(slices.Clone(items), 1)
	return append(next, item)
}
