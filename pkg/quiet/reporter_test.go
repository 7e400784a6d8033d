package quiet

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingScreen struct {
	clears int
	frames []string
}

func (s *recordingScreen) Clear()             { s.clears++ }
func (s *recordingScreen) Print(frame string) { s.frames = append(s.frames, plain(frame)) }

func (s *recordingScreen) last() string {
	if len(s.frames) == 0 {
		return ""
	}
	return s.frames[len(s.frames)-1]
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestReporter(t *testing.T) (*Reporter, *recordingScreen, *fakeClock) {
	t.Helper()
	screen := &recordingScreen{}
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	r := New(GlobalConfig{RootDir: "/src"}, nil,
		WithScreen(screen), WithTheme(MonoTheme()), WithClock(clock.now))
	return r, screen, clock
}

func TestNew_InitialState(t *testing.T) {
	t.Parallel()

	r, screen, clock := newTestReporter(t)

	s := r.State()
	assert.Equal(t, clock.t, s.Timing.StartTime)
	assert.Equal(t, ResultSet{}, s.Tests)
	assert.Empty(t, s.TestOutput)
	assert.Empty(t, s.SkippedFiles)
	assert.Empty(t, screen.frames, "construction must not draw")
	assert.Equal(t, "/src", r.GlobalConfig().RootDir)
	assert.Nil(t, r.Options())
}

func TestOnRunStart_FirstFrame(t *testing.T) {
	t.Parallel()

	r, screen, clock := newTestReporter(t)

	r.OnRunStart(AggregatedResult{StartTime: clock.t, NumTotalTestSuites: 3}, StartOptions{EstimatedTime: 120})

	require.Len(t, screen.frames, 1)
	assert.Equal(t, 1, screen.clears)
	assert.Contains(t, screen.last(), "running 0s, estimated 2m 0s")
	assert.Contains(t, screen.last(), "0 passed, 3 total")
	assert.Equal(t, 120.0, r.State().Timing.Estimated)
}

func TestOnTestResult_AppendsGlyphsInOrder(t *testing.T) {
	t.Parallel()

	r, screen, clock := newTestReporter(t)
	r.OnRunStart(AggregatedResult{StartTime: clock.t}, StartOptions{})

	clock.t = clock.t.Add(1500 * time.Millisecond)
	r.OnTestResult(Test{Path: "example.com/pkg"}, TestFileResult{
		TestResults: []AssertionResult{
			{Status: StatusPassed},
			{Status: StatusFailed},
			{Status: StatusPending},
		},
	}, AggregatedResult{NumFailedTests: 1, NumPassedTests: 1, NumPendingTests: 1, NumTotalTests: 3})

	s := r.State()
	require.Len(t, s.TestOutput, 3)
	assert.Equal(t, []string{" + ", " x ", " - "}, []string{plain(s.TestOutput[0]), plain(s.TestOutput[1]), plain(s.TestOutput[2])})
	assert.Equal(t, 1500*time.Millisecond, s.Timing.Elapsed)
	assert.Contains(t, screen.last(), " +  x  - ")
	assert.Contains(t, screen.last(), "running 2s,")
	assert.NotContains(t, screen.last(), "Failures:")
}

func TestOnRunComplete_CollectsFailuresAndSkips(t *testing.T) {
	t.Parallel()

	r, screen, _ := newTestReporter(t)

	r.OnRunComplete(nil, &AggregatedResult{
		NumFailedTestSuites: 1,
		NumTotalTestSuites:  2,
		TestResults: []TestFileResult{
			{
				FailureMessage: "● Suite › does X",
				TestResults:    []AssertionResult{{FullName: "Suite does X", Status: StatusFailed}},
			},
			{
				TestResults: []AssertionResult{
					{FullName: "Other later", Status: StatusPending},
					{FullName: "Other todo", Status: StatusTodo},
				},
			},
		},
	})

	s := r.State()
	assert.Equal(t, []string{"Suite does X"}, s.FailureMessages)
	assert.Equal(t, []string{"Other later"}, s.SkippedTests)
	assert.Equal(t, ResultSet{Fail: 1, Total: 2}, s.Suites)

	out := screen.last()
	assert.Contains(t, out, " Skipped Tests: \nOther later")
	assert.Contains(t, out, " Failures: \nSuite does X")
}

func TestOnRunComplete_WithoutAggregate(t *testing.T) {
	t.Parallel()

	r, screen, _ := newTestReporter(t)

	r.OnRunComplete(nil, nil)

	require.Len(t, screen.frames, 1)
	assert.Contains(t, screen.last(), "Test Suites: 0 failed, 0 skipped, 0 passed, 0 total")
	assert.Contains(t, screen.last(), "Tests:       0 failed, 0 skipped, 0 passed, 0 total")
	assert.Empty(t, r.State().FailureMessages)
	assert.Empty(t, r.State().SkippedTests)
}

func TestCleanFailureMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Suite does X", CleanFailureMessage("● Suite › does X"))
	assert.Equal(t, "  a b › c\n● d", CleanFailureMessage("  ● a › b › c\n● d"))
	assert.Equal(t, "plain", CleanFailureMessage("plain"))
}

func TestAddSkippedFile(t *testing.T) {
	t.Parallel()

	r, _, _ := newTestReporter(t)
	r.AddSkippedFile("example.com/pkg/skipped")

	assert.Equal(t, []string{"example.com/pkg/skipped"}, r.State().SkippedFiles)
}

func TestLastError(t *testing.T) {
	t.Parallel()

	r, _, _ := newTestReporter(t)
	assert.NoError(t, r.LastError())

	boom := errors.New("boom")
	r.setError(boom)
	assert.ErrorIs(t, r.LastError(), boom)
}

func TestTerminalScreen(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	always := NewTerminalScreen(&buf, ClearAlways)
	always.Clear()
	always.Print("frame")
	assert.Equal(t, clearSequence+"frame\n", buf.String())

	buf.Reset()
	auto := NewTerminalScreen(&buf, ClearAuto)
	auto.Clear()
	auto.Print("frame")
	assert.Equal(t, "frame\n", buf.String(), "a buffer is not a terminal")
}

func TestIsTerminal(t *testing.T) {
	t.Parallel()

	assert.False(t, IsTerminal(&bytes.Buffer{}))

	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, IsTerminal(f), "a regular file is not a terminal")
}

func TestParseClearMode(t *testing.T) {
	t.Parallel()

	m, err := ParseClearMode("")
	require.NoError(t, err)
	assert.Equal(t, ClearAuto, m)

	m, err = ParseClearMode("never")
	require.NoError(t, err)
	assert.Equal(t, ClearNever, m)

	_, err = ParseClearMode("sometimes")
	assert.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "sometimes"))
}
