// Package testjson reads go test -json NDJSON streams.
package testjson

import (
	"strings"
	"time"
)

// Action is the event kind emitted by go test -json.
type Action string

const (
	ActionStart  Action = "start"
	ActionRun    Action = "run"
	ActionPause  Action = "pause"
	ActionCont   Action = "cont"
	ActionPass   Action = "pass"
	ActionFail   Action = "fail"
	ActionSkip   Action = "skip"
	ActionOutput Action = "output"
	ActionBench  Action = "bench"

	// Emitted since Go 1.24 for compiler output, keyed by ImportPath.
	ActionBuildOutput Action = "build-output"
	ActionBuildFail   Action = "build-fail"
)

// Known reports whether a is an action go test -json emits.
func (a Action) Known() bool {
	switch a {
	case ActionStart, ActionRun, ActionPause, ActionCont, ActionPass, ActionFail,
		ActionSkip, ActionOutput, ActionBench, ActionBuildOutput, ActionBuildFail:
		return true
	}
	return false
}

// TestEvent is a single line of go test -json output.
type TestEvent struct {
	Time    time.Time `json:"Time"`
	Action  Action    `json:"Action"`
	Package string    `json:"Package"`
	Test    string    `json:"Test"`
	Elapsed float64   `json:"Elapsed"` // seconds
	Output  string    `json:"Output"`

	// ImportPath identifies build-output and build-fail events. FailedBuild
	// on a package fail event names the ImportPath whose build broke it.
	ImportPath  string `json:"ImportPath,omitempty"`
	FailedBuild string `json:"FailedBuild,omitempty"`
}

// IsPackageEvent reports whether the event describes the package rather than a test.
func (e TestEvent) IsPackageEvent() bool {
	return e.Test == ""
}

// IsTerminal reports whether the event ends a test or package.
func (e TestEvent) IsTerminal() bool {
	switch e.Action {
	case ActionPass, ActionFail, ActionSkip:
		return true
	}
	return false
}

// Duration returns Elapsed as a time.Duration.
func (e TestEvent) Duration() time.Duration {
	return time.Duration(e.Elapsed * float64(time.Second))
}

// SplitTestName splits a subtest name such as "TestA/case_1" into its parent
// test names and its own title.
func SplitTestName(name string) (ancestors []string, title string) {
	parts := strings.Split(name, "/")
	return parts[:len(parts)-1], parts[len(parts)-1]
}
