package testjson

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestTestEvent_DecodedFields(t *testing.T) {
	line := `{"Time":"2024-01-01T00:00:01Z","Action":"pass","Package":"example.com/pkg","Elapsed":0.5}` + "\n"

	var events []TestEvent
	if _, err := Stream(context.Background(), strings.NewReader(line), func(e TestEvent) {
		events = append(events, e)
	}); err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	e := events[0]
	if !e.Time.Equal(time.Date(2024, 1, 1, 0, 0, 1, 0, time.UTC)) {
		t.Errorf("Time = %v", e.Time)
	}
	if got := e.Duration(); got != 500*time.Millisecond {
		t.Errorf("Duration() = %v, want 500ms", got)
	}
	if !e.IsPackageEvent() || !e.IsTerminal() {
		t.Errorf("should be a terminal package event: %+v", e)
	}
}

func TestSplitTestName(t *testing.T) {
	ancestors, title := SplitTestName("TestParent/sub/leaf")
	if !reflect.DeepEqual(ancestors, []string{"TestParent", "sub"}) {
		t.Errorf("ancestors = %v", ancestors)
	}
	if title != "leaf" {
		t.Errorf("title = %q", title)
	}

	ancestors, title = SplitTestName("TestTop")
	if len(ancestors) != 0 || title != "TestTop" {
		t.Errorf("SplitTestName(TestTop) = %v, %q", ancestors, title)
	}
}

func TestTestEvent_IsTerminal(t *testing.T) {
	for _, a := range []Action{ActionPass, ActionFail, ActionSkip} {
		if !(TestEvent{Action: a}).IsTerminal() {
			t.Errorf("%s should be terminal", a)
		}
	}
	for _, a := range []Action{ActionRun, ActionOutput, ActionStart, ActionPause} {
		if (TestEvent{Action: a}).IsTerminal() {
			t.Errorf("%s should not be terminal", a)
		}
	}
}

func TestAction_Known(t *testing.T) {
	for _, a := range []Action{ActionStart, ActionOutput, ActionBuildOutput, ActionBuildFail} {
		if !a.Known() {
			t.Errorf("%q should be known", a)
		}
	}
	if Action("dance").Known() {
		t.Error(`"dance" should not be known`)
	}
}
