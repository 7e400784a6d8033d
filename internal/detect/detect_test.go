package detect

import "testing"

func TestSniff(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Format
	}{
		{"start event", `{"Time":"2024-01-01T00:00:00Z","Action":"start","Package":"example.com/pkg"}` + "\n", GoTestJSON},
		{"output event", `{"Action":"output","Package":"example.com/pkg","Output":"=== RUN TestFoo\n"}`, GoTestJSON},
		{"leading whitespace", "\n\n  " + `{"Action":"pass","Package":"p","Elapsed":0.1}`, GoTestJSON},
		{"build output first", `{"ImportPath":"example.com/broken [example.com/broken.test]","Action":"build-output","Output":"# example.com/broken\n"}`, GoTestJSON},
		{"unknown action", `{"Action":"dance","Package":"p"}`, Unknown},
		{"SARIF document", `{"version":"2.1.0","runs":[]}`, Unknown},
		{"invalid JSON", "{invalid", Unknown},
		{"empty", "", Unknown},
		{"plain text", "this is not json", Unknown},
		{"go test verbose", "=== RUN   TestFoo\n--- PASS: TestFoo (0.00s)\n", GoTestText},
		{"go test summary", "ok  \texample.com/pkg\t0.012s\n", GoTestText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sniff([]byte(tt.input)); got != tt.want {
				t.Errorf("Sniff(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}
