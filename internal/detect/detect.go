// Package detect sniffs stdin to decide whether it is a go test -json stream.
package detect

import (
	"bytes"
	"encoding/json"

	"github.com/dkoosis/quiet/pkg/testjson"
)

// Format represents a recognized input format.
type Format int

const (
	Unknown    Format = iota
	GoTestJSON        // go test -json NDJSON stream
	GoTestText        // plain go test output; the user forgot -json
)

// Sniff examines the first bytes of input. Input must contain at least the first line.
func Sniff(data []byte) Format {
	data = bytes.TrimLeft(data, " \t\r\n")
	if len(data) == 0 {
		return Unknown
	}

	firstLine := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		firstLine = data[:i]
	}

	if data[0] == '{' {
		if isGoTestJSON(firstLine) {
			return GoTestJSON
		}
		return Unknown
	}
	if isGoTestText(firstLine) {
		return GoTestText
	}
	return Unknown
}

func isGoTestJSON(line []byte) bool {
	var event testjson.TestEvent
	if err := json.Unmarshal(line, &event); err != nil {
		return false
	}
	return event.Action.Known()
}

var textPrefixes = [][]byte{
	[]byte("=== RUN"),
	[]byte("--- PASS"),
	[]byte("--- FAIL"),
	[]byte("--- SKIP"),
	[]byte("ok  \t"),
	[]byte("FAIL\t"),
	[]byte("?   \t"),
	[]byte("PASS"),
}

func isGoTestText(line []byte) bool {
	for _, p := range textPrefixes {
		if bytes.HasPrefix(line, p) {
			return true
		}
	}
	return false
}
