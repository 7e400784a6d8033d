package testjson

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// ProcessFunc is called for each parsed event.
type ProcessFunc func(TestEvent)

const maxLineSize = 1024 * 1024

func newScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	// Allow large lines for verbose test output
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return scanner
}

// scanResult carries a scanned line or terminal error from the scanner goroutine.
type scanResult struct {
	line []byte
	err  error
}

// Stream parses events line by line and calls fn for each one, in order and
// on the calling goroutine. Stops on EOF or when ctx is cancelled. Returns the
// number of malformed lines skipped and any error.
//
// The scanner runs in a background goroutine. On cancel, Stream closes r if
// it implements io.Closer to unblock the scanner; otherwise the caller must
// close the underlying reader.
func Stream(ctx context.Context, r io.Reader, fn ProcessFunc) (int, error) {
	scanner := newScanner(r)

	lines := make(chan scanResult)
	go func() {
		defer close(lines)
		for scanner.Scan() {
			// Copy bytes; scanner reuses the buffer.
			cp := append([]byte(nil), scanner.Bytes()...)
			select {
			case lines <- scanResult{line: cp}:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			select {
			case lines <- scanResult{err: fmt.Errorf("scanning test output: %w", err)}:
			case <-ctx.Done():
			}
		}
	}()

	var malformed int
	for {
		select {
		case <-ctx.Done():
			if c, ok := r.(io.Closer); ok {
				_ = c.Close()
			}
			return malformed, ctx.Err()
		case res, ok := <-lines:
			if !ok {
				return malformed, nil
			}
			if res.err != nil {
				return malformed, res.err
			}
			if len(res.line) == 0 {
				continue
			}
			var event TestEvent
			if err := json.Unmarshal(res.line, &event); err != nil {
				malformed++
				continue
			}
			fn(event)
		}
	}
}
