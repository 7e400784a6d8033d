package host

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"golang.org/x/sync/errgroup"
)

// ExecResult describes a finished go test subprocess.
type ExecResult struct {
	ExitCode  int    // go test's exit code
	Malformed int    // stdout lines that were not test events
	Stderr    []byte // everything go test wrote to stderr
}

// Exec runs `go test -json args...` in dir and feeds its output to d. The
// driver sees events on a single goroutine; stderr is collected separately.
// Exec does not finish the run.
func Exec(ctx context.Context, dir string, args []string, d *Driver) (ExecResult, error) {
	var res ExecResult

	cmd := exec.CommandContext(ctx, "go", append([]string{"test", "-json"}, args...)...)
	cmd.Dir = dir
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return res, fmt.Errorf("go test stdout: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return res, fmt.Errorf("go test stderr: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return res, fmt.Errorf("starting go test: %w", err)
	}
	d.log.Debug("go test started", "args", cmd.Args, "dir", dir, "pid", cmd.Process.Pid)

	var errBuf bytes.Buffer
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		malformed, err := d.Run(gctx, stdout)
		res.Malformed = malformed
		return err
	})
	g.Go(func() error {
		_, err := io.Copy(&errBuf, stderr)
		return err
	})
	pumpErr := g.Wait()
	waitErr := cmd.Wait()
	res.Stderr = errBuf.Bytes()

	if pumpErr != nil && ctx.Err() == nil {
		return res, fmt.Errorf("reading go test output: %w", pumpErr)
	}
	var exitErr *exec.ExitError
	switch {
	case waitErr == nil:
	case errors.As(waitErr, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	default:
		return res, fmt.Errorf("running go test: %w", waitErr)
	}
	if ctx.Err() != nil {
		return res, ctx.Err()
	}
	return res, nil
}
