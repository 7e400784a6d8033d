package host

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExec_RunsGoTest(t *testing.T) {
	if testing.Short() {
		t.Skip("runs a go test subprocess")
	}
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go toolchain not on PATH")
	}

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "go.mod"), "module example.com/sample\n\ngo 1.21\n")
	writeFile(t, filepath.Join(dir, "sample_test.go"), `package sample

import "testing"

func TestOK(t *testing.T) {}

func TestBad(t *testing.T) { t.Fatal("nope") }

func TestLater(t *testing.T) { t.Skip("later") }
`)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	rep := &fakeReporter{}
	d := NewDriver(rep, dir)
	res, err := Exec(ctx, dir, []string{"./..."}, d)
	require.NoError(t, err)
	d.Finish(true)

	assert.Equal(t, 1, res.ExitCode)
	assert.Equal(t, []string{"start", "result", "complete"}, rep.kinds())
	final := rep.calls[2].final
	require.NotNil(t, final)
	assert.Equal(t, 1, final.NumPassedTests)
	assert.Equal(t, 1, final.NumFailedTests)
	assert.Equal(t, 1, final.NumPendingTests)
	assert.Contains(t, final.TestResults[0].FailureMessage, "nope")
	assert.Equal(t, 1, d.ExitCode())
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}
