package magetasks

import (
	"errors"
	"fmt"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMissingTool(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		err  error
		want bool
	}{
		"nil":             {nil, false},
		"exec error":      {&exec.Error{Name: "staticcheck", Err: exec.ErrNotFound}, true},
		"wrapped":         {fmt.Errorf("lint: %w", exec.ErrNotFound), true},
		"flattened by sh": {errors.New(`failed to run "golangci-lint run: exec: "golangci-lint": executable file not found in $PATH"`), true},
		"missing path":    {errors.New("fork/exec ./bin/tool: no such file or directory"), true},
		"tool failed":     {errors.New(`running "staticcheck ./..." failed with exit code 1`), false},
	}

	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, missingTool(tc.err))
		})
	}
}
