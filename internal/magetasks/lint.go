package magetasks

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/magefile/mage/sh"
)

var golangciDisabled = "--disable=exhaustruct,varnamelen,ireturn,wrapcheck,nlreturn,gochecknoglobals,mnd,depguard,tagalign"

// LintAll runs every linter. Missing optional tools are skipped.
func LintAll() error {
	PrintH2Header("Lint")
	var errs []error

	if err := LintFormat(); err != nil {
		errs = append(errs, err)
	}
	if err := LintVet(); err != nil {
		errs = append(errs, err)
	}
	if err := LintStaticcheck(); err != nil && !missingTool(err) {
		errs = append(errs, err)
	}
	if err := LintGolangci(); err != nil && !missingTool(err) {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	PrintSuccess("All linters passed")
	return nil
}

// LintFormat reports files gofmt would change.
func LintFormat() error {
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return err
	}
	if out != "" {
		return fmt.Errorf("files need gofmt:\n%s", out)
	}
	return nil
}

// LintVet runs go vet.
func LintVet() error {
	return sh.RunV("go", "vet", "./...")
}

// LintStaticcheck runs staticcheck.
func LintStaticcheck() error {
	return optionalTool("staticcheck", "honnef.co/go/tools/cmd/staticcheck@latest", "./...")
}

// LintGolangci runs golangci-lint.
func LintGolangci() error {
	return optionalTool("golangci-lint", "github.com/golangci/golangci-lint/cmd/golangci-lint@latest",
		"run", golangciDisabled, "--timeout=5m", "./...")
}

// LintGolangciFix runs golangci-lint with auto-fixes.
func LintGolangciFix() error {
	return optionalTool("golangci-lint", "github.com/golangci/golangci-lint/cmd/golangci-lint@latest",
		"run", "--fix", golangciDisabled, "--timeout=5m", "./...")
}

func optionalTool(name, install string, args ...string) error {
	if err := sh.RunV(name, args...); err != nil {
		if missingTool(err) {
			PrintWarning(fmt.Sprintf("%s not found (install: go install %s)", name, install))
			return err
		}
		return fmt.Errorf("%s failed: %w", name, err)
	}
	return nil
}

// missingTool reports whether err came from a binary that is not installed.
// sh flattens exec errors into text, so the message is checked as well.
func missingTool(err error) bool {
	if err == nil {
		return false
	}
	var execErr *exec.Error
	if errors.As(err, &execErr) || errors.Is(err, exec.ErrNotFound) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "executable file not found") || strings.Contains(msg, "no such file or directory")
}
