package magetasks

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/magefile/mage/sh"
)

const (
	modulePath = "github.com/dkoosis/quiet"
	binDir     = "bin"
	binPath    = "./" + binDir + "/quiet"
)

// PrepareBinDir creates bin/ under the working directory and returns that directory.
func PrepareBinDir() (string, error) {
	root, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return root, os.MkdirAll(filepath.Join(root, binDir), 0o750)
}

// BuildAll builds the quiet binary with version information stamped in.
func BuildAll() error {
	PrintH2Header("Build")

	flags := ldflags(getGitVersion(), getGitCommit(), time.Now().UTC().Format(time.RFC3339))
	if err := sh.RunV("go", "build", "-ldflags", flags, "-o", binPath, "./cmd/quiet"); err != nil {
		PrintError("Build failed")
		return err
	}

	PrintSuccess(fmt.Sprintf("Built: %s", binPath))
	return nil
}

// Install installs quiet into GOBIN.
func Install() error {
	PrintH2Header("Install")
	flags := ldflags(getGitVersion(), getGitCommit(), time.Now().UTC().Format(time.RFC3339))
	return sh.RunV("go", "install", "-ldflags", flags, "./cmd/quiet")
}

// Clean removes build artifacts.
func Clean() error {
	PrintH2Header("Clean")

	if err := os.RemoveAll(binDir); err != nil {
		return err
	}
	_ = sh.Rm("coverage.out")

	PrintSuccess("Cleaned build artifacts")
	return nil
}

func ldflags(version, commit, date string) string {
	pkg := modulePath + "/internal/version"
	return fmt.Sprintf("-s -w -X '%s.Version=%s' -X '%s.CommitHash=%s' -X '%s.BuildDate=%s'",
		pkg, version, pkg, commit, pkg, date)
}

func getGitVersion() string {
	out, err := sh.Output("git", "describe", "--tags", "--always", "--dirty", "--match=v*")
	if err != nil {
		return "dev"
	}
	return strings.TrimSpace(out)
}

func getGitCommit() string {
	out, err := sh.Output("git", "rev-parse", "--short", "HEAD")
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(out)
}
