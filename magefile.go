//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"

	"github.com/dkoosis/quiet/internal/magetasks"
)

// Default builds ./bin/quiet.
var Default = Build

func init() {
	if _, err := magetasks.PrepareBinDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal: %v\n", err)
		os.Exit(1)
	}
}

// Build compiles ./bin/quiet with version info.
func Build() error { return magetasks.BuildAll() }

// Install puts quiet on GOBIN.
func Install() error { return magetasks.Install() }

// Clean deletes ./bin and coverage output.
func Clean() error { return magetasks.Clean() }

// QA lints, runs the race-enabled suite through quiet, then builds.
func QA() {
	magetasks.PrintH1Header("quiet QA")
	mg.SerialDeps(Lint.All, Test.Race, Build)
	magetasks.PrintSuccess("QA complete")
}

type Lint mg.Namespace

// All runs gofmt, go vet, and staticcheck/golangci-lint when installed.
func (Lint) All() error { return magetasks.LintAll() }

// Fmt lists files that are not gofmt-clean.
func (Lint) Fmt() error { return magetasks.LintFormat() }

// Vet runs go vet.
func (Lint) Vet() error { return magetasks.LintVet() }

// Fix applies golangci-lint auto-fixes.
func (Lint) Fix() error { return magetasks.LintGolangciFix() }

type Test mg.Namespace

// All runs every test, rendered by quiet.
func (Test) All() error { return magetasks.TestAll() }

// Short skips tests that spawn go test subprocesses.
func (Test) Short() error { return magetasks.TestShort() }

// Cover writes coverage.out and prints per-function coverage.
func (Test) Cover() error { return magetasks.TestCoverage() }

// Race runs the suite under the race detector.
func (Test) Race() error { return magetasks.TestRace() }
