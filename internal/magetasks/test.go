package magetasks

import (
	"github.com/magefile/mage/sh"
)

// quietRun runs go test through quiet so mage output matches what users see.
func quietRun(goTestArgs ...string) error {
	args := append([]string{"run", "./cmd/quiet", "-ci", "run", "--"}, goTestArgs...)
	return sh.RunV("go", args...)
}

// TestAll runs all tests.
func TestAll() error {
	PrintH2Header("Tests")
	if err := quietRun("./..."); err != nil {
		PrintError("Tests failed")
		return err
	}
	PrintSuccess("All tests passed")
	return nil
}

// TestShort runs tests with -short, skipping the ones that spawn go test.
func TestShort() error {
	PrintH2Header("Short Tests")
	return quietRun("-short", "./...")
}

// TestCoverage runs tests with coverage and prints the per-function report.
func TestCoverage() error {
	PrintH2Header("Test Coverage")
	if err := quietRun("-coverprofile=coverage.out", "./..."); err != nil {
		PrintError("Tests failed")
		return err
	}
	_ = sh.RunV("go", "tool", "cover", "-func=coverage.out")
	PrintSuccess("Coverage report generated")
	return nil
}

// TestRace runs tests with the race detector.
func TestRace() error {
	PrintH2Header("Race Detector")
	if err := quietRun("-race", "./..."); err != nil {
		PrintError("Race detector found issues")
		return err
	}
	PrintSuccess("No race conditions detected")
	return nil
}
