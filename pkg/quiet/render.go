package quiet

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// GridColumns is the number of glyphs drawn per results row.
const GridColumns = 25

// labelWidth is the display width summary labels are padded to.
const labelWidth = 12

// Render builds one complete frame from a snapshot. Skipped and failure
// details are only included in the final frame.
func Render(s State, final bool, theme Theme) string {
	lines := []string{"", "Results:", renderGrid(s.TestOutput)}

	if final {
		if len(s.SkippedTests) > 0 {
			lines = append(lines, "", theme.WarningBlock.Render(" Skipped Tests: "))
			lines = append(lines, strings.Join(s.SkippedTests, "\n"))
		}
		if len(s.FailureMessages) > 0 {
			lines = append(lines, "", theme.ErrorBlock.Render(" Failures: "))
			lines = append(lines, strings.Join(s.FailureMessages, "\n\n"))
		}
	}

	lines = append(lines,
		"",
		renderCounts(theme, "Test Suites", s.Suites),
		renderCounts(theme, "Tests", s.Tests),
		renderTime(theme, s.Timing),
	)
	return strings.Join(lines, "\n")
}

// paginate splits tokens into rows of at most cols items. The last row may be shorter.
func paginate(tokens []string, cols int) [][]string {
	if cols <= 0 {
		cols = GridColumns
	}
	rows := make([][]string, 0, (len(tokens)+cols-1)/cols)
	for start := 0; start < len(tokens); start += cols {
		end := min(start+cols, len(tokens))
		rows = append(rows, tokens[start:end])
	}
	return rows
}

func renderGrid(tokens []string) string {
	rows := paginate(tokens, GridColumns)
	joined := make([]string, len(rows))
	for i, row := range rows {
		joined[i] = strings.Join(row, "")
	}
	return strings.Join(joined, "\n")
}

func title(theme Theme, label string) string {
	return theme.Muted.Render(runewidth.FillRight(label+":", labelWidth))
}

func renderCounts(theme Theme, label string, rs ResultSet) string {
	return strings.Join([]string{
		title(theme, label),
		theme.Error.Render(fmt.Sprintf("%d failed,", rs.Fail)),
		theme.Warning.Render(fmt.Sprintf("%d skipped,", rs.Skip)),
		theme.Success.Render(fmt.Sprintf("%d passed,", rs.Pass)),
		theme.Primary.Render(fmt.Sprintf("%d total", rs.Total)),
	}, " ")
}

// renderTime draws elapsed against the estimate. An overrunning run is drawn
// in the success color and an on-pace run in the error color.
func renderTime(theme Theme, t Timing) string {
	estimated := secondsToDuration(t.Estimated)
	running := fmt.Sprintf("running %s,", FormatDuration(t.Elapsed))
	if t.Elapsed > estimated {
		running = theme.Success.Render(running)
	} else {
		running = theme.Error.Render(running)
	}
	return strings.Join([]string{
		title(theme, "Time"),
		running,
		theme.Primary.Render("estimated " + FormatDuration(estimated)),
	}, " ")
}
