package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Semantic colors, shared with the rest of the CLI output.
var (
	successColor = lipgloss.Color("#8BC34A") // Lime Green
	failColor    = lipgloss.Color("#e53935") // Red
	warnColor    = lipgloss.Color("#FFC107") // Yellow
	mutedColor   = lipgloss.Color("#9e9e9e") // Gray
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(successColor).Bold(true)
	failStyle    = lipgloss.NewStyle().Foreground(failColor).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(warnColor)
	mutedStyle   = lipgloss.NewStyle().Foreground(mutedColor)
)

// Good, Bad, Warn and Note render text in the shared palette for command
// output outside the batch summary.
func Good(s string) string { return successStyle.Render(s) }

func Bad(s string) string { return failStyle.Render(s) }

func Warn(s string) string { return warnStyle.Render(s) }

func Note(s string) string { return mutedStyle.Render(s) }

// Summary renders a human-readable batch report for the terminal.
func Summary(b Batch) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Batch summary"))
	sb.WriteString("\n")

	for _, a := range b.Attempts {
		sb.WriteString(renderAttempt(a))
	}

	counts := fmt.Sprintf("%d/%d created", b.Succeeded(), b.Total())
	if b.Succeeded() == b.Total() {
		sb.WriteString(successStyle.Render(counts))
	} else {
		sb.WriteString(failStyle.Render(counts))
		sb.WriteString(mutedStyle.Render("  failed: " + strings.Join(b.FailedNames(), ", ")))
	}
	sb.WriteString("\n")
	return sb.String()
}

func renderAttempt(a Attempt) string {
	var sb strings.Builder

	mark := successStyle.Render("✓")
	if !a.OK() {
		mark = failStyle.Render("✗")
	}
	sb.WriteString(fmt.Sprintf("%s %s", mark, a.Assignment))
	if d := a.Duration(); d > 0 {
		sb.WriteString(mutedStyle.Render(fmt.Sprintf("  (%s)", d.Round(100*time.Millisecond))))
	}
	sb.WriteString("\n")

	if !a.OK() {
		sb.WriteString("   " + failStyle.Render("aborted: "+a.Err) + "\n")
	}
	for _, f := range a.Fields {
		switch f.Status {
		case FieldSkipped:
			sb.WriteString("   " + warnStyle.Render(fmt.Sprintf("~ %s skipped: %s", f.Field, f.Reason)) + "\n")
		case FieldFailed:
			sb.WriteString("   " + warnStyle.Render(fmt.Sprintf("! %s failed: %s", f.Field, f.Reason)) + "\n")
		}
	}
	return sb.String()
}
