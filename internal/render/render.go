// Package render draws the human-readable side-channel display of
// accepted thoughts. Output goes to stderr — stdout belongs to the MCP
// stdio transport and must stay clean.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/seqthink/seqthink/internal/thinking"
)

var (
	revisionColor = lipgloss.Color("#E5C07B")
	branchColor   = lipgloss.Color("#98C379")
	thoughtColor  = lipgloss.Color("#61AFEF")
	noteColor     = lipgloss.Color("#AAAAAA")
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#E5C07B"))
)

// ConsoleLogger renders thoughts as bordered boxes on a writer.
// It implements thinking.ThoughtLogger.
type ConsoleLogger struct {
	out io.Writer
}

// NewConsoleLogger creates a ConsoleLogger writing to stderr.
func NewConsoleLogger() *ConsoleLogger {
	return &ConsoleLogger{out: os.Stderr}
}

// NewConsoleLoggerTo creates a ConsoleLogger writing to w.
func NewConsoleLoggerTo(w io.Writer) *ConsoleLogger {
	return &ConsoleLogger{out: w}
}

// LogThought renders one accepted thought.
func (l *ConsoleLogger) LogThought(t *thinking.Thought) {
	fmt.Fprintln(l.out, FormatThought(t))
}

// LogAssumptionUpdate notes an in-place update of an existing assumption.
func (l *ConsoleLogger) LogAssumptionUpdate(id string) {
	fmt.Fprintln(l.out, warnStyle.Render(
		fmt.Sprintf("⚠️  Updating assumption %s (verification status or confidence)", id)))
}

// FormatThought renders a thought as a colored, bordered box. Revisions
// are yellow, branches green, plain thoughts blue.
func FormatThought(t *thinking.Thought) string {
	var prefix, context string
	color := thoughtColor

	switch {
	case t.IsRevision:
		prefix = "🔄 Revision"
		context = fmt.Sprintf(" (revising thought %d)", t.RevisesNumber)
		color = revisionColor
	case t.IsBranch():
		prefix = "🌿 Branch"
		context = fmt.Sprintf(" (from thought %d, ID: %s)", t.BranchFrom, t.BranchID)
		color = branchColor
	default:
		prefix = "💭 Thought"
	}

	header := fmt.Sprintf("%s %d/%d%s", prefix, t.Number, t.Total, context)
	if t.Confidence != nil {
		header += fmt.Sprintf(" [Confidence: %.0f%%]", *t.Confidence*100)
	}

	var body []string
	if t.UncertaintyNotes != "" {
		body = append(body, fmt.Sprintf("⚠️  Uncertainty: %s", t.UncertaintyNotes))
	}
	body = append(body, t.Text)
	if t.Outcome != "" {
		body = append(body, fmt.Sprintf("✓ Outcome: %s", t.Outcome))
	}
	for i := range t.Assumptions {
		body = append(body, AssumptionLine(&t.Assumptions[i]))
	}

	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(color).
		Render(header)
	content := lipgloss.NewStyle().
		Foreground(noteColor).
		Render(strings.Join(body, "\n"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1).
		Render(fmt.Sprintf("%s\n%s", head, content))
}

// AssumptionLine renders one assumption with its status marker:
// ✓ verified true, ✗ verified false, ? verifiable but unchecked.
func AssumptionLine(a *thinking.Assumption) string {
	var status string
	switch {
	case a.VerificationStatus == thinking.StatusVerifiedTrue:
		status = " ✓"
	case a.VerificationStatus == thinking.StatusVerifiedFalse:
		status = " ✗"
	case a.Verifiable && !a.IsVerified():
		status = " ?"
	}

	critical := ""
	if a.Critical {
		critical = " [CRITICAL]"
	}

	line := fmt.Sprintf("%s: %s%s%s (confidence: %.0f%%)", a.ID, a.Text, status, critical, a.Confidence*100)
	if a.Evidence != "" {
		line += fmt.Sprintf("\n    Evidence: %s", a.Evidence)
	}
	return line
}
