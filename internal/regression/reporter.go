package regression

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Output formats understood by Reporter.Write.
const (
	FormatSummary = "summary"
	FormatJSON    = "json"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#96CEB4")).Bold(true)
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

// Reporter handles output generation for suite reports
type Reporter struct {
	writer io.Writer
}

// NewReporter creates a new reporter instance
func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer}
}

// Write outputs the report in the given format.
func (r *Reporter) Write(report *Report, format string) error {
	switch format {
	case FormatJSON:
		return r.WriteJSON(report)
	case FormatSummary, "":
		return r.WriteSummary(report)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// WriteJSON outputs the report as JSON
func (r *Reporter) WriteJSON(report *Report) error {
	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

// WriteSummary outputs a human-readable summary
func (r *Reporter) WriteSummary(report *Report) error {
	var sb strings.Builder

	sb.WriteString(headerStyle.Render("Suite: "+report.Suite) + "\n")
	for _, c := range report.Cases {
		status := passStyle.Render("PASS")
		if !c.Passed {
			status = failStyle.Render("FAIL")
		}
		line := fmt.Sprintf("%s %-8s %s", status, c.Kind, c.Name)
		if c.Input != "" {
			line += " " + dimStyle.Render("["+c.Input+"]")
		}
		sb.WriteString(line + "\n")
		if c.Message != "" {
			sb.WriteString("     " + c.Message + "\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Passed: %d  Failed: %d  Duration: %s\n", report.Passed, report.Failed, report.Duration))
	if report.OK() {
		sb.WriteString(passStyle.Render("OK") + "\n")
	} else {
		sb.WriteString(failStyle.Render("FAILED") + "\n")
	}

	_, err := fmt.Fprint(r.writer, sb.String())
	return err
}
