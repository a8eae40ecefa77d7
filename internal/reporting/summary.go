package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"mailstackctl/internal/orchestrator"
)

var (
	styleHeader  = lipgloss.NewStyle().Bold(true)
	styleOK      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	styleWarn    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	styleFail    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	styleService = lipgloss.NewStyle().Width(12)
)

// RenderRun produces the human-facing summary of a finished run.
func RenderRun(run orchestrator.OrchestrationRun) string {
	var b strings.Builder

	if run.NoOp {
		b.WriteString(styleOK.Render("✓ All declared ports already bound, nothing to do") + "\n")
		return b.String()
	}

	b.WriteString(styleHeader.Render("Service results") + "\n")
	for _, r := range run.Results {
		b.WriteString("  " + renderResult(r) + "\n")
	}

	b.WriteString("\n")
	switch {
	case run.Aborted:
		b.WriteString(styleFail.Render("✗ Run aborted: an essential service failed") + "\n")
	case run.Healthy:
		b.WriteString(styleOK.Render("✓ All essential services running") + "\n")
	default:
		b.WriteString(styleFail.Render("✗ Run unhealthy") + "\n")
	}
	return b.String()
}

func renderResult(r orchestrator.ServiceResult) string {
	name := styleService.Render(r.Name)
	elapsed := styleDim.Render(fmt.Sprintf("(%s)", r.Elapsed.Round(100*time.Millisecond)))

	switch r.Outcome {
	case orchestrator.OutcomeRunning:
		return fmt.Sprintf("%s %s running %s", styleOK.Render("✓"), name, elapsed)
	case orchestrator.OutcomeAlreadyRunning:
		return fmt.Sprintf("%s %s already running %s", styleOK.Render("✓"), name, elapsed)
	case orchestrator.OutcomeRunningFallback:
		return fmt.Sprintf("%s %s running via fallback %s", styleWarn.Render("✓"), name, elapsed)
	case orchestrator.OutcomeOptionalFailed:
		return fmt.Sprintf("%s %s failed (optional): %s", styleWarn.Render("!"), name, r.ErrorDetail)
	case orchestrator.OutcomeAborted:
		return fmt.Sprintf("%s %s failed (essential): %s", styleFail.Render("✗"), name, r.ErrorDetail)
	default:
		return fmt.Sprintf("? %s %s", name, r.Outcome)
	}
}

// RenderPortReport produces the human-facing port table for status calls.
func RenderPortReport(report orchestrator.PortReport) string {
	var b strings.Builder
	b.WriteString(styleHeader.Render("Ports") + "\n")
	for _, p := range report.Ports {
		label := p.Label
		if label == "" {
			label = "-"
		}
		if p.Bound {
			b.WriteString(fmt.Sprintf("  %s %5d  %s\n", styleOK.Render("✓"), p.Port, label))
		} else {
			b.WriteString(fmt.Sprintf("  %s %5d  %s\n", styleFail.Render("✗"), p.Port, label))
		}
	}
	return b.String()
}

// MarshalYAML renders a run or port report as machine-readable YAML for
// --output yaml callers.
func MarshalYAML(v interface{}) (string, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}
	return string(data), nil
}
