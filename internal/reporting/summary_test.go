package reporting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"mailstackctl/internal/orchestrator"
)

func TestRenderRunHealthy(t *testing.T) {
	run := orchestrator.OrchestrationRun{
		Healthy: true,
		Results: []orchestrator.ServiceResult{
			{Name: "postfix", Essential: true, Outcome: orchestrator.OutcomeRunning, Elapsed: 1200 * time.Millisecond},
			{Name: "dovecot", Essential: true, Outcome: orchestrator.OutcomeAlreadyRunning},
			{Name: "nginx", Outcome: orchestrator.OutcomeOptionalFailed, ErrorDetail: "port 80 never bound"},
		},
	}

	out := RenderRun(run)

	assert.Contains(t, out, "postfix")
	assert.Contains(t, out, "already running")
	assert.Contains(t, out, "failed (optional): port 80 never bound")
	assert.Contains(t, out, "All essential services running")
}

func TestRenderRunAborted(t *testing.T) {
	run := orchestrator.OrchestrationRun{
		Aborted: true,
		Results: []orchestrator.ServiceResult{
			{Name: "opendkim", Essential: true, Outcome: orchestrator.OutcomeAborted, ErrorDetail: "unit not found"},
		},
	}

	out := RenderRun(run)

	assert.Contains(t, out, "failed (essential): unit not found")
	assert.Contains(t, out, "Run aborted")
}

func TestRenderRunNoOp(t *testing.T) {
	out := RenderRun(orchestrator.OrchestrationRun{Healthy: true, NoOp: true})
	assert.Contains(t, out, "nothing to do")
}

func TestRenderPortReport(t *testing.T) {
	report := orchestrator.PortReport{
		Ports: []orchestrator.PortStatus{
			{PortSpec: orchestrator.PortSpec{Port: 25, Label: "SMTP"}, Bound: true},
			{PortSpec: orchestrator.PortSpec{Port: 993, Label: "IMAPS"}, Bound: false},
		},
	}

	out := RenderPortReport(report)

	assert.Contains(t, out, "25")
	assert.Contains(t, out, "SMTP")
	assert.Contains(t, out, "993")
}

func TestMarshalYAMLRoundtrips(t *testing.T) {
	run := orchestrator.OrchestrationRun{
		Healthy: true,
		Results: []orchestrator.ServiceResult{
			{Name: "postfix", Essential: true, Outcome: orchestrator.OutcomeRunning},
		},
	}

	out, err := MarshalYAML(run)
	require.NoError(t, err)

	var decoded orchestrator.OrchestrationRun
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	assert.True(t, decoded.Healthy)
	require.Len(t, decoded.Results, 1)
	assert.Equal(t, orchestrator.OutcomeRunning, decoded.Results[0].Outcome)
}

func TestConsoleReporterImplementsReporter(t *testing.T) {
	var _ orchestrator.Reporter = NewConsoleReporter()
}
