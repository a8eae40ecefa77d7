package cmd

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"mailstackctl/internal/config"
	"mailstackctl/internal/orchestrator"
	"mailstackctl/pkg/logging"
)

type stubManager struct {
	active map[string]bool
}

func (s *stubManager) Enable(ctx context.Context, name string) error { return nil }
func (s *stubManager) Start(ctx context.Context, name string) error  { return nil }
func (s *stubManager) Stop(ctx context.Context, name string) error   { return nil }
func (s *stubManager) IsActive(ctx context.Context, name string) (bool, error) {
	return s.active[name], nil
}

type stubPorts struct {
	bound map[int]bool
}

func (s *stubPorts) Listening(ctx context.Context, port int) (bool, error) {
	return s.bound[port], nil
}

func statusTestConfig() config.MailstackConfig {
	return config.MailstackConfig{
		Services: []orchestrator.ServiceSpec{
			{
				Name:      "postfix",
				Essential: true,
				Ports:     []orchestrator.PortSpec{{Port: 25, Label: "SMTP"}},
			},
			{
				Name:  "nginx",
				Ports: []orchestrator.PortSpec{{Port: 80, Label: "HTTP"}},
			},
		},
	}
}

func TestFetchStatuses(t *testing.T) {
	logging.InitForCLI(logging.LevelError, io.Discard)
	cfg := statusTestConfig()
	mgr := &stubManager{active: map[string]bool{"postfix": true}}
	ports := &stubPorts{bound: map[int]bool{25: true}}

	statuses := fetchStatuses(context.Background(), cfg, mgr, ports)

	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	if !statuses[0].Active || !statuses[0].Ports[0].Bound {
		t.Errorf("postfix should be active and bound: %+v", statuses[0])
	}
	if statuses[1].Active || statuses[1].Ports[0].Bound {
		t.Errorf("nginx should be stopped and unbound: %+v", statuses[1])
	}
}

func TestHealthyIgnoresOptionalServices(t *testing.T) {
	statuses := []serviceStatus{
		{Name: "postfix", Essential: true, Active: true, Ports: []orchestrator.PortStatus{
			{PortSpec: orchestrator.PortSpec{Port: 25}, Bound: true},
		}},
		{Name: "nginx", Active: false},
	}
	if !healthy(statuses) {
		t.Error("optional service being down must not make the stack unhealthy")
	}

	statuses[0].Ports[0].Bound = false
	if healthy(statuses) {
		t.Error("an unbound essential port must make the stack unhealthy")
	}
}

func TestPrintStatusesTextAndExitCode(t *testing.T) {
	cmd := newStatusCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)

	statuses := []serviceStatus{
		{Name: "postfix", Essential: true, Active: true, Ports: []orchestrator.PortStatus{
			{PortSpec: orchestrator.PortSpec{Port: 25, Label: "SMTP"}, Bound: true},
		}},
	}
	if err := printStatuses(cmd, statuses, "text"); err != nil {
		t.Fatalf("healthy stack must not error: %v", err)
	}
	if !strings.Contains(out.String(), "postfix*") {
		t.Errorf("essential marker missing: %q", out.String())
	}
	if !strings.Contains(out.String(), "✓25/SMTP") {
		t.Errorf("port cell missing: %q", out.String())
	}

	statuses[0].Active = false
	if err := printStatuses(cmd, statuses, "text"); err == nil {
		t.Error("unhealthy stack must return an error for a non-zero exit")
	}
}

func TestPrintStatusesYAML(t *testing.T) {
	cmd := newStatusCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)

	statuses := []serviceStatus{
		{Name: "postfix", Essential: true, Active: true},
	}
	if err := printStatuses(cmd, statuses, "yaml"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "name: postfix") {
		t.Errorf("yaml output missing service name: %q", out.String())
	}
}
