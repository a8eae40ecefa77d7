package cmd

import (
	"bytes"
	"testing"
)

func TestRootCommandHasAllSubcommands(t *testing.T) {
	expected := []string{
		"start-all", "stop-all", "restart-all", "status",
		"fix-ports", "render", "dns", "version", "self-update",
	}

	registered := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}

	for _, name := range expected {
		if !registered[name] {
			t.Errorf("subcommand %s is not registered", name)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	SetVersion("1.2.3")

	var out bytes.Buffer
	cmd := newVersionCmd()
	cmd.SetOut(&out)
	cmd.Run(cmd, nil)

	if got := out.String(); got != "mailstackctl version 1.2.3\n" {
		t.Errorf("unexpected version output: %q", got)
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]string{
		"debug":   "DEBUG",
		"info":    "INFO",
		"warn":    "WARN",
		"error":   "ERROR",
		"":        "INFO",
		"bananas": "INFO",
	}
	for in, want := range cases {
		if got := parseLogLevel(in).String(); got != want {
			t.Errorf("parseLogLevel(%q) = %s, want %s", in, got, want)
		}
	}
}
