package cmd

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestSelfUpdateRefusesDevelopmentVersion(t *testing.T) {
	for _, version := range []string{"", "dev"} {
		err := selfUpdate(context.Background(), version, io.Discard)
		if err == nil {
			t.Fatalf("expected error for version %q", version)
		}
		if !strings.Contains(err.Error(), "development version") {
			t.Errorf("unexpected error for version %q: %v", version, err)
		}
	}
}

func TestNewSelfUpdateCmd(t *testing.T) {
	cmd := newSelfUpdateCmd()
	if cmd.Use != "self-update" {
		t.Errorf("unexpected use: %s", cmd.Use)
	}
	if cmd.RunE == nil {
		t.Error("self-update must have a RunE")
	}
}
