package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tapdeck-labs/tapdeck/internal/cli"
)

func TestVersionCommand(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Errorf("version command error = %v", err)
	}
	if !strings.Contains(buf.String(), "tapdeck") {
		t.Errorf("version output should contain 'tapdeck', got: %s", buf.String())
	}
}

func TestHelpCommand(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	if err := cmd.Execute(); err != nil {
		t.Errorf("help command error = %v", err)
	}
	for _, sub := range []string{"serve", "import", "export", "workspaces"} {
		if !strings.Contains(buf.String(), sub) {
			t.Errorf("help output should list %q, got: %s", sub, buf.String())
		}
	}
}
