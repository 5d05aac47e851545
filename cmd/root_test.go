package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iksnae/aza/config"
	"github.com/iksnae/aza/internal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags restores every flag to its default so package-level state
// does not leak between Execute calls.
func resetFlags() {
	var reset func(c *cobra.Command)
	reset = func(c *cobra.Command) {
		restore := func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
		c.Flags().VisitAll(restore)
		c.PersistentFlags().VisitAll(restore)
		for _, sub := range c.Commands() {
			reset(sub)
		}
	}
	reset(rootCmd)
	appConfig = &config.Config{}
}

// runCLI executes the root command with a clean environment and returns
// what it wrote to stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	t.Setenv(config.EnvConfig, filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv(internal.TokenEnvVar, "test-token")
	t.Setenv(envProject, "")
	t.Setenv(envAPIVersion, "")
	t.Setenv(envDebug, "")
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	err := rootCmd.Execute()
	t.Cleanup(func() { internal.SetVerbose(false) })
	return stdout.String(), err
}

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantOutput string
	}{
		{"version flag", []string{"--version"}, "commit:"},
		{"help flag", []string{"--help"}, "Quick Start:"},
		{"agents help", []string{"agents", "--help"}, "--v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, tt.args...)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if !strings.Contains(out, tt.wantOutput) {
				t.Errorf("output missing %q:\n%s", tt.wantOutput, out)
			}
		})
	}
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{"missing project", []string{"agents", "list"}, "missing project endpoint"},
		{"exclusive output flags", []string{"agents", "list", "-p", "https://h", "--json", "--raw"}, "cannot be combined"},
		{"unknown flag", []string{"agents", "list", "--bogus"}, "bogus"},
		{"negative limit", []string{"conversations", "list", "-p", "https://h", "--limit", "-1"}, "--limit"},
		{"bad order", []string{"responses", "list", "-p", "https://h", "--order", "up"}, "--order"},
		{"missing agent id", []string{"agents", "show", "-p", "https://h"}, "Missing agentId"},
		{"missing conversation id", []string{"conv", "show", "-p", "https://h"}, "Missing conversationId"},
		{"missing response id", []string{"responses", "show"}, "Missing responseId"},
		{"extra argument", []string{"agents", "list", "extra"}, "unexpected argument"},
		{"bad max body", []string{"conversations", "show", "c1", "-p", "https://h", "--max-body", "-2"}, "--max-body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			if err == nil {
				t.Fatal("Execute() expected error")
			}
			if internal.KindOf(err) != internal.KindUsage {
				t.Errorf("error kind = %v, want usage (%v)", internal.KindOf(err), err)
			}
			if internal.ExitCode(err) != 2 {
				t.Errorf("ExitCode() = %d, want 2", internal.ExitCode(err))
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %v, want it to mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestInvalidConfigIsUsageError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("projekt: x\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := runCLI(t, "agents", "list", "--config", path)
	if internal.KindOf(err) != internal.KindUsage {
		t.Errorf("error = %v, want usage error", err)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := firstNonEmpty("", "  ", "b", "c"); got != "b" {
		t.Errorf("firstNonEmpty() = %q, want b", got)
	}
	if got := firstNonEmpty(); got != "" {
		t.Errorf("firstNonEmpty() = %q, want empty", got)
	}
}
