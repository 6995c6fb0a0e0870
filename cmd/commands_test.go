package cmd

import (
	"bytes"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/mj1618/wsbar/internal/config"
)

func checkFlags(t *testing.T, cmd *cobra.Command, want map[string]string) {
	t.Helper()
	flags := cmd.Flags()
	for name, flagType := range want {
		f := flags.Lookup(name)
		if f == nil {
			t.Errorf("%s: expected flag %q not found", cmd.Name(), name)
			continue
		}
		if f.Value.Type() != flagType {
			t.Errorf("%s: flag %q: expected type %q, got %q", cmd.Name(), name, flagType, f.Value.Type())
		}
	}
}

func TestRunCommand_Flags(t *testing.T) {
	checkFlags(t, runCmd, map[string]string{
		"events":   "string",
		"output":   "stringSlice",
		"no-icons": "bool",
		"interval": "duration",
	})
}

func TestSnapshotCommand_Flags(t *testing.T) {
	checkFlags(t, snapshotCmd, map[string]string{
		"events":   "string",
		"output":   "stringSlice",
		"no-icons": "bool",
		"png":      "string",
	})
}

func TestServeCommand_Flags(t *testing.T) {
	checkFlags(t, serveCmd, map[string]string{
		"events":    "string",
		"output":    "stringSlice",
		"transport": "string",
		"port":      "int",
		"cache-ttl": "int",
		"requests":  "string",
	})
	if def := serveCmd.Flags().Lookup("events").DefValue; def != "" {
		t.Errorf("serve should not read stdin events by default, got %q", def)
	}
}

func TestServe_RejectsStdinEventsOnStdio(t *testing.T) {
	if err := serveCmd.Flags().Set("events", "-"); err != nil {
		t.Fatal(err)
	}
	defer serveCmd.Flags().Set("events", "")
	if err := runServe(serveCmd, nil); err == nil {
		t.Error("expected conflict error")
	}
}

func TestServe_RejectsStdoutRequestsOnStdio(t *testing.T) {
	if err := serveCmd.Flags().Set("requests", "-"); err != nil {
		t.Fatal(err)
	}
	defer serveCmd.Flags().Set("requests", "")
	if err := runServe(serveCmd, nil); err == nil {
		t.Error("expected conflict error")
	}
}

func TestOpenRequests(t *testing.T) {
	w, closer, err := openRequests(serveCmd)
	if err != nil {
		t.Fatal(err)
	}
	if w != nil {
		t.Error("requests should be disabled by default")
	}
	closer.Close()

	path := filepath.Join(t.TempDir(), "requests.jsonl")
	if err := serveCmd.Flags().Set("requests", path); err != nil {
		t.Fatal(err)
	}
	defer serveCmd.Flags().Set("requests", "")
	w, closer, err = openRequests(serveCmd)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Focus(5); err != nil {
		t.Fatal(err)
	}
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestConfigInit_WritesDefault(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	path := filepath.Join(dir, "wsbar", "config.yaml")

	got := execute(t, "config", "init", "--log-level", "error")
	if got != "wrote "+path+"\n" {
		t.Errorf("config init: got %q", got)
	}
	loaded, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(loaded, config.Default()) {
		t.Errorf("written config differs from default:\n got %+v\nwant %+v", loaded, config.Default())
	}

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"config", "init", "--log-level", "error"})
	err = rootCmd.Execute()
	rootCmd.SetOut(nil)
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("expected refusal to overwrite, got %v", err)
	}

	defer configInitCmd.Flags().Set("force", "false")
	execute(t, "config", "init", "--force", "--log-level", "error")
}

func TestConfigShow(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	got := execute(t, "config", "show", "--format", "yaml", "--log-level", "error")
	if !strings.Contains(got, "tick_ms: 100") || !strings.Contains(got, "- default") {
		t.Errorf("config show: got:\n%s", got)
	}
}
