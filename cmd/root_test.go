package cmd

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	expected := []string{"run", "snapshot", "serve", "config"}
	commands := rootCmd.Commands()

	found := make(map[string]bool)
	for _, c := range commands {
		found[c.Name()] = true
	}

	for _, name := range expected {
		if !found[name] {
			t.Errorf("expected subcommand %q not found", name)
		}
	}
}

func TestRootCommand_Version(t *testing.T) {
	if rootCmd.Version == "" {
		t.Error("root command version should be set")
	}
}

func TestRootCommand_PersistentFlags(t *testing.T) {
	flags := rootCmd.PersistentFlags()

	tests := []struct {
		name     string
		flagType string
	}{
		{"format", "string"},
		{"pretty", "bool"},
		{"config", "string"},
		{"log-level", "string"},
	}

	for _, tt := range tests {
		f := flags.Lookup(tt.name)
		if f == nil {
			t.Errorf("expected flag %q not found", tt.name)
			continue
		}
		if f.Value.Type() != tt.flagType {
			t.Errorf("flag %q: expected type %q, got %q", tt.name, tt.flagType, f.Value.Type())
		}
	}
}

func TestSetupLogging_RejectsUnknownLevel(t *testing.T) {
	if err := setupLogging("chatty"); err == nil {
		t.Error("expected error for unknown level")
	}
	if err := setupLogging("debug"); err != nil {
		t.Errorf("debug should be accepted: %v", err)
	}
}

const sessionEvents = `{"kind":"workspace_upsert","workspace":{"id":1,"name":"web","output":"default","is_active":true,"is_focused":true}}
{"kind":"window_upsert","window":{"id":10,"title":"vim","workspace_id":1,"is_focused":true,"x":20}}
{"kind":"window_upsert","window":{"id":11,"workspace_id":1,"x":5}}
this line is not an event
{"kind":"window_upsert","window":{"id":12,"workspace_id":2,"x":0}}
`

func writeEvents(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "events.jsonl")
	if err := os.WriteFile(path, []byte(sessionEvents), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetOut(nil)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("wsbar %s: %v", strings.Join(args, " "), err)
	}
	return buf.String()
}

func TestSnapshot_Text(t *testing.T) {
	color.NoColor = true
	path := writeEvents(t)

	got := execute(t, "snapshot", "--events", path, "--no-icons", "--format", "text", "--log-level", "error")
	want := "default  [web / 1]  #11  *#10 vim*\n"
	if got != want {
		t.Errorf("snapshot:\n got %q\nwant %q", got, want)
	}
}

func TestSnapshot_PNG(t *testing.T) {
	path := writeEvents(t)
	out := filepath.Join(t.TempDir(), "bar.png")

	execute(t, "snapshot", "--events", path, "--no-icons", "--png", out, "--log-level", "error")

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := png.Decode(f); err != nil {
		t.Errorf("invalid png: %v", err)
	}
}
