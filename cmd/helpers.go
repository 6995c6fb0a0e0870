package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mj1618/wsbar/internal/bar"
	"github.com/mj1618/wsbar/internal/config"
	"github.com/mj1618/wsbar/internal/icon"
	"github.com/mj1618/wsbar/internal/source"
	"github.com/mj1618/wsbar/internal/view"
)

// addBarFlags registers the flags shared by every command that builds a bar.
func addBarFlags(cmd *cobra.Command, events string) {
	cmd.Flags().String("events", events, "JSONL event file, - for stdin")
	cmd.Flags().StringSlice("output", nil, "Output to draw on, repeatable (overrides config)")
	cmd.Flags().Bool("no-icons", false, "Skip icon lookups")
}

// buildBar creates a bar with one entry per configured output. The returned
// loader is nil when icons are disabled. focus may be nil.
func buildBar(cmd *cobra.Command, c *config.Config, focus bar.Focuser) (*bar.Bar, *icon.ThemeLoader, error) {
	outputs, _ := cmd.Flags().GetStringSlice("output")
	if len(outputs) == 0 {
		outputs = c.Outputs
	}
	noIcons, _ := cmd.Flags().GetBool("no-icons")

	var (
		loader *icon.ThemeLoader
		icons  icon.Loader = icon.Nop{}
		err    error
	)
	if !noIcons {
		loader, err = icon.NewThemeLoader(c.IconDirs, c.IconSize, c.IconCacheSize)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create icon loader: %w", err)
		}
		icons = loader
	}

	b := bar.New(view.MemFactory{}, icons, focus, bar.Options{
		UnknownTitle:         c.UnknownTitle,
		WorkspacePlaceholder: c.WorkspacePlaceholder,
	})
	for _, name := range outputs {
		if err := b.AddOutput(name); err != nil {
			return nil, nil, err
		}
	}
	return b, loader, nil
}

// openEvents opens the --events source.
func openEvents(cmd *cobra.Command) (io.ReadCloser, error) {
	path, _ := cmd.Flags().GetString("events")
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open events: %w", err)
	}
	return f, nil
}

// openRequests opens the --requests sink. An empty path disables focus
// requests and returns a nil writer.
func openRequests(cmd *cobra.Command) (*source.RequestWriter, io.Closer, error) {
	path, _ := cmd.Flags().GetString("requests")
	switch path {
	case "":
		return nil, io.NopCloser(nil), nil
	case "-":
		return source.NewRequestWriter(cmd.OutOrStdout()), io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open requests: %w", err)
	}
	return source.NewRequestWriter(f), f, nil
}

// watchIcons invalidates the icon cache on theme changes until ctx ends.
func watchIcons(ctx context.Context, loader *icon.ThemeLoader) {
	if loader == nil {
		return
	}
	go func() {
		if err := loader.Watch(ctx); err != nil && ctx.Err() == nil {
			log.Warnf("icon watcher stopped: %v", err)
		}
	}()
}
