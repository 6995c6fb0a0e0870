package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mj1618/wsbar/internal/output"
	"github.com/mj1618/wsbar/internal/render"
	"github.com/mj1618/wsbar/internal/source"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Apply an event log and print or render the resulting bar",
	Long: `Apply every event in a JSONL file, reconcile once and print the bar state.
With --png the bar is drawn to an image instead.

Examples:
  wsbar snapshot --events session.jsonl
  wsbar snapshot --events session.jsonl --format yaml
  wsbar snapshot --events session.jsonl --png bar.png`,
	RunE: runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	addBarFlags(snapshotCmd, "-")
	snapshotCmd.Flags().String("png", "", "Write the rendered bar to this PNG file")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	pngPath, _ := cmd.Flags().GetString("png")

	b, _, err := buildBar(cmd, cfg, nil)
	if err != nil {
		return err
	}
	r, err := openEvents(cmd)
	if err != nil {
		return err
	}
	defer r.Close()

	events, err := source.ReadAll(r)
	if err != nil {
		return err
	}
	applied := 0
	for _, e := range events {
		if err := b.Apply(e); err != nil {
			log.WithField("kind", e.Kind).Warnf("dropping event: %v", err)
			continue
		}
		applied++
	}
	b.Reconcile()
	log.WithFields(log.Fields{"events": len(events), "applied": applied}).Debug("snapshot reconciled")

	snap := render.Capture(b)
	if pngPath == "" {
		return output.Fprint(cmd.OutOrStdout(), snap.State())
	}

	f, err := os.Create(pngPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", pngPath, err)
	}
	if err := render.WritePNG(f, snap, render.DefaultStyle()); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", pngPath, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", pngPath)
	return nil
}
