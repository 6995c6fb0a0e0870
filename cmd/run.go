package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mj1618/wsbar/internal/output"
	"github.com/mj1618/wsbar/internal/render"
	"github.com/mj1618/wsbar/internal/source"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Stream events and print the bar whenever it changes",
	Long: `Read newline-delimited JSON events, apply each one to the bar as it
arrives and reconcile once per tick. The bar state is printed after every
reconcile that changed something.

Event kinds:
  window_upsert      {"kind":"window_upsert","window":{"id":4,"workspace_id":1,"x":0}}
  window_delete      {"kind":"window_delete","id":4}
  workspace_upsert   {"kind":"workspace_upsert","workspace":{"id":1,"name":"web","output":"DP-1","is_active":true}}
  workspace_delete   {"kind":"workspace_delete","id":1}

Examples:
  niri-events | wsbar run --output DP-1
  wsbar run --events events.jsonl --format json --interval 50ms`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	addBarFlags(runCmd, "-")
	runCmd.Flags().Duration("interval", 0, "Reconcile interval (default: tick_ms from config)")
}

func runRun(cmd *cobra.Command, args []string) error {
	interval, _ := cmd.Flags().GetDuration("interval")
	if interval <= 0 {
		interval = cfg.Tick()
	}

	b, loader, err := buildBar(cmd, cfg, nil)
	if err != nil {
		return err
	}
	r, err := openEvents(cmd)
	if err != nil {
		return err
	}
	defer r.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	watchIcons(ctx, loader)

	events, errs := source.Stream(ctx, r)
	log.WithFields(log.Fields{"outputs": b.Outputs(), "interval": interval}).Info("running")

	var printErr error
	err = b.Run(ctx, events, errs, interval, func() {
		if err := output.Fprint(cmd.OutOrStdout(), render.Capture(b).State()); err != nil && printErr == nil {
			printErr = err
			stop()
		}
	})
	if printErr != nil {
		return printErr
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
