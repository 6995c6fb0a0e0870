package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mj1618/wsbar/internal/bar"
	"github.com/mj1618/wsbar/internal/server"
	"github.com/mj1618/wsbar/internal/source"
	"github.com/mj1618/wsbar/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing the bar",
	Long: `Start a Model Context Protocol (MCP) server with the tools state, outputs,
ingest, focus and render. Events can be fed from a file with --events, or
pushed one at a time through the ingest tool.

The focus tool clicks a window node. With --requests set, a primary click
appends {"kind":"focus_request","id":N} to that file (- for stdout) for the
window manager side to act on.

Supported transports:
  stdio             Standard I/O (default, for MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  wsbar serve
  wsbar serve --transport streamable-http --port 8080 --events /run/wm-events
  wsbar serve --cache-ttl 0
  wsbar serve --requests /run/wm-requests`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	addBarFlags(serveCmd, "")
	serveCmd.Flags().String("transport", "stdio", "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
	serveCmd.Flags().Int("cache-ttl", 200, "State cache TTL in milliseconds (0 to disable)")
	serveCmd.Flags().String("requests", "", "JSONL file receiving focus requests, - for stdout")
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")
	cacheTTLMs, _ := cmd.Flags().GetInt("cache-ttl")
	eventsPath, _ := cmd.Flags().GetString("events")
	requestsPath, _ := cmd.Flags().GetString("requests")

	if transport == "stdio" && eventsPath == "-" {
		return fmt.Errorf("--events - conflicts with the stdio transport")
	}
	if transport == "stdio" && requestsPath == "-" {
		return fmt.Errorf("--requests - conflicts with the stdio transport")
	}

	scfg := server.Config{
		Transport: transport,
		Port:      port,
		CacheTTL:  time.Duration(cacheTTLMs) * time.Millisecond,
		Version:   version.Version,
	}

	requests, closer, err := openRequests(cmd)
	if err != nil {
		return err
	}
	defer closer.Close()

	var focus bar.Focuser
	if requests != nil {
		focus = requests
	}
	b, loader, err := buildBar(cmd, cfg, focus)
	if err != nil {
		return err
	}
	srv := server.New(b, scfg)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	watchIcons(ctx, loader)

	if eventsPath != "" {
		r, err := openEvents(cmd)
		if err != nil {
			return err
		}
		defer r.Close()

		events, errs := source.Stream(ctx, r)
		go func() {
			err := b.Run(ctx, events, errs, cfg.Tick(), srv.Invalidate)
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Errorf("event stream stopped: %v", err)
				return
			}
			log.WithField("events", eventsPath).Info("event stream finished")
		}()
	}

	return srv.Serve(scfg)
}
