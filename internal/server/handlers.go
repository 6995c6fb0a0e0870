package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	log "github.com/sirupsen/logrus"

	"github.com/mj1618/wsbar/internal/bar"
	"github.com/mj1618/wsbar/internal/model"
	"github.com/mj1618/wsbar/internal/output"
	"github.com/mj1618/wsbar/internal/render"
	"github.com/mj1618/wsbar/internal/view"
)

func stringParam(params map[string]interface{}, key, defaultVal string) string {
	if v, ok := params[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprintf("%v", v)
	}
	return defaultVal
}

func intParam(params map[string]interface{}, key string, defaultVal int) int {
	if v, ok := params[key]; ok {
		switch n := v.(type) {
		case int:
			return n
		case float64:
			return int(n)
		case int64:
			return int(n)
		}
	}
	return defaultVal
}

func boolParam(params map[string]interface{}, key string, defaultVal bool) bool {
	if v, ok := params[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return defaultVal
}

// encode serializes v as yaml or json for a tool response.
func encode(v interface{}, format string) (string, error) {
	var buf bytes.Buffer
	switch format {
	case "", "yaml":
		return output.YAMLString(v)
	case "json":
		if err := output.FprintJSON(&buf, v, false); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("unsupported format: %s (use yaml or json)", format)
	}
	return buf.String(), nil
}

// only narrows snap to one output. An empty name keeps every output.
func only(snap render.Snapshot, name string) (render.Snapshot, error) {
	if name == "" {
		return snap, nil
	}
	for _, out := range snap.Outputs {
		if out.Name == name {
			return render.Snapshot{TS: snap.TS, Outputs: []render.OutputSnapshot{out}}, nil
		}
	}
	return render.Snapshot{}, fmt.Errorf("output %q not found", name)
}

func (s *Server) handleState(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	name := stringParam(params, "output", "")
	format := stringParam(params, "format", "yaml")

	snap, err := only(s.cache.Snapshot(s.bar), name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := encode(snap.State(), format)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleOutputs(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := encode(s.bar.Outputs(), "yaml")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleIngest(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	raw := stringParam(params, "event", "")
	reconcile := boolParam(params, "reconcile", true)
	if raw == "" {
		return mcp.NewToolResultError("event is required"), nil
	}

	e, err := model.ParseEvent([]byte(raw))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.bar.Apply(e); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	changed := false
	if reconcile {
		changed = s.bar.Reconcile()
	}
	s.cache.Invalidate()
	log.WithFields(log.Fields{"kind": e.Kind, "changed": changed}).Debug("ingested event over mcp")

	text, err := encode(struct {
		OK      bool            `yaml:"ok"`
		Kind    model.EventKind `yaml:"kind"`
		Changed bool            `yaml:"changed"`
	}{OK: true, Kind: e.Kind, Changed: changed}, "yaml")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleFocus(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	id := intParam(params, "id", -1)
	button := intParam(params, "button", view.ButtonPrimary)
	if id < 0 {
		return mcp.NewToolResultError("id is required"), nil
	}

	name, err := s.bar.Activate(uint64(id), button)
	switch {
	case errors.Is(err, bar.ErrNotShown):
		return mcp.NewToolResultError(err.Error()), nil
	case errors.Is(err, view.ErrNoHandler):
		return mcp.NewToolResultError("focus requests are disabled (start serve with --requests)"), nil
	case err != nil:
		return mcp.NewToolResultError(fmt.Sprintf("failed to focus window %d: %v", id, err)), nil
	}

	text, err := encode(struct {
		OK     bool   `yaml:"ok"`
		ID     int    `yaml:"id"`
		Output string `yaml:"output"`
	}{OK: true, ID: id, Output: name}, "yaml")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleRender(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	name := stringParam(params, "output", "")

	snap, err := only(s.cache.Snapshot(s.bar), name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var buf bytes.Buffer
	if err := render.WritePNG(&buf, snap, s.style); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.ImageContent{
				Type:     "image",
				Data:     base64.StdEncoding.EncodeToString(buf.Bytes()),
				MIMEType: "image/png",
			},
		},
	}, nil
}
