package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// EventKind identifies what a window-manager event carries.
type EventKind string

const (
	EventWindowUpsert    EventKind = "window_upsert"
	EventWindowDelete    EventKind = "window_delete"
	EventWorkspaceUpsert EventKind = "workspace_upsert"
	EventWorkspaceDelete EventKind = "workspace_delete"
)

// ErrUnknownKind is returned by ParseEvent for an unrecognised kind.
var ErrUnknownKind = errors.New("unknown event kind")

// Event is a single change pushed by the window-manager client.
// Upserts carry a snapshot, deletes carry only the id.
type Event struct {
	Kind      EventKind  `yaml:"kind"                json:"kind"`
	Window    *Window    `yaml:"window,omitempty"    json:"window,omitempty"`
	Workspace *Workspace `yaml:"workspace,omitempty" json:"workspace,omitempty"`
	ID        uint64     `yaml:"id,omitempty"        json:"id,omitempty"`
}

// WindowUpserted builds a window upsert event.
func WindowUpserted(w Window) Event {
	return Event{Kind: EventWindowUpsert, Window: &w}
}

// WindowDeleted builds a window delete event.
func WindowDeleted(id uint64) Event {
	return Event{Kind: EventWindowDelete, ID: id}
}

// WorkspaceUpserted builds a workspace upsert event.
func WorkspaceUpserted(ws Workspace) Event {
	return Event{Kind: EventWorkspaceUpsert, Workspace: &ws}
}

// WorkspaceDeleted builds a workspace delete event.
func WorkspaceDeleted(id uint64) Event {
	return Event{Kind: EventWorkspaceDelete, ID: id}
}

// Validate checks that the payload matches the kind.
func (e Event) Validate() error {
	switch e.Kind {
	case EventWindowUpsert:
		if e.Window == nil {
			return fmt.Errorf("%s: missing window", e.Kind)
		}
	case EventWorkspaceUpsert:
		if e.Workspace == nil {
			return fmt.Errorf("%s: missing workspace", e.Kind)
		}
	case EventWindowDelete, EventWorkspaceDelete:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, e.Kind)
	}
	return nil
}

// ParseEvent decodes one JSON-encoded event and validates it.
func ParseEvent(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, fmt.Errorf("unmarshal event: %w", err)
	}
	if err := e.Validate(); err != nil {
		return Event{}, err
	}
	return e, nil
}
