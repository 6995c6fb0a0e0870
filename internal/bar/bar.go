// Package bar reconciles window-manager state into visual nodes.
//
// Each output gets a WindowCollection and a WorkspaceCollection. Events are
// ingested into every output, marking collections dirty; Reconcile then
// applies the minimal set of node changes. Multiple events between two
// reconciles collapse into one visual update.
package bar

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/mj1618/wsbar/internal/icon"
	"github.com/mj1618/wsbar/internal/model"
	"github.com/mj1618/wsbar/internal/view"
	log "github.com/sirupsen/logrus"
)

// Default placeholders.
const (
	DefaultUnknownTitle         = "Unknown Title"
	DefaultWorkspacePlaceholder = "?"
)

// ErrNotShown is returned when activating a window no output displays.
var ErrNotShown = errors.New("window is not shown")

// Options tunes the text shown for missing data.
type Options struct {
	UnknownTitle         string // Title shown for a focused window without one
	WorkspacePlaceholder string // Indicator name when no current workspace is known
}

func (o Options) withDefaults() Options {
	if o.UnknownTitle == "" {
		o.UnknownTitle = DefaultUnknownTitle
	}
	if o.WorkspacePlaceholder == "" {
		o.WorkspacePlaceholder = DefaultWorkspacePlaceholder
	}
	return o
}

// Output groups the collections rendered on one monitor.
type Output struct {
	Name       string
	Windows    *WindowCollection
	Workspaces *WorkspaceCollection
}

// Bar owns the per-output collections and serializes all access to them.
type Bar struct {
	mu      sync.Mutex
	factory view.Factory
	icons   icon.Loader
	focus   Focuser
	opts    Options
	outputs map[string]*Output
}

// New creates a bar with no outputs. focus may be nil, in which case window
// nodes ignore clicks.
func New(factory view.Factory, icons icon.Loader, focus Focuser, opts Options) *Bar {
	if icons == nil {
		icons = icon.Nop{}
	}
	return &Bar{
		factory: factory,
		icons:   icons,
		focus:   focus,
		opts:    opts.withDefaults(),
		outputs: make(map[string]*Output),
	}
}

// AddOutput creates the collections for an output. Adding an existing
// output is an error.
func (b *Bar) AddOutput(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.outputs[name]; ok {
		return fmt.Errorf("output %q already exists", name)
	}
	b.outputs[name] = &Output{
		Name:       name,
		Windows:    NewWindowCollection(name, b.factory.NewContainer(name+"/windows"), b.factory, b.icons, b.focus, b.opts),
		Workspaces: NewWorkspaceCollection(name, b.factory.NewLabel(name+"/workspaces"), b.opts),
	}
	log.WithField("output", name).Info("output added")
	return nil
}

// RemoveOutput drops an output and everything it tracks.
func (b *Bar) RemoveOutput(name string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.outputs[name]; !ok {
		return false
	}
	delete(b.outputs, name)
	log.WithField("output", name).Info("output removed")
	return true
}

// Outputs returns the output names in sorted order.
func (b *Bar) Outputs() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.names()
}

func (b *Bar) names() []string {
	names := make([]string, 0, len(b.outputs))
	for name := range b.outputs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply routes one event to every output.
func (b *Bar) Apply(e model.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, out := range b.outputs {
		switch e.Kind {
		case model.EventWindowUpsert:
			out.Windows.IngestUpsert(*e.Window)
		case model.EventWindowDelete:
			out.Windows.IngestDelete(e.ID)
		case model.EventWorkspaceUpsert:
			out.Workspaces.IngestUpsert(*e.Workspace)
			out.Windows.SetCurrentWorkspace(*e.Workspace)
		case model.EventWorkspaceDelete:
			out.Workspaces.IngestDelete(e.ID)
		}
	}
	return nil
}

// Reconcile runs every dirty collection and reports whether any did work.
func (b *Bar) Reconcile() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	changed := false
	for _, name := range b.names() {
		out := b.outputs[name]
		if out.Workspaces.Reconcile() {
			changed = true
		}
		if out.Windows.Reconcile() {
			changed = true
		}
	}
	return changed
}

// Activate clicks the node of window id on the first output, in name order,
// that currently displays it. It returns that output's name.
func (b *Bar) Activate(id uint64, button int) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, name := range b.names() {
		out := b.outputs[name]
		e, ok := out.Windows.Entry(id)
		if !ok || view.IndexOf(out.Windows.Holder(), e.Node().Identity()) < 0 {
			continue
		}
		a, ok := e.Node().(view.Activatable)
		if !ok {
			return name, view.ErrNoHandler
		}
		log.WithFields(log.Fields{"output": name, "window": id, "button": button}).Debug("activating window")
		return name, a.Activate(button)
	}
	return "", fmt.Errorf("window %d: %w", id, ErrNotShown)
}

// Inspect calls fn for each output in name order while holding the lock.
// fn must not call back into the bar.
func (b *Bar) Inspect(fn func(out *Output)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, name := range b.names() {
		fn(b.outputs[name])
	}
}
