package bar

import (
	"fmt"
	"strconv"

	"github.com/mj1618/wsbar/internal/model"
	"github.com/mj1618/wsbar/internal/view"
	log "github.com/sirupsen/logrus"
)

// WorkspaceEntry wraps one workspace snapshot. It has no node of its own;
// the owning collection derives a summary label from all entries.
type WorkspaceEntry struct {
	workspace model.Workspace
}

// NewWorkspaceEntry wraps ws.
func NewWorkspaceEntry(ws model.Workspace) WorkspaceEntry {
	return WorkspaceEntry{workspace: ws}
}

// Workspace returns the wrapped snapshot.
func (e WorkspaceEntry) Workspace() model.Workspace { return e.workspace }

// WorkspaceCollection tracks the workspaces of one output and renders a
// "<current> / <count>" indicator.
// It is not safe for concurrent use; Bar serializes access.
type WorkspaceCollection struct {
	output    string
	indicator view.Node
	opts      Options
	entries   map[uint64]WorkspaceEntry
	current   *uint64
	dirty     bool
}

// NewWorkspaceCollection creates an empty collection driving indicator.
func NewWorkspaceCollection(output string, indicator view.Node, opts Options) *WorkspaceCollection {
	return &WorkspaceCollection{
		output:    output,
		indicator: indicator,
		opts:      opts.withDefaults(),
		entries:   make(map[uint64]WorkspaceEntry),
		dirty:     true,
	}
}

// Output returns the output name the collection serves.
func (c *WorkspaceCollection) Output() string { return c.output }

// Indicator returns the summary label node.
func (c *WorkspaceCollection) Indicator() view.Node { return c.indicator }

// Dirty reports whether a reconcile is pending.
func (c *WorkspaceCollection) Dirty() bool { return c.dirty }

// Len returns the number of stored entries.
func (c *WorkspaceCollection) Len() int { return len(c.entries) }

// Current returns the id of the current workspace for this output, if any.
func (c *WorkspaceCollection) Current() (uint64, bool) {
	if c.current == nil {
		return 0, false
	}
	return *c.current, true
}

// Entry returns the stored entry for id.
func (c *WorkspaceCollection) Entry(id uint64) (WorkspaceEntry, bool) {
	e, ok := c.entries[id]
	return e, ok
}

// IngestUpsert stores ws when it belongs to this output. Workspaces owned by
// other outputs are dropped silently.
func (c *WorkspaceCollection) IngestUpsert(ws model.Workspace) {
	if !ws.OnOutput(c.output) {
		return
	}
	if ws.Active {
		id := ws.ID
		c.current = &id
	}
	c.entries[ws.ID] = NewWorkspaceEntry(ws)
	c.dirty = true
}

// IngestDelete removes the entry for id regardless of output. The indicator
// is refreshed on the next reconcile when something was removed.
// Unlike a silent delete, removal marks the collection dirty so the count
// drops without waiting for the next upsert.
func (c *WorkspaceCollection) IngestDelete(id uint64) {
	if _, ok := c.entries[id]; !ok {
		return
	}
	delete(c.entries, id)
	c.dirty = true
}

// Label computes the indicator text from the current entries.
func (c *WorkspaceCollection) Label() string {
	name := c.opts.WorkspacePlaceholder
	if c.current != nil {
		if e, ok := c.entries[*c.current]; ok && e.workspace.OnOutput(c.output) {
			name = e.workspace.Name
			if name == "" {
				name = strconv.FormatUint(e.workspace.ID, 10)
			}
		}
	}
	count := 0
	for _, e := range c.entries {
		if e.workspace.OnOutput(c.output) {
			count++
		}
	}
	return fmt.Sprintf("%s / %d", name, count)
}

// Reconcile updates the indicator. It reports whether a pass ran.
func (c *WorkspaceCollection) Reconcile() bool {
	if !c.dirty {
		return false
	}
	label := c.Label()
	c.indicator.SetLabel(label)
	c.dirty = false
	log.WithFields(log.Fields{"output": c.output, "label": label}).Debug("workspaces reconciled")
	return true
}
