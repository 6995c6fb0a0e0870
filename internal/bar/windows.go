package bar

import (
	"sort"

	"github.com/mj1618/wsbar/internal/icon"
	"github.com/mj1618/wsbar/internal/model"
	"github.com/mj1618/wsbar/internal/view"
	log "github.com/sirupsen/logrus"
)

// WindowCollection owns the window entries shown on one output.
// It is not safe for concurrent use; Bar serializes access.
type WindowCollection struct {
	output    string
	holder    view.Container
	factory   view.Factory
	icons     icon.Loader
	focus     Focuser
	opts      Options
	entries   map[string]*WindowEntry
	workspace uint64
	hasWS     bool
	focused   *uint64
	visible   []*WindowEntry
	detached  []view.Node // nodes of deleted entries still in holder
	nextSeq   uint64
	dirty     bool
}

// NewWindowCollection creates an empty collection rendering into holder.
func NewWindowCollection(output string, holder view.Container, factory view.Factory, icons icon.Loader, focus Focuser, opts Options) *WindowCollection {
	return &WindowCollection{
		output:  output,
		holder:  holder,
		factory: factory,
		icons:   icons,
		focus:   focus,
		opts:    opts.withDefaults(),
		entries: make(map[string]*WindowEntry),
		dirty:   true,
	}
}

// Output returns the output name the collection serves.
func (c *WindowCollection) Output() string { return c.output }

// Holder returns the container the collection renders into.
func (c *WindowCollection) Holder() view.Container { return c.holder }

// Dirty reports whether a reconcile is pending.
func (c *WindowCollection) Dirty() bool { return c.dirty }

// Len returns the number of tracked windows, visible or not.
func (c *WindowCollection) Len() int { return len(c.entries) }

// Entry returns the entry for a window id.
func (c *WindowCollection) Entry(id uint64) (*WindowEntry, bool) {
	e, ok := c.entries[model.Window{ID: id}.Key()]
	return e, ok
}

// Workspace returns the displayed workspace id, if one has been adopted.
func (c *WindowCollection) Workspace() (uint64, bool) { return c.workspace, c.hasWS }

// Focused returns the id of the last window reported as focused.
func (c *WindowCollection) Focused() (uint64, bool) {
	if c.focused == nil {
		return 0, false
	}
	return *c.focused, true
}

// Visible returns the entries shown after the last reconcile, in order.
func (c *WindowCollection) Visible() []*WindowEntry {
	out := make([]*WindowEntry, len(c.visible))
	copy(out, c.visible)
	return out
}

// IngestUpsert creates or updates the entry for w.
func (c *WindowCollection) IngestUpsert(w model.Window) {
	if w.Focused {
		id := w.ID
		c.focused = &id
	} else if c.focused != nil && *c.focused == w.ID {
		c.focused = nil
	}

	key := w.Key()
	e, ok := c.entries[key]
	if !ok {
		e = NewWindowEntry(w, c.factory, c.icons, c.focus, c.opts)
		e.seq = c.nextSeq
		c.nextSeq++
		c.entries[key] = e
		c.dirty = true
		return
	}

	// Relevance to the displayed workspace can change without any field
	// the entry compares, so a matching workspace always forces a pass.
	if c.hasWS && w.OnWorkspace(c.workspace) {
		c.dirty = true
	}
	if e.UpdateData(w) {
		c.dirty = true
	}
}

// IngestDelete drops the entry for id. Unknown ids are ignored.
func (c *WindowCollection) IngestDelete(id uint64) {
	key := model.Window{ID: id}.Key()
	e, ok := c.entries[key]
	if !ok {
		return
	}
	delete(c.entries, key)
	if e.attached {
		c.detached = append(c.detached, e.box)
	}
	if c.focused != nil && *c.focused == id {
		c.focused = nil
	}
	c.dirty = true
}

// SetCurrentWorkspace adopts ws as the displayed workspace when it is
// focused and owned by this collection's output.
func (c *WindowCollection) SetCurrentWorkspace(ws model.Workspace) {
	if !ws.Focused || !ws.OnOutput(c.output) {
		return
	}
	c.workspace = ws.ID
	c.hasWS = true
	c.dirty = true
}

// Reconcile brings the container in line with the entries. It reports
// whether a pass ran.
func (c *WindowCollection) Reconcile() bool {
	if !c.dirty {
		return false
	}

	// Select and order.
	var active []*WindowEntry
	if c.hasWS {
		for _, e := range c.entries {
			if e.window.OnWorkspace(c.workspace) {
				active = append(active, e)
			}
		}
	}
	sort.SliceStable(active, func(i, j int) bool { return active[i].less(active[j]) })

	desired := make(map[string]bool, len(active))
	for _, e := range active {
		desired[e.box.Identity()] = true
	}

	// Remove nodes of deleted entries, then anything no longer desired.
	for _, n := range c.detached {
		c.holder.Remove(n)
	}
	c.detached = c.detached[:0]
	for _, child := range c.holder.Children() {
		if desired[child.Identity()] {
			continue
		}
		c.holder.Remove(child)
		if e, ok := c.entries[child.Identity()]; ok {
			e.attached = false
		}
	}

	// Refresh, attach and order the survivors.
	order := identities(c.holder.Children())
	for i, e := range active {
		e.RefreshView()
		id := e.box.Identity()
		if !e.attached {
			c.holder.Insert(e.box, i)
			e.attached = true
			order = insertAt(order, i, id)
			continue
		}
		if i < len(order) && order[i] == id {
			continue
		}
		c.holder.Reorder(e.box, i)
		order = moveTo(order, id, i)
	}

	c.visible = active
	c.dirty = false
	log.WithFields(log.Fields{"output": c.output, "visible": len(active)}).Debug("windows reconciled")
	return true
}

func identities(nodes []view.Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.Identity()
	}
	return ids
}

func insertAt(ids []string, i int, id string) []string {
	if i > len(ids) {
		i = len(ids)
	}
	ids = append(ids, "")
	copy(ids[i+1:], ids[i:])
	ids[i] = id
	return ids
}

func moveTo(ids []string, id string, i int) []string {
	for j, v := range ids {
		if v == id {
			ids = append(ids[:j], ids[j+1:]...)
			break
		}
	}
	return insertAt(ids, i, id)
}
