package view

import (
	"image"
	"sort"
)

// MemNode is an in-memory Node. New nodes are visible with an empty label.
type MemNode struct {
	identity string
	label    string
	visible  bool
	markers  map[string]bool
	icon     image.Image
	title    *MemNode
	activate func(button int) error
}

// NewMemNode creates a visible node with the given identity.
func NewMemNode(identity string) *MemNode {
	return &MemNode{identity: identity, visible: true, markers: make(map[string]bool)}
}

func (n *MemNode) Identity() string        { return n.identity }
func (n *MemNode) SetLabel(text string)    { n.label = text }
func (n *MemNode) SetVisible(visible bool) { n.visible = visible }
func (n *MemNode) SetIcon(img image.Image) { n.icon = img }

func (n *MemNode) SetMarker(name string, on bool) {
	if on {
		n.markers[name] = true
		return
	}
	delete(n.markers, name)
}

// OnActivate implements Activatable.
func (n *MemNode) OnActivate(fn func(button int) error) { n.activate = fn }

// Activate implements Activatable.
func (n *MemNode) Activate(button int) error {
	if n.activate == nil {
		return ErrNoHandler
	}
	return n.activate(button)
}

// Label returns the current label text.
func (n *MemNode) Label() string { return n.label }

// Visible reports whether the node is shown.
func (n *MemNode) Visible() bool { return n.visible }

// HasMarker reports whether the named marker is set.
func (n *MemNode) HasMarker(name string) bool { return n.markers[name] }

// Markers returns the set marker names in sorted order.
func (n *MemNode) Markers() []string {
	names := make([]string, 0, len(n.markers))
	for name := range n.markers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Title returns the title label packed in a window box, or nil.
func (n *MemNode) Title() *MemNode { return n.title }

// Describe implements Describer.
func (n *MemNode) Describe() NodeState {
	st := NodeState{
		Identity: n.identity,
		Label:    n.label,
		Visible:  n.visible,
		Icon:     n.icon,
	}
	if len(n.markers) > 0 {
		st.Markers = make(map[string]bool, len(n.markers))
		for k, v := range n.markers {
			st.Markers[k] = v
		}
	}
	if n.title != nil {
		t := n.title.Describe()
		st.Title = &t
	}
	return st
}

// MemStats counts structural mutations applied to a MemContainer.
type MemStats struct {
	Inserts  int
	Removes  int
	Reorders int
}

// Total returns the sum of all mutations.
func (s MemStats) Total() int { return s.Inserts + s.Removes + s.Reorders }

// MemContainer is an in-memory Container that records mutations.
// Operations that leave the child list unchanged are not counted.
type MemContainer struct {
	identity string
	children []Node
	stats    MemStats
}

// NewMemContainer creates an empty container.
func NewMemContainer(identity string) *MemContainer {
	return &MemContainer{identity: identity}
}

// Identity returns the container name.
func (c *MemContainer) Identity() string { return c.identity }

// Children returns a copy of the child list.
func (c *MemContainer) Children() []Node {
	out := make([]Node, len(c.children))
	copy(out, c.children)
	return out
}

// Insert implements Container. Inserting a node that is already a child
// moves it instead of duplicating it.
func (c *MemContainer) Insert(node Node, index int) {
	if c.indexOf(node) >= 0 {
		c.Reorder(node, index)
		return
	}
	index = clamp(index, len(c.children))
	c.children = append(c.children, nil)
	copy(c.children[index+1:], c.children[index:])
	c.children[index] = node
	c.stats.Inserts++
}

// Remove implements Container.
func (c *MemContainer) Remove(node Node) {
	i := c.indexOf(node)
	if i < 0 {
		return
	}
	c.children = append(c.children[:i], c.children[i+1:]...)
	c.stats.Removes++
}

// Reorder implements Container.
func (c *MemContainer) Reorder(node Node, index int) {
	i := c.indexOf(node)
	if i < 0 {
		return
	}
	index = clamp(index, len(c.children)-1)
	if i == index {
		return
	}
	c.children = append(c.children[:i], c.children[i+1:]...)
	c.children = append(c.children, nil)
	copy(c.children[index+1:], c.children[index:])
	c.children[index] = node
	c.stats.Reorders++
}

// Stats returns the mutation counters.
func (c *MemContainer) Stats() MemStats { return c.stats }

// ResetStats zeroes the mutation counters.
func (c *MemContainer) ResetStats() { c.stats = MemStats{} }

// Identities returns the child identities in display order.
func (c *MemContainer) Identities() []string {
	ids := make([]string, len(c.children))
	for i, n := range c.children {
		ids[i] = n.Identity()
	}
	return ids
}

func (c *MemContainer) indexOf(node Node) int {
	for i, n := range c.children {
		if n == node {
			return i
		}
	}
	return -1
}

func clamp(index, limit int) int {
	if index < 0 {
		return 0
	}
	if index > limit {
		return limit
	}
	return index
}

// MemFactory builds in-memory nodes.
type MemFactory struct{}

// NewWindowNode implements Factory.
func (MemFactory) NewWindowNode(identity string) (Node, Node) {
	box := NewMemNode(identity)
	box.title = NewMemNode(identity + "/title")
	return box, box.title
}

// NewLabel implements Factory.
func (MemFactory) NewLabel(identity string) Node {
	return NewMemNode(identity)
}

// NewContainer implements Factory.
func (MemFactory) NewContainer(identity string) Container {
	return NewMemContainer(identity)
}
