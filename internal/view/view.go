// Package view defines the visual node abstraction the reconciler drives.
// Concrete toolkits implement these interfaces; the in-memory implementation
// in this package backs the renderers and tests.
package view

import (
	"errors"
	"image"
)

// Marker names toggled on window nodes.
const (
	MarkerFocus    = "focus"
	MarkerFloating = "floating"
	MarkerUrgent   = "urgent"
)

// ButtonPrimary is the pointer button that activates a window node.
const ButtonPrimary = 1

// ErrNoHandler is returned when activating a node nobody listens on.
var ErrNoHandler = errors.New("node has no activation handler")

// Node is a single visual element.
type Node interface {
	// Identity returns the stable name of the node. Two nodes with the same
	// identity are never children of one container at the same time.
	Identity() string

	SetLabel(text string)
	SetVisible(visible bool)
	SetMarker(name string, on bool)
}

// IconSetter is implemented by nodes that can display an image.
type IconSetter interface {
	SetIcon(img image.Image)
}

// Activatable is implemented by nodes that react to pointer clicks.
type Activatable interface {
	// OnActivate registers fn to run on a button release over the node,
	// replacing any earlier handler.
	OnActivate(fn func(button int) error)

	// Activate delivers a button release as if the user clicked the node.
	Activate(button int) error
}

// Container is an ordered list of child nodes.
type Container interface {
	// Children returns the current children in display order.
	Children() []Node

	// Insert adds node at index. An index past the end appends.
	Insert(node Node, index int)

	// Remove detaches node. Removing a node that is not a child is a no-op.
	Remove(node Node)

	// Reorder moves an existing child to index.
	Reorder(node Node, index int)
}

// Factory creates nodes for a toolkit.
type Factory interface {
	// NewWindowNode returns the box bound to a window together with the
	// title label packed inside it.
	NewWindowNode(identity string) (box Node, title Node)

	NewLabel(identity string) Node
	NewContainer(identity string) Container
}

// NodeState is a read-only description of what a node currently shows.
type NodeState struct {
	Identity string          `yaml:"identity"          json:"identity"`
	Label    string          `yaml:"label,omitempty"   json:"label,omitempty"`
	Visible  bool            `yaml:"visible"           json:"visible"`
	Markers  map[string]bool `yaml:"markers,omitempty" json:"markers,omitempty"`
	Icon     image.Image     `yaml:"-"                 json:"-"`
	Title    *NodeState      `yaml:"title,omitempty"   json:"title,omitempty"`
}

// Describer is implemented by nodes that can report their state.
type Describer interface {
	Describe() NodeState
}

// IndexOf returns the position of the child with the given identity, or -1.
func IndexOf(c Container, identity string) int {
	for i, n := range c.Children() {
		if n.Identity() == identity {
			return i
		}
	}
	return -1
}
