// Package render reads the reconciled node tree back out of a bar and turns
// it into serializable state or an image.
package render

import (
	"time"

	"github.com/mj1618/wsbar/internal/bar"
	"github.com/mj1618/wsbar/internal/output"
	"github.com/mj1618/wsbar/internal/view"
)

// OutputSnapshot is the node state of one output.
type OutputSnapshot struct {
	Name      string
	Indicator view.NodeState
	Windows   []view.NodeState
}

// Snapshot is the node state of every output at one instant.
type Snapshot struct {
	TS      int64
	Outputs []OutputSnapshot
}

// Capture describes the nodes currently in the bar. Nodes that do not
// implement view.Describer are reported by identity only.
func Capture(b *bar.Bar) Snapshot {
	snap := Snapshot{TS: time.Now().Unix()}
	b.Inspect(func(out *bar.Output) {
		o := OutputSnapshot{
			Name:      out.Name,
			Indicator: describe(out.Workspaces.Indicator()),
		}
		for _, n := range out.Windows.Holder().Children() {
			o.Windows = append(o.Windows, describe(n))
		}
		snap.Outputs = append(snap.Outputs, o)
	})
	return snap
}

func describe(n view.Node) view.NodeState {
	if d, ok := n.(view.Describer); ok {
		return d.Describe()
	}
	return view.NodeState{Identity: n.Identity(), Visible: true}
}

// State converts the snapshot into the serializable bar state.
func (s Snapshot) State() output.BarState {
	st := output.BarState{TS: s.TS, Outputs: []output.OutputState{}}
	for _, out := range s.Outputs {
		o := output.OutputState{
			Name:      out.Name,
			Workspace: out.Indicator.Label,
			Windows:   []output.WindowState{},
		}
		for _, n := range out.Windows {
			o.Windows = append(o.Windows, windowState(n))
		}
		st.Outputs = append(st.Outputs, o)
	}
	return st
}

func windowState(n view.NodeState) output.WindowState {
	ws := output.WindowState{
		ID:       n.Identity,
		HasIcon:  n.Icon != nil,
		Focused:  n.Markers[view.MarkerFocus],
		Floating: n.Markers[view.MarkerFloating],
		Urgent:   n.Markers[view.MarkerUrgent],
	}
	if n.Title != nil && n.Title.Visible {
		ws.Title = n.Title.Label
	}
	for _, m := range []string{view.MarkerFocus, view.MarkerFloating, view.MarkerUrgent} {
		if n.Markers[m] {
			ws.Markers = append(ws.Markers, m)
		}
	}
	return ws
}
