package bar

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/mj1618/wsbar/internal/model"
	"github.com/mj1618/wsbar/internal/view"
)

const testOutput = "DP-1"

func newWindows(t *testing.T) (*WindowCollection, *view.MemContainer) {
	t.Helper()
	holder := view.NewMemContainer("holder")
	return NewWindowCollection(testOutput, holder, view.MemFactory{}, nil, nil, Options{}), holder
}

func win(id uint64, x int, ws uint64) model.Window {
	return model.Window{ID: id, X: x, WorkspaceID: model.Uint64Ptr(ws)}
}

func focusedWorkspace(id uint64) model.Workspace {
	return model.Workspace{ID: id, Name: "ws", Output: model.StringPtr(testOutput), Focused: true, Active: true}
}

func TestWindowCollection_ScenarioFilterAndOrder(t *testing.T) {
	c, holder := newWindows(t)
	c.SetCurrentWorkspace(focusedWorkspace(1))

	c.IngestUpsert(win(10, 5, 1)) // A
	c.IngestUpsert(win(11, 2, 1)) // B
	c.IngestUpsert(win(12, 1, 2)) // C
	c.Reconcile()

	if got, want := holder.Identities(), []string{"11", "10"}; !reflect.DeepEqual(got, want) {
		t.Errorf("visible order: got %v, want %v", got, want)
	}
	if e, _ := c.Entry(12); e.Attached() {
		t.Error("window on another workspace should not be attached")
	}
}

func TestWindowCollection_ReconcileIsIdempotent(t *testing.T) {
	c, holder := newWindows(t)
	c.SetCurrentWorkspace(focusedWorkspace(1))
	c.IngestUpsert(win(1, 3, 1))
	c.IngestUpsert(win(2, 1, 1))
	if !c.Reconcile() {
		t.Fatal("first reconcile should run")
	}
	first := holder.Identities()
	holder.ResetStats()

	if c.Reconcile() {
		t.Error("second reconcile should be a no-op")
	}
	if holder.Stats().Total() != 0 {
		t.Errorf("second reconcile mutated the container: %+v", holder.Stats())
	}
	if !reflect.DeepEqual(holder.Identities(), first) {
		t.Errorf("state changed: %v -> %v", first, holder.Identities())
	}
}

func TestWindowCollection_IdenticalUpsertIsNoChange(t *testing.T) {
	c, holder := newWindows(t)
	c.SetCurrentWorkspace(focusedWorkspace(1))
	a := model.Window{ID: 1, Title: model.StringPtr("x"), WorkspaceID: model.Uint64Ptr(2)}
	c.IngestUpsert(a)
	c.Reconcile()
	holder.ResetStats()

	e, _ := c.Entry(1)
	if e.UpdateData(a) {
		t.Error("identical snapshot should report no change")
	}
	c.IngestUpsert(a)
	if c.Dirty() {
		t.Error("identical upsert off the displayed workspace should not dirty the collection")
	}
	c.Reconcile()
	if holder.Stats().Total() != 0 {
		t.Errorf("expected no mutations, got %+v", holder.Stats())
	}
}

func TestWindowCollection_UpsertOnDisplayedWorkspaceAlwaysDirties(t *testing.T) {
	c, holder := newWindows(t)
	c.SetCurrentWorkspace(focusedWorkspace(1))
	c.IngestUpsert(win(1, 0, 1))
	c.Reconcile()
	holder.ResetStats()

	c.IngestUpsert(win(1, 0, 1))
	if !c.Dirty() {
		t.Error("upsert on the displayed workspace should dirty the collection")
	}
	c.Reconcile()
	if holder.Stats().Total() != 0 {
		t.Errorf("forced pass over an unchanged window should not mutate, got %+v", holder.Stats())
	}
}

func TestWindowCollection_NoWorkspaceShowsNothing(t *testing.T) {
	c, holder := newWindows(t)
	c.IngestUpsert(win(1, 0, 0))
	c.Reconcile()
	if len(holder.Children()) != 0 {
		t.Errorf("expected nothing shown before a workspace is adopted, got %v", holder.Identities())
	}
}

func TestWindowCollection_WindowWithoutWorkspaceHidden(t *testing.T) {
	c, holder := newWindows(t)
	c.SetCurrentWorkspace(focusedWorkspace(1))
	c.IngestUpsert(model.Window{ID: 1})
	c.IngestUpsert(win(2, 0, 1))
	c.Reconcile()
	if got, want := holder.Identities(), []string{"2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("visible: got %v, want %v", got, want)
	}
}

func TestWindowCollection_SetCurrentWorkspaceFilters(t *testing.T) {
	c, _ := newWindows(t)

	c.SetCurrentWorkspace(model.Workspace{ID: 3, Output: model.StringPtr(testOutput)})
	if _, ok := c.Workspace(); ok {
		t.Error("unfocused workspace should be ignored")
	}
	c.SetCurrentWorkspace(model.Workspace{ID: 3, Output: model.StringPtr("HDMI-A-1"), Focused: true})
	if _, ok := c.Workspace(); ok {
		t.Error("workspace on another output should be ignored")
	}
	c.SetCurrentWorkspace(focusedWorkspace(3))
	if id, ok := c.Workspace(); !ok || id != 3 {
		t.Errorf("expected workspace 3, got %d %v", id, ok)
	}
}

func TestWindowCollection_SwitchWorkspace(t *testing.T) {
	c, holder := newWindows(t)
	c.SetCurrentWorkspace(focusedWorkspace(1))
	c.IngestUpsert(win(1, 0, 1))
	c.IngestUpsert(win(2, 1, 1))
	c.IngestUpsert(win(3, 0, 2))
	c.Reconcile()

	c.SetCurrentWorkspace(focusedWorkspace(2))
	c.Reconcile()
	if got, want := holder.Identities(), []string{"3"}; !reflect.DeepEqual(got, want) {
		t.Errorf("visible: got %v, want %v", got, want)
	}
	e1, _ := c.Entry(1)
	if e1.Attached() {
		t.Error("entry removed from the container should be marked detached")
	}

	c.SetCurrentWorkspace(focusedWorkspace(1))
	c.Reconcile()
	if got, want := holder.Identities(), []string{"1", "2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("visible after switching back: got %v, want %v", got, want)
	}
}

func TestWindowCollection_NodesAreReused(t *testing.T) {
	c, holder := newWindows(t)
	c.SetCurrentWorkspace(focusedWorkspace(1))
	c.IngestUpsert(win(1, 0, 1))
	c.Reconcile()
	before := holder.Children()[0]

	c.IngestUpsert(model.Window{ID: 1, X: 0, WorkspaceID: model.Uint64Ptr(1), Title: model.StringPtr("new")})
	c.Reconcile()
	if holder.Children()[0] != before {
		t.Error("updating a window should not recreate its node")
	}
}

func TestWindowCollection_MoveReorders(t *testing.T) {
	c, holder := newWindows(t)
	c.SetCurrentWorkspace(focusedWorkspace(1))
	c.IngestUpsert(win(1, 0, 1))
	c.IngestUpsert(win(2, 10, 1))
	c.IngestUpsert(win(3, 20, 1))
	c.Reconcile()
	holder.ResetStats()

	c.IngestUpsert(win(3, -5, 1))
	c.Reconcile()
	if got, want := holder.Identities(), []string{"3", "1", "2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("order: got %v, want %v", got, want)
	}
	if s := holder.Stats(); s.Inserts != 0 || s.Removes != 0 || s.Reorders != 1 {
		t.Errorf("expected a single reorder, got %+v", s)
	}
}

func TestWindowCollection_TiesKeepInsertionOrder(t *testing.T) {
	c, holder := newWindows(t)
	c.SetCurrentWorkspace(focusedWorkspace(1))
	for _, id := range []uint64{9, 4, 7, 1} {
		c.IngestUpsert(win(id, 0, 1))
	}
	c.Reconcile()
	if got, want := holder.Identities(), []string{"9", "4", "7", "1"}; !reflect.DeepEqual(got, want) {
		t.Errorf("tie order: got %v, want %v", got, want)
	}
}

func TestWindowCollection_DeleteUnknownIsNoop(t *testing.T) {
	c, holder := newWindows(t)
	c.SetCurrentWorkspace(focusedWorkspace(1))
	c.IngestUpsert(win(1, 0, 1))
	c.Reconcile()
	holder.ResetStats()

	c.IngestDelete(99)
	if c.Dirty() {
		t.Error("deleting an unknown id should not dirty the collection")
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", c.Len())
	}
	c.Reconcile()
	if holder.Stats().Total() != 0 {
		t.Errorf("expected no mutations, got %+v", holder.Stats())
	}
}

func TestWindowCollection_DeleteRemovesExactlyOne(t *testing.T) {
	c, holder := newWindows(t)
	c.SetCurrentWorkspace(focusedWorkspace(1))
	c.IngestUpsert(win(1, 0, 1))
	c.IngestUpsert(win(2, 1, 1))
	c.IngestUpsert(win(3, 2, 1))
	c.Reconcile()

	c.IngestDelete(2)
	if !c.Dirty() {
		t.Error("delete should dirty the collection")
	}
	if _, ok := c.Entry(2); ok {
		t.Error("entry 2 should be gone")
	}
	c.Reconcile()
	if got, want := holder.Identities(), []string{"1", "3"}; !reflect.DeepEqual(got, want) {
		t.Errorf("visible: got %v, want %v", got, want)
	}
}

func TestWindowCollection_DeleteThenRecreateBeforeReconcile(t *testing.T) {
	c, holder := newWindows(t)
	c.SetCurrentWorkspace(focusedWorkspace(1))
	c.IngestUpsert(win(1, 0, 1))
	c.Reconcile()
	old := holder.Children()[0]

	c.IngestDelete(1)
	c.IngestUpsert(win(1, 0, 1))
	c.Reconcile()

	kids := holder.Children()
	if len(kids) != 1 {
		t.Fatalf("expected exactly one child, got %v", holder.Identities())
	}
	if kids[0] == old {
		t.Error("recreated window should get a fresh node")
	}
}

func TestWindowCollection_RefreshesVisibleEntries(t *testing.T) {
	c, holder := newWindows(t)
	c.SetCurrentWorkspace(focusedWorkspace(1))
	c.IngestUpsert(model.Window{ID: 1, WorkspaceID: model.Uint64Ptr(1), Title: model.StringPtr("vim"), Focused: true})
	c.IngestUpsert(model.Window{ID: 2, WorkspaceID: model.Uint64Ptr(2), Urgent: true})
	c.Reconcile()

	box := holder.Children()[0].(*view.MemNode)
	if box.Title().Label() != "vim" || !box.HasMarker(view.MarkerFocus) {
		t.Errorf("visible entry not refreshed: %+v", box.Describe())
	}
	hidden, _ := c.Entry(2)
	if !hidden.Dirty() {
		t.Error("entries off the displayed workspace are refreshed lazily")
	}
	if id, ok := c.Focused(); !ok || id != 1 {
		t.Errorf("focused: got %d %v", id, ok)
	}
}

func TestWindowCollection_RemovesForeignChildren(t *testing.T) {
	c, holder := newWindows(t)
	holder.Insert(view.NewMemNode("stray"), 0)
	c.SetCurrentWorkspace(focusedWorkspace(1))
	c.IngestUpsert(win(1, 0, 1))
	c.Reconcile()
	if got, want := holder.Identities(), []string{"1"}; !reflect.DeepEqual(got, want) {
		t.Errorf("visible: got %v, want %v", got, want)
	}
}

func TestWindowCollection_Visible(t *testing.T) {
	c, _ := newWindows(t)
	c.SetCurrentWorkspace(focusedWorkspace(1))
	c.IngestUpsert(win(1, 4, 1))
	c.IngestUpsert(win(2, 2, 1))
	c.Reconcile()
	vis := c.Visible()
	if len(vis) != 2 || vis[0].Window().ID != 2 || vis[1].Window().ID != 1 {
		t.Errorf("unexpected visible entries: %v", vis)
	}
}

// randomEvents builds a reproducible mix of upserts, deletes and workspace
// switches over a small id space.
func randomEvents(seed int64, n int) []model.Event {
	r := rand.New(rand.NewSource(seed))
	events := make([]model.Event, 0, n)
	for i := 0; i < n; i++ {
		switch r.Intn(6) {
		case 0:
			events = append(events, model.WindowDeleted(uint64(r.Intn(8))))
		case 1:
			events = append(events, model.WorkspaceUpserted(focusedWorkspace(uint64(r.Intn(3)))))
		default:
			w := win(uint64(r.Intn(8)), r.Intn(5), uint64(r.Intn(3)))
			w.Focused = r.Intn(4) == 0
			w.Urgent = r.Intn(5) == 0
			if r.Intn(2) == 0 {
				w.Title = model.StringPtr("t")
			}
			events = append(events, model.WindowUpserted(w))
		}
	}
	return events
}

func applyToWindows(c *WindowCollection, e model.Event) {
	switch e.Kind {
	case model.EventWindowUpsert:
		c.IngestUpsert(*e.Window)
	case model.EventWindowDelete:
		c.IngestDelete(e.ID)
	case model.EventWorkspaceUpsert:
		c.SetCurrentWorkspace(*e.Workspace)
	}
}

func describeChildren(holder *view.MemContainer) []view.NodeState {
	var out []view.NodeState
	for _, n := range holder.Children() {
		out = append(out, n.(view.Describer).Describe())
	}
	return out
}

func TestWindowCollection_DirtyCoalescing(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		events := randomEvents(seed, 60)

		batched, batchedHolder := newWindows(t)
		stepped, steppedHolder := newWindows(t)
		for _, e := range events {
			applyToWindows(batched, e)
			applyToWindows(stepped, e)
			stepped.Reconcile()
		}
		batched.Reconcile()

		if got, want := batchedHolder.Identities(), steppedHolder.Identities(); !reflect.DeepEqual(got, want) {
			t.Fatalf("seed %d: batched %v, stepped %v", seed, got, want)
		}
		if got, want := describeChildren(batchedHolder), describeChildren(steppedHolder); !reflect.DeepEqual(got, want) {
			t.Fatalf("seed %d: node state differs\nbatched %+v\nstepped %+v", seed, got, want)
		}
	}
}

func TestWindowCollection_OrderAndFilterInvariants(t *testing.T) {
	for seed := int64(100); seed < 120; seed++ {
		c, holder := newWindows(t)
		for _, e := range randomEvents(seed, 80) {
			applyToWindows(c, e)
			if seed%2 == 0 {
				c.Reconcile()
			}
		}
		c.Reconcile()

		ws, ok := c.Workspace()
		prevX := 0
		for i, n := range holder.Children() {
			var id uint64
			for _, e := range c.Visible() {
				if e.Node() == n {
					id = e.Window().ID
				}
			}
			e, found := c.Entry(id)
			if !found || e.Node() != n {
				t.Fatalf("seed %d: child %q is not a live entry", seed, n.Identity())
			}
			w := e.Window()
			if !ok || !w.OnWorkspace(ws) {
				t.Fatalf("seed %d: window %d on wrong workspace", seed, w.ID)
			}
			if i > 0 && w.X < prevX {
				t.Fatalf("seed %d: order broken at %d", seed, i)
			}
			prevX = w.X
		}
	}
}
