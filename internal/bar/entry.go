package bar

import (
	"errors"

	"github.com/mj1618/wsbar/internal/icon"
	"github.com/mj1618/wsbar/internal/model"
	"github.com/mj1618/wsbar/internal/view"
	log "github.com/sirupsen/logrus"
)

// Focuser asks the window manager to focus a window. Implementations are
// called with the bar locked and must not call back into it.
type Focuser interface {
	Focus(id uint64) error
}

// WindowEntry binds one window snapshot to one visual node.
// dirty is true whenever the node does not yet reflect the snapshot.
type WindowEntry struct {
	window   model.Window
	box      view.Node
	title    view.Node
	seq      uint64 // creation order, breaks position ties
	attached bool   // box is currently a child of the collection's container
	dirty    bool
	opts     Options
}

// NewWindowEntry creates an entry with a fresh node named after the window
// id. The icon is looked up once; a miss is logged and otherwise ignored.
// When focus is set and the node is clickable, a primary button release
// focuses the window.
func NewWindowEntry(w model.Window, factory view.Factory, icons icon.Loader, focus Focuser, opts Options) *WindowEntry {
	opts = opts.withDefaults()
	box, title := factory.NewWindowNode(w.Key())
	if w.Focused {
		title.SetLabel(titleOr(w, opts.UnknownTitle))
	}

	if w.AppID != nil && icons != nil {
		img, err := icons.Load(*w.AppID)
		switch {
		case err == nil:
			if s, ok := box.(view.IconSetter); ok {
				s.SetIcon(img)
			}
		case errors.Is(err, icon.ErrNotFound):
			log.WithField("app_id", *w.AppID).Warn("unable to get icon")
		default:
			log.WithField("app_id", *w.AppID).Warnf("unable to get icon: %v", err)
		}
	}

	if a, ok := box.(view.Activatable); ok && focus != nil {
		id := w.ID
		a.OnActivate(func(button int) error {
			if button != view.ButtonPrimary {
				return nil
			}
			if err := focus.Focus(id); err != nil {
				log.WithField("window", id).Warnf("unable to focus window: %v", err)
				return err
			}
			return nil
		})
	}

	return &WindowEntry{
		window: w,
		box:    box,
		title:  title,
		dirty:  true,
		opts:   opts,
	}
}

// Window returns the current snapshot.
func (e *WindowEntry) Window() model.Window { return e.window }

// Node returns the bound visual node.
func (e *WindowEntry) Node() view.Node { return e.box }

// Dirty reports whether the node lags behind the snapshot.
func (e *WindowEntry) Dirty() bool { return e.dirty }

// Attached reports whether the node is a child of the collection container.
func (e *WindowEntry) Attached() bool { return e.attached }

// UpdateData replaces the snapshot if it differs structurally and reports
// whether it did.
func (e *WindowEntry) UpdateData(w model.Window) bool {
	if e.window.Equal(w) {
		return false
	}
	if log.IsLevelEnabled(log.DebugLevel) {
		log.WithField("window", w.ID).Debugf("window changed: %v", model.DiffWindows(e.window, w))
	}
	e.window = w
	e.dirty = true
	return true
}

// RefreshView pushes the snapshot into the node. No-op when clean.
func (e *WindowEntry) RefreshView() {
	if !e.dirty {
		return
	}
	w := e.window
	if w.Focused {
		e.title.SetLabel(titleOr(w, e.opts.UnknownTitle))
		e.title.SetVisible(true)
	} else {
		e.title.SetLabel("")
		e.title.SetVisible(false)
	}
	e.box.SetMarker(view.MarkerFocus, w.Focused)
	e.box.SetMarker(view.MarkerFloating, w.Floating)
	e.box.SetMarker(view.MarkerUrgent, w.Urgent)
	e.dirty = false
}

// less orders entries by horizontal position, then creation order.
func (e *WindowEntry) less(o *WindowEntry) bool {
	if e.window.X != o.window.X {
		return e.window.X < o.window.X
	}
	return e.seq < o.seq
}

func titleOr(w model.Window, fallback string) string {
	if w.Title == nil {
		return fallback
	}
	return *w.Title
}
