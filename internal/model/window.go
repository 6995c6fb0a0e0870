package model

import "strconv"

// Window is a read-only snapshot of a toplevel window as reported by the
// window manager.
type Window struct {
	ID          uint64  `yaml:"id"                     json:"id"`
	Title       *string `yaml:"title,omitempty"        json:"title,omitempty"`
	AppID       *string `yaml:"app_id,omitempty"       json:"app_id,omitempty"`
	WorkspaceID *uint64 `yaml:"workspace_id,omitempty" json:"workspace_id,omitempty"`
	Focused     bool    `yaml:"is_focused,omitempty"   json:"is_focused,omitempty"`
	Floating    bool    `yaml:"is_floating,omitempty"  json:"is_floating,omitempty"`
	Urgent      bool    `yaml:"is_urgent,omitempty"    json:"is_urgent,omitempty"`
	X           int     `yaml:"x"                      json:"x"` // Horizontal position, used for ordering
}

// Key returns the stringified window id used to index entries.
func (w Window) Key() string {
	return strconv.FormatUint(w.ID, 10)
}

// OnWorkspace reports whether the window belongs to workspace id.
func (w Window) OnWorkspace(id uint64) bool {
	return w.WorkspaceID != nil && *w.WorkspaceID == id
}

// Equal reports whether two snapshots match field by field. Optional fields
// are compared by value, not by pointer.
func (w Window) Equal(o Window) bool {
	return w.ID == o.ID &&
		equalString(w.Title, o.Title) &&
		equalString(w.AppID, o.AppID) &&
		equalUint(w.WorkspaceID, o.WorkspaceID) &&
		w.Focused == o.Focused &&
		w.Floating == o.Floating &&
		w.Urgent == o.Urgent &&
		w.X == o.X
}

func equalString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalUint(a, b *uint64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// StringPtr returns a pointer to s. Convenient for building snapshots.
func StringPtr(s string) *string { return &s }

// Uint64Ptr returns a pointer to v.
func Uint64Ptr(v uint64) *uint64 { return &v }
