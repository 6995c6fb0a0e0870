package model

// Workspace is a read-only snapshot of a workspace.
type Workspace struct {
	ID      uint64  `yaml:"id"                   json:"id"`
	Name    string  `yaml:"name"                 json:"name"`
	Output  *string `yaml:"output,omitempty"     json:"output,omitempty"`     // Owning output/monitor, if connected
	Active  bool    `yaml:"is_active,omitempty"  json:"is_active,omitempty"`  // Currently focused workspace globally
	Focused bool    `yaml:"is_focused,omitempty" json:"is_focused,omitempty"` // Workspace holding UI focus
}

// OnOutput reports whether the workspace is owned by the named output.
func (ws Workspace) OnOutput(name string) bool {
	return ws.Output != nil && *ws.Output == name
}

// Equal reports whether two snapshots match field by field.
func (ws Workspace) Equal(o Workspace) bool {
	return ws.ID == o.ID &&
		ws.Name == o.Name &&
		equalString(ws.Output, o.Output) &&
		ws.Active == o.Active &&
		ws.Focused == o.Focused
}
