package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Format represents the output format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatYAML, FormatJSON, FormatText:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported format: %s (use yaml, json, or text)", s)
	}
}

// OutputFormat is the current output format, set by the root command's --format flag.
var OutputFormat Format = FormatText

// PrettyOutput enables pretty-printing for JSON output.
var PrettyOutput bool

// WindowState is one rendered window node.
type WindowState struct {
	ID       string   `yaml:"id"                json:"id"`
	Title    string   `yaml:"title,omitempty"   json:"title,omitempty"`
	Markers  []string `yaml:"markers,omitempty" json:"markers,omitempty"`
	HasIcon  bool     `yaml:"icon,omitempty"    json:"icon,omitempty"`
	Focused  bool     `yaml:"-"                 json:"-"`
	Floating bool     `yaml:"-"                 json:"-"`
	Urgent   bool     `yaml:"-"                 json:"-"`
}

// OutputState is everything shown on one output.
type OutputState struct {
	Name      string        `yaml:"name"      json:"name"`
	Workspace string        `yaml:"workspace" json:"workspace"`
	Windows   []WindowState `yaml:"windows"   json:"windows"`
}

// BarState is the top-level output of the state commands.
type BarState struct {
	TS      int64         `yaml:"ts"      json:"ts"`
	Outputs []OutputState `yaml:"outputs" json:"outputs"`
}

// Print serializes v to stdout in the current output format.
func Print(v interface{}) error {
	return Fprint(os.Stdout, v)
}

// Fprint serializes v to w in the current output format. The text format
// only applies to BarState values; anything else falls back to YAML.
func Fprint(w io.Writer, v interface{}) error {
	switch OutputFormat {
	case FormatJSON:
		return FprintJSON(w, v, PrettyOutput)
	case FormatYAML:
		return FprintYAML(w, v)
	case FormatText:
		if st, ok := v.(BarState); ok {
			return FprintText(w, st)
		}
		return FprintYAML(w, v)
	default:
		return fmt.Errorf("unsupported output format: %s", OutputFormat)
	}
}

// FprintJSON serializes v as JSON, single-line unless pretty.
func FprintJSON(w io.Writer, v interface{}, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	return nil
}

// FprintYAML serializes v as YAML.
func FprintYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}

// PrintYAML serializes v to stdout as YAML.
func PrintYAML(v interface{}) error {
	return FprintYAML(os.Stdout, v)
}

// YAMLString returns v as YAML text.
func YAMLString(v interface{}) (string, error) {
	b, err := yaml.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("yaml encode: %w", err)
	}
	return string(b), nil
}
