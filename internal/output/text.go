package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	colorOutput    = color.New(color.FgMagenta).SprintFunc()
	colorWorkspace = color.New(color.FgCyan, color.Bold).SprintFunc()
	colorFocused   = color.New(color.FgWhite, color.Bold).SprintFunc()
	colorUrgent    = color.New(color.FgRed, color.Bold).SprintFunc()
	colorFloating  = color.New(color.FgYellow).SprintFunc()
	colorWindow    = color.New(color.FgBlue).SprintFunc()
)

// FprintText writes one line per output:
//
//	DP-1  [web / 3]  #11  *#10 vim*  #12~
//
// Focused windows show their title, "!" marks urgent and "~" floating.
func FprintText(w io.Writer, st BarState) error {
	for _, out := range st.Outputs {
		parts := []string{
			colorOutput(out.Name),
			colorWorkspace("[" + out.Workspace + "]"),
		}
		for _, win := range out.Windows {
			parts = append(parts, windowText(win))
		}
		if _, err := fmt.Fprintln(w, strings.Join(parts, "  ")); err != nil {
			return fmt.Errorf("write text: %w", err)
		}
	}
	return nil
}

func windowText(win WindowState) string {
	s := "#" + win.ID
	if win.Floating {
		s += "~"
	}
	if win.Urgent {
		s += "!"
	}
	switch {
	case win.Focused:
		if win.Title != "" {
			s += " " + win.Title
		}
		return colorFocused("*" + s + "*")
	case win.Urgent:
		return colorUrgent(s)
	case win.Floating:
		return colorFloating(s)
	default:
		return colorWindow(s)
	}
}
