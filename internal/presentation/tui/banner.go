// Package tui renders CLI reports for terminals.
package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the pipecanvas banner to w, colored in the palette's
// input-to-output gradient.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text, color string
	}{
		{"        _                                         ", "#0ea5e9"},
		{"  _ __ (_)_ __   ___  ___ __ _ _ ____   ____ _ ___ ", "#6366f1"},
		{" | '_ \\| | '_ \\ / _ \\/ __/ _` | '_ \\ \\ / / _` / __|", "#a855f7"},
		{" | |_) | | |_) |  __/ (_| (_| | | | \\ V / (_| \\__ \\", "#d946ef"},
		{" | .__/|_| .__/ \\___|\\___\\__,_|_| |_|\\_/ \\__,_|___/", "#f97316"},
		{" |_|     |_|                                        ", "#f59e0b"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
