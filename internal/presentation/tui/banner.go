package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the viewmig banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text, color string
	}{
		{"        _                        _       ", "#34d399"},
		{" __   _(_) _____      ___ __ ___ (_) __ _ ", "#2dd4bf"},
		{" \\ \\ / / |/ _ \\ \\ /\\ / / '_ ` _ \\| |/ _` |", "#22d3ee"},
		{"  \\ V /| |  __/\\ V  V /| | | | | | | (_| |", "#38bdf8"},
		{"   \\_/ |_|\\___| \\_/\\_/ |_| |_| |_|_|\\__, |", "#60a5fa"},
		{"                                    |___/ ", "#818cf8"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
