package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aretw0/viewmig/pkg/domain"
)

// ReportMarkdown renders a migration report as Markdown.
func ReportMarkdown(r *domain.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Odoo %d → %d\n\n", r.From, r.To)
	fmt.Fprintf(&b, "- **Report:** `%s`\n", r.ID)
	fmt.Fprintf(&b, "- **Addons:** `%s`\n", r.Root)
	if r.Backup != "" {
		fmt.Fprintf(&b, "- **Backup:** `%s`\n", r.Backup)
	}
	if r.DryRun {
		b.WriteString("- **Dry run:** no file was written\n")
	}
	if !r.Finished.IsZero() {
		fmt.Fprintf(&b, "- **Duration:** %s\n", r.Finished.Sub(r.Started).Round(time.Millisecond))
	}
	b.WriteString("\n")

	for _, s := range r.Steps {
		fmt.Fprintf(&b, "## %s\n\n", s.Name)
		if len(s.Succeeded)+len(s.Failed)+len(s.Skipped) > 0 {
			b.WriteString("| Succeeded | Failed | Skipped |\n|---|---|---|\n")
			fmt.Fprintf(&b, "| %d | %d | %d |\n\n", len(s.Succeeded), len(s.Failed), len(s.Skipped))
		}
		if len(s.Failed) > 0 {
			b.WriteString("### Failures\n\n")
			for _, f := range s.Failed {
				fmt.Fprintf(&b, "- `%s`: %s\n", f.Path, escapeInline(f.Reason))
			}
			b.WriteString("\n")
		}
		for _, n := range s.Notes {
			fmt.Fprintf(&b, "> %s\n\n", escapeInline(n))
		}
	}

	if n := r.FailedCount(); n > 0 {
		fmt.Fprintf(&b, "**Finished with %d failed file(s).**\n", n)
	} else {
		fmt.Fprintf(&b, "**Finished: %d file(s) updated.**\n", r.SucceededCount())
	}
	return b.String()
}

// PrintReport writes the report to w, through glamour when render is true.
func PrintReport(w io.Writer, r *domain.Report, render bool) error {
	md := ReportMarkdown(r)
	if render {
		out, err := NewRenderer()(md)
		if err == nil {
			md = out
		}
	}
	_, err := io.WriteString(w, md)
	return err
}

func escapeInline(s string) string {
	return strings.NewReplacer("\n", " ", "|", "\\|").Replace(s)
}
