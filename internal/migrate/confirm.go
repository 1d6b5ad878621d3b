package migrate

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Confirmer decides whether a pending file rewrite is applied.
type Confirmer interface {
	Confirm(ctx context.Context, step, path, preview string) (bool, error)
}

// AutoConfirm approves every rewrite.
type AutoConfirm struct{}

// Confirm always returns true.
func (AutoConfirm) Confirm(context.Context, string, string, string) (bool, error) {
	return true, nil
}

// PromptConfirmer asks on Out and reads the answer from In.
// Answers: y(es), n(o), a(ll) to approve every remaining file, q(uit) to
// stop asking and skip the rest.
type PromptConfirmer struct {
	in   *bufio.Reader
	out  io.Writer
	all  bool
	quit bool
}

// NewPromptConfirmer creates a PromptConfirmer over the given reader and writer.
func NewPromptConfirmer(in io.Reader, out io.Writer) *PromptConfirmer {
	return &PromptConfirmer{in: bufio.NewReader(in), out: out}
}

// Confirm shows the preview and reads one answer. EOF counts as no.
func (p *PromptConfirmer) Confirm(ctx context.Context, step, path, preview string) (bool, error) {
	if p.all {
		return true, nil
	}
	if p.quit {
		return false, nil
	}
	if preview != "" {
		fmt.Fprintln(p.out, preview)
	}
	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		fmt.Fprintf(p.out, "[%s] apply changes to %s? [y/n/a/q]: ", step, path)
		line, err := p.in.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if err == io.EOF {
				return false, nil
			}
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		case "n", "no", "":
			return false, nil
		case "a", "all":
			p.all = true
			return true, nil
		case "q", "quit":
			p.quit = true
			return false, nil
		default:
			fmt.Fprintln(p.out, "Please answer y, n, a or q.")
		}
	}
}
