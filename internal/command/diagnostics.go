package command

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/mattn/go-isatty"

	"github.com/reactiveobject/reactivegen/reporter"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[1;31m"
	colorYellow = "\033[1;33m"
	colorGreen  = "\033[32m"
	colorCyan   = "\033[36m"
)

// isTerminal reports whether w writes to a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func colorize(enabled bool, color, s string) string {
	if !enabled {
		return s
	}
	return color + s + colorReset
}

// diagnostics prints errors and warnings with a snippet of the source they
// point into.
type diagnostics struct {
	w     io.Writer
	dir   string
	color bool

	mu       sync.Mutex
	errors   int
	warnings int
}

func newDiagnostics(w io.Writer, dir string) *diagnostics {
	return &diagnostics{w: w, dir: dir, color: isTerminal(w)}
}

// reporter returns a reporter that prints every diagnostic and lets
// generation continue, so that all of them are seen.
func (d *diagnostics) reporter() reporter.Reporter {
	return reporter.NewReporter(
		func(err reporter.ErrorWithPos) error {
			d.print("error", colorRed, err)
			return nil
		},
		func(err reporter.ErrorWithPos) {
			d.print("warning", colorYellow, err)
		},
	)
}

func (d *diagnostics) print(severity, color string, err reporter.ErrorWithPos) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if severity == "error" {
		d.errors++
	} else {
		d.warnings++
	}

	pos := err.GetPosition()
	fmt.Fprintf(d.w, "%s: %s %v\n", pos, colorize(d.color, color, severity+":"), err.Unwrap())
	if src, rerr := os.ReadFile(filepath.Join(d.dir, pos.Filename)); rerr == nil {
		fmt.Fprint(d.w, reporter.Snippet(pos, src))
	}
}

// failure turns the error of a generation run into the one the command
// fails with. Errors already printed are summarized instead of repeated.
func (d *diagnostics) failure(err error) error {
	if err == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if errors.Is(err, reporter.ErrInvalidSource) {
		return fmt.Errorf("generation failed with %d error(s)", d.errors)
	}
	return err
}
