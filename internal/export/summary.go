package export

import (
	"fmt"
	"io"

	"SceneBoard/internal/state"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
)

var logger = log.WithField("prefix", "export")

// errWriter keeps the first write error and skips everything after it.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

// WriteSummary prints a human readable listing of the scene and returns the
// first write error.
func WriteSummary(out io.Writer, elements []state.Element) error {
	w := &errWriter{w: out}
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	w.printf("%s\n\n", cyan("=== SceneBoard ==="))

	counts := make(map[state.Kind]int)
	for _, e := range elements {
		counts[e.Kind]++
	}
	w.printf("Total elements: %d\n", len(elements))
	for _, k := range []state.Kind{state.KindFreehand, state.KindRectangle, state.KindEllipse, state.KindLine, state.KindLabel} {
		if counts[k] > 0 {
			w.printf("  %-10s %d\n", k, counts[k])
		}
	}
	if b, ok := state.SceneBounds(elements); ok {
		w.printf("Bounds: (%.1f, %.1f) - (%.1f, %.1f)\n", b.MinX, b.MinY, b.MaxX, b.MaxY)
	}
	w.printf("\n")

	for i, e := range elements {
		w.printf("%s %s\n", yellow(fmt.Sprintf("Element %d:", i+1)), e.Kind)
		w.printf("  ID:     %s\n", gray(e.ID))
		if e.Kind == state.KindLabel {
			w.printf("  Text:   %q\n", e.Text)
		} else {
			w.printf("  Points: %d\n", len(e.Points))
		}
		w.printf("  Color:  %s\n", e.Color)
		w.printf("  Width:  %.1f\n", e.Width)
		if e.Owner != "" {
			w.printf("  Owner:  %s\n", e.Owner)
		}
		if len(e.Points) > 0 {
			first := e.Points[0]
			w.printf("  Start:  (%.2f, %.2f)\n", first.X, first.Y)
			if len(e.Points) > 1 {
				last := e.Points[len(e.Points)-1]
				w.printf("  End:    (%.2f, %.2f)\n", last.X, last.Y)
			}
		}
	}
	return w.err
}
