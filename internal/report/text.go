// Package report renders planning results for people and for programs.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/star/quadplan/internal/planner"
	"github.com/star/quadplan/internal/site"
)

const (
	timeLayout     = "2006-01-02 15:04:05"
	fracTimeLayout = "2006-01-02 15:04:05.000000"
)

// FormatTime renders a UTC instant the way the original text reports do:
// microseconds are shown only when present.
func FormatTime(t time.Time) string {
	t = t.UTC()
	if t.Nanosecond() == 0 {
		return t.Format(timeLayout)
	}
	return t.Format(fracTimeLayout)
}

// WriteText writes the per-target listings followed by the chronological summary.
// Headings are styled only when w is a terminal.
func WriteText(w io.Writer, s site.Site, rep *planner.Report) error {
	r := lipgloss.NewRenderer(w)
	heading := r.NewStyle().Bold(true)
	muted := r.NewStyle().Faint(true)

	ew := &errWriter{w: w}

	ew.printf("%s\n", muted.Render(fmt.Sprintf("Observatory: %s (%.4f, %.4f, %.0f m)",
		s.Name, s.Latitude, s.Longitude, s.Height)))
	ew.printf("%s\n\n", muted.Render(fmt.Sprintf("Window: %s to %s UTC, %d night(s)",
		FormatTime(rep.Window.StartTime()), FormatTime(rep.Window.EndTime()), rep.Window.Nights())))

	for _, res := range rep.Targets {
		ew.printf("%s\n", heading.Render("Target: "+res.Target.ID))
		for _, e := range res.Events {
			ew.printf("\t%s %s\n", FormatTime(e.Time()), e.Phase)
		}
		if res.Dropped > 0 {
			ew.printf("\t%s\n", muted.Render(fmt.Sprintf("(%d candidate(s) dropped: solar position unavailable)", res.Dropped)))
		}
	}

	ew.printf("\n%s\n", heading.Render("Chronological summary:"))
	for _, e := range rep.Events {
		ew.printf("\t%s  %s  %s\n", FormatTime(e.Time()), e.Target, e.Phase)
	}

	return ew.err
}

// errWriter keeps the first write error and skips later writes.
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
