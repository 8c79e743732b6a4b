package report

import (
	"fmt"
	"io"

	"github.com/star/quadplan/internal/planner"
	"github.com/star/quadplan/internal/site"
)

// Output formats accepted by Write.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Write renders rep in the named format.
func Write(w io.Writer, format string, s site.Site, rep *planner.Report) error {
	switch format {
	case "", FormatText:
		return WriteText(w, s, rep)
	case FormatJSON:
		return WriteJSON(w, s, rep)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
