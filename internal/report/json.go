package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/star/quadplan/internal/ephem"
	"github.com/star/quadplan/internal/planner"
	"github.com/star/quadplan/internal/quadrature"
	"github.com/star/quadplan/internal/site"
)

// Document is the JSON form of a report.
type Document struct {
	Site    site.Site      `json:"site"`
	Window  Window         `json:"window"`
	Targets []TargetEvents `json:"targets"`
	Events  []Event        `json:"events"`
	Stats   planner.Stats  `json:"stats"`
}

// Window is the search window in both Julian Date and UTC.
type Window struct {
	StartJD float64   `json:"start_jd"`
	EndJD   float64   `json:"end_jd"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Nights  int       `json:"nights"`
}

// TargetEvents lists one target's observable events.
type TargetEvents struct {
	ephem.Target
	Candidates int     `json:"candidates"`
	Dropped    int     `json:"dropped"`
	Events     []Event `json:"events"`
}

// Event is one observable quadrature.
type Event struct {
	JD          float64          `json:"jd"`
	Time        time.Time        `json:"time"`
	Target      string           `json:"target"`
	Phase       quadrature.Phase `json:"phase"`
	Cycle       int              `json:"cycle"`
	SunAltitude float64          `json:"sun_altitude"`
}

// NewDocument converts a report to its JSON form.
func NewDocument(s site.Site, rep *planner.Report) Document {
	doc := Document{
		Site: s,
		Window: Window{
			StartJD: rep.Window.Start,
			EndJD:   rep.Window.End,
			Start:   rep.Window.StartTime(),
			End:     rep.Window.EndTime(),
			Nights:  rep.Window.Nights(),
		},
		Targets: make([]TargetEvents, 0, len(rep.Targets)),
		Events:  convertEvents(rep.Events),
		Stats:   rep.Stats,
	}
	for _, res := range rep.Targets {
		doc.Targets = append(doc.Targets, TargetEvents{
			Target:     res.Target,
			Candidates: res.Candidates,
			Dropped:    res.Dropped,
			Events:     convertEvents(res.Events),
		})
	}
	return doc
}

func convertEvents(in []planner.Event) []Event {
	out := make([]Event, 0, len(in))
	for _, e := range in {
		out = append(out, Event{
			JD:          e.JD,
			Time:        e.Time(),
			Target:      e.Target,
			Phase:       e.Phase,
			Cycle:       e.Cycle,
			SunAltitude: e.SunAltitude,
		})
	}
	return out
}

// WriteJSON writes the report as one indented JSON document.
func WriteJSON(w io.Writer, s site.Site, rep *planner.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(s, rep))
}
