package planner

import (
	"cmp"
	"time"

	"github.com/star/quadplan/internal/ephem"
	"github.com/star/quadplan/internal/quadrature"
	"github.com/star/quadplan/internal/transform"
	"github.com/star/quadplan/internal/window"
)

// Event is a quadrature candidate that passed the darkness filter.
type Event struct {
	quadrature.Candidate
	SunAltitude float64 `json:"sun_altitude"` // degrees
}

// Time returns the event instant as a UTC time.
func (e Event) Time() time.Time {
	return transform.TimeFromJulianDate(e.JD)
}

// TargetResult holds the observable events of one target.
type TargetResult struct {
	Target     ephem.Target `json:"target"`
	Candidates int          `json:"candidates"`
	Dropped    int          `json:"dropped"`
	Events     []Event      `json:"events"`
}

// Stats summarises a planning run.
type Stats struct {
	Targets    int `json:"targets"`
	Candidates int `json:"candidates"`
	Observable int `json:"observable"`
	Dropped    int `json:"dropped"`
	Collisions int `json:"collisions"` // global entries replaced by an event at the same key
}

// Report is the outcome of a planning run. Targets keep input order; each
// target's events and the global Events are sorted by instant.
type Report struct {
	Window  window.Window  `json:"window"`
	Targets []TargetResult `json:"targets"`
	Events  []Event        `json:"events"`
	Stats   Stats          `json:"stats"`
}

// compareEvents orders events by instant, then target id, then phase.
func compareEvents(a, b Event) int {
	if c := cmp.Compare(a.JD, b.JD); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Target, b.Target); c != 0 {
		return c
	}
	return cmp.Compare(a.Phase, b.Phase)
}
