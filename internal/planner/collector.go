package planner

import (
	"slices"

	"github.com/star/quadplan/internal/ephem"
)

// Collector gathers the observable events of a single target.
type Collector struct {
	target ephem.Target
	events []Event
}

// NewCollector returns an empty collector for t.
func NewCollector(t ephem.Target) *Collector {
	return &Collector{target: t}
}

// Add appends e in the order received.
func (c *Collector) Add(e Event) {
	c.events = append(c.events, e)
}

// Len returns the number of events collected.
func (c *Collector) Len() int { return len(c.events) }

// Events returns a copy of the events sorted by instant. Generation order puts
// a cycle's Q1 ahead of its earlier Q2, so the order received is not relied on.
func (c *Collector) Events() []Event {
	out := slices.Clone(c.events)
	slices.SortStableFunc(out, compareEvents)
	if out == nil {
		out = []Event{}
	}
	return out
}
