package planner

import (
	"slices"

	"github.com/star/quadplan/internal/quadrature"
)

type eventKey struct {
	jd     float64
	target string
	phase  quadrature.Phase
}

// Aggregator merges the events of all targets into one chronological list.
//
// Events are keyed by (instant, target, phase), so two targets whose events
// coincide to full precision both survive. With collapse set, events are keyed
// by instant alone and a later Add replaces an earlier one at the same instant.
type Aggregator struct {
	collapse   bool
	events     map[eventKey]Event
	collisions int
}

// NewAggregator returns an empty aggregator.
func NewAggregator(collapseInstants bool) *Aggregator {
	return &Aggregator{
		collapse: collapseInstants,
		events:   make(map[eventKey]Event),
	}
}

// Add records e, replacing any event already stored under the same key.
func (a *Aggregator) Add(e Event) {
	k := eventKey{jd: e.JD, target: e.Target, phase: e.Phase}
	if a.collapse {
		k = eventKey{jd: e.JD}
	}
	if _, ok := a.events[k]; ok {
		a.collisions++
	}
	a.events[k] = e
}

// Len returns the number of stored events.
func (a *Aggregator) Len() int { return len(a.events) }

// Collisions returns how many Adds replaced an existing entry.
func (a *Aggregator) Collisions() int { return a.collisions }

// Events returns the stored events ordered by instant, then target, then phase.
func (a *Aggregator) Events() []Event {
	out := make([]Event, 0, len(a.events))
	for _, e := range a.events {
		out = append(out, e)
	}
	slices.SortFunc(out, compareEvents)
	return out
}
