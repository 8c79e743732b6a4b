// Package quadrature enumerates the quadrature instants of linear ephemerides.
package quadrature

import (
	"fmt"
	"math"

	"github.com/star/quadplan/internal/apperr"
	"github.com/star/quadplan/internal/ephem"
	"github.com/star/quadplan/internal/window"
)

// maxCycles bounds the number of cycles stepped for one target.
const maxCycles = 1_000_000

// Candidate is one quadrature instant of a target that falls inside the window.
type Candidate struct {
	Target string  `json:"target"`
	JD     float64 `json:"jd"`
	Phase  Phase   `json:"phase"`
	Cycle  int     `json:"cycle"` // cycle number counted from the target's reference epoch
}

// Generate returns every quadrature of t inside w, bounds included.
//
// Cycles are stepped from one period before the first reference instant at or
// after w.Start. Within a cycle Q1 is emitted before Q2, so the result is in
// generation order, not time order: Q2 of a cycle precedes its Q1 in time.
// Stepping stops once a cycle's Q2 lies beyond w.End.
//
// The result depends only on the target's epoch and period and on w.
func Generate(t ephem.Target, w window.Window) ([]Candidate, error) {
	if !(t.Period > 0) || math.IsInf(t.Period, 0) || math.IsNaN(t.Epoch) || math.IsInf(t.Epoch, 0) {
		return nil, fmt.Errorf("%w: %s: period %v, epoch %v", apperr.ErrInvalidEphemeris, t.ID, t.Period, t.Epoch)
	}
	if span := (w.End - w.Start) / t.Period; span > maxCycles {
		return nil, fmt.Errorf("%w: %s: window spans %.0f cycles (limit %d)", apperr.ErrInvalidEphemeris, t.ID, span, maxCycles)
	}

	first := firstCycleAtOrAfter(t, w.Start)
	anchor := t.Epoch + first*t.Period - t.Period
	anchorCycle := int(first) - 1

	quarter := 0.25 * t.Period

	var out []Candidate
	for j := 0; ; j++ {
		base := anchor + float64(j)*t.Period
		if base-quarter > w.End {
			break
		}

		q1 := base + quarter
		if w.Contains(q1) {
			out = append(out, Candidate{Target: t.ID, JD: q1, Phase: Q1, Cycle: anchorCycle + j})
		}
		q2 := base - quarter
		if w.Contains(q2) {
			out = append(out, Candidate{Target: t.ID, JD: q2, Phase: Q2, Cycle: anchorCycle + j})
		}
	}

	return out, nil
}

// firstCycleAtOrAfter returns the smallest integer i with epoch + i*period >= jd.
func firstCycleAtOrAfter(t ephem.Target, jd float64) float64 {
	i := math.Ceil((jd - t.Epoch) / t.Period)
	for t.Epoch+i*t.Period < jd {
		i++
	}
	for t.Epoch+(i-1)*t.Period >= jd {
		i--
	}
	return i
}
