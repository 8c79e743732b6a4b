// Package window turns a pair of observing-night dates into a Julian Date search window.
package window

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/star/quadplan/internal/apperr"
	"github.com/star/quadplan/internal/transform"
)

// DateLayout is the accepted format for night dates.
const DateLayout = "2006-01-02"

const (
	// startOffset moves night 1 from 00:00 to noon UTC of the same date.
	startOffset = 12 * time.Hour
	// endOffset moves night 2 to noon UTC of the following date, so the whole
	// night that begins on the evening of night 2 is covered.
	endOffset = 36 * time.Hour
)

// Window is the closed search interval [Start, End] in Julian Date (UTC).
type Window struct {
	Start float64 `json:"start_jd"`
	End   float64 `json:"end_jd"`
}

// Resolve builds the window covering the nights that begin on the evenings of
// night1 and night2. UTC Julian Dates do not depend on the observer's location,
// so none is needed here.
func Resolve(night1, night2 string) (Window, error) {
	d1, err := parseNight(night1)
	if err != nil {
		return Window{}, err
	}
	d2, err := parseNight(night2)
	if err != nil {
		return Window{}, err
	}
	if d2.Before(d1) {
		return Window{}, fmt.Errorf("%w: night 2 (%s) is before night 1 (%s)", apperr.ErrInvalidDate, night2, night1)
	}

	return Window{
		Start: transform.JulianDate(d1.Add(startOffset)),
		End:   transform.JulianDate(d2.Add(endOffset)),
	}, nil
}

func parseNight(s string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a %s date", apperr.ErrInvalidDate, s, "YYYY-MM-DD")
	}
	return d, nil
}

// Contains reports whether jd lies in the window, bounds included.
func (w Window) Contains(jd float64) bool {
	return jd >= w.Start && jd <= w.End
}

// Nights returns the number of observing nights the window spans.
func (w Window) Nights() int {
	return int(math.Round(w.End - w.Start))
}

// StartTime returns the window start as a UTC time.
func (w Window) StartTime() time.Time { return transform.TimeFromJulianDate(w.Start) }

// EndTime returns the window end as a UTC time.
func (w Window) EndTime() time.Time { return transform.TimeFromJulianDate(w.End) }
