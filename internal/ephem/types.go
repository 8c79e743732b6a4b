package ephem

import (
	"fmt"
	"math"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/star/quadplan/internal/apperr"
)

// Target is one periodic object described by a linear ephemeris.
type Target struct {
	ID       string  `json:"id"`
	Epoch    float64 `json:"epoch"`    // reference epoch, Julian Date
	Period   float64 `json:"period"`   // days
	Duration float64 `json:"duration"` // event duration in days; carried through for consumers, unused by the planner
}

// Validate reports whether the target's ephemeris can be stepped.
// Failures wrap apperr.ErrInvalidEphemeris.
func (t Target) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"epoch", t.Epoch},
		{"period", t.Period},
		{"duration", t.Duration},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s: %s is not finite", apperr.ErrInvalidEphemeris, t.ID, f.name)
		}
	}

	err := validation.ValidateStruct(&t,
		validation.Field(&t.ID, validation.Required),
		validation.Field(&t.Period, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&t.Duration, validation.Min(0.0)),
	)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", apperr.ErrInvalidEphemeris, t.ID, err)
	}
	return nil
}
