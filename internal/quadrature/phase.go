package quadrature

import "fmt"

// Phase identifies which of the two quadratures in a cycle an instant is.
type Phase int

const (
	// Q1 is the first quadrature, a quarter period after the reference phase.
	Q1 Phase = iota + 1
	// Q2 is the second quadrature, a quarter period before the reference phase.
	Q2
)

// Offset returns the phase offset from the cycle's reference instant, in periods.
func (p Phase) Offset() float64 {
	switch p {
	case Q1:
		return 0.25
	case Q2:
		return -0.25
	default:
		return 0
	}
}

func (p Phase) String() string {
	switch p {
	case Q1:
		return "q1"
	case Q2:
		return "q2"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) {
	if p != Q1 && p != Q2 {
		return nil, fmt.Errorf("unknown phase %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Phase) UnmarshalText(b []byte) error {
	switch string(b) {
	case "q1":
		*p = Q1
	case "q2":
		*p = Q2
	default:
		return fmt.Errorf("unknown phase %q", string(b))
	}
	return nil
}
