package satsnav

import "github.com/pkg/errors"

// ConsumptionPolicy defines which lots are consumed first when a wallet gives
// away some of an asset.
type ConsumptionPolicy int

const (
	// LIFO (Last-In, First-Out) consumes the most recently added lots first.
	LIFO ConsumptionPolicy = iota
	// FIFO (First-In, First-Out) consumes the oldest lots first.
	FIFO
)

func (p ConsumptionPolicy) String() string {
	switch p {
	case LIFO:
		return "lifo"
	case FIFO:
		return "fifo"
	default:
		return "unknown"
	}
}

// ParseConsumptionPolicy parses a string into a ConsumptionPolicy.
func ParseConsumptionPolicy(s string) (ConsumptionPolicy, error) {
	switch s {
	case "lifo", "LIFO":
		return LIFO, nil
	case "fifo", "FIFO":
		return FIFO, nil
	default:
		return 0, errors.Errorf("unknown consumption policy: %q", s)
	}
}
