package flight

import "fmt"

// Status is the three-valued state of the tracked segment.
type Status int

const (
	Upcoming Status = iota
	InFlight
	Arrived
)

func (s Status) String() string {
	switch s {
	case Upcoming:
		return "UPCOMING"
	case InFlight:
		return "IN FLIGHT"
	case Arrived:
		return "ARRIVED"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// MarshalText renders the status label for JSON reports.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
