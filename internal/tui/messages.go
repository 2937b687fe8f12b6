package tui

import "time"

// Message types for Bubble Tea update loop.

// refreshMsg fires every second to recompute the flight state. At is the
// wall time of the tick; the driver reads its own clock.
type refreshMsg struct{ At time.Time }
