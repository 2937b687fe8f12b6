package driver

import "time"

// Package-level constants to avoid magic numbers and improve readability.
const (
	tickIntervalSeconds = 1

	defaultTrackLow      = 10
	defaultTrackHigh     = 90
	defaultProximityLow  = 0
	defaultProximityHigh = 40
	defaultMaxTiltDeg    = 2

	labelOriginDeparture   = "departs origin in"
	labelWaypointDeparture = "departs stopover in"
	labelArrival           = "arrives in"
	labelArrived           = "arrived"

	DefaultInterval = time.Duration(tickIntervalSeconds) * time.Second
)
