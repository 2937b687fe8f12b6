package tui

import "time"

// Package-level constants to avoid magic numbers and improve readability.
const (
	refreshTickSeconds = 1

	defaultWidth = 72
	maxWidth     = 100
	minTrack     = 20
	// sidePadding accounts for the border and padding around the main panel.
	sidePadding = 4

	percentScale = 100

	// tiltGlyphThreshold is the fraction of the max tilt beyond which the marker leans.
	tiltGlyphThreshold = 1.0 / 3

	refreshInterval = time.Duration(refreshTickSeconds) * time.Second
)

// shadeRamp orders shadow glyphs by increasing intensity.
const shadeRamp = " ░▒▓█"
