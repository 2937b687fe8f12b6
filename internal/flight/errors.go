package flight

import (
	"errors"
	"fmt"
)

// ErrConfig marks every configuration problem that keeps the temporal model
// from activating.
var ErrConfig = errors.New("invalid flight configuration")

// Sentinel errors for schedule parsing. Both wrap ErrConfig.
var (
	ErrMissingInstant = fmt.Errorf("%w: missing instant", ErrConfig)
	ErrInvalidInstant = fmt.Errorf("%w: instant must be RFC 3339 with an explicit offset", ErrConfig)
)
