package validate

// This package adds struct and field validation as a thin wrapper around the go-playground/validator package.
//
// e.g. internal/config/config.go
//   type File struct {
//       DepartureWaypoint  string `yaml:"departure_waypoint" validate:"required,instant"`
//       ...
//   }
//
// The custom `instant` tag accepts only RFC 3339 timestamps carrying an explicit zone offset.

import (
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// InstantLayout is the only accepted wire format for configured instants.
const InstantLayout = time.RFC3339

// validatorInstance is a shared validator for the application.
// It is initialized once and reused to avoid repeated allocations.
//
//nolint:gochecknoglobals // Shared validator singleton.
var (
	validatorOnce sync.Once
	validatorInst *validator.Validate
)

// get returns a process-wide singleton of the validator.
func get() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInst = validator.New(validator.WithRequiredStructEnabled())
		// Registration only fails on an empty tag or nil func.
		_ = validatorInst.RegisterValidation("instant", validateInstant)
	})
	return validatorInst
}

// Struct validates a struct using the shared validator instance.
func Struct(v any) error {
	return get().Struct(v)
}

// Var validates a single variable against the provided tag constraints.
func Var(field any, tag string) error {
	return get().Var(field, tag)
}

// IsInstant reports whether s is an RFC 3339 timestamp with an explicit offset.
func IsInstant(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	_, err := time.Parse(InstantLayout, s)
	return err == nil
}

func validateInstant(fl validator.FieldLevel) bool {
	return IsInstant(fl.Field().String())
}
