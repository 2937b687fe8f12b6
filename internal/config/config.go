// Package config loads the three schedule instants and the optional route and
// motion settings from a YAML file, with command-line overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/ensigniasec/flightleg/internal/driver"
	"github.com/ensigniasec/flightleg/internal/flight"
	"github.com/ensigniasec/flightleg/internal/motion"
	"github.com/ensigniasec/flightleg/internal/validate"
)

// PlaceSpec is a stop as written in the config file. Coordinates are optional.
type PlaceSpec struct {
	Name string   `yaml:"name"`
	Lat  *float64 `yaml:"lat" validate:"omitempty,gte=-90,lte=90"`
	Lon  *float64 `yaml:"lon" validate:"omitempty,gte=-180,lte=180"`
}

func (p PlaceSpec) known() bool { return p.Lat != nil && p.Lon != nil }

func (p PlaceSpec) place() driver.Place {
	pl := driver.Place{Name: p.Name}
	if p.known() {
		pl.Pos = motion.LatLong{Lat: *p.Lat, Lon: *p.Lon}
	}
	return pl
}

// File mirrors the YAML document.
type File struct {
	DepartureOrigin    string        `yaml:"departure_origin" validate:"required,instant"`
	DepartureWaypoint  string        `yaml:"departure_waypoint" validate:"required,instant"`
	ArrivalDestination string        `yaml:"arrival_destination" validate:"required,instant"`
	Origin             PlaceSpec     `yaml:"origin"`
	Waypoint           PlaceSpec     `yaml:"waypoint"`
	Destination        PlaceSpec     `yaml:"destination"`
	Track              *motion.Range `yaml:"track"`
	Proximity          *motion.Range `yaml:"proximity"`
	MaxTilt            *float64      `yaml:"max_tilt" validate:"omitempty,gte=0,lte=45"`
}

// Overrides are flag values that replace file values when non-empty.
type Overrides struct {
	DepartureOrigin    string
	DepartureWaypoint  string
	ArrivalDestination string
}

// Config is the resolved, validated configuration.
type Config struct {
	Schedule  flight.Schedule
	Route     driver.Route
	Track     *motion.Range
	Proximity *motion.Range
	// MaxTilt is nil when unset; an explicit zero disables tilting.
	MaxTilt *float64
}

// ValidationError lists the fields that failed validation. It matches
// flight.ErrConfig with errors.Is.
type ValidationError struct {
	Fields []string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", strings.Join(e.Fields, ", "))
}

func (e ValidationError) Unwrap() error { return flight.ErrConfig }

// Load reads path (if set), applies overrides, and validates the result.
// Every returned error matches flight.ErrConfig.
func Load(path string, ov Overrides) (*Config, error) {
	var f File
	if path != "" {
		logrus.Debug("Loading flight config from: ", path)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", flight.ErrConfig, err)
		}
		if err := decode(data, &f); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", flight.ErrConfig, path, err)
		}
	}
	f.apply(ov)
	return Resolve(f)
}

func decode(data []byte, f *File) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(f); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (f *File) apply(ov Overrides) {
	if v := strings.TrimSpace(ov.DepartureOrigin); v != "" {
		f.DepartureOrigin = v
	}
	if v := strings.TrimSpace(ov.DepartureWaypoint); v != "" {
		f.DepartureWaypoint = v
	}
	if v := strings.TrimSpace(ov.ArrivalDestination); v != "" {
		f.ArrivalDestination = v
	}
}

// Resolve validates f and turns it into a Config.
func Resolve(f File) (*Config, error) {
	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return nil, ValidationError{Fields: fields}
		}
		return nil, fmt.Errorf("%w: %w", flight.ErrConfig, err)
	}

	sched, err := flight.Parse(f.DepartureOrigin, f.DepartureWaypoint, f.ArrivalDestination)
	if err != nil {
		return nil, err
	}

	return &Config{
		Schedule: sched,
		Route: driver.Route{
			Origin:      f.Origin.place(),
			Waypoint:    f.Waypoint.place(),
			Destination: f.Destination.place(),
			Known:       f.Origin.known() && f.Waypoint.known() && f.Destination.known(),
		},
		Track:     f.Track,
		Proximity: f.Proximity,
		MaxTilt:   f.MaxTilt,
	}, nil
}

// DriverOptions seeds driver options from the configuration.
func (c *Config) DriverOptions(s driver.Surfaces) driver.Options {
	return driver.Options{
		Schedule:  c.Schedule,
		Route:     c.Route,
		Surfaces:  s,
		Track:     c.Track,
		Proximity: c.Proximity,
		MaxTilt:   c.MaxTilt,
	}
}
