package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ensigniasec/flightleg/internal/driver"
	"github.com/ensigniasec/flightleg/internal/flight"
)

const sampleYAML = `
departure_origin: "2025-06-01T08:00:00+02:00"
departure_waypoint: "2025-06-01T13:30:00+04:00"
arrival_destination: "2025-06-01T22:10:00+08:00"
origin: {name: ZRH, lat: 47.4647, lon: 8.5492}
waypoint: {name: DXB, lat: 25.2532, lon: 55.3657}
destination: {name: SIN, lat: 1.3644, lon: 103.9915}
track: {low: 5, high: 95}
proximity: {low: 0, high: 45}
max_tilt: 3
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "flight.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_File(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, sampleYAML), Overrides{})
	require.NoError(t, err)

	assert.True(t, cfg.Schedule.DepartureWaypoint.Equal(time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)))
	assert.Equal(t, 4*time.Hour+40*time.Minute, cfg.Schedule.SegmentDuration())
	assert.True(t, cfg.Route.Known)
	assert.Equal(t, "DXB", cfg.Route.Waypoint.Name)
	assert.InDelta(t, 25.2532, cfg.Route.Waypoint.Pos.Lat, 1e-9)
	require.NotNil(t, cfg.Track)
	assert.InDelta(t, 95.0, cfg.Track.High, 0)
	require.NotNil(t, cfg.Proximity)
	require.NotNil(t, cfg.MaxTilt)
	assert.InDelta(t, 3.0, *cfg.MaxTilt, 0)

	opts := cfg.DriverOptions(driver.Surfaces{})
	assert.Equal(t, cfg.Schedule, opts.Schedule)
	assert.Equal(t, cfg.Track, opts.Track)
	assert.Equal(t, cfg.MaxTilt, opts.MaxTilt)
}

func TestLoad_MaxTilt(t *testing.T) {
	t.Parallel()

	const times = `
departure_origin: "2025-06-01T08:00:00+02:00"
departure_waypoint: "2025-06-01T13:30:00+04:00"
arrival_destination: "2025-06-01T22:10:00+08:00"
`
	tests := []struct {
		name    string
		extra   string
		want    *float64
		wantErr bool
	}{
		{name: "unset", extra: "", want: nil},
		{name: "explicit zero disables tilt", extra: "max_tilt: 0\n", want: new(float64)},
		{name: "negative", extra: "max_tilt: -1\n", wantErr: true},
		{name: "too steep", extra: "max_tilt: 46\n", wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg, err := Load(writeConfig(t, times+tt.extra), Overrides{})
			if tt.wantErr {
				require.ErrorIs(t, err, flight.ErrConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.MaxTilt)

			d, err := driver.New(cfg.DriverOptions(driver.Surfaces{}))
			require.NoError(t, err)
			if tt.want == nil {
				assert.InDelta(t, 2.0, d.MaxTilt(), 0)
			} else {
				assert.Zero(t, d.MaxTilt())
			}
		})
	}
}

func TestLoad_OverridesOnly(t *testing.T) {
	t.Parallel()

	cfg, err := Load("", Overrides{
		DepartureOrigin:    "2025-06-01T06:00:00Z",
		DepartureWaypoint:  "2025-06-01T09:30:00Z",
		ArrivalDestination: " 2025-06-01T14:10:00Z ",
	})
	require.NoError(t, err)
	assert.False(t, cfg.Route.Known)
	assert.Nil(t, cfg.Track)
}

func TestLoad_OverrideReplacesFileValue(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, sampleYAML), Overrides{ArrivalDestination: "2025-06-02T00:00:00Z"})
	require.NoError(t, err)
	assert.True(t, cfg.Schedule.ArrivalDestination.Equal(time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)))
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	const times = "departure_origin: \"2025-06-01T08:00:00Z\"\n" +
		"departure_waypoint: \"2025-06-01T09:00:00Z\"\n" +
		"arrival_destination: \"2025-06-01T10:00:00Z\"\n"

	tests := []struct {
		name string
		body string
		ov   Overrides
	}{
		{name: "empty config", body: ""},
		{name: "missing arrival", body: "departure_origin: \"2025-06-01T08:00:00Z\"\ndeparture_waypoint: \"2025-06-01T09:00:00Z\"\n"},
		{name: "no offset", body: times, ov: Overrides{DepartureWaypoint: "2025-06-01T09:00:00"}},
		{name: "unknown field", body: sampleYAML + "colour: red\n"},
		{name: "bad latitude", body: times + "origin: {lat: 91, lon: 0}\n"},
		{name: "inverted proximity", body: times + "proximity: {low: 10, high: 5}\n"},
		{name: "malformed yaml", body: "departure_origin: [\n"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Load(writeConfig(t, tt.body), tt.ov)
			require.Error(t, err)
			assert.ErrorIs(t, err, flight.ErrConfig)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), Overrides{})
	require.ErrorIs(t, err, flight.ErrConfig)
}

func TestValidationError_ListsFields(t *testing.T) {
	t.Parallel()

	_, err := Resolve(File{DepartureOrigin: "2025-06-01T08:00:00Z"})
	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 2)
	assert.Contains(t, verr.Error(), "DepartureWaypoint")
	assert.Contains(t, verr.Error(), "ArrivalDestination")
}
