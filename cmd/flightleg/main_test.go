package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:gochecknoglobals // test binary path is set in TestMain
var testBinaryPath string

// TestMain builds the CLI binary once for the entire package and reuses it.
func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "flightleg-test-")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create temp dir: %v\n", err)
		os.Exit(1) //nolint:gocritic // Mkdir failed, nothing to cleanup
	}
	defer os.RemoveAll(dir)

	bin := filepath.Join(dir, "flightleg-test")
	cmd := exec.Command("go", "build", "-o", bin, ".")
	if out, err := cmd.CombinedOutput(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to build test binary: %v\nOutput: %s\n", err, string(out))
		os.Exit(1) //nolint:gocritic // Binary failed, nothing to cleanup
	}
	testBinaryPath = bin

	code := m.Run()
	os.Exit(code)
}

func buildTestBinary(t *testing.T) string {
	t.Helper()
	if testBinaryPath == "" {
		t.Fatalf("test binary not built")
	}
	return testBinaryPath
}

// newCmd wraps exec.Command so that every run gets its own preferences file.
func newCmd(t *testing.T, args ...string) *exec.Cmd {
	t.Helper()
	prefs := filepath.Join(t.TempDir(), "preferences.json")
	cmd := exec.Command(buildTestBinary(t), append([]string{"--preferences", prefs}, args...)...)
	cmd.Env = append(os.Environ(), "HOME="+t.TempDir())
	return cmd
}

// pastLeg is a journey that has already arrived.
func pastLeg() []string {
	return []string{
		"--departure-origin", "2020-01-01T08:00:00+01:00",
		"--departure-waypoint", "2020-01-01T15:00:00+04:00",
		"--arrival-destination", "2020-01-02T06:00:00+08:00",
	}
}

func run(cmd *exec.Cmd) (string, string, error) {
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func TestCLI_HelpOutput(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		contains []string
	}{
		{
			name:     "root help",
			args:     []string{"--help"},
			contains: []string{"flightleg", "watch", "status", "theme", "--departure-waypoint", "--log-file"},
		},
		{
			name:     "status help",
			args:     []string{"status", "--help"},
			contains: []string{"--json"},
		},
		{
			name:     "watch help",
			args:     []string{"watch", "--help"},
			contains: []string{"--plain", "--until-arrival"},
		},
		{
			name:     "version",
			args:     []string{"--version"},
			contains: []string{"dev", "commit: none"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := run(newCmd(t, tt.args...))
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, stdout, want)
			}
		})
	}
}

func TestCLI_StatusJSON(t *testing.T) {
	stdout, stderr, err := run(newCmd(t, append([]string{"status", "--json"}, pastLeg()...)...))
	require.NoError(t, err, stderr)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, "ARRIVED", got["status"])
	assert.InDelta(t, 100.0, got["progress"], 0)
}

func TestCLI_StatusText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flight.yaml")
	body := `
departure_origin: "2020-01-01T08:00:00+01:00"
departure_waypoint: "2020-01-01T15:00:00+04:00"
arrival_destination: "2020-01-02T06:00:00+08:00"
origin: {name: ZRH, lat: 47.4647, lon: 8.5492}
waypoint: {name: DXB, lat: 25.2532, lon: 55.3657}
destination: {name: SIN, lat: 1.3644, lon: 103.9915}
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	stdout, stderr, err := run(newCmd(t, "status", "--config", path))
	require.NoError(t, err, stderr)
	assert.Contains(t, stdout, "FLIGHTLEG STATUS")
	assert.Contains(t, stdout, "ZRH → DXB → SIN")
	assert.Contains(t, stdout, "Countdown: arrived")
}

func TestCLI_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "missing offset",
			args: []string{
				"status",
				"--departure-origin", "2020-01-01T08:00:00",
				"--departure-waypoint", "2020-01-01T15:00:00+04:00",
				"--arrival-destination", "2020-01-02T06:00:00+08:00",
			},
			want: "invalid",
		},
		{
			name: "nothing configured",
			args: []string{"status"},
			want: "invalid configuration",
		},
		{
			name: "until-arrival without plain",
			args: append([]string{"watch", "--until-arrival"}, pastLeg()...),
			want: "--until-arrival requires --plain",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, err := run(newCmd(t, tt.args...))
			require.Error(t, err)
			assert.Contains(t, stderr, tt.want)
		})
	}
}

func TestCLI_WatchPlainUntilArrival(t *testing.T) {
	stdout, stderr, err := run(newCmd(t, append([]string{"watch", "--plain", "--until-arrival"}, pastLeg()...)...))
	require.NoError(t, err, stderr)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "ARRIVED")
	assert.Contains(t, lines[0], "100.0%")
}

func TestCLI_ThemeToggle(t *testing.T) {
	prefs := filepath.Join(t.TempDir(), "nested", "preferences.json")
	theme := func(args ...string) string {
		cmd := exec.Command(buildTestBinary(t), append([]string{"--preferences", prefs, "theme"}, args...)...)
		stdout, stderr, err := run(cmd)
		require.NoError(t, err, stderr)
		return strings.TrimSpace(stdout)
	}

	assert.Equal(t, "light", theme())
	assert.Equal(t, "dark", theme("toggle"))
	assert.Equal(t, "dark", theme("show"))
	assert.Equal(t, "light", theme("toggle"))

	_, err := os.Stat(prefs)
	require.NoError(t, err)
}

func TestCLI_List(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	}
	write("trips/past.yaml", `
departure_origin: "2020-01-01T08:00:00+01:00"
departure_waypoint: "2020-01-01T15:00:00+04:00"
arrival_destination: "2020-01-02T06:00:00+08:00"
`)
	write("trips/broken.yaml", `
departure_origin: "2020-01-01T08:00:00"
departure_waypoint: "2020-01-01T15:00:00+04:00"
arrival_destination: "2020-01-02T06:00:00+08:00"
`)
	write("docker-compose.yaml", "services: {}\n")

	stdout, stderr, err := run(newCmd(t, "list", dir))
	require.NoError(t, err, stderr)
	assert.Contains(t, stdout, "past.yaml")
	assert.Contains(t, stdout, "ARRIVED")
	assert.Contains(t, stdout, "broken.yaml")
	assert.Contains(t, stdout, "✗")
	assert.NotContains(t, stdout, "docker-compose")

	stdout, _, err = run(newCmd(t, "list", t.TempDir()))
	require.NoError(t, err)
	assert.Contains(t, stdout, "No flight files found.")
}
