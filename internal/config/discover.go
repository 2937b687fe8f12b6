package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charlievieth/fastwalk"
	"github.com/sirupsen/logrus"
)

//nolint:gochecknoglobals // immutable lookup table used across the package.
var (
	// wellKnownNames are tried in every project root.
	wellKnownNames = []string{
		"flightleg.yaml",
		"flightleg.yml",
		".flightleg.yaml",
	}

	wellKnownPathsUnix = []string{
		"$XDG_CONFIG_HOME/flightleg/flight.yaml",
		"~/.config/flightleg/flight.yaml",
		"~/.flightleg.yaml",
	}

	wellKnownPathsMacOS = []string{
		"~/Library/Application Support/flightleg/flight.yaml",
	}

	wellKnownPathsWindows = []string{
		"$APPDATA\\flightleg\\flight.yaml",
		"$USERPROFILE\\.flightleg.yaml",
	}

	// skipDirs are directories Discover never descends into.
	skipDirs = []string{
		".git",
		"node_modules",
		"vendor",
		".cache",
	}
)

// WellKnownPaths returns candidate config files in lookup order: project
// roots first, then per-user locations for the current OS. Paths are expanded.
func WellKnownPaths() []string {
	var raw []string
	for _, root := range projectRoots() {
		for _, name := range wellKnownNames {
			raw = append(raw, filepath.Join(root, name))
		}
	}
	switch runtime.GOOS {
	case "darwin":
		raw = append(raw, wellKnownPathsMacOS...)
		raw = append(raw, wellKnownPathsUnix...)
	case "windows":
		raw = append(raw, wellKnownPathsWindows...)
	default:
		raw = append(raw, wellKnownPathsUnix...)
	}

	paths := make([]string, 0, len(raw))
	for _, p := range raw {
		expanded, err := expandPath(p)
		if err != nil {
			logrus.Debugf("Failed to expand path '%s': %v", p, err)
			continue
		}
		paths = append(paths, expanded)
	}
	return paths
}

// FindDefault returns the first well-known config file that exists, or "".
func FindDefault() string {
	for _, p := range WellKnownPaths() {
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			logrus.Debugf("Using flight config %s", p)
			return p
		}
	}
	return ""
}

// projectRoots returns the working directory and the enclosing git
// repository root, if different.
func projectRoots() []string {
	roots := make([]string, 0, 2) //nolint:mnd // cwd and git root
	if wd, err := os.Getwd(); err == nil && wd != "" {
		roots = append(roots, wd)
		if repo := findGitRoot(wd); repo != "" && repo != wd {
			roots = append(roots, repo)
		}
	}
	return roots
}

func findGitRoot(start string) string {
	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir || parent == "" {
			return ""
		}
		dir = parent
	}
}

func expandPath(path string) (string, error) {
	if runtime.GOOS != "windows" && strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[1:])
	}
	missing := false
	path = os.Expand(path, func(key string) string {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			missing = true
		}
		return v
	})
	if missing {
		return "", errUnsetVariable
	}
	return filepath.Clean(path), nil
}

func isYAMLFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func isSkippedDir(name string) bool {
	for _, s := range skipDirs {
		if strings.EqualFold(name, s) {
			return true
		}
	}
	return false
}

var errUnsetVariable = errors.New("path refers to an unset environment variable")

const streamBufferSize = 16

// Discover walks root and streams every YAML file over the returned channel.
// The channel is closed when walking completes or ctx is cancelled.
func Discover(ctx context.Context, root string) <-chan string {
	out := make(chan string, streamBufferSize)
	go func() {
		defer close(out)
		conf := fastwalk.DefaultConfig
		_ = fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil // Skip unreadable entries.
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if d.IsDir() {
				if path != root && isSkippedDir(d.Name()) {
					return fs.SkipDir
				}
				return nil
			}
			if isYAMLFile(path) {
				select {
				case out <- path:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}()
	return out
}

// Entry is one flight file found by Scan. Err is set when the file is a
// flight document whose values are invalid.
type Entry struct {
	Path   string
	Config *Config
	Err    error
}

// Scan loads every flight document below root. YAML files that are not
// flight documents are skipped. Entries arrive in walk order, which is not
// sorted.
func Scan(ctx context.Context, root string) []Entry {
	var entries []Entry
	for path := range Discover(ctx, root) {
		data, err := os.ReadFile(path)
		if err != nil {
			logrus.Debugf("skipping %s: %v", path, err)
			continue
		}
		var f File
		if err := decode(data, &f); err != nil {
			logrus.Debugf("skipping %s: not a flight file: %v", path, err)
			continue
		}
		if f.DepartureOrigin == "" && f.DepartureWaypoint == "" && f.ArrivalDestination == "" {
			logrus.Debugf("skipping %s: no schedule", path)
			continue
		}
		cfg, err := Resolve(f)
		entries = append(entries, Entry{Path: path, Config: cfg, Err: err})
	}
	return entries
}
