package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/flightleg/internal/validate"
)

// DefaultPath is where preferences live unless overridden.
const DefaultPath = "~/.config/flightleg/preferences.json"

// ErrNoPath is returned when a storage is used without a file path.
var ErrNoPath = errors.New("storage path not set")

// Data represents the structure of the preferences file.
type Data struct {
	DarkTheme bool   `json:"dark_theme"`
	InstallID string `json:"install_id,omitempty" validate:"omitempty,uuid4"`
}

// Storage handles the loading and saving of the preferences file.
type Storage struct {
	Path string
	Data Data
}

// NewStorage creates a new Storage instance and loads any existing file.
func NewStorage(path string) (*Storage, error) {
	if path == "" {
		return nil, ErrNoPath
	}
	expandedPath, err := expandTilde(path)
	if err != nil {
		return nil, err
	}

	s := &Storage{Path: expandedPath}

	if err := s.Load(); err != nil {
		// If the file doesn't exist, we can ignore the error.
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	if s.Data.InstallID == "" {
		s.Data.InstallID = uuid.NewString()
	}

	return s, nil
}

func (s *Storage) Load() error {
	logrus.Debug("Loading preferences file from: ", s.Path)
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, &s.Data); err != nil {
		return err
	}

	// Validate loaded data and self-heal when possible.
	if err := validate.Struct(s.Data); err != nil {
		if validate.Var(s.Data.InstallID, "uuid4") != nil {
			logrus.Warn("Invalid install_id found in preferences; regenerating.")
			s.Data.InstallID = uuid.NewString()
			if err := s.Save(); err != nil {
				return err
			}
		}
	}
	return nil
}

// InstallID returns the persisted install identifier.
func (s *Storage) InstallID() string { return s.Data.InstallID }

// Save writes the preferences to the file.
func (s *Storage) Save() error {
	logrus.Debug("Saving preferences file to: ", s.Path)
	// Ensure parent directory exists.
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s.Data, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.Path, data, 0o600)
}

// Get implements PreferenceStore by reloading the file. A missing file reads as false.
func (s *Storage) Get() (bool, error) {
	if err := s.Load(); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return s.Data.DarkTheme, nil
}

// Set implements PreferenceStore.
func (s *Storage) Set(dark bool) error {
	s.Data.DarkTheme = dark
	return s.Save()
}

// expandTilde expands the tilde in a path to the user's home directory.
func expandTilde(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}
