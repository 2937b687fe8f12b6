package storage

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// PreferenceStore is a fallible get/set pair for the persisted theme flag.
type PreferenceStore interface {
	Get() (bool, error)
	Set(dark bool) error
}

// Preferences is the no-throw boundary around a PreferenceStore: failures
// are logged at debug level and never reach the caller.
type Preferences struct {
	store PreferenceStore
	dark  bool
}

// NewPreferences reads the current value once. A nil store or a failed read
// leaves the light theme selected.
func NewPreferences(store PreferenceStore) *Preferences {
	p := &Preferences{store: store}
	if store == nil {
		return p
	}
	p.try("get", func() error {
		v, err := store.Get()
		if err != nil {
			return err
		}
		p.dark = v
		return nil
	})
	return p
}

// OpenPreferences opens the file-backed store at path, degrading to an
// in-memory preference when the file cannot be opened.
func OpenPreferences(path string) *Preferences {
	st, err := NewStorage(path)
	if err != nil {
		logrus.Debugf("preferences unavailable: %v", err)
		return NewPreferences(nil)
	}
	return NewPreferences(st)
}

// InstallID returns the store's install identifier, or "" when the store
// does not carry one.
func (p *Preferences) InstallID() string {
	if s, ok := p.store.(interface{ InstallID() string }); ok {
		return s.InstallID()
	}
	return ""
}

// Dark reports the current theme preference.
func (p *Preferences) Dark() bool { return p.dark }

// Toggle flips the preference and persists it best-effort. The in-memory
// value flips even when the write fails.
func (p *Preferences) Toggle() bool {
	p.dark = !p.dark
	if p.store != nil {
		dark := p.dark
		p.try("set", func() error { return p.store.Set(dark) })
	}
	return p.dark
}

func (p *Preferences) try(op string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			logrus.Debugf("preference %s panicked: %v", op, r)
		}
	}()
	if err := fn(); err != nil {
		logrus.Debug(fmt.Errorf("preference %s: %w", op, err))
	}
}
