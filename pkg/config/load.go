package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadError distinguishes a missing manifest from a broken one so the
// caller can choose the fallback branch explicitly instead of catching
// everything.
type LoadError struct {
	Path     string
	NotFound bool
	Err      error
}

func (e *LoadError) Error() string {
	if e.NotFound {
		return fmt.Sprintf("config: manifest %s not found", e.Path)
	}
	return fmt.Sprintf("config: manifest %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Load reads and validates a manifest. Unknown keys are rejected; typos
// in a session manifest should fail loudly, not silently default.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{
			Path:     path,
			NotFound: errors.Is(err, fs.ErrNotExist),
			Err:      err,
		}
	}
	return Parse(data, path)
}

// Parse decodes manifest bytes; path is only used in error messages.
func Parse(data []byte, path string) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if m.Preset != "" {
		if err := ApplyPreset(&m, m.Preset); err != nil {
			return nil, &LoadError{Path: path, Err: err}
		}
	}
	if err := m.Validate(); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return &m, nil
}
