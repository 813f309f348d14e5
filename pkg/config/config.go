// Package config decodes Wayfare's YAML configuration over a
// pre-populated defaults struct, expanding ${ENV} references in the file
// before decoding. Callers seed the target with their defaults (see
// internal.NewDefaultConfig) so the file only has to state overrides.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Validator is implemented by configuration structs that can check
// themselves after decoding.
type Validator interface {
	Validate() error
}

// Load reads filename, expands environment variable references, and
// decodes the YAML over target. A missing file is an error; when the
// config file is optional use LoadOptional. If target implements
// Validator it is validated after decoding.
func Load[T any](filename string, target *T) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), target); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}

	return validate(target)
}

// LoadOptional behaves like Load but treats a missing file as "run on the
// seeded defaults": target is left untouched and only validated. Any
// other read or parse failure is still an error.
func LoadOptional[T any](filename string, target *T) error {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return validate(target)
	}
	return Load(filename, target)
}

func validate[T any](target *T) error {
	if v, ok := any(target).(Validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
	}
	return nil
}
