// Package config loads shipwright settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DotEnvFile is read from the working directory when present.
const DotEnvFile = ".env"

// Settings holds the tunable defaults of a run.
type Settings struct {
	// User is the image namespace for configurations without a user field.
	User string `env:"SHIPWRIGHT_USER" envDefault:"tslno"`

	// Delimiter joins directory names into a tag.
	Delimiter string `env:"SHIPWRIGHT_DELIMITER" envDefault:"-"`

	// Sentinel is the file marking the top of the image tree.
	Sentinel string `env:"SHIPWRIGHT_SENTINEL" envDefault:".root"`

	// LogLevel is debug, info, warn or error.
	LogLevel string `env:"SHIPWRIGHT_LOG_LEVEL" envDefault:"info"`

	// NoColor disables colored output.
	NoColor bool `env:"SHIPWRIGHT_NO_COLOR" envDefault:"false"`

	// StateDir holds locks. Relative paths are taken from the working directory.
	StateDir string `env:"SHIPWRIGHT_STATE_DIR" envDefault:".shipwright"`

	// KeepGoing skips failing configurations instead of stopping.
	KeepGoing bool `env:"SHIPWRIGHT_KEEP_GOING" envDefault:"false"`
}

// Load reads Settings from the process environment, with .env in dir filling
// in variables the environment does not set.
func Load(dir string) (*Settings, error) {
	environ := environMap(os.Environ())

	dotenv := filepath.Join(dir, DotEnvFile)
	if _, err := os.Stat(dotenv); err == nil {
		fileVars, err := godotenv.Read(dotenv)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", dotenv, err)
		}
		for k, v := range fileVars {
			if _, set := environ[k]; !set {
				environ[k] = v
			}
		}
	}

	return Parse(environ)
}

// Parse reads Settings from the given variables only.
func Parse(environ map[string]string) (*Settings, error) {
	var s Settings
	if err := env.ParseWithOptions(&s, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return &s, nil
}

// Validate rejects settings that cannot produce valid tags.
func (s *Settings) Validate() error {
	if s.Delimiter == "" {
		return errors.New("SHIPWRIGHT_DELIMITER must not be empty")
	}
	if s.Sentinel == "" {
		return errors.New("SHIPWRIGHT_SENTINEL must not be empty")
	}
	if strings.ContainsRune(s.Sentinel, filepath.Separator) || strings.Contains(s.Sentinel, "/") {
		return fmt.Errorf("SHIPWRIGHT_SENTINEL %q must be a file name, not a path", s.Sentinel)
	}
	return nil
}

// LocksDir returns the directory holding run locks.
func (s *Settings) LocksDir() string {
	return filepath.Join(s.StateDir, "locks")
}

func environMap(environ []string) map[string]string {
	out := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		out[k] = v
	}
	return out
}
