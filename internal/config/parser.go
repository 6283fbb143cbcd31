package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	bcerrors "github.com/alexisbeaulieu97/bookconnect/pkg/errors"
)

// EnvPrefix namespaces the environment overrides, e.g. BOOKCONNECT_PAGE_SIZE.
const EnvPrefix = "BOOKCONNECT_"

// DefaultPath returns the conventional settings location under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "bookconnect", "config.yaml"), nil
}

// Load builds the effective settings: defaults, then the YAML file, then
// environment overrides. An empty path falls back to DefaultPath, where a
// missing file is not an error; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		if p, err := DefaultPath(); err == nil {
			path = p
		}
	}

	if path != "" {
		err := mergeFile(&cfg, path)
		if err != nil && (explicit || !errors.Is(err, fs.ErrNotExist)) {
			return nil, err
		}
	}

	if err := ApplyEnv(&cfg, os.Environ()); err != nil {
		return nil, err
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ParseConfig loads a settings file from disk on top of the defaults and validates it.
func ParseConfig(path string) (*Config, error) {
	cfg := Default()
	if err := mergeFile(&cfg, path); err != nil {
		return nil, err
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyEnv overlays BOOKCONNECT_* variables from environ onto cfg.
func ApplyEnv(cfg *Config, environ []string) error {
	err := env.ParseWithOptions(cfg, env.Options{
		Prefix:      EnvPrefix,
		Environment: env.ToMap(environ),
	})
	if err != nil {
		return bcerrors.NewValidationError("env", fmt.Sprintf("invalid environment override: %v", err), err)
	}
	return nil
}

func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return bcerrors.NewParseError(path, 0, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return bcerrors.NewParseError(path, bcerrors.YAMLLine(err), err)
	}

	return nil
}
