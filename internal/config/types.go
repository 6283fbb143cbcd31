package config

import "strings"

// Theme values accepted by the configuration.
const (
	ThemeDay    = "day"
	ThemeNight  = "night"
	ThemeSystem = "system"
)

// Config is the bookconnect settings document.
type Config struct {
	// PageSize overrides the catalog's own page size when positive.
	PageSize int          `yaml:"page_size,omitempty" env:"PAGE_SIZE" validate:"omitempty,page_size"`
	Theme    string       `yaml:"theme,omitempty" env:"THEME" validate:"omitempty,oneof=day night system"`
	Source   SourceConfig `yaml:"source,omitempty" envPrefix:"SOURCE_"`
	Log      LogConfig    `yaml:"log,omitempty" envPrefix:"LOG_"`
}

// SourceConfig locates the catalog document. Git takes precedence over Path;
// when both are empty the embedded sample catalog is used.
type SourceConfig struct {
	Path string    `yaml:"path,omitempty" env:"PATH"`
	Git  GitConfig `yaml:"git,omitempty" envPrefix:"GIT_"`
}

// GitConfig points at a catalog document stored in a git repository.
type GitConfig struct {
	URL  string `yaml:"url,omitempty" env:"URL" validate:"omitempty,git_url"`
	Ref  string `yaml:"ref,omitempty" env:"REF"`
	File string `yaml:"file,omitempty" env:"FILE" validate:"omitempty,excludes=.."`
}

// LogConfig controls diagnostic output.
type LogConfig struct {
	Level string `yaml:"level,omitempty" env:"LEVEL" validate:"omitempty,oneof=debug info warn error"`
	File  string `yaml:"file,omitempty" env:"FILE"`
	JSON  bool   `yaml:"json,omitempty" env:"JSON"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Theme: ThemeSystem,
		Source: SourceConfig{
			Git: GitConfig{File: "catalog.yaml"},
		},
		Log: LogConfig{Level: "warn"},
	}
}

// UsesGit reports whether the catalog is fetched from a git repository.
func (s SourceConfig) UsesGit() bool {
	return strings.TrimSpace(s.Git.URL) != ""
}

// Location describes where the catalog comes from, for logs and errors.
func (s SourceConfig) Location() string {
	switch {
	case s.UsesGit():
		loc := s.Git.URL
		if s.Git.Ref != "" {
			loc += "@" + s.Git.Ref
		}
		return loc + ":" + s.Git.File
	case strings.TrimSpace(s.Path) != "":
		return s.Path
	default:
		return "embedded sample catalog"
	}
}
