// internal/config/config.go
//
// This package handles configuration and the .wayfinder directory
// structure. Every deployment gets a .wayfinder/ folder created in its
// working directory.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fieldops/wayfinder/internal/catalog"
	"github.com/fieldops/wayfinder/internal/routing"
)

const (
	// WayfinderDir is the name of the directory we create per deployment.
	WayfinderDir = ".wayfinder"

	defaultLogBackend = "file"
)

const defaultProjectConfigYAML = `# wayfinder configuration
version: 1

# IANA timezone all contact-routing decisions are evaluated in.
timezone: Asia/Tokyo

# Consultation log backend: file, sqlite, or memory.
log_backend: file

# Pin the operator role for this installation. Leave empty to choose
# the role at session start. Known roles: worker, coordinator, office,
# sales, accounting, owner.
role: ""

# Identifier recorded on every consultation entry (badge ID, initials).
user_ref: ""
`

// ProjectConfig models .wayfinder/config.yaml.
type ProjectConfig struct {
	Version    int    `yaml:"version"`
	Timezone   string `yaml:"timezone"`
	LogBackend string `yaml:"log_backend"`
	Role       string `yaml:"role"`
	UserRef    string `yaml:"user_ref"`
}

// Config holds the runtime configuration for wayfinder.
type Config struct {
	// WorkDir is the directory wayfinder was launched from.
	WorkDir string

	// StateDir is WorkDir/.wayfinder.
	StateDir string

	Project ProjectConfig
}

// InitStateDir creates the .wayfinder directory structure in the given
// working directory. This is called when the TUI starts up.
//
// Structure created:
// .wayfinder/
// ├── logs/           <- Diagnostic logbook
// ├── consultations/  <- Consultation log (file or sqlite backend)
// └── rules/          <- Rule override packs (*.yaml)
func InitStateDir(workDir string) error {
	stateDir := filepath.Join(workDir, WayfinderDir)

	dirs := []string{
		filepath.Join(stateDir, "logs"),
		filepath.Join(stateDir, "consultations"),
		filepath.Join(stateDir, "rules"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return ensureProjectConfig(filepath.Join(stateDir, "config.yaml"))
}

// NewConfig creates a Config populated from .wayfinder/config.yaml,
// falling back to defaults when the file is absent.
func NewConfig(workDir string) (*Config, error) {
	cfg := &Config{
		WorkDir:  workDir,
		StateDir: filepath.Join(workDir, WayfinderDir),
		Project:  defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LogsDir returns the diagnostic logbook directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.StateDir, "logs")
}

// ConsultationsDir returns the consultation log data directory.
func (c *Config) ConsultationsDir() string {
	return filepath.Join(c.StateDir, "consultations")
}

// RulePackDir returns the directory scanned for rule override packs.
func (c *Config) RulePackDir() string {
	return filepath.Join(c.StateDir, "rules")
}

// ProjectConfigPath returns the on-disk location for the config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.StateDir, "config.yaml")
}

// Timezone returns the configured business timezone.
func (c *Config) Timezone() string {
	return c.Project.Timezone
}

// LogBackend returns the configured consultation log backend name.
func (c *Config) LogBackend() string {
	return c.Project.LogBackend
}

// Role returns the pinned role key, empty when none is pinned.
func (c *Config) Role() catalog.RoleKey {
	return catalog.RoleKey(c.Project.Role)
}

// UserRef returns the configured operator identifier.
func (c *Config) UserRef() string {
	return c.Project.UserRef
}

// SetRole pins the operator role and persists the value back to
// .wayfinder/config.yaml.
func (c *Config) SetRole(role catalog.RoleKey) error {
	key := strings.TrimSpace(strings.ToLower(string(role)))
	if key != "" && !catalog.ValidRole(catalog.RoleKey(key)) {
		return fmt.Errorf("config: unknown role %q", role)
	}
	c.Project.Role = key
	return c.saveProjectConfig()
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version:    1,
		Timezone:   routing.DefaultTimezone,
		LogBackend: defaultLogBackend,
	}
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if strings.TrimSpace(pc.Timezone) == "" {
		pc.Timezone = routing.DefaultTimezone
	}
	if strings.TrimSpace(pc.LogBackend) == "" {
		pc.LogBackend = defaultLogBackend
	}
}

func (pc *ProjectConfig) normalize() {
	pc.Timezone = strings.TrimSpace(pc.Timezone)
	pc.LogBackend = strings.ToLower(strings.TrimSpace(pc.LogBackend))
	pc.Role = strings.ToLower(strings.TrimSpace(pc.Role))
	pc.UserRef = strings.TrimSpace(pc.UserRef)
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	switch pc.LogBackend {
	case "file", "sqlite", "memory":
	default:
		return fmt.Errorf("log_backend must be 'file', 'sqlite', or 'memory'")
	}
	if pc.Role != "" && !catalog.ValidRole(catalog.RoleKey(pc.Role)) {
		return fmt.Errorf("unknown role %q", pc.Role)
	}
	return nil
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0644)
}

func (c *Config) saveProjectConfig() error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	c.Project.applyDefaults()
	c.Project.normalize()
	if err := c.Project.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(c.StateDir, 0o755); err != nil {
		return fmt.Errorf("config: ensure state dir: %w", err)
	}
	data, err := yaml.Marshal(c.Project)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := os.WriteFile(c.ProjectConfigPath(), data, 0644); err != nil {
		return fmt.Errorf("config: write config: %w", err)
	}
	return nil
}
