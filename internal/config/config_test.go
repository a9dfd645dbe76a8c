package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fieldops/wayfinder/internal/catalog"
	"github.com/fieldops/wayfinder/internal/routing"
)

func TestLoadProjectConfigDefaultsWhenMissing(t *testing.T) {
	workDir := t.TempDir()
	stateDir := filepath.Join(workDir, WayfinderDir)
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		t.Fatal(err)
	}
	c := &Config{WorkDir: workDir, StateDir: stateDir, Project: defaultProjectConfig()}
	if err := c.loadProjectConfig(); err != nil {
		t.Fatalf("loadProjectConfig returned error: %v", err)
	}
	if c.Project.Version != 1 {
		t.Fatalf("expected default version == 1, got %d", c.Project.Version)
	}
	if c.Timezone() != routing.DefaultTimezone {
		t.Fatalf("expected default timezone %q, got %q", routing.DefaultTimezone, c.Timezone())
	}
	if c.LogBackend() != defaultLogBackend {
		t.Fatalf("expected default backend %q, got %q", defaultLogBackend, c.LogBackend())
	}
}

func TestLoadProjectConfigParsesYaml(t *testing.T) {
	workDir := t.TempDir()
	stateDir := filepath.Join(workDir, WayfinderDir)
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		t.Fatal(err)
	}
	configYAML := strings.TrimSpace(`
version: 1
timezone: America/Chicago
log_backend: SQLite
role: Accounting
user_ref: badge-112
`)
	if err := os.WriteFile(filepath.Join(stateDir, "config.yaml"), []byte(configYAML), 0644); err != nil {
		t.Fatal(err)
	}
	c := &Config{WorkDir: workDir, StateDir: stateDir, Project: defaultProjectConfig()}
	if err := c.loadProjectConfig(); err != nil {
		t.Fatalf("loadProjectConfig returned error: %v", err)
	}
	if c.Timezone() != "America/Chicago" {
		t.Fatalf("timezone = %q", c.Timezone())
	}
	if c.LogBackend() != "sqlite" {
		t.Fatalf("backend not normalized: %q", c.LogBackend())
	}
	if c.Role() != catalog.RoleAccounting {
		t.Fatalf("role = %q", c.Role())
	}
	if c.UserRef() != "badge-112" {
		t.Fatalf("user_ref = %q", c.UserRef())
	}
}

func TestLoadProjectConfigValidation(t *testing.T) {
	workDir := t.TempDir()
	stateDir := filepath.Join(workDir, WayfinderDir)
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		t.Fatal(err)
	}
	cases := map[string]string{
		"bad backend": "version: 1\nlog_backend: postgres\n",
		"bad role":    "version: 1\nrole: plumber\n",
	}
	for name, configYAML := range cases {
		if err := os.WriteFile(filepath.Join(stateDir, "config.yaml"), []byte(configYAML), 0644); err != nil {
			t.Fatal(err)
		}
		c := &Config{WorkDir: workDir, StateDir: stateDir, Project: defaultProjectConfig()}
		if err := c.loadProjectConfig(); err == nil {
			t.Fatalf("%s: expected validation error but got none", name)
		}
	}
}

func TestInitStateDirCreatesLayout(t *testing.T) {
	workDir := t.TempDir()
	if err := InitStateDir(workDir); err != nil {
		t.Fatalf("InitStateDir: %v", err)
	}
	c, err := NewConfig(workDir)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	for _, dir := range []string{c.LogsDir(), c.ConsultationsDir(), c.RulePackDir()} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("missing directory %s: %v", dir, err)
		}
	}
	if _, err := os.Stat(c.ProjectConfigPath()); err != nil {
		t.Fatalf("config.yaml not seeded: %v", err)
	}
}

func TestSetRolePersists(t *testing.T) {
	workDir := t.TempDir()
	if err := InitStateDir(workDir); err != nil {
		t.Fatal(err)
	}
	c, err := NewConfig(workDir)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.SetRole(catalog.RoleWorker); err != nil {
		t.Fatalf("SetRole: %v", err)
	}
	reloaded, err := NewConfig(workDir)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Role() != catalog.RoleWorker {
		t.Fatalf("role not persisted: %q", reloaded.Role())
	}
	if err := c.SetRole("plumber"); err == nil {
		t.Fatal("SetRole accepted an unknown role")
	}
}
