// internal/rules/yaml.go
//
// Operator-authored override packs. Dropping a YAML file in the rules
// directory lets the business hand-tune cells without a rebuild.

package rules

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fieldops/wayfinder/internal/catalog"
)

// PackEntry is one authored rule inside a pack file.
type PackEntry struct {
	StepID catalog.StepID `yaml:"step"`
	Rule   Rule           `yaml:",inline"`
}

// Pack models a single override file.
type Pack struct {
	Name  string      `yaml:"name"`
	Rules []PackEntry `yaml:"rules"`
}

// ParsePackYAML decodes and validates a single override pack payload.
func ParsePackYAML(data []byte) (Pack, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Pack{}, fmt.Errorf("rules: override pack is empty")
	}
	var pack Pack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return Pack{}, fmt.Errorf("rules: decode override pack: %w", err)
	}
	if len(pack.Rules) == 0 {
		return Pack{}, fmt.Errorf("rules: override pack %q declares no rules", pack.Name)
	}
	for i, entry := range pack.Rules {
		if !catalog.ValidStep(entry.StepID) {
			return Pack{}, fmt.Errorf("rules: pack %q rules[%d]: invalid step %d", pack.Name, i, entry.StepID)
		}
		if !catalog.ValidIssue(entry.Rule.IssueKey) {
			return Pack{}, fmt.Errorf("rules: pack %q rules[%d]: unknown issue %q", pack.Name, i, entry.Rule.IssueKey)
		}
		if err := entry.Rule.Validate(); err != nil {
			return Pack{}, fmt.Errorf("rules: pack %q rules[%d]: %w", pack.Name, i, err)
		}
	}
	return pack, nil
}

// Keyed converts the pack into table option form.
func (p Pack) Keyed() map[Key]Rule {
	out := make(map[Key]Rule, len(p.Rules))
	for _, entry := range p.Rules {
		out[Key{StepID: entry.StepID, IssueKey: entry.Rule.IssueKey}] = entry.Rule
	}
	return out
}

// LoadPackFile reads one override pack from disk.
func LoadPackFile(path string) (Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Pack{}, fmt.Errorf("rules: read %s: %w", path, err)
	}
	pack, err := ParsePackYAML(data)
	if err != nil {
		return Pack{}, fmt.Errorf("rules: %s: %w", path, err)
	}
	return pack, nil
}

// LoadPackDir scans a directory for *.yaml override packs, sorted by path
// so later files win deterministically. A missing directory means no packs.
func LoadPackDir(dir string) ([]Pack, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(trimmed)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("rules: read %s: %w", trimmed, err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if isYAMLFile(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	var packs []Pack
	for _, name := range names {
		pack, err := LoadPackFile(filepath.Join(trimmed, name))
		if err != nil {
			return nil, err
		}
		packs = append(packs, pack)
	}
	return packs, nil
}

// TableFromDir builds the rule table with every pack in dir layered over
// the built-ins.
func TableFromDir(dir string) (*Table, error) {
	packs, err := LoadPackDir(dir)
	if err != nil {
		return nil, err
	}
	opts := make([]Option, 0, len(packs))
	for _, pack := range packs {
		opts = append(opts, WithOverridePack(pack.Keyed()))
	}
	return NewTable(opts...)
}

func isYAMLFile(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	return strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml")
}
