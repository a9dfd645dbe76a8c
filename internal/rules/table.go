// internal/rules/table.go
//
// Table is conceptually a total function (step, issue) -> Rule. Explicit
// overrides win; every other cell is filled by the fallback synthesizer
// and cached on first resolution.

package rules

import (
	"fmt"
	"sync"

	"github.com/fieldops/wayfinder/internal/catalog"
)

// Table resolves rules for every valid (step, issue) pair.
type Table struct {
	overrides map[Key]Rule

	mu    sync.RWMutex
	cache map[Key]Rule
}

// Option customizes table construction.
type Option func(*Table) error

// WithOverridePack layers operator-authored rules over the built-in table.
// Later packs win over earlier ones; all packs win over built-ins.
func WithOverridePack(pack map[Key]Rule) Option {
	return func(t *Table) error {
		for key, rule := range pack {
			if !catalog.ValidStep(key.StepID) {
				return fmt.Errorf("rules: override %s targets invalid step %d", rule.Code, key.StepID)
			}
			if !catalog.ValidIssue(key.IssueKey) {
				return fmt.Errorf("rules: override %s targets unknown issue %q", rule.Code, key.IssueKey)
			}
			fixed := rule.Clone()
			fixed.IssueKey = key.IssueKey
			fixed.Synthesized = false
			if err := fixed.Validate(); err != nil {
				return err
			}
			t.overrides[key] = fixed
		}
		return nil
	}
}

// NewTable builds a rule table from the built-in authored rules plus any
// override packs.
func NewTable(opts ...Option) (*Table, error) {
	t := &Table{
		overrides: builtinOverrides(),
		cache:     map[Key]Rule{},
	}
	for key, rule := range t.overrides {
		if err := rule.Validate(); err != nil {
			return nil, fmt.Errorf("rules: builtin %s: %w", key, err)
		}
	}
	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// MustTable panics on construction failure. The built-in table is static,
// so a failure here is a programming error.
func MustTable(opts ...Option) *Table {
	t, err := NewTable(opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// Resolve returns the rule for (stepID, issueKey). It never returns a nil
// rule for valid inputs; invalid inputs are the only error case.
func (t *Table) Resolve(stepID catalog.StepID, issueKey catalog.IssueKey) (Rule, error) {
	if !catalog.ValidStep(stepID) {
		return Rule{}, fmt.Errorf("rules: invalid step %d", stepID)
	}
	if !catalog.ValidIssue(issueKey) {
		return Rule{}, fmt.Errorf("rules: unknown issue %q", issueKey)
	}
	key := Key{StepID: stepID, IssueKey: issueKey}
	if rule, ok := t.overrides[key]; ok {
		return rule.Clone(), nil
	}
	t.mu.RLock()
	cached, ok := t.cache[key]
	t.mu.RUnlock()
	if ok {
		return cached.Clone(), nil
	}
	rule, err := synthesize(stepID, issueKey)
	if err != nil {
		return Rule{}, err
	}
	t.mu.Lock()
	t.cache[key] = rule
	t.mu.Unlock()
	return rule.Clone(), nil
}

// HasExplicit reports whether (stepID, issueKey) is covered by an authored
// rule rather than synthesis.
func (t *Table) HasExplicit(stepID catalog.StepID, issueKey catalog.IssueKey) bool {
	_, ok := t.overrides[Key{StepID: stepID, IssueKey: issueKey}]
	return ok
}

// ExplicitKeys lists every authored cell, for audits and tests.
func (t *Table) ExplicitKeys() []Key {
	keys := make([]Key, 0, len(t.overrides))
	for key := range t.overrides {
		keys = append(keys, key)
	}
	return keys
}
