package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fieldops/wayfinder/internal/catalog"
)

const samplePack = `name: winter-season
rules:
  - step: 18
    code: W9
    title: Snow protocol during execution
    owner: Coordinator (OP)
    customer_contact_owner: Sales
    on_site_action: Clear access paths before any other work
    actions:
      - Check the road closure bulletin.
      - Re-plan the route with the coordinator.
    next_step_id: 11
    issue_key: weather
`

func TestParsePackYAML(t *testing.T) {
	pack, err := ParsePackYAML([]byte(samplePack))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if pack.Name != "winter-season" {
		t.Fatalf("unexpected pack name %q", pack.Name)
	}
	if len(pack.Rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(pack.Rules))
	}
	entry := pack.Rules[0]
	if entry.StepID != 18 || entry.Rule.Code != "W9" || entry.Rule.NextStepID != 11 {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestParsePackYAMLRejectsBadPayloads(t *testing.T) {
	cases := map[string]string{
		"empty":        "",
		"no rules":     "name: hollow\n",
		"bad step":     "rules:\n  - step: 99\n    code: Z1\n    title: t\n    actions: [a]\n    next_step_id: 1\n    issue_key: ok\n",
		"bad issue":    "rules:\n  - step: 1\n    code: Z1\n    title: t\n    actions: [a]\n    next_step_id: 1\n    issue_key: meteor\n",
		"bad routing":  "rules:\n  - step: 1\n    code: Z1\n    title: t\n    actions: [a]\n    next_step_id: 99\n    issue_key: ok\n",
		"no actions":   "rules:\n  - step: 1\n    code: Z1\n    title: t\n    actions: []\n    next_step_id: 1\n    issue_key: ok\n",
		"missing code": "rules:\n  - step: 1\n    title: t\n    actions: [a]\n    next_step_id: 1\n    issue_key: ok\n",
	}
	for name, payload := range cases {
		if _, err := ParsePackYAML([]byte(payload)); err == nil {
			t.Fatalf("%s: expected parse error", name)
		}
	}
}

func TestTableFromDirLayersPacksOverBuiltins(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "winter.yaml"), []byte(samplePack), 0o644); err != nil {
		t.Fatalf("write pack: %v", err)
	}
	table, err := TableFromDir(dir)
	if err != nil {
		t.Fatalf("table from dir: %v", err)
	}
	rule, err := table.Resolve(18, catalog.IssueWeather)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if rule.Code != "W9" {
		t.Fatalf("expected pack rule W9 to shadow builtin, got %s", rule.Code)
	}
	// Untouched cells still resolve from the builtin table.
	e1, err := table.Resolve(catalog.StepPreVisitContact, catalog.IssueSiteAccess)
	if err != nil {
		t.Fatalf("resolve E1: %v", err)
	}
	if e1.Code != "E1" {
		t.Fatalf("builtin E1 lost after pack load, got %s", e1.Code)
	}
}

func TestTableFromDirMissingDirIsEmpty(t *testing.T) {
	table, err := TableFromDir(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("missing dir should not fail: %v", err)
	}
	rule, err := table.Resolve(1, catalog.IssueOK)
	if err != nil || rule.Code == "" {
		t.Fatalf("builtin resolution broken: %+v %v", rule, err)
	}
}
