// internal/rules/rule.go
//
// Rule is the prescribed response for a (step, issue) pair: who is
// responsible, who talks to the customer, what happens on site, the
// instruction script, and which step the process moves to next.

package rules

import (
	"fmt"

	"github.com/fieldops/wayfinder/internal/catalog"
)

// Rule is immutable once constructed. Resolution hands out copies, so
// callers can hold on to one without worrying about later table edits.
type Rule struct {
	Code                 string          `json:"code" yaml:"code"`
	Title                string          `json:"title" yaml:"title"`
	Owner                string          `json:"owner" yaml:"owner"`
	CustomerContactOwner string          `json:"customer_contact_owner" yaml:"customer_contact_owner"`
	OnSiteAction         string          `json:"on_site_action" yaml:"on_site_action"`
	Actions              []string        `json:"actions" yaml:"actions"`
	NextStepID           catalog.StepID  `json:"next_step_id" yaml:"next_step_id"`
	IssueKey             catalog.IssueKey `json:"issue_key" yaml:"issue_key"`
	Synthesized          bool            `json:"synthesized,omitempty" yaml:"-"`
}

// Key addresses a cell of the rule space.
type Key struct {
	StepID   catalog.StepID
	IssueKey catalog.IssueKey
}

func (k Key) String() string {
	return fmt.Sprintf("%d/%s", k.StepID, k.IssueKey)
}

// Clone returns a deep copy so cached rules stay immutable.
func (r Rule) Clone() Rule {
	out := r
	if len(r.Actions) > 0 {
		out.Actions = make([]string, len(r.Actions))
		copy(out.Actions, r.Actions)
	}
	return out
}

// Validate checks the invariants every rule must hold.
func (r Rule) Validate() error {
	if r.Code == "" {
		return fmt.Errorf("rules: rule code is required")
	}
	if r.Title == "" {
		return fmt.Errorf("rules: rule %s has no title", r.Code)
	}
	if !catalog.ValidStep(r.NextStepID) {
		return fmt.Errorf("rules: rule %s routes to invalid step %d", r.Code, r.NextStepID)
	}
	if len(r.Actions) == 0 {
		return fmt.Errorf("rules: rule %s has no action script", r.Code)
	}
	return nil
}
