// internal/consultlog/entry.go
//
// A consultation log entry is the immutable record of one confirmed
// guidance resolution. The resolved rule and the routing snapshot are
// stored verbatim so later audits are immune to rule-table edits.

package consultlog

import (
	"time"

	"github.com/google/uuid"

	"github.com/fieldops/wayfinder/internal/catalog"
	"github.com/fieldops/wayfinder/internal/routing"
	"github.com/fieldops/wayfinder/internal/rules"
)

// Entry is append-only: once written it is never updated or deleted.
type Entry struct {
	ID              string           `json:"id"`
	Timestamp       time.Time        `json:"timestamp"`
	UserRef         string           `json:"user_ref"`
	RoleKey         catalog.RoleKey  `json:"role_key"`
	StepID          catalog.StepID   `json:"step_id"`
	IssueKey        catalog.IssueKey `json:"issue_key"`
	RuleSnapshot    rules.Rule       `json:"rule_snapshot"`
	RoutingSnapshot routing.Routing  `json:"routing_snapshot"`
}

// NewEntry stamps a fresh entry with a unique id. Two commits with
// identical content still produce two distinct entries.
func NewEntry(at time.Time, userRef string, role catalog.RoleKey, stepID catalog.StepID, issueKey catalog.IssueKey, rule rules.Rule, snapshot routing.Routing) Entry {
	return Entry{
		ID:              uuid.NewString(),
		Timestamp:       at,
		UserRef:         userRef,
		RoleKey:         role,
		StepID:          stepID,
		IssueKey:        issueKey,
		RuleSnapshot:    rule.Clone(),
		RoutingSnapshot: snapshot,
	}
}
