// internal/permission/matrix.go
//
// Role-scoped visibility over steps and issues. The matrix is a pure
// lookup layer: unknown roles or steps come back as empty collections so
// callers degrade to "nothing selectable" instead of failing.

package permission

import (
	"github.com/fieldops/wayfinder/internal/catalog"
	"github.com/fieldops/wayfinder/internal/rules"
)

type roleScope struct {
	steps  map[catalog.StepID]struct{}
	issues map[catalog.IssueKey]struct{}
}

// Matrix answers which steps and issues a role may see.
type Matrix struct {
	table  *rules.Table
	scopes map[catalog.RoleKey]roleScope
}

// NewMatrix builds the static role scopes against the given rule table.
// The table is consulted so an issue is only offered at a step when a rule
// actually resolves for the pair.
func NewMatrix(table *rules.Table) *Matrix {
	return &Matrix{
		table:  table,
		scopes: buildScopes(),
	}
}

func buildScopes() map[catalog.RoleKey]roleScope {
	scopes := map[catalog.RoleKey]roleScope{
		catalog.RoleWorker: {
			steps: stepRange(11, 26),
			issues: issueSet(
				catalog.IssueOK, catalog.IssueWeather, catalog.IssueUnderstaffed,
				catalog.IssueSiteAccess, catalog.IssueLateArrival, catalog.IssueUnreachable,
				catalog.IssueEquipment, catalog.IssueAccident, catalog.IssueCustomerNoSho,
				catalog.IssueSystemOutage,
			),
		},
		catalog.RoleCoordinator: {
			steps: stepRange(10, 26),
			issues: issueSet(
				catalog.IssueOK, catalog.IssueWeather, catalog.IssueUnderstaffed,
				catalog.IssueSiteAccess, catalog.IssueLateArrival, catalog.IssueUnreachable,
				catalog.IssueEquipment, catalog.IssueAccident, catalog.IssueComplaint,
				catalog.IssueCustomerNoSho, catalog.IssueSystemOutage,
			),
		},
		catalog.RoleOffice: {
			steps: merge(stepRange(1, 15), stepRange(21, 30)),
			issues: issueSet(
				catalog.IssueOK, catalog.IssueUnderstaffed, catalog.IssueUnreachable,
				catalog.IssueComplaint, catalog.IssueSystemOutage,
			),
		},
		catalog.RoleSales: {
			steps: merge(stepRange(1, 10), stepRange(24, 27), stepRange(33, 34)),
			issues: issueSet(
				catalog.IssueOK, catalog.IssueUnreachable, catalog.IssueComplaint,
				catalog.IssueNonPayment, catalog.IssueCustomerNoSho, catalog.IssueSystemOutage,
			),
		},
		catalog.RoleAccounting: {
			steps: stepRange(27, 34),
			issues: issueSet(
				catalog.IssueOK, catalog.IssueComplaint, catalog.IssueNonPayment,
				catalog.IssueSystemOutage,
			),
		},
		catalog.RoleOwner: {
			steps:  stepRange(1, catalog.StepCount),
			issues: allIssues(),
		},
	}
	return scopes
}

// AllowedSteps lists the steps visible to role, in catalog order.
func (m *Matrix) AllowedSteps(role catalog.RoleKey) []catalog.Step {
	scope, ok := m.scope(role)
	if !ok {
		return nil
	}
	var out []catalog.Step
	for _, step := range catalog.Steps() {
		if _, allowed := scope.steps[step.ID]; allowed {
			out = append(out, step)
		}
	}
	return out
}

// AllowedIssues lists the issues visible to role, in catalog order.
func (m *Matrix) AllowedIssues(role catalog.RoleKey) []catalog.Issue {
	scope, ok := m.scope(role)
	if !ok {
		return nil
	}
	var out []catalog.Issue
	for _, issue := range catalog.Issues() {
		if _, allowed := scope.issues[issue.Key]; allowed {
			out = append(out, issue)
		}
	}
	return out
}

// IsStepAllowed reports whether role may select stepID.
func (m *Matrix) IsStepAllowed(role catalog.RoleKey, stepID catalog.StepID) bool {
	scope, ok := m.scope(role)
	if !ok || !catalog.ValidStep(stepID) {
		return false
	}
	_, allowed := scope.steps[stepID]
	return allowed
}

// IsIssueAllowedForStep reports whether role may raise issueKey at stepID.
// The issue must be role-permitted AND resolvable under the rule table, so
// the navigator never offers a combination it cannot answer.
func (m *Matrix) IsIssueAllowedForStep(role catalog.RoleKey, stepID catalog.StepID, issueKey catalog.IssueKey) bool {
	if !m.IsStepAllowed(role, stepID) {
		return false
	}
	scope, _ := m.scope(role)
	if _, allowed := scope.issues[issueKey]; !allowed {
		return false
	}
	if m.table == nil {
		return false
	}
	_, err := m.table.Resolve(stepID, issueKey)
	return err == nil
}

// IssuesForStep lists the issues offerable to role at stepID, in catalog order.
func (m *Matrix) IssuesForStep(role catalog.RoleKey, stepID catalog.StepID) []catalog.Issue {
	var out []catalog.Issue
	for _, issue := range catalog.Issues() {
		if m.IsIssueAllowedForStep(role, stepID, issue.Key) {
			out = append(out, issue)
		}
	}
	return out
}

func (m *Matrix) scope(role catalog.RoleKey) (roleScope, bool) {
	normalized, ok := catalog.RoleByKey(role)
	if !ok {
		return roleScope{}, false
	}
	scope, ok := m.scopes[normalized.Key]
	return scope, ok
}

func stepRange(from, to catalog.StepID) map[catalog.StepID]struct{} {
	out := make(map[catalog.StepID]struct{}, to-from+1)
	for id := from; id <= to; id++ {
		out[id] = struct{}{}
	}
	return out
}

func merge(sets ...map[catalog.StepID]struct{}) map[catalog.StepID]struct{} {
	out := map[catalog.StepID]struct{}{}
	for _, set := range sets {
		for id := range set {
			out[id] = struct{}{}
		}
	}
	return out
}

func issueSet(keys ...catalog.IssueKey) map[catalog.IssueKey]struct{} {
	out := make(map[catalog.IssueKey]struct{}, len(keys))
	for _, key := range keys {
		out[key] = struct{}{}
	}
	return out
}

func allIssues() map[catalog.IssueKey]struct{} {
	out := map[catalog.IssueKey]struct{}{}
	for _, issue := range catalog.Issues() {
		out[issue.Key] = struct{}{}
	}
	return out
}
