package navigator

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fieldops/wayfinder/internal/catalog"
	"github.com/fieldops/wayfinder/internal/consultlog"
	"github.com/fieldops/wayfinder/internal/permission"
	"github.com/fieldops/wayfinder/internal/routing"
	"github.com/fieldops/wayfinder/internal/rules"
)

// Tuesday morning inside the coordination window.
var testNow = time.Date(2026, time.August, 25, 10, 30, 0, 0, time.UTC)

func newTestNavigator(t *testing.T, store consultlog.Store) *Navigator {
	t.Helper()
	table := rules.MustTable()
	matrix := permission.NewMatrix(table)
	policy := routing.NewPolicyIn(time.UTC)
	nav, err := New(matrix, table, policy, store, WithClock(func() time.Time { return testNow }))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return nav
}

type failingStore struct{}

func (failingStore) Append(consultlog.Entry) error { return errors.New("disk full") }
func (failingStore) Recent(int) ([]consultlog.Entry, error) {
	return nil, errors.New("disk full")
}
func (failingStore) Close() error { return nil }

// selectByKey fails the test if the option is rejected.
func selectByKey(t *testing.T, nav *Navigator, session Session, key string) (Session, View) {
	t.Helper()
	next, view := nav.SelectOption(session, key)
	if view.Invalid {
		t.Fatalf("option %q rejected in phase %s; offered: %v", key, session.Phase, optionKeys(view))
	}
	return next, view
}

func optionKeys(view View) []string {
	keys := make([]string, 0, len(view.Options))
	for _, opt := range view.Options {
		keys = append(keys, opt.Key)
	}
	return keys
}

func hasOption(view View, key string) bool {
	for _, opt := range view.Options {
		if opt.Key == key {
			return true
		}
	}
	return false
}

func TestStartSessionOpenRole(t *testing.T) {
	nav := newTestNavigator(t, consultlog.NewMemoryStore())

	session, view := nav.StartSession("", "")
	if session.Phase != PhaseRole {
		t.Fatalf("phase = %s, want %s", session.Phase, PhaseRole)
	}
	if session.UserRef != "anonymous" {
		t.Fatalf("user ref = %q", session.UserRef)
	}
	if len(view.Options) != len(catalog.Roles()) {
		t.Fatalf("role options = %d, want %d", len(view.Options), len(catalog.Roles()))
	}

	session, _ = selectByKey(t, nav, session, string(catalog.RoleWorker))
	if session.Phase != PhaseIntent {
		t.Fatalf("phase after role = %s, want %s", session.Phase, PhaseIntent)
	}
	if session.Role != catalog.RoleWorker {
		t.Fatalf("role = %s", session.Role)
	}
	if session.RoleFixed {
		t.Fatal("in-session role choice must not pin the role")
	}
}

func TestStartSessionFixedRole(t *testing.T) {
	nav := newTestNavigator(t, consultlog.NewMemoryStore())

	session, view := nav.StartSession(catalog.RoleAccounting, "ref-9")
	if session.Phase != PhaseIntent {
		t.Fatalf("phase = %s, want %s", session.Phase, PhaseIntent)
	}
	if !session.RoleFixed {
		t.Fatal("RoleFixed = false")
	}
	if !hasOption(view, string(IntentTrouble)) {
		t.Fatalf("intent view missing trouble option: %v", optionKeys(view))
	}
}

func TestStartSessionUnknownRoleDegrades(t *testing.T) {
	nav := newTestNavigator(t, consultlog.NewMemoryStore())

	session, _ := nav.StartSession("plumber", "ref")
	if session.Phase != PhaseRole {
		t.Fatalf("phase = %s, want open role phase", session.Phase)
	}
	if session.RoleFixed {
		t.Fatal("unknown role must not pin")
	}
}

// walkToIssue drives a fixed-role session to the issue phase at stepID
// via the change-step path.
func walkToIssue(t *testing.T, nav *Navigator, role catalog.RoleKey, stepID catalog.StepID) (Session, View) {
	t.Helper()
	session, _ := nav.StartSession(role, "tester")
	session, _ = selectByKey(t, nav, session, string(IntentChange))

	windows := nav.stepWindows(role)
	windowIndex := -1
	for i, window := range windows {
		for _, step := range window {
			if step.ID == stepID {
				windowIndex = i
			}
		}
	}
	if windowIndex < 0 {
		t.Fatalf("step %d not offered to %s", stepID, role)
	}
	session, _ = selectByKey(t, nav, session, windowKey(windowIndex))
	session, _ = selectByKey(t, nav, session, stepKey(stepID))
	if session.Phase != PhaseStepBrief {
		t.Fatalf("phase = %s, want %s", session.Phase, PhaseStepBrief)
	}
	return selectByKey(t, nav, session, optionKeyIssues)
}

func TestWorkerSiteAccessAtPreVisitContact(t *testing.T) {
	nav := newTestNavigator(t, consultlog.NewMemoryStore())

	session, view := walkToIssue(t, nav, catalog.RoleWorker, catalog.StepPreVisitContact)
	if !hasOption(view, string(catalog.IssueSiteAccess)) {
		t.Fatalf("site_access not offered: %v", optionKeys(view))
	}

	session, view = selectByKey(t, nav, session, string(catalog.IssueSiteAccess))
	if session.Phase != PhaseResult {
		t.Fatalf("phase = %s, want %s", session.Phase, PhaseResult)
	}
	if view.ResolvedRule == nil {
		t.Fatal("result view has no rule")
	}
	if view.ResolvedRule.Code != "E1" {
		t.Fatalf("rule code = %s, want E1", view.ResolvedRule.Code)
	}
	if view.ResolvedRule.NextStepID != catalog.StepOnSiteConfirmation {
		t.Fatalf("next step = %d, want %d", view.ResolvedRule.NextStepID, catalog.StepOnSiteConfirmation)
	}
	if view.Routing == nil {
		t.Fatal("result view has no routing snapshot")
	}
	if !view.Routing.CoordinationAvailable {
		t.Fatal("coordination should be open on a weekday morning")
	}
}

func TestAccountingNonpaymentAtPaymentConfirmation(t *testing.T) {
	nav := newTestNavigator(t, consultlog.NewMemoryStore())

	session, view := walkToIssue(t, nav, catalog.RoleAccounting, catalog.StepPaymentConfirmation)
	if !hasOption(view, string(catalog.IssueNonPayment)) {
		t.Fatalf("nonpayment not offered: %v", optionKeys(view))
	}

	_, view = selectByKey(t, nav, session, string(catalog.IssueNonPayment))
	if view.ResolvedRule == nil || view.ResolvedRule.Code != "P1" {
		t.Fatalf("rule = %+v, want P1", view.ResolvedRule)
	}
	if view.ResolvedRule.NextStepID != catalog.StepInvoiceDelivery {
		t.Fatalf("next step = %d, want %d", view.ResolvedRule.NextStepID, catalog.StepInvoiceDelivery)
	}
}

func TestSynthesizedRuleReachable(t *testing.T) {
	nav := newTestNavigator(t, consultlog.NewMemoryStore())

	// No one hand-authored weather guidance at schedule creation.
	session, view := walkToIssue(t, nav, catalog.RoleCoordinator, catalog.StepScheduleCreation)
	if !hasOption(view, string(catalog.IssueWeather)) {
		t.Fatalf("weather not offered: %v", optionKeys(view))
	}
	_, view = selectByKey(t, nav, session, string(catalog.IssueWeather))
	if view.ResolvedRule == nil || !view.ResolvedRule.Synthesized {
		t.Fatalf("rule = %+v, want synthesized", view.ResolvedRule)
	}
}

func TestCurrentPositionReachesResultForEveryRole(t *testing.T) {
	nav := newTestNavigator(t, consultlog.NewMemoryStore())

	for _, role := range catalog.Roles() {
		session, _ := nav.StartSession(role.Key, "tester")
		session, _ = selectByKey(t, nav, session, string(IntentCurrent))
		session, view := selectByKey(t, nav, session, optionKeyIssues)
		if len(view.Options) < 2 {
			t.Fatalf("%s: no issues offered at default step %d", role.Key, session.CurrentStepID)
		}
		_, view = selectByKey(t, nav, session, view.Options[0].Key)
		if view.Phase != PhaseResult || view.ResolvedRule == nil {
			t.Fatalf("%s: phase %s, rule %v", role.Key, view.Phase, view.ResolvedRule)
		}
	}
}

func TestInvalidOptionLeavesSessionUnchanged(t *testing.T) {
	nav := newTestNavigator(t, consultlog.NewMemoryStore())

	session, _ := nav.StartSession(catalog.RoleWorker, "tester")
	before := session

	next, view := nav.SelectOption(session, "bogus")
	if !view.Invalid {
		t.Fatal("invalid flag not set")
	}
	if next.Phase != before.Phase || next.Role != before.Role || next.Intent != before.Intent {
		t.Fatalf("session changed: %+v -> %+v", before, next)
	}
	if view.Phase != PhaseIntent {
		t.Fatalf("view phase = %s, want unchanged %s", view.Phase, PhaseIntent)
	}
}

func TestStepBriefShowsProcedure(t *testing.T) {
	nav := newTestNavigator(t, consultlog.NewMemoryStore())

	session, _ := nav.StartSession(catalog.RoleWorker, "tester")
	_, view := selectByKey(t, nav, session, string(IntentCurrent))
	if view.Phase != PhaseStepBrief {
		t.Fatalf("phase = %s", view.Phase)
	}
	if !strings.Contains(view.Prompt, "Expected procedure") {
		t.Fatalf("brief prompt missing procedure: %q", view.Prompt)
	}
	if !hasOption(view, optionKeyIssues) || !hasOption(view, optionKeyBack) {
		t.Fatalf("brief options = %v", optionKeys(view))
	}
}

func TestBackEdges(t *testing.T) {
	nav := newTestNavigator(t, consultlog.NewMemoryStore())

	// step_brief entered from intent goes back to intent.
	session, _ := nav.StartSession(catalog.RoleWorker, "tester")
	session, _ = selectByKey(t, nav, session, string(IntentCurrent))
	session, _ = selectByKey(t, nav, session, optionKeyBack)
	if session.Phase != PhaseIntent {
		t.Fatalf("back from brief(intent) = %s, want %s", session.Phase, PhaseIntent)
	}

	// step_brief entered from step goes back to step; issue goes back to brief.
	session, _ = walkToIssue(t, nav, catalog.RoleWorker, catalog.StepServiceExecution)
	if session.Phase != PhaseIssue {
		t.Fatalf("phase = %s", session.Phase)
	}
	session, _ = selectByKey(t, nav, session, optionKeyBack)
	if session.Phase != PhaseStepBrief {
		t.Fatalf("back from issue = %s, want %s", session.Phase, PhaseStepBrief)
	}
	session, _ = selectByKey(t, nav, session, optionKeyBack)
	if session.Phase != PhaseStep {
		t.Fatalf("back from brief(step) = %s, want %s", session.Phase, PhaseStep)
	}

	// An undocumented back edge is rejected.
	_, view := nav.GoBack(session, PhaseRole)
	if !view.Invalid {
		t.Fatal("back to role from step should be invalid")
	}
}

func TestBackFromIssueClearsSelection(t *testing.T) {
	nav := newTestNavigator(t, consultlog.NewMemoryStore())

	session, _ := walkToIssue(t, nav, catalog.RoleWorker, catalog.StepServiceExecution)
	session, _ = selectByKey(t, nav, session, string(catalog.IssueWeather))
	if session.Resolved == nil {
		t.Fatal("nothing resolved")
	}
	session, _ = nav.GoBack(session, PhaseIssue)
	if session.Resolved != nil {
		t.Fatal("resolved rule survived back-navigation")
	}
	if session.Phase != PhaseIssue {
		t.Fatalf("phase = %s", session.Phase)
	}
}

func TestCommitRecordsEntry(t *testing.T) {
	store := consultlog.NewMemoryStore()
	nav := newTestNavigator(t, store)

	session, _ := walkToIssue(t, nav, catalog.RoleWorker, catalog.StepPreVisitContact)
	session, _ = selectByKey(t, nav, session, string(catalog.IssueSiteAccess))
	session, view := selectByKey(t, nav, session, optionKeyCommit)
	if session.Phase != PhaseEnded {
		t.Fatalf("phase = %s, want %s", session.Phase, PhaseEnded)
	}
	if !session.Committed || !view.Committed {
		t.Fatal("commit not recorded on session/view")
	}

	entries, err := store.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	entry := entries[0]
	if entry.RoleKey != catalog.RoleWorker || entry.StepID != catalog.StepPreVisitContact || entry.IssueKey != catalog.IssueSiteAccess {
		t.Fatalf("entry = %+v", entry)
	}
	if entry.RuleSnapshot.Code != "E1" {
		t.Fatalf("snapshot code = %s", entry.RuleSnapshot.Code)
	}
	if entry.UserRef != "tester" {
		t.Fatalf("user ref = %q", entry.UserRef)
	}
}

func TestCommitFailureStillEndsSession(t *testing.T) {
	nav := newTestNavigator(t, failingStore{})

	session, _ := walkToIssue(t, nav, catalog.RoleWorker, catalog.StepPreVisitContact)
	session, _ = selectByKey(t, nav, session, string(catalog.IssueSiteAccess))
	session, view := selectByKey(t, nav, session, optionKeyCommit)
	if session.Phase != PhaseEnded {
		t.Fatalf("phase = %s, want %s", session.Phase, PhaseEnded)
	}
	if session.Committed {
		t.Fatal("commit reported success against a failing store")
	}
	if !strings.Contains(view.CommitErr, "disk full") {
		t.Fatalf("commit err = %q", view.CommitErr)
	}
	// Ended sessions accept no further input.
	_, view = nav.SelectOption(session, optionKeyCommit)
	if !view.Invalid {
		t.Fatal("ended session accepted a selection")
	}
}

func TestTwoCommitsProduceDistinctEntries(t *testing.T) {
	store := consultlog.NewMemoryStore()
	nav := newTestNavigator(t, store)

	for i := 0; i < 2; i++ {
		session, _ := walkToIssue(t, nav, catalog.RoleAccounting, catalog.StepPaymentConfirmation)
		session, _ = selectByKey(t, nav, session, string(catalog.IssueNonPayment))
		selectByKey(t, nav, session, optionKeyCommit)
	}
	entries, err := store.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].ID == entries[1].ID {
		t.Fatalf("duplicate entry id %s", entries[0].ID)
	}
}

func TestResetKeepsFixedRole(t *testing.T) {
	nav := newTestNavigator(t, consultlog.NewMemoryStore())

	session, _ := walkToIssue(t, nav, catalog.RoleWorker, catalog.StepServiceExecution)
	session, _ = nav.Reset(session)
	if session.Phase != PhaseIntent {
		t.Fatalf("phase = %s, want %s", session.Phase, PhaseIntent)
	}
	if session.Role != catalog.RoleWorker || !session.RoleFixed {
		t.Fatalf("role not retained: %+v", session)
	}
	if session.Issue != "" || session.Resolved != nil {
		t.Fatal("stale selection survived reset")
	}
}

func TestResetFromResultOption(t *testing.T) {
	nav := newTestNavigator(t, consultlog.NewMemoryStore())

	session, _ := nav.StartSession("", "tester")
	session, _ = selectByKey(t, nav, session, string(catalog.RoleOwner))
	session, _ = selectByKey(t, nav, session, string(IntentCurrent))
	session, _ = selectByKey(t, nav, session, optionKeyIssues)
	session, _ = selectByKey(t, nav, session, string(catalog.IssueOK))
	session, _ = selectByKey(t, nav, session, optionKeyReset)
	if session.Phase != PhaseRole {
		t.Fatalf("phase = %s, want open role phase after reset", session.Phase)
	}
}

func TestStepWindowsSized(t *testing.T) {
	nav := newTestNavigator(t, consultlog.NewMemoryStore())

	for _, role := range catalog.Roles() {
		windows := nav.stepWindows(role.Key)
		if len(windows) == 0 {
			t.Fatalf("%s: no step windows", role.Key)
		}
		total := 0
		for i, window := range windows {
			if len(window) == 0 || len(window) > stepWindowSize {
				t.Fatalf("%s window %d has %d steps", role.Key, i, len(window))
			}
			total += len(window)
		}
		if total != len(nav.eligibleSteps(role.Key)) {
			t.Fatalf("%s: windows cover %d steps, eligible %d", role.Key, total, len(nav.eligibleSteps(role.Key)))
		}
	}
}
