package catalog

import "testing"

func TestStepCatalogIsDenseAndOrdered(t *testing.T) {
	all := Steps()
	if len(all) != StepCount {
		t.Fatalf("expected %d steps, got %d", StepCount, len(all))
	}
	for i, step := range all {
		if step.ID != StepID(i+1) {
			t.Fatalf("step at index %d has id %d", i, step.ID)
		}
		if step.Label == "" {
			t.Fatalf("step %d has empty label", step.ID)
		}
	}
}

func TestNextStepWrapsAround(t *testing.T) {
	if got := NextStep(5); got != 6 {
		t.Fatalf("NextStep(5) = %d", got)
	}
	if got := NextStep(StepCount); got != 1 {
		t.Fatalf("NextStep(%d) = %d, want 1", StepCount, got)
	}
}

func TestStepByIDRejectsOutOfRange(t *testing.T) {
	for _, id := range []StepID{0, -1, StepCount + 1} {
		if _, ok := StepByID(id); ok {
			t.Fatalf("StepByID(%d) unexpectedly resolved", id)
		}
	}
	step, ok := StepByID(StepPreVisitContact)
	if !ok || step.Label != "Pre-visit customer contact" {
		t.Fatalf("unexpected step 16: %+v", step)
	}
}

func TestRoleCatalog(t *testing.T) {
	if len(Roles()) != 6 {
		t.Fatalf("expected 6 roles, got %d", len(Roles()))
	}
	role, ok := RoleByKey("  Owner ")
	if !ok || role.Key != RoleOwner {
		t.Fatalf("case-insensitive role lookup failed: %+v ok=%v", role, ok)
	}
	if ValidRole("janitor") {
		t.Fatalf("unknown role accepted")
	}
}

func TestIssueCatalog(t *testing.T) {
	if len(Issues()) != 12 {
		t.Fatalf("expected 12 issues, got %d", len(Issues()))
	}
	issue, ok := IssueByKey("OK")
	if !ok || issue.Key != IssueOK {
		t.Fatalf("case-insensitive issue lookup failed: %+v ok=%v", issue, ok)
	}
	if ValidIssue("meteor") {
		t.Fatalf("unknown issue accepted")
	}
}
