// internal/routing/policy.go
//
// Time-of-day contact routing. Who owns customer communication and
// whether the coordination desk (OP) can be reached right now. Pure
// function of wall-clock time; all gating happens in the business
// operating timezone, never the device-local clock.

package routing

import (
	"fmt"
	"time"
)

// DefaultTimezone is the business operating timezone used when config
// does not name one.
const DefaultTimezone = "Asia/Tokyo"

const coordinationOpensAt = 9 // 09:00 local

// Routing is the snapshot handed to the navigator and persisted with
// every consultation log entry.
type Routing struct {
	DecisionOwner           string `json:"decision_owner"`
	PrimaryCustomerContact  string `json:"primary_customer_contact"`
	CoordinationOwner       string `json:"coordination_owner"`
	CoordinationAvailable   bool   `json:"coordination_available"`
	CoordinationWindowLabel string `json:"coordination_window_label"`
	EvaluatedAt             string `json:"evaluated_at"`
}

// Policy evaluates routing for a given instant.
type Policy struct {
	loc *time.Location
}

// NewPolicy creates a policy pinned to the named timezone. An empty name
// selects DefaultTimezone.
func NewPolicy(timezone string) (*Policy, error) {
	name := timezone
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("routing: load timezone %q: %w", name, err)
	}
	return &Policy{loc: loc}, nil
}

// NewPolicyIn pins the policy to an explicit location, primarily for tests.
func NewPolicyIn(loc *time.Location) *Policy {
	if loc == nil {
		loc = time.UTC
	}
	return &Policy{loc: loc}
}

// Location returns the business operating timezone.
func (p *Policy) Location() *time.Location {
	return p.loc
}

// CurrentRouting evaluates contact ownership at the given instant.
// Decision authority always rests on site; only coordination availability
// varies with the clock.
func (p *Policy) CurrentRouting(now time.Time) Routing {
	local := now.In(p.loc)
	available := isBusinessDay(local.Weekday()) && local.Hour() >= coordinationOpensAt
	label := fmt.Sprintf("weekdays from %02d:00", coordinationOpensAt)
	if !available {
		label = fmt.Sprintf("next business day %02d:00+", coordinationOpensAt)
	}
	return Routing{
		DecisionOwner:           "On-site lead",
		PrimaryCustomerContact:  "Sales (on-site lead makes first contact off-hours)",
		CoordinationOwner:       "Coordinator (OP)",
		CoordinationAvailable:   available,
		CoordinationWindowLabel: label,
		EvaluatedAt:             local.Format(time.RFC3339),
	}
}

func isBusinessDay(day time.Weekday) bool {
	return day != time.Saturday && day != time.Sunday
}
