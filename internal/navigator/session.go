// internal/navigator/session.go
//
// Session state for one guided consultation. Sessions are plain values:
// every transition returns a new session rather than mutating in place,
// so concurrent sessions can never bleed into each other.

package navigator

import (
	"github.com/fieldops/wayfinder/internal/catalog"
	"github.com/fieldops/wayfinder/internal/routing"
	"github.com/fieldops/wayfinder/internal/rules"
)

// Phase enumerates the stops of the guided dialogue.
type Phase string

const (
	PhaseRole      Phase = "role"
	PhaseIntent    Phase = "intent"
	PhaseStepRange Phase = "step_range"
	PhaseStep      Phase = "step"
	PhaseStepBrief Phase = "step_brief"
	PhaseIssue     Phase = "issue"
	PhaseResult    Phase = "result"
	PhaseEnded     Phase = "ended"
)

// Intent is what the user wants from this consultation.
type Intent string

const (
	IntentCurrent Intent = "current" // confirm the current position
	IntentChange  Intent = "change"  // choose a different step
	IntentTrouble Intent = "trouble" // report a problem
)

// Session is owned by exactly one conversation. Zero value is not usable;
// sessions come from Navigator.StartSession.
type Session struct {
	Phase         Phase            `json:"phase"`
	UserRef       string           `json:"user_ref,omitempty"`
	Role          catalog.RoleKey  `json:"role,omitempty"`
	RoleFixed     bool             `json:"role_fixed"`
	Intent        Intent           `json:"intent,omitempty"`
	WindowStart   int              `json:"window_start"`
	CurrentStepID catalog.StepID   `json:"current_step_id"`
	Issue         catalog.IssueKey `json:"issue,omitempty"`
	// BriefFrom records how step_brief was entered so back-navigation
	// jumps to the right place (intent vs. step).
	BriefFrom Phase       `json:"brief_from,omitempty"`
	Resolved  *rules.Rule `json:"resolved,omitempty"`
	Committed bool        `json:"committed"`
	CommitErr string      `json:"commit_err,omitempty"`
}

// Option is one selectable choice in a view.
type Option struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// View is the serializable snapshot handed to any presentation layer.
type View struct {
	Phase        Phase            `json:"phase"`
	Prompt       string           `json:"prompt"`
	Options      []Option         `json:"options"`
	ResolvedRule *rules.Rule      `json:"resolved_rule,omitempty"`
	Routing      *routing.Routing `json:"routing,omitempty"`
	// Invalid flags input that was not part of the offered option set.
	// The view itself is unchanged in that case.
	Invalid   bool   `json:"invalid,omitempty"`
	Committed bool   `json:"committed,omitempty"`
	CommitErr string `json:"commit_err,omitempty"`
}

// clone returns a copy safe to hand out alongside a view.
func (s Session) clone() Session {
	out := s
	if s.Resolved != nil {
		rule := s.Resolved.Clone()
		out.Resolved = &rule
	}
	return out
}
