// internal/navigator/navigator.go
//
// The conversational navigator: a phase-based selection state machine
// over the permission matrix, rule table, and contact routing policy.
// Every engine call is a pure computation except commit, which appends
// one consultation log entry.

package navigator

import (
	"fmt"
	"time"

	"github.com/fieldops/wayfinder/internal/catalog"
	"github.com/fieldops/wayfinder/internal/consultlog"
	"github.com/fieldops/wayfinder/internal/permission"
	"github.com/fieldops/wayfinder/internal/routing"
	"github.com/fieldops/wayfinder/internal/rules"
)

// stepWindowSize is how many steps one step-range window shows.
const stepWindowSize = 4

const anonymousUserRef = "anonymous"

// Navigator drives guidance sessions. The static tables it composes are
// read-only and safe to share across sessions.
type Navigator struct {
	matrix *permission.Matrix
	table  *rules.Table
	policy *routing.Policy
	store  consultlog.Store
	clock  func() time.Time
}

// NavigatorOption customizes the navigator instance.
type NavigatorOption func(*Navigator)

// WithClock injects a deterministic clock (primarily for tests).
func WithClock(clock func() time.Time) NavigatorOption {
	return func(n *Navigator) {
		if clock != nil {
			n.clock = clock
		}
	}
}

// New wires a navigator to its collaborators.
func New(matrix *permission.Matrix, table *rules.Table, policy *routing.Policy, store consultlog.Store, opts ...NavigatorOption) (*Navigator, error) {
	if matrix == nil {
		return nil, fmt.Errorf("navigator: permission matrix is required")
	}
	if table == nil {
		return nil, fmt.Errorf("navigator: rule table is required")
	}
	if policy == nil {
		return nil, fmt.Errorf("navigator: routing policy is required")
	}
	if store == nil {
		return nil, fmt.Errorf("navigator: consultation store is required")
	}
	nav := &Navigator{
		matrix: matrix,
		table:  table,
		policy: policy,
		store:  store,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(nav)
	}
	return nav, nil
}

// StartSession opens a session. An empty role offers the role phase
// (demo use); a catalog role pins the session and starts at intent.
// Unknown role keys degrade to the open role phase.
func (n *Navigator) StartSession(role catalog.RoleKey, userRef string) (Session, View) {
	if userRef == "" {
		userRef = anonymousUserRef
	}
	session := Session{Phase: PhaseRole, UserRef: userRef}
	if resolved, ok := catalog.RoleByKey(role); ok {
		session.Role = resolved.Key
		session.RoleFixed = true
		session.Phase = PhaseIntent
		session.CurrentStepID = n.defaultStep(resolved.Key)
	}
	return session, n.viewFor(session)
}

// SelectOption applies one user selection. Keys outside the offered set
// return the unchanged view flagged invalid.
func (n *Navigator) SelectOption(session Session, optionKey string) (Session, View) {
	next, ok := n.apply(session, optionKey)
	if !ok {
		view := n.viewFor(session)
		view.Invalid = true
		return session.clone(), view
	}
	return next, n.viewFor(next)
}

// GoBack jumps to a specific earlier phase. Only the documented back
// edges are valid; anything else is flagged invalid.
func (n *Navigator) GoBack(session Session, target Phase) (Session, View) {
	if !n.backAllowed(session, target) {
		view := n.viewFor(session)
		view.Invalid = true
		return session.clone(), view
	}
	next := session.clone()
	next.Phase = target
	switch target {
	case PhaseIntent:
		next.Issue = ""
		next.Resolved = nil
	case PhaseStep:
		next.Issue = ""
		next.Resolved = nil
	case PhaseStepBrief:
		next.Issue = ""
		next.Resolved = nil
	case PhaseIssue:
		next.Resolved = nil
	}
	return next, n.viewFor(next)
}

// Reset returns the session to its first phase: role when the role was
// chosen in-session, intent when the caller pinned it.
func (n *Navigator) Reset(session Session) (Session, View) {
	fresh := Session{Phase: PhaseRole, UserRef: session.UserRef}
	if session.RoleFixed {
		fresh.Role = session.Role
		fresh.RoleFixed = true
		fresh.Phase = PhaseIntent
		fresh.CurrentStepID = n.defaultStep(session.Role)
	}
	return fresh, n.viewFor(fresh)
}

func (n *Navigator) apply(session Session, optionKey string) (Session, bool) {
	switch session.Phase {
	case PhaseRole:
		role, ok := catalog.RoleByKey(catalog.RoleKey(optionKey))
		if !ok {
			return Session{}, false
		}
		next := session.clone()
		next.Role = role.Key
		next.Phase = PhaseIntent
		next.CurrentStepID = n.defaultStep(role.Key)
		return next, true

	case PhaseIntent:
		next := session.clone()
		next.Issue = ""
		next.Resolved = nil
		switch Intent(optionKey) {
		case IntentCurrent:
			next.Intent = IntentCurrent
			next.Phase = PhaseStepBrief
			next.BriefFrom = PhaseIntent
		case IntentChange:
			next.Intent = IntentChange
			next.Phase = PhaseStepRange
			next.WindowStart = 0
		case IntentTrouble:
			next.Intent = IntentTrouble
			next.Phase = PhaseStepBrief
			next.BriefFrom = PhaseIntent
		default:
			return Session{}, false
		}
		return next, true

	case PhaseStepRange:
		windows := n.stepWindows(session.Role)
		for i := range windows {
			if optionKey == windowKey(i) {
				next := session.clone()
				next.WindowStart = i
				next.Phase = PhaseStep
				return next, true
			}
		}
		return Session{}, false

	case PhaseStep:
		windows := n.stepWindows(session.Role)
		if session.WindowStart < 0 || session.WindowStart >= len(windows) {
			return Session{}, false
		}
		for _, step := range windows[session.WindowStart] {
			if optionKey == stepKey(step.ID) {
				next := session.clone()
				next.CurrentStepID = step.ID
				next.Phase = PhaseStepBrief
				next.BriefFrom = PhaseStep
				return next, true
			}
		}
		return Session{}, false

	case PhaseStepBrief:
		if optionKey == optionKeyIssues {
			next := session.clone()
			next.Phase = PhaseIssue
			return next, true
		}
		if optionKey == optionKeyBack {
			back, _ := n.GoBack(session, session.BriefFrom)
			return back, true
		}
		return Session{}, false

	case PhaseIssue:
		if optionKey == optionKeyBack {
			back, _ := n.GoBack(session, PhaseStepBrief)
			return back, true
		}
		for _, issue := range n.matrix.IssuesForStep(session.Role, session.CurrentStepID) {
			if optionKey == string(issue.Key) {
				rule, err := n.table.Resolve(session.CurrentStepID, issue.Key)
				if err != nil {
					return Session{}, false
				}
				next := session.clone()
				next.Issue = issue.Key
				next.Resolved = &rule
				next.Phase = PhaseResult
				return next, true
			}
		}
		return Session{}, false

	case PhaseResult:
		switch optionKey {
		case optionKeyCommit:
			return n.commit(session), true
		case optionKeyReset:
			fresh, _ := n.Reset(session)
			return fresh, true
		}
		return Session{}, false

	default:
		// ended: nothing selectable.
		return Session{}, false
	}
}

// commit persists the resolution and ends the session. A persistence
// failure is surfaced on the view but the phase still advances, so stale
// options are never re-offered.
func (n *Navigator) commit(session Session) Session {
	next := session.clone()
	next.Phase = PhaseEnded
	if session.Resolved == nil {
		next.Committed = false
		next.CommitErr = "nothing resolved"
		return next
	}
	now := n.clock()
	entry := consultlog.NewEntry(
		now,
		session.UserRef,
		session.Role,
		session.CurrentStepID,
		session.Issue,
		*session.Resolved,
		n.policy.CurrentRouting(now),
	)
	if err := n.store.Append(entry); err != nil {
		next.Committed = false
		next.CommitErr = err.Error()
		return next
	}
	next.Committed = true
	return next
}

func (n *Navigator) backAllowed(session Session, target Phase) bool {
	switch session.Phase {
	case PhaseStepBrief:
		return target == session.BriefFrom && (target == PhaseIntent || target == PhaseStep)
	case PhaseIssue:
		return target == PhaseStepBrief
	case PhaseResult:
		return target == PhaseIssue
	}
	return false
}

// eligibleSteps are the role's allowed steps that can actually offer at
// least one issue, so the dialogue never dead-ends a window.
func (n *Navigator) eligibleSteps(role catalog.RoleKey) []catalog.Step {
	var out []catalog.Step
	for _, step := range n.matrix.AllowedSteps(role) {
		if len(n.matrix.IssuesForStep(role, step.ID)) > 0 {
			out = append(out, step)
		}
	}
	return out
}

func (n *Navigator) stepWindows(role catalog.RoleKey) [][]catalog.Step {
	steps := n.eligibleSteps(role)
	var windows [][]catalog.Step
	for start := 0; start < len(steps); start += stepWindowSize {
		end := start + stepWindowSize
		if end > len(steps) {
			end = len(steps)
		}
		windows = append(windows, steps[start:end])
	}
	return windows
}

func (n *Navigator) defaultStep(role catalog.RoleKey) catalog.StepID {
	steps := n.eligibleSteps(role)
	if len(steps) == 0 {
		return 1
	}
	return steps[0].ID
}
