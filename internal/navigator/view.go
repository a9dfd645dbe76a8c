// internal/navigator/view.go
//
// View construction. A view is a pure function of the session plus the
// static tables, so re-rendering after an invalid input costs nothing.

package navigator

import (
	"fmt"

	"github.com/fieldops/wayfinder/internal/catalog"
)

const (
	optionKeyIssues = "issues"
	optionKeyBack   = "back"
	optionKeyCommit = "commit"
	optionKeyReset  = "reset"
)

func windowKey(index int) string {
	return fmt.Sprintf("win:%d", index)
}

func stepKey(id catalog.StepID) string {
	return fmt.Sprintf("step:%d", id)
}

func (n *Navigator) viewFor(session Session) View {
	switch session.Phase {
	case PhaseRole:
		return n.roleView()
	case PhaseIntent:
		return n.intentView(session)
	case PhaseStepRange:
		return n.stepRangeView(session)
	case PhaseStep:
		return n.stepView(session)
	case PhaseStepBrief:
		return n.stepBriefView(session)
	case PhaseIssue:
		return n.issueView(session)
	case PhaseResult:
		return n.resultView(session)
	case PhaseEnded:
		return n.endedView(session)
	}
	return View{Phase: session.Phase, Prompt: "Nothing to do here."}
}

func (n *Navigator) roleView() View {
	options := make([]Option, 0, len(catalog.Roles()))
	for _, role := range catalog.Roles() {
		options = append(options, Option{Key: string(role.Key), Label: role.Label})
	}
	return View{
		Phase:   PhaseRole,
		Prompt:  "Who is asking? Pick your role.",
		Options: options,
	}
}

func (n *Navigator) intentView(session Session) View {
	step := stepLabel(session.CurrentStepID)
	return View{
		Phase:  PhaseIntent,
		Prompt: fmt.Sprintf("What do you need? You are currently at %s.", step),
		Options: []Option{
			{Key: string(IntentCurrent), Label: "Confirm my current position"},
			{Key: string(IntentChange), Label: "Choose a different step"},
			{Key: string(IntentTrouble), Label: "Report a problem"},
		},
	}
}

func (n *Navigator) stepRangeView(session Session) View {
	windows := n.stepWindows(session.Role)
	if len(windows) == 0 {
		return View{
			Phase:   PhaseStepRange,
			Prompt:  "No steps are available for your role right now. Go back and pick another path.",
			Options: []Option{{Key: optionKeyBack, Label: "Go back"}},
		}
	}
	options := make([]Option, 0, len(windows))
	for i, window := range windows {
		first := window[0]
		last := window[len(window)-1]
		options = append(options, Option{
			Key:   windowKey(i),
			Label: fmt.Sprintf("Steps %d-%d (%s ... %s)", first.ID, last.ID, first.Label, last.Label),
		})
	}
	return View{
		Phase:   PhaseStepRange,
		Prompt:  "Which part of the process?",
		Options: options,
	}
}

func (n *Navigator) stepView(session Session) View {
	windows := n.stepWindows(session.Role)
	if session.WindowStart < 0 || session.WindowStart >= len(windows) {
		return View{
			Phase:   PhaseStep,
			Prompt:  "That range is no longer available.",
			Options: []Option{{Key: optionKeyBack, Label: "Go back"}},
		}
	}
	window := windows[session.WindowStart]
	options := make([]Option, 0, len(window))
	for _, step := range window {
		options = append(options, Option{
			Key:   stepKey(step.ID),
			Label: fmt.Sprintf("%d. %s", step.ID, step.Label),
		})
	}
	return View{
		Phase:   PhaseStep,
		Prompt:  "Which step are you on?",
		Options: options,
	}
}

func (n *Navigator) stepBriefView(session Session) View {
	step := stepLabel(session.CurrentStepID)
	prompt := fmt.Sprintf("You are at %s.", step)
	if rule, err := n.table.Resolve(session.CurrentStepID, catalog.IssueOK); err == nil {
		prompt += " Expected procedure:"
		for i, action := range rule.Actions {
			prompt += fmt.Sprintf("\n  %d. %s", i+1, action)
		}
	}
	return View{
		Phase:  PhaseStepBrief,
		Prompt: prompt,
		Options: []Option{
			{Key: optionKeyIssues, Label: "Select a situation"},
			{Key: optionKeyBack, Label: "Go back"},
		},
	}
}

func (n *Navigator) issueView(session Session) View {
	issues := n.matrix.IssuesForStep(session.Role, session.CurrentStepID)
	if len(issues) == 0 {
		return View{
			Phase: PhaseIssue,
			Prompt: fmt.Sprintf(
				"No situations can be reported for your role at %s. Go back and choose another step.",
				stepLabel(session.CurrentStepID),
			),
			Options: []Option{{Key: optionKeyBack, Label: "Go back"}},
		}
	}
	options := make([]Option, 0, len(issues))
	for _, issue := range issues {
		options = append(options, Option{Key: string(issue.Key), Label: issue.Label})
	}
	options = append(options, Option{Key: optionKeyBack, Label: "Go back"})
	return View{
		Phase:   PhaseIssue,
		Prompt:  fmt.Sprintf("What is happening at %s?", stepLabel(session.CurrentStepID)),
		Options: options,
	}
}

func (n *Navigator) resultView(session Session) View {
	view := View{
		Phase:  PhaseResult,
		Prompt: "Here is the prescribed response. Commit to record this consultation, or reset to start over.",
		Options: []Option{
			{Key: optionKeyCommit, Label: "Commit and finish"},
			{Key: optionKeyReset, Label: "Start over"},
		},
	}
	if session.Resolved != nil {
		rule := session.Resolved.Clone()
		view.ResolvedRule = &rule
	}
	snapshot := n.policy.CurrentRouting(n.clock())
	view.Routing = &snapshot
	return view
}

func (n *Navigator) endedView(session Session) View {
	view := View{
		Phase:     PhaseEnded,
		Committed: session.Committed,
		CommitErr: session.CommitErr,
	}
	if session.Committed {
		view.Prompt = "Consultation recorded. Open a new session for the next question."
	} else {
		view.Prompt = fmt.Sprintf("Session ended but the record was not saved: %s", session.CommitErr)
	}
	if session.Resolved != nil {
		rule := session.Resolved.Clone()
		view.ResolvedRule = &rule
	}
	return view
}

func stepLabel(id catalog.StepID) string {
	if step, ok := catalog.StepByID(id); ok {
		return fmt.Sprintf("step %d (%s)", step.ID, step.Label)
	}
	return fmt.Sprintf("step %d", id)
}
