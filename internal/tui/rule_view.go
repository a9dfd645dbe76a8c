// internal/tui/rule_view.go
//
// Rendering for the resolved rule and the contact-routing snapshot.

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fieldops/wayfinder/internal/catalog"
	"github.com/fieldops/wayfinder/internal/routing"
	"github.com/fieldops/wayfinder/internal/rules"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CCCCCC")).
			Padding(1, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F7B801"))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)

	panelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4CAF50"))

	synthesizedTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#F7B801"))

	fieldNameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A0AEC0"))

	availableStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
	unavailableStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	logPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)

	logHeadStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))

	logBodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA"))
)

func renderRulePanel(rule *rules.Rule, width int) string {
	title := panelTitleStyle.Render(fmt.Sprintf("%s · %s", rule.Code, rule.Title))
	if rule.Synthesized {
		title = synthesizedTitleStyle.Render(fmt.Sprintf("%s · %s (general guidance)", rule.Code, rule.Title))
	}

	var lines []string
	lines = append(lines, title)
	lines = append(lines, field("Owner", rule.Owner))
	lines = append(lines, field("Customer contact", rule.CustomerContactOwner))
	if rule.OnSiteAction != "" {
		lines = append(lines, field("On site", rule.OnSiteAction))
	}
	if len(rule.Actions) > 0 {
		lines = append(lines, fieldNameStyle.Render("Actions:"))
		for i, action := range rule.Actions {
			lines = append(lines, fmt.Sprintf("  %d. %s", i+1, action))
		}
	}
	next := fmt.Sprintf("%d", rule.NextStepID)
	if step, ok := catalog.StepByID(rule.NextStepID); ok {
		next = fmt.Sprintf("%d · %s", step.ID, step.Label)
	}
	lines = append(lines, field("Next step", next))

	return panelStyle.Width(max(30, width)).Render(strings.Join(lines, "\n"))
}

func renderRoutingPanel(rt *routing.Routing, width int) string {
	coordination := unavailableStyle.Render(fmt.Sprintf("closed · %s", rt.CoordinationWindowLabel))
	if rt.CoordinationAvailable {
		coordination = availableStyle.Render("available now")
	}

	lines := []string{
		panelTitleStyle.Render("Who to contact"),
		field("Decisions", rt.DecisionOwner),
		field("Customer contact", rt.PrimaryCustomerContact),
		fmt.Sprintf("%s %s", fieldNameStyle.Render(pad("Coordination")), coordination),
	}
	return panelStyle.Width(max(30, width)).Render(strings.Join(lines, "\n"))
}

func field(name, value string) string {
	return fmt.Sprintf("%s %s", fieldNameStyle.Render(pad(name)), value)
}

func pad(name string) string {
	return fmt.Sprintf("%-17s", name+":")
}
