// internal/rules/fallback.go
//
// The fallback synthesizer completes the rule table to totality. When no
// explicit rule is authored for a (step, issue) cell, the issue-level
// template below is combined with a routing heuristic to manufacture one.
// Same inputs always produce the same rule.

package rules

import (
	"fmt"

	"github.com/fieldops/wayfinder/internal/catalog"
)

// issueTemplate is the step-independent portion of a synthesized rule.
type issueTemplate struct {
	Title                string
	Owner                string
	CustomerContactOwner string
	OnSiteAction         string
	Actions              []string
}

var issueTemplates = map[catalog.IssueKey]issueTemplate{
	catalog.IssueOK: {
		Title:                "Proceed as planned",
		Owner:                "Person in charge of the current step",
		CustomerContactOwner: "Sales",
		OnSiteAction:         "Continue the standard procedure",
		Actions: []string{
			"Confirm the checklist for the current step is complete.",
			"Record progress in the daily report.",
			"Move on to the next step.",
		},
	},
	catalog.IssueWeather: {
		Title:                "Bad weather disrupts the plan",
		Owner:                "Coordinator (OP)",
		CustomerContactOwner: "Sales, with on-site lead as off-hours fallback",
		OnSiteAction:         "Secure the site and suspend outdoor work",
		Actions: []string{
			"Check the forecast window with the coordinator.",
			"Agree a revised date with the customer before leaving the site.",
			"Log the weather hold in the work report.",
		},
	},
	catalog.IssueUnderstaffed: {
		Title:                "Crew short-handed",
		Owner:                "Coordinator (OP)",
		CustomerContactOwner: "Sales",
		OnSiteAction:         "Scale scope to the crew actually present",
		Actions: []string{
			"Report headcount to the coordinator immediately.",
			"Request reassignment of available workers.",
			"Do not start tasks that require the full crew.",
		},
	},
	catalog.IssueSiteAccess: {
		Title:                "Cannot enter the site",
		Owner:                "On-site lead",
		CustomerContactOwner: "Sales, with on-site lead as off-hours fallback",
		OnSiteAction:         "Wait at the entrance and document the attempt",
		Actions: []string{
			"Ring the registered contact twice, five minutes apart.",
			"Photograph the locked entrance with a timestamp.",
			"Escalate to the coordinator for rescheduling guidance.",
		},
	},
	catalog.IssueLateArrival: {
		Title:                "Crew running late",
		Owner:                "On-site lead",
		CustomerContactOwner: "Sales",
		OnSiteAction:         "Call ahead with a revised arrival window",
		Actions: []string{
			"Notify the customer before the appointed time passes.",
			"Shorten setup where safe to recover the schedule.",
			"Note the delay cause in the work report.",
		},
	},
	catalog.IssueUnreachable: {
		Title:                "Customer contact unreachable",
		Owner:                "Sales",
		CustomerContactOwner: "Sales, with on-site lead as off-hours fallback",
		OnSiteAction:         "Leave written notice and keep evidence",
		Actions: []string{
			"Try the registered number, then the secondary contact.",
			"Leave a dated notice at the site if visiting.",
			"Hand the thread to sales for follow-up.",
		},
	},
	catalog.IssueEquipment: {
		Title:                "Material or equipment failure",
		Owner:                "On-site lead",
		CustomerContactOwner: "Sales",
		OnSiteAction:         "Stop using the failed unit and tag it",
		Actions: []string{
			"Isolate the failed material or machine.",
			"Request a replacement from the depot.",
			"Record the failure for the inventory ledger.",
		},
	},
	catalog.IssueAccident: {
		Title:                "Accident or injury on duty",
		Owner:                "On-site lead",
		CustomerContactOwner: "Owner / executive",
		OnSiteAction:         "Make the area safe and give first aid",
		Actions: []string{
			"Call emergency services if anyone is hurt.",
			"Inform the owner and the coordinator without delay.",
			"Preserve the scene and photograph it before cleanup.",
		},
	},
	catalog.IssueComplaint: {
		Title:                "Complaint or rework request",
		Owner:                "Sales",
		CustomerContactOwner: "Sales",
		OnSiteAction:         "Listen, apologize, and note the specifics",
		Actions: []string{
			"Record exactly what the customer is dissatisfied with.",
			"Do not promise rework terms on the spot.",
			"Arrange a confirmation visit through the coordinator.",
		},
	},
	catalog.IssueNonPayment: {
		Title:                "Payment not received",
		Owner:                "Accounting",
		CustomerContactOwner: "Accounting",
		OnSiteAction:         "None; handled from the office",
		Actions: []string{
			"Verify the invoice was delivered and the due date passed.",
			"Send a payment reminder with the invoice copy.",
			"Flag the account before scheduling further work.",
		},
	},
	catalog.IssueSystemOutage: {
		Title:                "Business system outage",
		Owner:                "Office / admin",
		CustomerContactOwner: "Sales",
		OnSiteAction:         "Fall back to paper forms",
		Actions: []string{
			"Record all entries on paper with timestamps.",
			"Report the outage to the office.",
			"Back-fill the system once service returns.",
		},
	},
	catalog.IssueCustomerNoSho: {
		Title:                "Customer no-show",
		Owner:                "Coordinator (OP)",
		CustomerContactOwner: "Sales",
		OnSiteAction:         "Wait fifteen minutes, then document and withdraw",
		Actions: []string{
			"Attempt contact through all registered channels.",
			"Photograph the site as proof of attendance.",
			"Hand the slot back to the coordinator for reassignment.",
		},
	},
}

// fallbackNextStep applies the routing heuristic: issue first, step range second.
func fallbackNextStep(stepID catalog.StepID, issueKey catalog.IssueKey) catalog.StepID {
	onSiteWindow := stepID >= catalog.StepPreVisitContact && stepID <= catalog.StepServiceExecution
	switch issueKey {
	case catalog.IssueNonPayment:
		if stepID >= catalog.StepPaymentConfirmation {
			return catalog.StepInvoiceDelivery
		}
		return catalog.StepInvoiceIssuance
	case catalog.IssueComplaint:
		if stepID >= 27 {
			return catalog.StepOnSiteConfirmation
		}
		return catalog.NextStep(stepID)
	case catalog.IssueWeather, catalog.IssueUnreachable:
		if onSiteWindow {
			return catalog.StepScheduleCreation
		}
		return catalog.NextStep(stepID)
	case catalog.IssueUnderstaffed, catalog.IssueCustomerNoSho:
		return catalog.StepCrewAssignment
	case catalog.IssueSiteAccess:
		if stepID >= catalog.StepServiceExecution {
			return catalog.StepScheduleCreation
		}
		return catalog.StepOnSiteConfirmation
	case catalog.IssueEquipment:
		if stepID >= 19 {
			return catalog.StepEquipmentRestock
		}
		return catalog.NextStep(stepID)
	case catalog.IssueAccident:
		return catalog.StepScheduleCreation
	default:
		// ok, outage, late arrival: continue with caution.
		return catalog.NextStep(stepID)
	}
}

// synthesize manufactures the rule for a cell with no explicit entry.
func synthesize(stepID catalog.StepID, issueKey catalog.IssueKey) (Rule, error) {
	tmpl, ok := issueTemplates[issueKey]
	if !ok {
		return Rule{}, fmt.Errorf("rules: no template for issue %q", issueKey)
	}
	actions := make([]string, len(tmpl.Actions))
	copy(actions, tmpl.Actions)
	rule := Rule{
		Code:                 fmt.Sprintf("F-%s-%02d", issueKey, stepID),
		Title:                tmpl.Title,
		Owner:                tmpl.Owner,
		CustomerContactOwner: tmpl.CustomerContactOwner,
		OnSiteAction:         tmpl.OnSiteAction,
		Actions:              actions,
		NextStepID:           fallbackNextStep(stepID, issueKey),
		IssueKey:             issueKey,
		Synthesized:          true,
	}
	return rule, nil
}
