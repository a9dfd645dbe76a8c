// internal/rules/overrides.go
//
// Hand-authored rules for cells where the generic fallback is not good
// enough. Codes are grouped by family: S standard procedure, W weather,
// N staffing/no-show, E access/escalation, M material, A accident,
// C complaint, P payment, X outage.

package rules

import "github.com/fieldops/wayfinder/internal/catalog"

type authoredRule struct {
	step catalog.StepID
	rule Rule
}

func builtinOverrides() map[Key]Rule {
	authored := []authoredRule{
		{catalog.StepScheduleCreation, Rule{
			Code:                 "S1",
			Title:                "Build the work schedule",
			Owner:                "Coordinator (OP)",
			CustomerContactOwner: "Sales",
			OnSiteAction:         "None; office work",
			Actions: []string{
				"Collect open orders and crew availability for the coming week.",
				"Draft the schedule board and share it with sales for customer conflicts.",
				"Lock the plan and publish it to the crew calendar.",
			},
			NextStepID: 12,
			IssueKey:   catalog.IssueOK,
		}},
		{catalog.StepPreVisitContact, Rule{
			Code:                 "S2",
			Title:                "Contact the customer before the visit",
			Owner:                "Field worker",
			CustomerContactOwner: "Sales",
			OnSiteAction:         "Call from the vehicle before departure",
			Actions: []string{
				"Call the registered contact the evening before or by 08:30 on the day.",
				"Confirm access arrangements, parking, and any pets or hazards.",
				"Report the confirmed window to the coordinator.",
			},
			NextStepID: catalog.StepOnSiteConfirmation,
			IssueKey:   catalog.IssueOK,
		}},
		{catalog.StepOnSiteConfirmation, Rule{
			Code:                 "S3",
			Title:                "Confirm details on site",
			Owner:                "On-site lead",
			CustomerContactOwner: "Sales",
			OnSiteAction:         "Walk the site with the customer",
			Actions: []string{
				"Walk the work area with the customer and restate the scope.",
				"Point out anything that differs from the estimate before starting.",
				"Get verbal agreement and note it on the work order.",
			},
			NextStepID: catalog.StepServiceExecution,
			IssueKey:   catalog.IssueOK,
		}},
		{catalog.StepServiceExecution, Rule{
			Code:                 "S4",
			Title:                "Execute the service",
			Owner:                "On-site lead",
			CustomerContactOwner: "Sales",
			OnSiteAction:         "Carry out the work order",
			Actions: []string{
				"Work through the order in the briefed sequence.",
				"Photograph before and after states for the report.",
				"Keep the customer informed of any timing slips during the day.",
			},
			NextStepID: 19,
			IssueKey:   catalog.IssueOK,
		}},
		{catalog.StepInvoiceIssuance, Rule{
			Code:                 "S5",
			Title:                "Issue the invoice",
			Owner:                "Accounting",
			CustomerContactOwner: "Accounting",
			OnSiteAction:         "None; office work",
			Actions: []string{
				"Generate the invoice from the approved billing data.",
				"Cross-check amounts against the signed work report.",
				"Queue the invoice for delivery.",
			},
			NextStepID: catalog.StepInvoiceDelivery,
			IssueKey:   catalog.IssueOK,
		}},
		{catalog.StepPaymentConfirmation, Rule{
			Code:                 "S6",
			Title:                "Confirm payment receipt",
			Owner:                "Accounting",
			CustomerContactOwner: "Accounting",
			OnSiteAction:         "None; office work",
			Actions: []string{
				"Match incoming transfers against open invoices.",
				"Mark the order paid and release it for reconciliation.",
			},
			NextStepID: 32,
			IssueKey:   catalog.IssueOK,
		}},
		{catalog.StepPreVisitContact, Rule{
			Code:                 "E1",
			Title:                "Locked out at pre-visit contact",
			Owner:                "On-site lead",
			CustomerContactOwner: "Sales is the primary customer contact; outside business hours the on-site lead makes first contact",
			OnSiteAction:         "Hold position at the entrance and document the attempt",
			Actions: []string{
				"Call the customer, wait five minutes, call once more.",
				"Photograph the entrance with a visible timestamp.",
				"If still locked out after fifteen minutes, proceed to on-site detail confirmation with whoever is available, or withdraw on the coordinator's instruction.",
			},
			NextStepID: catalog.StepOnSiteConfirmation,
			IssueKey:   catalog.IssueSiteAccess,
		}},
		{catalog.StepServiceExecution, Rule{
			Code:                 "E2",
			Title:                "Locked out mid-execution",
			Owner:                "Coordinator (OP)",
			CustomerContactOwner: "Sales is the primary customer contact; outside business hours the on-site lead makes first contact",
			OnSiteAction:         "Secure tools and withdraw in good order",
			Actions: []string{
				"Confirm no crew or equipment remains inside.",
				"Report the interruption to the coordinator.",
				"Return the slot to schedule creation for a new date.",
			},
			NextStepID: catalog.StepScheduleCreation,
			IssueKey:   catalog.IssueSiteAccess,
		}},
		{catalog.StepServiceExecution, Rule{
			Code:                 "W1",
			Title:                "Weather stops on-site work",
			Owner:                "Coordinator (OP)",
			CustomerContactOwner: "Sales, with on-site lead as off-hours fallback",
			OnSiteAction:         "Suspend exposed work and secure materials",
			Actions: []string{
				"Judge on site whether any indoor portion can continue.",
				"Agree a make-up date with the customer before the crew leaves.",
				"Feed the cancelled hours back into schedule creation.",
			},
			NextStepID: catalog.StepScheduleCreation,
			IssueKey:   catalog.IssueWeather,
		}},
		{catalog.StepServiceExecution, Rule{
			Code:                 "A1",
			Title:                "Accident during service execution",
			Owner:                "On-site lead",
			CustomerContactOwner: "Owner / executive",
			OnSiteAction:         "Stop all work, make the area safe, give first aid",
			Actions: []string{
				"Call emergency services first if anyone is injured.",
				"Phone the owner directly, then the coordinator.",
				"Photograph the scene before anything is moved.",
				"Do not resume work until the owner clears the site.",
			},
			NextStepID: catalog.StepScheduleCreation,
			IssueKey:   catalog.IssueAccident,
		}},
		{19, Rule{
			Code:                 "A2",
			Title:                "Accident during wrap-up",
			Owner:                "On-site lead",
			CustomerContactOwner: "Owner / executive",
			OnSiteAction:         "Halt cleanup and isolate the hazard",
			Actions: []string{
				"Give first aid and call emergency services if needed.",
				"Leave teardown as-is until the scene is recorded.",
				"Report to the owner before the crew leaves the site.",
			},
			NextStepID: catalog.StepScheduleCreation,
			IssueKey:   catalog.IssueAccident,
		}},
		{catalog.StepServiceExecution, Rule{
			Code:                 "M1",
			Title:                "Equipment fails mid-job",
			Owner:                "On-site lead",
			CustomerContactOwner: "Sales",
			OnSiteAction:         "Switch to backup equipment where possible",
			Actions: []string{
				"Tag the failed unit and move it clear of the work area.",
				"Call the depot for a same-day replacement.",
				"If no replacement is available, agree a completion date with the customer before leaving.",
			},
			NextStepID: 19,
			IssueKey:   catalog.IssueEquipment,
		}},
		{24, Rule{
			Code:                 "C1",
			Title:                "Customer refuses sign-off",
			Owner:                "Sales",
			CustomerContactOwner: "Sales",
			OnSiteAction:         "Record the objections item by item",
			Actions: []string{
				"List each disputed item with the customer present.",
				"Photograph the disputed work.",
				"Schedule a confirmation visit rather than arguing on site.",
			},
			NextStepID: catalog.StepOnSiteConfirmation,
			IssueKey:   catalog.IssueComplaint,
		}},
		{catalog.StepPreVisitContact, Rule{
			Code:                 "N1",
			Title:                "Customer absent at pre-visit contact",
			Owner:                "Coordinator (OP)",
			CustomerContactOwner: "Sales",
			OnSiteAction:         "Wait fifteen minutes, then withdraw",
			Actions: []string{
				"Attempt all registered contact channels once.",
				"Leave a dated visit notice.",
				"Return the crew to the coordinator for reassignment.",
			},
			NextStepID: catalog.StepCrewAssignment,
			IssueKey:   catalog.IssueCustomerNoSho,
		}},
		{15, Rule{
			Code:                 "N2",
			Title:                "Short-handed at briefing",
			Owner:                "Coordinator (OP)",
			CustomerContactOwner: "Sales",
			OnSiteAction:         "None; depot work",
			Actions: []string{
				"Recount the roster against the work order requirements.",
				"Pull qualified workers from lower-priority jobs.",
				"If the gap cannot be closed, push the job back to assignment.",
			},
			NextStepID: catalog.StepCrewAssignment,
			IssueKey:   catalog.IssueUnderstaffed,
		}},
		{catalog.StepPaymentConfirmation, Rule{
			Code:                 "P1",
			Title:                "Payment missing at confirmation",
			Owner:                "Accounting",
			CustomerContactOwner: "Accounting",
			OnSiteAction:         "None; office work",
			Actions: []string{
				"Confirm the transfer is absent from all company accounts.",
				"Re-send the invoice with a dated reminder letter.",
				"Notify sales so renewal talks pause until payment clears.",
			},
			NextStepID: catalog.StepInvoiceDelivery,
			IssueKey:   catalog.IssueNonPayment,
		}},
		{32, Rule{
			Code:                 "P2",
			Title:                "Unpaid balance found at reconciliation",
			Owner:                "Accounting",
			CustomerContactOwner: "Accounting",
			OnSiteAction:         "None; office work",
			Actions: []string{
				"Trace the discrepancy to a specific invoice.",
				"Re-deliver the invoice with corrected references.",
				"Escalate to the owner if the balance ages past thirty days.",
			},
			NextStepID: catalog.StepInvoiceDelivery,
			IssueKey:   catalog.IssueNonPayment,
		}},
		{10, Rule{
			Code:                 "X1",
			Title:                "System down during order registration",
			Owner:                "Office / admin",
			CustomerContactOwner: "Sales",
			OnSiteAction:         "None; office work",
			Actions: []string{
				"Register the order on the paper intake form.",
				"Continue to schedule creation from the paper record.",
				"Enter the order into the system as soon as it recovers.",
			},
			NextStepID: catalog.StepScheduleCreation,
			IssueKey:   catalog.IssueSystemOutage,
		}},
	}

	keyed := make(map[Key]Rule, len(authored))
	for _, entry := range authored {
		keyed[Key{StepID: entry.step, IssueKey: entry.rule.IssueKey}] = entry.rule
	}
	return keyed
}
