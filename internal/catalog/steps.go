// internal/catalog/steps.go
//
// The canonical 34-step service-delivery process. The catalog is fixed at
// process-definition time: lead intake through contract renewal, looping
// back to step 1 so a renewed contract re-enters the pipeline.

package catalog

// StepCount is the number of steps in the delivery process.
const StepCount = 34

// StepID identifies a step in the 1..StepCount range.
type StepID int

// Step is one canonical stage of the delivery process.
type Step struct {
	ID    StepID
	Label string
}

// Named step anchors that the rule fallback routing targets.
const (
	StepScheduleCreation    StepID = 11
	StepCrewAssignment      StepID = 13
	StepPreVisitContact     StepID = 16
	StepOnSiteConfirmation  StepID = 17
	StepServiceExecution    StepID = 18
	StepEquipmentRestock    StepID = 20
	StepInvoiceIssuance     StepID = 29
	StepInvoiceDelivery     StepID = 30
	StepPaymentConfirmation StepID = 31
)

var steps = []Step{
	{1, "Lead intake"},
	{2, "Lead qualification"},
	{3, "Initial customer contact"},
	{4, "Site survey booking"},
	{5, "Site survey"},
	{6, "Estimate preparation"},
	{7, "Estimate presentation"},
	{8, "Contract negotiation"},
	{9, "Contract signing"},
	{10, "Order registration"},
	{11, "Schedule creation"},
	{12, "Resource planning"},
	{13, "Crew assignment"},
	{14, "Materials procurement"},
	{15, "Work order briefing"},
	{16, "Pre-visit customer contact"},
	{17, "On-site detail confirmation"},
	{18, "Service execution"},
	{19, "On-site wrap-up"},
	{20, "Equipment return and restock"},
	{21, "Work report drafting"},
	{22, "Photo and evidence upload"},
	{23, "Supervisor review"},
	{24, "Customer sign-off"},
	{25, "Report submission"},
	{26, "Follow-up contact"},
	{27, "Billing data preparation"},
	{28, "Billing approval"},
	{29, "Invoice issuance"},
	{30, "Invoice delivery"},
	{31, "Payment confirmation"},
	{32, "Payment reconciliation"},
	{33, "Renewal proposal"},
	{34, "Contract renewal decision"},
}

// Steps returns the full ordered step catalog.
func Steps() []Step {
	out := make([]Step, len(steps))
	copy(out, steps)
	return out
}

// StepByID returns the step for the given id.
func StepByID(id StepID) (Step, bool) {
	if !ValidStep(id) {
		return Step{}, false
	}
	return steps[id-1], true
}

// ValidStep reports whether id falls inside the catalog.
func ValidStep(id StepID) bool {
	return id >= 1 && id <= StepCount
}

// NextStep returns the cyclic successor: step 34 loops back to step 1.
func NextStep(id StepID) StepID {
	return id%StepCount + 1
}
