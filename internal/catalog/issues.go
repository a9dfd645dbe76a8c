package catalog

import "strings"

// IssueKey identifies a situation category, including the happy path.
type IssueKey string

const (
	IssueOK            IssueKey = "ok"
	IssueWeather       IssueKey = "weather"
	IssueUnderstaffed  IssueKey = "understaffed"
	IssueSiteAccess    IssueKey = "site_access"
	IssueLateArrival   IssueKey = "late_arrival"
	IssueUnreachable   IssueKey = "unreachable"
	IssueEquipment     IssueKey = "equipment"
	IssueAccident      IssueKey = "accident"
	IssueComplaint     IssueKey = "complaint"
	IssueNonPayment    IssueKey = "nonpayment"
	IssueSystemOutage  IssueKey = "outage"
	IssueCustomerNoSho IssueKey = "noshow"
)

// Issue pairs a situation key with its display label.
type Issue struct {
	Key   IssueKey
	Label string
}

var issues = []Issue{
	{IssueOK, "No problem"},
	{IssueWeather, "Bad weather"},
	{IssueUnderstaffed, "Understaffed"},
	{IssueSiteAccess, "Cannot access site"},
	{IssueLateArrival, "Running late"},
	{IssueUnreachable, "Contact unreachable"},
	{IssueEquipment, "Material or equipment failure"},
	{IssueAccident, "Accident or injury"},
	{IssueComplaint, "Complaint / rework request"},
	{IssueNonPayment, "Payment not received"},
	{IssueSystemOutage, "System outage"},
	{IssueCustomerNoSho, "Customer no-show"},
}

// Issues returns the full issue catalog in display order.
func Issues() []Issue {
	out := make([]Issue, len(issues))
	copy(out, issues)
	return out
}

// IssueByKey resolves an issue key, case-insensitively.
func IssueByKey(key IssueKey) (Issue, bool) {
	normalized := IssueKey(strings.ToLower(strings.TrimSpace(string(key))))
	for _, issue := range issues {
		if issue.Key == normalized {
			return issue, true
		}
	}
	return Issue{}, false
}

// ValidIssue reports whether key names a catalog issue.
func ValidIssue(key IssueKey) bool {
	_, ok := IssueByKey(key)
	return ok
}
