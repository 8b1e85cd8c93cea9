package absence

// RiskLevel classifies a Bradford Factor score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// BradfordScore is the absenteeism-risk aggregate over approved spells in a
// period: factor = spells^2 * days.
type BradfordScore struct {
	TotalSpells    int       `json:"totalSpells"`
	TotalDays      int       `json:"totalDays"`
	BradfordFactor int       `json:"bradfordFactor"`
	RiskLevel      RiskLevel `json:"riskLevel"`
}

// Statistics summarises an employee's absence records over a window,
// regardless of status.
type Statistics struct {
	TotalIncidents    int `json:"totalIncidents"`
	ApprovedIncidents int `json:"approvedIncidents"`
	PendingIncidents  int `json:"pendingIncidents"`
	RejectedIncidents int `json:"rejectedIncidents"`
	TotalApprovedDays int `json:"totalApprovedDays"`
	// AverageDaysPerIncident is over approved incidents only; zero when
	// there are none.
	AverageDaysPerIncident float64 `json:"averageDaysPerIncident"`
	// Documentation compliance among approved incidents flagged as
	// requiring documentation.
	DocumentationProvided int `json:"documentationProvided"`
	DocumentationMissing  int `json:"documentationMissing"`
}

// EmployeeReport is the employee listing payload: the filtered records plus
// the statistics over them and the current-year Bradford score.
type EmployeeReport struct {
	Records    []AbsenceRecord
	Statistics Statistics
	Bradford   BradfordScore
}
