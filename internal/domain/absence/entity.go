package absence

import (
	"time"

	"github.com/peoplekit/absence-backend-go/internal/domain/user"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	// StatusUnderReview is a manual hold state. It exists in the enum and in
	// list filters, but no transition into or out of it is implemented;
	// reserved for future use.
	StatusUnderReview Status = "under-review"
)

// IsTerminal reports whether no further transition is permitted.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// IsValid reports whether s is a known status value.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusUnderReview:
		return true
	}
	return false
}

type Category string

const (
	CategoryIllness            Category = "illness"
	CategoryInjury             Category = "injury"
	CategoryMedicalAppointment Category = "medical-appointment"
	CategoryMentalHealth       Category = "mental-health"
	CategoryOther              Category = "other"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryIllness, CategoryInjury, CategoryMedicalAppointment, CategoryMentalHealth, CategoryOther:
		return true
	}
	return false
}

// DocumentationThresholdDays is the inclusive day count at which a record is
// forced to require medical documentation, regardless of caller input.
const DocumentationThresholdDays = 5

// AbsenceRecord entity
type AbsenceRecord struct {
	ID         string
	EmployeeID string

	StartDate time.Time
	EndDate   time.Time
	// NumberOfDays is derived from the date range, inclusive of both
	// endpoints. Never set by callers.
	NumberOfDays int

	Category Category
	Reason   string
	Symptoms *string

	RequiresDocumentation bool
	DocumentationProvided bool

	Status Status

	CreatedByUserID string
	CreatedByRole   user.Role
	IsAdminCreated  bool

	ApprovalUserID   *string
	ApprovalRole     *string
	ApprovalComments *string
	ApprovedAt       *time.Time
	RejectedAt       *time.Time
	RejectionReason  *string

	ReturnedToWork       bool
	ActualReturnDate     *time.Time
	FitForWork           *bool
	RestrictionsOnReturn *string

	LinkedToEarlierSicknessID *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships (for responses)
	EmployeeName *string
}

// Overlaps reports whether the record's inclusive date range intersects
// [start, end].
func (r *AbsenceRecord) Overlaps(start, end time.Time) bool {
	return !r.StartDate.After(end) && !r.EndDate.Before(start)
}

// BlocksNewRequests reports whether the record's status makes it count
// against the no-overlap invariant.
func (r *AbsenceRecord) BlocksNewRequests() bool {
	return r.Status == StatusPending || r.Status == StatusApproved
}
