package absence

import (
	"time"

	"github.com/peoplekit/absence-backend-go/internal/pkg/validator"
)

const maxFreeTextLength = 1000

// CreateAbsenceRequest uses the field names of the published sickness API,
// which predate this service and are camelCase.
type CreateAbsenceRequest struct {
	EmployeeID              string  `json:"employeeId,omitempty"`
	StartDate               string  `json:"startDate"`
	EndDate                 string  `json:"endDate"`
	SicknessType            string  `json:"sicknessType,omitempty"`
	Reason                  string  `json:"reason"`
	Symptoms                *string `json:"symptoms,omitempty"`
	RequiresNote            bool    `json:"requiresNote,omitempty"`
	DocumentationProvided   bool    `json:"documentationProvided,omitempty"`
	LinkedToEarlierSickness *string `json:"linkedToEarlierSickness,omitempty"`
}

func (r *CreateAbsenceRequest) Validate() error {
	var errs validator.ValidationErrors

	var start, end time.Time
	var startOK, endOK bool

	if validator.IsEmpty(r.StartDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "startDate",
			Message: "startDate is required",
		})
	} else if start, startOK = validator.IsValidDate(r.StartDate); !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "startDate",
			Message: "startDate must use the YYYY-MM-DD format",
		})
	}

	if validator.IsEmpty(r.EndDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "endDate",
			Message: "endDate is required",
		})
	} else if end, endOK = validator.IsValidDate(r.EndDate); !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "endDate",
			Message: "endDate must use the YYYY-MM-DD format",
		})
	}

	// Date ordering must fail before any duration math runs.
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "endDate",
			Message: "endDate must not be before startDate",
		})
	}

	if r.SicknessType != "" && !Category(r.SicknessType).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "sicknessType",
			Message: "sicknessType must be one of: illness, injury, medical-appointment, mental-health, other",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}
	if len(r.Reason) > maxFreeTextLength {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 1000 characters",
		})
	}

	if r.Symptoms != nil && len(*r.Symptoms) > maxFreeTextLength {
		errs = append(errs, validator.ValidationError{
			Field:   "symptoms",
			Message: "symptoms must not exceed 1000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Category returns the requested category, defaulting to illness.
func (r *CreateAbsenceRequest) CategoryOrDefault() Category {
	if r.SicknessType == "" {
		return CategoryIllness
	}
	return Category(r.SicknessType)
}

type ApproveAbsenceRequest struct {
	AdminNotes *string `json:"adminNotes,omitempty"`
}

func (r *ApproveAbsenceRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.AdminNotes != nil && len(*r.AdminNotes) > maxFreeTextLength {
		errs = append(errs, validator.ValidationError{
			Field:   "adminNotes",
			Message: "adminNotes must not exceed 1000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RejectAbsenceRequest struct {
	RejectionReason string `json:"rejectionReason"`
}

func (r *RejectAbsenceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RejectionReason) {
		errs = append(errs, validator.ValidationError{
			Field:   "rejectionReason",
			Message: "rejectionReason is required",
		})
	}
	if len(r.RejectionReason) > maxFreeTextLength {
		errs = append(errs, validator.ValidationError{
			Field:   "rejectionReason",
			Message: "rejectionReason must not exceed 1000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ReturnToWorkRequest struct {
	ActualReturnDate      *string `json:"actualReturnDate,omitempty"`
	FitForWork            *bool   `json:"fitForWork,omitempty"`
	RestrictionsOnReturn  *string `json:"restrictionsOnReturn,omitempty"`
	DocumentationProvided *bool   `json:"documentationProvided,omitempty"`
}

func (r *ReturnToWorkRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ActualReturnDate != nil {
		if _, ok := validator.IsValidDate(*r.ActualReturnDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "actualReturnDate",
				Message: "actualReturnDate must use the YYYY-MM-DD format",
			})
		}
	}
	if r.RestrictionsOnReturn != nil && len(*r.RestrictionsOnReturn) > maxFreeTextLength {
		errs = append(errs, validator.ValidationError{
			Field:   "restrictionsOnReturn",
			Message: "restrictionsOnReturn must not exceed 1000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ListQuery mirrors the query filters of the employee listing endpoint.
type ListQuery struct {
	StartDate string
	EndDate   string
	Status    string
}

func (q *ListQuery) Validate() error {
	var errs validator.ValidationErrors

	if q.StartDate != "" {
		if _, ok := validator.IsValidDate(q.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "startDate",
				Message: "startDate must use the YYYY-MM-DD format",
			})
		}
	}
	if q.EndDate != "" {
		if _, ok := validator.IsValidDate(q.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "endDate",
				Message: "endDate must use the YYYY-MM-DD format",
			})
		}
	}
	if q.Status != "" && !Status(q.Status).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: pending, approved, rejected, under-review",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ============= Response DTOs =============

type AbsenceResponse struct {
	ID                      string     `json:"id"`
	EmployeeID              string     `json:"employeeId"`
	EmployeeName            *string    `json:"employeeName,omitempty"`
	StartDate               string     `json:"startDate"`
	EndDate                 string     `json:"endDate"`
	NumberOfDays            int        `json:"numberOfDays"`
	Category                Category   `json:"sicknessType"`
	Reason                  string     `json:"reason"`
	Symptoms                *string    `json:"symptoms,omitempty"`
	RequiresDocumentation   bool       `json:"requiresDocumentation"`
	DocumentationProvided   bool       `json:"documentationProvided"`
	Status                  Status     `json:"approvalStatus"`
	IsAdminCreated          bool       `json:"isAdminCreated"`
	ApprovalComments        *string    `json:"approvalComments,omitempty"`
	RejectionReason         *string    `json:"rejectionReason,omitempty"`
	ApprovedAt              *time.Time `json:"approvedAt,omitempty"`
	RejectedAt              *time.Time `json:"rejectedAt,omitempty"`
	ReturnedToWork          bool       `json:"returnedToWork"`
	ActualReturnDate        *string    `json:"actualReturnDate,omitempty"`
	FitForWork              *bool      `json:"fitForWork,omitempty"`
	RestrictionsOnReturn    *string    `json:"restrictionsOnReturn,omitempty"`
	LinkedToEarlierSickness *string    `json:"linkedToEarlierSickness,omitempty"`
	CreatedAt               time.Time  `json:"createdAt"`
}

// ToResponse converts an AbsenceRecord entity to its API representation.
func ToResponse(r AbsenceRecord) AbsenceResponse {
	resp := AbsenceResponse{
		ID:                      r.ID,
		EmployeeID:              r.EmployeeID,
		EmployeeName:            r.EmployeeName,
		StartDate:               r.StartDate.Format("2006-01-02"),
		EndDate:                 r.EndDate.Format("2006-01-02"),
		NumberOfDays:            r.NumberOfDays,
		Category:                r.Category,
		Reason:                  r.Reason,
		Symptoms:                r.Symptoms,
		RequiresDocumentation:   r.RequiresDocumentation,
		DocumentationProvided:   r.DocumentationProvided,
		Status:                  r.Status,
		IsAdminCreated:          r.IsAdminCreated,
		ApprovalComments:        r.ApprovalComments,
		RejectionReason:         r.RejectionReason,
		ApprovedAt:              r.ApprovedAt,
		RejectedAt:              r.RejectedAt,
		ReturnedToWork:          r.ReturnedToWork,
		FitForWork:              r.FitForWork,
		RestrictionsOnReturn:    r.RestrictionsOnReturn,
		LinkedToEarlierSickness: r.LinkedToEarlierSicknessID,
		CreatedAt:               r.CreatedAt,
	}
	if r.ActualReturnDate != nil {
		formatted := r.ActualReturnDate.Format("2006-01-02")
		resp.ActualReturnDate = &formatted
	}
	return resp
}

// ToResponses converts a slice of records.
func ToResponses(records []AbsenceRecord) []AbsenceResponse {
	responses := make([]AbsenceResponse, len(records))
	for i, r := range records {
		responses[i] = ToResponse(r)
	}
	return responses
}

// CreateResult is the outcome of a creation. OverriddenOverlaps is only
// populated when an admin filed past the overlap check with the override
// policy enabled.
type CreateResult struct {
	Record             AbsenceRecord
	OverriddenOverlaps []AbsenceRecord
}
