package absence

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/peoplekit/absence-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func failedFields(t *testing.T, err error) []string {
	t.Helper()
	var errs validator.ValidationErrors
	require.True(t, errors.As(err, &errs), "expected validation errors, got %v", err)

	fields := make([]string, len(errs))
	for i, e := range errs {
		fields[i] = e.Field
	}
	return fields
}

func validCreateRequest() CreateAbsenceRequest {
	return CreateAbsenceRequest{
		StartDate: "2025-03-10",
		EndDate:   "2025-03-12",
		Reason:    "Flu",
	}
}

func TestCreateAbsenceRequest_Validate(t *testing.T) {
	t.Run("valid minimal request", func(t *testing.T) {
		req := validCreateRequest()
		assert.NoError(t, req.Validate())
	})

	t.Run("valid with all optional fields", func(t *testing.T) {
		symptoms := "Fever and cough"
		link := "0191d4a0-0000-7000-8000-000000000000"
		req := validCreateRequest()
		req.EmployeeID = "0191d4a0-0000-7000-8000-000000000001"
		req.SicknessType = "injury"
		req.Symptoms = &symptoms
		req.RequiresNote = true
		req.LinkedToEarlierSickness = &link
		assert.NoError(t, req.Validate())
	})

	tests := []struct {
		name      string
		mutate    func(*CreateAbsenceRequest)
		wantField string
	}{
		{
			name:      "missing start date",
			mutate:    func(r *CreateAbsenceRequest) { r.StartDate = "" },
			wantField: "startDate",
		},
		{
			name:      "malformed start date",
			mutate:    func(r *CreateAbsenceRequest) { r.StartDate = "10/03/2025" },
			wantField: "startDate",
		},
		{
			name:      "missing end date",
			mutate:    func(r *CreateAbsenceRequest) { r.EndDate = "" },
			wantField: "endDate",
		},
		{
			name: "end before start",
			mutate: func(r *CreateAbsenceRequest) {
				r.StartDate = "2025-03-12"
				r.EndDate = "2025-03-10"
			},
			wantField: "endDate",
		},
		{
			name:      "unknown sickness type",
			mutate:    func(r *CreateAbsenceRequest) { r.SicknessType = "vacation" },
			wantField: "sicknessType",
		},
		{
			name:      "missing reason",
			mutate:    func(r *CreateAbsenceRequest) { r.Reason = "" },
			wantField: "reason",
		},
		{
			name:      "reason too long",
			mutate:    func(r *CreateAbsenceRequest) { r.Reason = strings.Repeat("a", 1001) },
			wantField: "reason",
		},
		{
			name: "symptoms too long",
			mutate: func(r *CreateAbsenceRequest) {
				long := strings.Repeat("a", 1001)
				r.Symptoms = &long
			},
			wantField: "symptoms",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			tt.mutate(&req)

			err := req.Validate()
			require.Error(t, err)
			assert.Contains(t, failedFields(t, err), tt.wantField)
		})
	}
}

func TestCreateAbsenceRequest_DateOrderCheckedBeforeDuration(t *testing.T) {
	// An inverted range must be caught at validation, not surface later as a
	// duration error.
	req := validCreateRequest()
	req.StartDate = "2025-06-01"
	req.EndDate = "2025-05-01"

	err := req.Validate()
	require.Error(t, err)
	assert.Contains(t, failedFields(t, err), "endDate")
}

func TestApproveAbsenceRequest_Validate(t *testing.T) {
	req := ApproveAbsenceRequest{}
	assert.NoError(t, req.Validate())

	notes := "Looks fine"
	req.AdminNotes = &notes
	assert.NoError(t, req.Validate())

	long := strings.Repeat("a", 1001)
	req.AdminNotes = &long
	err := req.Validate()
	require.Error(t, err)
	assert.Contains(t, failedFields(t, err), "adminNotes")
}

func TestRejectAbsenceRequest_Validate(t *testing.T) {
	req := RejectAbsenceRequest{RejectionReason: "No cover available"}
	assert.NoError(t, req.Validate())

	req.RejectionReason = ""
	err := req.Validate()
	require.Error(t, err)
	assert.Contains(t, failedFields(t, err), "rejectionReason")
}

func TestReturnToWorkRequest_Validate(t *testing.T) {
	req := ReturnToWorkRequest{}
	assert.NoError(t, req.Validate())

	bad := "15-03-2025"
	req.ActualReturnDate = &bad
	err := req.Validate()
	require.Error(t, err)
	assert.Contains(t, failedFields(t, err), "actualReturnDate")
}

func TestListQuery_Validate(t *testing.T) {
	q := ListQuery{}
	assert.NoError(t, q.Validate())

	q = ListQuery{StartDate: "2025-01-01", EndDate: "2025-12-31", Status: "approved"}
	assert.NoError(t, q.Validate())

	q = ListQuery{Status: "cancelled"}
	err := q.Validate()
	require.Error(t, err)
	assert.Contains(t, failedFields(t, err), "status")

	q = ListQuery{StartDate: "not-a-date"}
	err = q.Validate()
	require.Error(t, err)
	assert.Contains(t, failedFields(t, err), "startDate")
}

func TestCategoryOrDefault(t *testing.T) {
	req := CreateAbsenceRequest{}
	assert.Equal(t, CategoryIllness, req.CategoryOrDefault())

	req.SicknessType = "mental-health"
	assert.Equal(t, CategoryMentalHealth, req.CategoryOrDefault())
}

func TestStatus(t *testing.T) {
	assert.True(t, StatusApproved.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusUnderReview.IsTerminal())

	assert.True(t, Status("under-review").IsValid())
	assert.False(t, Status("cancelled").IsValid())
}

func TestAbsenceRecord_Overlaps(t *testing.T) {
	record := AbsenceRecord{
		StartDate: mustDate("2025-03-10"),
		EndDate:   mustDate("2025-03-14"),
	}

	assert.True(t, record.Overlaps(mustDate("2025-03-12"), mustDate("2025-03-16")))
	assert.True(t, record.Overlaps(mustDate("2025-03-14"), mustDate("2025-03-20")), "shared endpoint overlaps")
	assert.True(t, record.Overlaps(mustDate("2025-03-01"), mustDate("2025-03-10")), "shared start overlaps")
	assert.False(t, record.Overlaps(mustDate("2025-03-15"), mustDate("2025-03-16")), "adjacent ranges do not overlap")
	assert.False(t, record.Overlaps(mustDate("2025-03-01"), mustDate("2025-03-09")))
}
