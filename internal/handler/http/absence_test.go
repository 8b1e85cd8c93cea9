package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/peoplekit/absence-backend-go/internal/domain/absence"
	"github.com/peoplekit/absence-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAbsenceService struct {
	createResult  absence.CreateResult
	createErr     error
	record        absence.AbsenceRecord
	recordErr     error
	report        absence.EmployeeReport
	reportErr     error
	pending       []absence.AbsenceRecord
	resolveRecord absence.AbsenceRecord
	resolveErr    error
	deleteErr     error

	createCalled bool
}

func (s *stubAbsenceService) Create(_ context.Context, _ user.Identity, _ absence.CreateAbsenceRequest) (absence.CreateResult, error) {
	s.createCalled = true
	return s.createResult, s.createErr
}

func (s *stubAbsenceService) GetByID(_ context.Context, _ user.Identity, _ string) (absence.AbsenceRecord, error) {
	return s.record, s.recordErr
}

func (s *stubAbsenceService) ListForEmployee(_ context.Context, _ user.Identity, _ string, _ absence.ListQuery) (absence.EmployeeReport, error) {
	return s.report, s.reportErr
}

func (s *stubAbsenceService) ListPending(_ context.Context) ([]absence.AbsenceRecord, error) {
	return s.pending, nil
}

func (s *stubAbsenceService) Approve(_ context.Context, _ user.Identity, _ string, _ *string) (absence.AbsenceRecord, error) {
	return s.resolveRecord, s.resolveErr
}

func (s *stubAbsenceService) Reject(_ context.Context, _ user.Identity, _ string, _ string) (absence.AbsenceRecord, error) {
	return s.resolveRecord, s.resolveErr
}

func (s *stubAbsenceService) SetReturnToWork(_ context.Context, _ user.Identity, _ string, _ absence.ReturnToWorkRequest) (absence.AbsenceRecord, error) {
	return s.resolveRecord, s.resolveErr
}

func (s *stubAbsenceService) Delete(_ context.Context, _ string) error {
	return s.deleteErr
}

func newAbsenceTestRouter(svc absence.Service) *chi.Mux {
	h := NewAbsenceHandler(svc)
	r := chi.NewRouter()
	r.Post("/sickness/create", h.Create)
	r.Get("/sickness/employee/{employeeID}", h.ListForEmployee)
	r.Get("/sickness/{id}", h.GetByID)
	r.Patch("/sickness/{id}/approve", h.Approve)
	r.Patch("/sickness/{id}/reject", h.Reject)
	return r
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func doRequest(t *testing.T, router http.Handler, method, target string, body interface{}, identity *user.Identity) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	if identity != nil {
		req = req.WithContext(user.NewContext(req.Context(), *identity))
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func testIdentity() *user.Identity {
	employeeID := "emp-dana"
	return &user.Identity{
		UserID:     "user-dana",
		Email:      "dana@example.com",
		EmployeeID: &employeeID,
		Role:       user.RoleEmployee,
	}
}

func TestAbsenceCreate_Success(t *testing.T) {
	svc := &stubAbsenceService{
		createResult: absence.CreateResult{Record: absence.AbsenceRecord{
			ID:           "rec-1",
			EmployeeID:   "emp-dana",
			StartDate:    time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			EndDate:      time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
			NumberOfDays: 3,
			Category:     absence.CategoryIllness,
			Status:       absence.StatusPending,
		}},
	}
	router := newAbsenceTestRouter(svc)

	rec, env := doRequest(t, router, http.MethodPost, "/sickness/create", map[string]string{
		"startDate": "2025-03-10",
		"endDate":   "2025-03-12",
		"reason":    "Flu",
	}, testIdentity())

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "pending", data["approvalStatus"])
	assert.Equal(t, float64(3), data["numberOfDays"])
	assert.NotContains(t, data, "overriddenOverlaps")
}

func TestAbsenceCreate_OverlapConflict(t *testing.T) {
	svc := &stubAbsenceService{
		createErr: &absence.OverlapError{Records: []absence.AbsenceRecord{{
			ID:         "rec-existing",
			EmployeeID: "emp-dana",
			StartDate:  time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			EndDate:    time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
			Status:     absence.StatusApproved,
		}}},
	}
	router := newAbsenceTestRouter(svc)

	rec, env := doRequest(t, router, http.MethodPost, "/sickness/create", map[string]string{
		"startDate": "2025-03-12",
		"endDate":   "2025-03-16",
		"reason":    "Relapse",
	}, testIdentity())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	// The colliding records ride along in data.
	var conflicting []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &conflicting))
	require.Len(t, conflicting, 1)
	assert.Equal(t, "rec-existing", conflicting[0]["id"])
}

func TestAbsenceCreate_ValidationFailure(t *testing.T) {
	svc := &stubAbsenceService{}
	router := newAbsenceTestRouter(svc)

	rec, env := doRequest(t, router, http.MethodPost, "/sickness/create", map[string]string{
		"startDate": "2025-03-12",
		"endDate":   "2025-03-10",
		"reason":    "Flu",
	}, testIdentity())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Contains(t, env.Error.Details, "endDate")
	assert.False(t, svc.createCalled, "validation failures must not reach the service")
}

func TestAbsenceCreate_MissingIdentity(t *testing.T) {
	router := newAbsenceTestRouter(&stubAbsenceService{})

	rec, env := doRequest(t, router, http.MethodPost, "/sickness/create", map[string]string{
		"startDate": "2025-03-10",
		"endDate":   "2025-03-12",
		"reason":    "Flu",
	}, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
}

func TestAbsenceApprove_InvalidState(t *testing.T) {
	svc := &stubAbsenceService{
		resolveErr: &absence.InvalidStateError{Current: absence.StatusApproved},
	}
	router := newAbsenceTestRouter(svc)

	rec, env := doRequest(t, router, http.MethodPatch, "/sickness/rec-1/approve", nil, testIdentity())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "BAD_REQUEST", env.Error.Code)
	assert.Contains(t, env.Error.Message, "approved")
}

func TestAbsenceApprove_NoBodyUsesDefaults(t *testing.T) {
	svc := &stubAbsenceService{
		resolveRecord: absence.AbsenceRecord{
			ID:        "rec-1",
			StartDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
			Status:    absence.StatusApproved,
		},
	}
	router := newAbsenceTestRouter(svc)

	rec, env := doRequest(t, router, http.MethodPatch, "/sickness/rec-1/approve", nil, testIdentity())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
}

func TestAbsenceReject_RequiresReason(t *testing.T) {
	router := newAbsenceTestRouter(&stubAbsenceService{})

	rec, env := doRequest(t, router, http.MethodPatch, "/sickness/rec-1/reject", map[string]string{}, testIdentity())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Contains(t, env.Error.Details, "rejectionReason")
}

func TestAbsenceGetByID_NotFound(t *testing.T) {
	svc := &stubAbsenceService{recordErr: absence.ErrRecordNotFound}
	router := newAbsenceTestRouter(svc)

	rec, env := doRequest(t, router, http.MethodGet, "/sickness/rec-missing", nil, testIdentity())

	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestAbsenceListForEmployee_Forbidden(t *testing.T) {
	svc := &stubAbsenceService{reportErr: user.ErrInsufficientPermissions}
	router := newAbsenceTestRouter(svc)

	rec, env := doRequest(t, router, http.MethodGet, "/sickness/employee/emp-other", nil, testIdentity())

	assert.Equal(t, http.StatusForbidden, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)
}

func TestAbsenceListForEmployee_BadStatusFilter(t *testing.T) {
	router := newAbsenceTestRouter(&stubAbsenceService{})

	rec, env := doRequest(t, router, http.MethodGet, "/sickness/employee/emp-dana?status=cancelled", nil, testIdentity())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}
