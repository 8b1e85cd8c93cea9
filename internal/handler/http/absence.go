package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/peoplekit/absence-backend-go/internal/domain/absence"
	"github.com/peoplekit/absence-backend-go/internal/domain/auth"
	"github.com/peoplekit/absence-backend-go/internal/domain/user"
	"github.com/peoplekit/absence-backend-go/internal/handler/http/response"
)

type AbsenceHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	ListForEmployee(w http.ResponseWriter, r *http.Request)
	ListPending(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	ReturnToWork(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type AbsenceHandlerImpl struct {
	absenceService absence.Service
}

func NewAbsenceHandler(absenceService absence.Service) AbsenceHandler {
	return &AbsenceHandlerImpl{absenceService: absenceService}
}

// createResponse is the creation payload. OverriddenOverlaps only appears
// when an admin filed past the overlap check.
type createResponse struct {
	absence.AbsenceResponse
	OverriddenOverlaps []absence.AbsenceResponse `json:"overriddenOverlaps,omitempty"`
}

// Create implements AbsenceHandler.
func (h *AbsenceHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := user.IdentityFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	var createReq absence.CreateAbsenceRequest
	if err := json.NewDecoder(r.Body).Decode(&createReq); err != nil {
		slog.Error("Create absence decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := createReq.Validate(); err != nil {
		slog.Error("Create absence validate error", "error", err)
		response.HandleError(w, err)
		return
	}

	result, err := h.absenceService.Create(r.Context(), actor, createReq)
	if err != nil {
		slog.Error("Create absence service error", "error", err)
		response.HandleError(w, err)
		return
	}

	payload := createResponse{AbsenceResponse: absence.ToResponse(result.Record)}
	if len(result.OverriddenOverlaps) > 0 {
		payload.OverriddenOverlaps = absence.ToResponses(result.OverriddenOverlaps)
	}

	slog.Info("Absence record created", "absence_id", result.Record.ID, "admin_created", result.Record.IsAdminCreated)
	response.Created(w, "Absence record created successfully", payload)
}

// GetByID implements AbsenceHandler.
func (h *AbsenceHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	actor, ok := user.IdentityFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	id := chi.URLParam(r, "id")
	record, err := h.absenceService.GetByID(r.Context(), actor, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, absence.ToResponse(record))
}

// employeeReportResponse bundles records, statistics, and the Bradford score.
type employeeReportResponse struct {
	Records    []absence.AbsenceResponse `json:"records"`
	Statistics absence.Statistics        `json:"statistics"`
	Bradford   absence.BradfordScore     `json:"bradfordFactor"`
}

// ListForEmployee implements AbsenceHandler.
func (h *AbsenceHandlerImpl) ListForEmployee(w http.ResponseWriter, r *http.Request) {
	actor, ok := user.IdentityFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	employeeID := chi.URLParam(r, "employeeID")

	query := absence.ListQuery{
		StartDate: r.URL.Query().Get("startDate"),
		EndDate:   r.URL.Query().Get("endDate"),
		Status:    r.URL.Query().Get("status"),
	}
	if err := query.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	report, err := h.absenceService.ListForEmployee(r.Context(), actor, employeeID, query)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, employeeReportResponse{
		Records:    absence.ToResponses(report.Records),
		Statistics: report.Statistics,
		Bradford:   report.Bradford,
	})
}

// ListPending implements AbsenceHandler.
func (h *AbsenceHandlerImpl) ListPending(w http.ResponseWriter, r *http.Request) {
	records, err := h.absenceService.ListPending(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, absence.ToResponses(records))
}

// Approve implements AbsenceHandler.
func (h *AbsenceHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	actor, ok := user.IdentityFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	// Body is optional: approving without notes uses the default comment.
	var approveReq absence.ApproveAbsenceRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&approveReq); err != nil {
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}
	if err := approveReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	record, err := h.absenceService.Approve(r.Context(), actor, id, approveReq.AdminNotes)
	if err != nil {
		slog.Error("Approve absence service error", "error", err, "absence_id", id)
		response.HandleError(w, err)
		return
	}

	slog.Info("Absence record approved", "absence_id", id)
	response.SuccessWithMessage(w, "Absence record approved", absence.ToResponse(record))
}

// Reject implements AbsenceHandler.
func (h *AbsenceHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	actor, ok := user.IdentityFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	var rejectReq absence.RejectAbsenceRequest
	if err := json.NewDecoder(r.Body).Decode(&rejectReq); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := rejectReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	record, err := h.absenceService.Reject(r.Context(), actor, id, rejectReq.RejectionReason)
	if err != nil {
		slog.Error("Reject absence service error", "error", err, "absence_id", id)
		response.HandleError(w, err)
		return
	}

	slog.Info("Absence record rejected", "absence_id", id)
	response.SuccessWithMessage(w, "Absence record rejected", absence.ToResponse(record))
}

// ReturnToWork implements AbsenceHandler.
func (h *AbsenceHandlerImpl) ReturnToWork(w http.ResponseWriter, r *http.Request) {
	actor, ok := user.IdentityFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	var rtwReq absence.ReturnToWorkRequest
	if err := json.NewDecoder(r.Body).Decode(&rtwReq); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := rtwReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	record, err := h.absenceService.SetReturnToWork(r.Context(), actor, id, rtwReq)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Return to work recorded", absence.ToResponse(record))
}

// Delete implements AbsenceHandler.
func (h *AbsenceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.absenceService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Absence record deleted", "absence_id", id)
	response.SuccessWithMessage(w, "Absence record deleted", nil)
}
