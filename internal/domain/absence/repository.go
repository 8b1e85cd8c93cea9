package absence

import (
	"context"
	"time"

	"github.com/peoplekit/absence-backend-go/internal/domain/user"
)

// ListFilter narrows ListByEmployee results.
type ListFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Status    *Status
}

// Resolution is the payload of the conditional update that moves a pending
// record to a terminal state.
type Resolution struct {
	ID              string
	Status          Status // StatusApproved or StatusRejected
	ActorUserID     string
	ActorRole       user.Role
	Comments        *string
	RejectionReason *string
	ResolvedAt      time.Time
}

// ReturnToWork holds the optional return-to-work annotations.
type ReturnToWork struct {
	ActualReturnDate      *time.Time
	FitForWork            *bool
	RestrictionsOnReturn  *string
	DocumentationProvided *bool
}

// AbsenceRepository - interface for absence_records table
type AbsenceRepository interface {
	Create(ctx context.Context, record AbsenceRecord) (AbsenceRecord, error)
	GetByID(ctx context.Context, id string) (AbsenceRecord, error)
	ListByEmployee(ctx context.Context, employeeID string, filter ListFilter) ([]AbsenceRecord, error)
	ListPending(ctx context.Context) ([]AbsenceRecord, error)
	// FindOverlapping returns the employee's records in {pending, approved}
	// whose inclusive date range intersects [start, end], optionally
	// excluding one record id.
	FindOverlapping(ctx context.Context, employeeID string, start, end time.Time, excludeID *string) ([]AbsenceRecord, error)
	// Resolve applies the resolution only if the record is still pending and
	// returns the updated record. pgx.ErrNoRows means the record was missing
	// or no longer pending; callers re-read to tell the two apart.
	Resolve(ctx context.Context, res Resolution) (AbsenceRecord, error)
	UpdateReturnToWork(ctx context.Context, id string, rtw ReturnToWork) (AbsenceRecord, error)
	Delete(ctx context.Context, id string) error
	// ListApprovedStartingBetween returns approved records whose start date
	// falls inside [from, to], feeding the Bradford Factor window.
	ListApprovedStartingBetween(ctx context.Context, employeeID string, from, to time.Time) ([]AbsenceRecord, error)
}
