package absence

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound   = errors.New("absence record not found")
	ErrEndBeforeStart   = errors.New("end date is before start date")
	ErrRecurrenceTarget = errors.New("linked earlier sickness record not found")
)

// OverlapError is returned when a new request intersects an existing
// pending or approved record for the same employee. It carries the
// conflicting records so the caller can surface them.
type OverlapError struct {
	Records []AbsenceRecord
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("absence request overlaps %d existing record(s) for this employee", len(e.Records))
}

// InvalidStateError is returned when approve/reject is attempted on a record
// that is no longer pending. The message always names the current status.
type InvalidStateError struct {
	Current Status
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("absence record cannot be resolved: current status is %q, expected %q", e.Current, StatusPending)
}
