package absence

import (
	"time"

	"github.com/peoplekit/absence-backend-go/internal/domain/absence"
)

// CalculateDays returns the inclusive day count between start and end at day
// granularity: both endpoints count, so a single-day absence is 1.
func CalculateDays(start, end time.Time) (int, error) {
	if end.Before(start) {
		return 0, absence.ErrEndBeforeStart
	}
	return int(end.Sub(start)/(24*time.Hour)) + 1, nil
}

// RequiresDocumentation derives the documentation flag. A request at or above
// the threshold is forced to require documentation regardless of caller
// input; the flag is never cleared automatically.
func RequiresDocumentation(numberOfDays int, requested bool) bool {
	if numberOfDays >= absence.DocumentationThresholdDays {
		return true
	}
	return requested
}
