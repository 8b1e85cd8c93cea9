package absence

import (
	"github.com/peoplekit/absence-backend-go/internal/domain/absence"
)

// CalculateStatistics summarises a set of absence records. The caller decides
// the window; every record passed in is counted.
func CalculateStatistics(records []absence.AbsenceRecord) absence.Statistics {
	var stats absence.Statistics
	stats.TotalIncidents = len(records)

	for _, r := range records {
		switch r.Status {
		case absence.StatusApproved:
			stats.ApprovedIncidents++
			stats.TotalApprovedDays += r.NumberOfDays
			if r.RequiresDocumentation {
				if r.DocumentationProvided {
					stats.DocumentationProvided++
				} else {
					stats.DocumentationMissing++
				}
			}
		case absence.StatusPending:
			stats.PendingIncidents++
		case absence.StatusRejected:
			stats.RejectedIncidents++
		}
	}

	if stats.ApprovedIncidents > 0 {
		stats.AverageDaysPerIncident = float64(stats.TotalApprovedDays) / float64(stats.ApprovedIncidents)
	}

	return stats
}
