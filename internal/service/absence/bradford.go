package absence

import (
	"time"

	"github.com/peoplekit/absence-backend-go/internal/domain/absence"
)

const (
	bradfordMediumThreshold = 50
	bradfordHighThreshold   = 200
)

// CalculateBradford computes the Bradford Factor over the approved spells
// whose start date falls inside [windowStart, windowEnd]:
//
//	factor = spells^2 * totalDays
//
// Frequent short absences therefore score far higher than one long spell.
func CalculateBradford(records []absence.AbsenceRecord, windowStart, windowEnd time.Time) absence.BradfordScore {
	var spells, days int
	for _, r := range records {
		if r.Status != absence.StatusApproved {
			continue
		}
		if r.StartDate.Before(windowStart) || r.StartDate.After(windowEnd) {
			continue
		}
		spells++
		days += r.NumberOfDays
	}

	factor := spells * spells * days
	return absence.BradfordScore{
		TotalSpells:    spells,
		TotalDays:      days,
		BradfordFactor: factor,
		RiskLevel:      ClassifyRisk(factor),
	}
}

// ClassifyRisk buckets a Bradford Factor score. Boundaries are closed on the
// low end: exactly 50 is medium, exactly 200 is high.
func ClassifyRisk(factor int) absence.RiskLevel {
	switch {
	case factor < bradfordMediumThreshold:
		return absence.RiskLow
	case factor < bradfordHighThreshold:
		return absence.RiskMedium
	default:
		return absence.RiskHigh
	}
}
