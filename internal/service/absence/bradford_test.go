package absence

import (
	"testing"

	"github.com/peoplekit/absence-backend-go/internal/domain/absence"
	"github.com/stretchr/testify/assert"
)

func approvedSpell(start, end string, days int) absence.AbsenceRecord {
	return absence.AbsenceRecord{
		StartDate:    day(start),
		EndDate:      day(end),
		NumberOfDays: days,
		Status:       absence.StatusApproved,
	}
}

func TestCalculateBradford(t *testing.T) {
	windowStart := day("2025-01-01")
	windowEnd := day("2025-12-31")

	tests := []struct {
		name       string
		records    []absence.AbsenceRecord
		wantSpells int
		wantDays   int
		wantFactor int
		wantRisk   absence.RiskLevel
	}{
		{
			name:       "no absences",
			records:    nil,
			wantSpells: 0,
			wantDays:   0,
			wantFactor: 0,
			wantRisk:   absence.RiskLow,
		},
		{
			name: "two spells over eight days",
			records: []absence.AbsenceRecord{
				approvedSpell("2025-02-03", "2025-02-07", 5),
				approvedSpell("2025-06-10", "2025-06-12", 3),
			},
			wantSpells: 2,
			wantDays:   8,
			wantFactor: 32,
			wantRisk:   absence.RiskLow,
		},
		{
			name: "one long spell scores low",
			records: []absence.AbsenceRecord{
				approvedSpell("2025-03-01", "2025-03-14", 14),
			},
			wantSpells: 1,
			wantDays:   14,
			wantFactor: 14,
			wantRisk:   absence.RiskLow,
		},
		{
			name: "frequent short spells score high",
			records: []absence.AbsenceRecord{
				approvedSpell("2025-01-06", "2025-01-07", 2),
				approvedSpell("2025-03-03", "2025-03-04", 2),
				approvedSpell("2025-05-05", "2025-05-06", 2),
				approvedSpell("2025-07-07", "2025-07-08", 2),
				approvedSpell("2025-09-08", "2025-09-09", 2),
			},
			wantSpells: 5,
			wantDays:   10,
			wantFactor: 250,
			wantRisk:   absence.RiskHigh,
		},
		{
			name: "spell starting before the window is excluded",
			records: []absence.AbsenceRecord{
				approvedSpell("2024-12-29", "2025-01-03", 6),
				approvedSpell("2025-04-14", "2025-04-16", 3),
			},
			wantSpells: 1,
			wantDays:   3,
			wantFactor: 3,
			wantRisk:   absence.RiskLow,
		},
		{
			name: "non-approved spells are excluded",
			records: []absence.AbsenceRecord{
				approvedSpell("2025-02-03", "2025-02-05", 3),
				{StartDate: day("2025-03-03"), EndDate: day("2025-03-05"), NumberOfDays: 3, Status: absence.StatusPending},
				{StartDate: day("2025-04-07"), EndDate: day("2025-04-09"), NumberOfDays: 3, Status: absence.StatusRejected},
			},
			wantSpells: 1,
			wantDays:   3,
			wantFactor: 3,
			wantRisk:   absence.RiskLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateBradford(tt.records, windowStart, windowEnd)
			assert.Equal(t, tt.wantSpells, got.TotalSpells)
			assert.Equal(t, tt.wantDays, got.TotalDays)
			assert.Equal(t, tt.wantFactor, got.BradfordFactor)
			assert.Equal(t, tt.wantRisk, got.RiskLevel)
		})
	}
}

func TestClassifyRisk(t *testing.T) {
	tests := []struct {
		factor int
		want   absence.RiskLevel
	}{
		{factor: 0, want: absence.RiskLow},
		{factor: 49, want: absence.RiskLow},
		{factor: 50, want: absence.RiskMedium},
		{factor: 199, want: absence.RiskMedium},
		{factor: 200, want: absence.RiskHigh},
		{factor: 1000, want: absence.RiskHigh},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyRisk(tt.factor), "factor %d", tt.factor)
	}
}
