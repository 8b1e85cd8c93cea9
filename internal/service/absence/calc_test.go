package absence

import (
	"testing"
	"time"

	"github.com/peoplekit/absence-backend-go/internal/domain/absence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func TestCalculateDays(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		want  int
	}{
		{name: "single day counts as one", start: "2025-03-10", end: "2025-03-10", want: 1},
		{name: "both endpoints count", start: "2025-03-10", end: "2025-03-12", want: 3},
		{name: "full week", start: "2025-03-10", end: "2025-03-16", want: 7},
		{name: "crosses month boundary", start: "2025-01-30", end: "2025-02-02", want: 4},
		{name: "crosses year boundary", start: "2024-12-30", end: "2025-01-02", want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateDays(day(tt.start), day(tt.end))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculateDays_EndBeforeStart(t *testing.T) {
	_, err := CalculateDays(day("2025-03-12"), day("2025-03-10"))
	assert.ErrorIs(t, err, absence.ErrEndBeforeStart)
}

func TestRequiresDocumentation(t *testing.T) {
	tests := []struct {
		name      string
		days      int
		requested bool
		want      bool
	}{
		{name: "short absence without request", days: 3, requested: false, want: false},
		{name: "short absence with request", days: 3, requested: true, want: true},
		{name: "just under threshold", days: 4, requested: false, want: false},
		{name: "threshold forces flag", days: 5, requested: false, want: true},
		{name: "threshold never cleared by caller", days: 5, requested: true, want: true},
		{name: "long absence", days: 14, requested: false, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RequiresDocumentation(tt.days, tt.requested))
		})
	}
}
