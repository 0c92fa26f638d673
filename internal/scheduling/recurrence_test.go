package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelir/CRM-SchedulingService/internal/domain"
)

func TestExpand_Weekly(t *testing.T) {
	start := time.Date(2026, 4, 6, 10, 30, 0, 0, time.UTC) // Monday

	occurrences, err := Expand(start, domain.RecurrenceConfig{Frequency: domain.FrequencyWeekly, Count: 5})
	require.NoError(t, err)
	require.Len(t, occurrences, 5)

	for i, occ := range occurrences {
		assert.Equal(t, start.AddDate(0, 0, 7*i), occ, "occurrence %d", i)
		assert.Equal(t, time.Monday, occ.Weekday())
		assert.Equal(t, 10, occ.Hour())
		assert.Equal(t, 30, occ.Minute())
	}
}

func TestExpand_Biweekly(t *testing.T) {
	start := time.Date(2026, 4, 6, 9, 0, 0, 0, time.UTC)

	occurrences, err := Expand(start, domain.RecurrenceConfig{Frequency: domain.FrequencyBiweekly, Count: 3})
	require.NoError(t, err)
	require.Len(t, occurrences, 3)

	assert.Equal(t, start, occurrences[0])
	assert.Equal(t, start.AddDate(0, 0, 14), occurrences[1])
	assert.Equal(t, start.AddDate(0, 0, 28), occurrences[2])
}

func TestExpand_MonthlySimple(t *testing.T) {
	start := time.Date(2026, 4, 15, 14, 0, 0, 0, time.UTC)

	occurrences, err := Expand(start, domain.RecurrenceConfig{Frequency: domain.FrequencyMonthly, Count: 4})
	require.NoError(t, err)

	wantDays := []time.Time{
		start,
		time.Date(2026, 5, 15, 14, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 15, 14, 0, 0, 0, time.UTC),
		time.Date(2026, 7, 15, 14, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, wantDays, occurrences)
}

func TestExpand_MonthlyClampsShortMonths(t *testing.T) {
	// Jan 31 anchor: February clamps to its last day, March returns to 31
	start := time.Date(2026, 1, 31, 11, 0, 0, 0, time.UTC)

	occurrences, err := Expand(start, domain.RecurrenceConfig{Frequency: domain.FrequencyMonthly, Count: 3})
	require.NoError(t, err)

	assert.Equal(t, start, occurrences[0])
	assert.Equal(t, time.Date(2026, 2, 28, 11, 0, 0, 0, time.UTC), occurrences[1])
	assert.Equal(t, time.Date(2026, 3, 31, 11, 0, 0, 0, time.UTC), occurrences[2])
}

func TestExpand_MonthlyClampLeapYear(t *testing.T) {
	start := time.Date(2028, 1, 31, 8, 0, 0, 0, time.UTC)

	occurrences, err := Expand(start, domain.RecurrenceConfig{Frequency: domain.FrequencyMonthly, Count: 2})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2028, 2, 29, 8, 0, 0, 0, time.UTC), occurrences[1])
}

func TestExpand_MonthlyAcrossYearBoundary(t *testing.T) {
	start := time.Date(2026, 11, 30, 16, 0, 0, 0, time.UTC)

	occurrences, err := Expand(start, domain.RecurrenceConfig{Frequency: domain.FrequencyMonthly, Count: 4})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 12, 30, 16, 0, 0, 0, time.UTC), occurrences[1])
	assert.Equal(t, time.Date(2027, 1, 30, 16, 0, 0, 0, time.UTC), occurrences[2])
	assert.Equal(t, time.Date(2027, 2, 28, 16, 0, 0, 0, time.UTC), occurrences[3])
}

func TestExpand_CountBounds(t *testing.T) {
	start := time.Date(2026, 4, 6, 10, 0, 0, 0, time.UTC)

	_, err := Expand(start, domain.RecurrenceConfig{Frequency: domain.FrequencyWeekly, Count: 1})
	assert.ErrorIs(t, err, ErrInvalidRecurrenceCount)

	_, err = Expand(start, domain.RecurrenceConfig{Frequency: domain.FrequencyWeekly, Count: 53})
	assert.ErrorIs(t, err, ErrInvalidRecurrenceCount)

	occurrences, err := Expand(start, domain.RecurrenceConfig{Frequency: domain.FrequencyWeekly, Count: 52})
	require.NoError(t, err)
	assert.Len(t, occurrences, 52)
}

func TestExpand_InvalidFrequency(t *testing.T) {
	start := time.Date(2026, 4, 6, 10, 0, 0, 0, time.UTC)

	_, err := Expand(start, domain.RecurrenceConfig{Frequency: "daily", Count: 3})
	assert.ErrorIs(t, err, ErrInvalidFrequency)
}

func TestEndDate(t *testing.T) {
	start := time.Date(2026, 4, 6, 10, 0, 0, 0, time.UTC)

	end, err := EndDate(start, domain.RecurrenceConfig{Frequency: domain.FrequencyWeekly, Count: 4})
	require.NoError(t, err)
	assert.Equal(t, start.AddDate(0, 0, 21), end)
}
