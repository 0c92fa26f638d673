package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weekdayTemplate() BusinessHours {
	hours := BusinessHours{TenantID: 1, Timezone: "UTC"}
	for d := time.Monday; d <= time.Friday; d++ {
		hours.Days[d] = DayHours{Enabled: true, Open: "09:00", Close: "18:00"}
	}
	hours.Days[time.Saturday] = DayHours{Enabled: true, Open: "10:00", Close: "14:00"}
	// Sunday disabled
	return hours
}

func TestBusinessHours_HoursFor_Weekday(t *testing.T) {
	hours := weekdayTemplate()

	// 2026-04-01 is a Wednesday
	day, open := hours.HoursFor(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), nil)
	require.True(t, open)
	assert.Equal(t, "09:00", day.Open.String())
	assert.Equal(t, "18:00", day.Close.String())
}

func TestBusinessHours_HoursFor_DisabledWeekday(t *testing.T) {
	hours := weekdayTemplate()

	// 2026-04-05 is a Sunday with no template entry
	_, open := hours.HoursFor(time.Date(2026, 4, 5, 0, 0, 0, 0, time.UTC), nil)
	assert.False(t, open)
}

func TestBusinessHours_HoursFor_WeekendOverride(t *testing.T) {
	hours := weekdayTemplate()
	hours.SaturdayOverride = &DayHours{Enabled: true, Open: "11:00", Close: "13:00"}
	hours.SundayOverride = &DayHours{Enabled: false}

	// 2026-04-04 is a Saturday: сработает override, а не шаблон
	day, open := hours.HoursFor(time.Date(2026, 4, 4, 0, 0, 0, 0, time.UTC), nil)
	require.True(t, open)
	assert.Equal(t, "11:00", day.Open.String())
	assert.Equal(t, "13:00", day.Close.String())

	// Sunday override disables the day regardless of template
	_, open = hours.HoursFor(time.Date(2026, 4, 5, 0, 0, 0, 0, time.UTC), nil)
	assert.False(t, open)
}

func TestBusinessHours_HoursFor_Holidays(t *testing.T) {
	hours := weekdayTemplate()
	holidays := []Holiday{{TenantID: 1, Date: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), Name: "Founders Day"}}

	// Without the blocking flag holidays are ignored
	_, open := hours.HoursFor(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), holidays)
	assert.True(t, open)

	hours.BlockHolidays = true
	_, open = hours.HoursFor(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), holidays)
	assert.False(t, open)

	// Other dates unaffected
	_, open = hours.HoursFor(time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC), holidays)
	assert.True(t, open)
}

func TestBusinessHours_HoursFor_MalformedWindow(t *testing.T) {
	hours := weekdayTemplate()
	hours.Days[time.Monday] = DayHours{Enabled: true, Open: "18:00", Close: "09:00"}

	// 2026-04-06 is a Monday
	_, open := hours.HoursFor(time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC), nil)
	assert.False(t, open)
}

func TestBusinessHours_Location(t *testing.T) {
	hours := BusinessHours{Timezone: "Europe/Berlin"}
	assert.Equal(t, "Europe/Berlin", hours.Location().String())

	hours.Timezone = ""
	assert.Equal(t, time.UTC, hours.Location())

	hours.Timezone = "Not/AZone"
	assert.Equal(t, time.UTC, hours.Location())
}

func TestAssignmentTarget_Matches(t *testing.T) {
	profID := int64(5)
	resID := int64(9)

	withProf := &Appointment{ProfessionalID: &profID}
	withRes := &Appointment{ResourceID: &resID}
	bare := &Appointment{}

	assert.True(t, ProfessionalTarget(5).Matches(withProf))
	assert.False(t, ProfessionalTarget(6).Matches(withProf))
	assert.False(t, ProfessionalTarget(5).Matches(withRes))

	assert.True(t, ResourceTarget(9).Matches(withRes))
	assert.False(t, ResourceTarget(9).Matches(bare))

	assert.True(t, NoTarget().Matches(bare))
	assert.False(t, NoTarget().Matches(withProf))
}
