package loan_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/warp/loan-engine/loan"
)

// Calendar fixture around the late-May 2025 long weekend:
//
//	Thu 2025-05-29  Ascension Day (holiday)
//	Sat 2025-05-31  weekend
//	Sun 2025-06-01  weekend + Pancasila Day
func testCalendar() *loan.BusinessCalendar {
	return loan.NewBusinessCalendar([]loan.TimePoint{
		loan.NewTimePoint(2025, time.May, 29),
		loan.NewTimePoint(2025, time.June, 1),
	})
}

func TestIsBusinessDay(t *testing.T) {
	cal := testCalendar()

	assert.True(t, cal.IsBusinessDay(loan.NewTimePoint(2025, time.May, 28)))  // Wednesday
	assert.False(t, cal.IsBusinessDay(loan.NewTimePoint(2025, time.May, 29))) // holiday
	assert.True(t, cal.IsBusinessDay(loan.NewTimePoint(2025, time.May, 30)))  // Friday
	assert.False(t, cal.IsBusinessDay(loan.NewTimePoint(2025, time.May, 31))) // Saturday
	assert.False(t, cal.IsBusinessDay(loan.NewTimePoint(2025, time.June, 1))) // Sunday
}

func TestIsHoliday_WeekendIsNotHoliday(t *testing.T) {
	cal := testCalendar()
	assert.True(t, cal.IsHoliday(loan.NewTimePoint(2025, time.May, 29)))
	assert.False(t, cal.IsHoliday(loan.NewTimePoint(2025, time.May, 31)))
}

func TestNextBusinessDay_SkipsHolidayAndWeekend(t *testing.T) {
	cal := testCalendar()

	// From Friday May 30, the next business day is Monday June 2:
	// Sat + Sun/Pancasila in between.
	next := cal.NextBusinessDay(loan.NewTimePoint(2025, time.May, 30))
	assert.Equal(t, "2025-06-02", next.String())

	// Strictly after: asking from a business day never returns the same day.
	next = cal.NextBusinessDay(loan.NewTimePoint(2025, time.May, 27))
	assert.Equal(t, "2025-05-28", next.String())
}

func TestLastBusinessDayBefore(t *testing.T) {
	cal := testCalendar()

	// Before Saturday May 31: Thursday is a holiday, so Friday May 30.
	last := cal.LastBusinessDayBefore(loan.NewTimePoint(2025, time.May, 31))
	assert.Equal(t, "2025-05-30", last.String())

	// Before the holiday itself: Wednesday May 28.
	last = cal.LastBusinessDayBefore(loan.NewTimePoint(2025, time.May, 29))
	assert.Equal(t, "2025-05-28", last.String())
}

func TestFirstBusinessDayAfter(t *testing.T) {
	cal := testCalendar()
	first := cal.FirstBusinessDayAfter(loan.NewTimePoint(2025, time.May, 28))
	assert.Equal(t, "2025-05-30", first.String())
}
