package banks

import (
	"time"

	"github.com/warp/loan-engine/loan"
)

// Holiday is a named non-business day.
type Holiday struct {
	Date loan.TimePoint
	Name string
}

// IndonesiaHolidays2025 returns the Indonesian public holidays for 2025.
// This is the default set loaded by scenarios and the holidays/defaults
// endpoint; deployments maintain the live list through the holiday API.
func IndonesiaHolidays2025() []Holiday {
	d := func(m time.Month, day int) loan.TimePoint { return loan.NewTimePoint(2025, m, day) }
	return []Holiday{
		{d(time.January, 1), "New Year's Day"},
		{d(time.January, 29), "Chinese New Year"},
		{d(time.March, 14), "Nyepi (Balinese New Year)"},
		{d(time.March, 29), "Maulid Nabi Muhammad"},
		{d(time.March, 31), "Easter Monday"},
		{d(time.April, 9), "Isra Miraj"},
		{d(time.May, 1), "Labour Day"},
		{d(time.May, 12), "Vesak Day"},
		{d(time.May, 29), "Ascension Day"},
		{d(time.June, 1), "Pancasila Day"},
		{d(time.June, 6), "Eid al-Fitr"},
		{d(time.June, 7), "Eid al-Fitr (second day)"},
		{d(time.June, 17), "Independence Day observance"},
		{d(time.August, 12), "Eid al-Adha"},
		{d(time.August, 17), "Independence Day"},
		{d(time.September, 1), "Islamic New Year"},
		{d(time.November, 10), "Prophet Muhammad's Birthday"},
		{d(time.December, 25), "Christmas Day"},
	}
}

// HolidayDates extracts just the dates, the form the calendar wants.
func HolidayDates(holidays []Holiday) []loan.TimePoint {
	dates := make([]loan.TimePoint, len(holidays))
	for i, h := range holidays {
		dates[i] = h.Date
	}
	return dates
}
