/*
calendar.go - Business-day calendar for transaction placement

PURPOSE:
  Banks only transact on business days. Every segment boundary the generator
  produces must land on a business day (a single-day segment stuck on a
  weekend is the one permitted exception). The calendar answers point
  queries against a fixed holiday set plus the weekend rule.

DESIGN:
  The calendar is immutable after construction. It holds a set of holiday
  dates for a region/year; weekends are implicit. Scans for the next or
  previous business day are bounded so a pathological holiday set cannot
  loop forever.

USAGE:
  cal := loan.NewBusinessCalendar(banks.IndonesiaHolidays2025())
  cal.IsBusinessDay(date)
  cal.NextBusinessDay(date)

SEE ALSO:
  - generator.go: Uses the calendar for segment end adjustment and gaps
  - banks/holidays.go: Default Indonesian holiday set
*/
package loan

// maxCalendarScan bounds business-day searches. No real calendar has more
// consecutive non-business days than this.
const maxCalendarScan = 30

// BusinessCalendar is an immutable set of holidays plus the weekend rule.
type BusinessCalendar struct {
	holidays map[TimePoint]struct{}
}

// NewBusinessCalendar builds a calendar from a fixed holiday list.
// The list is copied; later mutation of the slice has no effect.
func NewBusinessCalendar(holidays []TimePoint) *BusinessCalendar {
	set := make(map[TimePoint]struct{}, len(holidays))
	for _, h := range holidays {
		set[h] = struct{}{}
	}
	return &BusinessCalendar{holidays: set}
}

// IsHoliday reports whether the date is in the holiday set.
func (c *BusinessCalendar) IsHoliday(tp TimePoint) bool {
	_, ok := c.holidays[tp]
	return ok
}

// IsBusinessDay reports whether the date is neither a weekend nor a holiday.
func (c *BusinessCalendar) IsBusinessDay(tp TimePoint) bool {
	return !tp.IsWeekend() && !c.IsHoliday(tp)
}

// NextBusinessDay returns the first business day strictly after the date.
func (c *BusinessCalendar) NextBusinessDay(tp TimePoint) TimePoint {
	next := tp.AddDays(1)
	for i := 0; !c.IsBusinessDay(next) && i < maxCalendarScan; i++ {
		next = next.AddDays(1)
	}
	return next
}

// LastBusinessDayBefore returns the last business day strictly before the date.
func (c *BusinessCalendar) LastBusinessDayBefore(tp TimePoint) TimePoint {
	prev := tp.AddDays(-1)
	for i := 0; !c.IsBusinessDay(prev) && i < maxCalendarScan; i++ {
		prev = prev.AddDays(-1)
	}
	return prev
}

// FirstBusinessDayAfter returns the first business day strictly after the
// date. Alias of NextBusinessDay kept for symmetry with LastBusinessDayBefore;
// validator correction logic reads better with the pair.
func (c *BusinessCalendar) FirstBusinessDayAfter(tp TimePoint) TimePoint {
	return c.NextBusinessDay(tp)
}
