package rules

import (
	"fmt"
	"time"

	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/decoration"
)

// Clock returns the real-world time calendar rules compare against.
type Clock func() time.Time

// Window qualifies on any duty while the real-world date lies in
// [from, until).
type Window struct {
	decoration.Base
	from, until time.Time
	now         Clock
}

func newWindow(code, name, description string, from, until time.Time, prestige int, now Clock) *Window {
	return &Window{
		Base:  decoration.NewBase(code, name, prestige, false).WithDescription(description),
		from:  from,
		until: until,
		now:   now,
	}
}

func (d *Window) open() bool {
	t := d.now()
	return !t.Before(d.from) && t.Before(d.until)
}

func (d *Window) CheckVesselTransition(previous, current *decoration.VesselState) bool {
	return d.open()
}

func (d *Window) CheckEventReport(decoration.EventReport) bool {
	return d.open()
}

func (d *Window) CheckSubjectSummary(s decoration.Summary) bool {
	return s.Crew != nil && d.open()
}

// DayOfYear qualifies on any duty on a recurring day range. The range may
// not wrap around the end of the year.
type DayOfYear struct {
	decoration.Base
	firstDay, firstMonth int
	lastDay, lastMonth   int
	now                  Clock
}

func newDayOfYear(firstDay, firstMonth, lastDay, lastMonth int, name, description string, prestige int, now Clock) *DayOfYear {
	code := fmt.Sprintf("Y:%d.%d-%d.%d", firstDay, firstMonth, lastDay, lastMonth)
	return &DayOfYear{
		Base:       decoration.NewBase(code, name, prestige, false).WithDescription(description),
		firstDay:   firstDay,
		firstMonth: firstMonth,
		lastDay:    lastDay,
		lastMonth:  lastMonth,
		now:        now,
	}
}

func (d *DayOfYear) open() bool {
	t := d.now()
	month, day := int(t.Month()), t.Day()
	if month < d.firstMonth || month > d.lastMonth {
		return false
	}
	return day >= d.firstDay && day <= d.lastDay
}

func (d *DayOfYear) CheckVesselTransition(previous, current *decoration.VesselState) bool {
	return d.open()
}

func (d *DayOfYear) CheckEventReport(decoration.EventReport) bool {
	return d.open()
}

func (d *DayOfYear) CheckSubjectSummary(s decoration.Summary) bool {
	return s.Crew != nil && d.open()
}
