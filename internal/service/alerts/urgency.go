package alerts

import (
	"github.com/golang-sql/civil"

	"github.com/mamadbah2/herdbook/internal/domain/calendar"
)

// Urgency tiers a date by its distance from today.
type Urgency string

const (
	Overdue  Urgency = "overdue"
	Urgent   Urgency = "urgent"
	Upcoming Urgency = "upcoming"
	Future   Urgency = "future"
)

const (
	urgentWithinDays   = 7
	upcomingWithinDays = 15
)

// Classify tiers an already corrected target day against today.
func Classify(target, today civil.Date) Urgency {
	days := calendar.DaysBetween(today, target)
	switch {
	case days < 0:
		return Overdue
	case days <= urgentWithinDays:
		return Urgent
	case days <= upcomingWithinDays:
		return Upcoming
	default:
		return Future
	}
}
