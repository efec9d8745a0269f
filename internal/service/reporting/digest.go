package reporting

import (
	"fmt"
	"strings"

	"github.com/mamadbah2/herdbook/internal/domain/models"
	"github.com/mamadbah2/herdbook/internal/service/alerts"
	"github.com/mamadbah2/herdbook/internal/service/production"
)

const digestListLimit = 5

// FormatDigest renders the plain-text morning message sent to a farmer.
func FormatDigest(profile models.FarmProfile, tl alerts.Timeline, snap models.DailySnapshot) string {
	var b strings.Builder

	farm := profile.FarmName
	if farm == "" {
		farm = "your farm"
	}
	fmt.Fprintf(&b, "Good morning, %s", farm)
	if profile.City != "" {
		fmt.Fprintf(&b, " (%s)", profile.City)
	}
	fmt.Fprintf(&b, "\nDay: %s\n", snap.Day)

	fmt.Fprintf(&b, "Milk today: herd total %.1f L, individual %.1f L\n",
		production.Round1(snap.HerdTotalLiters), production.Round1(snap.IndividualLiters))

	counts := tl.CountByUrgency()
	fmt.Fprintf(&b, "Pending alerts: %d", snap.PendingAlerts)
	if counts[alerts.Overdue] > 0 || counts[alerts.Urgent] > 0 {
		fmt.Fprintf(&b, " (overdue %d, urgent %d)", counts[alerts.Overdue], counts[alerts.Urgent])
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Calvings in the next %d days: %d\n", ExpectedCalvingDays, snap.UpcomingCalvings)
	for i, c := range tl.UpcomingCalvings {
		if i == digestListLimit {
			fmt.Fprintf(&b, "  ... and %d more\n", len(tl.UpcomingCalvings)-i)
			break
		}
		fmt.Fprintf(&b, "  - %s on %s (%d days)\n", c.AnimalName, c.Date, c.DaysLeft)
	}

	if len(tl.UpcomingVaccinations) > 0 {
		b.WriteString("Vaccinations due:\n")
		for i, v := range tl.UpcomingVaccinations {
			if i == digestListLimit {
				fmt.Fprintf(&b, "  ... and %d more\n", len(tl.UpcomingVaccinations)-i)
				break
			}
			fmt.Fprintf(&b, "  - %s %s on %s [%s]\n", v.AnimalName, v.Name, v.Date, v.Urgency)
		}
	}

	fmt.Fprintf(&b, "Balance: %s (income %s, expense %s)",
		snap.Balance.StringFixed(2), snap.Income.StringFixed(2), snap.Expense.StringFixed(2))

	return b.String()
}
