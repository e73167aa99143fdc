// Package expiration buckets inventory items by how close their
// expiration dates are. Dates are compared at day granularity in local
// time, matching how people read the label on a carton.
package expiration

import (
	"time"

	"fridgectl/internal/mirror"
)

const dateLayout = "2006-01-02"

const (
	warningWeekDays = 7
	warningSoonDays = 3
)

// Entry is one item with a parsed expiration date.
type Entry struct {
	Name    string
	Expires time.Time
	// DaysLeft is negative for expired items.
	DaysLeft int
}

// Report groups items by urgency. An item appears in exactly one bucket.
type Report struct {
	Expired          []Entry
	WarningThreeDays []Entry
	WarningWeek      []Entry
}

// Empty reports whether no item needs attention.
func (r Report) Empty() bool {
	return len(r.Expired) == 0 && len(r.WarningThreeDays) == 0 && len(r.WarningWeek) == 0
}

// Evaluate scans cached items and buckets the ones expiring within a week.
// Items without a parseable expiration date are skipped.
func Evaluate(items []mirror.Item, now time.Time) Report {
	var report Report
	today := truncateToDay(now)
	for _, item := range items {
		if item.ExpirationDate == "" {
			continue
		}
		expires, err := time.ParseInLocation(dateLayout, item.ExpirationDate, now.Location())
		if err != nil {
			continue
		}
		daysLeft := int(truncateToDay(expires).Sub(today) / (24 * time.Hour))
		entry := Entry{Name: item.Name, Expires: expires, DaysLeft: daysLeft}
		switch {
		case daysLeft < 0:
			report.Expired = append(report.Expired, entry)
		case daysLeft <= warningSoonDays:
			report.WarningThreeDays = append(report.WarningThreeDays, entry)
		case daysLeft <= warningWeekDays:
			report.WarningWeek = append(report.WarningWeek, entry)
		}
	}
	return report
}

func truncateToDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
