package schema

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// NormalizeEmail returns the identity key form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// AuthorKey formats the display key of an author identity as "Name <email>".
// Identities without an email are shown by name alone.
func AuthorKey(name, email string) string {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if email == "" {
		return name
	}
	return fmt.Sprintf("%s <%s>", name, email)
}

// Weekdays lists the days of the week in time.Weekday order.
var Weekdays = []time.Weekday{
	time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
	time.Thursday, time.Friday, time.Saturday,
}

// PeakHour returns the hour with the most commits and its count.
// Ties resolve to the earliest hour.
func PeakHour(byHour map[int]int) (int, int) {
	best, count := 0, -1
	for h := range 24 {
		if byHour[h] > count {
			best, count = h, byHour[h]
		}
	}
	return best, max(count, 0)
}

// BusiestDay returns the calendar day with the most commits and its count.
// Ties resolve to the earliest day. An empty histogram yields "".
func BusiestDay(byDay map[string]int) (string, int) {
	days := make([]string, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	slices.Sort(days)

	best, count := "", 0
	for _, d := range days {
		if byDay[d] > count {
			best, count = d, byDay[d]
		}
	}
	return best, count
}

// FormatAuthors joins author emails for compact display, eliding past limit.
func FormatAuthors(authors []string, limit int) string {
	if limit <= 0 || len(authors) <= limit {
		return strings.Join(authors, ", ")
	}
	return fmt.Sprintf("%s (+%d)", strings.Join(authors[:limit], ", "), len(authors)-limit)
}
