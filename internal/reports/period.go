package reports

import (
	"fmt"
	"time"
)

// Grouping selects the period bucket width for trend reports.
type Grouping string

const (
	GroupDaily     Grouping = "daily"
	GroupWeekly    Grouping = "weekly"
	GroupMonthly   Grouping = "monthly"
	GroupQuarterly Grouping = "quarterly"
	GroupYearly    Grouping = "yearly"
)

const dateLayout = "2006-01-02"

// defaultWindowDays is the trailing window applied when a date filter cannot
// be parsed; the request still succeeds.
const defaultWindowDays = 30

// ParseRange resolves a report date range from form values. Both boundaries
// are inclusive as entered; the returned To is the start of the day after the
// end date so time-of-day on stored facts never truncates the range. An
// unparseable start falls back to now-30d, an unparseable end to now.
func ParseRange(startStr, endStr string, now time.Time) (time.Time, time.Time) {
	start, err := time.ParseInLocation(dateLayout, startStr, time.UTC)
	if err != nil {
		start = now.AddDate(0, 0, -defaultWindowDays)
	}
	end, err := time.ParseInLocation(dateLayout, endStr, time.UTC)
	if err != nil {
		end = now
	}
	return start, end.Truncate(24 * time.Hour).AddDate(0, 0, 1)
}

// BucketLabel renders the period bucket a timestamp belongs to.
func BucketLabel(t time.Time, g Grouping) string {
	switch g {
	case GroupDaily:
		return t.Format(dateLayout)
	case GroupWeekly:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case GroupQuarterly:
		quarter := (int(t.Month())-1)/3 + 1
		return fmt.Sprintf("%04d-Q%d", t.Year(), quarter)
	case GroupYearly:
		return fmt.Sprintf("%04d", t.Year())
	default: // monthly
		return t.Format("2006-01")
	}
}

// ValidGrouping normalises unknown grouping values to monthly.
func ValidGrouping(g string) Grouping {
	switch Grouping(g) {
	case GroupDaily, GroupWeekly, GroupMonthly, GroupQuarterly, GroupYearly:
		return Grouping(g)
	}
	return GroupMonthly
}
