package timezone

import (
	"fmt"
	"time"
)

// the dining site publishes menus by the calendar day in UTC-7, a fixed
// offset regardless of daylight saving.
var Location = time.FixedZone("UTC-7", -7*60*60)

// force dates to be taken in UTC-7 because the machine running the
// scraper may not be on the west coast, which will shift the
// <time.Time>.Year()/Month()/Day() boundaries
func Now() time.Time {
	return time.Now().In(Location)
}

// FormatDate renders t as YYYY-MM-DD in Location.
func FormatDate(t time.Time) string {
	t = t.In(Location)
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), t.Month(), t.Day())
}

// Days returns n consecutive dates, starting with the calendar day `now`
// falls on in Location.
func Days(now time.Time, n int) []string {
	if n <= 0 {
		return []string{}
	}

	now = now.In(Location)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, Location)

	dates := make([]string, n)
	for i := 0; i < n; i++ {
		dates[i] = FormatDate(start.AddDate(0, 0, i))
	}
	return dates
}

func WeekFrom(now time.Time) []string {
	return Days(now, 7)
}

func CurrentWeek() []string {
	return WeekFrom(Now())
}
