package race

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// JST is the fixed time zone of the racing calendar. The crawler's notion of
// "today" always follows it, regardless of the host's local zone.
var JST = time.FixedZone("JST", 9*60*60)

// DayFormat is the layout of a programme-day identifier.
const DayFormat = "20060102"

var (
	clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	dayPattern   = regexp.MustCompile(`^\d{8}$`)
)

// Today returns the current programme day in JST.
func Today() string {
	return time.Now().In(JST).Format(DayFormat)
}

// ValidDay reports whether day is a well-formed YYYYMMDD calendar day.
func ValidDay(day string) bool {
	if !dayPattern.MatchString(day) {
		return false
	}
	_, err := time.Parse(DayFormat, day)
	return err == nil
}

// ClosingTime returns the betting close for a race: exactly two minutes
// before start on the real timeline. start is "H:MM" or "HH:MM"; hours of 24
// or more place the race on the calendar day after day while keeping it in
// day's programme.
//
// Rendering keeps the hours-plus-24 style when the input used it and the
// result still falls on the following calendar day; stepping back across
// midnight into day itself switches to plain "HH:MM" ("24:01" closes at
// "23:59", "24:05" at "24:03").
//
// Malformed input (wrong shape, minute out of range, unparseable day) is
// returned unchanged rather than failing. Races never start at 00:00, so the
// behaviour of subtracting across the start of day is left unspecified.
func ClosingTime(start, day string) string {
	m := clockPattern.FindStringSubmatch(start)
	if m == nil {
		return start
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if minute > 59 {
		return start
	}
	base, err := time.Parse(DayFormat, day)
	if err != nil {
		return start
	}

	// Map the programme-day clock onto the real timeline.
	startAt := base.AddDate(0, 0, hour/24).
		Add(time.Duration(hour%24)*time.Hour + time.Duration(minute)*time.Minute)
	closedAt := startAt.Add(-2 * time.Minute)

	if hour >= 24 {
		nextDay := base.AddDate(0, 0, 1)
		if sameDate(closedAt, nextDay) {
			return fmt.Sprintf("%02d:%02d", closedAt.Hour()+24, closedAt.Minute())
		}
	}
	return closedAt.Format("15:04")
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
