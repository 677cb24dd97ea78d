package utils

import "time"

// The business operates in a single fixed timezone (UTC+7). Wall-clock input
// is interpreted here and stored as UTC; day boundaries for quotas are local.
var businessLocation = loadBusinessLocation()

func loadBusinessLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Bangkok")
	if err != nil {
		loc = time.FixedZone("+07", 7*60*60)
	}
	return loc
}

// BusinessLocation returns the fixed local timezone of the institution.
func BusinessLocation() *time.Location {
	return businessLocation
}

// ParseLocalDateTime interprets a "2006-01-02" date and a "15:04" clock as
// local wall-clock time and returns the instant in UTC.
func ParseLocalDateTime(date, clock string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, businessLocation)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// LocalDayBounds returns the UTC instants delimiting the local calendar day
// containing t, as a half-open interval [start, end).
func LocalDayBounds(t time.Time) (time.Time, time.Time) {
	lt := t.In(businessLocation)
	start := time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, businessLocation)
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}

// FormatLocal renders t as local wall-clock time for emails and listings.
func FormatLocal(t time.Time) string {
	return t.In(businessLocation).Format("02 Jan 2006 15:04")
}
