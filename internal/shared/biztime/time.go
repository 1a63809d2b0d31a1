// Package biztime maps instants onto business days. Attendance timestamps are
// stored and transported in UTC; the business timezone only decides where a
// working day starts and ends.
package biztime

import (
	"fmt"
	"sync"
	"time"
)

const (
	DefaultTimezone = "Asia/Kolkata"

	// DateLayout is the YYYY-MM-DD form used by CLI flags and API parameters.
	DateLayout = "2006-01-02"
)

var (
	loc     *time.Location
	locOnce sync.Once
	locErr  error
)

// Init loads the business timezone. Only the first call has an effect; an
// empty tz selects DefaultTimezone.
func Init(tz string) error {
	locOnce.Do(func() {
		if tz == "" {
			tz = DefaultTimezone
		}
		loc, locErr = time.LoadLocation(tz)
		if locErr != nil {
			locErr = fmt.Errorf("load business timezone %q: %w", tz, locErr)
		}
	})
	return locErr
}

// Location returns the business timezone, falling back to DefaultTimezone
// when Init was never called.
func Location() *time.Location {
	if err := Init(""); err != nil {
		panic(err)
	}
	return loc
}

func NowUTC() time.Time {
	return time.Now().UTC()
}

// midnight is 00:00 of t's business day, offset by days, in the business
// timezone. Day arithmetic happens there so DST days keep their real length.
func midnight(t time.Time, days int) time.Time {
	local := t.In(Location())
	return time.Date(local.Year(), local.Month(), local.Day()+days, 0, 0, 0, 0, local.Location())
}

// StartOfDayUTC returns the UTC instant at which t's business day begins.
func StartOfDayUTC(t time.Time) time.Time {
	return midnight(t, 0).UTC()
}

// StartOfNextDayUTC returns the UTC instant at which the business day after
// t begins.
func StartOfNextDayUTC(t time.Time) time.Time {
	return midnight(t, 1).UTC()
}

// DayRangeUTC returns the half-open range [start, end) of t's business day.
func DayRangeUTC(t time.Time) (start, end time.Time) {
	return StartOfDayUTC(t), StartOfNextDayUTC(t)
}

func ToBizTimezone(t time.Time) time.Time {
	return t.In(Location())
}

// ParseDateInBizTimezone reads a YYYY-MM-DD business date and returns the UTC
// instant its day begins.
func ParseDateInBizTimezone(date string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, date, Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", date, err)
	}
	return t.UTC(), nil
}

// FormatDate returns the business date t falls on.
func FormatDate(t time.Time) string {
	return t.In(Location()).Format(DateLayout)
}
