package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"task-manager/internal/timeutil"
)

// ReminderSchedule is the resolved target time-of-day for a reminder:
// either an explicit "HH:MM" carried by the record, or the configured
// default hour.
type ReminderSchedule struct {
	hour     int
	minute   int
	explicit bool
}

// ExplicitSchedule parses an "HH:MM" clock string into a schedule.
func ExplicitSchedule(clock string) (ReminderSchedule, error) {
	hour, minute, err := parseClock(clock)
	if err != nil {
		return ReminderSchedule{}, err
	}
	return ReminderSchedule{hour: hour, minute: minute, explicit: true}, nil
}

// DefaultHourSchedule targets the top of the given hour.
func DefaultHourSchedule(hour int) ReminderSchedule {
	return ReminderSchedule{hour: hour}
}

// Explicit reports whether the schedule came from a record's own reminder
// time rather than the default hour.
func (s ReminderSchedule) Explicit() bool {
	return s.explicit
}

// Resolve places the schedule on now's calendar day in now's location.
func (s ReminderSchedule) Resolve(now time.Time) time.Time {
	return timeutil.At(now, s.hour, s.minute)
}

func parseClock(clock string) (int, int, error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", clock)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", clock)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", clock)
	}
	return hour, minute, nil
}
