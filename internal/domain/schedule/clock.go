package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DefaultReminderTime se usa cuando la medicación no define hora de recordatorio.
const DefaultReminderTime = "08:00"

var ErrInvalidClock = errors.New("invalid time of day")

// ParseClock parsea "HH:MM" (24h).
func ParseClock(s string) (hour, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return hour, minute, nil
}
