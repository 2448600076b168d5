package schedule

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownSchedule = errors.New("unknown schedule")

// Schedule define cada cuánto se repite una dosis.
// @Enum Daily, Weekly, Monthly, Every 3 Months, Every 6 Months, Yearly
type Schedule string

const (
	Daily        Schedule = "Daily"
	Weekly       Schedule = "Weekly"
	Monthly      Schedule = "Monthly"
	Every3Months Schedule = "Every 3 Months"
	Every6Months Schedule = "Every 6 Months"
	Yearly       Schedule = "Yearly"
)

var All = []Schedule{Daily, Weekly, Monthly, Every3Months, Every6Months, Yearly}

func (s Schedule) Valid() bool {
	for _, v := range All {
		if s == v {
			return true
		}
	}
	return false
}

// ParseSchedule acepta el nombre persistido y variantes como "every-3-months" o "weekly".
func ParseSchedule(raw string) (Schedule, error) {
	norm := strings.ToLower(strings.TrimSpace(raw))
	norm = strings.NewReplacer("-", " ", "_", " ").Replace(norm)
	for _, v := range All {
		if strings.ToLower(string(v)) == norm {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSchedule, raw)
}

// NextDue calcula la próxima fecha de dosis a partir de from.
// Meses y años usan aritmética de calendario con ajuste a fin de mes (ver Date.AddMonths).
func NextDue(from Date, s Schedule) (Date, error) {
	switch s {
	case Daily:
		return from.AddDays(1), nil
	case Weekly:
		return from.AddDays(7), nil
	case Monthly:
		return from.AddMonths(1), nil
	case Every3Months:
		return from.AddMonths(3), nil
	case Every6Months:
		return from.AddMonths(6), nil
	case Yearly:
		return from.AddYears(1), nil
	default:
		return Date{}, fmt.Errorf("%w: %q", ErrUnknownSchedule, string(s))
	}
}

// Status es la clasificación de una fecha respecto de "hoy".
type Status struct {
	IsToday   bool
	IsPastDue bool
}

func Classify(date, today Date) Status {
	c := date.Compare(today)
	return Status{
		IsToday:   c == 0,
		IsPastDue: c < 0,
	}
}
