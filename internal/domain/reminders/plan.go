// Package reminders programa un aviso local por medicación, un rato antes de
// nextDue@reminderTime, y rehace el set completo cada vez que cambian las listas.
package reminders

import (
	"context"
	"fmt"
	"slices"
	"time"

	"pet-meds/internal/domain/petmeds"
	"pet-meds/internal/domain/schedule"
)

// DefaultLead es la anticipación del aviso respecto de la hora de la dosis.
const DefaultLead = 15 * time.Minute

// Notification es lo que recibe el Notifier al dispararse un aviso.
type Notification struct {
	MedicationID   string        `json:"medicationId"`
	MedicationName string        `json:"medicationName"`
	PetName        string        `json:"petName"`
	Dosage         string        `json:"dosage,omitempty"`
	NextDue        schedule.Date `json:"nextDue"`
	ReminderTime   string        `json:"reminderTime"`
	FireAt         time.Time     `json:"fireAt"`

	Title string `json:"title"`
	Body  string `json:"body"`
}

// Notifier entrega un aviso (log, webhook, ...).
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Plan calcula los avisos pendientes, ordenados por FireAt.
//
// Se omiten: medicaciones cuya mascota no existe y avisos cuyo instante ya pasó.
// Una reminderTime inválida cae al default 08:00.
func Plan(meds []petmeds.Medication, pets []petmeds.Pet, now time.Time, loc *time.Location, lead time.Duration) []Notification {
	if loc == nil {
		loc = time.Local
	}
	names := make(map[string]string, len(pets))
	for _, p := range pets {
		names[p.ID] = p.Name
	}

	out := make([]Notification, 0, len(meds))
	for _, m := range meds {
		petName, ok := names[m.PetID]
		if !ok || m.NextDue.IsZero() {
			continue
		}

		clock := m.ReminderClock()
		h, minute, err := schedule.ParseClock(clock)
		if err != nil {
			clock = schedule.DefaultReminderTime
			h, minute, _ = schedule.ParseClock(clock)
		}

		fireAt := m.NextDue.At(h, minute, loc).Add(-lead)
		if !fireAt.After(now) {
			continue
		}

		out = append(out, Notification{
			MedicationID:   m.ID,
			MedicationName: m.Name,
			PetName:        petName,
			Dosage:         m.Dosage,
			NextDue:        m.NextDue,
			ReminderTime:   clock,
			FireAt:         fireAt,
			Title:          fmt.Sprintf("Time for %s's medication", petName),
			Body:           fmt.Sprintf("%s is due today", m.Name),
		})
	}

	slices.SortStableFunc(out, func(a, b Notification) int { return a.FireAt.Compare(b.FireAt) })
	return out
}
