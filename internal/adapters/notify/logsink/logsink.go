// Package logsink entrega avisos escribiéndolos en el logger. Es el notifier por defecto.
package logsink

import (
	"context"

	"pet-meds/internal/domain/reminders"
	"pet-meds/internal/platform/logger"
)

type Notifier struct {
	log logger.Logger
}

func New(l logger.Logger) *Notifier {
	if l == nil {
		l = logger.Nop()
	}
	return &Notifier{log: l.With(map[string]any{"component": "notify"})}
}

func (n *Notifier) Notify(ctx context.Context, x reminders.Notification) error {
	n.log.Info(x.Title, map[string]any{
		"body":          x.Body,
		"medication_id": x.MedicationID,
		"pet":           x.PetName,
		"dosage":        x.Dosage,
		"next_due":      x.NextDue.String(),
		"reminder_time": x.ReminderTime,
	})
	return nil
}
