package petmeds

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"pet-meds/internal/domain/schedule"
)

type MedicationInput struct {
	// ID opcional: si viene y ya existe, se reemplaza (upsert).
	ID string

	PetID    string
	Name     string
	Dosage   string
	Schedule schedule.Schedule

	// NextDue nil = hoy.
	NextDue *schedule.Date

	ReminderTime      string
	StartDate         *schedule.Date
	EndDate           *schedule.Date
	RemainingQuantity *int
	Frequency         string
	RefillReminder    bool
}

// MedicationPatch: punteros nil = no tocar. LastGiven solo cambia vía MarkGiven.
type MedicationPatch struct {
	PetID             *string
	Name              *string
	Dosage            *string
	Schedule          *schedule.Schedule
	NextDue           *schedule.Date
	ReminderTime      *string
	StartDate         PatchDate
	EndDate           PatchDate
	RemainingQuantity *int
	Frequency         *string
	RefillReminder    *bool
}

type MarkGivenInput struct {
	// At zero = ahora. La fecha de calendario se toma en la zona del propio timestamp.
	At             time.Time
	AdministeredBy string
	Notes          string
}

func (s *Service) AddMedication(ctx context.Context, in MedicationInput) (Medication, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = s.newID()
	}

	m := Medication{
		ID:                id,
		PetID:             strings.TrimSpace(in.PetID),
		Name:              strings.TrimSpace(in.Name),
		Dosage:            strings.TrimSpace(in.Dosage),
		Schedule:          in.Schedule,
		ReminderTime:      strings.TrimSpace(in.ReminderTime),
		StartDate:         in.StartDate,
		EndDate:           in.EndDate,
		RemainingQuantity: in.RemainingQuantity,
		Frequency:         strings.TrimSpace(in.Frequency),
		RefillReminder:    in.RefillReminder,
	}
	if in.NextDue != nil && !in.NextDue.IsZero() {
		m.NextDue = *in.NextDue
	} else {
		m.NextDue = s.Today()
	}

	if err := validateMedication(m); err != nil {
		return Medication{}, err
	}

	err := s.repo.Update(ctx, func(tx Tx) error {
		items, err := tx.Medications()
		if err != nil {
			return err
		}
		if i := indexMedication(items, m.ID); i >= 0 {
			items[i] = m
		} else {
			items = append(items, m)
		}
		return tx.SetMedications(items)
	}, CollectionMedications)

	s.done(ctx, "add_medication", err, map[string]any{"medication_id": m.ID, "pet_id": m.PetID}, true)
	if err != nil {
		return Medication{}, err
	}
	return m, nil
}

func (s *Service) UpdateMedication(ctx context.Context, id string, in MedicationPatch) (Medication, error) {
	var updated Medication
	err := s.repo.Update(ctx, func(tx Tx) error {
		items, err := tx.Medications()
		if err != nil {
			return err
		}
		i := indexMedication(items, id)
		if i < 0 {
			return ErrNotFound
		}

		m := items[i]
		if in.PetID != nil {
			m.PetID = strings.TrimSpace(*in.PetID)
		}
		if in.Name != nil {
			m.Name = strings.TrimSpace(*in.Name)
		}
		if in.Dosage != nil {
			m.Dosage = strings.TrimSpace(*in.Dosage)
		}
		if in.Schedule != nil {
			m.Schedule = *in.Schedule
		}
		if in.NextDue != nil {
			m.NextDue = *in.NextDue
		}
		if in.ReminderTime != nil {
			m.ReminderTime = strings.TrimSpace(*in.ReminderTime)
		}
		if in.StartDate.Present {
			m.StartDate = in.StartDate.Value
		}
		if in.EndDate.Present {
			m.EndDate = in.EndDate.Value
		}
		if in.RemainingQuantity != nil {
			q := *in.RemainingQuantity
			m.RemainingQuantity = &q
		}
		if in.Frequency != nil {
			m.Frequency = strings.TrimSpace(*in.Frequency)
		}
		if in.RefillReminder != nil {
			m.RefillReminder = *in.RefillReminder
		}

		if err := validateMedication(m); err != nil {
			return err
		}

		items[i] = m
		updated = m
		return tx.SetMedications(items)
	}, CollectionMedications)

	s.done(ctx, "update_medication", err, map[string]any{"medication_id": id}, true)
	if err != nil {
		return Medication{}, err
	}
	return updated, nil
}

// DeleteMedication borra solo la medicación; sus logs quedan para el historial.
func (s *Service) DeleteMedication(ctx context.Context, id string) error {
	err := s.repo.Update(ctx, func(tx Tx) error {
		items, err := tx.Medications()
		if err != nil {
			return err
		}
		i := indexMedication(items, id)
		if i < 0 {
			return ErrNotFound
		}
		kept := make([]Medication, 0, len(items)-1)
		kept = append(kept, items[:i]...)
		kept = append(kept, items[i+1:]...)
		return tx.SetMedications(kept)
	}, CollectionMedications)

	s.done(ctx, "delete_medication", err, map[string]any{"medication_id": id}, true)
	return err
}

// MarkGiven registra una dosis:
//   - lastGiven = fecha de administración
//   - nextDue = NextDue(fecha de administración, schedule); no se "recuperan" dosis atrasadas
//   - se agrega exactamente un log
//
// Medicaciones y logs se escriben en una sola operación atómica del sustrato.
func (s *Service) MarkGiven(ctx context.Context, medicationID string, in MarkGivenInput) (Medication, MedicationLog, error) {
	at := in.At
	if at.IsZero() {
		at = s.now().In(s.loc)
	}
	given := schedule.DateOf(at)

	var (
		updated Medication
		entry   MedicationLog
	)
	err := s.repo.Update(ctx, func(tx Tx) error {
		meds, err := tx.Medications()
		if err != nil {
			return err
		}
		i := indexMedication(meds, medicationID)
		if i < 0 {
			return ErrNotFound
		}

		next, err := schedule.NextDue(given, meds[i].Schedule)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		m := meds[i]
		last := given
		m.LastGiven = &last
		m.NextDue = next
		meds[i] = m

		logs, err := tx.Logs()
		if err != nil {
			return err
		}
		entry = MedicationLog{
			MedicationID:   medicationID,
			GivenAt:        at,
			AdministeredBy: strings.TrimSpace(in.AdministeredBy),
			Notes:          strings.TrimSpace(in.Notes),
		}
		logs = append(logs, entry)

		if err := tx.SetMedications(meds); err != nil {
			return err
		}
		if err := tx.SetLogs(logs); err != nil {
			return err
		}
		updated = m
		return nil
	}, CollectionMedications, CollectionLogs)

	s.done(ctx, "mark_given", err, map[string]any{
		"medication_id": medicationID,
		"given_on":      given.String(),
		"next_due":      updated.NextDue.String(),
	}, true)
	if err != nil {
		return Medication{}, MedicationLog{}, err
	}
	return updated, entry, nil
}

func validateMedication(m Medication) error {
	if m.PetID == "" {
		return fmt.Errorf("%w: petId is required", ErrInvalidInput)
	}
	if m.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !m.Schedule.Valid() {
		return fmt.Errorf("%w: unknown schedule %q", ErrInvalidInput, string(m.Schedule))
	}
	if m.NextDue.IsZero() {
		return fmt.Errorf("%w: nextDue is required", ErrInvalidInput)
	}
	if m.ReminderTime != "" {
		if _, _, err := schedule.ParseClock(m.ReminderTime); err != nil {
			return fmt.Errorf("%w: reminderTime must be HH:MM", ErrInvalidInput)
		}
	}
	if m.RemainingQuantity != nil && *m.RemainingQuantity < 0 {
		return fmt.Errorf("%w: remainingQuantity cannot be negative", ErrInvalidInput)
	}
	if m.Frequency != "" {
		f, err := strconv.ParseFloat(m.Frequency, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("%w: frequency must be a positive number", ErrInvalidInput)
		}
	}
	if m.StartDate != nil && m.EndDate != nil && !m.StartDate.IsZero() && !m.EndDate.IsZero() && m.EndDate.Before(*m.StartDate) {
		return fmt.Errorf("%w: endDate before startDate", ErrInvalidInput)
	}
	return nil
}
