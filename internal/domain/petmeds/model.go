package petmeds

import (
	"strings"
	"time"

	"pet-meds/internal/domain/schedule"
)

// WeightEntry es una muestra de peso. El historial se agrega en orden de inserción.
type WeightEntry struct {
	Date   schedule.Date `json:"date"`
	Weight float64       `json:"weight"`
}

// Pet representa una mascota. Todos los campos salvo id y name son opcionales;
// registros de versiones anteriores pueden no traerlos.
type Pet struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	PhotoURI  string         `json:"photoUri,omitempty"`
	Species   string         `json:"species,omitempty"`
	Breed     string         `json:"breed,omitempty"`
	BirthDate *schedule.Date `json:"birthDate,omitempty"`
	Weight    *float64       `json:"weight,omitempty"`
	Color     string         `json:"color,omitempty"`

	WeightHistory []WeightEntry `json:"weightHistory,omitempty"`
}

// Medication es un tratamiento recurrente de una mascota.
// PetID no se valida contra la colección de mascotas al escribir.
type Medication struct {
	ID       string            `json:"id"`
	PetID    string            `json:"petId"`
	Name     string            `json:"name"`
	Dosage   string            `json:"dosage"`
	Schedule schedule.Schedule `json:"schedule"`

	NextDue   schedule.Date  `json:"nextDue"`
	LastGiven *schedule.Date `json:"lastGiven,omitempty"`

	ReminderTime string         `json:"reminderTime,omitempty"` // "HH:MM"
	StartDate    *schedule.Date `json:"startDate,omitempty"`
	EndDate      *schedule.Date `json:"endDate,omitempty"`

	// Inventario: solo se usa para la cuenta regresiva de reposición.
	RemainingQuantity *int   `json:"remainingQuantity,omitempty"`
	Frequency         string `json:"frequency,omitempty"` // dosis por día, numérico en texto
	RefillReminder    bool   `json:"refillReminder,omitempty"`
}

// ReminderClock devuelve la hora de recordatorio o el default "08:00".
func (m Medication) ReminderClock() string {
	if strings.TrimSpace(m.ReminderTime) == "" {
		return schedule.DefaultReminderTime
	}
	return strings.TrimSpace(m.ReminderTime)
}

// MedicationLog registra una dosis administrada. Es inmutable y nunca se borra,
// aunque la medicación referenciada ya no exista.
type MedicationLog struct {
	MedicationID   string    `json:"medicationId"`
	GivenAt        time.Time `json:"givenAt"`
	AdministeredBy string    `json:"administeredBy,omitempty"`
	Notes          string    `json:"notes,omitempty"`
}

// GivenOn devuelve la fecha de calendario de la dosis, en la zona del timestamp.
func (l MedicationLog) GivenOn() schedule.Date {
	return schedule.DateOf(l.GivenAt)
}

// Snapshot es una foto de las tres colecciones, base de todas las proyecciones.
type Snapshot struct {
	Pets        []Pet
	Medications []Medication
	Logs        []MedicationLog
}
