// Package projections deriva las vistas de solo lectura (pendientes de hoy, calendario,
// historial, reposición) a partir de una foto de las colecciones y una fecha "hoy".
// Todas las funciones son puras: no mutan sus entradas y se pueden recalcular libremente.
package projections

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"pet-meds/internal/domain/petmeds"
	"pet-meds/internal/domain/schedule"
)

const (
	UnknownPet        = "Unknown Pet"
	UnknownMedication = "Unknown Medication"
	// nombre usado en calendario y reporte
	Unknown = "Unknown"

	// RefillWarningDays: a partir de cuántos días restantes se avisa reposición.
	RefillWarningDays = 7
)

// DueItem es una medicación pendiente enriquecida con los datos de su mascota.
type DueItem struct {
	Medication  petmeds.Medication `json:"medication"`
	PetName     string             `json:"petName"`
	PetPhotoURI string             `json:"petPhotoUri,omitempty"`
	IsToday     bool               `json:"isToday"`
	IsPastDue   bool               `json:"isPastDue"`
}

// TodayDue devuelve las medicaciones con nextDue <= today, la más atrasada primero.
// Registros viejos sin nextDue no tienen vencimiento y quedan fuera, igual que en reminders.Plan.
func TodayDue(meds []petmeds.Medication, pets []petmeds.Pet, today schedule.Date) []DueItem {
	byID := petsByID(pets)

	out := make([]DueItem, 0)
	for _, m := range meds {
		if m.NextDue.IsZero() || m.NextDue.After(today) {
			continue
		}
		st := schedule.Classify(m.NextDue, today)
		item := DueItem{
			Medication: m,
			PetName:    UnknownPet,
			IsToday:    st.IsToday,
			IsPastDue:  st.IsPastDue,
		}
		if p, ok := byID[m.PetID]; ok {
			item.PetName = p.Name
			item.PetPhotoURI = p.PhotoURI
		}
		out = append(out, item)
	}

	slices.SortStableFunc(out, func(a, b DueItem) int {
		return a.Medication.NextDue.Compare(b.Medication.NextDue)
	})
	return out
}

// DueSplit separa los pendientes en atrasados y de hoy.
type DueSplit struct {
	Overdue  []DueItem `json:"overdue"`
	DueToday []DueItem `json:"dueToday"`
}

// SplitOverdue parte un resultado de TodayDue usando la clasificación del calendario.
// Mantiene el orden de entrada.
func SplitOverdue(items []DueItem, today schedule.Date) DueSplit {
	out := DueSplit{Overdue: []DueItem{}, DueToday: []DueItem{}}
	for _, it := range items {
		st := schedule.Classify(it.Medication.NextDue, today)
		switch {
		case st.IsPastDue:
			out.Overdue = append(out.Overdue, it)
		case st.IsToday:
			out.DueToday = append(out.DueToday, it)
		}
	}
	return out
}

// MedicationsForPet filtra por petId, respetando el orden de la colección.
func MedicationsForPet(meds []petmeds.Medication, petID string) []petmeds.Medication {
	out := make([]petmeds.Medication, 0)
	for _, m := range meds {
		if m.PetID == petID {
			out = append(out, m)
		}
	}
	return out
}

// CalendarItem es una medicación vista en un día del calendario.
type CalendarItem struct {
	Medication petmeds.Medication `json:"medication"`
	PetName    string             `json:"petName"`
}

// CompletedItem es una dosis registrada en un día del calendario.
type CompletedItem struct {
	Log            petmeds.MedicationLog `json:"log"`
	MedicationName string                `json:"medicationName"`
	PetName        string                `json:"petName"`
}

// CalendarDay agrupa las tres vistas de un día: programado, completado y perdido.
type CalendarDay struct {
	Date      schedule.Date   `json:"date"`
	Scheduled []CalendarItem  `json:"scheduled"`
	Completed []CompletedItem `json:"completed"`
	Missed    []CalendarItem  `json:"missed"`
}

// ForCalendarDate arma la vista de un día.
//
// Missed: nextDue == date, date < today, sin log de esa medicación ese día
// y lastGiven ausente o anterior a date.
func ForCalendarDate(snap petmeds.Snapshot, date, today schedule.Date) CalendarDay {
	pets := petsByID(snap.Pets)
	meds := medsByID(snap.Medications)

	day := CalendarDay{
		Date:      date,
		Scheduled: []CalendarItem{},
		Completed: []CompletedItem{},
		Missed:    []CalendarItem{},
	}

	givenThatDay := map[string]bool{}
	for _, l := range snap.Logs {
		if !l.GivenOn().Equal(date) {
			continue
		}
		givenThatDay[l.MedicationID] = true

		item := CompletedItem{Log: l, MedicationName: UnknownMedication, PetName: Unknown}
		if m, ok := meds[l.MedicationID]; ok {
			item.MedicationName = m.Name
			if p, ok := pets[m.PetID]; ok {
				item.PetName = p.Name
			}
		}
		day.Completed = append(day.Completed, item)
	}

	past := date.Before(today)
	for _, m := range snap.Medications {
		if !m.NextDue.Equal(date) {
			continue
		}
		item := CalendarItem{Medication: m, PetName: petName(pets, m.PetID, Unknown)}
		day.Scheduled = append(day.Scheduled, item)

		if !past || givenThatDay[m.ID] {
			continue
		}
		if m.LastGiven != nil && !m.LastGiven.Before(date) {
			continue
		}
		day.Missed = append(day.Missed, item)
	}

	return day
}

// DaySummary son los totales de un día para la grilla mensual.
type DaySummary struct {
	Date      schedule.Date `json:"date"`
	Scheduled int           `json:"scheduled"`
	Completed int           `json:"completed"`
	Missed    int           `json:"missed"`
}

// ForCalendarMonth resume cada día del mes que contiene a date.
func ForCalendarMonth(snap petmeds.Snapshot, date, today schedule.Date) []DaySummary {
	n := schedule.DaysIn(date.Year, date.Month)
	out := make([]DaySummary, 0, n)
	for d := 1; d <= n; d++ {
		day := ForCalendarDate(snap, schedule.NewDate(date.Year, date.Month, d), today)
		out = append(out, DaySummary{
			Date:      day.Date,
			Scheduled: len(day.Scheduled),
			Completed: len(day.Completed),
			Missed:    len(day.Missed),
		})
	}
	return out
}

// HistoryEntry es un log resuelto a nombres legibles.
type HistoryEntry struct {
	MedicationID   string    `json:"medicationId"`
	GivenAt        time.Time `json:"givenAt"`
	AdministeredBy string    `json:"administeredBy,omitempty"`
	Notes          string    `json:"notes,omitempty"`

	MedicationName string `json:"medicationName"`
	PetName        string `json:"petName"`
	Dosage         string `json:"dosage,omitempty"`
}

// HistoryFilter: PetID vacío = todas; RangeDays 0 = sin límite.
type HistoryFilter struct {
	PetID     string
	RangeDays int
}

// ParseRange acepta "7", "30", "all" o vacío (= all).
func ParseRange(v string) (int, bool) {
	switch strings.TrimSpace(strings.ToLower(v)) {
	case "", "all":
		return 0, true
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// HistoryFiltered devuelve los logs dentro de los últimos RangeDays días
// (fecha de corte today-RangeDays, inclusive), opcionalmente de una sola mascota,
// del más reciente al más antiguo.
//
// Con filtro de mascota, los logs de medicaciones borradas quedan fuera:
// ya no se puede saber de qué mascota eran.
func HistoryFiltered(snap petmeds.Snapshot, f HistoryFilter, today schedule.Date) []HistoryEntry {
	pets := petsByID(snap.Pets)
	meds := medsByID(snap.Medications)

	var cutoff schedule.Date
	if f.RangeDays > 0 {
		cutoff = today.AddDays(-f.RangeDays)
	}

	out := make([]HistoryEntry, 0)
	for _, l := range snap.Logs {
		if f.RangeDays > 0 && l.GivenOn().Before(cutoff) {
			continue
		}
		m, known := meds[l.MedicationID]
		if f.PetID != "" && (!known || m.PetID != f.PetID) {
			continue
		}

		e := HistoryEntry{
			MedicationID:   l.MedicationID,
			GivenAt:        l.GivenAt,
			AdministeredBy: l.AdministeredBy,
			Notes:          l.Notes,
			MedicationName: UnknownMedication,
			PetName:        UnknownPet,
		}
		if known {
			e.MedicationName = m.Name
			e.Dosage = m.Dosage
			e.PetName = petName(pets, m.PetID, UnknownPet)
		}
		out = append(out, e)
	}

	slices.SortStableFunc(out, func(a, b HistoryEntry) int {
		return b.GivenAt.Compare(a.GivenAt)
	})
	return out
}

// Refill es la cuenta regresiva de reposición de una medicación.
type Refill struct {
	MedicationID string `json:"medicationId"`
	// nil cuando no hay inventario o frecuencia válida
	DaysUntilRefill *int `json:"daysUntilRefill"`
	NeedsRefill     bool `json:"needsRefill"`
	RefillReminder  bool `json:"refillReminder"`
}

// RefillStatus calcula floor(remainingQuantity / frequency).
// Cantidad 0 o ausente, o frecuencia no numérica/<=0, no dan cuenta regresiva.
func RefillStatus(m petmeds.Medication) Refill {
	out := Refill{MedicationID: m.ID, RefillReminder: m.RefillReminder}
	if m.RemainingQuantity == nil || *m.RemainingQuantity == 0 {
		return out
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(m.Frequency), 64)
	if err != nil || f <= 0 {
		return out
	}
	days := int(float64(*m.RemainingQuantity) / f)
	out.DaysUntilRefill = &days
	out.NeedsRefill = days <= RefillWarningDays
	return out
}

// Dashboard es la vista de inicio.
type Dashboard struct {
	Date             schedule.Date `json:"date"`
	OverdueCount     int           `json:"overdueCount"`
	DueTodayCount    int           `json:"dueTodayCount"`
	TotalPets        int           `json:"totalPets"`
	TotalMedications int           `json:"totalMedications"`
	DueSplit
	Refills []Refill `json:"refills"`
}

func BuildDashboard(snap petmeds.Snapshot, today schedule.Date) Dashboard {
	split := SplitOverdue(TodayDue(snap.Medications, snap.Pets, today), today)

	refills := make([]Refill, 0)
	for _, m := range snap.Medications {
		if r := RefillStatus(m); r.NeedsRefill {
			refills = append(refills, r)
		}
	}

	return Dashboard{
		Date:             today,
		OverdueCount:     len(split.Overdue),
		DueTodayCount:    len(split.DueToday),
		TotalPets:        len(snap.Pets),
		TotalMedications: len(snap.Medications),
		DueSplit:         split,
		Refills:          refills,
	}
}

func petsByID(pets []petmeds.Pet) map[string]petmeds.Pet {
	out := make(map[string]petmeds.Pet, len(pets))
	for _, p := range pets {
		out[p.ID] = p
	}
	return out
}

func medsByID(meds []petmeds.Medication) map[string]petmeds.Medication {
	out := make(map[string]petmeds.Medication, len(meds))
	for _, m := range meds {
		out[m.ID] = m
	}
	return out
}

func petName(pets map[string]petmeds.Pet, id, fallback string) string {
	if p, ok := pets[id]; ok && p.Name != "" {
		return p.Name
	}
	return fallback
}

