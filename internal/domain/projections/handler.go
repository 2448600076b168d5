package projections

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"pet-meds/internal/domain/petmeds"
	"pet-meds/internal/domain/schedule"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *petmeds.Service) {
	r.Get("/dashboard", dashboardHandler(svc))
	r.Get("/calendar/{date}", calendarDayHandler(svc))
	r.Get("/calendar/{date}/month", calendarMonthHandler(svc))
	r.Get("/history", historyHandler(svc))

	// Vistas colgadas de los recursos de petmeds
	r.Get("/pets/{petID}/medications", petMedicationsHandler(svc))
	r.Get("/medications/{medicationID}/refill", refillHandler(svc))
}

// dashboardHandler godoc
// @Summary Pendientes del día
// @Description Medicaciones con nextDue <= hoy, separadas en atrasadas y de hoy (la más atrasada primero), más totales y avisos de reposición.
// @Tags projections
// @Produce json
// @Param date query string false "Fecha de referencia YYYY-MM-DD (default hoy)"
// @Success 200 {object} Dashboard
// @Failure 400 {string} string "date inválida"
// @Failure 500 {string} string "storage error"
// @Router /dashboard [get]
func dashboardHandler(svc *petmeds.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		today, ok := referenceDate(w, r, svc, "date")
		if !ok {
			return
		}
		snap, err := svc.Snapshot(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, BuildDashboard(snap, today))
	}
}

// calendarDayHandler godoc
// @Summary Calendario de un día
// @Description Programadas (nextDue == fecha), completadas (logs del día) y perdidas (solo fechas pasadas, sin log ese día y sin lastGiven >= fecha).
// @Tags projections
// @Produce json
// @Param date path string true "Fecha YYYY-MM-DD"
// @Param today query string false "Hoy YYYY-MM-DD (default hoy)"
// @Success 200 {object} CalendarDay
// @Failure 400 {string} string "fecha inválida"
// @Failure 500 {string} string "storage error"
// @Router /calendar/{date} [get]
func calendarDayHandler(svc *petmeds.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, err := schedule.ParseDate(chi.URLParam(r, "date"))
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		today, ok := referenceDate(w, r, svc, "today")
		if !ok {
			return
		}
		snap, err := svc.Snapshot(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ForCalendarDate(snap, date, today))
	}
}

// calendarMonthHandler godoc
// @Summary Calendario mensual
// @Description Totales por día del mes que contiene la fecha.
// @Tags projections
// @Produce json
// @Param date path string true "Cualquier fecha del mes, YYYY-MM-DD"
// @Param today query string false "Hoy YYYY-MM-DD (default hoy)"
// @Success 200 {array} DaySummary
// @Failure 400 {string} string "fecha inválida"
// @Router /calendar/{date}/month [get]
func calendarMonthHandler(svc *petmeds.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, err := schedule.ParseDate(chi.URLParam(r, "date"))
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		today, ok := referenceDate(w, r, svc, "today")
		if !ok {
			return
		}
		snap, err := svc.Snapshot(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ForCalendarMonth(snap, date, today))
	}
}

// historyHandler godoc
// @Summary Historial de dosis
// @Description Logs del rango pedido (7, 30 o all), opcionalmente de una mascota, del más reciente al más antiguo.
// @Tags projections
// @Produce json
// @Param pet query string false "ID de mascota"
// @Param range query string false "7 | 30 | all (default all)"
// @Param today query string false "Hoy YYYY-MM-DD (default hoy)"
// @Success 200 {array} HistoryEntry
// @Failure 400 {string} string "range inválido"
// @Router /history [get]
func historyHandler(svc *petmeds.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days, ok := ParseRange(r.URL.Query().Get("range"))
		if !ok {
			http.Error(w, "range must be 7, 30 or all", http.StatusBadRequest)
			return
		}
		today, ok := referenceDate(w, r, svc, "today")
		if !ok {
			return
		}
		snap, err := svc.Snapshot(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}

		f := HistoryFilter{PetID: strings.TrimSpace(r.URL.Query().Get("pet")), RangeDays: days}
		if f.PetID == "all" {
			f.PetID = ""
		}
		writeJSON(w, http.StatusOK, HistoryFiltered(snap, f, today))
	}
}

// petMedicationsHandler godoc
// @Summary Medicaciones de una mascota
// @Tags projections
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {array} petmeds.Medication
// @Failure 500 {string} string "storage error"
// @Router /pets/{petID}/medications [get]
func petMedicationsHandler(svc *petmeds.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		meds, err := svc.ListMedications(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, MedicationsForPet(meds, chi.URLParam(r, "petID")))
	}
}

// refillHandler godoc
// @Summary Cuenta regresiva de reposición
// @Tags projections
// @Produce json
// @Param medicationID path string true "ID de la medicación"
// @Success 200 {object} Refill
// @Failure 404 {string} string "not found"
// @Router /medications/{medicationID}/refill [get]
func refillHandler(svc *petmeds.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := svc.GetMedication(r.Context(), chi.URLParam(r, "medicationID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, RefillStatus(m))
	}
}

// referenceDate lee la fecha "hoy" del query param o usa la del servicio.
func referenceDate(w http.ResponseWriter, r *http.Request, svc *petmeds.Service, param string) (schedule.Date, bool) {
	v := strings.TrimSpace(r.URL.Query().Get(param))
	if v == "" {
		return svc.Today(), true
	}
	d, err := schedule.ParseDate(v)
	if err != nil {
		http.Error(w, param+" must be YYYY-MM-DD", http.StatusBadRequest)
		return schedule.Date{}, false
	}
	return d, true
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, petmeds.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	default:
		http.Error(w, "storage error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
