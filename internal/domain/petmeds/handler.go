package petmeds

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"pet-meds/internal/domain/schedule"
	"pet-meds/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Post("/", createPetHandler(svc))
		pr.Get("/", listPetsHandler(svc))
		pr.Get("/{petID}", getPetHandler(svc))
		pr.Patch("/{petID}", updatePetHandler(svc))
		pr.Delete("/{petID}", deletePetHandler(svc))

		// Historial de peso
		pr.Post("/{petID}/weights", recordWeightHandler(svc))
	})

	r.Route("/medications", func(mr chi.Router) {
		mr.Post("/", createMedicationHandler(svc))
		mr.Get("/", listMedicationsHandler(svc))
		mr.Get("/{medicationID}", getMedicationHandler(svc))
		mr.Patch("/{medicationID}", updateMedicationHandler(svc))
		mr.Delete("/{medicationID}", deleteMedicationHandler(svc))

		mr.Post("/{medicationID}/give", markGivenHandler(svc))
	})
}

// petRequest es el cuerpo para crear (o reemplazar por id) una mascota.
type petRequest struct {
	ID        string   `json:"id"` // opcional
	Name      string   `json:"name"`
	PhotoURI  string   `json:"photoUri"`
	Species   string   `json:"species"`
	Breed     string   `json:"breed"`
	BirthDate string   `json:"birthDate"` // YYYY-MM-DD opcional
	Weight    *float64 `json:"weight"`
	Color     string   `json:"color"`
}

type updatePetRequest struct {
	Name     *string  `json:"name"`
	PhotoURI *string  `json:"photoUri"`
	Species  *string  `json:"species"`
	Breed    *string  `json:"breed"`
	Weight   *float64 `json:"weight"`
	Color    *string  `json:"color"`
	// birthDate se lee aparte para distinguir null de "no enviado"
}

type weightRequest struct {
	Weight float64 `json:"weight"`
	Date   string  `json:"date"` // YYYY-MM-DD opcional, default hoy
}

// medicationRequest es el cuerpo para crear (o reemplazar por id) una medicación.
type medicationRequest struct {
	ID                string `json:"id"` // opcional
	PetID             string `json:"petId"`
	Name              string `json:"name"`
	Dosage            string `json:"dosage"`
	Schedule          string `json:"schedule" enums:"Daily,Weekly,Monthly,Every 3 Months,Every 6 Months,Yearly"`
	NextDue           string `json:"nextDue"` // YYYY-MM-DD, default hoy
	ReminderTime      string `json:"reminderTime"`
	StartDate         string `json:"startDate"`
	EndDate           string `json:"endDate"`
	RemainingQuantity *int   `json:"remainingQuantity"`
	Frequency         string `json:"frequency"`
	RefillReminder    bool   `json:"refillReminder"`
}

type updateMedicationRequest struct {
	PetID             *string `json:"petId"`
	Name              *string `json:"name"`
	Dosage            *string `json:"dosage"`
	Schedule          *string `json:"schedule"`
	NextDue           *string `json:"nextDue"`
	ReminderTime      *string `json:"reminderTime"`
	RemainingQuantity *int    `json:"remainingQuantity"`
	Frequency         *string `json:"frequency"`
	RefillReminder    *bool   `json:"refillReminder"`
	// startDate/endDate se leen aparte (null = limpiar)
}

type giveRequest struct {
	GivenAt        string `json:"givenAt"` // RFC3339 opcional, default ahora
	AdministeredBy string `json:"administeredBy"`
	Notes          string `json:"notes"`
}

type giveResponse struct {
	Medication Medication    `json:"medication"`
	Log        MedicationLog `json:"log"`
}

// createPetHandler godoc
// @Summary Crear mascota
// @Description Crea una mascota. Si viene `id` y ya existe, la reemplaza. Con `weight` se siembra el historial de peso con la fecha de hoy.
// @Tags pets
// @Accept json
// @Produce json
// @Param payload body petRequest true "Datos de la mascota"
// @Success 201 {object} Pet
// @Failure 400 {string} string "invalid json / validación"
// @Failure 500 {string} string "storage error"
// @Router /pets [post]
func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req petRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		bd, err := optionalDate(req.BirthDate)
		if err != nil {
			http.Error(w, "birthDate must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		p, err := svc.AddPet(r.Context(), PetInput{
			ID:        req.ID,
			Name:      req.Name,
			PhotoURI:  req.PhotoURI,
			Species:   req.Species,
			Breed:     req.Breed,
			BirthDate: bd,
			Weight:    req.Weight,
			Color:     req.Color,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, p)
	}
}

// listPetsHandler godoc
// @Summary Listar mascotas
// @Tags pets
// @Produce json
// @Success 200 {array} Pet
// @Failure 500 {string} string "storage error"
// @Router /pets [get]
func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListPets(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		if items == nil {
			items = []Pet{}
		}
		writeJSON(w, http.StatusOK, items)
	}
}

// getPetHandler godoc
// @Summary Obtener mascota
// @Tags pets
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} Pet
// @Failure 404 {string} string "not found"
// @Router /pets/{petID} [get]
func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetPet(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

// updatePetHandler godoc
// @Summary Actualizar mascota
// @Description PATCH parcial. `birthDate: null` limpia la fecha. Un peso distinto al actual agrega una muestra al historial.
// @Tags pets
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param payload body updatePetRequest true "Campos a modificar"
// @Success 200 {object} Pet
// @Failure 400 {string} string "invalid json / validación"
// @Failure 404 {string} string "not found"
// @Router /pets/{petID} [patch]
func updatePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, ok := decodeRaw(w, r)
		if !ok {
			return
		}

		var req updatePetRequest
		if !remarshal(w, raw, &req) {
			return
		}

		bd, err := patchDate(raw, "birthDate")
		if err != nil {
			http.Error(w, "birthDate must be YYYY-MM-DD or null", http.StatusBadRequest)
			return
		}

		p, err := svc.UpdatePet(r.Context(), chi.URLParam(r, "petID"), PetPatch{
			Name:      req.Name,
			PhotoURI:  req.PhotoURI,
			Species:   req.Species,
			Breed:     req.Breed,
			BirthDate: bd,
			Weight:    req.Weight,
			Color:     req.Color,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

// deletePetHandler godoc
// @Summary Borrar mascota
// @Description Borra la mascota y todas sus medicaciones. Los logs de dosis se conservan.
// @Tags pets
// @Param petID path string true "ID de la mascota"
// @Success 204
// @Failure 404 {string} string "not found"
// @Router /pets/{petID} [delete]
func deletePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeletePet(r.Context(), chi.URLParam(r, "petID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// recordWeightHandler godoc
// @Summary Registrar peso
// @Tags pets
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param payload body weightRequest true "Peso y fecha opcional"
// @Success 200 {object} Pet
// @Failure 400 {string} string "invalid json / validación"
// @Failure 404 {string} string "not found"
// @Router /pets/{petID}/weights [post]
func recordWeightHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req weightRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		on, err := optionalDate(req.Date)
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		p, err := svc.RecordWeight(r.Context(), chi.URLParam(r, "petID"), req.Weight, on)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

// createMedicationHandler godoc
// @Summary Crear medicación
// @Description Crea una medicación. Sin `nextDue` la primera dosis vence hoy. `petId` no se valida contra las mascotas existentes.
// @Tags medications
// @Accept json
// @Produce json
// @Param payload body medicationRequest true "Datos de la medicación"
// @Success 201 {object} Medication
// @Failure 400 {string} string "invalid json / validación"
// @Failure 500 {string} string "storage error"
// @Router /medications [post]
func createMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req medicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := MedicationInput{
			ID:                req.ID,
			PetID:             req.PetID,
			Name:              req.Name,
			Dosage:            req.Dosage,
			Schedule:          schedule.Schedule(req.Schedule),
			ReminderTime:      req.ReminderTime,
			RemainingQuantity: req.RemainingQuantity,
			Frequency:         req.Frequency,
			RefillReminder:    req.RefillReminder,
		}
		if s, err := schedule.ParseSchedule(req.Schedule); err == nil {
			in.Schedule = s
		}

		var err error
		if in.NextDue, err = optionalDate(req.NextDue); err != nil {
			http.Error(w, "nextDue must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		if in.StartDate, err = optionalDate(req.StartDate); err != nil {
			http.Error(w, "startDate must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		if in.EndDate, err = optionalDate(req.EndDate); err != nil {
			http.Error(w, "endDate must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		m, err := svc.AddMedication(r.Context(), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, m)
	}
}

// listMedicationsHandler godoc
// @Summary Listar medicaciones
// @Tags medications
// @Produce json
// @Success 200 {array} Medication
// @Failure 500 {string} string "storage error"
// @Router /medications [get]
func listMedicationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListMedications(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		if items == nil {
			items = []Medication{}
		}
		writeJSON(w, http.StatusOK, items)
	}
}

// getMedicationHandler godoc
// @Summary Obtener medicación
// @Tags medications
// @Produce json
// @Param medicationID path string true "ID de la medicación"
// @Success 200 {object} Medication
// @Failure 404 {string} string "not found"
// @Router /medications/{medicationID} [get]
func getMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := svc.GetMedication(r.Context(), chi.URLParam(r, "medicationID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, m)
	}
}

// updateMedicationHandler godoc
// @Summary Actualizar medicación
// @Description PATCH parcial. `startDate`/`endDate` en null los limpian. `lastGiven` solo cambia al registrar una dosis.
// @Tags medications
// @Accept json
// @Produce json
// @Param medicationID path string true "ID de la medicación"
// @Param payload body updateMedicationRequest true "Campos a modificar"
// @Success 200 {object} Medication
// @Failure 400 {string} string "invalid json / validación"
// @Failure 404 {string} string "not found"
// @Router /medications/{medicationID} [patch]
func updateMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, ok := decodeRaw(w, r)
		if !ok {
			return
		}

		var req updateMedicationRequest
		if !remarshal(w, raw, &req) {
			return
		}

		patch := MedicationPatch{
			PetID:             req.PetID,
			Name:              req.Name,
			Dosage:            req.Dosage,
			ReminderTime:      req.ReminderTime,
			RemainingQuantity: req.RemainingQuantity,
			Frequency:         req.Frequency,
			RefillReminder:    req.RefillReminder,
		}
		if req.Schedule != nil {
			s := schedule.Schedule(*req.Schedule)
			if parsed, err := schedule.ParseSchedule(*req.Schedule); err == nil {
				s = parsed
			}
			patch.Schedule = &s
		}
		if req.NextDue != nil {
			d, err := schedule.ParseDate(*req.NextDue)
			if err != nil {
				http.Error(w, "nextDue must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			patch.NextDue = &d
		}

		var err error
		if patch.StartDate, err = patchDate(raw, "startDate"); err != nil {
			http.Error(w, "startDate must be YYYY-MM-DD or null", http.StatusBadRequest)
			return
		}
		if patch.EndDate, err = patchDate(raw, "endDate"); err != nil {
			http.Error(w, "endDate must be YYYY-MM-DD or null", http.StatusBadRequest)
			return
		}

		m, err := svc.UpdateMedication(r.Context(), chi.URLParam(r, "medicationID"), patch)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, m)
	}
}

// deleteMedicationHandler godoc
// @Summary Borrar medicación
// @Description Borra la medicación. Sus logs de dosis se conservan en el historial.
// @Tags medications
// @Param medicationID path string true "ID de la medicación"
// @Success 204
// @Failure 404 {string} string "not found"
// @Router /medications/{medicationID} [delete]
func deleteMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteMedication(r.Context(), chi.URLParam(r, "medicationID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// markGivenHandler godoc
// @Summary Registrar dosis
// @Description Marca la medicación como administrada. `nextDue` se recalcula desde la fecha de administración según el schedule y se agrega un log. Sin `administeredBy` se usa el usuario autenticado.
// @Tags medications
// @Accept json
// @Produce json
// @Param medicationID path string true "ID de la medicación"
// @Param payload body giveRequest false "givenAt RFC3339 opcional"
// @Success 200 {object} giveResponse
// @Failure 400 {string} string "invalid json / givenAt inválido"
// @Failure 404 {string} string "not found"
// @Failure 500 {string} string "storage error"
// @Router /medications/{medicationID}/give [post]
func markGivenHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req giveRequest
		// cuerpo opcional: vacío (también chunked) = defaults
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := MarkGivenInput{AdministeredBy: req.AdministeredBy, Notes: req.Notes}
		if strings.TrimSpace(in.AdministeredBy) == "" {
			if claims, ok := middleware.GetClaims(r.Context()); ok {
				in.AdministeredBy = claims.UserID
			}
		}
		if v := strings.TrimSpace(req.GivenAt); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				http.Error(w, "givenAt must be RFC3339", http.StatusBadRequest)
				return
			}
			in.At = t
		}

		m, entry, err := svc.MarkGiven(r.Context(), chi.URLParam(r, "medicationID"), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, giveResponse{Medication: m, Log: entry})
	}
}

func optionalDate(v string) (*schedule.Date, error) {
	if strings.TrimSpace(v) == "" {
		return nil, nil
	}
	d, err := schedule.ParseDate(v)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// patchDate detecta presencia del campo: ausente = no tocar, null = limpiar.
func patchDate(raw map[string]json.RawMessage, field string) (PatchDate, error) {
	v, exists := raw[field]
	if !exists {
		return PatchDate{}, nil
	}
	if string(v) == "null" {
		return PatchDate{Present: true}, nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return PatchDate{}, err
	}
	d, err := optionalDate(s)
	if err != nil {
		return PatchDate{}, err
	}
	return PatchDate{Present: true, Value: d}, nil
}

func decodeRaw(w http.ResponseWriter, r *http.Request) (map[string]json.RawMessage, bool) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return nil, false
	}
	return raw, true
}

// remarshal reutiliza los tags del struct sobre el mapa ya decodificado.
func remarshal(w http.ResponseWriter, raw map[string]json.RawMessage, dst any) bool {
	b, _ := json.Marshal(raw)
	if err := json.Unmarshal(b, dst); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
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
