package export

import (
	"bytes"
	"encoding/json"
	"net/http"

	"pet-meds/internal/domain/schedule"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/exports", func(er chi.Router) {
		er.Post("/backup", backupHandler(svc))
		er.Post("/report", reportHandler(svc))

		// Descarga directa, sin pasar por el sink
		er.Get("/report.csv", downloadReportHandler(svc))
	})
}

// backupHandler godoc
// @Summary Generar backup
// @Description Serializa mascotas, medicaciones y logs a `petmeds-backup-YYYY-MM-DD.json` en el destino configurado (directorio o S3).
// @Tags exports
// @Produce json
// @Success 201 {object} Result
// @Failure 500 {string} string "export error"
// @Router /exports/backup [post]
func backupHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := svc.Backup(r.Context())
		if err != nil {
			http.Error(w, "export error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, res)
	}
}

// reportHandler godoc
// @Summary Generar reporte CSV
// @Description Escribe `petmeds-report-YYYY-MM-DD.csv` (Pet, Medication, Dosage, Schedule, Last Given, Next Due, Total Doses) en el destino configurado.
// @Tags exports
// @Produce json
// @Success 201 {object} Result
// @Failure 500 {string} string "export error"
// @Router /exports/report [post]
func reportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := svc.Report(r.Context())
		if err != nil {
			http.Error(w, "export error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, res)
	}
}

// downloadReportHandler godoc
// @Summary Descargar reporte CSV
// @Tags exports
// @Produce text/csv
// @Success 200 {string} string "csv"
// @Failure 500 {string} string "export error"
// @Router /exports/report.csv [get]
func downloadReportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := svc.src.Snapshot(r.Context())
		if err != nil {
			http.Error(w, "export error", http.StatusInternalServerError)
			return
		}
		var buf bytes.Buffer
		if err := WriteReport(&buf, snap); err != nil {
			http.Error(w, "export error", http.StatusInternalServerError)
			return
		}
		name := ReportName(schedule.DateOf(svc.now().In(svc.loc)))
		w.Header().Set("Content-Type", ContentTypeCSV)
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
