// Package export genera los volcados de solo escritura: backup JSON de las tres
// colecciones y reporte CSV de dosis. No hay camino de importación.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"pet-meds/internal/domain/petmeds"
	"pet-meds/internal/domain/schedule"
	"pet-meds/internal/platform/logger"
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeCSV  = "text/csv"

	// texto de "Last Given" cuando nunca se administró
	Never = "Never"
	// mascota no encontrada en el reporte
	UnknownPet = "Unknown"
)

// ReportHeader son las columnas del reporte CSV, en orden.
var ReportHeader = []string{"Pet", "Medication", "Dosage", "Schedule", "Last Given", "Next Due", "Total Doses"}

// Sink guarda un archivo exportado y devuelve dónde quedó (path o URL).
type Sink interface {
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// Source entrega la foto de las colecciones; *petmeds.Service la implementa.
type Source interface {
	Snapshot(ctx context.Context) (petmeds.Snapshot, error)
}

// Backup es el documento de respaldo.
type Backup struct {
	Pets        []petmeds.Pet           `json:"pets"`
	Medications []petmeds.Medication    `json:"medications"`
	Logs        []petmeds.MedicationLog `json:"logs"`
	Timestamp   time.Time               `json:"timestamp"`
}

func BackupName(today schedule.Date) string {
	return "petmeds-backup-" + today.String() + ".json"
}

func ReportName(today schedule.Date) string {
	return "petmeds-report-" + today.String() + ".csv"
}

// EncodeBackup serializa el snapshot con sangría; colecciones nil salen como [].
func EncodeBackup(snap petmeds.Snapshot, at time.Time) ([]byte, error) {
	b := Backup{
		Pets:        snap.Pets,
		Medications: snap.Medications,
		Logs:        snap.Logs,
		Timestamp:   at,
	}
	if b.Pets == nil {
		b.Pets = []petmeds.Pet{}
	}
	if b.Medications == nil {
		b.Medications = []petmeds.Medication{}
	}
	if b.Logs == nil {
		b.Logs = []petmeds.MedicationLog{}
	}
	return json.MarshalIndent(b, "", "  ")
}

// WriteReport escribe una fila por medicación, en el orden de la colección.
func WriteReport(w io.Writer, snap petmeds.Snapshot) error {
	pets := make(map[string]string, len(snap.Pets))
	for _, p := range snap.Pets {
		pets[p.ID] = p.Name
	}
	doses := make(map[string]int, len(snap.Medications))
	for _, l := range snap.Logs {
		doses[l.MedicationID]++
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(ReportHeader); err != nil {
		return err
	}
	for _, m := range snap.Medications {
		pet, ok := pets[m.PetID]
		if !ok || pet == "" {
			pet = UnknownPet
		}
		last := Never
		if m.LastGiven != nil && !m.LastGiven.IsZero() {
			last = m.LastGiven.String()
		}
		row := []string{
			pet,
			m.Name,
			m.Dosage,
			string(m.Schedule),
			last,
			m.NextDue.String(),
			strconv.Itoa(doses[m.ID]),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Result describe un archivo exportado.
type Result struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Bytes    int    `json:"bytes"`
}

type Options struct {
	Logger   logger.Logger
	Location *time.Location
}

// Service arma los archivos desde la fuente y los deja en el sink.
type Service struct {
	src  Source
	sink Sink
	log  logger.Logger
	loc  *time.Location
	now  func() time.Time
}

func NewService(src Source, sink Sink, opts Options) *Service {
	l := opts.Logger
	if l == nil {
		l = logger.Nop()
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		src:  src,
		sink: sink,
		log:  l.With(map[string]any{"component": "export"}),
		loc:  loc,
		now:  time.Now,
	}
}

func (s *Service) Backup(ctx context.Context) (Result, error) {
	snap, err := s.src.Snapshot(ctx)
	if err != nil {
		return Result{}, err
	}
	now := s.now().In(s.loc)
	data, err := EncodeBackup(snap, now)
	if err != nil {
		return Result{}, fmt.Errorf("encode backup: %w", err)
	}
	return s.put(ctx, BackupName(schedule.DateOf(now)), ContentTypeJSON, data)
}

func (s *Service) Report(ctx context.Context) (Result, error) {
	snap, err := s.src.Snapshot(ctx)
	if err != nil {
		return Result{}, err
	}
	var buf bytes.Buffer
	if err := WriteReport(&buf, snap); err != nil {
		return Result{}, fmt.Errorf("encode report: %w", err)
	}
	return s.put(ctx, ReportName(schedule.DateOf(s.now().In(s.loc))), ContentTypeCSV, buf.Bytes())
}

func (s *Service) put(ctx context.Context, name, contentType string, data []byte) (Result, error) {
	loc, err := s.sink.Put(ctx, name, contentType, data)
	if err != nil {
		s.log.Error("export failed", map[string]any{"name": name, "error": err.Error()})
		return Result{}, fmt.Errorf("export %s: %w", name, err)
	}
	s.log.Info("export written", map[string]any{"name": name, "location": loc, "bytes": len(data)})
	return Result{Name: name, Location: loc, Bytes: len(data)}, nil
}
