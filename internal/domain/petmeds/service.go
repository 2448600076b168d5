package petmeds

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"pet-meds/internal/domain/schedule"
	"pet-meds/internal/platform/logger"
)

// Listener recibe las listas actualizadas después de cada cambio de mascotas o medicaciones.
// Lo usa el programador de recordatorios; sus errores no afectan la operación.
type Listener interface {
	MedicationsChanged(ctx context.Context, meds []Medication, pets []Pet)
}

// Observer recibe el resultado de cada mutación (métricas).
type Observer interface {
	ObserveMutation(op string, err error)
}

type Options struct {
	Logger logger.Logger

	// Location define el "hoy" de calendario. nil = time.Local.
	Location *time.Location

	Listeners []Listener
	Observer  Observer
}

// Service orquesta las mutaciones sobre las tres colecciones.
// Se construye una vez al arrancar y se pasa por referencia.
type Service struct {
	repo Repository
	log  logger.Logger
	loc  *time.Location

	listeners []Listener
	observer  Observer

	// notifyMu ordena recarga + entrega: el último en entregar es el último en leer.
	notifyMu sync.Mutex

	now   func() time.Time
	newID func() string
}

func NewService(repo Repository, opts Options) *Service {
	l := opts.Logger
	if l == nil {
		l = logger.Nop()
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		repo:      repo,
		log:       l.With(map[string]any{"component": "petmeds"}),
		loc:       loc,
		listeners: opts.Listeners,
		observer:  opts.Observer,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Subscribe agrega un listener (p.ej. el scheduler creado después del servicio).
func (s *Service) Subscribe(l Listener) {
	if l != nil {
		s.listeners = append(s.listeners, l)
	}
}

// Today devuelve la fecha de calendario actual en la zona configurada.
func (s *Service) Today() schedule.Date {
	return schedule.Today(s.now(), s.loc)
}

// Location devuelve la zona usada para "hoy".
func (s *Service) Location() *time.Location { return s.loc }

func (s *Service) ListPets(ctx context.Context) ([]Pet, error) {
	return s.repo.Pets(ctx)
}

func (s *Service) GetPet(ctx context.Context, id string) (Pet, error) {
	items, err := s.repo.Pets(ctx)
	if err != nil {
		return Pet{}, err
	}
	if i := indexPet(items, id); i >= 0 {
		return items[i], nil
	}
	return Pet{}, ErrNotFound
}

func (s *Service) ListMedications(ctx context.Context) ([]Medication, error) {
	return s.repo.Medications(ctx)
}

func (s *Service) GetMedication(ctx context.Context, id string) (Medication, error) {
	items, err := s.repo.Medications(ctx)
	if err != nil {
		return Medication{}, err
	}
	if i := indexMedication(items, id); i >= 0 {
		return items[i], nil
	}
	return Medication{}, ErrNotFound
}

func (s *Service) ListLogs(ctx context.Context) ([]MedicationLog, error) {
	return s.repo.Logs(ctx)
}

// Snapshot lee las tres colecciones. Cada una se lee entera; entre lecturas
// puede colarse una mutación, lo cual es aceptable para proyecciones de solo lectura.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	pets, err := s.repo.Pets(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	meds, err := s.repo.Medications(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	logs, err := s.repo.Logs(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Pets: pets, Medications: meds, Logs: logs}, nil
}

// done registra la mutación (log + observer) y, si corresponde, avisa a los listeners.
func (s *Service) done(ctx context.Context, op string, err error, fields map[string]any, notify bool) {
	if s.observer != nil {
		s.observer.ObserveMutation(op, err)
	}
	if fields == nil {
		fields = map[string]any{}
	}
	fields["op"] = op
	if err != nil {
		fields["error"] = err.Error()
		s.log.Warn("mutation failed", fields)
		return
	}
	s.log.Info("mutation applied", fields)

	if notify {
		s.notify(ctx)
	}
}

// notify recarga las listas después del commit y las entrega a los listeners.
func (s *Service) notify(ctx context.Context) {
	if len(s.listeners) == 0 {
		return
	}
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	meds, err := s.repo.Medications(ctx)
	if err != nil {
		s.log.Error("notify listeners: load medications", logger.Err(err))
		return
	}
	pets, err := s.repo.Pets(ctx)
	if err != nil {
		s.log.Error("notify listeners: load pets", logger.Err(err))
		return
	}
	for _, l := range s.listeners {
		l.MedicationsChanged(ctx, meds, pets)
	}
}

func indexPet(items []Pet, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func indexMedication(items []Medication, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
