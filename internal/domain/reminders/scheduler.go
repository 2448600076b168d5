package reminders

import (
	"context"
	"sync"
	"time"

	"pet-meds/internal/domain/petmeds"
	"pet-meds/internal/platform/logger"
)

// Observer recibe eventos del scheduler (métricas).
type Observer interface {
	RemindersScheduled(n int)
	ReminderFired(err error)
}

type Options struct {
	Logger   logger.Logger
	Location *time.Location
	// Lead 0 = DefaultLead
	Lead time.Duration
	// Timeout por entrega. 0 = 10s.
	DeliveryTimeout time.Duration
	Observer        Observer
}

type timer interface {
	Stop() bool
}

// Scheduler mantiene un timer por aviso pendiente. Es un petmeds.Listener:
// cada cambio de mascotas/medicaciones cancela todo y vuelve a planificar.
type Scheduler struct {
	notifier Notifier
	log      logger.Logger
	loc      *time.Location
	lead     time.Duration
	timeout  time.Duration
	observer Observer

	now       func() time.Time
	afterFunc func(d time.Duration, f func()) timer

	mu      sync.Mutex
	gen     uint64
	timers  []timer
	pending map[string]Notification
	stopped bool
}

var _ petmeds.Listener = (*Scheduler)(nil)

func NewScheduler(n Notifier, opts Options) *Scheduler {
	l := opts.Logger
	if l == nil {
		l = logger.Nop()
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	lead := opts.Lead
	if lead <= 0 {
		lead = DefaultLead
	}
	timeout := opts.DeliveryTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Scheduler{
		notifier: n,
		log:      l.With(map[string]any{"component": "reminders"}),
		loc:      loc,
		lead:     lead,
		timeout:  timeout,
		observer: opts.Observer,
		now:      time.Now,
		afterFunc: func(d time.Duration, f func()) timer {
			return time.AfterFunc(d, f)
		},
		pending: map[string]Notification{},
	}
}

// MedicationsChanged implementa petmeds.Listener.
func (s *Scheduler) MedicationsChanged(ctx context.Context, meds []petmeds.Medication, pets []petmeds.Pet) {
	s.Reschedule(meds, pets)
}

// Reschedule cancela todos los avisos y programa los nuevos. Devuelve cuántos quedaron.
func (s *Scheduler) Reschedule(meds []petmeds.Medication, pets []petmeds.Pet) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return 0
	}
	s.cancelLocked()

	now := s.now()
	plan := Plan(meds, pets, now, s.loc, s.lead)

	gen := s.gen
	for _, n := range plan {
		s.pending[n.MedicationID] = n
		s.timers = append(s.timers, s.afterFunc(n.FireAt.Sub(now), func() { s.fire(gen, n) }))
	}

	if s.observer != nil {
		s.observer.RemindersScheduled(len(plan))
	}
	s.log.Info("reminders rescheduled", map[string]any{"count": len(plan)})
	return len(plan)
}

// Pending devuelve los avisos todavía no disparados, sin orden garantizado.
func (s *Scheduler) Pending() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Notification, 0, len(s.pending))
	for _, n := range s.pending {
		out = append(out, n)
	}
	return out
}

// Stop cancela todo; llamadas posteriores a Reschedule no programan nada.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
	s.stopped = true
}

func (s *Scheduler) cancelLocked() {
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
	s.pending = map[string]Notification{}
	// invalida callbacks que ya estaban en vuelo
	s.gen++
}

func (s *Scheduler) fire(gen uint64, n Notification) {
	s.mu.Lock()
	if gen != s.gen || s.stopped {
		s.mu.Unlock()
		return
	}
	delete(s.pending, n.MedicationID)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	err := s.notifier.Notify(ctx, n)
	if s.observer != nil {
		s.observer.ReminderFired(err)
	}

	fields := map[string]any{
		"medication_id": n.MedicationID,
		"pet":           n.PetName,
		"next_due":      n.NextDue.String(),
	}
	if err != nil {
		fields["error"] = err.Error()
		s.log.Error("reminder delivery failed", fields)
		return
	}
	s.log.Debug("reminder delivered", fields)
}
