package reminders

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"pet-meds/internal/domain/petmeds"
	"pet-meds/internal/domain/schedule"
)

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type fakeNotifier struct {
	mu   sync.Mutex
	got  []Notification
	fail error
}

func (n *fakeNotifier) Notify(ctx context.Context, x Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.got = append(n.got, x)
	return n.fail
}

type countingObserver struct {
	scheduled []int
	fired     int
	failed    int
}

func (o *countingObserver) RemindersScheduled(n int) { o.scheduled = append(o.scheduled, n) }
func (o *countingObserver) ReminderFired(err error) {
	o.fired++
	if err != nil {
		o.failed++
	}
}

func newTestScheduler(n Notifier, now time.Time) (*Scheduler, *[]*fakeTimer) {
	s := NewScheduler(n, Options{Location: time.UTC})
	s.now = func() time.Time { return now }
	timers := &[]*fakeTimer{}
	s.afterFunc = func(d time.Duration, f func()) timer {
		t := &fakeTimer{d: d, f: f}
		*timers = append(*timers, t)
		return t
	}
	return s, timers
}

var (
	pets = []petmeds.Pet{{ID: "p1", Name: "Milo"}}
	now  = time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
)

func medication(id, petID, nextDue, at string) petmeds.Medication {
	return petmeds.Medication{
		ID: id, PetID: petID, Name: "med-" + id, Dosage: "5 mg",
		Schedule: schedule.Daily, NextDue: schedule.MustParseDate(nextDue), ReminderTime: at,
	}
}

func TestPlan_LeadSkipAndOrder(t *testing.T) {
	meds := []petmeds.Medication{
		medication("tomorrow", "p1", "2024-01-11", "07:30"),
		medication("later-today", "p1", "2024-01-10", "18:00"),
		medication("past", "p1", "2024-01-10", "09:10"), // 08:55 ya pasó
		medication("orphan", "ghost", "2024-01-12", "10:00"),
	}

	got := Plan(meds, pets, now, time.UTC, DefaultLead)
	if len(got) != 2 {
		t.Fatalf("expected 2 notifications, got %d: %+v", len(got), got)
	}
	if got[0].MedicationID != "later-today" || !got[0].FireAt.Equal(time.Date(2024, 1, 10, 17, 45, 0, 0, time.UTC)) {
		t.Fatalf("unexpected first: %+v", got[0])
	}
	if got[1].MedicationID != "tomorrow" || !got[1].FireAt.Equal(time.Date(2024, 1, 11, 7, 15, 0, 0, time.UTC)) {
		t.Fatalf("unexpected second: %+v", got[1])
	}
	if got[0].Title != "Time for Milo's medication" || got[0].Body != "med-later-today is due today" {
		t.Fatalf("unexpected text: %q / %q", got[0].Title, got[0].Body)
	}
}

func TestPlan_DefaultAndInvalidReminderTime(t *testing.T) {
	meds := []petmeds.Medication{
		medication("blank", "p1", "2024-01-12", ""),
		medication("bad", "p1", "2024-01-13", "25:99"),
	}
	got := Plan(meds, pets, now, time.UTC, DefaultLead)
	if len(got) != 2 {
		t.Fatalf("expected 2, got %d", len(got))
	}
	for _, n := range got {
		if n.ReminderTime != "08:00" || n.FireAt.Hour() != 7 || n.FireAt.Minute() != 45 {
			t.Fatalf("expected default 08:00 - 15m, got %+v", n)
		}
	}
}

func TestScheduler_RescheduleCancelsPrevious(t *testing.T) {
	n := &fakeNotifier{}
	s, timers := newTestScheduler(n, now)
	obs := &countingObserver{}
	s.observer = obs

	meds := []petmeds.Medication{medication("a", "p1", "2024-01-11", "08:00")}
	if got := s.Reschedule(meds, pets); got != 1 {
		t.Fatalf("expected 1 scheduled, got %d", got)
	}
	if (*timers)[0].d != 22*time.Hour+45*time.Minute {
		t.Fatalf("unexpected delay %s", (*timers)[0].d)
	}

	s.MedicationsChanged(context.Background(), append(meds, medication("b", "p1", "2024-01-12", "08:00")), pets)
	if !(*timers)[0].stopped {
		t.Fatalf("expected first timer cancelled")
	}
	if len(s.Pending()) != 2 {
		t.Fatalf("expected 2 pending, got %d", len(s.Pending()))
	}

	// un callback viejo que llega tarde no entrega nada
	(*timers)[0].f()
	if len(n.got) != 0 {
		t.Fatalf("stale timer must not deliver")
	}

	(*timers)[1].f()
	if len(n.got) != 1 || n.got[0].MedicationID != "a" {
		t.Fatalf("expected delivery of a, got %+v", n.got)
	}
	if len(s.Pending()) != 1 {
		t.Fatalf("fired reminder must leave pending set")
	}
	if obs.fired != 1 || len(obs.scheduled) != 2 || obs.scheduled[1] != 2 {
		t.Fatalf("unexpected observer state: %+v", obs)
	}
}

func TestScheduler_DeliveryErrorIsObserved(t *testing.T) {
	n := &fakeNotifier{fail: errors.New("boom")}
	s, timers := newTestScheduler(n, now)
	obs := &countingObserver{}
	s.observer = obs

	s.Reschedule([]petmeds.Medication{medication("a", "p1", "2024-01-11", "08:00")}, pets)
	(*timers)[0].f()

	if obs.failed != 1 {
		t.Fatalf("expected failed delivery observed, got %+v", obs)
	}
}

func TestScheduler_Stop(t *testing.T) {
	n := &fakeNotifier{}
	s, timers := newTestScheduler(n, now)

	s.Reschedule([]petmeds.Medication{medication("a", "p1", "2024-01-11", "08:00")}, pets)
	s.Stop()

	if !(*timers)[0].stopped {
		t.Fatalf("expected timer stopped")
	}
	if got := s.Reschedule([]petmeds.Medication{medication("a", "p1", "2024-01-11", "08:00")}, pets); got != 0 {
		t.Fatalf("stopped scheduler must not schedule")
	}
	(*timers)[0].f()
	if len(n.got) != 0 {
		t.Fatalf("stopped scheduler must not deliver")
	}
}
