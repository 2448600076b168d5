package projections

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"pet-meds/internal/domain/petmeds"
	"pet-meds/internal/domain/schedule"
)

func d(s string) schedule.Date { return schedule.MustParseDate(s) }

func dp(s string) *schedule.Date {
	v := d(s)
	return &v
}

func intp(v int) *int { return &v }

func med(id, petID, nextDue string) petmeds.Medication {
	return petmeds.Medication{ID: id, PetID: petID, Name: "med-" + id, Dosage: "1 tab", Schedule: schedule.Daily, NextDue: d(nextDue)}
}

func logAt(medID string, ts string) petmeds.MedicationLog {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return petmeds.MedicationLog{MedicationID: medID, GivenAt: t}
}

func TestTodayDue_OrderingAndExclusion(t *testing.T) {
	meds := []petmeds.Medication{
		med("c", "p1", "2024-01-03"),
		med("e", "p1", "2024-01-05"),
		med("a", "p1", "2024-01-01"),
	}
	pets := []petmeds.Pet{{ID: "p1", Name: "Milo", PhotoURI: "file://milo.jpg"}}

	got := TodayDue(meds, pets, d("2024-01-04"))
	if len(got) != 2 {
		t.Fatalf("expected 2 due items, got %d", len(got))
	}
	if got[0].Medication.ID != "a" || got[1].Medication.ID != "c" {
		t.Fatalf("expected [a c] ordered by nextDue, got [%s %s]", got[0].Medication.ID, got[1].Medication.ID)
	}
	if got[0].PetName != "Milo" || got[0].PetPhotoURI != "file://milo.jpg" || !got[0].IsPastDue {
		t.Fatalf("unexpected enrichment: %+v", got[0])
	}
}

func TestTodayDue_UnknownPet(t *testing.T) {
	got := TodayDue([]petmeds.Medication{med("a", "ghost", "2024-01-01")}, nil, d("2024-01-01"))
	if len(got) != 1 || got[0].PetName != UnknownPet || !got[0].IsToday {
		t.Fatalf("unexpected: %+v", got)
	}
}

func TestTodayDue_SkipsRecordsWithoutNextDue(t *testing.T) {
	var legacy petmeds.Medication
	if err := json.Unmarshal([]byte(`{"id":"old","petId":"p1","name":"Legacy","schedule":"Daily"}`), &legacy); err != nil {
		t.Fatalf("decode legacy record: %v", err)
	}
	meds := []petmeds.Medication{legacy, med("a", "p1", "2024-01-01")}
	pets := []petmeds.Pet{{ID: "p1", Name: "Milo"}}

	got := TodayDue(meds, pets, d("2024-01-04"))
	if len(got) != 1 || got[0].Medication.ID != "a" {
		t.Fatalf("record without nextDue must not be listed as due, got %+v", got)
	}

	dash := BuildDashboard(petmeds.Snapshot{Pets: pets, Medications: meds}, d("2024-01-04"))
	if dash.OverdueCount != 1 || dash.TotalMedications != 2 {
		t.Fatalf("unexpected dashboard counts: overdue=%d total=%d", dash.OverdueCount, dash.TotalMedications)
	}
}

func TestSplitOverdue(t *testing.T) {
	meds := []petmeds.Medication{
		med("today", "p1", "2024-01-04"),
		med("late", "p1", "2024-01-02"),
	}
	split := SplitOverdue(TodayDue(meds, nil, d("2024-01-04")), d("2024-01-04"))

	if len(split.Overdue) != 1 || split.Overdue[0].Medication.ID != "late" {
		t.Fatalf("unexpected overdue: %+v", split.Overdue)
	}
	if len(split.DueToday) != 1 || split.DueToday[0].Medication.ID != "today" {
		t.Fatalf("unexpected due today: %+v", split.DueToday)
	}
}

func TestMedicationsForPet_Idempotent(t *testing.T) {
	meds := []petmeds.Medication{med("a", "p1", "2024-01-01"), med("b", "p2", "2024-01-01"), med("c", "p1", "2024-01-01")}

	first := MedicationsForPet(meds, "p1")
	second := MedicationsForPet(meds, "p1")
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results")
	}
	if len(first) != 2 || first[0].ID != "a" || first[1].ID != "c" {
		t.Fatalf("unexpected filter: %+v", first)
	}
	if got := MedicationsForPet(meds, "none"); len(got) != 0 || got == nil {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestForCalendarDate_Missed(t *testing.T) {
	snap := petmeds.Snapshot{
		Pets:        []petmeds.Pet{{ID: "p1", Name: "Milo"}},
		Medications: []petmeds.Medication{med("m1", "p1", "2024-01-02")},
	}

	day := ForCalendarDate(snap, d("2024-01-02"), d("2024-01-05"))
	if len(day.Scheduled) != 1 || len(day.Missed) != 1 || len(day.Completed) != 0 {
		t.Fatalf("expected scheduled+missed, got %+v", day)
	}
	if day.Missed[0].PetName != "Milo" {
		t.Fatalf("expected pet name resolved, got %q", day.Missed[0].PetName)
	}

	// con un log ese día ya no cuenta como perdida
	snap.Logs = []petmeds.MedicationLog{logAt("m1", "2024-01-02T20:00:00Z")}
	day = ForCalendarDate(snap, d("2024-01-02"), d("2024-01-05"))
	if len(day.Missed) != 0 {
		t.Fatalf("expected not missed with log on date, got %+v", day.Missed)
	}
	if len(day.Completed) != 1 || day.Completed[0].MedicationName != "med-m1" || day.Completed[0].PetName != "Milo" {
		t.Fatalf("unexpected completed: %+v", day.Completed)
	}
}

func TestForCalendarDate_NotMissedWhenFutureOrSatisfied(t *testing.T) {
	m := med("m1", "p1", "2024-01-02")
	snap := petmeds.Snapshot{Medications: []petmeds.Medication{m}}

	// hoy y futuro nunca son perdidas
	if day := ForCalendarDate(snap, d("2024-01-02"), d("2024-01-02")); len(day.Missed) != 0 {
		t.Fatalf("today must not be missed")
	}

	// lastGiven >= fecha: satisfecha por otra dosis
	m.LastGiven = dp("2024-01-02")
	snap.Medications = []petmeds.Medication{m}
	if day := ForCalendarDate(snap, d("2024-01-02"), d("2024-01-05")); len(day.Missed) != 0 {
		t.Fatalf("expected satisfied by lastGiven, got %+v", day.Missed)
	}

	// lastGiven anterior: sigue perdida
	m.LastGiven = dp("2024-01-01")
	snap.Medications = []petmeds.Medication{m}
	day := ForCalendarDate(snap, d("2024-01-02"), d("2024-01-05"))
	if len(day.Missed) != 1 || day.Missed[0].PetName != Unknown {
		t.Fatalf("expected missed with unknown pet, got %+v", day.Missed)
	}
}

func TestForCalendarDate_OrphanLog(t *testing.T) {
	snap := petmeds.Snapshot{Logs: []petmeds.MedicationLog{logAt("deleted", "2024-01-02T08:00:00Z")}}
	day := ForCalendarDate(snap, d("2024-01-02"), d("2024-01-05"))
	if len(day.Completed) != 1 || day.Completed[0].MedicationName != UnknownMedication {
		t.Fatalf("unexpected: %+v", day.Completed)
	}
}

func TestForCalendarMonth(t *testing.T) {
	snap := petmeds.Snapshot{
		Medications: []petmeds.Medication{med("m1", "p1", "2024-02-10")},
		Logs:        []petmeds.MedicationLog{logAt("m1", "2024-02-29T08:00:00Z")},
	}
	days := ForCalendarMonth(snap, d("2024-02-15"), d("2024-03-01"))
	if len(days) != 29 {
		t.Fatalf("expected 29 days in Feb 2024, got %d", len(days))
	}
	if days[9].Scheduled != 1 || days[9].Missed != 1 {
		t.Fatalf("unexpected 10th: %+v", days[9])
	}
	if days[28].Completed != 1 {
		t.Fatalf("unexpected 29th: %+v", days[28])
	}
}

func TestHistoryFiltered_Range(t *testing.T) {
	snap := petmeds.Snapshot{
		Medications: []petmeds.Medication{med("m1", "p1", "2024-01-11")},
		Logs: []petmeds.MedicationLog{
			logAt("m1", "2024-01-02T09:00:00Z"),
			logAt("m1", "2024-01-04T09:00:00Z"),
		},
	}

	got := HistoryFiltered(snap, HistoryFilter{RangeDays: 7}, d("2024-01-10"))
	if len(got) != 1 || got[0].GivenAt.Day() != 4 {
		t.Fatalf("expected only the 2024-01-04 log, got %+v", got)
	}

	all := HistoryFiltered(snap, HistoryFilter{}, d("2024-01-10"))
	if len(all) != 2 {
		t.Fatalf("expected all logs, got %d", len(all))
	}
	if !all[0].GivenAt.After(all[1].GivenAt) {
		t.Fatalf("expected most recent first")
	}
}

func TestHistoryFiltered_PetAndNames(t *testing.T) {
	snap := petmeds.Snapshot{
		Pets: []petmeds.Pet{{ID: "p1", Name: "Milo"}},
		Medications: []petmeds.Medication{
			med("m1", "p1", "2024-01-11"),
			med("m2", "p2", "2024-01-11"),
		},
		Logs: []petmeds.MedicationLog{
			logAt("m1", "2024-01-09T09:00:00Z"),
			logAt("m2", "2024-01-08T09:00:00Z"),
			logAt("gone", "2024-01-07T09:00:00Z"),
		},
	}

	got := HistoryFiltered(snap, HistoryFilter{PetID: "p1", RangeDays: 30}, d("2024-01-10"))
	if len(got) != 1 || got[0].MedicationName != "med-m1" || got[0].PetName != "Milo" || got[0].Dosage != "1 tab" {
		t.Fatalf("unexpected: %+v", got)
	}

	all := HistoryFiltered(snap, HistoryFilter{}, d("2024-01-10"))
	if len(all) != 3 {
		t.Fatalf("expected 3, got %d", len(all))
	}
	if all[1].PetName != UnknownPet {
		t.Fatalf("expected unknown pet for m2, got %q", all[1].PetName)
	}
	if all[2].MedicationName != UnknownMedication || all[2].PetName != UnknownPet {
		t.Fatalf("expected unknown names for orphan log, got %+v", all[2])
	}
}

func TestParseRange(t *testing.T) {
	cases := map[string]int{"": 0, "all": 0, "ALL": 0, "7": 7, "30": 30}
	for in, want := range cases {
		got, ok := ParseRange(in)
		if !ok || got != want {
			t.Fatalf("ParseRange(%q) = %d,%v want %d", in, got, ok, want)
		}
	}
	for _, in := range []string{"week", "-1", "0"} {
		if _, ok := ParseRange(in); ok {
			t.Fatalf("expected %q to be rejected", in)
		}
	}
}

func TestRefillStatus(t *testing.T) {
	m := med("m1", "p1", "2024-01-01")

	if r := RefillStatus(m); r.DaysUntilRefill != nil || r.NeedsRefill {
		t.Fatalf("expected no countdown without inventory, got %+v", r)
	}

	m.RemainingQuantity = intp(15)
	m.Frequency = "2"
	r := RefillStatus(m)
	if r.DaysUntilRefill == nil || *r.DaysUntilRefill != 7 || !r.NeedsRefill {
		t.Fatalf("expected 7 days and warning, got %+v", r)
	}

	m.RemainingQuantity = intp(30)
	m.Frequency = "1"
	r = RefillStatus(m)
	if *r.DaysUntilRefill != 30 || r.NeedsRefill {
		t.Fatalf("expected 30 days without warning, got %+v", r)
	}

	m.Frequency = "abc"
	if r := RefillStatus(m); r.DaysUntilRefill != nil {
		t.Fatalf("expected no countdown for invalid frequency")
	}
}

func TestBuildDashboard(t *testing.T) {
	low := med("low", "p1", "2024-01-04")
	low.RemainingQuantity = intp(3)
	low.Frequency = "1"

	snap := petmeds.Snapshot{
		Pets:        []petmeds.Pet{{ID: "p1", Name: "Milo"}, {ID: "p2", Name: "Luna"}},
		Medications: []petmeds.Medication{low, med("late", "p2", "2024-01-01"), med("later", "p2", "2024-02-01")},
	}

	db := BuildDashboard(snap, d("2024-01-04"))
	if db.OverdueCount != 1 || db.DueTodayCount != 1 || db.TotalPets != 2 || db.TotalMedications != 3 {
		t.Fatalf("unexpected counts: %+v", db)
	}
	if len(db.Refills) != 1 || db.Refills[0].MedicationID != "low" {
		t.Fatalf("unexpected refills: %+v", db.Refills)
	}
}
