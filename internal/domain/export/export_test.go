package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"pet-meds/internal/domain/petmeds"
	"pet-meds/internal/domain/schedule"
)

type staticSource struct {
	snap petmeds.Snapshot
	err  error
}

func (s staticSource) Snapshot(context.Context) (petmeds.Snapshot, error) { return s.snap, s.err }

type memSink struct {
	files map[string][]byte
	types map[string]string
	err   error
}

func (m *memSink) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if m.files == nil {
		m.files = map[string][]byte{}
		m.types = map[string]string{}
	}
	m.files[name] = data
	m.types[name] = contentType
	return "mem://" + name, nil
}

func sampleSnapshot() petmeds.Snapshot {
	last := schedule.MustParseDate("2024-01-09")
	return petmeds.Snapshot{
		Pets: []petmeds.Pet{{ID: "p1", Name: "Milo"}},
		Medications: []petmeds.Medication{
			{ID: "m1", PetID: "p1", Name: "Apoquel", Dosage: "16mg, with food", Schedule: schedule.Daily, NextDue: schedule.MustParseDate("2024-01-10"), LastGiven: &last},
			{ID: "m2", PetID: "gone", Name: "Bravecto", Dosage: "1 chew", Schedule: schedule.Every3Months, NextDue: schedule.MustParseDate("2024-03-01")},
		},
		Logs: []petmeds.MedicationLog{
			{MedicationID: "m1", GivenAt: time.Date(2024, 1, 8, 8, 0, 0, 0, time.UTC)},
			{MedicationID: "m1", GivenAt: time.Date(2024, 1, 9, 8, 0, 0, 0, time.UTC)},
		},
	}
}

func newTestService(src Source, sink Sink) *Service {
	svc := NewService(src, sink, Options{Location: time.UTC})
	svc.now = func() time.Time { return time.Date(2024, 1, 10, 23, 30, 0, 0, time.UTC) }
	return svc
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteReport(&buf, sampleSnapshot()); err != nil {
		t.Fatalf("WriteReport returned error: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("report is not valid csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	want := []string{"Milo", "Apoquel", "16mg, with food", "Daily", "2024-01-09", "2024-01-10", "2"}
	for i := range want {
		if rows[1][i] != want[i] {
			t.Fatalf("row 1 col %d: got %q want %q", i, rows[1][i], want[i])
		}
	}
	if rows[2][0] != "Unknown" || rows[2][3] != "Every 3 Months" || rows[2][4] != "Never" || rows[2][6] != "0" {
		t.Fatalf("unexpected row 2: %v", rows[2])
	}
}

func TestService_Backup(t *testing.T) {
	sink := &memSink{}
	svc := newTestService(staticSource{snap: sampleSnapshot()}, sink)

	res, err := svc.Backup(context.Background())
	if err != nil {
		t.Fatalf("Backup returned error: %v", err)
	}
	if res.Name != "petmeds-backup-2024-01-10.json" || res.Location != "mem://petmeds-backup-2024-01-10.json" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if sink.types[res.Name] != ContentTypeJSON {
		t.Fatalf("unexpected content type %q", sink.types[res.Name])
	}

	var b Backup
	if err := json.Unmarshal(sink.files[res.Name], &b); err != nil {
		t.Fatalf("backup is not valid json: %v", err)
	}
	if len(b.Pets) != 1 || len(b.Medications) != 2 || len(b.Logs) != 2 || b.Timestamp.IsZero() {
		t.Fatalf("unexpected backup: %+v", b)
	}
}

func TestEncodeBackup_EmptyCollections(t *testing.T) {
	data, err := EncodeBackup(petmeds.Snapshot{}, time.Unix(0, 0).UTC())
	if err != nil {
		t.Fatalf("EncodeBackup returned error: %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	for _, k := range []string{"pets", "medications", "logs"} {
		if string(raw[k]) != "[]" {
			t.Fatalf("expected %s to be [], got %s", k, raw[k])
		}
	}
}

func TestService_Report(t *testing.T) {
	sink := &memSink{}
	svc := newTestService(staticSource{snap: sampleSnapshot()}, sink)

	res, err := svc.Report(context.Background())
	if err != nil {
		t.Fatalf("Report returned error: %v", err)
	}
	if res.Name != "petmeds-report-2024-01-10.csv" || sink.types[res.Name] != ContentTypeCSV {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Bytes != len(sink.files[res.Name]) {
		t.Fatalf("byte count mismatch")
	}
}

func TestService_Errors(t *testing.T) {
	boom := errors.New("boom")

	svc := newTestService(staticSource{err: boom}, &memSink{})
	if _, err := svc.Backup(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected source error, got %v", err)
	}

	svc = newTestService(staticSource{snap: sampleSnapshot()}, &memSink{err: boom})
	if _, err := svc.Report(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected sink error, got %v", err)
	}
}
