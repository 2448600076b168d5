package store_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-meds/internal/adapters/storage/memory"
	"pet-meds/internal/domain/petmeds"
	"pet-meds/internal/domain/schedule"
	"pet-meds/internal/ports/kv"
	"pet-meds/internal/store"
)

// failingKV falla todas las escrituras (y opcionalmente lecturas).
type failingKV struct {
	*memory.KV
	failGet bool
}

var errDisk = errors.New("disk full")

func (f *failingKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if f.failGet {
		return nil, false, errDisk
	}
	return f.KV.Get(ctx, key)
}

func (f *failingKV) SetMany(ctx context.Context, entries map[string][]byte) error {
	return errDisk
}

func TestLoadCollection_EmptyWhenMissing(t *testing.T) {
	items, err := store.LoadCollection[petmeds.Pet](context.Background(), memory.NewKV(), "pet_meds_pets")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestLoadCollection_CorruptDataIsReadError(t *testing.T) {
	s := memory.NewKV()
	require.NoError(t, kv.Set(context.Background(), s, "pet_meds_pets", []byte(`{"oops":`)))

	_, err := store.LoadCollection[petmeds.Pet](context.Background(), s, "pet_meds_pets")
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrStorageRead))
	assert.False(t, errors.Is(err, store.ErrStorageWrite))

	var se *store.StorageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "pet_meds_pets", se.Key)
}

func TestLoadCollection_InvalidNextDueIsReadError(t *testing.T) {
	s := memory.NewKV()
	require.NoError(t, kv.Set(context.Background(), s, "meds", []byte(`[{"id":"m1","nextDue":"someday"}]`)))

	_, err := store.LoadCollection[petmeds.Medication](context.Background(), s, "meds")
	assert.True(t, errors.Is(err, store.ErrStorageRead))
}

func TestLoadCollection_OldRecordsWithoutOptionalFields(t *testing.T) {
	s := memory.NewKV()
	// Forma de la primera versión: sin reminderTime, inventario ni historial de peso.
	require.NoError(t, kv.Set(context.Background(), s, "meds", []byte(
		`[{"id":"1700000000000","petId":"p1","name":"Heartgard","dosage":"1 chew","schedule":"Monthly","nextDue":"2024-01-10"}]`,
	)))

	meds, err := store.LoadCollection[petmeds.Medication](context.Background(), s, "meds")
	require.NoError(t, err)
	require.Len(t, meds, 1)
	assert.Nil(t, meds[0].LastGiven)
	assert.Nil(t, meds[0].RemainingQuantity)
	assert.Equal(t, "08:00", meds[0].ReminderClock())
	assert.Equal(t, schedule.MustParseDate("2024-01-10"), meds[0].NextDue)
}

func TestSaveCollection_OverwritesWholeValue(t *testing.T) {
	ctx := context.Background()
	s := memory.NewKV()

	require.NoError(t, store.SaveCollection(ctx, s, "k", []petmeds.Pet{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}))
	require.NoError(t, store.SaveCollection(ctx, s, "k", []petmeds.Pet{{ID: "c", Name: "C"}}))

	items, err := store.LoadCollection[petmeds.Pet](ctx, s, "k")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "c", items[0].ID)

	require.NoError(t, store.SaveCollection[petmeds.Pet](ctx, s, "k", nil))
	raw, _, _ := s.Get(ctx, "k")
	assert.Equal(t, "[]", string(raw))
}

func TestSaveCollection_WriteError(t *testing.T) {
	err := store.SaveCollection(context.Background(), &failingKV{KV: memory.NewKV()}, "k", []petmeds.Pet{{ID: "a"}})
	assert.True(t, errors.Is(err, store.ErrStorageWrite))
	assert.True(t, errors.Is(err, errDisk))
}

func TestRecords_Update_WritesOnlyDirtyCollections(t *testing.T) {
	ctx := context.Background()
	s := memory.NewKV()
	r := store.NewRecords(s, store.DefaultKeyPrefix)

	err := r.Update(ctx, func(tx petmeds.Tx) error {
		pets, err := tx.Pets()
		if err != nil {
			return err
		}
		return tx.SetPets(append(pets, petmeds.Pet{ID: "p1", Name: "Milo"}))
	}, petmeds.CollectionPets, petmeds.CollectionMedications)
	require.NoError(t, err)

	_, ok, _ := s.Get(ctx, "pet_meds_pets")
	assert.True(t, ok)
	_, ok, _ = s.Get(ctx, "pet_meds_medications")
	assert.False(t, ok, "untouched collection must not be written")
}

func TestRecords_Update_ErrorInFnWritesNothing(t *testing.T) {
	ctx := context.Background()
	s := memory.NewKV()
	r := store.NewRecords(s, "")

	boom := errors.New("boom")
	err := r.Update(ctx, func(tx petmeds.Tx) error {
		_ = tx.SetPets([]petmeds.Pet{{ID: "p1"}})
		return boom
	}, petmeds.CollectionPets)
	assert.ErrorIs(t, err, boom)

	pets, err := r.Pets(ctx)
	require.NoError(t, err)
	assert.Empty(t, pets)
}

func TestRecords_Update_UnlockedCollection(t *testing.T) {
	r := store.NewRecords(memory.NewKV(), "")

	err := r.Update(context.Background(), func(tx petmeds.Tx) error {
		_, err := tx.Logs()
		return err
	}, petmeds.CollectionPets)
	assert.ErrorIs(t, err, petmeds.ErrCollectionNotLocked)
}

func TestRecords_Update_MultiCollectionWriteFailureLeavesBothUntouched(t *testing.T) {
	ctx := context.Background()
	base := memory.NewKV()
	require.NoError(t, store.SaveCollection(ctx, base, "medications", []petmeds.Medication{{ID: "m1", Name: "A"}}))

	r := store.NewRecords(&failingKV{KV: base}, "")
	err := r.Update(ctx, func(tx petmeds.Tx) error {
		if err := tx.SetMedications(nil); err != nil {
			return err
		}
		return tx.SetLogs([]petmeds.MedicationLog{{MedicationID: "m1", GivenAt: time.Now()}})
	}, petmeds.CollectionMedications, petmeds.CollectionLogs)
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrStorageWrite))

	meds, err := store.LoadCollection[petmeds.Medication](ctx, base, "medications")
	require.NoError(t, err)
	assert.Len(t, meds, 1)
	logs, err := store.LoadCollection[petmeds.MedicationLog](ctx, base, "logs")
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestRecords_Update_ReadFailureSurfaces(t *testing.T) {
	r := store.NewRecords(&failingKV{KV: memory.NewKV(), failGet: true}, "")
	called := false
	err := r.Update(context.Background(), func(tx petmeds.Tx) error {
		called = true
		return nil
	}, petmeds.CollectionPets)
	assert.True(t, errors.Is(err, store.ErrStorageRead))
	assert.False(t, called)
}

// Sin la cola por clave, escrituras intercaladas pisarían cambios ajenos.
func TestRecords_Update_ConcurrentMutationsAreSerialized(t *testing.T) {
	ctx := context.Background()
	r := store.NewRecords(memory.NewKV(), store.DefaultKeyPrefix)

	const n = 50
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- r.Update(ctx, func(tx petmeds.Tx) error {
				pets, err := tx.Pets()
				if err != nil {
					return err
				}
				return tx.SetPets(append(pets, petmeds.Pet{ID: fmt.Sprintf("p%d", i), Name: "x"}))
			}, petmeds.CollectionPets)
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	pets, err := r.Pets(ctx)
	require.NoError(t, err)
	assert.Len(t, pets, n)
}

func TestRecords_Update_ContextCancelledWhileWaiting(t *testing.T) {
	r := store.NewRecords(memory.NewKV(), "")

	entered := make(chan struct{})
	unblock := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- r.Update(context.Background(), func(tx petmeds.Tx) error {
			close(entered)
			<-unblock
			return nil
		}, petmeds.CollectionPets)
	}()
	<-entered

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := r.Update(ctx, func(tx petmeds.Tx) error { return nil }, petmeds.CollectionPets)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(unblock)
	require.NoError(t, <-done)
}
