package store

import (
	"context"
	"errors"
	"slices"
	"strings"

	"pet-meds/internal/domain/petmeds"
	"pet-meds/internal/ports/kv"
)

// DefaultKeyPrefix reproduce las claves históricas: pet_meds_pets, pet_meds_medications, pet_meds_logs.
const DefaultKeyPrefix = "pet_meds_"

// Records implementa petmeds.Repository sobre un kv.Store.
type Records struct {
	kv     kv.Store
	prefix string
	locks  *keyLocks
}

var _ petmeds.Repository = (*Records)(nil)

func NewRecords(s kv.Store, prefix string) *Records {
	return &Records{
		kv:     s,
		prefix: prefix,
		locks:  newKeyLocks(),
	}
}

// Key devuelve la clave kv de una colección.
func (r *Records) Key(c petmeds.Collection) string {
	return r.prefix + string(c)
}

func (r *Records) Pets(ctx context.Context) ([]petmeds.Pet, error) {
	return LoadCollection[petmeds.Pet](ctx, r.kv, r.Key(petmeds.CollectionPets))
}

func (r *Records) Medications(ctx context.Context) ([]petmeds.Medication, error) {
	return LoadCollection[petmeds.Medication](ctx, r.kv, r.Key(petmeds.CollectionMedications))
}

func (r *Records) Logs(ctx context.Context) ([]petmeds.MedicationLog, error) {
	return LoadCollection[petmeds.MedicationLog](ctx, r.kv, r.Key(petmeds.CollectionLogs))
}

func (r *Records) Update(ctx context.Context, fn func(tx petmeds.Tx) error, cols ...petmeds.Collection) error {
	if len(cols) == 0 {
		return errors.New("store: update requires at least one collection")
	}

	keys := make([]string, 0, len(cols))
	for _, c := range cols {
		keys = append(keys, r.Key(c))
	}

	release, err := r.locks.acquire(ctx, keys)
	if err != nil {
		return err
	}
	defer release()

	t := &tx{locked: map[petmeds.Collection]bool{}, dirty: map[petmeds.Collection]bool{}}
	for _, c := range cols {
		t.locked[c] = true
		switch c {
		case petmeds.CollectionPets:
			if t.pets, err = r.Pets(ctx); err != nil {
				return err
			}
		case petmeds.CollectionMedications:
			if t.meds, err = r.Medications(ctx); err != nil {
				return err
			}
		case petmeds.CollectionLogs:
			if t.logs, err = r.Logs(ctx); err != nil {
				return err
			}
		default:
			return errors.New("store: unknown collection " + string(c))
		}
	}

	if err := fn(t); err != nil {
		return err
	}

	entries := map[string][]byte{}
	dirtyKeys := make([]string, 0, len(t.dirty))
	for c := range t.dirty {
		var (
			b   []byte
			err error
		)
		switch c {
		case petmeds.CollectionPets:
			b, err = encodeCollection(t.pets)
		case petmeds.CollectionMedications:
			b, err = encodeCollection(t.meds)
		case petmeds.CollectionLogs:
			b, err = encodeCollection(t.logs)
		}
		if err != nil {
			return writeError(r.Key(c), err)
		}
		entries[r.Key(c)] = b
		dirtyKeys = append(dirtyKeys, r.Key(c))
	}
	if len(entries) == 0 {
		return nil
	}

	if err := r.kv.SetMany(ctx, entries); err != nil {
		slices.Sort(dirtyKeys)
		return writeError(strings.Join(dirtyKeys, ","), err)
	}
	return nil
}

type tx struct {
	locked map[petmeds.Collection]bool
	dirty  map[petmeds.Collection]bool

	pets []petmeds.Pet
	meds []petmeds.Medication
	logs []petmeds.MedicationLog
}

func (t *tx) check(c petmeds.Collection) error {
	if !t.locked[c] {
		return petmeds.ErrCollectionNotLocked
	}
	return nil
}

func (t *tx) Pets() ([]petmeds.Pet, error) {
	if err := t.check(petmeds.CollectionPets); err != nil {
		return nil, err
	}
	return slices.Clone(t.pets), nil
}

func (t *tx) SetPets(items []petmeds.Pet) error {
	if err := t.check(petmeds.CollectionPets); err != nil {
		return err
	}
	t.pets = items
	t.dirty[petmeds.CollectionPets] = true
	return nil
}

func (t *tx) Medications() ([]petmeds.Medication, error) {
	if err := t.check(petmeds.CollectionMedications); err != nil {
		return nil, err
	}
	return slices.Clone(t.meds), nil
}

func (t *tx) SetMedications(items []petmeds.Medication) error {
	if err := t.check(petmeds.CollectionMedications); err != nil {
		return err
	}
	t.meds = items
	t.dirty[petmeds.CollectionMedications] = true
	return nil
}

func (t *tx) Logs() ([]petmeds.MedicationLog, error) {
	if err := t.check(petmeds.CollectionLogs); err != nil {
		return nil, err
	}
	return slices.Clone(t.logs), nil
}

func (t *tx) SetLogs(items []petmeds.MedicationLog) error {
	if err := t.check(petmeds.CollectionLogs); err != nil {
		return err
	}
	t.logs = items
	t.dirty[petmeds.CollectionLogs] = true
	return nil
}
