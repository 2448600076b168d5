package petmeds

import (
	"context"
	"fmt"
	"strings"

	"pet-meds/internal/domain/schedule"
)

type PetInput struct {
	// ID opcional: si viene y ya existe, se reemplaza (upsert).
	ID string

	Name      string
	PhotoURI  string
	Species   string
	Breed     string
	BirthDate *schedule.Date
	Weight    *float64
	Color     string
}

// PatchDate distingue "no enviado" de "enviado como null" (limpiar).
type PatchDate struct {
	Present bool
	Value   *schedule.Date
}

// PetPatch: punteros nil = no tocar.
type PetPatch struct {
	Name      *string
	PhotoURI  *string
	Species   *string
	Breed     *string
	BirthDate PatchDate
	Weight    *float64
	Color     *string
}

func (s *Service) AddPet(ctx context.Context, in PetInput) (Pet, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Pet{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if in.Weight != nil && *in.Weight <= 0 {
		return Pet{}, fmt.Errorf("%w: weight must be positive", ErrInvalidInput)
	}

	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = s.newID()
	}

	p := Pet{
		ID:        id,
		Name:      name,
		PhotoURI:  strings.TrimSpace(in.PhotoURI),
		Species:   strings.TrimSpace(in.Species),
		Breed:     strings.TrimSpace(in.Breed),
		BirthDate: in.BirthDate,
		Weight:    in.Weight,
		Color:     strings.TrimSpace(in.Color),
	}
	if in.Weight != nil {
		p.WeightHistory = []WeightEntry{{Date: s.Today(), Weight: *in.Weight}}
	}

	err := s.repo.Update(ctx, func(tx Tx) error {
		items, err := tx.Pets()
		if err != nil {
			return err
		}
		if i := indexPet(items, p.ID); i >= 0 {
			items[i] = p
		} else {
			items = append(items, p)
		}
		return tx.SetPets(items)
	}, CollectionPets)

	s.done(ctx, "add_pet", err, map[string]any{"pet_id": p.ID}, true)
	if err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) UpdatePet(ctx context.Context, id string, in PetPatch) (Pet, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return Pet{}, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
	}
	if in.Weight != nil && *in.Weight <= 0 {
		return Pet{}, fmt.Errorf("%w: weight must be positive", ErrInvalidInput)
	}

	today := s.Today()
	var updated Pet
	err := s.repo.Update(ctx, func(tx Tx) error {
		items, err := tx.Pets()
		if err != nil {
			return err
		}
		i := indexPet(items, id)
		if i < 0 {
			return ErrNotFound
		}

		p := items[i]
		if in.Name != nil {
			p.Name = strings.TrimSpace(*in.Name)
		}
		if in.PhotoURI != nil {
			p.PhotoURI = strings.TrimSpace(*in.PhotoURI)
		}
		if in.Species != nil {
			p.Species = strings.TrimSpace(*in.Species)
		}
		if in.Breed != nil {
			p.Breed = strings.TrimSpace(*in.Breed)
		}
		if in.Color != nil {
			p.Color = strings.TrimSpace(*in.Color)
		}
		if in.BirthDate.Present {
			p.BirthDate = in.BirthDate.Value
		}
		if in.Weight != nil && (p.Weight == nil || *p.Weight != *in.Weight) {
			p = withWeight(p, *in.Weight, today)
		}

		items[i] = p
		updated = p
		return tx.SetPets(items)
	}, CollectionPets)

	s.done(ctx, "update_pet", err, map[string]any{"pet_id": id}, true)
	if err != nil {
		return Pet{}, err
	}
	return updated, nil
}

// RecordWeight agrega una muestra al historial y actualiza el peso actual.
// on nil = hoy.
func (s *Service) RecordWeight(ctx context.Context, petID string, weight float64, on *schedule.Date) (Pet, error) {
	if weight <= 0 {
		return Pet{}, fmt.Errorf("%w: weight must be positive", ErrInvalidInput)
	}
	date := s.Today()
	if on != nil && !on.IsZero() {
		date = *on
	}

	var updated Pet
	err := s.repo.Update(ctx, func(tx Tx) error {
		items, err := tx.Pets()
		if err != nil {
			return err
		}
		i := indexPet(items, petID)
		if i < 0 {
			return ErrNotFound
		}
		items[i] = withWeight(items[i], weight, date)
		updated = items[i]
		return tx.SetPets(items)
	}, CollectionPets)

	s.done(ctx, "record_weight", err, map[string]any{"pet_id": petID}, false)
	if err != nil {
		return Pet{}, err
	}
	return updated, nil
}

// DeletePet borra la mascota y todas sus medicaciones en una sola escritura.
// Los logs de esas medicaciones quedan (historial).
func (s *Service) DeletePet(ctx context.Context, id string) error {
	removedMeds := 0
	err := s.repo.Update(ctx, func(tx Tx) error {
		pets, err := tx.Pets()
		if err != nil {
			return err
		}
		if indexPet(pets, id) < 0 {
			return ErrNotFound
		}
		meds, err := tx.Medications()
		if err != nil {
			return err
		}

		keptPets := make([]Pet, 0, len(pets))
		for _, p := range pets {
			if p.ID != id {
				keptPets = append(keptPets, p)
			}
		}
		keptMeds := make([]Medication, 0, len(meds))
		for _, m := range meds {
			if m.PetID != id {
				keptMeds = append(keptMeds, m)
			}
		}
		removedMeds = len(meds) - len(keptMeds)

		if err := tx.SetPets(keptPets); err != nil {
			return err
		}
		return tx.SetMedications(keptMeds)
	}, CollectionPets, CollectionMedications)

	s.done(ctx, "delete_pet", err, map[string]any{"pet_id": id, "removed_medications": removedMeds}, true)
	return err
}

func withWeight(p Pet, weight float64, on schedule.Date) Pet {
	w := weight
	p.Weight = &w
	history := make([]WeightEntry, 0, len(p.WeightHistory)+1)
	history = append(history, p.WeightHistory...)
	p.WeightHistory = append(history, WeightEntry{Date: on, Weight: weight})
	return p
}
