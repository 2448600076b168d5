package petmeds

import (
	"context"
	"errors"
)

// Collection identifica una de las tres colecciones persistidas.
type Collection string

const (
	CollectionPets        Collection = "pets"
	CollectionMedications Collection = "medications"
	CollectionLogs        Collection = "logs"
)

var ErrCollectionNotLocked = errors.New("collection not locked for this update")

// Tx da acceso a las colecciones bloqueadas dentro de Repository.Update.
// Pedir o escribir una colección no bloqueada devuelve ErrCollectionNotLocked.
type Tx interface {
	Pets() ([]Pet, error)
	SetPets(items []Pet) error

	Medications() ([]Medication, error)
	SetMedications(items []Medication) error

	Logs() ([]MedicationLog, error)
	SetLogs(items []MedicationLog) error
}

type Repository interface {
	Pets(ctx context.Context) ([]Pet, error)
	Medications(ctx context.Context) ([]Medication, error)
	Logs(ctx context.Context) ([]MedicationLog, error)

	// Update serializa read-modify-write sobre las colecciones indicadas:
	// mientras fn corre nadie más puede mutarlas. Si fn devuelve error no se escribe nada;
	// si no, todas las colecciones modificadas se escriben juntas.
	Update(ctx context.Context, fn func(tx Tx) error, cols ...Collection) error
}
