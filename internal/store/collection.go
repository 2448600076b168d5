package store

import (
	"context"
	"encoding/json"

	"pet-meds/internal/ports/kv"
)

// LoadCollection lee una colección completa. Si nunca se escribió devuelve una lista vacía;
// si el contenido no se puede decodificar devuelve ErrStorageRead (nunca lo convierte en vacío).
func LoadCollection[T any](ctx context.Context, s kv.Store, key string) ([]T, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		return nil, readError(key, err)
	}
	if !ok || len(raw) == 0 {
		return []T{}, nil
	}

	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, readError(key, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// SaveCollection reemplaza la colección completa.
func SaveCollection[T any](ctx context.Context, s kv.Store, key string, items []T) error {
	b, err := encodeCollection(items)
	if err != nil {
		return writeError(key, err)
	}
	if err := kv.Set(ctx, s, key, b); err != nil {
		return writeError(key, err)
	}
	return nil
}

func encodeCollection[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	return json.Marshal(items)
}
