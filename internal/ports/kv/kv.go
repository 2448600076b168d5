package kv

import (
	"context"
	"errors"
)

var ErrClosed = errors.New("kv store closed")

// Store es el sustrato durable clave/valor donde se persisten las colecciones.
// Cada valor se lee y se reemplaza entero; no hay escrituras parciales.
type Store interface {
	// Get devuelve (nil, false, nil) si la clave nunca se escribió.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// SetMany escribe todas las claves de forma atómica: o se aplican todas o ninguna.
	SetMany(ctx context.Context, entries map[string][]byte) error

	Close() error
}

// Set es un atajo para escribir una sola clave.
func Set(ctx context.Context, s Store, key string, value []byte) error {
	return s.SetMany(ctx, map[string][]byte{key: value})
}
