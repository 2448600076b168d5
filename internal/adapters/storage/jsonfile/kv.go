package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"pet-meds/internal/ports/kv"
)

// KV guarda todas las claves en un único archivo JSON ({"clave": valor}).
// Cada SetMany reescribe el archivo completo vía archivo temporal + rename,
// así que las escrituras multi-clave quedan atómicas.
//
// Un archivo corrupto no impide abrir: Get y SetMany devuelven el error de
// decodificación (que el store reporta como error de lectura) y el archivo
// no se toca hasta que alguien lo repare.
type KV struct {
	filePath string

	mu      sync.RWMutex
	state   map[string]json.RawMessage
	corrupt error
	closed  bool
}

var _ kv.Store = (*KV)(nil)

func Open(filePath string) (*KV, error) {
	s := &KV{
		filePath: filePath,
		state:    make(map[string]json.RawMessage),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *KV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, false, kv.ErrClosed
	}
	if s.corrupt != nil {
		return nil, false, s.corrupt
	}
	v, ok := s.state[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (s *KV) SetMany(ctx context.Context, entries map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return kv.ErrClosed
	}
	if s.corrupt != nil {
		return s.corrupt
	}

	next := make(map[string]json.RawMessage, len(s.state)+len(entries))
	for k, v := range s.state {
		next[k] = v
	}
	for k, v := range entries {
		if !json.Valid(v) {
			return fmt.Errorf("jsonfile: value for %q is not valid json", k)
		}
		cp := make([]byte, len(v))
		copy(cp, v)
		next[k] = cp
	}

	if err := s.persist(next); err != nil {
		return err
	}
	s.state = next
	return nil
}

func (s *KV) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *KV) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("jsonfile: read: %w", err)
	}
	if len(data) == 0 {
		return nil
	}
	var state map[string]json.RawMessage
	if err := json.Unmarshal(data, &state); err != nil {
		s.corrupt = fmt.Errorf("jsonfile: decode %s: %w", s.filePath, err)
		return nil
	}
	if state == nil {
		state = make(map[string]json.RawMessage)
	}
	s.state = state
	return nil
}

func (s *KV) persist(state map[string]json.RawMessage) error {
	if err := os.MkdirAll(filepath.Dir(s.filePath), 0o755); err != nil {
		return fmt.Errorf("jsonfile: mkdir: %w", err)
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonfile: encode: %w", err)
	}

	tmpPath := s.filePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("jsonfile: write: %w", err)
	}
	return os.Rename(tmpPath, s.filePath)
}
