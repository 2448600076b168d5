package memory

import (
	"context"
	"sync"

	"pet-meds/internal/ports/kv"
)

// KV es un sustrato en memoria. Sirve para tests y para modo dev sin disco.
type KV struct {
	mu     sync.RWMutex
	byKey  map[string][]byte
	closed bool
}

func NewKV() *KV {
	return &KV{
		byKey: make(map[string][]byte),
	}
}

var _ kv.Store = (*KV)(nil)

func (s *KV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, false, kv.ErrClosed
	}
	v, ok := s.byKey[key]
	if !ok {
		return nil, false, nil
	}
	// copia para que el caller no mute el estado interno
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
	for k, v := range entries {
		cp := make([]byte, len(v))
		copy(cp, v)
		s.byKey[k] = cp
	}
	return nil
}

func (s *KV) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
