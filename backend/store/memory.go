package store

import (
	"context"
	"sync"
)

type MemoryBackend struct {
	mu     sync.RWMutex
	scopes map[string]map[string]string
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{scopes: make(map[string]map[string]string)}
}

func (m *MemoryBackend) Get(_ context.Context, scope, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.scopes[scope][key]
	return v, ok, nil
}

func (m *MemoryBackend) Set(_ context.Context, scope, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kv, ok := m.scopes[scope]
	if !ok {
		kv = make(map[string]string)
		m.scopes[scope] = kv
	}
	kv[key] = value
	return nil
}
