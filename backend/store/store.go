// Package store persists flat per-device key/value strings.
//
// A Backend holds the values of every device; Scoped binds it to one device
// id, which is the unit of "one browser" the profile lives in. Every backend
// failure is reported as ErrStorageUnavailable so callers can degrade to
// session-only state instead of failing the request.
package store

import (
	"context"
	"errors"
	"fmt"
)

var ErrStorageUnavailable = errors.New("storage unavailable")

// Backend is safe for concurrent use. Get reports absence with ok=false and
// a nil error.
type Backend interface {
	Get(ctx context.Context, scope, key string) (value string, ok bool, err error)
	Set(ctx context.Context, scope, key, value string) error
}

// Store is a Backend bound to one scope.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

type scoped struct {
	backend Backend
	scope   string
}

func Scoped(b Backend, scope string) Store {
	return &scoped{backend: b, scope: scope}
}

func (s *scoped) Get(ctx context.Context, key string) (string, bool, error) {
	return s.backend.Get(ctx, s.scope, key)
}

func (s *scoped) Set(ctx context.Context, key, value string) error {
	return s.backend.Set(ctx, s.scope, key, value)
}

func unavailable(op, key string, err error) error {
	return fmt.Errorf("%s %q: %w: %v", op, key, ErrStorageUnavailable, err)
}
