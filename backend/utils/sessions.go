package utils

import (
	"fmt"

	"vritti/backend/assessment"
	"vritti/backend/config"
	"vritti/backend/gate"
	"vritti/backend/profile"
	"vritti/backend/store"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// OpenBackend returns the profile backend for the configured driver. A nil db
// selects the in-memory backend.
func OpenBackend(cfg *config.Config, db *gorm.DB) (store.Backend, error) {
	if db == nil || cfg.StoreDriver == config.DriverMemory {
		return store.NewMemoryBackend(), nil
	}
	backend, err := store.NewCachedBackend(store.NewGormBackend(db), cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("open profile backend: %w", err)
	}
	return backend, nil
}

// NewSessions builds the registry of per-device gates over backend.
func NewSessions(cfg *config.Config, backend store.Backend, catalog *assessment.Catalog, log logrus.FieldLogger, obs gate.Observer) (*gate.Registry, error) {
	return gate.NewRegistry(cfg.SessionCacheSize, func(deviceID string) *gate.Gate {
		var opts []profile.Option
		if catalog != nil {
			opts = append(opts, profile.WithCatalog(catalog))
		}
		p := profile.New(store.NewSessionStore(store.Scoped(backend, deviceID)), opts...)
		return gate.New(p,
			gate.WithLogger(log.WithField("device_id", deviceID)),
			gate.WithObserver(obs),
		)
	})
}
