package utils

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"vritti/backend/config"
	"vritti/backend/profile"
	"vritti/backend/store"

	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		StoreDriver:   config.DriverMemory,
		JWTSecret:     "testsecret",
		TokenTTLHours: 1,
		LogLevel:      "debug",
		LogFormat:     "json",
	}
}

func TestDeviceTokenRoundTrip(t *testing.T) {
	cfg := testConfig()
	id := NewDeviceID()

	token, err := GenerateDeviceToken(id, cfg)
	require.NoError(t, err)

	got, err := ParseDeviceToken(token, cfg)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	got, err = ParseDeviceToken("Bearer "+token, cfg)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	for _, header := range []string{"bearer " + token, "BEARER  " + token} {
		got, err = ParseDeviceToken(header, cfg)
		require.NoError(t, err, header)
		assert.Equal(t, id, got)
	}
}

func TestDeviceTokenRejected(t *testing.T) {
	cfg := testConfig()
	token, err := GenerateDeviceToken(NewDeviceID(), cfg)
	require.NoError(t, err)

	other := testConfig()
	other.JWTSecret = "othersecret"
	_, err = ParseDeviceToken(token, other)
	assert.Error(t, err)

	_, err = ParseDeviceToken("", cfg)
	assert.Error(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"device_id": NewDeviceID(),
		"exp":       int64(1),
	})
	signed, err := expired.SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)
	_, err = ParseDeviceToken(signed, cfg)
	assert.Error(t, err)

	bogus := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"device_id": "../etc"})
	signed, err = bogus.SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)
	_, err = ParseDeviceToken(signed, cfg)
	assert.Error(t, err)
}

func TestInitLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig()
	logger := InitLogger(cfg, &buf)

	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	logger.WithField("device_id", "d1").Info("hello")
	assert.Contains(t, buf.String(), `"device_id":"d1"`)

	cfg.LogLevel = "loud"
	cfg.LogFormat = "text"
	logger = InitLogger(cfg, &buf)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}

func TestInitDB(t *testing.T) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})

	cfg := testConfig()
	db, err := InitDB(cfg, log)
	require.NoError(t, err)
	assert.Nil(t, db)

	cfg.StoreDriver = config.DriverSQLite
	cfg.SQLitePath = filepath.Join(t.TempDir(), "vritti.db")
	db, err = InitDB(cfg, log)
	require.NoError(t, err)
	require.NotNil(t, db)
	require.NoError(t, Migrate(db))
	assert.True(t, db.Migrator().HasTable("profile_entries"))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.Close()

	cfg.StoreDriver = "redis"
	_, err = InitDB(cfg, log)
	assert.Error(t, err)
}

func TestOpenBackendAndSessions(t *testing.T) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})

	cfg := testConfig()
	cfg.StoreDriver = config.DriverSQLite
	cfg.SQLitePath = filepath.Join(t.TempDir(), "vritti.db")
	cfg.CacheSize = 8
	cfg.SessionCacheSize = 2
	db, err := InitDB(cfg, log)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	backend, err := OpenBackend(cfg, db)
	require.NoError(t, err)
	assert.IsType(t, &store.CachedBackend{}, backend)

	sessions, err := NewSessions(cfg, backend, nil, log, nil)
	require.NoError(t, err)

	ctx := context.Background()
	g := sessions.Get("device-a")
	_, err = g.SubmitName(ctx, "Sam")
	require.NoError(t, err)
	assert.Same(t, g, sessions.Get("device-a"))

	name, ok, err := backend.Get(ctx, "device-a", profile.KeyDisplayName)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Sam", name)

	memCfg := testConfig()
	backend, err = OpenBackend(memCfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &store.MemoryBackend{}, backend)
}
