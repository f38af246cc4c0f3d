package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("catalog-service")
	require.NoError(t, err)

	assert.Equal(t, "catalog-service", cfg.ServiceName)
	assert.Equal(t, "catalog_service", cfg.Metrics.Prefix)
	assert.Empty(t, cfg.Metrics.PushURL)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.Equal(t, 15*time.Second, cfg.Identity.AuthTimeout)
	assert.Equal(t, 5*time.Second, cfg.Identity.ProfileTimeout)
	assert.Equal(t, defaultAPIBaseURL, cfg.Catalog.BaseURL)
	assert.Equal(t, "catalog-service", cfg.DB.DBName)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("CATALOG_BASE_URL", "http://localhost:8080/api")
	t.Setenv("CATALOG_TIMEOUT", "3s")
	t.Setenv("AUTH_TIMEOUT", "2s")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("DB_LOG_LEVEL", "silent")
	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("CATALOG_STORE", "postgres")
	t.Setenv("METRICS_PUSH_URL", "http://pushgateway:9091")

	cfg, err := Load("storefront")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/api", cfg.Catalog.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, 2*time.Second, cfg.Identity.AuthTimeout)
	assert.True(t, cfg.Storage.MinioUseSSL)
	assert.Equal(t, logger.Silent, cfg.DB.LogLevel)
	assert.Equal(t, 7, cfg.DB.MaxOpenConns)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "http://pushgateway:9091", cfg.Metrics.PushURL)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("DB_MAX_IDLE_CONNS", "many")
	t.Setenv("CATALOG_TIMEOUT", "soon")

	cfg, err := Load("storefront")
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.DB.MaxIdleConns)
	assert.Equal(t, 30*time.Second, cfg.Catalog.Timeout)
}

func TestLoad_RejectsUnknownStore(t *testing.T) {
	t.Setenv("CATALOG_STORE", "mongo")

	_, err := Load("catalog-service")
	assert.Error(t, err)
}

func TestDBConfig_GetDSN(t *testing.T) {
	c := DBConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "n", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", c.GetDSN())
}
