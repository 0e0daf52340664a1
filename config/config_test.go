package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", ":9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "nlk", cfg.KeyNamespace)
	assert.False(t, cfg.CatalogDemo)
}

func TestValidate_PostgresNeedsConnection(t *testing.T) {
	cfg := &Config{StoreBackend: "postgres", KeyNamespace: "nlk"}
	assert.Error(t, cfg.Validate())

	cfg.DatabaseURL = "postgres://u:p@localhost/shop"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "postgres://u:p@localhost/shop", cfg.PostgresDSN())
}

func TestValidate_UnknownBackend(t *testing.T) {
	cfg := &Config{StoreBackend: "sqlite", KeyNamespace: "nlk"}
	assert.Error(t, cfg.Validate())
}

func TestPostgresDSN_FromParts(t *testing.T) {
	cfg := &Config{DBHost: "db", DBPort: "5432", DBUser: "shop", DBPassword: "pw", DBName: "store", DBSSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=shop password=pw dbname=store sslmode=disable", cfg.PostgresDSN())
}
