package config

import (
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/recordguard/query/domain"
	"github.com/satishbabariya/recordguard/runtime/plugin"
)

const sample = `provider: postgres
database_url: postgres://localhost/app
user_id: u1
business_unit: bu1
log_level: debug
columns:
  creator_id: createdby
postgres:
  returning_column: rid
grants:
  - business_unit_id: A
    read: businessunit
    write: 1
  - business_unit_id: B
    read: 2
    entity: orders
plugins:
  orders:
    - touch
`

func useMemFs(t *testing.T) afero.Fs {
	t.Helper()
	prev := AppFs
	fs := afero.NewMemMapFs()
	AppFs = fs
	t.Cleanup(func() { AppFs = prev })
	return fs
}

func TestLoad(t *testing.T) {
	fs := useMemFs(t)
	require.NoError(t, afero.WriteFile(fs, "/etc/rg/.recordguard.yaml", []byte(sample), 0644))
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load("/etc/rg/.recordguard.yaml")
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Provider)
	assert.Equal(t, "postgres://localhost/app", cfg.DatabaseURL)
	assert.Equal(t, "u1", cfg.UserID)
	assert.Equal(t, "bu1", cfg.BusinessUnit)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "rid", cfg.Postgres.ReturningColumn)

	cols := cfg.BuilderColumns()
	assert.Equal(t, "id", cols.ID)
	assert.Equal(t, "createdby", cols.CreatorID)
	assert.Equal(t, "businessUnitId", cols.BusinessUnitID)

	grants, err := cfg.PermissionGrants()
	require.NoError(t, err)
	require.Len(t, grants, 2)
	assert.Equal(t, domain.PermissionGrant{
		GranteeUserID: "u1", BusinessUnitID: "A",
		Read: domain.BusinessUnit, Write: domain.Owner, Delete: domain.Denied,
	}, grants[0])
	assert.Equal(t, domain.BusinessUnit, grants[1].Read)
	assert.Equal(t, "orders", grants[1].EntityName)

	assert.Equal(t, []plugin.EntityPlugin{{Entity: "Orders", PluginID: "touch"}}, cfg.EntityPlugins("Orders"))
	assert.Empty(t, cfg.EntityPlugins("accounts"))
}

func TestLoad_EnvOverrides(t *testing.T) {
	fs := useMemFs(t)
	require.NoError(t, afero.WriteFile(fs, "/etc/rg/.recordguard.yaml", []byte(sample), 0644))
	t.Setenv("DATABASE_URL", "mysql://override")
	t.Setenv("RECORDGUARD_USER_ID", "u9")

	cfg, err := Load("/etc/rg/.recordguard.yaml")
	require.NoError(t, err)

	assert.Equal(t, "mysql://override", cfg.DatabaseURL)
	assert.Equal(t, "u9", cfg.UserID)
}

func TestLoad_Defaults(t *testing.T) {
	useMemFs(t)
	t.Setenv("HOME", "/home/nobody")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.Provider)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "creatorId", cfg.BuilderColumns().CreatorID)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	useMemFs(t)

	_, err := Load("/nope/.recordguard.yaml")
	assert.Error(t, err)
}

func TestPermissionGrants_InvalidLevel(t *testing.T) {
	cfg := &Config{Grants: []GrantConfig{{Read: "everything"}}}

	_, err := cfg.PermissionGrants()
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestLoad_RecordsFile(t *testing.T) {
	fs := useMemFs(t)
	require.NoError(t, afero.WriteFile(fs, "/etc/rg/.recordguard.yaml", []byte(sample), 0644))

	cfg, err := Load("/etc/rg/.recordguard.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/etc/rg/.recordguard.yaml", cfg.File)
}

// unsetEnv clears keys for the test and again afterwards.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		require.NoError(t, os.Unsetenv(k))
	}
	t.Cleanup(func() {
		for _, k := range keys {
			_ = os.Unsetenv(k)
		}
	})
}

func TestLoad_DotEnvFiles(t *testing.T) {
	fs := useMemFs(t)
	require.NoError(t, afero.WriteFile(fs, "/etc/rg/.recordguard.yaml", []byte(sample), 0644))
	require.NoError(t, afero.WriteFile(fs, ".env", []byte(
		"RG_DOTENV_SHARED=env\nRG_DOTENV_ONLY=env\nRG_DOTENV_PRESET=env\nDATABASE_URL=mysql://from-env-file\n"), 0644))
	require.NoError(t, afero.WriteFile(fs, ".env.local", []byte(
		"RG_DOTENV_SHARED=local\nDATABASE_URL=sqlite://from-local\n"), 0644))

	unsetEnv(t, "RG_DOTENV_SHARED", "RG_DOTENV_ONLY")
	t.Setenv("RG_DOTENV_PRESET", "process")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load("/etc/rg/.recordguard.yaml")
	require.NoError(t, err)

	assert.Equal(t, "local", os.Getenv("RG_DOTENV_SHARED"), ".env.local overrides .env")
	assert.Equal(t, "env", os.Getenv("RG_DOTENV_ONLY"))
	assert.Equal(t, "process", os.Getenv("RG_DOTENV_PRESET"), ".env does not override the environment")
	assert.Equal(t, "sqlite://from-local", cfg.DatabaseURL)
}

func TestLoad_InvalidDotEnv(t *testing.T) {
	fs := useMemFs(t)
	require.NoError(t, afero.WriteFile(fs, "/etc/rg/.recordguard.yaml", []byte(sample), 0644))
	require.NoError(t, afero.WriteFile(fs, ".env", []byte("RG_DOTENV_BROKEN='unterminated\n"), 0644))

	_, err := Load("/etc/rg/.recordguard.yaml")
	assert.ErrorContains(t, err, ".env")
}
