package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	v, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "disk", v.GetString("storage.type"))
	assert.Equal(t, "warn", v.GetString("logger.level"))
	assert.Equal(t, 256, v.GetInt("cache.lru_size"))
	assert.Equal(t, 24*time.Hour, v.GetDuration("cache.ttl"))
	assert.Positive(t, v.GetInt("verify.workers"))
}

func TestLoad_File(t *testing.T) {
	p := filepath.Join(t.TempDir(), "gitstore.yaml")
	require.NoError(t, os.WriteFile(p, []byte(`
storage:
  type: s3
  s3:
    bucket: objects
logger:
  level: debug
`), 0o644))

	v, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "s3", v.GetString("storage.type"))
	assert.Equal(t, "objects", v.GetString("storage.s3.bucket"))
	assert.Equal(t, "us-east-1", v.GetString("storage.s3.region"), "defaults still apply")
	assert.Equal(t, "debug", v.GetString("logger.level"))
}

func TestLoad_Env(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GITSTORE_STORAGE_TYPE", "s3")

	v, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "s3", v.GetString("storage.type"))
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
