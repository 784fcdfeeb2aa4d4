package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleConfig struct {
	Server struct {
		Port        int           `yaml:"port"`
		ReadTimeout time.Duration `yaml:"readTimeout"`
	} `yaml:"server"`
	Storage struct {
		BucketURL string `yaml:"bucketUrl"`
	} `yaml:"storage"`
}

func TestLoadWithEnv_EnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	content := "server:\n  port: 8080\n  readTimeout: 5s\nstorage:\n  bucketUrl: file:///tmp/a\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sample.yaml"), []byte(content), 0o600))
	t.Chdir(dir)
	t.Setenv("SERVER_READTIMEOUT", "30s")
	t.Setenv("STORAGE_BUCKETURL", "s3://uploads")

	cfg, err := LoadWithEnv[sampleConfig]("sample")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "s3://uploads", cfg.Storage.BucketURL)
}

func TestLoadWithEnv_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := LoadWithEnv[sampleConfig]("absent")
	assert.ErrorContains(t, err, "config file absent.yaml not found")
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, defaultMaxRequestBodySize, cfg.HTTP.MaxRequestBodySize)
	assert.Equal(t, defaultBcryptCost, cfg.Auth.BcryptCost)
	assert.Equal(t, defaultAccessTokenTTL, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, defaultSlowQueryThreshold, cfg.Database.SlowQueryThreshold)
	assert.Equal(t, "sync", cfg.Notifications.AdminFanout)
	assert.NotNil(t, cfg.Storage)
	assert.Equal(t, defaultQRCodeSize, cfg.QRCode.Size)
}
