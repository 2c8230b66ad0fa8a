package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

func TestApplyDefaultsFillsEverything(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultServerMode, cfg.Server.Mode)
	assert.Equal(t, DefaultDeadlinesURL, cfg.Upstream.DeadlinesURL)
	assert.Equal(t, DefaultDocumentsURL, cfg.Upstream.DocumentsURL)
	assert.Equal(t, DefaultFetchTimeout, cfg.Upstream.FetchTimeout)
	assert.Equal(t, DefaultMaxPairScanDocs, cfg.Analytics.MaxPairScanDocs)
	assert.Equal(t, DefaultReconBackend, cfg.Analytics.ReconBackend)
	assert.Equal(t, int64(DefaultSeed), cfg.Analytics.Seed)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultMetricsNamespace, cfg.Metrics.Namespace)
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9090
	cfg.Analytics.ReconBackend = "neural"
	ApplyDefaults(cfg)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "neural", cfg.Analytics.ReconBackend)
}

func TestApplyDefaultsNilIsNoop(t *testing.T) {
	ApplyDefaults(nil)
}

func TestValidateAcceptsDefaults(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port zero", func(c *Config) { c.Server.Port = 0 }},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }},
		{"bad mode", func(c *Config) { c.Server.Mode = "production" }},
		{"missing deadlines url", func(c *Config) { c.Upstream.DeadlinesURL = "" }},
		{"missing documents url", func(c *Config) { c.Upstream.DocumentsURL = "" }},
		{"non-positive fetch timeout", func(c *Config) { c.Upstream.FetchTimeout = -time.Second }},
		{"pair scan below two", func(c *Config) { c.Analytics.MaxPairScanDocs = 1 }},
		{"zero classifier iterations", func(c *Config) { c.Analytics.ClassifierMaxIter = 0 }},
		{"zero kmeans restarts", func(c *Config) { c.Analytics.KMeansRestarts = 0 }},
		{"zero isolation trees", func(c *Config) { c.Analytics.IsolationTrees = 0 }},
		{"unknown recon backend", func(c *Config) { c.Analytics.ReconBackend = "quantum" }},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9001
  mode: release
upstream:
  deadlines_url: http://deadlines.internal/plazos
  documents_url: http://documents.internal/admin/documentos
analytics:
  recon_backend: regression
  seed: 7
log:
  level: warn
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9001, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "http://deadlines.internal/plazos", cfg.Upstream.DeadlinesURL)
	assert.Equal(t, "regression", cfg.Analytics.ReconBackend)
	assert.Equal(t, int64(7), cfg.Analytics.Seed)
	assert.Equal(t, "warn", cfg.Log.Level)

	// Unset fields still pick up defaults.
	assert.Equal(t, DefaultFetchTimeout, cfg.Upstream.FetchTimeout)
	assert.Equal(t, DefaultMaxPairScanDocs, cfg.Analytics.MaxPairScanDocs)
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 99999\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CASETRACK_SERVER_PORT", "9100")
	t.Setenv("CASETRACK_UPSTREAM_DEADLINES_URL", "http://env.internal/plazos")
	t.Setenv("CASETRACK_LOG_LEVEL", "debug")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "http://env.internal/plazos", cfg.Upstream.DeadlinesURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, DefaultDocumentsURL, cfg.Upstream.DocumentsURL)
}
