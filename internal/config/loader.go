package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all service settings.
const envPrefix = "CASETRACK"

// newViper builds a pre-configured Viper instance with the service's standard
// settings: YAML file type, CASETRACK_ env prefix, automatic env binding, and
// a key replacer that maps "." → "_" so that nested keys like
// "upstream.deadlines_url" resolve to "CASETRACK_UPSTREAM_DEADLINES_URL".
//
// Every key is registered with its default up front: viper only resolves
// environment variables for keys it knows about, so without this an env-only
// deployment would unmarshal to zero values.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.mode", DefaultServerMode)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	v.SetDefault("upstream.deadlines_url", DefaultDeadlinesURL)
	v.SetDefault("upstream.documents_url", DefaultDocumentsURL)
	v.SetDefault("upstream.fetch_timeout", DefaultFetchTimeout)
	v.SetDefault("upstream.readiness_timeout", DefaultReadinessTimeout)

	v.SetDefault("analytics.max_pair_scan_docs", DefaultMaxPairScanDocs)
	v.SetDefault("analytics.classifier_max_iter", DefaultClassifierMaxIter)
	v.SetDefault("analytics.kmeans_restarts", DefaultKMeansRestarts)
	v.SetDefault("analytics.isolation_trees", DefaultIsolationTrees)
	v.SetDefault("analytics.max_epochs", DefaultMaxEpochs)
	v.SetDefault("analytics.recon_backend", DefaultReconBackend)
	v.SetDefault("analytics.seed", DefaultSeed)

	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)

	v.SetDefault("metrics.namespace", DefaultMetricsNamespace)

	return v
}

// Load reads the YAML file at configPath, merges any CASETRACK_* environment
// variable overrides, applies defaults for unset fields, and validates the
// result. It returns a fully-populated *Config or a descriptive error.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from CASETRACK_* environment
// variables, with no config file required. This is the preferred loading
// strategy for containerised (12-factor) deployments.
//
// Naming convention: CASETRACK_<SECTION>_<FIELD>, e.g.
// CASETRACK_SERVER_PORT, CASETRACK_UPSTREAM_DOCUMENTS_URL.
func LoadFromEnv() (*Config, error) {
	v := newViper()
	return unmarshalAndFinalize(v)
}

// unmarshalAndFinalize unmarshals viper state into a Config struct, applies
// defaults, and validates the result.
func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath for changes and invokes onChange with the newly
// parsed Config whenever the file is modified on disk. It is intended for
// hot-reloading non-critical settings such as log level and analytics bounds;
// callers are responsible for applying only the safe subset at runtime.
//
// Watch is non-blocking; viper manages the fsnotify watcher in a background
// goroutine. If a changed file fails to parse or validate, onChange is not
// called and the previous configuration stays in effect.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)

	// Initial read — errors are ignored here; callers should call Load first.
	_ = v.ReadInConfig()

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
}

// MustLoad is a convenience wrapper around Load that panics on any error.
// Intended for main() where a config-load failure is always fatal.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}
