// Package config defines all configuration structures for the
// CaseTrack-Analytics service. No I/O or parsing logic lives here — only
// plain data types and validation.
package config

import (
	"fmt"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// UpstreamConfig holds the two read-only collaborator endpoints the service
// pulls its entity snapshots from.
type UpstreamConfig struct {
	// DeadlinesURL serves the deadline ("plazo") stream.
	DeadlinesURL string `mapstructure:"deadlines_url"`
	// DocumentsURL serves the document stream attached to cases.
	DocumentsURL string `mapstructure:"documents_url"`
	// FetchTimeout bounds a single snapshot fetch. On expiry the dataset
	// degrades to empty; it is never surfaced as a request error.
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
	// ReadinessTimeout bounds the fan-out probe used by /readyz.
	ReadinessTimeout time.Duration `mapstructure:"readiness_timeout"`
}

// AnalyticsConfig bounds the compute phase. The pair scan is quadratic in
// document count and the model fits are iterative, so every knob here exists
// to keep request latency finite.
type AnalyticsConfig struct {
	// MaxPairScanDocs caps the documents entering the O(n²) near-duplicate
	// scan; the overflow is dropped in fetch order.
	MaxPairScanDocs int `mapstructure:"max_pair_scan_docs"`
	// ClassifierMaxIter bounds the logistic-regression gradient iterations.
	ClassifierMaxIter int `mapstructure:"classifier_max_iter"`
	// KMeansRestarts is the number of random restarts per clustering run.
	KMeansRestarts int `mapstructure:"kmeans_restarts"`
	// IsolationTrees is the ensemble size of the anomaly detector.
	IsolationTrees int `mapstructure:"isolation_trees"`
	// MaxEpochs caps the reconstruction-model training epochs regardless of
	// what the caller requests.
	MaxEpochs int `mapstructure:"max_epochs"`
	// ReconBackend selects the reconstruction-training backend:
	// "auto" probes capability once at startup; "neural" and "regression"
	// force a concrete backend.
	ReconBackend string `mapstructure:"recon_backend"`
	// Seed fixes every stochastic component for reproducible scoring.
	Seed int64 `mapstructure:"seed"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format string `mapstructure:"format"` // "json" | "console"
}

// MetricsConfig holds metrics exposition parameters.
type MetricsConfig struct {
	Namespace string `mapstructure:"namespace"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure for the service. It is
// constructed once at startup and passed to collaborators; nothing reads the
// environment ad hoc after that.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Upstream  UpstreamConfig  `mapstructure:"upstream"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
	Log       LogConfig       `mapstructure:"log"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered; callers should treat any error as
// fatal and refuse to start.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}

	if c.Upstream.DeadlinesURL == "" {
		return fmt.Errorf("config: upstream.deadlines_url is required")
	}
	if c.Upstream.DocumentsURL == "" {
		return fmt.Errorf("config: upstream.documents_url is required")
	}
	if c.Upstream.FetchTimeout <= 0 {
		return fmt.Errorf("config: upstream.fetch_timeout must be positive, got %s", c.Upstream.FetchTimeout)
	}

	if c.Analytics.MaxPairScanDocs < 2 {
		return fmt.Errorf("config: analytics.max_pair_scan_docs must be ≥ 2, got %d", c.Analytics.MaxPairScanDocs)
	}
	if c.Analytics.ClassifierMaxIter < 1 {
		return fmt.Errorf("config: analytics.classifier_max_iter must be ≥ 1, got %d", c.Analytics.ClassifierMaxIter)
	}
	if c.Analytics.KMeansRestarts < 1 {
		return fmt.Errorf("config: analytics.kmeans_restarts must be ≥ 1, got %d", c.Analytics.KMeansRestarts)
	}
	if c.Analytics.IsolationTrees < 1 {
		return fmt.Errorf("config: analytics.isolation_trees must be ≥ 1, got %d", c.Analytics.IsolationTrees)
	}
	switch c.Analytics.ReconBackend {
	case "auto", "neural", "regression":
	default:
		return fmt.Errorf("config: analytics.recon_backend %q is invalid; expected auto|neural|regression", c.Analytics.ReconBackend)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}
