package config

import "time"

// Default value constants. Exported so tests and wiring code can reference
// the canonical defaults instead of repeating literals.
const (
	DefaultServerPort = 8000
	DefaultServerMode = "debug"

	DefaultDeadlinesURL     = "http://localhost:3000/plazos"
	DefaultDocumentsURL     = "http://localhost:8081/admin/documentos"
	DefaultFetchTimeout     = 10 * time.Second
	DefaultReadinessTimeout = 3 * time.Second

	DefaultMaxPairScanDocs   = 2000
	DefaultClassifierMaxIter = 200
	DefaultKMeansRestarts    = 10
	DefaultIsolationTrees    = 200
	DefaultMaxEpochs         = 2000
	DefaultReconBackend      = "auto"
	DefaultSeed              = 42

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMetricsNamespace = "casetrack"
)

// ApplyDefaults fills every zero-value field in cfg with the service default.
// Fields already set by the caller are left unchanged so that explicit
// configuration always wins. It must run after unmarshalling and before
// Validate so optional-but-defaulted fields are never seen as missing.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30 * time.Second
	}

	if cfg.Upstream.DeadlinesURL == "" {
		cfg.Upstream.DeadlinesURL = DefaultDeadlinesURL
	}
	if cfg.Upstream.DocumentsURL == "" {
		cfg.Upstream.DocumentsURL = DefaultDocumentsURL
	}
	if cfg.Upstream.FetchTimeout == 0 {
		cfg.Upstream.FetchTimeout = DefaultFetchTimeout
	}
	if cfg.Upstream.ReadinessTimeout == 0 {
		cfg.Upstream.ReadinessTimeout = DefaultReadinessTimeout
	}

	if cfg.Analytics.MaxPairScanDocs == 0 {
		cfg.Analytics.MaxPairScanDocs = DefaultMaxPairScanDocs
	}
	if cfg.Analytics.ClassifierMaxIter == 0 {
		cfg.Analytics.ClassifierMaxIter = DefaultClassifierMaxIter
	}
	if cfg.Analytics.KMeansRestarts == 0 {
		cfg.Analytics.KMeansRestarts = DefaultKMeansRestarts
	}
	if cfg.Analytics.IsolationTrees == 0 {
		cfg.Analytics.IsolationTrees = DefaultIsolationTrees
	}
	if cfg.Analytics.MaxEpochs == 0 {
		cfg.Analytics.MaxEpochs = DefaultMaxEpochs
	}
	if cfg.Analytics.ReconBackend == "" {
		cfg.Analytics.ReconBackend = DefaultReconBackend
	}
	if cfg.Analytics.Seed == 0 {
		cfg.Analytics.Seed = DefaultSeed
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
}
