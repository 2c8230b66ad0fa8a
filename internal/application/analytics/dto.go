package analytics

import "github.com/turtacn/CaseTrack-Analytics/internal/analytics/risk"

// Response status values. The Spanish strings are the wire contract shared
// with the upstream case-management system and are kept verbatim.
const (
	StatusOK           = "ok"
	StatusNoData       = "sin_datos"
	StatusInsufficient = "insuficiente"
	StatusFallback     = "fallback"
)

// Scoring modes for the risk endpoint.
const (
	ModeModel     = "model"
	ModeHeuristic = "heuristic"
)

// RiskItem is one scored deadline.
type RiskItem struct {
	DeadlineID  int64     `json:"id_plazo"`
	CaseID      *int64    `json:"expediente_id"`
	Description string    `json:"descripcion"`
	DaysToDue   *int      `json:"days_to_due"`
	Score       float64   `json:"risk_score"`
	Tier        risk.Tier `json:"tier"`
}

// RiskResponse ranks every deadline by risk, highest first.
type RiskResponse struct {
	Status      string     `json:"status"`
	Mode        string     `json:"mode"`
	Rows        int        `json:"rows"`
	LabeledRows int        `json:"labeled_rows"`
	Results     []RiskItem `json:"results"`
}

// ClusterProfile describes one cluster: its size, centroid in original
// feature units, and its strongest standardized features.
type ClusterProfile struct {
	Cluster     int                `json:"cluster"`
	Size        int                `json:"size"`
	Centroid    map[string]float64 `json:"centroid"`
	TopFeatures []FeatureValue     `json:"top_features"`
}

// FeatureValue pairs a feature name with a value.
type FeatureValue struct {
	Feature string  `json:"feature"`
	Value   float64 `json:"value"`
}

// ClusterAssignment maps one row to its cluster, carrying the row's raw
// feature values.
type ClusterAssignment struct {
	ID       string             `json:"id"`
	Cluster  int                `json:"cluster"`
	Features map[string]float64 `json:"features"`
}

// ClustersResponse is the k-means result for either stream.
type ClustersResponse struct {
	Status      string              `json:"status"`
	K           int                 `json:"k"`
	Rows        int                 `json:"rows"`
	Inertia     float64             `json:"inertia"`
	Clusters    []ClusterProfile    `json:"clusters"`
	Assignments []ClusterAssignment `json:"assignments"`
}

// AnomalyReason is one z-score explanation entry.
type AnomalyReason struct {
	Feature string  `json:"feature"`
	Value   float64 `json:"value"`
	ZScore  float64 `json:"z_score"`
}

// AnomalyItem is one scored row with its raw feature values; Reasons is
// present only when explanations were requested.
type AnomalyItem struct {
	ID       string             `json:"id"`
	Score    float64            `json:"score"`
	Flagged  bool               `json:"flagged"`
	Features map[string]float64 `json:"features"`
	Reasons  []AnomalyReason    `json:"reasons,omitempty"`
}

// AnomaliesResponse is the isolation-forest result for either stream,
// sorted by descending score.
type AnomaliesResponse struct {
	Status        string        `json:"status"`
	Rows          int           `json:"rows"`
	Contamination float64       `json:"contamination"`
	Flagged       int           `json:"flagged"`
	Results       []AnomalyItem `json:"results"`
}

// ReconItem is one row's reconstruction error with its raw feature values.
type ReconItem struct {
	ID       string             `json:"id"`
	MSE      float64            `json:"mse"`
	Score    float64            `json:"score"`
	Features map[string]float64 `json:"features"`
}

// ReconParams echoes the clamped training hyperparameters.
type ReconParams struct {
	Epochs       int     `json:"epochs"`
	Hidden       int     `json:"hidden"`
	Bottleneck   int     `json:"bottleneck"`
	LearningRate float64 `json:"lr"`
}

// ReconResponse is the autoencoder result for either stream, ranked by
// descending error.
type ReconResponse struct {
	Status  string      `json:"status"`
	Backend string      `json:"backend"`
	Rows    int         `json:"rows"`
	Params  ReconParams `json:"params"`
	Results []ReconItem `json:"results"`
}

// FoldMetrics is one cross-validation fold. R2 is null when the held-out
// target had zero variance.
type FoldMetrics struct {
	R2  *float64 `json:"r2"`
	MAE float64  `json:"mae"`
}

// RegressionPrediction is one row's prediction and residual. On the ok path
// the prediction comes from the full-data fit; on the fallback path it is
// the batch mean, so residual = y_true − mean. Features echoes the row's
// raw values; missing (unimputed) cells are absent from the map.
type RegressionPrediction struct {
	ID       string             `json:"id"`
	YTrue    float64            `json:"y_true"`
	YPred    float64            `json:"y_pred"`
	Residual float64            `json:"residual"`
	Features map[string]float64 `json:"features"`
}

// RegressionResponse reports the cross-validated fit, or the mean baseline
// on degenerate input. Predictions are always present, in row order.
type RegressionResponse struct {
	Status       string                 `json:"status"`
	Target       string                 `json:"target"`
	Rows         int                    `json:"rows"`
	KFold        int                    `json:"kfold"`
	Folds        []FoldMetrics          `json:"folds,omitempty"`
	R2Mean       *float64               `json:"r2_mean"`
	R2Std        *float64               `json:"r2_std"`
	MAEMean      float64                `json:"mae_mean"`
	MAEStd       float64                `json:"mae_std"`
	Coefficients map[string]float64     `json:"coefficients,omitempty"`
	Intercept    float64                `json:"intercept"`
	Baseline     float64                `json:"baseline_mean"`
	Predictions  []RegressionPrediction `json:"predictions"`
}

// DupDocRef identifies one side of a near-duplicate pair.
type DupDocRef struct {
	ID       string  `json:"doc_id"`
	Filename string  `json:"filename"`
	SizeMB   float64 `json:"size_mb"`
	CaseID   *int64  `json:"expediente_id"`
}

// DupPair is one accepted near-duplicate candidate.
type DupPair struct {
	A        DupDocRef `json:"a"`
	B        DupDocRef `json:"b"`
	NameSim  float64   `json:"name_similarity"`
	SizeSim  float64   `json:"size_similarity"`
	Score    float64   `json:"score"`
	SameCase bool      `json:"same_expediente"`
}

// DupWeights echoes the renormalized similarity weights.
type DupWeights struct {
	Name float64 `json:"name"`
	Size float64 `json:"size"`
}

// DupResponse lists accepted pairs sorted by descending score.
type DupResponse struct {
	Status    string     `json:"status"`
	Docs      int        `json:"docs"`
	Threshold float64    `json:"threshold"`
	MaxPairs  int        `json:"max_pairs"`
	Weights   DupWeights `json:"weights"`
	Pairs     []DupPair  `json:"pairs"`
}

// DebugColumn describes one column of the flattened deadline table.
type DebugColumn struct {
	Name     string `json:"name"`
	Dtype    string `json:"dtype"`
	NonNull  int    `json:"non_null"`
	Nullable bool   `json:"nullable"`
}

// DebugResponse is the schema introspection of the flattened deadline rows.
type DebugResponse struct {
	Status  string        `json:"status"`
	Rows    int           `json:"rows"`
	Columns []DebugColumn `json:"columns"`
}

// ReadinessResponse reports per-upstream reachability.
type ReadinessResponse struct {
	Status    string            `json:"status"`
	Upstreams map[string]string `json:"upstreams"`
}
