package errors

// ErrorCode uniquely identifies a failure category across the service.
// Codes are stable strings so API consumers and log pipelines can match on
// them without parsing messages.
type ErrorCode string

// String returns the code as a plain string.
func (c ErrorCode) String() string { return string(c) }

// ─────────────────────────────────────────────────────────────────────────────
// Common codes — generic failures shared by every layer
// ─────────────────────────────────────────────────────────────────────────────

const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeTimeout            ErrorCode = "COMMON_004"
	ErrCodeSerialization      ErrorCode = "COMMON_005"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_006"
)

// ─────────────────────────────────────────────────────────────────────────────
// Analytics codes — failure taxonomy of the feature/model pipeline
// ─────────────────────────────────────────────────────────────────────────────

const (
	// ErrCodeUpstreamUnavailable marks a failed or malformed upstream fetch.
	// The fetchers never surface it to their callers; it is logged and the
	// dataset degrades to empty.
	ErrCodeUpstreamUnavailable ErrorCode = "ANALYTICS_001"

	// ErrCodeInsufficientData marks a batch below a model's operating minimum.
	ErrCodeInsufficientData ErrorCode = "ANALYTICS_002"

	// ErrCodeDegenerateTarget marks a zero-variance label or regression target.
	ErrCodeDegenerateTarget ErrorCode = "ANALYTICS_003"

	// ErrCodeParamOutOfRange marks a request parameter outside its valid
	// range. The pipeline clamps or renormalizes instead of rejecting, so
	// this code only surfaces when no correction is possible.
	ErrCodeParamOutOfRange ErrorCode = "ANALYTICS_004"

	// ErrCodeModelTraining marks an iterative fit that failed to produce a
	// usable model (non-finite parameters, dimension mismatch).
	ErrCodeModelTraining ErrorCode = "ANALYTICS_005"
)
