package analytics

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/CaseTrack-Analytics/internal/analytics/dedup"
	"github.com/turtacn/CaseTrack-Analytics/internal/analytics/recon"
	"github.com/turtacn/CaseTrack-Analytics/internal/config"
	"github.com/turtacn/CaseTrack-Analytics/internal/domain/deadline"
	"github.com/turtacn/CaseTrack-Analytics/internal/domain/document"
	"github.com/turtacn/CaseTrack-Analytics/internal/infrastructure/monitoring/logging"
)

// stubDeadlines serves a fixed payload without touching the network.
type stubDeadlines struct {
	payload deadline.RawPayload
	pingErr error
}

func (s *stubDeadlines) FetchDeadlines(context.Context) deadline.RawPayload { return s.payload }
func (s *stubDeadlines) Ping(context.Context) error                         { return s.pingErr }

type stubDocuments struct {
	docs    []document.Raw
	pingErr error
}

func (s *stubDocuments) FetchDocuments(context.Context) []document.Raw { return s.docs }
func (s *stubDocuments) Ping(context.Context) error                    { return s.pingErr }

func strPtr(s string) *string { return &s }
func i64Ptr(v int64) *int64   { return &v }

func testConfig() config.AnalyticsConfig {
	return config.AnalyticsConfig{
		MaxPairScanDocs:   config.DefaultMaxPairScanDocs,
		ClassifierMaxIter: config.DefaultClassifierMaxIter,
		KMeansRestarts:    config.DefaultKMeansRestarts,
		IsolationTrees:    50, // smaller ensemble keeps tests quick
		MaxEpochs:         200,
		ReconBackend:      recon.BackendRegression,
		Seed:              config.DefaultSeed,
	}
}

// newTestService pins the clock to a fixed day so derived day counts are
// stable.
func newTestService(t *testing.T, dl *stubDeadlines, docs *stubDocuments) *Service {
	t.Helper()
	svc, err := NewService(dl, docs, testConfig(), logging.NewNop(), nil)
	require.NoError(t, err)
	svc.clock = func() time.Time {
		return time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	}
	return svc
}

func deadlineFixture() deadline.RawPayload {
	// Five fulfilled deadlines with known outcomes plus open ones to score.
	mk := func(id int64, desc, due string, fulfilled bool, fulfilledAt *string, caseID int64) deadline.RawDeadline {
		return deadline.RawDeadline{
			ID:          id,
			Description: strPtr(desc),
			DueAt:       strPtr(due),
			Fulfilled:   fulfilled,
			FulfilledAt: fulfilledAt,
			Case:        &deadline.RawCase{ID: i64Ptr(caseID), State: strPtr("ABIERTO")},
		}
	}
	return deadline.RawPayload{Data: []deadline.RawDeadline{
		mk(1, "contestar demanda", "2026-03-01", true, strPtr("2026-03-05"), 1), // late → 1
		mk(2, "aportar pruebas", "2026-03-10", true, strPtr("2026-03-02"), 1),   // on time → 0
		mk(3, "recurso de apelacion", "2026-02-20", false, nil, 2),              // overdue → 1
		mk(4, "presentar escrito", "2026-03-12", true, strPtr("2026-03-14"), 2), // late → 1
		mk(5, "audiencia previa", "2026-03-01", true, strPtr("2026-02-25"), 3),  // on time → 0
		mk(6, "tramite pendiente", "2026-04-01", false, nil, 3),                 // pending → unlabeled
	}}
}

func documentFixture() []document.Raw {
	mk := func(id, name string, size int64, caseID int64, created string) document.Raw {
		return document.Raw{
			DocID:     strPtr(id),
			Filename:  strPtr(name),
			Size:      &size,
			CaseID:    i64Ptr(caseID),
			CreatedAt: strPtr(created),
		}
	}
	return []document.Raw{
		mk("d1", "demanda_v1.pdf", 1048576, 1, "2026-03-10"),
		mk("d2", "demanda_v2.pdf", 1048576, 1, "2026-03-12"),
		mk("d3", "acta.docx", 2097152, 2, "2026-01-05"),
		mk("d4", "pericial.pdf", 5242880, 3, "2026-03-14"),
	}
}

func TestRiskScoresTrainedPath(t *testing.T) {
	svc := newTestService(t, &stubDeadlines{payload: deadlineFixture()}, &stubDocuments{docs: documentFixture()})

	resp, err := svc.RiskScores(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StatusOK, resp.Status)
	assert.Equal(t, ModeModel, resp.Mode)
	assert.Equal(t, 6, resp.Rows)
	assert.Equal(t, 5, resp.LabeledRows)
	require.Len(t, resp.Results, 6)

	// Sorted by descending risk, every score in [0,1] with a tier.
	for i, item := range resp.Results {
		assert.GreaterOrEqual(t, item.Score, 0.0)
		assert.LessOrEqual(t, item.Score, 1.0)
		assert.NotEmpty(t, item.Tier)
		if i > 0 {
			assert.GreaterOrEqual(t, resp.Results[i-1].Score, item.Score)
		}
	}
}

func TestRiskScoresHeuristicFallback(t *testing.T) {
	// Only one labelable row: below the training gate.
	payload := deadline.RawPayload{Data: []deadline.RawDeadline{
		{ID: 1, Description: strPtr("vencido"), DueAt: strPtr("2026-02-01"), Fulfilled: false},
		{ID: 2, Description: strPtr("pendiente"), DueAt: strPtr("2026-04-01"), Fulfilled: false},
		{ID: 3, Description: strPtr("sin fecha")},
	}}
	svc := newTestService(t, &stubDeadlines{payload: payload}, &stubDocuments{})

	resp, err := svc.RiskScores(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StatusFallback, resp.Status)
	assert.Equal(t, ModeHeuristic, resp.Mode)

	// Overdue row leads, unknown date sits at exactly 0.5.
	assert.Equal(t, int64(1), resp.Results[0].DeadlineID)
	for _, item := range resp.Results {
		if item.DeadlineID == 3 {
			assert.InDelta(t, 0.5, item.Score, 1e-12)
		}
	}
}

func TestRiskScoresNoData(t *testing.T) {
	svc := newTestService(t, &stubDeadlines{}, &stubDocuments{})
	resp, err := svc.RiskScores(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusNoData, resp.Status)
	assert.Empty(t, resp.Results)
}

func TestDeadlineClusters(t *testing.T) {
	svc := newTestService(t, &stubDeadlines{payload: deadlineFixture()}, &stubDocuments{docs: documentFixture()})

	resp, err := svc.DeadlineClusters(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, StatusOK, resp.Status)
	assert.Equal(t, 2, resp.K)
	assert.Len(t, resp.Assignments, 6)

	total := 0
	for _, c := range resp.Clusters {
		total += c.Size
		assert.LessOrEqual(t, len(c.TopFeatures), 3)
		assert.NotEmpty(t, c.Centroid)
	}
	assert.Equal(t, 6, total)

	// Every assignment echoes the row's raw feature values.
	for _, a := range resp.Assignments {
		assert.Contains(t, a.Features, "days_to_due")
		assert.Contains(t, a.Features, "doc_count")
	}
}

func TestDocumentClustersIncludeSize(t *testing.T) {
	svc := newTestService(t, &stubDeadlines{}, &stubDocuments{docs: documentFixture()})

	resp, err := svc.DocumentClusters(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, StatusOK, resp.Status)
	require.Len(t, resp.Assignments, 4)
	for _, a := range resp.Assignments {
		assert.Contains(t, a.Features, "size_mb")
		assert.Contains(t, a.Features, "name_length")
	}
	for _, c := range resp.Clusters {
		assert.Contains(t, c.Centroid, "size_mb")
	}
}

func TestDeadlineClustersClampsK(t *testing.T) {
	svc := newTestService(t, &stubDeadlines{payload: deadlineFixture()}, &stubDocuments{})
	resp, err := svc.DeadlineClusters(context.Background(), 99)
	require.NoError(t, err)
	assert.Equal(t, 6, resp.K)
}

func TestDocumentAnomalies(t *testing.T) {
	svc := newTestService(t, &stubDeadlines{}, &stubDocuments{docs: documentFixture()})

	resp, err := svc.DocumentAnomalies(context.Background(), AnomalyParams{Explain: true})
	require.NoError(t, err)

	assert.Equal(t, StatusOK, resp.Status)
	assert.Equal(t, 4, resp.Rows)
	assert.GreaterOrEqual(t, resp.Flagged, 1)
	require.NotEmpty(t, resp.Results)
	assert.NotEmpty(t, resp.Results[0].Reasons)

	// Scores sorted descending; each item carries its raw features,
	// size included.
	for i, item := range resp.Results {
		assert.Contains(t, item.Features, "size_mb")
		assert.Contains(t, item.Features, "days_since_created")
		if i > 0 {
			assert.GreaterOrEqual(t, resp.Results[i-1].Score, item.Score)
		}
	}
}

func TestAnomaliesInsufficientRows(t *testing.T) {
	one := []document.Raw{{DocID: strPtr("d1"), Filename: strPtr("a.pdf")}}
	svc := newTestService(t, &stubDeadlines{}, &stubDocuments{docs: one})

	resp, err := svc.DocumentAnomalies(context.Background(), AnomalyParams{})
	require.NoError(t, err)
	assert.Equal(t, StatusInsufficient, resp.Status)
	assert.Empty(t, resp.Results)
}

func TestAnomaliesRejectsBadContamination(t *testing.T) {
	svc := newTestService(t, &stubDeadlines{}, &stubDocuments{docs: documentFixture()})
	_, err := svc.DocumentAnomalies(context.Background(), AnomalyParams{Contamination: 0.9})
	assert.Error(t, err)
}

func TestDocumentReconstruction(t *testing.T) {
	svc := newTestService(t, &stubDeadlines{}, &stubDocuments{docs: documentFixture()})

	resp, err := svc.DocumentReconstruction(context.Background(), recon.Hyper{}, 2)
	require.NoError(t, err)

	assert.Equal(t, StatusOK, resp.Status)
	assert.Equal(t, recon.BackendRegression, resp.Backend)
	assert.LessOrEqual(t, len(resp.Results), 2)
	assert.Greater(t, resp.Params.Epochs, 0)
	for _, item := range resp.Results {
		assert.Contains(t, item.Features, "name_length")
	}
}

func TestDeadlineDaysRegressionFallbackOnTinyData(t *testing.T) {
	payload := deadline.RawPayload{Data: []deadline.RawDeadline{
		{ID: 1, DueAt: strPtr("2026-03-20")},
		{ID: 2, DueAt: strPtr("2026-03-25")},
	}}
	svc := newTestService(t, &stubDeadlines{payload: payload}, &stubDocuments{})

	resp, err := svc.DeadlineDaysRegression(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, StatusFallback, resp.Status)
	assert.Equal(t, 2, resp.Rows)
	assert.InDelta(t, 7.5, resp.Baseline, 1e-12) // mean of 5 and 10 days out

	// Even on the fallback every row gets a prediction: the batch mean,
	// with the residual against it.
	require.Len(t, resp.Predictions, 2)
	for _, p := range resp.Predictions {
		assert.InDelta(t, 7.5, p.YPred, 1e-12)
		assert.InDelta(t, p.YTrue-7.5, p.Residual, 1e-12)
		assert.NotEmpty(t, p.Features)
	}
	assert.Equal(t, "1", resp.Predictions[0].ID)
	assert.InDelta(t, 5, resp.Predictions[0].YTrue, 1e-12)
	assert.Equal(t, "2", resp.Predictions[1].ID)
	assert.InDelta(t, 10, resp.Predictions[1].YTrue, 1e-12)
}

func TestDocumentSizeRegression(t *testing.T) {
	// Enough rows with varying, non-collinear features for the
	// cross-validated path. Some creation dates are missing so the per-fold
	// imputer has work to do.
	docs := make([]document.Raw, 0, 12)
	for i := 0; i < 12; i++ {
		size := int64((i + 1) * 1048576)
		name := strings.Repeat("x", i+1) + ".pdf"
		if i%2 == 1 {
			name = strings.Repeat("x", i+1) + ".docx"
		}
		raw := document.Raw{
			DocID:    strPtr("d" + strconv.Itoa(i)),
			Filename: strPtr(name),
			Size:     &size,
		}
		if i%5 != 0 {
			created := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -i*i)
			raw.CreatedAt = strPtr(created.Format("2006-01-02"))
		}
		docs = append(docs, raw)
	}
	svc := newTestService(t, &stubDeadlines{}, &stubDocuments{docs: docs})

	resp, err := svc.DocumentSizeRegression(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, StatusOK, resp.Status)
	assert.Equal(t, 3, resp.KFold)
	assert.Len(t, resp.Folds, 3)
	assert.Contains(t, resp.Coefficients, "name_length")

	// Per-row predictions from the full-data fit, residual = y_true − y_pred.
	// Rows with a missing creation date omit that feature from the echo.
	require.Len(t, resp.Predictions, 12)
	for i, p := range resp.Predictions {
		assert.Equal(t, "d"+strconv.Itoa(i), p.ID)
		assert.InDelta(t, float64(i+1), p.YTrue, 1e-9)
		assert.InDelta(t, p.YTrue-p.YPred, p.Residual, 1e-12)
		assert.Contains(t, p.Features, "name_length")
		if i%5 == 0 {
			assert.NotContains(t, p.Features, "days_since_created")
		} else {
			assert.Contains(t, p.Features, "days_since_created")
		}
	}
}

func TestNearDuplicates(t *testing.T) {
	svc := newTestService(t, &stubDeadlines{}, &stubDocuments{docs: documentFixture()})

	resp, err := svc.NearDuplicates(context.Background(), dedup.Params{
		NameWeight: 1.4, SizeWeight: 0.6, Threshold: 0.8, MaxPairs: 10,
	})
	require.NoError(t, err)

	assert.Equal(t, StatusOK, resp.Status)
	// Weights echoed renormalized to sum one.
	assert.InDelta(t, 0.7, resp.Weights.Name, 1e-12)
	assert.InDelta(t, 0.3, resp.Weights.Size, 1e-12)

	require.NotEmpty(t, resp.Pairs)
	lead := resp.Pairs[0]
	assert.Equal(t, "d1", lead.A.ID)
	assert.Equal(t, "d2", lead.B.ID)
	assert.True(t, lead.SameCase)
}

func TestNearDuplicatesNoData(t *testing.T) {
	svc := newTestService(t, &stubDeadlines{}, &stubDocuments{})
	resp, err := svc.NearDuplicates(context.Background(), dedup.Params{NameWeight: 1, Threshold: 0.5, MaxPairs: 10})
	require.NoError(t, err)
	assert.Equal(t, StatusNoData, resp.Status)
}

func TestDebugDeadlines(t *testing.T) {
	svc := newTestService(t, &stubDeadlines{payload: deadlineFixture()}, &stubDocuments{docs: documentFixture()})

	resp, err := svc.DebugDeadlines(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StatusOK, resp.Status)
	assert.Equal(t, 6, resp.Rows)

	byName := map[string]DebugColumn{}
	for _, c := range resp.Columns {
		byName[c.Name] = c
	}
	assert.Equal(t, 6, byName["id_plazo"].NonNull)
	assert.Equal(t, 6, byName["fecha_vencimiento"].NonNull)
	assert.Equal(t, 4, byName["fecha_cumplimiento"].NonNull)
	assert.True(t, byName["expediente_id"].Nullable)
}

func TestReadiness(t *testing.T) {
	errDown := errors.New("connection refused")

	healthy := newTestService(t, &stubDeadlines{}, &stubDocuments{})
	resp := healthy.Readiness(context.Background(), time.Second)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "ok", resp.Upstreams["plazos"])
	assert.Equal(t, "ok", resp.Upstreams["documentos"])

	degraded := newTestService(t, &stubDeadlines{pingErr: errDown}, &stubDocuments{})
	resp = degraded.Readiness(context.Background(), time.Second)
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "error", resp.Upstreams["plazos"])
	assert.Equal(t, "ok", resp.Upstreams["documentos"])
}
