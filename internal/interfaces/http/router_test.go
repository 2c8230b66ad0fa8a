package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "github.com/turtacn/CaseTrack-Analytics/internal/application/analytics"
	"github.com/turtacn/CaseTrack-Analytics/internal/config"
	"github.com/turtacn/CaseTrack-Analytics/internal/domain/deadline"
	"github.com/turtacn/CaseTrack-Analytics/internal/domain/document"
	"github.com/turtacn/CaseTrack-Analytics/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CaseTrack-Analytics/internal/interfaces/http/handlers"
	"github.com/turtacn/CaseTrack-Analytics/internal/interfaces/http/middleware"
)

type fixedDeadlines struct {
	payload deadline.RawPayload
	pingErr error
}

func (f *fixedDeadlines) FetchDeadlines(context.Context) deadline.RawPayload { return f.payload }
func (f *fixedDeadlines) Ping(context.Context) error                         { return f.pingErr }

type fixedDocuments struct {
	docs    []document.Raw
	pingErr error
}

func (f *fixedDocuments) FetchDocuments(context.Context) []document.Raw { return f.docs }
func (f *fixedDocuments) Ping(context.Context) error                    { return f.pingErr }

func sp(s string) *string { return &s }
func ip(v int64) *int64   { return &v }

func testRouter(t *testing.T, dl *fixedDeadlines, docs *fixedDocuments) http.Handler {
	t.Helper()
	cfg := config.AnalyticsConfig{
		MaxPairScanDocs:   config.DefaultMaxPairScanDocs,
		ClassifierMaxIter: config.DefaultClassifierMaxIter,
		KMeansRestarts:    config.DefaultKMeansRestarts,
		IsolationTrees:    50,
		MaxEpochs:         200,
		ReconBackend:      "regression",
		Seed:              config.DefaultSeed,
	}
	svc, err := app.NewService(dl, docs, cfg, logging.NewNop(), nil)
	require.NoError(t, err)
	return NewRouter(RouterConfig{
		MLHandler:     handlers.NewMLHandler(svc),
		DocsHandler:   handlers.NewDocsHandler(svc),
		HealthHandler: handlers.NewHealthHandler(svc, time.Second),
		Logger:        logging.NewNop(),
	})
}

func routerFixtures() (*fixedDeadlines, *fixedDocuments) {
	dl := &fixedDeadlines{payload: deadline.RawPayload{Data: []deadline.RawDeadline{
		{ID: 1, Description: sp("contestar demanda"), DueAt: sp("2030-01-10"), Case: &deadline.RawCase{ID: ip(1), State: sp("ABIERTO")}},
		{ID: 2, Description: sp("aportar pruebas"), DueAt: sp("2030-02-01"), Case: &deadline.RawCase{ID: ip(1), State: sp("ABIERTO")}},
		{ID: 3, Description: sp("recurso"), Case: &deadline.RawCase{ID: ip(2), State: sp("CERRADO")}},
	}}}
	size := int64(1048576)
	docs := &fixedDocuments{docs: []document.Raw{
		{DocID: sp("d1"), Filename: sp("demanda_v1.pdf"), Size: &size, CaseID: ip(1)},
		{DocID: sp("d2"), Filename: sp("demanda_v2.pdf"), Size: &size, CaseID: ip(1)},
		{DocID: sp("d3"), Filename: sp("acta.docx"), Size: ip(4194304), CaseID: ip(2)},
	}}
	return dl, docs
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, into interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), into))
}

func TestLivenessRoute(t *testing.T) {
	router := testRouter(t, &fixedDeadlines{}, &fixedDocuments{})
	rec := get(t, router, "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	var body map[string]string
	decode(t, rec, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestReadinessRouteDegraded(t *testing.T) {
	router := testRouter(t, &fixedDeadlines{pingErr: context.DeadlineExceeded}, &fixedDocuments{})
	rec := get(t, router, "/readyz")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body app.ReadinessResponse
	decode(t, rec, &body)
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "error", body.Upstreams["plazos"])
}

func TestRiskRoute(t *testing.T) {
	dl, docs := routerFixtures()
	rec := get(t, testRouter(t, dl, docs), "/ml/supervised/risk")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body app.RiskResponse
	decode(t, rec, &body)
	assert.Equal(t, 3, body.Rows)
	assert.Len(t, body.Results, 3)
	// No labeled history to train on: the heuristic carries the scoring.
	assert.Equal(t, app.ModeHeuristic, body.Mode)
}

func TestClustersRouteHonorsK(t *testing.T) {
	dl, docs := routerFixtures()
	rec := get(t, testRouter(t, dl, docs), "/ml/unsupervised/clusters?k=2")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body app.ClustersResponse
	decode(t, rec, &body)
	assert.Equal(t, 2, body.K)
	assert.Len(t, body.Assignments, 3)
}

func TestAnomaliesRouteRejectsBadContamination(t *testing.T) {
	dl, docs := routerFixtures()
	rec := get(t, testRouter(t, dl, docs), "/docs/unsupervised/anomalies?contamination=0.9")

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body handlers.ErrorResponse
	decode(t, rec, &body)
	assert.NotEmpty(t, body.Code)
	assert.Contains(t, body.Message, "contamination")
}

func TestAnomaliesRouteWithReasons(t *testing.T) {
	dl, docs := routerFixtures()
	rec := get(t, testRouter(t, dl, docs), "/docs/unsupervised/anomalies?reasons=2")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body app.AnomaliesResponse
	decode(t, rec, &body)
	require.NotEmpty(t, body.Results)
	assert.NotEmpty(t, body.Results[0].Reasons)
	assert.LessOrEqual(t, len(body.Results[0].Reasons), 2)
}

func TestAutoencoderRouteEchoesClampedParams(t *testing.T) {
	dl, docs := routerFixtures()
	rec := get(t, testRouter(t, dl, docs), "/ml/deep/documents/autoencoder?epochs=50&top=2")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body app.ReconResponse
	decode(t, rec, &body)
	assert.Equal(t, "regression", body.Backend)
	assert.Equal(t, 50, body.Params.Epochs)
	assert.LessOrEqual(t, len(body.Results), 2)
}

func TestNearDuplicatesRoute(t *testing.T) {
	dl, docs := routerFixtures()
	rec := get(t, testRouter(t, dl, docs), "/docs/near-duplicates?threshold=0.8&w_name=1&w_size=1")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body app.DupResponse
	decode(t, rec, &body)
	assert.InDelta(t, 0.5, body.Weights.Name, 1e-12)
	assert.InDelta(t, 0.5, body.Weights.Size, 1e-12)
	require.NotEmpty(t, body.Pairs)
	assert.True(t, body.Pairs[0].SameCase)
}

func TestDaysRegressionRouteFallsBackOnTinyData(t *testing.T) {
	dl, docs := routerFixtures()
	rec := get(t, testRouter(t, dl, docs), "/ml/regression/deadlines/days-to-due")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body app.RegressionResponse
	decode(t, rec, &body)
	assert.Equal(t, "fallback", body.Status)
	assert.Equal(t, "days_to_due", body.Target)

	// The fallback still reports each row: batch-mean prediction and its
	// residual, which sum to zero across the batch.
	require.Len(t, body.Predictions, body.Rows)
	residualSum := 0.0
	for _, p := range body.Predictions {
		assert.NotEmpty(t, p.ID)
		assert.InDelta(t, body.Baseline, p.YPred, 1e-9)
		assert.InDelta(t, p.YTrue-p.YPred, p.Residual, 1e-9)
		residualSum += p.Residual
	}
	assert.InDelta(t, 0, residualSum, 1e-9)
}

func TestDebugDeadlinesRoute(t *testing.T) {
	dl, docs := routerFixtures()
	rec := get(t, testRouter(t, dl, docs), "/debug/deadlines")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body app.DebugResponse
	decode(t, rec, &body)
	assert.Equal(t, 3, body.Rows)
	assert.NotEmpty(t, body.Columns)
}

func TestUnknownRoute(t *testing.T) {
	router := testRouter(t, &fixedDeadlines{}, &fixedDocuments{})
	rec := get(t, router, "/ml/unknown")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	router := testRouter(t, &fixedDeadlines{}, &fixedDocuments{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/ml/supervised/risk", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodGet)
}
