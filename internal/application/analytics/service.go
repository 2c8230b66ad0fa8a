// Package analytics orchestrates the modeling operations: it fetches both
// upstream streams, flattens and joins them into feature frames, runs the
// requested model, and shapes the response. All state is per-request; no
// model or scaler survives across calls.
package analytics

import (
	"context"
	"strconv"
	"time"

	"github.com/turtacn/CaseTrack-Analytics/internal/analytics/recon"
	"github.com/turtacn/CaseTrack-Analytics/internal/config"
	"github.com/turtacn/CaseTrack-Analytics/internal/dates"
	"github.com/turtacn/CaseTrack-Analytics/internal/domain/deadline"
	"github.com/turtacn/CaseTrack-Analytics/internal/domain/document"
	"github.com/turtacn/CaseTrack-Analytics/internal/feature"
	"github.com/turtacn/CaseTrack-Analytics/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CaseTrack-Analytics/internal/infrastructure/upstream"
)

// RunObserver receives one record per finished analytics operation. The
// Prometheus metrics type satisfies it; tests pass a stub.
type RunObserver interface {
	ObserveAnalyticsRun(operation, status string, rows int, d time.Duration)
}

type nopRunObserver struct{}

func (nopRunObserver) ObserveAnalyticsRun(string, string, int, time.Duration) {}

// Service owns the upstream clients and the per-operation configuration.
type Service struct {
	deadlines upstream.DeadlineFetcher
	documents upstream.DocumentFetcher
	logger    logging.Logger
	observer  RunObserver
	cfg       config.AnalyticsConfig
	reconSel  *recon.Selector
	clock     func() time.Time
}

// NewService wires the orchestration layer. observer may be nil.
func NewService(
	deadlines upstream.DeadlineFetcher,
	documents upstream.DocumentFetcher,
	cfg config.AnalyticsConfig,
	logger logging.Logger,
	observer RunObserver,
) (*Service, error) {
	sel, err := recon.NewSelector(cfg.ReconBackend)
	if err != nil {
		return nil, err
	}
	if observer == nil {
		observer = nopRunObserver{}
	}
	return &Service{
		deadlines: deadlines,
		documents: documents,
		logger:    logger.Named("analytics"),
		observer:  observer,
		cfg:       cfg,
		reconSel:  sel,
		clock:     dates.Today,
	}, nil
}

// deadlineFrame fetches both streams and builds the enriched deadline frame:
// flattened deadlines left-joined with the per-case document aggregates.
func (s *Service) deadlineFrame(ctx context.Context) ([]feature.EnrichedDeadline, time.Time) {
	now := s.clock()
	payload := s.deadlines.FetchDeadlines(ctx)
	rows := deadline.Flatten(payload, now)
	docs := document.Flatten(s.documents.FetchDocuments(ctx), now)
	aggs := document.AggregateByCase(docs, now)
	return feature.JoinDeadlines(rows, aggs), now
}

// documentFrame fetches and flattens the document stream alone.
func (s *Service) documentFrame(ctx context.Context) ([]document.Document, time.Time) {
	now := s.clock()
	return document.Flatten(s.documents.FetchDocuments(ctx), now), now
}

// observe records one finished operation.
func (s *Service) observe(operation, status string, rows int, started time.Time) {
	s.observer.ObserveAnalyticsRun(operation, status, rows, time.Since(started))
}

func deadlineRowID(d feature.EnrichedDeadline) string {
	return strconv.FormatInt(d.ID, 10)
}

func documentRowID(d document.Document) string {
	return d.ID
}
