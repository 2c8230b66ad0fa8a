package analytics

import (
	"context"
	"time"

	"github.com/turtacn/CaseTrack-Analytics/internal/analytics/dedup"
	"github.com/turtacn/CaseTrack-Analytics/internal/domain/document"
	"github.com/turtacn/CaseTrack-Analytics/internal/infrastructure/monitoring/logging"
)

// NearDuplicates scans document pairs for near-duplicate candidates. The
// scan is capped at the configured document budget to bound the quadratic
// pass; the overflow is dropped in fetch order.
func (s *Service) NearDuplicates(ctx context.Context, p dedup.Params) (*DupResponse, error) {
	started := time.Now()
	docs, _ := s.documentFrame(ctx)

	if limit := s.cfg.MaxPairScanDocs; limit > 0 && len(docs) > limit {
		s.logger.Warn("near-duplicate scan capped",
			logging.Int("docs", len(docs)), logging.Int("cap", limit))
		docs = docs[:limit]
	}
	if len(docs) < 2 {
		s.observe("near_duplicates", StatusNoData, len(docs), started)
		return &DupResponse{Status: StatusNoData, Docs: len(docs), Pairs: []DupPair{}}, nil
	}

	// Normalize here so the echoed weights are the corrected ones.
	if err := p.Normalize(); err != nil {
		s.observe("near_duplicates", "error", len(docs), started)
		return nil, err
	}
	pairs, err := dedup.FindPairs(docs, p)
	if err != nil {
		s.observe("near_duplicates", "error", len(docs), started)
		return nil, err
	}

	resp := &DupResponse{
		Status:    StatusOK,
		Docs:      len(docs),
		Threshold: p.Threshold,
		MaxPairs:  p.MaxPairs,
		Weights:   DupWeights{Name: p.NameWeight, Size: p.SizeWeight},
		Pairs:     make([]DupPair, len(pairs)),
	}
	for i, pr := range pairs {
		resp.Pairs[i] = DupPair{
			A:        dupRef(pr.A),
			B:        dupRef(pr.B),
			NameSim:  pr.NameSim,
			SizeSim:  pr.SizeSim,
			Score:    pr.Score,
			SameCase: pr.SameCase,
		}
	}
	s.observe("near_duplicates", StatusOK, len(docs), started)
	return resp, nil
}

func dupRef(d document.Document) DupDocRef {
	return DupDocRef{ID: d.ID, Filename: d.Filename, SizeMB: d.SizeMB, CaseID: d.CaseID}
}
