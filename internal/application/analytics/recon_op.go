package analytics

import (
	"context"
	"time"

	"github.com/turtacn/CaseTrack-Analytics/internal/analytics/recon"
	"github.com/turtacn/CaseTrack-Analytics/internal/feature"
	"github.com/turtacn/CaseTrack-Analytics/pkg/errors"
)

// DeadlineReconstruction ranks deadline rows by autoencoder reconstruction
// error.
func (s *Service) DeadlineReconstruction(ctx context.Context, hp recon.Hyper, top int) (*ReconResponse, error) {
	started := time.Now()
	rows, _ := s.deadlineFrame(ctx)
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = deadlineRowID(r)
	}
	resp, err := s.reconMatrix(feature.DeadlineMatrix(rows), ids, hp, top)
	s.observeRecon("recon_deadlines", resp, err, started)
	return resp, err
}

// DocumentReconstruction ranks document rows by autoencoder reconstruction
// error.
func (s *Service) DocumentReconstruction(ctx context.Context, hp recon.Hyper, top int) (*ReconResponse, error) {
	started := time.Now()
	docs, _ := s.documentFrame(ctx)
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = documentRowID(d)
	}
	resp, err := s.reconMatrix(feature.DocumentMatrix(docs), ids, hp, top)
	s.observeRecon("recon_documents", resp, err, started)
	return resp, err
}

func (s *Service) observeRecon(op string, resp *ReconResponse, err error, started time.Time) {
	status := "error"
	rows := 0
	if err == nil && resp != nil {
		status = resp.Status
		rows = resp.Rows
	}
	s.observe(op, status, rows, started)
}

func (s *Service) reconMatrix(m feature.Matrix, ids []string, hp recon.Hyper, top int) (*ReconResponse, error) {
	if m.NumRows() == 0 {
		return &ReconResponse{Status: StatusNoData, Results: []ReconItem{}}, nil
	}

	detector := recon.NewDetector(s.reconSel, s.cfg.MaxEpochs, s.cfg.Seed)
	scores, backend, clamped, err := detector.Detect(m, hp, top)
	if err != nil {
		switch {
		case errors.IsInsufficientData(err):
			return &ReconResponse{Status: StatusInsufficient, Backend: backend, Rows: m.NumRows(), Results: []ReconItem{}}, nil
		case errors.IsCode(err, errors.ErrCodeDegenerateTarget):
			return &ReconResponse{Status: StatusNoData, Backend: backend, Rows: m.NumRows(), Results: []ReconItem{}}, nil
		default:
			return nil, err
		}
	}

	resp := &ReconResponse{
		Status:  StatusOK,
		Backend: backend,
		Rows:    m.NumRows(),
		Params: ReconParams{
			Epochs:       clamped.Epochs,
			Hidden:       clamped.Hidden,
			Bottleneck:   clamped.Bottleneck,
			LearningRate: clamped.LearningRate,
		},
		Results: make([]ReconItem, len(scores)),
	}
	for i, sc := range scores {
		resp.Results[i] = ReconItem{ID: ids[sc.Index], MSE: sc.MSE, Score: sc.Score, Features: m.RowMap(sc.Index)}
	}
	return resp, nil
}
