package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/turtacn/CaseTrack-Analytics/internal/analytics/risk"
	"github.com/turtacn/CaseTrack-Analytics/internal/domain/deadline"
	"github.com/turtacn/CaseTrack-Analytics/internal/feature"
	"github.com/turtacn/CaseTrack-Analytics/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CaseTrack-Analytics/pkg/errors"
)

// RiskScores scores every deadline. With enough labeled history a logistic
// model is trained per request; otherwise the due-distance heuristic runs
// and the response says so.
func (s *Service) RiskScores(ctx context.Context) (*RiskResponse, error) {
	started := time.Now()
	rows, now := s.deadlineFrame(ctx)
	if len(rows) == 0 {
		s.observe("risk", StatusNoData, 0, started)
		return &RiskResponse{Status: StatusNoData, Mode: ModeHeuristic, Results: []RiskItem{}}, nil
	}

	matrix := feature.DeadlineMatrix(rows)
	bare := make([]deadline.Deadline, len(rows))
	for i, r := range rows {
		bare[i] = r.Deadline
	}
	labeledIdx, labels := deadline.Labeled(bare, now)

	resp := &RiskResponse{
		Status:      StatusOK,
		Rows:        len(rows),
		LabeledRows: len(labeledIdx),
	}

	model := s.trainRiskModel(rows, matrix, labeledIdx, labels, resp)

	resp.Results = make([]RiskItem, len(rows))
	for i, r := range rows {
		var score float64
		if model != nil {
			score = model.Score(r.Description, matrix.Rows[i])
		} else {
			score = risk.HeuristicRisk(r.DaysToDue)
		}
		resp.Results[i] = RiskItem{
			DeadlineID:  r.ID,
			CaseID:      r.CaseID,
			Description: r.Description,
			DaysToDue:   r.DaysToDue,
			Score:       score,
			Tier:        risk.TierFor(score),
		}
	}
	sort.SliceStable(resp.Results, func(a, b int) bool {
		return resp.Results[a].Score > resp.Results[b].Score
	})

	s.observe("risk", resp.Status, len(rows), started)
	return resp, nil
}

// trainRiskModel attempts the trained path and falls back to the heuristic
// on insufficient or degenerate labels, stamping mode and status on resp.
func (s *Service) trainRiskModel(
	rows []feature.EnrichedDeadline,
	matrix feature.Matrix,
	labeledIdx, labels []int,
	resp *RiskResponse,
) *risk.Model {
	texts := make([]string, len(labeledIdx))
	numeric := make([][]float64, len(labeledIdx))
	for i, idx := range labeledIdx {
		texts[i] = rows[idx].Description
		numeric[i] = matrix.Rows[idx]
	}

	model, err := risk.Train(texts, numeric, labels, s.cfg.ClassifierMaxIter)
	if err != nil {
		resp.Mode = ModeHeuristic
		resp.Status = StatusFallback
		if !errors.IsInsufficientData(err) {
			s.logger.Warn("risk model training failed, using heuristic", logging.Err(err))
		}
		return nil
	}
	resp.Mode = ModeModel
	return model
}
