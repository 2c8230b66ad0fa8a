package analytics

import (
	"context"
	"time"

	"github.com/turtacn/CaseTrack-Analytics/internal/analytics/cluster"
	"github.com/turtacn/CaseTrack-Analytics/internal/analytics/mathx"
	"github.com/turtacn/CaseTrack-Analytics/internal/feature"
)

// topFeatureCount is how many strongest centroid features each cluster
// profile reports.
const topFeatureCount = 3

// DeadlineClusters groups the enriched deadline rows into k clusters.
func (s *Service) DeadlineClusters(ctx context.Context, k int) (*ClustersResponse, error) {
	started := time.Now()
	rows, _ := s.deadlineFrame(ctx)
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = deadlineRowID(r)
	}
	resp, err := s.clusterMatrix(feature.DeadlineMatrix(rows), ids, k)
	s.observeClusters("clusters_deadlines", resp, err, started)
	return resp, err
}

// DocumentClusters groups the document rows into k clusters.
func (s *Service) DocumentClusters(ctx context.Context, k int) (*ClustersResponse, error) {
	started := time.Now()
	docs, _ := s.documentFrame(ctx)
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = documentRowID(d)
	}
	resp, err := s.clusterMatrix(feature.DocumentClusterMatrix(docs), ids, k)
	s.observeClusters("clusters_documents", resp, err, started)
	return resp, err
}

func (s *Service) observeClusters(op string, resp *ClustersResponse, err error, started time.Time) {
	status := "error"
	rows := 0
	if err == nil && resp != nil {
		status = resp.Status
		rows = resp.Rows
	}
	s.observe(op, status, rows, started)
}

// clusterMatrix standardizes the matrix, runs k-means with the configured
// restarts, and shapes the profiles with centroids in original units.
func (s *Service) clusterMatrix(m feature.Matrix, ids []string, k int) (*ClustersResponse, error) {
	if m.NumRows() == 0 {
		return &ClustersResponse{Status: StatusNoData, Clusters: []ClusterProfile{}, Assignments: []ClusterAssignment{}}, nil
	}

	scaler := mathx.FitStandardizer(m.Rows, true)
	scaled := scaler.Transform(m.Rows)

	res, err := cluster.Fit(scaled, k, s.cfg.KMeansRestarts, s.cfg.Seed)
	if err != nil {
		return nil, err
	}

	original := cluster.InverseCentroids(scaler, res.Centroids)
	resp := &ClustersResponse{
		Status:   StatusOK,
		K:        res.K,
		Rows:     m.NumRows(),
		Inertia:  res.Inertia,
		Clusters: make([]ClusterProfile, res.K),
	}
	for c := 0; c < res.K; c++ {
		centroid := make(map[string]float64, m.NumCols())
		for j, name := range m.Names {
			centroid[name] = original[c][j]
		}
		top := cluster.TopFeatures(m.Names, res.Centroids[c], original[c], topFeatureCount)
		profile := ClusterProfile{
			Cluster:     c,
			Size:        res.Sizes[c],
			Centroid:    centroid,
			TopFeatures: make([]FeatureValue, len(top)),
		}
		for t, tf := range top {
			profile.TopFeatures[t] = FeatureValue{Feature: tf.Name, Value: tf.Value}
		}
		resp.Clusters[c] = profile
	}

	resp.Assignments = make([]ClusterAssignment, len(ids))
	for i, id := range ids {
		resp.Assignments[i] = ClusterAssignment{ID: id, Cluster: res.Labels[i], Features: m.RowMap(i)}
	}
	return resp, nil
}
