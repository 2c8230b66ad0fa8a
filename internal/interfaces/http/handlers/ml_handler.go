package handlers

import (
	"net/http"

	"github.com/turtacn/CaseTrack-Analytics/internal/analytics/recon"
	app "github.com/turtacn/CaseTrack-Analytics/internal/application/analytics"
)

// Query parameter defaults for the deadline-stream endpoints.
const (
	defaultClusterK = 3
	defaultKFold    = 5
	defaultReconTop = 10
)

// MLHandler serves the deadline-stream analytics endpoints.
type MLHandler struct {
	service *app.Service
}

// NewMLHandler builds the handler.
func NewMLHandler(service *app.Service) *MLHandler {
	return &MLHandler{service: service}
}

// Risk handles GET /ml/supervised/risk.
func (h *MLHandler) Risk(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.RiskScores(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Clusters handles GET /ml/unsupervised/clusters?k=.
func (h *MLHandler) Clusters(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.DeadlineClusters(r.Context(), queryInt(r, "k", defaultClusterK))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Anomalies handles GET /ml/unsupervised/anomalies.
func (h *MLHandler) Anomalies(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.DeadlineAnomalies(r.Context(), anomalyParams(r))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Autoencoder handles GET /ml/deep/deadlines/autoencoder.
func (h *MLHandler) Autoencoder(w http.ResponseWriter, r *http.Request) {
	hp, top := reconParams(r)
	resp, err := h.service.DeadlineReconstruction(r.Context(), hp, top)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// DaysRegression handles GET /ml/regression/deadlines/days-to-due?kfold=.
func (h *MLHandler) DaysRegression(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.DeadlineDaysRegression(r.Context(), queryInt(r, "kfold", defaultKFold))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// anomalyParams reads the shared anomaly query surface. Explanations are on
// when either explain or reasons is supplied.
func anomalyParams(r *http.Request) app.AnomalyParams {
	reasons := queryInt(r, "reasons", 0)
	return app.AnomalyParams{
		Contamination: queryFloat(r, "contamination", app.DefaultContamination),
		Limit:         queryInt(r, "limit", 0),
		Explain:       queryBool(r, "explain") || reasons > 0,
		Reasons:       reasons,
	}
}

// reconParams reads the shared autoencoder query surface.
func reconParams(r *http.Request) (recon.Hyper, int) {
	hp := recon.Hyper{
		Epochs:       queryInt(r, "epochs", 0),
		Hidden:       queryInt(r, "hidden", 0),
		Bottleneck:   queryInt(r, "bottleneck", 0),
		LearningRate: queryFloat(r, "lr", 0),
	}
	return hp, queryInt(r, "top", defaultReconTop)
}
