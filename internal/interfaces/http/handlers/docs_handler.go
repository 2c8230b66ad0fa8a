package handlers

import (
	"net/http"

	"github.com/turtacn/CaseTrack-Analytics/internal/analytics/dedup"
	app "github.com/turtacn/CaseTrack-Analytics/internal/application/analytics"
)

// Near-duplicate query defaults, matching the upstream consumers'
// expectations: name similarity dominates, sizes refine.
const (
	defaultDupThreshold  = 0.8
	defaultDupMaxPairs   = 200
	defaultDupNameWeight = 0.7
	defaultDupSizeWeight = 0.3
)

// DocsHandler serves the document-stream analytics endpoints.
type DocsHandler struct {
	service *app.Service
}

// NewDocsHandler builds the handler.
func NewDocsHandler(service *app.Service) *DocsHandler {
	return &DocsHandler{service: service}
}

// Clusters handles GET /docs/unsupervised/clusters?k=.
func (h *DocsHandler) Clusters(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.DocumentClusters(r.Context(), queryInt(r, "k", defaultClusterK))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Anomalies handles GET /docs/unsupervised/anomalies.
func (h *DocsHandler) Anomalies(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.DocumentAnomalies(r.Context(), anomalyParams(r))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Autoencoder handles GET /ml/deep/documents/autoencoder.
func (h *DocsHandler) Autoencoder(w http.ResponseWriter, r *http.Request) {
	hp, top := reconParams(r)
	resp, err := h.service.DocumentReconstruction(r.Context(), hp, top)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// SizeRegression handles GET /docs/regression/size-mb?kfold=.
func (h *DocsHandler) SizeRegression(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.DocumentSizeRegression(r.Context(), queryInt(r, "kfold", defaultKFold))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// NearDuplicates handles GET /docs/near-duplicates.
func (h *DocsHandler) NearDuplicates(w http.ResponseWriter, r *http.Request) {
	params := dedup.Params{
		NameWeight: queryFloat(r, "w_name", defaultDupNameWeight),
		SizeWeight: queryFloat(r, "w_size", defaultDupSizeWeight),
		Threshold:  queryFloat(r, "threshold", defaultDupThreshold),
		MaxPairs:   queryInt(r, "max_pairs", defaultDupMaxPairs),
	}
	resp, err := h.service.NearDuplicates(r.Context(), params)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
