// batch.go - обработчики /api/batch/*.
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	apierrors "github.com/bigkaa/symds-dashboard/internal/api/errors"
	"github.com/bigkaa/symds-dashboard/internal/domain/model"
	"github.com/bigkaa/symds-dashboard/internal/service"
)

// GetBatchStatus - GET /api/batch/status.
func (h *APIHandler) GetBatchStatus(w http.ResponseWriter, r *http.Request, params GetBatchStatusParams) {
	snapshot, err := h.batches.GetBatchStatus(r.Context(), model.BatchFilters{
		IncomingStatus: params.IncomingStatus,
		OutgoingStatus: params.OutgoingStatus,
		Channel:        params.Channel,
		NodeID:         params.NodeID,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// GetBatchChannels - GET /api/batch/channels.
func (h *APIHandler) GetBatchChannels(w http.ResponseWriter, r *http.Request) {
	channels, err := h.batches.GetUniqueChannels(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, channels)
}

// GetBatchDetails - GET /api/batch/{direction}/{batchId}.
func (h *APIHandler) GetBatchDetails(w http.ResponseWriter, r *http.Request, direction string, batchID int64) {
	detail, err := h.batches.GetBatchDetails(r.Context(), batchID, direction)
	// Отдельная ветка ради сообщения с идентификатором и направлением батча;
	// handleServiceError отвечает 404 только общим текстом ErrNotFound.
	if errors.Is(err, service.ErrNotFound) {
		apierrors.NotFound(w, fmt.Sprintf("Батч %d (%s) не найден", batchID, direction))
		return
	}
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// GetBatchData - GET /api/batch/{batchId}/data?direction=.
func (h *APIHandler) GetBatchData(w http.ResponseWriter, r *http.Request, batchID int64, params GetBatchDataParams) {
	var direction string
	if params.Direction != nil {
		direction = *params.Direction
	}

	entries, err := h.batches.GetBatchData(r.Context(), batchID, direction)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
