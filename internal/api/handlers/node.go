// node.go - обработчики /api/node/* и /api/engine/config.
package handlers

import "net/http"

// GetNodes - GET /api/node/nodes.
func (h *APIHandler) GetNodes(w http.ResponseWriter, r *http.Request) {
	nodes, err := h.nodes.GetNodesInfo(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nodes)
}

// GetNodeStatus - GET /api/node/status.
func (h *APIHandler) GetNodeStatus(w http.ResponseWriter, r *http.Request) {
	stats, err := h.nodeStatus.GetNodeStatusStats(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// GetNodeSummary - GET /api/node/summary.
func (h *APIHandler) GetNodeSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.nodes.GetNodesSummary(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// GetEngineConfig - GET /api/engine/config.
func (h *APIHandler) GetEngineConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.engine.GetConfiguration(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}
