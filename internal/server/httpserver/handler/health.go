package handler

import (
	"net/http"

	"github.com/yndnr/linkmesh-go/internal/infra/buildinfo"
)

// healthResult is the payload returned by the health endpoints.
type healthResult struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Entries int    `json:"entries"`
}

// Health handles GET /health. It answers as long as the process can
// serve HTTP at all.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, healthResult{
		Status:  "ok",
		Version: buildinfo.Version,
		Entries: h.router.Size(),
	})
}

// Ready handles GET /ready. The router loads its snapshots before the
// listener opens, so readiness follows health.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	h.Health(w, r)
}
