package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/yndnr/linkmesh-go/internal/core/domain"
	"github.com/yndnr/linkmesh-go/internal/core/service"
	"github.com/yndnr/linkmesh-go/internal/telemetry/logger"
)

// PutRoutingTable handles PUT /admin/routing_table: the uploaded
// entries replace the live table wholesale. Code assignments for
// previously seen IDs survive the replace.
func (h *Handler) PutRoutingTable(w http.ResponseWriter, r *http.Request) {
	h.updateRoutingTable(w, r, "put", h.router.PutRoutingTable)
}

// PatchRoutingTable handles PATCH /admin/routing_table: the uploaded
// entries merge into the live table, overwriting colliding IDs.
func (h *Handler) PatchRoutingTable(w http.ResponseWriter, r *http.Request) {
	h.updateRoutingTable(w, r, "patch", h.router.PatchRoutingTable)
}

func (h *Handler) updateRoutingTable(w http.ResponseWriter, r *http.Request, op string, apply func(service.Entries) error) {
	var entries service.Entries
	if err := json.NewDecoder(r.Body).Decode(&entries); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, domain.ErrBadRequest.WithDetails("request body too large"))
			return
		}
		writeError(w, r, domain.ErrBadRequest.WithDetails("invalid JSON body").WithCause(err))
		return
	}

	if err := apply(entries); err != nil {
		if h.metrics != nil {
			result := "error"
			if errors.Is(err, domain.ErrTableBusy) {
				result = "busy"
			}
			h.metrics.TableUpdatesTotal.WithLabelValues(op, result).Inc()
		}
		writeError(w, r, err)
		return
	}

	if h.metrics != nil {
		h.metrics.TableUpdatesTotal.WithLabelValues(op, "ok").Inc()
	}
	logger.L(r.Context()).Info("routing table updated",
		"op", op,
		"uploaded", len(entries),
		"size", h.router.Size(),
	)

	writeJSON(w, r, http.StatusOK, updateResult{Entries: h.router.Size()})
}

// GetLinks handles GET /admin/get_links: the full short link per ID.
func (h *Handler) GetLinks(w http.ResponseWriter, r *http.Request) {
	links := h.router.Links()
	out := make(map[string]string, len(links))
	for id, link := range links {
		out[string(id)] = link
	}
	writeJSON(w, r, http.StatusOK, linksResult{Links: out})
}

// GetCodes handles GET /admin/get_codes: the raw ID to code table.
func (h *Handler) GetCodes(w http.ResponseWriter, r *http.Request) {
	codes := h.router.Codes()
	out := make(map[string]string, len(codes))
	for id, code := range codes {
		out[string(id)] = string(code)
	}
	writeJSON(w, r, http.StatusOK, codesResult{Codes: out})
}
