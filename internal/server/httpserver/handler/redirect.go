package handler

import (
	"errors"
	"net/http"

	"github.com/yndnr/linkmesh-go/internal/core/domain"
	"github.com/yndnr/linkmesh-go/internal/telemetry/logger"
)

// Redirect handles GET /api?code=<code>.
//
// Known codes answer 303 See Other with the destination in Location.
// 303 rather than 301/302 keeps user agents from caching the mapping,
// which must be able to change between uploads.
func (h *Handler) Redirect(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, r, domain.ErrBadRequest.WithDetails("missing code parameter"))
		return
	}

	target, err := h.router.Redirect(domain.Code(code))
	if err != nil {
		if h.metrics != nil && errors.Is(err, domain.ErrCodeNotFound) {
			h.metrics.RedirectsTotal.WithLabelValues("not_found").Inc()
		}
		writeError(w, r, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RedirectsTotal.WithLabelValues("ok").Inc()
	}
	logger.L(r.Context()).Debug("redirect", "code", code)

	http.Redirect(w, r, target, http.StatusSeeOther)
}
