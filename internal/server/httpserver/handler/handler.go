package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/yndnr/linkmesh-go/internal/core/domain"
	"github.com/yndnr/linkmesh-go/internal/core/service"
	"github.com/yndnr/linkmesh-go/internal/telemetry/logger"
	"github.com/yndnr/linkmesh-go/internal/telemetry/metric"
)

// Handler serves the redirect and admin endpoints backed by the
// routing service.
type Handler struct {
	router  *service.Router
	metrics *metric.Registry
}

// Option configures a Handler.
type Option func(*Handler)

// WithMetrics wires the handler's counters.
func WithMetrics(m *metric.Registry) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}

// New creates a handler backed by the given router.
func New(router *service.Router, opts ...Option) *Handler {
	h := &Handler{router: router}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// writeJSON writes a success envelope.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	resp := newResponse("OK", "success", logger.RequestIDFromContext(r.Context()))
	resp.Data = data

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.L(r.Context()).Error("response encoding failed", "error", err)
	}
}

// writeError writes an error envelope with the status derived from
// the domain error code.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var derr *domain.DomainError
	if !errors.As(err, &derr) {
		derr = domain.ErrInternalServer
	}

	status := errorCodeToHTTPStatus(derr.Code)
	if status >= http.StatusInternalServerError {
		logger.L(r.Context()).Error("request failed",
			"code", derr.Code,
			"error", err,
		)
	}

	resp := newResponse(derr.Code, derr.Message, logger.RequestIDFromContext(r.Context()))
	resp.Details = derr.Details

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(resp); encErr != nil {
		logger.L(r.Context()).Error("response encoding failed", "error", encErr)
	}
}

// errorCodeToHTTPStatus maps a domain error code to an HTTP status by
// its numeric suffix.
func errorCodeToHTTPStatus(code string) int {
	idx := strings.LastIndex(code, "-")
	if idx < 0 || len(code)-idx-1 != 4 {
		return http.StatusInternalServerError
	}
	switch code[idx+1 : idx+4] {
	case "400":
		return http.StatusBadRequest
	case "401":
		return http.StatusUnauthorized
	case "403":
		return http.StatusForbidden
	case "404":
		return http.StatusNotFound
	case "429":
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
