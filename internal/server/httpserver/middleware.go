package httpserver

import (
	"crypto/rand"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/oklog/ulid/v2"

	"github.com/yndnr/linkmesh-go/internal/core/domain"
	"github.com/yndnr/linkmesh-go/internal/telemetry/logger"
	"github.com/yndnr/linkmesh-go/internal/telemetry/metric"
	"github.com/yndnr/linkmesh-go/pkg/token"
)

// Middleware wraps an http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares in order: the first listed is the
// outermost.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// RequestID assigns a ULID request identifier to every request,
// propagates it through the context, and echoes it in the
// X-Request-ID response header. An inbound X-Request-ID is trusted
// as-is so callers can correlate across services.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-ID")
			if id == "" {
				id = ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
			}
			w.Header().Set("X-Request-ID", id)
			ctx := logger.WithRequestID(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Logging logs one line per request at info level.
func Logging(log logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			ctx := logger.WithLogger(r.Context(), log)
			next.ServeHTTP(rw, r.WithContext(ctx))

			logger.L(ctx).Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rw.statusCode,
				"duration_ms", time.Since(start).Milliseconds(),
				"remote", getClientIP(r),
			)
		})
	}
}

// Recover converts panics into a 500 response instead of killing the
// connection's serve goroutine.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.L(r.Context()).Error("panic recovered",
						"panic", fmt.Sprintf("%v", rec),
						"path", r.URL.Path,
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					fmt.Fprintf(w, `{"code":%q,"message":"internal server error"}`,
						domain.ErrInternalServer.Code)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// AdminAuth requires a Bearer token matching the configured admin
// token. The comparison is constant time.
func AdminAuth(adminToken string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				writeAuthError(w, domain.ErrTokenMissing)
				return
			}
			presented, ok := strings.CutPrefix(auth, "Bearer ")
			if !ok || !token.Verify(presented, adminToken) {
				logger.L(r.Context()).Warn("admin auth rejected",
					"remote", getClientIP(r),
				)
				writeAuthError(w, domain.ErrTokenInvalid)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Decompress transparently inflates gzip request bodies. Admin table
// uploads are large and highly compressible, so clients are expected
// to send Content-Encoding: gzip.
func Decompress() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.EqualFold(r.Header.Get("Content-Encoding"), "gzip") {
				gz, err := gzip.NewReader(r.Body)
				if err != nil {
					writeAuthError(w, domain.ErrBadRequest.WithDetails("invalid gzip body"))
					return
				}
				defer gz.Close()
				r.Body = gz
				r.Header.Del("Content-Encoding")
				r.ContentLength = -1
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Compress gzips response bodies when the client accepts it. Link and
// code listings are large and repetitive; compression is cheap there.
func Compress() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("Content-Encoding", "gzip")
			gz := gzip.NewWriter(w)
			defer gz.Close()
			next.ServeHTTP(&gzipResponseWriter{ResponseWriter: w, gz: gz}, r)
		})
	}
}

// gzipResponseWriter routes the body through the gzip writer while
// headers and status pass straight through.
type gzipResponseWriter struct {
	http.ResponseWriter
	gz *gzip.Writer
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	return w.gz.Write(b)
}

// MaxBody caps the request body size. Oversized bodies fail the read
// inside the handler with a 413 from http.MaxBytesReader.
func MaxBody(limit int64) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

// Metrics records request counts and latency. The route label is
// static per handler group to keep cardinality bounded.
func Metrics(m *metric.Registry, route string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m == nil {
				next.ServeHTTP(w, r)
				return
			}
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rw, r)
			m.RequestsTotal.WithLabelValues(
				r.Method, route, fmt.Sprintf("%d", rw.statusCode),
			).Inc()
			m.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		})
	}
}

// writeAuthError writes a minimal error envelope with the HTTP status
// derived from the domain error code suffix.
func writeAuthError(w http.ResponseWriter, derr *domain.DomainError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(errorCodeToHTTPStatus(derr.Code))
	fmt.Fprintf(w, `{"code":%q,"message":%q}`, derr.Code, derr.Message)
}

// errorCodeToHTTPStatus maps a domain error code to an HTTP status by
// its numeric suffix (LM-XXXX-NNNN where NNNN is status*10+n).
func errorCodeToHTTPStatus(code string) int {
	idx := strings.LastIndex(code, "-")
	if idx < 0 || idx+1 >= len(code) {
		return http.StatusInternalServerError
	}
	suffix := code[idx+1:]
	if len(suffix) != 4 {
		return http.StatusInternalServerError
	}
	switch suffix[:3] {
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
	case "500":
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// responseWriter captures the status code written by a handler.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.written = true
	return rw.ResponseWriter.Write(b)
}

// getClientIP returns the client address, preferring the first entry
// of X-Forwarded-For when present.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
