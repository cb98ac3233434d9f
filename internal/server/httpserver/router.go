package httpserver

import (
	"net/http"
	"time"

	"github.com/yndnr/linkmesh-go/internal/server/httpserver/handler"
	"github.com/yndnr/linkmesh-go/internal/telemetry/logger"
	"github.com/yndnr/linkmesh-go/internal/telemetry/metric"
)

// RouterConfig carries the pieces the route table needs.
type RouterConfig struct {
	Handler    *handler.Handler
	Logger     logger.Logger
	Metrics    *metric.Registry
	AdminToken string

	// MaxBodyBytes caps admin upload bodies after decompression.
	MaxBodyBytes int64

	// RequestTimeout bounds a single request end to end.
	RequestTimeout time.Duration
}

// NewRouter builds the route table with per-group middleware chains.
// The redirect path carries the lightest chain; admin routes add
// authentication, decompression and the body cap.
func NewRouter(cfg RouterConfig) http.Handler {
	base := []Middleware{
		RequestID(),
		Recover(),
		Logging(cfg.Logger),
	}

	redirect := append(append([]Middleware{}, base...),
		Metrics(cfg.Metrics, "/api"),
	)

	admin := func(route string) []Middleware {
		return append(append([]Middleware{}, base...),
			Metrics(cfg.Metrics, route),
			AdminAuth(cfg.AdminToken),
			Compress(),
			Decompress(),
			MaxBody(cfg.MaxBodyBytes),
		)
	}

	mux := http.NewServeMux()
	mux.Handle("GET /api", Chain(http.HandlerFunc(cfg.Handler.Redirect), redirect...))
	mux.Handle("PUT /admin/routing_table",
		Chain(http.HandlerFunc(cfg.Handler.PutRoutingTable), admin("/admin/routing_table")...))
	mux.Handle("PATCH /admin/routing_table",
		Chain(http.HandlerFunc(cfg.Handler.PatchRoutingTable), admin("/admin/routing_table")...))
	mux.Handle("GET /admin/get_links",
		Chain(http.HandlerFunc(cfg.Handler.GetLinks), admin("/admin/get_links")...))
	mux.Handle("GET /admin/get_codes",
		Chain(http.HandlerFunc(cfg.Handler.GetCodes), admin("/admin/get_codes")...))

	mux.Handle("GET /health", http.HandlerFunc(cfg.Handler.Health))
	mux.Handle("GET /ready", http.HandlerFunc(cfg.Handler.Ready))
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics.Handler())
	}

	var h http.Handler = mux
	if cfg.RequestTimeout > 0 {
		h = http.TimeoutHandler(h, cfg.RequestTimeout, `{"code":"LM-SYS-5000","message":"request timeout"}`)
	}
	return h
}
