package httpserver

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"net"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/yndnr/linkmesh-go/internal/telemetry/metric"
)

// Acceptor accepts inbound TCP connections, optionally performs the
// TLS handshake, and exposes the handshaken connections through a
// net.Listener suitable for http.Server.Serve.
//
// States: Listening -> Draining -> Stopped. Stop moves to Draining and
// stops accepting; already-open connections are left alone and tracked
// until they close.
//
// @req RQ-0301
// @design DS-0301
type Acceptor struct {
	addr      string
	tlsConfig *tls.Config
	logger    *slog.Logger
	metrics   *metric.Registry

	// handshakeTimeout bounds a single TLS handshake.
	handshakeTimeout time.Duration

	// cooldown is the pause after a resource-exhaustion accept error.
	cooldown time.Duration

	ln      net.Listener
	connCh  chan net.Conn
	closing chan struct{}
	stopOne sync.Once

	// conns counts outstanding connection tokens. Each accepted
	// connection holds one until its Close, for any reason.
	conns sync.WaitGroup
}

// AcceptorOption configures an Acceptor.
type AcceptorOption func(*Acceptor)

// WithTLS enables TLS termination with the given config. A nil config
// leaves the acceptor in plaintext mode.
func WithTLS(cfg *tls.Config) AcceptorOption {
	return func(a *Acceptor) {
		a.tlsConfig = cfg
	}
}

// WithAcceptorLogger sets the logger.
func WithAcceptorLogger(logger *slog.Logger) AcceptorOption {
	return func(a *Acceptor) {
		a.logger = logger
	}
}

// WithMetrics wires the acceptor's counters.
func WithMetrics(m *metric.Registry) AcceptorOption {
	return func(a *Acceptor) {
		a.metrics = m
	}
}

// WithHandshakeTimeout bounds the TLS handshake.
func WithHandshakeTimeout(d time.Duration) AcceptorOption {
	return func(a *Acceptor) {
		a.handshakeTimeout = d
	}
}

// WithCooldown sets the pause after resource exhaustion.
func WithCooldown(d time.Duration) AcceptorOption {
	return func(a *Acceptor) {
		a.cooldown = d
	}
}

// NewAcceptor creates an acceptor and binds the listening address.
// A bind failure is returned immediately; it is fatal at startup.
func NewAcceptor(addr string, opts ...AcceptorOption) (*Acceptor, error) {
	a := &Acceptor{
		addr:             addr,
		logger:           slog.Default(),
		handshakeTimeout: 10 * time.Second,
		cooldown:         time.Second,
		connCh:           make(chan net.Conn),
		closing:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	a.ln = ln
	return a, nil
}

// Addr returns the bound listen address.
func (a *Acceptor) Addr() net.Addr {
	return a.ln.Addr()
}

// Listener returns the listener http.Server.Serve should consume.
// Accept on it yields connections that already completed their TLS
// handshake (or raw connections in plaintext mode).
func (a *Acceptor) Listener() net.Listener {
	return &chanListener{a: a}
}

// Run accepts connections until Stop. It returns nil on a clean stop.
func (a *Acceptor) Run() error {
	a.logger.Info("acceptor listening",
		"addr", a.ln.Addr().String(),
		"tls", a.tlsConfig != nil,
	)

	for {
		c, err := a.ln.Accept()
		if err != nil {
			select {
			case <-a.closing:
				return nil
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			if isExhaustion(err) {
				// Hot-spinning on EMFILE only worsens the
				// shortage; back off before retrying.
				a.logger.Error("accept failed, resource exhaustion, pausing",
					"error", err,
					"pause", a.cooldown,
				)
				if a.metrics != nil {
					a.metrics.AcceptPauses.Inc()
				}
				select {
				case <-time.After(a.cooldown):
				case <-a.closing:
					return nil
				}
				continue
			}
			// Per-connection failure (peer reset, aborted).
			a.logger.Debug("accept failed", "error", err)
			continue
		}

		if a.metrics != nil {
			a.metrics.ConnectionsTotal.Inc()
			a.metrics.ConnectionsActive.Inc()
		}
		a.conns.Add(1)
		go a.handle(c)
	}
}

// handle performs the optional handshake and delivers the connection.
func (a *Acceptor) handle(c net.Conn) {
	tracked := &trackedConn{Conn: c, a: a}

	if a.tlsConfig != nil {
		tc := tls.Server(tracked, a.tlsConfig)
		ctx, cancel := context.WithTimeout(context.Background(), a.handshakeTimeout)
		err := tc.HandshakeContext(ctx)
		cancel()
		if err != nil {
			// Silent drop: no response, nothing above debug.
			// Probing peers get no protocol signal.
			a.logger.Debug("tls handshake failed",
				"remote", c.RemoteAddr().String(),
				"error", err,
			)
			if a.metrics != nil {
				a.metrics.TLSHandshakeFailures.Inc()
			}
			_ = tracked.Close()
			return
		}
		a.deliver(tc, tracked)
		return
	}

	a.deliver(tracked, tracked)
}

func (a *Acceptor) deliver(c net.Conn, tracked *trackedConn) {
	select {
	case a.connCh <- c:
	case <-a.closing:
		_ = tracked.Close()
	}
}

// Stop moves the acceptor to Draining: the listening socket closes and
// no further connections are accepted. Idempotent.
func (a *Acceptor) Stop() {
	a.stopOne.Do(func() {
		close(a.closing)
		_ = a.ln.Close()
	})
}

// Wait blocks until every outstanding connection has closed or ctx
// expires. Returns ctx.Err() on timeout.
func (a *Acceptor) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		a.conns.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// trackedConn releases its connection token exactly once on Close.
type trackedConn struct {
	net.Conn
	a    *Acceptor
	once sync.Once
}

func (c *trackedConn) Close() error {
	err := c.Conn.Close()
	c.once.Do(func() {
		if c.a.metrics != nil {
			c.a.metrics.ConnectionsActive.Dec()
		}
		c.a.conns.Done()
	})
	return err
}

// chanListener adapts the acceptor's handshaken-connection channel to
// net.Listener for http.Server.Serve.
type chanListener struct {
	a *Acceptor
}

func (l *chanListener) Accept() (net.Conn, error) {
	select {
	case c := <-l.a.connCh:
		return c, nil
	case <-l.a.closing:
		return nil, net.ErrClosed
	}
}

func (l *chanListener) Close() error {
	l.a.Stop()
	return nil
}

func (l *chanListener) Addr() net.Addr {
	return l.a.ln.Addr()
}

// isExhaustion reports whether an accept error is in the
// resource-exhaustion class rather than a per-connection failure.
func isExhaustion(err error) bool {
	if errors.Is(err, syscall.EMFILE) ||
		errors.Is(err, syscall.ENFILE) ||
		errors.Is(err, syscall.ENOBUFS) ||
		errors.Is(err, syscall.ENOMEM) {
		return true
	}
	// Some platforms wrap these without preserving the errno.
	msg := err.Error()
	return strings.Contains(msg, "too many open files")
}
