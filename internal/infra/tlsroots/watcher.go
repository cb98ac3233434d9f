package tlsroots

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher serves the current TLS certificate and reloads it when the
// files on disk change.
//
// Filesystem events for the certificate or key are coalesced: a reload
// is attempted only after the files have been quiet for the quiescence
// window, so a cert+key pair written in quick succession is picked up
// as one rotation. A failed reload is retried indefinitely at a fixed
// delay while the last good certificate keeps being served; only the
// initial load is fatal.
//
// @req RQ-0104
type Watcher struct {
	certFile string
	keyFile  string
	logger   *slog.Logger

	// quiescence is how long the files must stay quiet after a
	// change before a reload is attempted.
	quiescence time.Duration

	// retryDelay is the fixed delay between reload attempts after a
	// failure.
	retryDelay time.Duration

	mu   sync.RWMutex
	cert *tls.Certificate

	done     chan struct{}
	stopOnce sync.Once
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithLogger sets the logger for the watcher.
func WithLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// WithQuiescence sets the quiet window after a file change.
func WithQuiescence(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.quiescence = d
	}
}

// WithRetryDelay sets the delay between failed reload attempts.
func WithRetryDelay(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.retryDelay = d
	}
}

// NewWatcher creates a certificate watcher and performs the initial
// load. An unreadable initial pair is an error; after that, reload
// failures never surface past the retry loop.
func NewWatcher(certFile, keyFile string, opts ...WatcherOption) (*Watcher, error) {
	w := &Watcher{
		certFile:   certFile,
		keyFile:    keyFile,
		logger:     slog.Default(),
		quiescence: 500 * time.Millisecond,
		retryDelay: 500 * time.Millisecond,
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := w.reload(); err != nil {
		return nil, fmt.Errorf("tlsroots: initial load: %w", err)
	}
	return w, nil
}

// Start watches for certificate changes. It blocks until Stop is
// called.
func (w *Watcher) Start() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("tlsroots: create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the parent directories rather than the files themselves.
	// Atomic renames (certbot, kubelet secret mounts, vim) replace
	// the inode, which a file-level watch would lose.
	certDir := filepath.Dir(w.certFile)
	keyDir := filepath.Dir(w.keyFile)
	if err := watcher.Add(certDir); err != nil {
		return fmt.Errorf("tlsroots: watch cert dir %s: %w", certDir, err)
	}
	if keyDir != certDir {
		if err := watcher.Add(keyDir); err != nil {
			return fmt.Errorf("tlsroots: watch key dir %s: %w", keyDir, err)
		}
	}

	w.logger.Info("certificate watcher started",
		"cert_file", w.certFile,
		"key_file", w.keyFile,
		"quiescence", w.quiescence,
	)

	certBase := filepath.Base(w.certFile)
	keyBase := filepath.Base(w.keyFile)

	// The timer fires once the files have been quiet for the
	// quiescence window. It is re-armed on every relevant event.
	quiet := time.NewTimer(w.quiescence)
	if !quiet.Stop() {
		<-quiet.C
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			base := filepath.Base(event.Name)
			if base != certBase && base != keyBase {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("certificate file changed",
				"file", event.Name,
				"op", event.Op.String(),
			)
			if !quiet.Stop() {
				select {
				case <-quiet.C:
				default:
				}
			}
			quiet.Reset(w.quiescence)

		case <-quiet.C:
			if !w.reloadUntilSuccess() {
				return nil
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("certificate watcher error",
				"error", err,
				"cert_file", w.certFile,
			)

		case <-w.done:
			return nil
		}
	}
}

// StartAsync starts watching in a goroutine.
func (w *Watcher) StartAsync() {
	go func() {
		if err := w.Start(); err != nil {
			w.logger.Error("certificate watcher stopped with error",
				"error", err,
			)
		}
	}()
}

// Stop stops watching. Safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
	})
}

// GetCertificate returns the current certificate.
// This implements tls.Config.GetCertificate.
func (w *Watcher) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.cert, nil
}

// ServerConfig returns a tls.Config that serves the watcher's current
// certificate. ALPN is fixed to HTTP/1.1.
func (w *Watcher) ServerConfig() *tls.Config {
	return &tls.Config{
		GetCertificate: w.GetCertificate,
		NextProtos:     []string{"http/1.1"},
		MinVersion:     tls.VersionTLS12,
	}
}

// reloadUntilSuccess retries the reload at the configured delay until
// it succeeds or the watcher is stopped. Returns false on stop.
func (w *Watcher) reloadUntilSuccess() bool {
	for {
		err := w.reload()
		if err == nil {
			return true
		}
		w.logger.Error("certificate reload failed, serving last good certificate",
			"error", err,
			"cert_file", w.certFile,
			"key_file", w.keyFile,
			"retry_in", w.retryDelay,
		)
		select {
		case <-time.After(w.retryDelay):
		case <-w.done:
			return false
		}
	}
}

func (w *Watcher) reload() error {
	cert, err := tls.LoadX509KeyPair(w.certFile, w.keyFile)
	if err != nil {
		return fmt.Errorf("load key pair: %w", err)
	}

	w.mu.Lock()
	w.cert = &cert
	w.mu.Unlock()

	w.logger.Info("certificate loaded",
		"cert_file", w.certFile,
	)
	return nil
}
