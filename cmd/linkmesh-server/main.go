// Package main provides the entry point for linkmesh-server.
//
// @design DS-0501
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/yndnr/linkmesh-go/internal/core/service"
	"github.com/yndnr/linkmesh-go/internal/infra/buildinfo"
	"github.com/yndnr/linkmesh-go/internal/infra/confloader"
	"github.com/yndnr/linkmesh-go/internal/infra/shutdown"
	"github.com/yndnr/linkmesh-go/internal/infra/tlsroots"
	"github.com/yndnr/linkmesh-go/internal/server/config"
	"github.com/yndnr/linkmesh-go/internal/server/httpserver"
	"github.com/yndnr/linkmesh-go/internal/server/httpserver/handler"
	"github.com/yndnr/linkmesh-go/internal/storage/snapshot"
	"github.com/yndnr/linkmesh-go/internal/telemetry/logger"
	"github.com/yndnr/linkmesh-go/internal/telemetry/metric"
	"github.com/yndnr/linkmesh-go/pkg/crypto/adaptive"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("linkmesh-server %s\n", buildinfo.String())
		return nil
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	slogLogger := logger.Unwrap(log)

	log.Info("starting linkmesh-server",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"config", *configFile)

	// Snapshot store, optionally sealed with the configured key.
	storeOpts := []snapshot.Option{snapshot.WithLogger(slogLogger)}
	if cfg.Security.EncryptionKey != "" {
		key, err := adaptive.ParseKey(cfg.Security.EncryptionKey)
		if err != nil {
			return fmt.Errorf("parse encryption key: %w", err)
		}
		cipher, err := adaptive.New(key)
		if err != nil {
			return fmt.Errorf("init cipher: %w", err)
		}
		storeOpts = append(storeOpts, snapshot.WithCipher(cipher))
	}
	store, err := snapshot.NewStore(cfg.Storage.DataDir, storeOpts...)
	if err != nil {
		return fmt.Errorf("init snapshot store: %w", err)
	}

	// Routing service restores the latest snapshots on construction.
	router, err := service.NewRouter(store,
		service.WithLogger(slogLogger),
		service.WithBaseURL(cfg.Server.BaseURL),
	)
	if err != nil {
		return fmt.Errorf("restore routing table: %w", err)
	}
	log.Info("routing table restored", "entries", router.Size())

	metrics := metric.NewRegistry()
	metrics.MustRegister(metric.NewTableCollector(
		func() float64 { return float64(router.Size()) },
		func() float64 { return float64(len(router.Codes())) },
	))

	// TLS with live certificate rotation.
	var acceptorOpts []httpserver.AcceptorOption
	var certWatcher *tlsroots.Watcher
	if cfg.Server.TLS.Enabled() {
		certWatcher, err = tlsroots.NewWatcher(
			cfg.Server.TLS.CertFile,
			cfg.Server.TLS.KeyFile,
			tlsroots.WithLogger(slogLogger),
		)
		if err != nil {
			return fmt.Errorf("load TLS certificate: %w", err)
		}
		if cfg.Server.TLS.Watch {
			certWatcher.StartAsync()
		}
		acceptorOpts = append(acceptorOpts, httpserver.WithTLS(certWatcher.ServerConfig()))
	}
	acceptorOpts = append(acceptorOpts,
		httpserver.WithAcceptorLogger(slogLogger),
		httpserver.WithMetrics(metrics),
	)

	h := handler.New(router, handler.WithMetrics(metrics))
	mux := httpserver.NewRouter(httpserver.RouterConfig{
		Handler:        h,
		Logger:         log,
		Metrics:        metrics,
		AdminToken:     cfg.Security.AdminToken,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		RequestTimeout: cfg.Server.RequestTimeout,
	})

	acceptor, err := httpserver.NewAcceptor(cfg.Server.Addr, acceptorOpts...)
	if err != nil {
		return fmt.Errorf("bind %s: %w", cfg.Server.Addr, err)
	}
	srv := httpserver.NewServer(acceptor, mux, httpserver.WithServerLogger(slogLogger))

	coordinator := shutdown.NewCoordinator(cfg.Server.DrainTimeout,
		shutdown.WithLogger(slogLogger))

	// Hooks run in reverse order of registration.
	if certWatcher != nil {
		coordinator.OnShutdown(func(ctx context.Context) error {
			certWatcher.Stop()
			return nil
		})
	}
	coordinator.OnShutdown(func(ctx context.Context) error {
		return srv.Shutdown(ctx)
	})

	serveErr := srv.Start()
	log.Info("server started",
		"addr", acceptor.Addr().String(),
		"tls", cfg.Server.TLS.Enabled(),
		"base_url", cfg.Server.BaseURL)

	go func() {
		if err := <-serveErr; err != nil {
			log.Error("server error", "error", err)
			coordinator.Trigger()
		}
	}()

	if err := coordinator.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig loads configuration from file and environment.
func loadConfig(configFile string) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	loader := confloader.NewLoader(opts...)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// initLogger initializes the structured logger and sets it as the
// process default.
func initLogger(cfg *config.ServerConfig) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return nil, err
	}
	logger.SetDefault(log)
	return log, nil
}
