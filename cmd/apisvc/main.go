// Package main is the entry point for the API service.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/docnyte/apisvc/internal/config"
	"github.com/docnyte/apisvc/internal/gateway"
	"github.com/docnyte/apisvc/internal/middleware"
	"github.com/docnyte/apisvc/internal/observability"
	"github.com/docnyte/apisvc/internal/server"
	"github.com/docnyte/apisvc/internal/upstream"
)

// Version information (set at build time).
var (
	version   = "0.1.0"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// cliFlags holds command line flags.
type cliFlags struct {
	configPath  string
	logLevel    string
	logFormat   string
	showVersion bool
}

func main() {
	flags := parseFlags()

	if flags.showVersion {
		printVersion()
		return
	}

	cfg := loadAndValidateConfig(flags)
	logger := initLogger(cfg)
	defer func() { _ = logger.Sync() }()

	app := initApplication(cfg, logger)
	run(app, logger)
}

// parseFlags parses command line flags.
func parseFlags() cliFlags {
	configPath := flag.String("config", getEnvOrDefault("APISVC_CONFIG_PATH", ""),
		"Path to configuration file (optional)")
	logLevel := flag.String("log-level", "",
		"Log level override (debug, info, warn, error)")
	logFormat := flag.String("log-format", "",
		"Log format override (json, console)")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	return cliFlags{
		configPath:  *configPath,
		logLevel:    *logLevel,
		logFormat:   *logFormat,
		showVersion: *showVersion,
	}
}

// printVersion prints version information and exits.
func printVersion() {
	fmt.Printf("apisvc version %s\n", version)
	fmt.Printf("  Build time: %s\n", buildTime)
	fmt.Printf("  Git commit: %s\n", gitCommit)
}

// loadAndValidateConfig loads the configuration and applies flag overrides.
func loadAndValidateConfig(flags cliFlags) *config.Config {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if flags.logLevel != "" {
		cfg.Logging.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.Logging.Format = flags.logFormat
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	return cfg
}

// initLogger initializes the logger from the configuration.
func initLogger(cfg *config.Config) observability.Logger {
	logger, err := observability.NewLogger(observability.LogConfig{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	logger.Info("starting apisvc",
		observability.String("service", cfg.Service.Name),
		observability.String("version", cfg.Service.Version),
		observability.String("dataServiceURL", cfg.DataService.URL),
		observability.Int("port", cfg.Server.Port),
		observability.String("logLevel", cfg.Logging.Level),
	)

	return logger
}

// application holds all application components.
type application struct {
	server  *server.Server
	metrics *observability.Metrics
	config  *config.Config
}

// initApplication wires all application components together.
func initApplication(cfg *config.Config, logger observability.Logger) *application {
	metrics := observability.NewMetrics("apisvc")
	metrics.SetBuildInfo(cfg.Service.Version, gitCommit)

	client := upstream.NewClient(cfg.DataService.URL,
		upstream.WithLogger(logger),
		upstream.WithMetrics(metrics),
		upstream.WithHealthTimeout(cfg.DataService.HealthTimeout.Duration()),
		upstream.WithRequestTimeout(cfg.DataService.RequestTimeout.Duration()),
	)

	service := gateway.NewService(cfg.Service.Name, cfg.Service.Version, client,
		gateway.WithServiceLogger(logger),
	)
	handler := gateway.NewHandler(service, gateway.WithHandlerLogger(logger))

	srv := server.New(&server.Config{
		Address:      cfg.Server.Address,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration(),
		WriteTimeout: cfg.Server.WriteTimeout.Duration(),
		IdleTimeout:  cfg.Server.IdleTimeout.Duration(),
	}, logger)

	srv.Use(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logging(logger),
		middleware.CORS(),
		middleware.Metrics(metrics),
	)
	handler.Register(srv.Engine())

	return &application{
		server:  srv,
		metrics: metrics,
		config:  cfg,
	}
}

// run starts the servers and blocks until shutdown.
func run(app *application, logger observability.Logger) {
	go func() {
		if err := app.server.Start(); err != nil {
			logger.Fatal("server failed", observability.Error(err))
		}
	}()

	metricsServer := startMetricsServerIfEnabled(app, logger)

	waitForShutdown(app, metricsServer, logger)
}

// startMetricsServerIfEnabled starts the metrics server if enabled.
func startMetricsServerIfEnabled(app *application, logger observability.Logger) *http.Server {
	if !app.config.Metrics.Enabled {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(app.config.Metrics.Path, app.metrics.Handler())

	addr := fmt.Sprintf(":%d", app.config.Metrics.Port)
	metricsServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	logger.Info("starting metrics server",
		observability.String("address", addr),
		observability.String("path", app.config.Metrics.Path),
	)

	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server error", observability.Error(err))
		}
	}()

	return metricsServer
}

// waitForShutdown waits for a shutdown signal and stops the servers gracefully.
func waitForShutdown(app *application, metricsServer *http.Server, logger observability.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("received shutdown signal", observability.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		app.config.Server.ShutdownTimeout.Duration(),
	)
	defer cancel()

	if err := app.server.Stop(shutdownCtx); err != nil {
		logger.Error("failed to stop server gracefully", observability.Error(err))
	}

	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to stop metrics server", observability.Error(err))
		}
	}

	logger.Info("apisvc stopped")
}

// getEnvOrDefault returns the environment variable value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
