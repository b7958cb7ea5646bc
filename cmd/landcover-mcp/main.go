package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/ironsheep/landcover-analytics/internal/config"
	"github.com/ironsheep/landcover-analytics/internal/httpapi"
	"github.com/ironsheep/landcover-analytics/internal/logging"
	"github.com/ironsheep/landcover-analytics/internal/metrics"
	"github.com/ironsheep/landcover-analytics/internal/server"
	"github.com/ironsheep/landcover-analytics/internal/service"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const shutdownTimeout = 30 * time.Second

func main() {
	mode := "mcp"

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("landcover-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		case "serve":
			mode = "http"
		case "mcp":
		default:
			fmt.Fprintf(os.Stderr, "unknown command %q, see --help\n", os.Args[1])
			os.Exit(2)
		}
	}

	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Logs go to stderr; stdout is for MCP protocol
	logger, err := logging.NewFromConfig(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid logging configuration: %v\n", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(reg, "landcover")

	svc := service.FromConfig(cfg, logger, collector)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("main", "[STARTUP] Starting landcover analytics", logging.Fields{
		"version":  Version,
		"commit":   GitCommit,
		"mode":     mode,
		"data_dir": cfg.DataDir,
		"region":   cfg.Region,
	})

	if mode == "http" {
		err = serveHTTP(ctx, cfg, svc, logger, collector, reg)
	} else {
		err = serveMCP(ctx, svc, logger)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("main", "[SERVER_ERROR] Server failed", err, nil)
		os.Exit(1)
	}
}

// serveMCP returns when stdin closes or a signal arrives. The blocked stdin
// read is abandoned on signal; the process exits right after.
func serveMCP(ctx context.Context, svc *service.Service, logger *logging.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.New(svc, logger, Version).Run(ctx)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("main", "[SHUTDOWN] Signal received, stopping MCP server", nil)
		return ctx.Err()
	}
}

func serveHTTP(ctx context.Context, cfg *config.Config, svc *service.Service, logger *logging.Logger, collector *metrics.Collector, reg *prometheus.Registry) error {
	handler := httpapi.NewHandler(svc, logger, collector, Version)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(handler, reg),
		ReadTimeout:  cfg.GetReadTimeout(),
		WriteTimeout: cfg.GetWriteTimeout(),
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("main", "[SERVER_START] HTTP server listening", logging.Fields{
			"address": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("main", "[SHUTDOWN] Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("main", "[SHUTDOWN_COMPLETE] Server stopped", nil)
	return nil
}

func printHelp() {
	fmt.Println("landcover-mcp - land-cover raster analytics over MCP and HTTP")
	fmt.Println()
	fmt.Println("Usage: landcover-mcp [command] [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  mcp              Serve MCP over stdin/stdout (default)")
	fmt.Println("  serve            Serve the HTTP API")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Printf("  %-22s Path to a JSON config file\n", config.EnvConfig)
	fmt.Printf("  %-22s Raster directory (lulc/, change/, confidence/)\n", config.EnvDataDir)
	fmt.Printf("  %-22s HTTP listen address (default :8000)\n", config.EnvHTTPAddr)
	fmt.Printf("  %-22s Pixel edge length in metres\n", config.EnvPixelSize)
	fmt.Printf("  %-22s debug, info, warn or error\n", config.EnvLogLevel)
	fmt.Printf("  %-22s json or console\n", config.EnvLogFormat)
}
