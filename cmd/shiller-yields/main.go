// Command shiller-yields regenerates the historical yield data module used by the web
// application from Robert Shiller's monthly market data.
//
// It takes no flags. Run it from the project root:
//
//	go run ./cmd/shiller-yields
//
// Paths, column names and telemetry can be overridden with SHILLER_* environment
// variables or a shiller.yaml file.
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"shillergen/internal/config"
	"shillergen/internal/dataprocessing"
	apperrors "shillergen/internal/errors"
	"shillergen/internal/exporter"
	"shillergen/internal/files"
	"shillergen/internal/infrastructure"
)

func main() {
	err := run(context.Background(), os.Stdout)
	if err != nil {
		slog.Error("Shiller yield generation failed", slog.Any("error", err))
	}
	infrastructure.CloseLogFile()
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return apperrors.NewConfigError("failed to load configuration", err)
	}

	paths, err := config.ResolvePaths(cfg.Paths)
	if err != nil {
		return apperrors.NewConfigError("failed to resolve paths", err)
	}
	cfg.Logging.FilePath = rooted(paths.Root, cfg.Logging.FilePath)

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return apperrors.NewConfigError("failed to initialize logger", err)
	}

	ctx = infrastructure.EnsureRunID(ctx)
	logger.InfoContext(ctx, "Starting Shiller yield generation",
		slog.String("service", infrastructure.ServiceName),
		slog.String("version", infrastructure.ServiceVersion))
	paths.LogPathResolution(logger)

	telemetry, err := infrastructure.InitializeTelemetry(ctx, cfg.Telemetry,
		rooted(paths.Root, cfg.Telemetry.MetricsFile), logger)
	if err != nil {
		return apperrors.NewConfigError("failed to initialize telemetry", err)
	}
	defer func() {
		if shutdownErr := telemetry.Shutdown(ctx); shutdownErr != nil {
			logger.WarnContext(ctx, "Telemetry shutdown failed", slog.String("error", shutdownErr.Error()))
		}
	}()

	manager := files.NewManager(paths).WithLogger(infrastructure.WithComponent(logger, "files"))
	writer := exporter.NewTypeScriptWriter(manager, paths.InputRel, cfg.Transcode.MinYear,
		infrastructure.WithComponent(logger, "exporter"))

	transcoder, err := dataprocessing.NewTranscoder(cfg, paths, writer, telemetry, logger)
	if err != nil {
		return err
	}

	_, err = transcoder.WithOutput(stdout).Run(ctx)
	return err
}

// rooted anchors a relative path at the project root. Empty stays empty.
func rooted(root, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
