package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/voxlink/audio-uplink/internal/agent"
	"github.com/voxlink/audio-uplink/internal/capture"
	"github.com/voxlink/audio-uplink/internal/config"
	"github.com/voxlink/audio-uplink/internal/pipeline"
	"github.com/voxlink/audio-uplink/internal/secure"
	"github.com/voxlink/audio-uplink/internal/transport"
)

func main() {
	_ = godotenv.Load()

	logger, _ := zap.NewProduction()

	// run carries all the defers; exiting here keeps them intact.
	code := run(logger)
	logger.Sync()
	os.Exit(code)
}

func run(logger *zap.Logger) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Error("failed to load config", zap.Error(err))
		return 1
	}

	if err := transport.ValidateCollectorAddr(cfg.CollectorHost, cfg.CollectorPort, cfg.CollectorPath); err != nil {
		logger.Error("invalid collector address", zap.Error(err))
		return 1
	}

	runID := uuid.NewString()
	logger.Info("audio uplink starting",
		zap.String("runID", runID),
		zap.String("collector", cfg.CollectorHost),
		zap.Int("port", cfg.CollectorPort),
		zap.Stringer("buildMode", secure.CompiledMode()),
	)

	pipe := pipeline.New(cfg.BufferCapacity, logger)
	defer pipe.Close()

	if !pipe.SelfTest() {
		logger.Error("compression self-test failed")
		return 1
	}

	client := transport.NewClient(cfg.CollectorPath, logger)
	configurator := secure.NewConfigurator(secure.CompiledMode(), logger)
	configurator.Setup(client, cfg.DevelopmentTLS)

	ring := capture.NewRing(cfg.SampleRate * cfg.RingSeconds)
	source := capture.NewMixedSource(cfg.SampleRate, cfg.ChunkSamples, time.Now().UnixNano())

	a := agent.New(cfg, logger, configurator, client, pipe, ring, source)

	srv := &http.Server{
		Addr:         cfg.DebugAddr,
		Handler:      a.DebugHandler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 20 * time.Second,
	}

	go func() {
		logger.Info("debug server listening", zap.String("addr", cfg.DebugAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("debug server failed", zap.Error(err))
		}
	}()

	runErr := a.Run(ctx)
	if runErr != nil {
		logger.Error("agent exited with error", zap.Error(runErr))
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)

	if runErr != nil {
		return 1
	}
	return 0
}
