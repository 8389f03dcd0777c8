// Command voicedetectd runs the voice detection HTTP service.
//
// Usage:
//
//	voicedetectd [-config config.yaml]
//
// Configuration is layered: built-in defaults, then the optional YAML
// file, then VOICEDETECT_* environment variables. The log level comes
// from LOG_LEVEL. The server shuts down gracefully on SIGINT or SIGTERM.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/adhith25/ai-voice-detector/internal/config"
	"github.com/adhith25/ai-voice-detector/internal/logging"
	"github.com/adhith25/ai-voice-detector/internal/server"
	"github.com/adhith25/ai-voice-detector/voice/decision"
	"github.com/adhith25/ai-voice-detector/voice/feature"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Error("configuration failed", "error", err)
		os.Exit(1)
	}

	extractor, err := feature.NewExtractor(cfg.Detector.FeatureConfig())
	if err != nil {
		logging.Error("extractor setup failed", "error", err)
		os.Exit(1)
	}
	engine, err := decision.NewEngine(cfg.Detector.DecisionConfig())
	if err != nil {
		logging.Error("engine setup failed", "error", err)
		os.Exit(1)
	}

	srv := server.New(extractor, engine,
		server.WithAddr(cfg.Addr()),
		server.WithLimits(cfg.Limits.Waveform()),
		server.WithReadTimeout(cfg.ReadTimeout()),
		server.WithWriteTimeout(cfg.WriteTimeout()),
		server.WithMaxBodyBytes(cfg.MaxBodyBytes),
		server.WithLogger(logging.Logger()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logging.Info("listening", "addr", cfg.Addr())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logging.Info("shutting down")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("server failed", "error", err)
			os.Exit(1)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("shutdown failed", "error", err)
		os.Exit(1)
	}
	logging.Info("stopped")
}
