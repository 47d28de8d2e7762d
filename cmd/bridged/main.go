package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/voicebridge/internal/bridge"
	"github.com/dkeye/voicebridge/internal/config"
	"github.com/dkeye/voicebridge/internal/httpapi"
	"github.com/dkeye/voicebridge/internal/pool"
)

func main() {
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	b := bridge.New(bridge.Config{
		LoadSampleInterval:    cfg.LoadSampleInterval,
		LoadedThreshold:       cfg.LoadedThreshold,
		RecoveryThreshold:     cfg.RecoveryThreshold,
		MinAnnouncementWindow: cfg.MinAnnouncementWindow,
		ForceExitDelay:        cfg.ForceExitDelay,
		InitialDrainMode:      cfg.InitialDrainMode,
	})
	b.Install(pool.NewBufferPool())
	b.Start(ctx)

	r := httpapi.NewRouter(cfg.Mode, b.Debug, b)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("voicebridge control plane started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	// SIGQUIT forces immediate exit. SIGINT/SIGTERM requests a graceful
	// shutdown; a second SIGINT/SIGTERM while that is still in progress
	// escalates to force, mirroring the familiar "press twice to force
	// quit" convention.
	sig := <-sigCh
	if sig == syscall.SIGQUIT {
		log.Warn().Msg("SIGQUIT received, forcing shutdown")
		b.RequestShutdown(false)
		return
	}

	log.Info().Msg("shutting down")
	cancel()
	b.RequestShutdown(true)

	go func() {
		sig := <-sigCh
		log.Warn().Str("signal", sig.String()).Msg("second signal received, forcing shutdown")
		b.RequestShutdown(false)
	}()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	b.Stop()
	log.Info().Msg("voicebridge exited gracefully")
}
