package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/janhq/ai-gateway/internal/config"
	"github.com/janhq/ai-gateway/internal/infrastructure/logger"
	"github.com/janhq/ai-gateway/internal/infrastructure/metrics"
	"github.com/janhq/ai-gateway/internal/infrastructure/observability"
	"github.com/janhq/ai-gateway/internal/interfaces/httpserver"
)

type Application struct {
	httpServer *httpserver.HTTPServer
	config     *config.Config
	logger     zerolog.Logger
}

// Start runs the gateway, the metrics listener and pprof until ctx is
// cancelled or one of them fails.
func (application *Application) Start(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		return application.httpServer.Run(ctx)
	})
	eg.Go(func() error {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		return serve(ctx, &http.Server{Addr: fmt.Sprintf(":%d", application.config.MetricsPort), Handler: mux})
	})
	if application.config.PprofAddr != "" {
		eg.Go(func() error {
			return serve(ctx, &http.Server{Addr: application.config.PprofAddr, Handler: http.DefaultServeMux})
		})
	}

	return eg.Wait()
}

func serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("listen %s: %w", srv.Addr, err)
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := CreateApplication()
	if err != nil {
		log := logger.GetLogger()
		log.Fatal().Err(err).Msg("create application")
	}
	log := application.logger

	otelShutdown, err := observability.Setup(ctx, application.config, log)
	if err != nil {
		log.Error().Err(err).Msg("initialize observability")
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := otelShutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("shutdown telemetry")
			}
		}()
	}

	log.Info().
		Str("version", application.config.ServiceVersion).
		Str("environment", application.config.Environment).
		Int("http_port", application.config.HTTPPort).
		Msg("starting ai gateway")

	if err := application.Start(ctx); err != nil {
		log.Error().Err(err).Msg("gateway stopped")
		os.Exit(1)
	}
	log.Info().Msg("gateway stopped")
}
