package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/janhq/ai-gateway/internal/config"
	"github.com/janhq/ai-gateway/internal/domain/provider"
	"github.com/janhq/ai-gateway/internal/infrastructure"
	middleware "github.com/janhq/ai-gateway/internal/interfaces/httpserver/middlewares"
	"github.com/janhq/ai-gateway/internal/interfaces/httpserver/requests"
	"github.com/janhq/ai-gateway/internal/interfaces/httpserver/routes"
)

type HTTPServer struct {
	engine       *gin.Engine
	infra        *infrastructure.Infrastructure
	gatewayRoute *routes.GatewayRoute
	directory    *provider.Directory
	config       *config.Config
}

func NewHttpServer(
	gatewayRoute *routes.GatewayRoute,
	directory *provider.Directory,
	infra *infrastructure.Infrastructure,
	cfg *config.Config,
) *HTTPServer {
	gin.SetMode(gin.ReleaseMode)
	requests.RegisterJSONFieldNames()

	server := &HTTPServer{
		engine:       gin.New(),
		infra:        infra,
		gatewayRoute: gatewayRoute,
		directory:    directory,
		config:       cfg,
	}
	server.engine.Use(middleware.RequestContext(infra.Logger))
	server.engine.Use(middleware.Recovery(infra.Logger))
	server.engine.Use(middleware.TracingMiddleware(cfg.ServiceName))
	server.engine.Use(middleware.LoggingMiddleware(infra.Logger))
	server.engine.Use(middleware.MetricsMiddleware())
	server.engine.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	server.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	server.engine.GET("/readyz", server.ready)
	server.engine.GET("/v1/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":     cfg.ServiceName,
			"version":     cfg.ServiceVersion,
			"environment": cfg.Environment,
		})
	})

	api := server.engine.Group("/")
	api.Use(middleware.RateLimitMiddleware(cfg.RateLimitPerMin, infra.Logger))
	server.gatewayRoute.RegisterRouter(api)

	return server
}

// ready reports which capabilities can serve requests. The gateway is ready
// even with nothing configured: those requests get setup instructions.
func (s *HTTPServer) ready(c *gin.Context) {
	capabilities := make(map[string]bool, len(provider.Capabilities()))
	for _, capability := range provider.Capabilities() {
		status, err := s.directory.Status(c.Request.Context(), string(capability))
		capabilities[string(capability)] = err == nil && status.HasAnyConfigured
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "capabilities": capabilities})
}

// Handler exposes the engine for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then drains in-flight requests for up
// to SHUTDOWN_TIMEOUT. Requests still running after that, usually chat
// streams, have their context cancelled.
func (s *HTTPServer) Run(ctx context.Context) error {
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()

	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", s.config.HTTPPort),
		Handler:     s.engine,
		BaseContext: func(net.Listener) context.Context { return baseCtx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.infra.Logger.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.infra.Logger.Warn().Err(err).Msg("drain timed out, cancelling remaining requests")
		cancelBase()
		if closeErr := srv.Close(); closeErr != nil {
			return fmt.Errorf("close http server: %w", closeErr)
		}
	}
	return <-errCh
}
