package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"

	httpapi "github.com/hb-chen/skillrun/internal/api/http"
	"github.com/hb-chen/skillrun/internal/config"
	"github.com/hb-chen/skillrun/internal/skill"
	"github.com/hb-chen/skillrun/pkg/grpc/gateway"
	"github.com/hb-chen/skillrun/pkg/logger"
)

// Serve starts the HTTP API server and blocks until ctx is cancelled.
func Serve(ctx context.Context, cfg *config.Config, rt *skill.Runtime) error {
	gw := gateway.New(
		runtime.WithErrorHandler(httpErrorHandler),
	)

	handlers := httpapi.NewHandlers(rt, int64(cfg.Exec.MaxConcurrent))

	v1 := gw.Group("/api/v1")
	v1.GET("/skills", handlers.FindSkills)
	v1.GET("/skills/{name}", handlers.GetSkill)
	v1.GET("/skills/{name}/instructions", handlers.GetInstructions)
	v1.POST("/skills/{name}/execute", handlers.ExecuteSkill)

	if err := gw.Mux().HandlePath("GET", "/health", handlers.HealthCheck); err != nil {
		return fmt.Errorf("failed to register health endpoint: %w", err)
	}

	srv := &http.Server{
		Addr:    cfg.Server.HTTP.Addr,
		Handler: accessLogMiddleware(gw),
	}

	logger.Infof("HTTP server listening on %s", cfg.Server.HTTP.Addr)

	go func() {
		<-ctx.Done()
		logger.Info("Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

// httpErrorHandler handles errors from grpc-gateway
func httpErrorHandler(_ context.Context, _ *runtime.ServeMux, marshaler runtime.Marshaler, w http.ResponseWriter, r *http.Request, err error) {
	logger.Errorf("HTTP error: %v, path: %s", err, r.URL.Path)
	runtime.DefaultHTTPErrorHandler(context.Background(), nil, marshaler, w, r, err)
}

// accessLogMiddleware logs each request with its duration.
func accessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Infof("%s %s %v", r.Method, r.URL.Path, time.Since(start))
	})
}
