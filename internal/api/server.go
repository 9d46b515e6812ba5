package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rshade/cbamcalc/internal/logging"
)

// Server timeouts.
const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// RequestIDHeader carries the trace ID of a request in both directions.
const RequestIDHeader = "X-Request-ID"

// NewRouter builds the gin engine with recovery, request logging and the
// calculator routes mounted at the root.
func NewRouter(h *Handler, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))
	h.RegisterRoutes(&r.RouterGroup)
	return r
}

// requestLogger attaches logger and a trace ID to every request context and
// logs the outcome. An incoming X-Request-ID is reused as the trace ID.
func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	log := logging.ComponentLogger(logger, "api")

	return func(c *gin.Context) {
		start := time.Now()

		traceID := c.GetHeader(RequestIDHeader)
		if traceID == "" {
			traceID = logging.GetOrGenerateTraceID(c.Request.Context())
		}
		ctx := logging.ContextWithTraceID(c.Request.Context(), traceID)
		ctx = logger.WithContext(ctx)
		c.Request = c.Request.WithContext(ctx)
		c.Header(RequestIDHeader, traceID)

		c.Next()

		status := c.Writer.Status()
		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.Ctx(ctx).
			Str("trace_id", traceID).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Msg("request handled")
	}
}

// Serve runs handler on addr until ctx is cancelled, then shuts down
// gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	log := logging.FromContext(ctx)

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Ctx(ctx).
			Str("component", "api").
			Str("addr", addr).
			Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving on %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	log.Info().Ctx(ctx).Str("component", "api").Msg("server stopped")
	return nil
}
