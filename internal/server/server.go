// Package server exposes the projection engine over a small JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/rgehrsitz/sipgo/internal/cache"
	"github.com/rgehrsitz/sipgo/internal/calculation"
	"github.com/rgehrsitz/sipgo/internal/config"
	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

// Server serves projections and comparisons. Cache may be nil.
type Server struct {
	Engine   *calculation.CalculationEngine
	Parser   *config.InputParser
	Cache    cache.Cache
	CacheTTL time.Duration
	Timeout  time.Duration // per-request calculation budget
	Log      zerolog.Logger
	NewID    func() string

	srv    *fasthttp.Server
	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a server around engine with default limits
func NewServer(engine *calculation.CalculationEngine, log zerolog.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		Engine:   engine,
		Parser:   config.NewInputParser(),
		CacheTTL: 10 * time.Minute,
		Timeout:  30 * time.Second,
		Log:      log,
		NewID:    uuid.NewString,
		ctx:      ctx,
		cancel:   cancel,
	}
	s.srv = &fasthttp.Server{
		Handler:            s.Handler(),
		Name:               "sipgo",
		ReadTimeout:        10 * time.Second,
		WriteTimeout:       10 * time.Second,
		MaxRequestBodySize: 1 << 20,
	}
	return s
}

// ListenAndServe serves HTTP on addr until Shutdown is called
func (s *Server) ListenAndServe(addr string) error {
	s.Log.Info().Str("addr", addr).Msg("sipgo server listening")
	return s.srv.ListenAndServe(addr)
}

// Serve serves HTTP on an existing listener
func (s *Server) Serve(ln net.Listener) error {
	return s.srv.Serve(ln)
}

// Shutdown stops accepting connections and cancels in-flight calculations
func (s *Server) Shutdown() error {
	s.cancel()
	return s.srv.Shutdown()
}

// Handler returns the routed, request-logging handler
func (s *Server) Handler() fasthttp.RequestHandler {
	return s.logRequests(s.route)
}

func (s *Server) route(ctx *fasthttp.RequestCtx) {
	switch string(ctx.Path()) {
	case "/healthz":
		if !ctx.IsGet() {
			writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
	case "/v1/projections":
		if !ctx.IsPost() {
			writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		s.handleProjections(ctx)
	case "/v1/compare":
		if !ctx.IsPost() {
			writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		s.handleCompare(ctx)
	case "/v1/templates":
		if !ctx.IsGet() {
			writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		s.handleTemplates(ctx)
	default:
		writeError(ctx, fasthttp.StatusNotFound, "Not found: "+string(ctx.Path()))
	}
}

func (s *Server) logRequests(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		next(ctx)

		status := ctx.Response.StatusCode()
		event := s.Log.Info()
		if status >= fasthttp.StatusInternalServerError {
			event = s.Log.Error()
		} else if status >= fasthttp.StatusBadRequest {
			event = s.Log.Warn()
		}
		event.
			Str("method", string(ctx.Method())).
			Str("path", string(ctx.Path())).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}

// requestContext bounds a calculation by the server lifetime and the request budget
func (s *Server) requestContext() (context.Context, context.CancelFunc) {
	if s.Timeout <= 0 {
		return context.WithCancel(s.ctx)
	}
	return context.WithTimeout(s.ctx, s.Timeout)
}

// engineFor clones the server engine with the plan's overrides and a fixed as-of instant
func (s *Server) engineFor(cfg *domain.Configuration, asOf time.Time) *calculation.CalculationEngine {
	eng := *s.Engine
	eng.Settings = cfg.Engine.Apply(s.Engine.Settings)
	eng.Clock = func() time.Time { return asOf }
	return &eng
}

func (s *Server) asOf(requested *domain.Date) time.Time {
	if requested != nil && !requested.IsZero() {
		return requested.Time
	}
	return s.Engine.Now()
}

func (s *Server) prepare(cfg *domain.Configuration) error {
	s.Parser.ApplyDefaults(cfg)
	return s.Parser.ValidateConfiguration(cfg)
}

func statusFor(err error) int {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fasthttp.StatusServiceUnavailable
	}
	return fasthttp.StatusInternalServerError
}
