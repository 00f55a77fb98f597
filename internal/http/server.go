package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/statutelabs/statuted/internal/auditlog"
	"github.com/statutelabs/statuted/internal/clarify"
	"github.com/statutelabs/statuted/internal/session"
)

// Config holds HTTP server configuration.
type Config struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`

	// RateLimit is requests per second per client IP. Zero disables
	// rate limiting.
	RateLimit float64 `koanf:"rate_limit"`

	// RateBurst is the per-IP burst allowance. Default: 2x RateLimit.
	RateBurst int `koanf:"rate_burst"`
}

// ApplyDefaults fills zero values with sane defaults.
func (c *Config) ApplyDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.RateBurst == 0 && c.RateLimit > 0 {
		c.RateBurst = int(c.RateLimit * 2)
	}
}

// Server serves the query API.
type Server struct {
	echo     *echo.Echo
	manager  *clarify.Manager
	sessions *session.Store
	audit    auditlog.Recorder
	logger   *zap.Logger
	config   Config
	version  string
}

// NewServer creates the API server over the clarification manager.
func NewServer(manager *clarify.Manager, sessions *session.Store, audit auditlog.Recorder, logger *zap.Logger, cfg Config) (*Server, error) {
	if manager == nil {
		return nil, fmt.Errorf("clarification manager is required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if audit == nil {
		audit = auditlog.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.ApplyDefaults()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))
	if cfg.RateLimit > 0 {
		e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(cfg.RateLimit),
				Burst:     cfg.RateBurst,
				ExpiresIn: 3 * time.Minute,
			},
		)))
	}

	s := &Server{
		echo:     e,
		manager:  manager,
		sessions: sessions,
		audit:    audit,
		logger:   logger,
		config:   cfg,
	}
	s.registerRoutes()

	return s, nil
}

// SetVersion sets the version string reported by GET /health.
func (s *Server) SetVersion(v string) { s.version = v }

// SetMetrics installs request metrics middleware.
func (s *Server) SetMetrics(m *Metrics) {
	if m != nil {
		s.echo.Use(m.Middleware())
	}
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	}
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.echo.Group("/api/v1")
	v1.POST("/query", s.handleQuery)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:   "ok",
		Version:  s.version,
		Sessions: s.sessions.Len(),
	})
}

// handleQuery resolves a question within a session. Clarification
// round-trips and direct answers share this endpoint; the client tells
// them apart by requires_clarification.
func (s *Server) handleQuery(c echo.Context) error {
	var req QueryRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid query request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	res, err := s.manager.Resolve(c.Request().Context(), req.Question, req.SessionID)
	if err != nil {
		if errors.Is(err, clarify.ErrEmptyQuestion) {
			return echo.NewHTTPError(http.StatusBadRequest, "question field is required")
		}
		s.logger.Error("query resolution failed",
			zap.String("session_id", req.SessionID),
			zap.Error(err),
		)
		s.recordAudit(req, res, "error")
		return echo.NewHTTPError(http.StatusBadGateway, "answer generation failed")
	}

	resp := QueryResponse{
		SessionID:             res.SessionID,
		RequiresClarification: res.RequiresClarification,
		ClarificationQuestion: res.ClarificationQuestion,
		PendingQuestion:       res.PendingQuestion,
	}
	outcome := "clarification"
	if res.Answer != nil {
		resp.Answer = res.Answer.Text
		resp.Sources = res.Answer.Sources
		outcome = "answered"
	}
	s.recordAudit(req, res, outcome)

	return c.JSON(http.StatusOK, resp)
}

func (s *Server) recordAudit(req QueryRequest, res *clarify.Resolution, outcome string) {
	rec := auditlog.Record{
		SessionID: req.SessionID,
		Question:  req.Question,
		Outcome:   outcome,
	}
	if res != nil {
		rec.SessionID = res.SessionID
		rec.ResolvedQuestion = res.ResolvedQuestion
		rec.ClarificationQuestion = res.ClarificationQuestion
		if res.Answer != nil {
			rec.AnswerLength = len(res.Answer.Text)
			for src := range res.Answer.Sources {
				rec.Sources = append(rec.Sources, src)
			}
		}
	}
	s.audit.Record(rec)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
