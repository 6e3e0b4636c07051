// Package server exposes the assistant over HTTP: the query endpoint backed
// by the intent router, an OpenAI-compatible persona chat endpoint, calendar
// reads and writes, and a websocket channel for interactive clients.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"familyconnect/internal/calendar"
	"familyconnect/internal/llm"
	"familyconnect/internal/logging"
	"familyconnect/internal/observability"
	"familyconnect/internal/persona"
	"familyconnect/internal/router"
	"familyconnect/internal/session"
)

// Config carries the server settings.
type Config struct {
	Host           string
	Port           int
	EnableCORS     bool
	AllowedOrigins []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	Debug          bool
}

// Dependencies bundles the collaborators the HTTP surface exposes. Router and
// Personas are required; the rest are optional and gate their routes.
type Dependencies struct {
	Router   *router.Router
	Personas *persona.Registry
	Store    *calendar.Store
	Sessions *session.Store
	// LLMClient backs the persona chat endpoint. When nil, personas answer
	// from their keyword fallback tables.
	LLMClient llm.Client
	Metrics   *observability.Metrics
}

// Server is the HTTP front of the assistant.
type Server struct {
	cfg        Config
	deps       Dependencies
	engine     *gin.Engine
	httpServer *http.Server
	wsUpgrader websocket.Upgrader
	logger     logging.Logger
	startTime  time.Time
}

// New builds a Server. It does not start listening.
func New(cfg Config, deps Dependencies) (*Server, error) {
	if deps.Router == nil {
		return nil, fmt.Errorf("server requires a router")
	}
	if deps.Personas == nil {
		deps.Personas = persona.NewRegistry()
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 120 * time.Second
	}

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		cfg:    cfg,
		deps:   deps,
		engine: engine,
		wsUpgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger:    logging.NewComponentLogger("HTTPServer"),
		startTime: time.Now(),
	}

	engine.Use(s.requestMiddleware())

	if cfg.EnableCORS {
		corsConfig := cors.DefaultConfig()
		if len(cfg.AllowedOrigins) > 0 {
			corsConfig.AllowOrigins = cfg.AllowedOrigins
		} else {
			corsConfig.AllowAllOrigins = true
		}
		corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
		corsConfig.AllowWebSockets = true
		engine.Use(cors.New(corsConfig))
	}

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      engine,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s, nil
}

func (s *Server) setupRoutes() {
	s.engine.GET("/health", s.handleHealth)
	s.engine.POST("/query", s.handleQuery)
	s.engine.GET("/ws", s.handleWebSocket)

	s.engine.GET("/personas", s.handleListPersonas)
	s.engine.POST("/v1/chat/completions", s.handleChatCompletions)

	if s.deps.Store != nil {
		cal := s.engine.Group("/calendar")
		{
			cal.GET("/birthdays/today", s.handleTodaysBirthdays)
			cal.GET("/events/upcoming", s.handleUpcomingEvents)
			cal.POST("/events", s.handleAddEvent)
		}
	}

	if s.deps.Sessions != nil {
		sessions := s.engine.Group("/sessions")
		{
			sessions.POST("", s.handleCreateSession)
			sessions.GET("", s.handleListSessions)
			sessions.GET("/:id", s.handleGetSession)
			sessions.DELETE("/:id", s.handleDeleteSession)
		}
	}

	if s.deps.Metrics != nil {
		s.engine.GET("/metrics", gin.WrapH(s.deps.Metrics.Handler()))
	}
}

// Handler exposes the underlying engine for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("Shutting down")
	return s.httpServer.Shutdown(shutdownCtx)
}

// requestMiddleware logs each request and feeds the duration histogram.
func (s *Server) requestMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		s.logger.Debug("%s %s -> %d (%s)", c.Request.Method, route, c.Writer.Status(), elapsed)
		if s.deps.Metrics != nil {
			s.deps.Metrics.ObserveHTTPRequest(c.Request.Context(), route, c.Request.Method, c.Writer.Status(), elapsed.Seconds())
		}
	}
}
