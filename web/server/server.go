package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-bvh-pathtracer/pkg/log"
	"github.com/df07/go-bvh-pathtracer/pkg/scene"
)

var logger = log.New("server")

// Config holds the server's listen port and request limits
type Config struct {
	Port       int
	ScenesDir  string // Directory scanned for JSON scene files
	MaxWidth   int    // Largest accepted image width
	MaxSamples int    // Largest accepted samples per pixel
}

// DefaultConfig returns the settings used when flags are not given
func DefaultConfig() Config {
	return Config{
		Port:       8080,
		ScenesDir:  "scenes",
		MaxWidth:   2000,
		MaxSamples: 10000,
	}
}

// Server handles web requests for the path tracer
type Server struct {
	cfg  Config
	echo *echo.Echo
}

// NewServer creates a new web server. Zero limits fall back to DefaultConfig.
func NewServer(cfg Config) *Server {
	defaults := DefaultConfig()
	if cfg.MaxWidth <= 0 {
		cfg.MaxWidth = defaults.MaxWidth
	}
	if cfg.MaxSamples <= 0 {
		cfg.MaxSamples = defaults.MaxSamples
	}

	s := &Server{cfg: cfg, echo: echo.New()}
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Use(requestLogger, corsMiddleware)

	s.echo.GET("/api/health", s.handleHealth)
	s.echo.GET("/api/scenes", s.handleScenes)
	s.echo.GET("/api/render", s.handleRender)
	s.echo.GET("/api/render/ws", s.handleRenderStream)
	s.echo.GET("/api/inspect", s.handleInspect)
	return s
}

// Handler exposes the routes, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on the configured port until the server fails
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	logger.Noticef("starting web server on http://localhost%s", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		logger.Infof("%s %s -> %d", c.Request().Method, c.Request().URL.RequestURI(), c.Response().Status)
		return nil
	}
}

func corsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Access-Control-Allow-Origin", "*")
		c.Response().Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Response().Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")

		if c.Request().Method == http.MethodOptions {
			return c.NoContent(http.StatusOK)
		}

		return next(c)
	}
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in and file scenes by group
func (s *Server) handleScenes(c echo.Context) error {
	response, err := scene.ListAllScenes(s.cfg.ScenesDir)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, response)
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}
