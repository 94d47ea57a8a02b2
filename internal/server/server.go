package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/savorista/backend/config"
	"github.com/savorista/backend/internal/api"
	"github.com/savorista/backend/internal/middleware"
)

// Server wires the HTTP surface: health check, API-key protected v1 group
// and the generation endpoint with its rate limiter.
type Server struct {
	engine *gin.Engine
	http   *http.Server
}

// New builds the router. limiter may be nil when Redis is unavailable;
// generation then runs unthrottled.
func New(cfg *config.Config, handler *api.RecipeHandler, limiter *middleware.RateLimiter) *Server {
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery())

	engine.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-API-Key"},
		ExposeHeaders:    []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	engine.GET("/health", api.Health)

	// An empty key can never match a header, so the whole group rejects
	// every request until API_KEY is set. Allowed outside production, but
	// worth shouting about.
	if cfg.APIKey == "" {
		log.Println("WARNING: API_KEY is not set, all /api/v1 requests will be rejected with 401")
	}

	v1 := engine.Group("/api/v1")
	v1.Use(middleware.APIKeyAuth(cfg.APIKey))
	{
		v1.GET("/ping", api.Ping)

		generate := v1.Group("")
		if limiter != nil {
			generate.Use(limiter.Middleware())
		}
		generate.POST("/generate-recipe", handler.GenerateRecipe)

		v1.GET("/drafts/:slug", handler.GetDraft)
		v1.DELETE("/drafts/:slug", handler.DeleteDraft)
	}

	return &Server{
		engine: engine,
		http: &http.Server{
			Addr: fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
			// Generation holds the connection open for up to seven
			// 60-second upstream calls.
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 10 * time.Minute,
			Handler:      engine,
		},
	}
}

// Engine exposes the router for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Start blocks serving requests until Shutdown or a listen error.
func (s *Server) Start() error {
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests within the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
