package api

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"aegisd/internal/api/handlers"
	"aegisd/internal/api/middleware"
	"aegisd/internal/config"
	"aegisd/internal/store"
	"aegisd/internal/token"
	"aegisd/internal/version"
)

type Server struct {
	Router *gin.Engine
	DB     *pgxpool.Pool
	Config config.Config

	Activations store.ActivationStore
	Logs        store.LogStore
	Tokens      *token.Issuer
}

func NewServer(cfg config.Config, db *pgxpool.Pool, activations store.ActivationStore, logs store.LogStore) *Server {
	r := gin.Default()

	if len(cfg.TrustedProxies) > 0 {
		r.SetTrustedProxies(cfg.TrustedProxies)
	}

	server := &Server{
		Router:      r,
		DB:          db,
		Config:      cfg,
		Activations: activations,
		Logs:        logs,
		Tokens:      token.NewIssuer([]byte(cfg.TokenSecret), cfg.TokenTTL()),
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	adminRateLimiter := middleware.RateLimitMiddleware(s.Config.RateLimitAdmin)
	publicRateLimiter := middleware.RateLimitMiddleware(s.Config.RateLimitPublic)

	// Public routes
	s.Router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "aegis-license-server", "version": version.Version})
	})

	// Activation endpoints
	s.Router.POST("/activate", publicRateLimiter, handlers.ActivateHandler(s.Activations, s.Tokens, s.Logs))
	s.Router.POST("/check_status", publicRateLimiter, handlers.CheckStatusHandler(s.Activations, s.Tokens, s.Logs))

	// Protected operator routes
	authorized := s.Router.Group("/")
	authorized.Use(adminRateLimiter)
	authorized.Use(middleware.JWTAuth(s.Config))
	{
		authorized.POST("/admin/licenses", handlers.ProvisionHandler(s.Activations))
		authorized.GET("/admin/licenses", handlers.ListActivationsHandler(s.Activations))
		authorized.DELETE("/admin/licenses", handlers.RevokeHandler(s.Activations))
		authorized.POST("/admin/licenses/release", handlers.ReleaseHandler(s.Activations))

		authorized.GET("/admin/logs", handlers.GetActivationLogsHandler(s.Logs))
	}
}
