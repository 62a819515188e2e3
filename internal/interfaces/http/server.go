// internal/interfaces/http/server.go
package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/infrastructure/database/postgres"
	"github.com/your-org/storefront-backend/internal/interfaces/http/routes"
)

// Server wraps the HTTP server and its router
type Server struct {
	server *http.Server
	config *config.Config
	log    *logrus.Logger
}

// NewServer builds the router and the configured HTTP server
func NewServer(db *postgres.DB, redisClient *goredis.Client, cfg *config.Config, log *logrus.Logger) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if len(cfg.Security.TrustedProxies) > 0 {
		_ = router.SetTrustedProxies(cfg.Security.TrustedProxies)
	}

	routes.Setup(router, db, redisClient, cfg, log)

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
		config: cfg,
		log:    log,
	}
}

// Start begins serving requests, blocking until shutdown
func (s *Server) Start() error {
	s.log.WithField("port", s.config.Server.Port).Info("HTTP server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
