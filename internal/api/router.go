package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kritsadaw/asklaw/internal/api/admin"
	"github.com/kritsadaw/asklaw/internal/api/chat"
	"github.com/kritsadaw/asklaw/internal/api/middleware"
	"github.com/kritsadaw/asklaw/internal/repository"
	"github.com/kritsadaw/asklaw/internal/service"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	APIKey       string
	AllowOrigins []string
}

// SetupRouter sets up the Gin router
func SetupRouter(
	chatService *service.ChatService,
	sessionRepo *repository.SessionRepository,
	logger *zap.Logger,
	cfg RouterConfig,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS(cfg.AllowOrigins))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Chat API (public)
	chatHandler := chat.NewHandler(chatService, logger)
	chatGroup := r.Group("/api")
	chatHandler.RegisterRoutes(chatGroup)

	// Admin API (requires API key)
	if sessionRepo != nil {
		adminHandler := admin.NewHandler(sessionRepo)
		adminGroup := r.Group("/api/admin")
		adminGroup.Use(middleware.Auth(cfg.APIKey))
		adminHandler.RegisterRoutes(adminGroup)
	}

	return r
}
