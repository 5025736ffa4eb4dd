package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mbaye/wacloud/internal/server/handlers"
)

// New wires a fresh Gin engine with required routes and middlewares.
func New(handler *handlers.WebhookHandler, webhookPath string, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	Mount(r, handler, webhookPath, logger)

	return r
}

// Mount attaches the webhook routes to a caller-owned engine, for embedders
// that already run their own HTTP application. The verification route is only
// registered when the handler was configured with a verify token.
func Mount(r *gin.Engine, handler *handlers.WebhookHandler, webhookPath string, logger *zap.Logger) {
	if webhookPath == "" {
		webhookPath = "/webhook/whatsapp"
	}

	if handler.VerifyEnabled() {
		r.GET(webhookPath, handler.Verify)
	}
	r.POST(webhookPath, handler.Receive)
	r.POST("/send-message", handler.SendMessage)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized", zap.String("webhook_path", webhookPath))
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
