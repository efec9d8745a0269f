package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/server/handlers"
)

// Handlers groups the route handlers. Webhook is nil when WhatsApp is not
// configured.
type Handlers struct {
	Herd      *handlers.HerdHandler
	Alerts    *handlers.AlertHandler
	Milk      *handlers.MilkHandler
	Finance   *handlers.FinanceHandler
	Dashboard *handlers.DashboardHandler
	Webhook   *handlers.WebhookHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, verifier handlers.TokenVerifier, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api", handlers.RequireAuth(verifier, logger.Named("auth")))

	api.GET("/animals", h.Herd.ListAnimals)
	api.POST("/animals", h.Herd.CreateAnimal)
	api.GET("/animals/:id", h.Herd.GetAnimal)
	api.PUT("/animals/:id", h.Herd.UpdateAnimal)
	api.DELETE("/animals/:id", h.Herd.DeleteAnimal)
	api.POST("/animals/:id/calvings", h.Herd.RecordCalving)
	api.POST("/animals/:id/vaccinations", h.Herd.RecordVaccination)
	api.DELETE("/animals/:id/vaccinations/:list/:index", h.Herd.RemoveVaccination)

	api.GET("/feed", h.Herd.ListFeed)
	api.POST("/feed", h.Herd.RecordFeed)

	api.GET("/profile", h.Herd.GetProfile)
	api.PUT("/profile", h.Herd.UpdateProfile)

	api.GET("/alerts", h.Alerts.Timeline)
	api.POST("/alerts", h.Alerts.Create)
	api.POST("/alerts/:id/conclude", h.Alerts.Conclude)
	api.DELETE("/alerts/:id", h.Alerts.Delete)

	api.GET("/milk", h.Milk.Overview)
	api.POST("/milk/individual", h.Milk.RecordIndividual)
	api.POST("/milk/herd-total", h.Milk.RecordHerdTotal)
	api.DELETE("/milk/:id", h.Milk.Delete)

	api.GET("/finance", h.Finance.Ledger)
	api.GET("/finance/categories", h.Finance.Categories)
	api.POST("/finance", h.Finance.Record)
	api.DELETE("/finance/:id", h.Finance.Delete)

	api.GET("/dashboard", h.Dashboard.Snapshot)
	api.GET("/dashboard/digest", h.Dashboard.Digest)
	api.GET("/dashboard/history", h.Dashboard.History)

	if h.Webhook != nil {
		r.GET("/webhook", h.Webhook.Verify)
		r.POST("/webhook", h.Webhook.Receive)
		api.POST("/send-message", h.Webhook.SendMessage)
	}

	logger.Info("router initialized", zap.Int("routes", len(r.Routes())))
	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
