package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdledger/internal/server/handlers"
)

const requestIDHeader = "X-Request-ID"

// Handlers groups the HTTP handler adapters exposed by the router.
type Handlers struct {
	Animals   *handlers.AnimalHandler
	Settings  *handlers.SettingsHandler
	Dashboard *handlers.DashboardHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	animals := api.Group("/animals")
	animals.GET("", h.Animals.List)
	animals.POST("", h.Animals.Create)
	animals.GET("/:id", h.Animals.Get)
	animals.PUT("/:id", h.Animals.Update)
	animals.DELETE("/:id", h.Animals.Delete)
	animals.GET("/:id/costs", h.Animals.ListCosts)
	animals.POST("/:id/costs", h.Animals.AddCost)
	animals.DELETE("/:id/costs/:costId", h.Animals.DeleteCost)

	api.GET("/settings", h.Settings.Get)
	api.PUT("/settings", h.Settings.Update)

	dashboard := api.Group("/dashboard")
	dashboard.GET("/indicators", h.Dashboard.Indicators)
	dashboard.POST("/snapshots", h.Dashboard.CaptureSnapshot)
	dashboard.GET("/snapshots/latest", h.Dashboard.LatestSnapshot)

	api.GET("/export/herd.xlsx", h.Dashboard.ExportHerd)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

// requestIDMiddleware propagates the caller's request id or assigns a new one.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
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
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString("request_id")))
	}
}
