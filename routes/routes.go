package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"pawdispatch/handlers"
	"pawdispatch/middleware"
)

// RegisterDispatchRoutes sets up the endpoints for the dispatch engine.
func RegisterDispatchRoutes(r *gin.Engine, h *handlers.DispatchHandler) {
	api := r.Group("/api/dispatch")
	{
		api.Use(middleware.BearerTokenMiddleware())
		api.POST("/session", h.OpenSession)
		api.DELETE("/session/:sessionID", h.CloseSession)
		api.PUT("/session/:sessionID/location", h.UpdateLocation)
		api.GET("/session/:sessionID/worklist", h.Worklist)
		api.GET("/session/:sessionID/alerts", h.Alerts)
		api.GET("/session/:sessionID/notifications", h.Notifications)
		api.POST("/session/:sessionID/refresh", h.Refresh)
		api.POST("/session/:sessionID/bookings/:id/accept", h.Accept)
		api.POST("/session/:sessionID/bookings/:id/reject", h.Reject)
		api.POST("/session/:sessionID/bookings/:id/complete", h.Complete)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Pawdispatch"})
	})
}

// RegisterRoutes wires CORS plus every route group.
func RegisterRoutes(r *gin.Engine, h *handlers.DispatchHandler) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterDispatchRoutes(r, h)
}
