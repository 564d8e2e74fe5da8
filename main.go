// File: pawdispatch/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"pawdispatch/clients/marketplace"
	"pawdispatch/config"
	"pawdispatch/handlers"
	"pawdispatch/middleware"
	"pawdispatch/routes"
	"pawdispatch/services/dispatch"
	"pawdispatch/services/notification"
	"pawdispatch/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	utils.InitAlertCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	backend := marketplace.NewClient(config.AppConfig.BackendBaseURL, config.AppConfig.BackendTimeout)
	alertStore := dispatch.NewRedisAlertStore(utils.GetAlertCacheClient())
	notifier := notification.NewInboxNotifier(logger)

	engine := dispatch.NewEngine(dispatch.OptionsFromConfig(), backend, alertStore, notifier, logger)
	dispatchHandler := handlers.NewDispatchHandler(engine, notifier, logger)

	// Register routes.
	routes.RegisterRoutes(router, dispatchHandler)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8081"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
