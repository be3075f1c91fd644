package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smartbuild-mm/smartbuild_backend/config"
	"github.com/smartbuild-mm/smartbuild_backend/handlers"
	"github.com/smartbuild-mm/smartbuild_backend/middlewares"
	"github.com/smartbuild-mm/smartbuild_backend/models"
)

const defaultPort = "8080"

func customNotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
}

// customErrorLogger logs only requests that attached errors
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			logger.Error(c.Errors.String())
		}
	}
}

func splitAndTrim(csv string) []string {
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func registerRoutes(r *gin.Engine) {
	r.GET("/health", handlers.Health)
	r.POST("/auth/login", handlers.Login)

	api := r.Group("/api", middlewares.RequireAuth())

	api.POST("/auth/logout", handlers.Logout)
	api.GET("/users/me", handlers.Me)
	api.POST("/users", middlewares.RequireAdmin(), handlers.CreateUser)
	api.POST("/admin/cache/clear", middlewares.RequireAdmin(), handlers.ClearCache)

	api.GET("/devices", handlers.ListDevices)
	api.GET("/devices/all", handlers.ListAllDevices)
	api.POST("/devices", handlers.CreateDevice)
	api.GET("/devices/:id", handlers.GetDevice)
	api.PUT("/devices/:id", handlers.UpdateDevice)
	api.DELETE("/devices/:id", handlers.DeleteDevice)
	api.PATCH("/devices/:id/active", handlers.ToggleActiveDevice)

	api.GET("/clients", handlers.ListClients)
	api.POST("/clients", handlers.CreateClient)
	api.GET("/clients/:id", handlers.GetClient)
	api.PUT("/clients/:id", handlers.UpdateClient)
	api.DELETE("/clients/:id", handlers.DeleteClient)
	api.PATCH("/clients/:id/active", handlers.ToggleActiveClient)

	api.GET("/build-systems", handlers.ListBuildSystems)
	api.POST("/build-systems", handlers.CreateBuildSystem)
	api.GET("/build-systems/:id", handlers.GetBuildSystem)
	api.PUT("/build-systems/:id", handlers.UpdateBuildSystem)
	api.DELETE("/build-systems/:id", handlers.DeleteBuildSystem)
	api.POST("/build-systems/:id/clone", handlers.CloneBuildSystem)
	api.PATCH("/build-systems/:id/active", handlers.ToggleActiveBuildSystem)
	api.GET("/build-systems/:id/export", handlers.ExportBuildSystem)
	api.GET("/build-systems/:id/export/excel", handlers.ExportBuildSystemExcel)
	api.POST("/build-systems/:id/locations", handlers.AddBuildSystemLocation)

	api.GET("/projects", handlers.ListProjects)
	api.POST("/projects", handlers.CreateProject)
	api.GET("/projects/:id", handlers.GetProject)
	api.PUT("/projects/:id", handlers.UpdateProject)
	api.DELETE("/projects/:id", handlers.DeleteProject)
	api.PATCH("/projects/:id/active", handlers.ToggleActiveProject)
	api.GET("/projects/:id/plan", handlers.GetProjectPlan)
	api.POST("/projects/:id/plan", handlers.CreateProjectPlan)
	api.PUT("/projects/:id/plan", handlers.UpdateProjectPlan)
	api.DELETE("/projects/:id/plan", handlers.DeleteProjectPlan)
	api.POST("/projects/:id/plan/import", handlers.ImportProjectPlan)

	api.GET("/project-plans", handlers.ListProjectPlans)
	api.PATCH("/project-plans/:id/active", handlers.ToggleActiveProjectPlan)
	api.POST("/project-plans/:id/clone", handlers.CloneProjectPlan)
	api.POST("/project-plans/:id/locations", handlers.AddProjectPlanLocation)

	api.POST("/locations/:id/sub-locations", handlers.AddSubLocation)
	api.POST("/locations/:id/devices", handlers.AddLocationDevices)
	api.DELETE("/locations/:id", handlers.DeleteLocation)

	api.PUT("/device-assignments/:id", handlers.UpdateDeviceAssignment)
	api.DELETE("/device-assignments/:id", handlers.DeleteDeviceAssignment)

	r.NoRoute(customNotFoundHandler)
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	// Cloud Run sends SIGTERM on revision shutdown; handle it for graceful drain.
	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// Start the HTTP server ASAP so the platform considers the revision
	// healthy. Until the DB is ready, app endpoints return 503.
	r := gin.New()
	r.Use(middlewares.CorrelationIdMiddleware())
	r.Use(func(c *gin.Context) {
		if c.Request.URL.Path == "/health" {
			c.Next()
			return
		}
		if config.GetDB() == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})

	corsConfig := cors.DefaultConfig()
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			// Safer default: deny all if not configured in production.
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("Origin", "Content-Type", "Authorization", middlewares.CorrelationIdHeader)
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition")
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	r.Use(middlewares.AuthMiddleware())
	r.Use(customErrorLogger(logger))
	r.Use(gin.Recovery())

	registerRoutes(r)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.ListenAndServe()
	}()

	// Connect dependencies after the port is open.
	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()

	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()
	// AutoMigrate can run DDL that blocks tables; allow running migrations
	// as a separate job instead.
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")), "true") {
		models.MigrateTable()
		if err := models.SeedAdminUser(context.Background()); err != nil {
			logger.WithFields(logrus.Fields{"field": "seed"}).Error("admin seeding failed: " + err.Error())
		}
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}

	logger.WithFields(logrus.Fields{
		"info": "Connection Established",
	}).Info("listening on http://localhost:", port, "/")
	log.Println("Server started successfully")

	// Block until shutdown or server error.
	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}

	if rdb := config.GetRedisDB(); rdb != nil {
		_ = rdb.Close()
	}
}
