package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/forkful-app/backend/internal/api"
	"github.com/forkful-app/backend/internal/middleware"
)

// Options carries the handlers and switches SetupRouter wires together.
type Options struct {
	AuthHandler   *api.AuthHandler
	RecipeHandler *api.RecipeHandler
	UserHandler   *api.UserHandler
	UploadHandler *api.UploadHandler

	CORSOrigins []string
	// StaticUploadsDir, when non-empty, serves stored images at /uploads.
	StaticUploadsDir string
}

// SetupRouter configures the application routes
func SetupRouter(opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.CORS(opts.CORSOrigins))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if opts.StaticUploadsDir != "" {
		router.Static("/uploads", opts.StaticUploadsDir)
	}

	v1 := router.Group("/api/v1")
	opts.AuthHandler.RegisterRoutes(v1)
	opts.RecipeHandler.RegisterRoutes(v1)
	opts.UserHandler.RegisterRoutes(v1)
	opts.UploadHandler.RegisterRoutes(v1)

	return router
}
