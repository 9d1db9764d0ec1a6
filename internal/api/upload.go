package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/forkful-app/backend/internal/middleware"
	"github.com/forkful-app/backend/internal/service"
)

type UploadHandler struct {
	imageService *service.ImageService
	authService  *service.AuthService
}

func NewUploadHandler(imageService *service.ImageService, authService *service.AuthService) *UploadHandler {
	return &UploadHandler{
		imageService: imageService,
		authService:  authService,
	}
}

func (h *UploadHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/uploads", middleware.AuthMiddleware(h.authService), h.Upload)
}

// Upload accepts a single multipart image file and returns the stored path
// for the client to attach to a recipe.
func (h *UploadHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}

	stored, err := h.imageService.Upload(c.Request.Context(), file)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"ok":   true,
		"path": stored.Path,
		"size": stored.Size,
		"mime": stored.Mime,
	})
}
