package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/forkful-app/backend/internal/middleware"
	"github.com/forkful-app/backend/internal/service"
	"github.com/forkful-app/backend/internal/types"
)

type UserHandler struct {
	authService   *service.AuthService
	recipeService *service.RecipeService
}

func NewUserHandler(authService *service.AuthService, recipeService *service.RecipeService) *UserHandler {
	return &UserHandler{
		authService:   authService,
		recipeService: recipeService,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/users/:id", middleware.OptionalAuthMiddleware(h.authService), h.GetProfile)
}

// GetProfile returns a user's public page: their identity plus their public
// recipes, or all of their recipes when viewing themselves.
func (h *UserHandler) GetProfile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	user, err := h.authService.GetUserByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	recipes, err := h.recipeService.ListByOwner(c.Request.Context(), id, middleware.ViewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": types.UserResponse{
			ID:          user.ID,
			DisplayName: user.DisplayName,
			CreatedAt:   user.CreatedAt,
		},
		"recipes": recipes,
	})
}
