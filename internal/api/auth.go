package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/forkful-app/backend/internal/middleware"
	"github.com/forkful-app/backend/internal/model"
	"github.com/forkful-app/backend/internal/service"
	"github.com/forkful-app/backend/internal/types"
)

type AuthHandler struct {
	authService *service.AuthService
	rateLimiter *middleware.RateLimiter
}

func NewAuthHandler(authService *service.AuthService, rateLimiter *middleware.RateLimiter) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		rateLimiter: rateLimiter,
	}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		limited := auth.Group("")
		if h.rateLimiter != nil {
			limited.Use(h.rateLimiter.Middleware())
		}
		limited.POST("/register", h.Register)
		limited.POST("/login", h.Login)

		auth.POST("/logout", middleware.AuthMiddleware(h.authService), h.Logout)
		auth.GET("/me", middleware.OptionalAuthMiddleware(h.authService), h.Me)
	}

	router.PUT("/profile", middleware.AuthMiddleware(h.authService), h.UpdateProfile)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.authService.Register(c.Request.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":  userResponse(user),
		"token": token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  userResponse(user),
		"token": token,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if v, exists := c.Get(middleware.ContextClaims); exists {
		if claims, ok := v.(*types.TokenClaims); ok {
			// Best effort; the client discards the token regardless.
			_ = h.authService.RevokeToken(c.Request.Context(), claims)
		}
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *AuthHandler) Me(c *gin.Context) {
	viewerID := middleware.ViewerID(c)
	if viewerID == nil {
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}

	user, err := h.authService.GetUserByID(c.Request.Context(), *viewerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userResponse(user)})
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req types.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	viewerID := middleware.ViewerID(c)
	user, err := h.authService.UpdateDisplayName(c.Request.Context(), *viewerID, req.DisplayName)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userResponse(user)})
}

func userResponse(u *model.User) types.UserResponse {
	return types.UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}
