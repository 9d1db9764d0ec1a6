package types

import (
	"time"

	"github.com/google/uuid"
)

// RecipeResponse is the client-facing projection of a stored recipe. The
// same shape is used for single-item and list responses.
type RecipeResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Ingredients []string  `json:"ingredients"`
	Steps       []string  `json:"steps"`
	Tags        []string  `json:"tags"`
	Servings    *int      `json:"servings"`
	PrepMinutes *int      `json:"prep_minutes"`
	CookMinutes *int      `json:"cook_minutes"`
	ImagePath   *string   `json:"image_path"`
	SourceURL   *string   `json:"source_url"`
	IsPublic    bool      `json:"is_public"`
	OwnerID     uuid.UUID `json:"owner_id"`
	OwnerName   string    `json:"owner_name"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	IsFavorited bool      `json:"is_favorited"`
	CanEdit     bool      `json:"can_edit"`
}

// RecipeListResponse is the paginated list envelope for GET /recipes.
type RecipeListResponse struct {
	Items      []RecipeResponse `json:"items"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

// UserResponse is the public projection of a user.
type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email,omitempty"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}
