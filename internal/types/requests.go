package types

// RegisterRequest is the request body for user registration.
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	DisplayName string `json:"display_name" binding:"required,min=1"`
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest is the request body for display-name changes.
type UpdateProfileRequest struct {
	DisplayName string `json:"display_name" binding:"required,min=1"`
}

// CreateRecipeRequest is the request body for creating a recipe.
type CreateRecipeRequest struct {
	Title       string   `json:"title" binding:"required,min=1"`
	Description *string  `json:"description"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
	Tags        []string `json:"tags"`
	Servings    *int     `json:"servings" binding:"omitempty,min=1"`
	PrepMinutes *int     `json:"prep_minutes" binding:"omitempty,min=0"`
	CookMinutes *int     `json:"cook_minutes" binding:"omitempty,min=0"`
	ImagePath   *string  `json:"image_path"`
	SourceURL   *string  `json:"source_url" binding:"omitempty,url"`
	IsPublic    *bool    `json:"is_public"`
}

// UpdateRecipeRequest is the request body for a partial recipe update.
// A nil field leaves the stored value unchanged; nullable string fields are
// cleared by sending an empty string.
type UpdateRecipeRequest struct {
	Title           *string   `json:"title" binding:"omitempty,min=1"`
	Description     *string   `json:"description"`
	Ingredients     *[]string `json:"ingredients"`
	Steps           *[]string `json:"steps"`
	Tags            *[]string `json:"tags"`
	Servings        *int      `json:"servings" binding:"omitempty,min=1"`
	PrepMinutes     *int      `json:"prep_minutes" binding:"omitempty,min=0"`
	CookMinutes     *int      `json:"cook_minutes" binding:"omitempty,min=0"`
	ImagePath       *string   `json:"image_path"`
	SourceURL       *string   `json:"source_url"`
	IsPublic        *bool     `json:"is_public"`
	ExpectedVersion *int      `json:"expected_version"`
}
