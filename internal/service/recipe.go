package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/forkful-app/backend/internal/model"
	"github.com/forkful-app/backend/internal/types"
)

const (
	defaultPageSize = 12
	maxPageSize     = 50
)

// Visibility scopes for listing.
const (
	ScopePublic = "public"
	ScopeMine   = "mine"
	ScopeAll    = "all"
)

// ListParams are the filter/sort/paginate inputs for List. Zero values mean
// "use the default".
type ListParams struct {
	Query      string
	Tags       []string
	Visibility string
	Sort       string
	Page       int
	PageSize   int
}

// RecipeService handles recipe CRUD, listing and favorites.
type RecipeService struct {
	db     *gorm.DB
	images *ImageService
	logger *zap.Logger
}

func NewRecipeService(db *gorm.DB, images *ImageService, logger *zap.Logger) *RecipeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecipeService{
		db:     db,
		images: images,
		logger: logger,
	}
}

// List returns the page of recipes visible to the viewer that match the
// given filters, with the total match count computed before pagination.
//
// Visibility and text search are pushed to SQL; the tag filter requires every
// requested tag present case-insensitively and runs as a post-filter over the
// already-visibility-filtered rows.
func (s *RecipeService) List(ctx context.Context, viewerID *uuid.UUID, p ListParams) (*types.RecipeListResponse, error) {
	page := p.Page
	if page < 1 {
		page = 1
	}
	pageSize := p.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	// Anonymous viewers only ever see public recipes, whatever scope they
	// asked for.
	scope := p.Visibility
	if scope == "" {
		scope = ScopeAll
	}
	if viewerID == nil {
		scope = ScopePublic
	}

	query := s.db.WithContext(ctx).Model(&model.Recipe{})
	switch scope {
	case ScopePublic:
		query = query.Where("is_public = ?", true)
	case ScopeMine:
		query = query.Where("owner_id = ?", *viewerID)
	default:
		query = query.Where("is_public = ? OR owner_id = ?", true, *viewerID)
	}

	if search := strings.TrimSpace(p.Query); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	switch p.Sort {
	case "old":
		query = query.Order("updated_at ASC")
	case "title":
		query = query.Order("title ASC")
	default: // "recent" / "new"
		query = query.Order("updated_at DESC")
	}

	var rows []model.Recipe
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	rows = filterByTags(rows, p.Tags)

	total := len(rows)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	pageRows := rows[start:end]

	ids := make([]uuid.UUID, len(pageRows))
	for i := range pageRows {
		ids[i] = pageRows[i].ID
	}
	favorited, err := s.favoriteFlags(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}

	items := make([]types.RecipeResponse, 0, len(pageRows))
	for i := range pageRows {
		items = append(items, sanitize(&pageRows[i], viewerID, favorited[pageRows[i].ID]))
	}

	return &types.RecipeListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// filterByTags keeps recipes whose tag set contains every requested tag,
// compared case-insensitively.
func filterByTags(rows []model.Recipe, tags []string) []model.Recipe {
	wanted := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			wanted = append(wanted, t)
		}
	}
	if len(wanted) == 0 {
		return rows
	}

	out := rows[:0]
	for _, r := range rows {
		have := make(map[string]bool, len(r.Tags))
		for _, t := range r.Tags {
			have[strings.ToLower(t)] = true
		}
		all := true
		for _, t := range wanted {
			if !have[t] {
				all = false
				break
			}
		}
		if all {
			out = append(out, r)
		}
	}
	return out
}

// favoriteFlags reports which of the given recipe ids the viewer has
// favorited using one batch lookup. A nil viewer or empty page short-circuits
// without querying.
func (s *RecipeService) favoriteFlags(ctx context.Context, viewerID *uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	flags := make(map[uuid.UUID]bool, len(ids))
	if viewerID == nil || len(ids) == 0 {
		return flags, nil
	}

	var favs []model.Favorite
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id IN ?", *viewerID, ids).
		Find(&favs).Error; err != nil {
		return nil, err
	}
	for _, f := range favs {
		flags[f.RecipeID] = true
	}
	return flags, nil
}

// Get returns a single sanitized recipe. ErrNotFound when absent,
// ErrForbidden when private and the viewer is not the owner.
func (s *RecipeService) Get(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID) (*types.RecipeResponse, error) {
	var recipe model.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !recipe.CanView(viewerID) {
		return nil, ErrForbidden
	}

	favorited, err := s.favoriteFlags(ctx, viewerID, []uuid.UUID{recipe.ID})
	if err != nil {
		return nil, err
	}

	resp := sanitize(&recipe, viewerID, favorited[recipe.ID])
	return &resp, nil
}

// Create stores a new recipe owned by the given user. Visibility defaults to
// public when unspecified.
func (s *RecipeService) Create(ctx context.Context, owner *model.User, req *types.CreateRecipeRequest) (*types.RecipeResponse, error) {
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	recipe := model.Recipe{
		Title:       strings.TrimSpace(req.Title),
		Description: normalizeOptional(req.Description),
		Ingredients: model.StringArray(req.Ingredients),
		Steps:       model.StringArray(req.Steps),
		Tags:        model.StringArray(req.Tags),
		Servings:    req.Servings,
		PrepMinutes: req.PrepMinutes,
		CookMinutes: req.CookMinutes,
		ImagePath:   normalizeOptional(req.ImagePath),
		SourceURL:   normalizeOptional(req.SourceURL),
		IsPublic:    isPublic,
		OwnerID:     owner.ID,
		OwnerName:   owner.DisplayName,
	}
	if err := s.db.WithContext(ctx).Create(&recipe).Error; err != nil {
		return nil, err
	}

	viewerID := owner.ID
	resp := sanitize(&recipe, &viewerID, false)
	return &resp, nil
}

// Update applies a partial update. Nil request fields are left unchanged;
// empty strings clear nullable string fields. The version counter is bumped,
// and when the caller supplies expected_version a mismatch is rejected with
// ErrVersionConflict instead of silently losing the write.
func (s *RecipeService) Update(ctx context.Context, id, userID uuid.UUID, req *types.UpdateRecipeRequest) (*types.RecipeResponse, error) {
	var recipe model.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !recipe.CanEdit(&userID) {
		return nil, ErrForbidden
	}
	if req.ExpectedVersion != nil && *req.ExpectedVersion != recipe.Version {
		return nil, ErrVersionConflict
	}

	var replacedImage *string
	if req.Title != nil {
		recipe.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		recipe.Description = normalizeOptional(req.Description)
	}
	if req.Ingredients != nil {
		recipe.Ingredients = model.StringArray(*req.Ingredients)
	}
	if req.Steps != nil {
		recipe.Steps = model.StringArray(*req.Steps)
	}
	if req.Tags != nil {
		recipe.Tags = model.StringArray(*req.Tags)
	}
	if req.Servings != nil {
		recipe.Servings = req.Servings
	}
	if req.PrepMinutes != nil {
		recipe.PrepMinutes = req.PrepMinutes
	}
	if req.CookMinutes != nil {
		recipe.CookMinutes = req.CookMinutes
	}
	if req.ImagePath != nil {
		next := normalizeOptional(req.ImagePath)
		if recipe.ImagePath != nil && (next == nil || *next != *recipe.ImagePath) {
			replacedImage = recipe.ImagePath
		}
		recipe.ImagePath = next
	}
	if req.SourceURL != nil {
		recipe.SourceURL = normalizeOptional(req.SourceURL)
	}
	if req.IsPublic != nil {
		recipe.IsPublic = *req.IsPublic
	}
	recipe.Version++

	if err := s.db.WithContext(ctx).Save(&recipe).Error; err != nil {
		return nil, err
	}

	// Cleanup of a replaced image is advisory: a failure is logged and never
	// surfaced to the caller.
	if replacedImage != nil {
		s.removeImage(ctx, *replacedImage)
	}

	favorited, err := s.favoriteFlags(ctx, &userID, []uuid.UUID{recipe.ID})
	if err != nil {
		return nil, err
	}

	resp := sanitize(&recipe, &userID, favorited[recipe.ID])
	return &resp, nil
}

// Delete removes a recipe, its favorites and (best-effort) its stored image.
func (s *RecipeService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	var recipe model.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !recipe.CanEdit(&userID) {
		return ErrForbidden
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&model.Favorite{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Recipe{}, "id = ?", id).Error
	})
	if err != nil {
		return err
	}

	if recipe.ImagePath != nil {
		s.removeImage(ctx, *recipe.ImagePath)
	}
	return nil
}

// Favorite bookmarks a recipe for the user. The recipe must be visible to
// the user at creation time; favoriting twice is a no-op.
func (s *RecipeService) Favorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	var recipe model.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !recipe.CanView(&userID) {
		return ErrForbidden
	}

	fav := model.Favorite{UserID: userID, RecipeID: recipeID}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&fav).Error
}

// Unfavorite removes a bookmark. Removing a bookmark that does not exist is
// not an error.
func (s *RecipeService) Unfavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&model.Favorite{}).Error
}

// ListFavorites returns the user's favorited recipes that remain visible to
// them, most recently favorited first.
func (s *RecipeService) ListFavorites(ctx context.Context, userID uuid.UUID) ([]types.RecipeResponse, error) {
	var rows []model.Recipe
	if err := s.db.WithContext(ctx).
		Joins("JOIN favorites ON favorites.recipe_id = recipes.id").
		Where("favorites.user_id = ?", userID).
		Where("recipes.is_public = ? OR recipes.owner_id = ?", true, userID).
		Order("favorites.created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]types.RecipeResponse, 0, len(rows))
	for i := range rows {
		items = append(items, sanitize(&rows[i], &userID, true))
	}
	return items, nil
}

// ListByOwner returns a user's recipes for their profile page: everything
// when the viewer is the owner, public recipes only otherwise.
func (s *RecipeService) ListByOwner(ctx context.Context, ownerID uuid.UUID, viewerID *uuid.UUID) ([]types.RecipeResponse, error) {
	query := s.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if viewerID == nil || *viewerID != ownerID {
		query = query.Where("is_public = ?", true)
	}

	var rows []model.Recipe
	if err := query.Order("updated_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	favorited, err := s.favoriteFlags(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}

	items := make([]types.RecipeResponse, 0, len(rows))
	for i := range rows {
		items = append(items, sanitize(&rows[i], viewerID, favorited[rows[i].ID]))
	}
	return items, nil
}

func (s *RecipeService) removeImage(ctx context.Context, path string) {
	if s.images == nil {
		return
	}
	if err := s.images.Remove(ctx, path); err != nil {
		s.logger.Warn("orphaned image cleanup failed",
			zap.String("path", path), zap.Error(err))
	}
}

// sanitize projects a stored recipe into the client-facing shape, filling
// derived fields and never returning nil sequences.
func sanitize(r *model.Recipe, viewerID *uuid.UUID, isFavorited bool) types.RecipeResponse {
	resp := types.RecipeResponse{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Ingredients: r.Ingredients,
		Steps:       r.Steps,
		Tags:        r.Tags,
		Servings:    r.Servings,
		PrepMinutes: r.PrepMinutes,
		CookMinutes: r.CookMinutes,
		ImagePath:   r.ImagePath,
		SourceURL:   r.SourceURL,
		IsPublic:    r.IsPublic,
		OwnerID:     r.OwnerID,
		OwnerName:   r.OwnerName,
		Version:     r.Version,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		IsFavorited: isFavorited,
		CanEdit:     r.CanEdit(viewerID),
	}
	if resp.Ingredients == nil {
		resp.Ingredients = []string{}
	}
	if resp.Steps == nil {
		resp.Steps = []string{}
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	return resp
}

// normalizeOptional maps empty strings to nil so cleared fields are stored
// as NULL.
func normalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
