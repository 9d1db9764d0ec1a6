package api_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkful-app/backend/internal/types"
)

func boolPtr(b bool) *bool    { return &b }
func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }

func TestRecipeCRUD(t *testing.T) {
	env := newTestEnv(t)
	owner, token := env.register(t, "nina@example.com", "Nina")

	created := env.createRecipe(t, token, types.CreateRecipeRequest{
		Title:       "Shakshuka",
		Description: strPtr("Eggs in tomato sauce"),
		Ingredients: []string{"4 eggs", "2 cups tomato sauce"},
		Tags:        []string{"breakfast"},
		Servings:    intPtr(2),
	})
	assert.Equal(t, owner.ID, created.OwnerID)
	assert.Equal(t, "Nina", created.OwnerName)
	assert.True(t, created.IsPublic)
	assert.True(t, created.CanEdit)
	assert.Equal(t, 1, created.Version)

	w := env.do(t, http.MethodGet, "/api/v1/recipes/"+created.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fetched types.RecipeResponse
	decodeJSON(t, w, &fetched)
	assert.Equal(t, "Shakshuka", fetched.Title)
	assert.False(t, fetched.CanEdit)

	w = env.do(t, http.MethodPatch, "/api/v1/recipes/"+created.ID.String(), token, types.UpdateRecipeRequest{
		Title: strPtr("Shakshuka Deluxe"),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated types.RecipeResponse
	decodeJSON(t, w, &updated)
	assert.Equal(t, "Shakshuka Deluxe", updated.Title)
	assert.Equal(t, 2, updated.Version)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "Eggs in tomato sauce", *updated.Description)

	w = env.do(t, http.MethodDelete, "/api/v1/recipes/"+created.ID.String(), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/recipes/"+created.ID.String(), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecipeAuthorization(t *testing.T) {
	env := newTestEnv(t)
	_, ownerToken := env.register(t, "omar@example.com", "Omar")
	_, otherToken := env.register(t, "pia@example.com", "Pia")

	private := env.createRecipe(t, ownerToken, types.CreateRecipeRequest{
		Title:    "Secret sauce",
		IsPublic: boolPtr(false),
	})

	// Writes require a token.
	w := env.do(t, http.MethodPost, "/api/v1/recipes", "", types.CreateRecipeRequest{Title: "Nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Private recipes are hidden from everyone but the owner.
	w = env.do(t, http.MethodGet, "/api/v1/recipes/"+private.ID.String(), otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = env.do(t, http.MethodGet, "/api/v1/recipes/"+private.ID.String(), "", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPatch, "/api/v1/recipes/"+private.ID.String(), otherToken, types.UpdateRecipeRequest{
		Title: strPtr("Hijacked"),
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodDelete, "/api/v1/recipes/"+private.ID.String(), otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/recipes/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/recipes/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecipeStaleVersion(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.register(t, "quinn@example.com", "Quinn")

	created := env.createRecipe(t, token, types.CreateRecipeRequest{Title: "Chili"})

	w := env.do(t, http.MethodPatch, "/api/v1/recipes/"+created.ID.String(), token, types.UpdateRecipeRequest{
		Title:           strPtr("Chili v2"),
		ExpectedVersion: intPtr(1),
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Replaying the same expected version now conflicts.
	w = env.do(t, http.MethodPatch, "/api/v1/recipes/"+created.ID.String(), token, types.UpdateRecipeRequest{
		Title:           strPtr("Chili v3"),
		ExpectedVersion: intPtr(1),
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestListRecipesEndpoint(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.register(t, "rosa@example.com", "Rosa")

	for i := 0; i < 3; i++ {
		env.createRecipe(t, token, types.CreateRecipeRequest{
			Title: fmt.Sprintf("Pasta %d", i),
			Tags:  []string{"italian"},
		})
	}
	env.createRecipe(t, token, types.CreateRecipeRequest{
		Title:    "Hidden stew",
		IsPublic: boolPtr(false),
	})

	w := env.do(t, http.MethodGet, "/api/v1/recipes", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list types.RecipeListResponse
	decodeJSON(t, w, &list)
	assert.Equal(t, 3, list.Total)
	assert.Equal(t, 12, list.PageSize)

	// The owner's own scope includes the private recipe.
	w = env.do(t, http.MethodGet, "/api/v1/recipes?visibility=mine", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &list)
	assert.Equal(t, 4, list.Total)

	w = env.do(t, http.MethodGet, "/api/v1/recipes?q=pasta&tags=Italian&page=1&pageSize=2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &list)
	assert.Len(t, list.Items, 2)
	assert.Equal(t, 3, list.Total)
	assert.Equal(t, 2, list.TotalPages)
}

func TestGetRecipeWithServings(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.register(t, "sam@example.com", "Sam")

	created := env.createRecipe(t, token, types.CreateRecipeRequest{
		Title:       "Pancakes",
		Servings:    intPtr(2),
		Ingredients: []string{"2 cups flour", "1/2 tsp salt", "2-3 eggs", "a pinch of nutmeg"},
	})

	w := env.do(t, http.MethodGet, "/api/v1/recipes/"+created.ID.String()+"?servings=4", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var scaled types.RecipeResponse
	decodeJSON(t, w, &scaled)
	assert.Equal(t, []string{"4 cups flour", "1 tsp salt", "4–6 eggs", "a pinch of nutmeg"}, scaled.Ingredients)

	// Stored quantities are untouched.
	w = env.do(t, http.MethodGet, "/api/v1/recipes/"+created.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var plain types.RecipeResponse
	decodeJSON(t, w, &plain)
	assert.Equal(t, []string{"2 cups flour", "1/2 tsp salt", "2-3 eggs", "a pinch of nutmeg"}, plain.Ingredients)

	for _, bad := range []string{"0", "-1", "two"} {
		w = env.do(t, http.MethodGet, "/api/v1/recipes/"+created.ID.String()+"?servings="+bad, "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, "servings=%s", bad)
	}
}

func TestFavoriteEndpoints(t *testing.T) {
	env := newTestEnv(t)
	_, ownerToken := env.register(t, "tara@example.com", "Tara")
	_, fanToken := env.register(t, "uli@example.com", "Uli")

	recipe := env.createRecipe(t, ownerToken, types.CreateRecipeRequest{Title: "Ramen"})

	w := env.do(t, http.MethodPost, "/api/v1/recipes/"+recipe.ID.String()+"/favorite", fanToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/favorites", fanToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var favs struct {
		Items []types.RecipeResponse `json:"items"`
	}
	decodeJSON(t, w, &favs)
	require.Len(t, favs.Items, 1)
	assert.Equal(t, "Ramen", favs.Items[0].Title)
	assert.True(t, favs.Items[0].IsFavorited)

	// The flag shows up on the detail view too.
	w = env.do(t, http.MethodGet, "/api/v1/recipes/"+recipe.ID.String(), fanToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail types.RecipeResponse
	decodeJSON(t, w, &detail)
	assert.True(t, detail.IsFavorited)

	w = env.do(t, http.MethodDelete, "/api/v1/recipes/"+recipe.ID.String()+"/favorite", fanToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/favorites", fanToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &favs)
	assert.Empty(t, favs.Items)

	w = env.do(t, http.MethodGet, "/api/v1/favorites", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserProfileEndpoint(t *testing.T) {
	env := newTestEnv(t)
	owner, ownerToken := env.register(t, "vera@example.com", "Vera")
	_, otherToken := env.register(t, "wade@example.com", "Wade")

	env.createRecipe(t, ownerToken, types.CreateRecipeRequest{Title: "Public pie"})
	env.createRecipe(t, ownerToken, types.CreateRecipeRequest{Title: "Private pie", IsPublic: boolPtr(false)})

	var profile struct {
		User    types.UserResponse     `json:"user"`
		Recipes []types.RecipeResponse `json:"recipes"`
	}

	w := env.do(t, http.MethodGet, "/api/v1/users/"+owner.ID.String(), otherToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &profile)
	assert.Equal(t, "Vera", profile.User.DisplayName)
	assert.Empty(t, profile.User.Email, "profile pages do not expose email")
	require.Len(t, profile.Recipes, 1)
	assert.Equal(t, "Public pie", profile.Recipes[0].Title)

	w = env.do(t, http.MethodGet, "/api/v1/users/"+owner.ID.String(), ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &profile)
	assert.Len(t, profile.Recipes, 2)

	w = env.do(t, http.MethodGet, "/api/v1/users/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
