package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/forkful-app/backend/internal/api"
	"github.com/forkful-app/backend/internal/database"
	"github.com/forkful-app/backend/internal/model"
	"github.com/forkful-app/backend/internal/router"
	"github.com/forkful-app/backend/internal/service"
	"github.com/forkful-app/backend/internal/types"
)

type testEnv struct {
	router  *gin.Engine
	db      *gorm.DB
	auth    *service.AuthService
	recipes *service.RecipeService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// The in-memory database lives on a single connection.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.RunMigrations(db))

	uploadsDir := t.TempDir()
	storage, err := service.NewLocalStorage(uploadsDir)
	require.NoError(t, err)
	images := service.NewImageService(storage, nil)

	auth := service.NewAuthService(db, nil, "test-secret", time.Hour, nil)
	recipes := service.NewRecipeService(db, images, nil)

	engine := router.SetupRouter(router.Options{
		AuthHandler:      api.NewAuthHandler(auth, nil),
		RecipeHandler:    api.NewRecipeHandler(recipes, auth),
		UserHandler:      api.NewUserHandler(auth, recipes),
		UploadHandler:    api.NewUploadHandler(images, auth),
		CORSOrigins:      []string{"http://localhost:3000"},
		StaticUploadsDir: uploadsDir,
	})

	return &testEnv{
		router:  engine,
		db:      db,
		auth:    auth,
		recipes: recipes,
	}
}

func (e *testEnv) register(t *testing.T, email, displayName string) (*model.User, string) {
	t.Helper()
	user, token, err := e.auth.Register(context.Background(), email, "password123", displayName)
	require.NoError(t, err)
	return user, token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func (e *testEnv) createRecipe(t *testing.T, token string, req types.CreateRecipeRequest) types.RecipeResponse {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/v1/recipes", token, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created types.RecipeResponse
	decodeJSON(t, w, &created)
	return created
}
