package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/avolkov/blogicum-backend/config"
	"github.com/avolkov/blogicum-backend/database"
	"github.com/avolkov/blogicum-backend/models"
	"github.com/avolkov/blogicum-backend/services"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestAPI builds a router over a throwaway sqlite database.
func newTestAPI(t *testing.T) (*chi.Mux, database.Database) {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.sqlite3")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(gormDB))

	db := database.New(gormDB)
	router := newRouter(db,
		withConfig(config.Config{
			"JWT_SECRET":       "test-secret",
			"MEDIA_DIR":        t.TempDir(),
			"ACCEPTED_ORIGINS": "*",
		}),
		withStartupTime(time.Now()),
	)
	return router, db
}

// doJSON performs a request with an optional bearer token and JSON body.
func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, into any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), into))
}

// signupUser registers a user through the API and returns their token.
func signupUser(t *testing.T, router http.Handler, username string) string {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/auth/signup", "", signupRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp tokenResponse
	decodeBody(t, rec, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// signupSuperuser creates a superuser directly and logs them in.
func signupSuperuser(t *testing.T, router http.Handler, db database.Database) string {
	t.Helper()

	hash, err := services.HashPassword("adminpass123")
	require.NoError(t, err)
	admin := models.User{
		Username:     "admin",
		Email:        "admin@example.com",
		PasswordHash: hash,
		IsSuperuser:  true,
	}
	require.NoError(t, db.UserRepo().Add(&admin))

	rec := doJSON(t, router, http.MethodPost, "/auth/login", "", loginRequest{
		Username: "admin",
		Password: "adminpass123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp tokenResponse
	decodeBody(t, rec, &resp)
	return resp.Token
}

// seedCategory inserts a category directly, bypassing the admin routes.
func seedCategory(t *testing.T, db database.Database, slug string, published bool) *models.Category {
	t.Helper()

	category := &models.Category{
		Title:       "Category " + slug,
		Slug:        slug,
		IsPublished: published,
	}
	require.NoError(t, db.CategoryRepo().Add(category))
	return category
}

// createPost makes a post through the API and returns it decoded.
func createPost(t *testing.T, router http.Handler, token string, req postRequest) *models.Post {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/posts", token, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var post models.Post
	decodeBody(t, rec, &post)
	return &post
}
