package api

import (
	"net/http"
	"testing"

	"github.com/avolkov/blogicum-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProfile(t *testing.T) {
	router, db := newTestAPI(t)
	token := signupUser(t, router, "writer")
	category := seedCategory(t, db, "travel", true)
	createPost(t, router, token, postRequest{
		Title:      "shown",
		Text:       "text",
		CategoryID: category.ID,
	})

	rec := doJSON(t, router, http.MethodGet, "/profiles/writer", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp profileResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "writer", resp.Profile.Username)
	assert.Len(t, resp.Posts.Posts, 1)
}

func TestGetProfileUnknownUserIs404(t *testing.T) {
	router, _ := newTestAPI(t)

	rec := doJSON(t, router, http.MethodGet, "/profiles/nobody", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateProfile(t *testing.T) {
	router, _ := newTestAPI(t)
	token := signupUser(t, router, "writer")

	rec := doJSON(t, router, http.MethodPut, "/profile", token, profileUpdateRequest{
		Username:  "writer",
		Email:     "writer@example.com",
		FirstName: "Anna",
		LastName:  "Volkova",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var user models.User
	decodeBody(t, rec, &user)
	assert.Equal(t, "Anna", user.FirstName)
}

func TestUpdateProfileRejectsTakenUsername(t *testing.T) {
	router, _ := newTestAPI(t)
	signupUser(t, router, "writer")
	other := signupUser(t, router, "other")

	rec := doJSON(t, router, http.MethodPut, "/profile", other, profileUpdateRequest{
		Username: "writer",
		Email:    "other@example.com",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUpdateProfileRequiresAuth(t *testing.T) {
	router, _ := newTestAPI(t)

	rec := doJSON(t, router, http.MethodPut, "/profile", "", profileUpdateRequest{
		Username: "ghost",
		Email:    "ghost@example.com",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
