package api

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePostRequiresAuth(t *testing.T) {
	router, db := newTestAPI(t)
	category := seedCategory(t, db, "travel", true)

	rec := doJSON(t, router, http.MethodPost, "/posts", "", postRequest{
		Title:      "no token",
		Text:       "body",
		CategoryID: category.ID,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPostLifecycle(t *testing.T) {
	router, db := newTestAPI(t)
	token := signupUser(t, router, "writer")
	category := seedCategory(t, db, "travel", true)

	post := createPost(t, router, token, postRequest{
		Title:      "my trip",
		Text:       "it was long",
		CategoryID: category.ID,
	})
	require.NotNil(t, post.Category)
	assert.Equal(t, "travel", post.Category.Slug)
	require.NotNil(t, post.Author)
	assert.Equal(t, "writer", post.Author.Username)

	// Appears in the feed
	rec := doJSON(t, router, http.MethodGet, "/posts", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var feed paginatedPosts
	decodeBody(t, rec, &feed)
	require.Len(t, feed.Posts, 1)

	// Edit
	rec = doJSON(t, router, http.MethodPut, "/posts/"+post.ID.String(), token, postRequest{
		Title:      "my long trip",
		Text:       "it was very long",
		CategoryID: category.ID,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/posts/"+post.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var detail postDetailResponse
	decodeBody(t, rec, &detail)
	assert.Equal(t, "my long trip", detail.Post.Title)

	// Delete
	rec = doJSON(t, router, http.MethodDelete, "/posts/"+post.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/posts/"+post.ID.String(), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOnlyAuthorMayModifyPost(t *testing.T) {
	router, db := newTestAPI(t)
	author := signupUser(t, router, "writer")
	stranger := signupUser(t, router, "stranger")
	category := seedCategory(t, db, "travel", true)

	post := createPost(t, router, author, postRequest{
		Title:      "mine",
		Text:       "hands off",
		CategoryID: category.ID,
	})

	rec := doJSON(t, router, http.MethodPut, "/posts/"+post.ID.String(), stranger, postRequest{
		Title:      "stolen",
		Text:       "mine now",
		CategoryID: category.ID,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/posts/"+post.ID.String(), stranger, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHiddenPostVisibility(t *testing.T) {
	router, db := newTestAPI(t)
	author := signupUser(t, router, "writer")
	stranger := signupUser(t, router, "stranger")
	category := seedCategory(t, db, "travel", true)

	unpublished := false
	draft := createPost(t, router, author, postRequest{
		Title:       "draft",
		Text:        "not ready",
		CategoryID:  category.ID,
		IsPublished: &unpublished,
	})

	// The author sees their own draft
	rec := doJSON(t, router, http.MethodGet, "/posts/"+draft.ID.String(), author, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Everyone else gets a 404, anonymous included
	rec = doJSON(t, router, http.MethodGet, "/posts/"+draft.ID.String(), stranger, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = doJSON(t, router, http.MethodGet, "/posts/"+draft.ID.String(), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Absent from the feed
	rec = doJSON(t, router, http.MethodGet, "/posts", "", nil)
	var feed paginatedPosts
	decodeBody(t, rec, &feed)
	assert.Empty(t, feed.Posts)

	// But listed on the author's profile
	rec = doJSON(t, router, http.MethodGet, "/profiles/writer", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var profile profileResponse
	decodeBody(t, rec, &profile)
	assert.Len(t, profile.Posts.Posts, 1)
}

func TestScheduledPostStaysHiddenUntilPubDate(t *testing.T) {
	router, db := newTestAPI(t)
	author := signupUser(t, router, "writer")
	category := seedCategory(t, db, "travel", true)

	future := time.Now().Add(48 * time.Hour)
	scheduled := createPost(t, router, author, postRequest{
		Title:      "upcoming",
		Text:       "see you in two days",
		CategoryID: category.ID,
		PubDate:    &future,
	})

	rec := doJSON(t, router, http.MethodGet, "/posts", "", nil)
	var feed paginatedPosts
	decodeBody(t, rec, &feed)
	assert.Empty(t, feed.Posts)

	rec = doJSON(t, router, http.MethodGet, "/posts/"+scheduled.ID.String(), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/posts/"+scheduled.ID.String(), author, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreatePostRejectsUnpublishedCategory(t *testing.T) {
	router, db := newTestAPI(t)
	token := signupUser(t, router, "writer")
	hidden := seedCategory(t, db, "drafts", false)

	rec := doJSON(t, router, http.MethodPost, "/posts", token, postRequest{
		Title:      "nope",
		Text:       "nope",
		CategoryID: hidden.ID,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFeedPagination(t *testing.T) {
	router, db := newTestAPI(t)
	token := signupUser(t, router, "writer")
	category := seedCategory(t, db, "travel", true)

	for i := 0; i < 12; i++ {
		pubDate := time.Now().Add(-time.Duration(i+1) * time.Minute)
		createPost(t, router, token, postRequest{
			Title:      fmt.Sprintf("post-%02d", i),
			Text:       "text",
			CategoryID: category.ID,
			PubDate:    &pubDate,
		})
	}

	rec := doJSON(t, router, http.MethodGet, "/posts", "", nil)
	var first paginatedPosts
	decodeBody(t, rec, &first)
	assert.Len(t, first.Posts, 10)
	assert.Equal(t, 2, first.TotalPages)
	assert.EqualValues(t, 12, first.Total)

	rec = doJSON(t, router, http.MethodGet, "/posts?page=2", "", nil)
	var second paginatedPosts
	decodeBody(t, rec, &second)
	assert.Len(t, second.Posts, 2)
	assert.Equal(t, 2, second.Page)
}

func TestUploadImage(t *testing.T) {
	router, db := newTestAPI(t)
	token := signupUser(t, router, "writer")
	category := seedCategory(t, db, "travel", true)
	post := createPost(t, router, token, postRequest{
		Title:      "with picture",
		Text:       "look",
		CategoryID: category.ID,
	})

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("image", "photo.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png bytes"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/posts/"+post.ID.String()+"/image", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	updated, err := db.PostRepo().FindByID(post.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, updated.ImagePath)
}
