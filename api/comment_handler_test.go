package api

import (
	"net/http"
	"testing"

	"github.com/avolkov/blogicum-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentLifecycle(t *testing.T) {
	router, db := newTestAPI(t)
	author := signupUser(t, router, "writer")
	reader := signupUser(t, router, "reader")
	category := seedCategory(t, db, "travel", true)
	post := createPost(t, router, author, postRequest{
		Title:      "discussed",
		Text:       "talk to me",
		CategoryID: category.ID,
	})

	rec := doJSON(t, router, http.MethodPost, "/posts/"+post.ID.String()+"/comments", reader, commentRequest{
		Text: "great post",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var comment models.Comment
	decodeBody(t, rec, &comment)
	require.NotNil(t, comment.Author)
	assert.Equal(t, "reader", comment.Author.Username)

	// Shows up on the post detail with the count
	rec = doJSON(t, router, http.MethodGet, "/posts/"+post.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var detail postDetailResponse
	decodeBody(t, rec, &detail)
	require.Len(t, detail.Comments, 1)
	assert.EqualValues(t, 1, detail.Post.CommentCount)

	// Edit
	rec = doJSON(t, router, http.MethodPut, "/comments/"+comment.ID.String(), reader, commentRequest{
		Text: "great post, reread it twice",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Delete
	rec = doJSON(t, router, http.MethodDelete, "/comments/"+comment.ID.String(), reader, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/posts/"+post.ID.String(), "", nil)
	decodeBody(t, rec, &detail)
	assert.Empty(t, detail.Comments)
}

func TestOnlyAuthorMayModifyComment(t *testing.T) {
	router, db := newTestAPI(t)
	author := signupUser(t, router, "writer")
	reader := signupUser(t, router, "reader")
	category := seedCategory(t, db, "travel", true)
	post := createPost(t, router, author, postRequest{
		Title:      "discussed",
		Text:       "talk",
		CategoryID: category.ID,
	})

	rec := doJSON(t, router, http.MethodPost, "/posts/"+post.ID.String()+"/comments", reader, commentRequest{
		Text: "mine",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var comment models.Comment
	decodeBody(t, rec, &comment)

	// The post's author still may not touch someone else's comment
	rec = doJSON(t, router, http.MethodPut, "/comments/"+comment.ID.String(), author, commentRequest{
		Text: "rewritten",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/comments/"+comment.ID.String(), author, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCommentOnHiddenPostIs404(t *testing.T) {
	router, db := newTestAPI(t)
	author := signupUser(t, router, "writer")
	reader := signupUser(t, router, "reader")
	category := seedCategory(t, db, "travel", true)

	unpublished := false
	draft := createPost(t, router, author, postRequest{
		Title:       "draft",
		Text:        "secret",
		CategoryID:  category.ID,
		IsPublished: &unpublished,
	})

	rec := doJSON(t, router, http.MethodPost, "/posts/"+draft.ID.String()+"/comments", reader, commentRequest{
		Text: "found it",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// The author can comment on their own draft
	rec = doJSON(t, router, http.MethodPost, "/posts/"+draft.ID.String()+"/comments", author, commentRequest{
		Text: "note to self",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCommentRequiresAuth(t *testing.T) {
	router, db := newTestAPI(t)
	author := signupUser(t, router, "writer")
	category := seedCategory(t, db, "travel", true)
	post := createPost(t, router, author, postRequest{
		Title:      "open",
		Text:       "text",
		CategoryID: category.ID,
	})

	rec := doJSON(t, router, http.MethodPost, "/posts/"+post.ID.String()+"/comments", "", commentRequest{
		Text: "anonymous",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
