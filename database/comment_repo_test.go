package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindByPostIDOrdersOldestFirst(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "writer")
	reader := seedUser(t, db, "reader")
	category := seedCategory(t, db, "travel", true)
	post := seedPost(t, db, author, category, "discussed", seedPostOpts{published: true})

	seedComment(t, db, reader, post, "first")
	seedComment(t, db, author, post, "second")

	comments, err := db.CommentRepo().FindByPostID(post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Text)
	assert.Equal(t, "second", comments[1].Text)
	require.NotNil(t, comments[0].Author)
	assert.Equal(t, "reader", comments[0].Author.Username)
}

func TestCommentUpdateAndDelete(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "writer")
	category := seedCategory(t, db, "travel", true)
	post := seedPost(t, db, author, category, "discussed", seedPostOpts{published: true})
	comment := seedComment(t, db, author, post, "typo")

	comment.Text = "fixed"
	require.NoError(t, db.CommentRepo().Update(comment))

	updated, err := db.CommentRepo().FindByID(comment.ID)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "fixed", updated.Text)

	require.NoError(t, db.CommentRepo().Delete(comment.ID))
	gone, err := db.CommentRepo().FindByID(comment.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}
