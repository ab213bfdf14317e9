package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/avolkov/blogicum-backend/database"
	"github.com/avolkov/blogicum-backend/errs"
	"github.com/avolkov/blogicum-backend/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type commentHandler struct {
	responder   Responder
	logger      zerolog.Logger
	commentRepo *database.CommentRepo
	postRepo    *database.PostRepo
}

func newCommentHandler(commentRepo *database.CommentRepo, postRepo *database.PostRepo) commentHandler {
	logger := log.With().Str("handlerName", "commentHandler").Logger()

	return commentHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

// createComment adds a comment under a post the caller can see. An
// invisible post stays a 404 so commenting cannot probe for hidden
// posts.
func (h commentHandler) createComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := ctxGetUser(r.Context())

		postID, err := uuid.Parse(chi.URLParam(r, "postID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid postID"))
			return
		}

		post, err := h.postRepo.FindByID(postID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find post", "post", err))
			return
		}
		if post == nil || !post.VisibleTo(user.ID, time.Now()) {
			h.responder.WriteError(w, errs.NewNotFound("post"))
			return
		}

		var req commentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("comment", err))
			return
		}

		if err := validate.Struct(req); err != nil {
			field, reason := firstValidationField(err)
			h.responder.WriteError(w, errs.NewInvalidFieldError(field, reason))
			return
		}

		comment := models.Comment{
			Text:     req.Text,
			AuthorID: user.ID,
			PostID:   post.ID,
		}
		if err := h.commentRepo.Add(&comment); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create comment", "comment", err))
			return
		}

		created, err := h.commentRepo.FindByID(comment.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find created comment", "comment", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, created)
	}
}

// updateComment edits a comment. Only the author may edit.
func (h commentHandler) updateComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		comment, apiErr := h.ownCommentFromRequest(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		var req commentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("comment", err))
			return
		}

		if err := validate.Struct(req); err != nil {
			field, reason := firstValidationField(err)
			h.responder.WriteError(w, errs.NewInvalidFieldError(field, reason))
			return
		}

		comment.Text = req.Text
		comment.Author = nil

		if err := h.commentRepo.Update(comment); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update comment", "comment", err))
			return
		}

		updated, err := h.commentRepo.FindByID(comment.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find updated comment", "comment", err))
			return
		}

		h.responder.WriteJSON(w, updated)
	}
}

// deleteComment removes a comment. Only the author may delete.
func (h commentHandler) deleteComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		comment, apiErr := h.ownCommentFromRequest(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		if err := h.commentRepo.Delete(comment.ID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete comment", "comment", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "comment deleted successfully",
		})
	}
}

func (h commentHandler) ownCommentFromRequest(r *http.Request) (*models.Comment, *errs.ApiErr) {
	commentID, err := uuid.Parse(chi.URLParam(r, "commentID"))
	if err != nil {
		return nil, errs.NewBadRequestError("invalid commentID")
	}

	comment, err := h.commentRepo.FindByID(commentID)
	if err != nil {
		return nil, errs.NewDatabaseError("find comment", "comment", err)
	}
	if comment == nil {
		return nil, errs.NewNotFound("comment")
	}
	if comment.AuthorID != ctxGetUserID(r.Context()) {
		return nil, errs.NewForbiddenError("only the author may modify this comment")
	}
	return comment, nil
}
