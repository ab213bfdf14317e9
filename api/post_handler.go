package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/avolkov/blogicum-backend/database"
	"github.com/avolkov/blogicum-backend/errs"
	"github.com/avolkov/blogicum-backend/models"
	"github.com/avolkov/blogicum-backend/services"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type postHandler struct {
	responder    Responder
	logger       zerolog.Logger
	postRepo     *database.PostRepo
	categoryRepo *database.CategoryRepo
	locationRepo *database.LocationRepo
	commentRepo  *database.CommentRepo
	media        services.MediaStore
}

func newPostHandler(
	postRepo *database.PostRepo,
	categoryRepo *database.CategoryRepo,
	locationRepo *database.LocationRepo,
	commentRepo *database.CommentRepo,
	media services.MediaStore,
) postHandler {
	logger := log.With().Str("handlerName", "postHandler").Logger()

	return postHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
		locationRepo: locationRepo,
		commentRepo:  commentRepo,
		media:        media,
	}
}

// feed returns one page of publicly visible posts, newest first
func (h postHandler) feed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := pageParam(r)

		result, err := h.postRepo.FindVisiblePage(page, postsPerPage, time.Now())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find posts", "posts", err))
			return
		}

		h.responder.WriteJSON(w, newPaginatedPosts(result.Posts, page, result.Total))
	}
}

// getPost returns a post with its comments. A hidden or scheduled post
// is a 404 for everyone except its author.
func (h postHandler) getPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, apiErr := h.visiblePostFromRequest(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		comments, err := h.commentRepo.FindByPostID(post.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find comments", "comments", err))
			return
		}
		post.CommentCount = int64(len(comments))

		h.responder.WriteJSON(w, postDetailResponse{Post: post, Comments: comments})
	}
}

// createPost creates a new post authored by the caller. A future
// pubDate schedules the post instead of publishing it right away.
func (h postHandler) createPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := ctxGetUser(r.Context())

		var req postRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("post", err))
			return
		}

		if err := validate.Struct(req); err != nil {
			field, reason := firstValidationField(err)
			h.responder.WriteError(w, errs.NewInvalidFieldError(field, reason))
			return
		}

		if apiErr := h.checkReferences(req); apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		post := models.Post{
			Title:       req.Title,
			Text:        req.Text,
			AuthorID:    user.ID,
			CategoryID:  req.CategoryID,
			LocationID:  req.LocationID,
			IsPublished: true,
		}
		if req.PubDate != nil {
			post.PubDate = *req.PubDate
		}
		if req.IsPublished != nil {
			post.IsPublished = *req.IsPublished
		}

		if err := h.postRepo.Add(&post); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create post", "post", err))
			return
		}

		created, err := h.postRepo.FindByID(post.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find created post", "post", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, created)
	}
}

// updatePost edits a post. Only the author may edit.
func (h postHandler) updatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, apiErr := h.ownPostFromRequest(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		var req postRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("post", err))
			return
		}

		if err := validate.Struct(req); err != nil {
			field, reason := firstValidationField(err)
			h.responder.WriteError(w, errs.NewInvalidFieldError(field, reason))
			return
		}

		if apiErr := h.checkReferences(req); apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		post.Title = req.Title
		post.Text = req.Text
		post.CategoryID = req.CategoryID
		post.LocationID = req.LocationID
		if req.PubDate != nil {
			post.PubDate = *req.PubDate
		}
		if req.IsPublished != nil {
			post.IsPublished = *req.IsPublished
		}
		// Preloaded associations would otherwise be written back stale.
		post.Author, post.Category, post.Location = nil, nil, nil

		if err := h.postRepo.Update(post); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update post", "post", err))
			return
		}

		updated, err := h.postRepo.FindByID(post.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find updated post", "post", err))
			return
		}

		h.responder.WriteJSON(w, updated)
	}
}

// deletePost removes a post and its comments. Only the author may
// delete.
func (h postHandler) deletePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, apiErr := h.ownPostFromRequest(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		if err := h.postRepo.Delete(post.ID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete post", "post", err))
			return
		}

		if err := h.media.Remove(post.ImagePath); err != nil {
			h.logger.Error().Err(err).Str("imagePath", post.ImagePath).Msg("failed to remove post image")
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "post deleted successfully",
		})
	}
}

// uploadImage attaches an image file to a post. Only the author may
// upload.
func (h postHandler) uploadImage() http.HandlerFunc {
	const maxImageSize = 10 << 20 // 10MB

	return func(w http.ResponseWriter, r *http.Request) {
		post, apiErr := h.ownPostFromRequest(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxImageSize)
		file, header, err := r.FormFile("image")
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("missing image file"))
			return
		}
		defer file.Close()

		relPath, err := h.media.SavePostImage(post.ID, header.Filename, file)
		if err != nil {
			if errors.Is(err, services.ErrUnsupportedImageType) {
				h.responder.WriteError(w, errs.NewInvalidFieldError("image", "unsupported image type"))
				return
			}
			h.responder.WriteError(w, errs.NewInternalError("failed to store image"))
			return
		}

		post.ImagePath = relPath
		post.Author, post.Category, post.Location = nil, nil, nil
		if err := h.postRepo.Update(post); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update post", "post", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":    "success",
			"imagePath": relPath,
		})
	}
}

// visiblePostFromRequest resolves {postID} and applies the visibility
// rule for the caller.
func (h postHandler) visiblePostFromRequest(r *http.Request) (*models.Post, *errs.ApiErr) {
	postID, err := uuid.Parse(chi.URLParam(r, "postID"))
	if err != nil {
		return nil, errs.NewBadRequestError("invalid postID")
	}

	post, err := h.postRepo.FindByID(postID)
	if err != nil {
		return nil, errs.NewDatabaseError("find post", "post", err)
	}
	if post == nil || !post.VisibleTo(ctxGetUserID(r.Context()), time.Now()) {
		return nil, errs.NewNotFound("post")
	}
	return post, nil
}

// ownPostFromRequest resolves {postID} and requires the caller to be
// its author. Non-authors get 404 for posts they cannot see, 403 for
// ones they can.
func (h postHandler) ownPostFromRequest(r *http.Request) (*models.Post, *errs.ApiErr) {
	post, apiErr := h.visiblePostFromRequest(r)
	if apiErr != nil {
		return nil, apiErr
	}
	if post.AuthorID != ctxGetUserID(r.Context()) {
		return nil, errs.NewForbiddenError("only the author may modify this post")
	}
	return post, nil
}

// checkReferences verifies the category and optional location a post
// points at. Posting into an unpublished category is rejected.
func (h postHandler) checkReferences(req postRequest) *errs.ApiErr {
	category, err := h.categoryRepo.FindByID(req.CategoryID)
	if err != nil {
		return errs.NewDatabaseError("find category", "category", err)
	}
	if category == nil || !category.IsPublished {
		return errs.NewInvalidFieldError("categoryId", "category does not exist or is not published")
	}

	if req.LocationID != nil {
		location, err := h.locationRepo.FindByID(*req.LocationID)
		if err != nil {
			return errs.NewDatabaseError("find location", "location", err)
		}
		if location == nil {
			return errs.NewInvalidFieldError("locationId", "location does not exist")
		}
	}
	return nil
}
