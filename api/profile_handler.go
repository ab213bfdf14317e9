package api

import (
	"encoding/json"
	"net/http"

	"github.com/avolkov/blogicum-backend/database"
	"github.com/avolkov/blogicum-backend/errs"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type profileHandler struct {
	responder Responder
	logger    zerolog.Logger
	userRepo  *database.UserRepo
	postRepo  *database.PostRepo
}

func newProfileHandler(userRepo *database.UserRepo, postRepo *database.PostRepo) profileHandler {
	logger := log.With().Str("handlerName", "profileHandler").Logger()

	return profileHandler{
		responder: NewResponder(logger),
		logger:    logger,
		userRepo:  userRepo,
		postRepo:  postRepo,
	}
}

// getProfile returns a user's profile and their full post history,
// scheduled and unpublished posts included.
func (h profileHandler) getProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := chi.URLParam(r, "username")

		profile, err := h.userRepo.FindByUsername(username)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find user", "user", err))
			return
		}
		if profile == nil {
			h.responder.WriteError(w, errs.NewNotFound("user"))
			return
		}

		page := pageParam(r)
		result, err := h.postRepo.FindByAuthorPage(profile.ID, page, postsPerPage)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find posts", "posts", err))
			return
		}

		h.responder.WriteJSON(w, profileResponse{
			Profile: profile,
			Posts:   newPaginatedPosts(result.Posts, page, result.Total),
		})
	}
}

// updateProfile edits the caller's own account fields
func (h profileHandler) updateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := ctxGetUser(r.Context())

		var req profileUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("profile", err))
			return
		}

		if err := validate.Struct(req); err != nil {
			field, reason := firstValidationField(err)
			h.responder.WriteError(w, errs.NewInvalidFieldError(field, reason))
			return
		}

		if req.Username != user.Username {
			if existing, err := h.userRepo.FindByUsername(req.Username); err != nil {
				h.responder.WriteError(w, wrapDatabaseError("find user", "user", err))
				return
			} else if existing != nil {
				h.responder.WriteError(w, errs.NewAlreadyExists("username"))
				return
			}
		}

		if req.Email != user.Email {
			if existing, err := h.userRepo.FindByEmail(req.Email); err != nil {
				h.responder.WriteError(w, wrapDatabaseError("find user", "user", err))
				return
			} else if existing != nil {
				h.responder.WriteError(w, errs.NewAlreadyExists("email"))
				return
			}
		}

		user.Username = req.Username
		user.Email = req.Email
		user.FirstName = req.FirstName
		user.LastName = req.LastName

		if err := h.userRepo.Update(user); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update user", "user", err))
			return
		}

		h.responder.WriteJSON(w, user)
	}
}
