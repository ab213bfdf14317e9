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

type categoryHandler struct {
	responder    Responder
	logger       zerolog.Logger
	categoryRepo *database.CategoryRepo
	postRepo     *database.PostRepo
}

func newCategoryHandler(categoryRepo *database.CategoryRepo, postRepo *database.PostRepo) categoryHandler {
	logger := log.With().Str("handlerName", "categoryHandler").Logger()

	return categoryHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		categoryRepo: categoryRepo,
		postRepo:     postRepo,
	}
}

// listCategories returns all published categories
func (h categoryHandler) listCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := h.categoryRepo.FindPublished()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find categories", "categories", err))
			return
		}
		if categories == nil {
			categories = []*models.Category{}
		}

		h.responder.WriteJSON(w, map[string]any{"categories": categories})
	}
}

// postsBySlug returns one page of a category's visible posts. A missing
// or unpublished category is a 404.
func (h categoryHandler) postsBySlug() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")

		category, err := h.categoryRepo.FindBySlug(slug)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find category", "category", err))
			return
		}
		if category == nil || !category.IsPublished {
			h.responder.WriteError(w, errs.NewNotFound("category"))
			return
		}

		page := pageParam(r)
		result, err := h.postRepo.FindVisibleByCategoryPage(category.ID, page, postsPerPage, time.Now())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find posts", "posts", err))
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"category": category,
			"posts":    newPaginatedPosts(result.Posts, page, result.Total),
		})
	}
}

// createCategory adds a category. Superuser only.
func (h categoryHandler) createCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req categoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("category", err))
			return
		}

		if err := validate.Struct(req); err != nil {
			field, reason := firstValidationField(err)
			h.responder.WriteError(w, errs.NewInvalidFieldError(field, reason))
			return
		}

		if existing, err := h.categoryRepo.FindBySlug(req.Slug); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find category", "category", err))
			return
		} else if existing != nil {
			h.responder.WriteError(w, errs.NewAlreadyExists("category slug"))
			return
		}

		category := models.Category{
			Title:       req.Title,
			Slug:        req.Slug,
			Description: req.Description,
			IsPublished: true,
		}
		if req.IsPublished != nil {
			category.IsPublished = *req.IsPublished
		}

		if err := h.categoryRepo.Add(&category); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create category", "category", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, &category)
	}
}

// updateCategory edits a category. Superuser only. Unpublishing a
// category hides its posts everywhere public.
func (h categoryHandler) updateCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category, apiErr := h.categoryFromRequest(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		var req categoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("category", err))
			return
		}

		if err := validate.Struct(req); err != nil {
			field, reason := firstValidationField(err)
			h.responder.WriteError(w, errs.NewInvalidFieldError(field, reason))
			return
		}

		category.Title = req.Title
		category.Slug = req.Slug
		category.Description = req.Description
		if req.IsPublished != nil {
			category.IsPublished = *req.IsPublished
		}

		if err := h.categoryRepo.Update(category); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update category", "category", err))
			return
		}

		h.responder.WriteJSON(w, category)
	}
}

// deleteCategory removes a category. Superuser only.
func (h categoryHandler) deleteCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category, apiErr := h.categoryFromRequest(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		if err := h.categoryRepo.Delete(category.ID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete category", "category", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "category deleted successfully",
		})
	}
}

func (h categoryHandler) categoryFromRequest(r *http.Request) (*models.Category, *errs.ApiErr) {
	categoryID, err := uuid.Parse(chi.URLParam(r, "categoryID"))
	if err != nil {
		return nil, errs.NewBadRequestError("invalid categoryID")
	}

	category, err := h.categoryRepo.FindByID(categoryID)
	if err != nil {
		return nil, errs.NewDatabaseError("find category", "category", err)
	}
	if category == nil {
		return nil, errs.NewNotFound("category")
	}
	return category, nil
}
