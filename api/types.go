package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/avolkov/blogicum-backend/models"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Feed pages mirror the classic ten-posts-per-page blog layout.
const postsPerPage = 10

var validate = validator.New()

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	authHandler     authHandler
	postHandler     postHandler
	categoryHandler categoryHandler
	locationHandler locationHandler
	commentHandler  commentHandler
	profileHandler  profileHandler
	pagesHandler    pagesHandler
}

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Error   string `json:"error"`
	Status  string `json:"status"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
	Cause   string `json:"cause,omitempty"`
}

type signupRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=150"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"firstName" validate:"max=150"`
	LastName  string `json:"lastName" validate:"max=150"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type postRequest struct {
	Title      string     `json:"title" validate:"required,max=256"`
	Text       string     `json:"text" validate:"required"`
	PubDate    *time.Time `json:"pubDate"`
	CategoryID uuid.UUID  `json:"categoryId" validate:"required"`
	LocationID *uuid.UUID `json:"locationId"`
	// Omitted on create defaults to published.
	IsPublished *bool `json:"isPublished"`
}

type commentRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

type profileUpdateRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=150"`
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName" validate:"max=150"`
	LastName  string `json:"lastName" validate:"max=150"`
}

type categoryRequest struct {
	Title       string `json:"title" validate:"required,max=256"`
	Slug        string `json:"slug" validate:"required,max=64,excludesall= "`
	Description string `json:"description"`
	IsPublished *bool  `json:"isPublished"`
}

type locationRequest struct {
	Name        string `json:"name" validate:"required,max=256"`
	IsPublished *bool  `json:"isPublished"`
}

// paginatedPosts is the envelope every post listing goes out in.
type paginatedPosts struct {
	Posts      []*models.Post `json:"posts"`
	Page       int            `json:"page"`
	PerPage    int            `json:"perPage"`
	TotalPages int            `json:"totalPages"`
	Total      int64          `json:"total"`
}

func newPaginatedPosts(posts []*models.Post, page int, total int64) paginatedPosts {
	totalPages := int((total + postsPerPage - 1) / postsPerPage)
	if posts == nil {
		posts = []*models.Post{}
	}
	return paginatedPosts{
		Posts:      posts,
		Page:       page,
		PerPage:    postsPerPage,
		TotalPages: totalPages,
		Total:      total,
	}
}

type postDetailResponse struct {
	Post     *models.Post      `json:"post"`
	Comments []*models.Comment `json:"comments"`
}

type profileResponse struct {
	Profile *models.User   `json:"profile"`
	Posts   paginatedPosts `json:"posts"`
}

// pageParam reads the 1-based ?page= query parameter, defaulting to the
// first page.
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// firstValidationField extracts the offending field and its rule from a
// validator error for the response body.
func firstValidationField(err error) (field, reason string) {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		return errs[0].Field(), errs[0].Tag()
	}
	return "", err.Error()
}
