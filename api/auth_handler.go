package api

import (
	"encoding/json"
	"net/http"

	"github.com/avolkov/blogicum-backend/database"
	"github.com/avolkov/blogicum-backend/errs"
	"github.com/avolkov/blogicum-backend/models"
	"github.com/avolkov/blogicum-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	userRepo  *database.UserRepo
	tokens    services.TokenService
}

func newAuthHandler(userRepo *database.UserRepo, tokens services.TokenService) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder: NewResponder(logger),
		logger:    logger,
		userRepo:  userRepo,
		tokens:    tokens,
	}
}

// signup registers a new account and signs it in
func (h authHandler) signup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("signup", err))
			return
		}

		if err := validate.Struct(req); err != nil {
			field, reason := firstValidationField(err)
			h.responder.WriteError(w, errs.NewInvalidFieldError(field, reason))
			return
		}

		if existing, err := h.userRepo.FindByUsername(req.Username); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find user", "user", err))
			return
		} else if existing != nil {
			h.responder.WriteError(w, errs.NewAlreadyExists("username"))
			return
		}

		if existing, err := h.userRepo.FindByEmail(req.Email); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find user", "user", err))
			return
		} else if existing != nil {
			h.responder.WriteError(w, errs.NewAlreadyExists("email"))
			return
		}

		hash, err := services.HashPassword(req.Password)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalError("failed to hash password"))
			return
		}

		user := models.User{
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: hash,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
		}
		if err := h.userRepo.Add(&user); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create user", "user", err))
			return
		}

		token, err := h.tokens.Issue(user.ID)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalError("failed to issue token"))
			return
		}

		h.logger.Info().Str("username", user.Username).Msg("user registered")

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, tokenResponse{Token: token, User: &user})
	}
}

// login verifies credentials and issues a bearer token
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("login", err))
			return
		}

		if err := validate.Struct(req); err != nil {
			field, reason := firstValidationField(err)
			h.responder.WriteError(w, errs.NewInvalidFieldError(field, reason))
			return
		}

		user, err := h.userRepo.FindByUsername(req.Username)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find user", "user", err))
			return
		}
		if user == nil || !services.CheckPassword(user.PasswordHash, req.Password) {
			h.responder.WriteError(w, errs.NewInvalidCredentialsError())
			return
		}

		token, err := h.tokens.Issue(user.ID)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalError("failed to issue token"))
			return
		}

		h.responder.WriteJSON(w, tokenResponse{Token: token, User: user})
	}
}
