package api

import (
	"encoding/json"
	"net/http"

	"github.com/avolkov/blogicum-backend/database"
	"github.com/avolkov/blogicum-backend/errs"
	"github.com/avolkov/blogicum-backend/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type locationHandler struct {
	responder    Responder
	logger       zerolog.Logger
	locationRepo *database.LocationRepo
}

func newLocationHandler(locationRepo *database.LocationRepo) locationHandler {
	logger := log.With().Str("handlerName", "locationHandler").Logger()

	return locationHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		locationRepo: locationRepo,
	}
}

// listLocations returns all published locations
func (h locationHandler) listLocations() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		locations, err := h.locationRepo.FindPublished()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find locations", "locations", err))
			return
		}
		if locations == nil {
			locations = []*models.Location{}
		}

		h.responder.WriteJSON(w, map[string]any{"locations": locations})
	}
}

// createLocation adds a location. Superuser only.
func (h locationHandler) createLocation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req locationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("location", err))
			return
		}

		if err := validate.Struct(req); err != nil {
			field, reason := firstValidationField(err)
			h.responder.WriteError(w, errs.NewInvalidFieldError(field, reason))
			return
		}

		location := models.Location{Name: req.Name, IsPublished: true}
		if req.IsPublished != nil {
			location.IsPublished = *req.IsPublished
		}

		if err := h.locationRepo.Add(&location); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create location", "location", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, &location)
	}
}

// updateLocation edits a location. Superuser only.
func (h locationHandler) updateLocation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		location, apiErr := h.locationFromRequest(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		var req locationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("location", err))
			return
		}

		if err := validate.Struct(req); err != nil {
			field, reason := firstValidationField(err)
			h.responder.WriteError(w, errs.NewInvalidFieldError(field, reason))
			return
		}

		location.Name = req.Name
		if req.IsPublished != nil {
			location.IsPublished = *req.IsPublished
		}

		if err := h.locationRepo.Update(location); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update location", "location", err))
			return
		}

		h.responder.WriteJSON(w, location)
	}
}

// deleteLocation removes a location. Superuser only.
func (h locationHandler) deleteLocation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		location, apiErr := h.locationFromRequest(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		if err := h.locationRepo.Delete(location.ID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete location", "location", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "location deleted successfully",
		})
	}
}

func (h locationHandler) locationFromRequest(r *http.Request) (*models.Location, *errs.ApiErr) {
	locationID, err := uuid.Parse(chi.URLParam(r, "locationID"))
	if err != nil {
		return nil, errs.NewBadRequestError("invalid locationID")
	}

	location, err := h.locationRepo.FindByID(locationID)
	if err != nil {
		return nil, errs.NewDatabaseError("find location", "location", err)
	}
	if location == nil {
		return nil, errs.NewNotFound("location")
	}
	return location, nil
}
