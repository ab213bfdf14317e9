package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Static page content served by the platform itself rather than a CMS.
const (
	aboutPageText = "Блогикум is a blogging platform: write posts, sort them " +
		"into categories, pin them to places you have been, and talk about " +
		"them in the comments."
	rulesPageText = "Be kind. Stay on topic. No spam. Scheduled posts go " +
		"live at their publication date; unpublished drafts are visible " +
		"only to their author."
)

type pagesHandler struct {
	responder   Responder
	logger      zerolog.Logger
	startupTime time.Time
}

func newPagesHandler(startupTime time.Time) pagesHandler {
	logger := log.With().Str("handlerName", "pagesHandler").Logger()

	return pagesHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		startupTime: startupTime,
	}
}

func (h pagesHandler) about() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, map[string]string{
			"title":   "About",
			"content": aboutPageText,
		})
	}
}

func (h pagesHandler) rules() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, map[string]string{
			"title":   "Rules",
			"content": rulesPageText,
		})
	}
}

func (h pagesHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, map[string]any{
			"status": "ok",
			"uptime": time.Since(h.startupTime).String(),
		})
	}
}
