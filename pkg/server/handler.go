/*
 *  Flux is a client for the Miniflux API
 *  Copyright (c) 2021 The Ekster authors
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

// Package server exposes a Miniflux backend over the v1 HTTP API
package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"p83.nl/go/flux/pkg/miniflux"
)

const (
	OutputContentType = "application/json; charset=utf-8"
	ExportContentType = "text/xml; charset=utf-8"
)

type handler struct {
	backend miniflux.Miniflux
	router  chi.Router
}

func respondJSON(w http.ResponseWriter, status int, value interface{}) {
	w.Header().Set("Content-Type", OutputContentType)
	w.WriteHeader(status)
	jw := json.NewEncoder(w)
	jw.SetIndent("", "    ")
	jw.SetEscapeHTML(false)
	if err := jw.Encode(value); err != nil {
		log.Printf("could not write response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, miniflux.ErrorResponse{ErrorMessage: message})
}

// respondBackendError writes the status that belongs to err
func respondBackendError(w http.ResponseWriter, err error) {
	var apiErr *miniflux.APIError
	var validationErr *miniflux.ValidationError

	switch {
	case errors.As(err, &apiErr):
		respondError(w, apiErr.StatusCode, apiErr.Message)
	case errors.As(err, &validationErr):
		respondError(w, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, miniflux.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "Access Unauthorized")
	case miniflux.IsOffline(err):
		respondError(w, http.StatusBadGateway, err.Error())
	default:
		log.Printf("backend error: %+v", err)
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return false
	}
	return true
}

// NewHandler returns the v1 API for backend. Authentication is added with WithAuth.
func NewHandler(backend miniflux.Miniflux) http.Handler {
	h := &handler{backend: backend}

	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/discover", h.discover)

		r.Get("/feeds", h.feeds)
		r.Post("/feeds", h.createFeed)
		r.Get("/feeds/{feedID}", h.feed)
		r.Put("/feeds/{feedID}", h.updateFeed)
		r.Delete("/feeds/{feedID}", h.removeFeed)
		r.Put("/feeds/{feedID}/refresh", h.refreshFeed)
		r.Get("/feeds/{feedID}/icon", h.feedIcon)
		r.Get("/feeds/{feedID}/entries", h.feedEntries)
		r.Get("/feeds/{feedID}/entries/{entryID}", h.feedEntry)

		r.Get("/entries", h.entries)
		r.Put("/entries", h.updateEntries)
		r.Get("/entries/{entryID}", h.entry)
		r.Put("/entries/{entryID}/bookmark", h.toggleBookmark)

		r.Get("/categories", h.categories)
		r.Post("/categories", h.createCategory)
		r.Put("/categories/{categoryID}", h.updateCategory)
		r.Delete("/categories/{categoryID}", h.deleteCategory)

		r.Get("/export", h.export)

		r.Get("/users", h.users)
		r.Post("/users", h.createUser)
		r.Get("/users/{userID}", h.user)
		r.Put("/users/{userID}", h.updateUser)
		r.Delete("/users/{userID}", h.deleteUser)
	})

	h.router = r
	return h
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log.Printf("Incoming request: %s %s\n", r.Method, r.URL)
	h.router.ServeHTTP(w, r)
}
