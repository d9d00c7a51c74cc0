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

package server

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"p83.nl/go/flux/pkg/miniflux"
)

type feedModificationRequest struct {
	Title    *string `json:"title"`
	Category *struct {
		ID int64 `json:"id"`
	} `json:"category"`
	CategoryID *int64 `json:"category_id"`
}

type entriesStatusUpdateRequest struct {
	EntryIDs []int64             `json:"entry_ids"`
	Status   miniflux.EntryStatus `json:"status"`
}

type userCreationRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
}

func (h *handler) discover(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	links, err := h.backend.Discover(r.Context(), req.URL)
	if err != nil {
		respondBackendError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, links)
}

func (h *handler) feeds(w http.ResponseWriter, r *http.Request) {
	feeds, err := h.backend.Feeds(r.Context())
	if err != nil {
		respondBackendError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, feeds)
}

func (h *handler) feed(w http.ResponseWriter, r *http.Request) {
	feedID, ok := idParam(r, "feedID")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid feed ID")
		return
	}
	feed, err := h.backend.Feed(r.Context(), feedID)
	if err != nil {
		respondBackendError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, feed)
}

func (h *handler) feedIcon(w http.ResponseWriter, r *http.Request) {
	feedID, ok := idParam(r, "feedID")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid feed ID")
		return
	}
	icon, err := h.backend.FeedIcon(r.Context(), feedID)
	if err != nil {
		respondBackendError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, icon)
}

func (h *handler) createFeed(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FeedURL    string `json:"feed_url"`
		CategoryID int64  `json:"category_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	feedID, err := h.backend.CreateFeed(r.Context(), req.FeedURL, req.CategoryID)
	if err != nil {
		respondBackendError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, miniflux.CreatedFeed{FeedID: feedID})
}

func (h *handler) updateFeed(w http.ResponseWriter, r *http.Request) {
	feedID, ok := idParam(r, "feedID")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid feed ID")
		return
	}
	var req feedModificationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	categoryID := req.CategoryID
	if req.Category != nil {
		categoryID = &req.Category.ID
	}
	feed, err := h.backend.UpdateFeed(r.Context(), feedID, req.Title, categoryID)
	if err != nil {
		respondBackendError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, feed)
}

func (h *handler) refreshFeed(w http.ResponseWriter, r *http.Request) {
	feedID, ok := idParam(r, "feedID")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid feed ID")
		return
	}
	if err := h.backend.RefreshFeed(r.Context(), feedID); err != nil {
		respondBackendError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) removeFeed(w http.ResponseWriter, r *http.Request) {
	feedID, ok := idParam(r, "feedID")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid feed ID")
		return
	}
	if err := h.backend.RemoveFeed(r.Context(), feedID); err != nil {
		respondBackendError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) feedEntries(w http.ResponseWriter, r *http.Request) {
	feedID, ok := idParam(r, "feedID")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid feed ID")
		return
	}
	filter, err := miniflux.ParseFilter(r.URL.Query())
	if err != nil {
		respondBackendError(w, err)
		return
	}
	list, err := h.backend.FeedEntries(r.Context(), feedID, filter)
	if err != nil {
		respondBackendError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (h *handler) feedEntry(w http.ResponseWriter, r *http.Request) {
	feedID, ok := idParam(r, "feedID")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid feed ID")
		return
	}
	entryID, ok := idParam(r, "entryID")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid entry ID")
		return
	}
	entry, err := h.backend.FeedEntry(r.Context(), feedID, entryID)
	if err != nil {
		respondBackendError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

func (h *handler) entries(w http.ResponseWriter, r *http.Request) {
	filter, err := miniflux.ParseFilter(r.URL.Query())
	if err != nil {
		respondBackendError(w, err)
		return
	}
	list, err := h.backend.Entries(r.Context(), filter)
	if err != nil {
		respondBackendError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (h *handler) entry(w http.ResponseWriter, r *http.Request) {
	entryID, ok := idParam(r, "entryID")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid entry ID")
		return
	}
	entry, err := h.backend.Entry(r.Context(), entryID)
	if err != nil {
		respondBackendError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

func (h *handler) updateEntries(w http.ResponseWriter, r *http.Request) {
	var req entriesStatusUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.backend.UpdateEntries(r.Context(), req.EntryIDs, req.Status); err != nil {
		respondBackendError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) toggleBookmark(w http.ResponseWriter, r *http.Request) {
	entryID, ok := idParam(r, "entryID")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid entry ID")
		return
	}
	if err := h.backend.ToggleBookmark(r.Context(), entryID); err != nil {
		respondBackendError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.backend.Categories(r.Context())
	if err != nil {
		respondBackendError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

func (h *handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	category, err := h.backend.CreateCategory(r.Context(), req.Title)
	if err != nil {
		respondBackendError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, category)
}

func (h *handler) updateCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := idParam(r, "categoryID")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}
	var req struct {
		Title string `json:"title"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	category, err := h.backend.UpdateCategory(r.Context(), categoryID, req.Title)
	if err != nil {
		respondBackendError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, category)
}

func (h *handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := idParam(r, "categoryID")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}
	if err := h.backend.DeleteCategory(r.Context(), categoryID); err != nil {
		respondBackendError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) export(w http.ResponseWriter, r *http.Request) {
	doc, err := h.backend.Export(r.Context())
	if err != nil {
		respondBackendError(w, err)
		return
	}
	w.Header().Set("Content-Type", ExportContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}

func (h *handler) users(w http.ResponseWriter, r *http.Request) {
	users, err := h.backend.Users(r.Context())
	if err != nil {
		respondBackendError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

// user accepts an id or a username
func (h *handler) user(w http.ResponseWriter, r *http.Request) {
	var user *miniflux.User
	var err error

	param := chi.URLParam(r, "userID")
	if unescaped, uerr := url.PathUnescape(param); uerr == nil {
		param = unescaped
	}
	if id, perr := strconv.ParseInt(param, 10, 64); perr == nil {
		user, err = h.backend.UserByID(r.Context(), id)
	} else {
		user, err = h.backend.UserByUsername(r.Context(), param)
	}
	if err != nil {
		respondBackendError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (h *handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req userCreationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	user, err := h.backend.CreateUser(r.Context(), req.Username, req.Password, req.IsAdmin)
	if err != nil {
		respondBackendError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

func (h *handler) updateUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := idParam(r, "userID")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	var settings miniflux.UserSettings
	if !decodeBody(w, r, &settings) {
		return
	}
	user, err := h.backend.UpdateUser(r.Context(), userID, settings)
	if err != nil {
		respondBackendError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

func (h *handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := idParam(r, "userID")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	if err := h.backend.DeleteUser(r.Context(), userID); err != nil {
		respondBackendError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
