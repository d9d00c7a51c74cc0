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
	"log"
	"net/http"
)

// Authenticator checks the credentials of a request
type Authenticator interface {
	Authenticate(username, password string) bool
}

// WithAuth adds HTTP Basic authentication to a http.Handler
func WithAuth(handler http.Handler, auth Authenticator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok {
			log.Println("No credentials found in the request")
			respondError(w, http.StatusUnauthorized, "Access Unauthorized")
			return
		}

		if !auth.Authenticate(username, password) {
			log.Printf("Credentials of %q could not be validated", username)
			respondError(w, http.StatusUnauthorized, "Access Unauthorized")
			return
		}

		handler.ServeHTTP(w, r)
	})
}

// New returns the authenticated v1 API served from memory
func New(backend *MemoryBackend) http.Handler {
	return WithAuth(NewHandler(backend), backend)
}
