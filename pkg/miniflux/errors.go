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

package miniflux

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrInvalidCredentials is returned when the server answers 401.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ConfigurationError is returned when the server URL can't be used.
type ConfigurationError struct {
	URL string
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid server url %q: %v", e.URL, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// ValidationError is returned before any request is made when the
// arguments of an operation can't form a valid request.
type ValidationError struct {
	Op      string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Op == "" {
		return e.Message
	}
	return e.Op + ": " + e.Message
}

// APIError is a non-2xx answer from the server, other than 401.
// Message is the error_message of the response, verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

// OfflineError is returned when no response was received at all.
type OfflineError struct {
	Err error
}

func (e *OfflineError) Error() string {
	return fmt.Sprintf("you are offline: %v", e.Err)
}

func (e *OfflineError) Unwrap() error {
	return e.Err
}

// IsOffline reports whether err, or an error it wraps, is an OfflineError.
func IsOffline(err error) bool {
	var offline *OfflineError
	return errors.As(err, &offline)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}
