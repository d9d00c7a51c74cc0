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
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestIsOffline(t *testing.T) {
	err := errors.Wrap(&OfflineError{Err: io.ErrUnexpectedEOF}, "get /v1/feeds")
	assert.True(t, IsOffline(err))
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	assert.False(t, IsOffline(&APIError{StatusCode: 500, Message: "boom"}))
	assert.False(t, IsOffline(nil))
}

func TestAPIError(t *testing.T) {
	err := fmt.Errorf("discover: %w", &APIError{StatusCode: 404, Message: "No subscription found"})
	var apiErr *APIError
	if assert.True(t, errors.As(err, &apiErr)) {
		assert.Equal(t, "No subscription found", apiErr.Message)
	}
	assert.True(t, IsNotFound(err))
	assert.False(t, IsOffline(err))
	assert.Equal(t, "404: No subscription found", apiErr.Error())
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Op: "update feed", Message: "No title or category specified"}
	assert.Equal(t, "update feed: No title or category specified", err.Error())
	assert.Equal(t, "No title or category specified", (&ValidationError{Message: "No title or category specified"}).Error())
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusRead.Valid())
	assert.True(t, StatusUnread.Valid())
	assert.True(t, StatusRemoved.Valid())
	assert.False(t, EntryStatus("starred").Valid())
	assert.True(t, OrderPublishedAt.Valid())
	assert.False(t, EntryOrder("").Valid())
	assert.False(t, EntryDirection("up").Valid())
}
