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

package client

import (
	"context"
	"fmt"
	"net/url"

	"p83.nl/go/flux/pkg/miniflux"
)

type userCreationRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
}

// Users gets all users. Only admins are allowed to do this.
func (c *Client) Users(ctx context.Context) ([]miniflux.User, error) {
	var users []miniflux.User
	if err := c.get(ctx, "/v1/users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UserByID gets a user by id
func (c *Client) UserByID(ctx context.Context, userID int64) (*miniflux.User, error) {
	return c.user(ctx, fmt.Sprint(userID))
}

// UserByUsername gets a user by username
func (c *Client) UserByUsername(ctx context.Context, username string) (*miniflux.User, error) {
	return c.user(ctx, url.PathEscape(username))
}

// user fetches /v1/users/{user}, the server decides if it is an id or a name.
func (c *Client) user(ctx context.Context, segment string) (*miniflux.User, error) {
	var user miniflux.User
	if err := c.get(ctx, "/v1/users/"+segment, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser creates a user
func (c *Client) CreateUser(ctx context.Context, username, password string, isAdmin bool) (*miniflux.User, error) {
	if username == "" || password == "" {
		return nil, &miniflux.ValidationError{Op: "create user", Message: "The username and password are mandatory"}
	}

	var user miniflux.User
	body := &userCreationRequest{Username: username, Password: password, IsAdmin: isAdmin}
	if err := c.post(ctx, "/v1/users", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser changes the settings of a user. Only the fields of settings
// that are set are sent.
func (c *Client) UpdateUser(ctx context.Context, userID int64, settings miniflux.UserSettings) (*miniflux.User, error) {
	var user miniflux.User
	if err := c.put(ctx, fmt.Sprintf("/v1/users/%d", userID), &settings, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser deletes a user
func (c *Client) DeleteUser(ctx context.Context, userID int64) error {
	return c.delete(ctx, fmt.Sprintf("/v1/users/%d", userID))
}
