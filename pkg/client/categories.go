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

	"p83.nl/go/flux/pkg/miniflux"
)

type categoryRequest struct {
	Title string `json:"title"`
}

// Categories gets the categories of the user
func (c *Client) Categories(ctx context.Context) ([]miniflux.Category, error) {
	var categories []miniflux.Category
	if err := c.get(ctx, "/v1/categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateCategory creates a category
func (c *Client) CreateCategory(ctx context.Context, title string) (*miniflux.Category, error) {
	var category miniflux.Category
	if err := c.post(ctx, "/v1/categories", &categoryRequest{Title: title}, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// UpdateCategory renames a category
func (c *Client) UpdateCategory(ctx context.Context, categoryID int64, title string) (*miniflux.Category, error) {
	var category miniflux.Category
	if err := c.put(ctx, fmt.Sprintf("/v1/categories/%d", categoryID), &categoryRequest{Title: title}, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory deletes a category
func (c *Client) DeleteCategory(ctx context.Context, categoryID int64) error {
	return c.delete(ctx, fmt.Sprintf("/v1/categories/%d", categoryID))
}
