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

type discoverRequest struct {
	URL string `json:"url"`
}

type feedCreationRequest struct {
	FeedURL    string `json:"feed_url"`
	CategoryID int64  `json:"category_id,omitempty"`
}

type categoryReference struct {
	ID int64 `json:"id"`
}

type feedModificationRequest struct {
	Title    *string            `json:"title,omitempty"`
	Category *categoryReference `json:"category,omitempty"`
}

// Discover finds the feeds published by the website at siteURL. No feeds is
// not an error: the result is an empty slice.
func (c *Client) Discover(ctx context.Context, siteURL string) ([]miniflux.FeedLink, error) {
	var links []miniflux.FeedLink
	err := c.post(ctx, "/v1/discover", &discoverRequest{URL: siteURL}, &links)
	if err != nil {
		return nil, err
	}
	if links == nil {
		links = []miniflux.FeedLink{}
	}
	return links, nil
}

// Feeds gets all feeds of the user
func (c *Client) Feeds(ctx context.Context) ([]miniflux.Feed, error) {
	var feeds []miniflux.Feed
	if err := c.get(ctx, "/v1/feeds", &feeds); err != nil {
		return nil, err
	}
	return feeds, nil
}

// Feed gets one feed
func (c *Client) Feed(ctx context.Context, feedID int64) (*miniflux.Feed, error) {
	var feed miniflux.Feed
	if err := c.get(ctx, fmt.Sprintf("/v1/feeds/%d", feedID), &feed); err != nil {
		return nil, err
	}
	return &feed, nil
}

// FeedIcon gets the icon of a feed
func (c *Client) FeedIcon(ctx context.Context, feedID int64) (*miniflux.Icon, error) {
	var icon miniflux.Icon
	if err := c.get(ctx, fmt.Sprintf("/v1/feeds/%d/icon", feedID), &icon); err != nil {
		return nil, err
	}
	return &icon, nil
}

// CreateFeed subscribes to feedURL and returns the id of the new feed.
// A categoryID of 0 puts the feed in the default category of the user.
func (c *Client) CreateFeed(ctx context.Context, feedURL string, categoryID int64) (int64, error) {
	var created miniflux.CreatedFeed
	err := c.post(ctx, "/v1/feeds", &feedCreationRequest{FeedURL: feedURL, CategoryID: categoryID}, &created)
	if err != nil {
		return 0, err
	}
	return created.FeedID, nil
}

// UpdateFeed changes the title and/or the category of a feed. Only the
// arguments that are not nil are sent; at least one is required.
func (c *Client) UpdateFeed(ctx context.Context, feedID int64, title *string, categoryID *int64) (*miniflux.Feed, error) {
	if title == nil && categoryID == nil {
		return nil, &miniflux.ValidationError{Op: "update feed", Message: "No title or category specified"}
	}

	body := feedModificationRequest{Title: title}
	if categoryID != nil {
		body.Category = &categoryReference{ID: *categoryID}
	}

	var feed miniflux.Feed
	if err := c.put(ctx, fmt.Sprintf("/v1/feeds/%d", feedID), &body, &feed); err != nil {
		return nil, err
	}
	return &feed, nil
}

// RefreshFeed asks the server to fetch the feed now
func (c *Client) RefreshFeed(ctx context.Context, feedID int64) error {
	return c.put(ctx, fmt.Sprintf("/v1/feeds/%d/refresh", feedID), nil, nil)
}

// RemoveFeed unsubscribes from a feed
func (c *Client) RemoveFeed(ctx context.Context, feedID int64) error {
	return c.delete(ctx, fmt.Sprintf("/v1/feeds/%d", feedID))
}
