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

type entriesStatusUpdateRequest struct {
	EntryIDs []int64             `json:"entry_ids"`
	Status   miniflux.EntryStatus `json:"status"`
}

func withFilter(path string, filter *miniflux.Filter) string {
	if query := filter.Encode(); query != "" {
		return path + "?" + query
	}
	return path
}

// FeedEntry gets one entry of a feed
func (c *Client) FeedEntry(ctx context.Context, feedID, entryID int64) (*miniflux.Entry, error) {
	var entry miniflux.Entry
	if err := c.get(ctx, fmt.Sprintf("/v1/feeds/%d/entries/%d", feedID, entryID), &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// FeedEntries gets the entries of a feed. filter may be nil.
func (c *Client) FeedEntries(ctx context.Context, feedID int64, filter *miniflux.Filter) (*miniflux.EntryList, error) {
	var list miniflux.EntryList
	if err := c.get(ctx, withFilter(fmt.Sprintf("/v1/feeds/%d/entries", feedID), filter), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Entry gets one entry
func (c *Client) Entry(ctx context.Context, entryID int64) (*miniflux.Entry, error) {
	var entry miniflux.Entry
	if err := c.get(ctx, fmt.Sprintf("/v1/entries/%d", entryID), &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Entries gets the entries of all feeds. filter may be nil.
func (c *Client) Entries(ctx context.Context, filter *miniflux.Filter) (*miniflux.EntryList, error) {
	var list miniflux.EntryList
	if err := c.get(ctx, withFilter("/v1/entries", filter), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// UpdateEntries sets the status of the entries
func (c *Client) UpdateEntries(ctx context.Context, entryIDs []int64, status miniflux.EntryStatus) error {
	if len(entryIDs) == 0 {
		return &miniflux.ValidationError{Op: "update entries", Message: "No entries specified"}
	}
	if !status.Valid() {
		return &miniflux.ValidationError{Op: "update entries", Message: fmt.Sprintf("Invalid entry status %q", status)}
	}
	return c.put(ctx, "/v1/entries", &entriesStatusUpdateRequest{EntryIDs: entryIDs, Status: status}, nil)
}

// ToggleBookmark stars or unstars an entry
func (c *Client) ToggleBookmark(ctx context.Context, entryID int64) error {
	return c.put(ctx, fmt.Sprintf("/v1/entries/%d/bookmark", entryID), nil, nil)
}
