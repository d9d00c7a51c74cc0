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

// Package miniflux describes the resources and remote methods of the Miniflux v1 API
package miniflux

import "context"

/*
	discover
	feeds / icons / refresh
	entries / bookmark
	categories
	export
	users
*/

// Miniflux is implemented by everything that can answer the v1 API:
// the HTTP client and the in-memory server backend.
type Miniflux interface {
	Discover(ctx context.Context, siteURL string) ([]FeedLink, error)

	Feeds(ctx context.Context) ([]Feed, error)
	Feed(ctx context.Context, feedID int64) (*Feed, error)
	FeedIcon(ctx context.Context, feedID int64) (*Icon, error)
	CreateFeed(ctx context.Context, feedURL string, categoryID int64) (int64, error)
	UpdateFeed(ctx context.Context, feedID int64, title *string, categoryID *int64) (*Feed, error)
	RefreshFeed(ctx context.Context, feedID int64) error
	RemoveFeed(ctx context.Context, feedID int64) error

	FeedEntry(ctx context.Context, feedID, entryID int64) (*Entry, error)
	FeedEntries(ctx context.Context, feedID int64, filter *Filter) (*EntryList, error)
	Entry(ctx context.Context, entryID int64) (*Entry, error)
	Entries(ctx context.Context, filter *Filter) (*EntryList, error)
	UpdateEntries(ctx context.Context, entryIDs []int64, status EntryStatus) error
	ToggleBookmark(ctx context.Context, entryID int64) error

	Categories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, title string) (*Category, error)
	UpdateCategory(ctx context.Context, categoryID int64, title string) (*Category, error)
	DeleteCategory(ctx context.Context, categoryID int64) error

	Export(ctx context.Context) (string, error)

	Users(ctx context.Context) ([]User, error)
	UserByID(ctx context.Context, userID int64) (*User, error)
	UserByUsername(ctx context.Context, username string) (*User, error)
	CreateUser(ctx context.Context, username, password string, isAdmin bool) (*User, error)
	UpdateUser(ctx context.Context, userID int64, settings UserSettings) (*User, error)
	DeleteUser(ctx context.Context, userID int64) error
}
