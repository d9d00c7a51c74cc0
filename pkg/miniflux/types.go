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
	"time"
)

// EntryStatus is the read state of an entry
type EntryStatus string

// Entry statuses
const (
	StatusRead    EntryStatus = "read"
	StatusUnread  EntryStatus = "unread"
	StatusRemoved EntryStatus = "removed"
)

// Valid reports whether s is one of the known statuses.
func (s EntryStatus) Valid() bool {
	switch s {
	case StatusRead, StatusUnread, StatusRemoved:
		return true
	}
	return false
}

// EntryOrder is the field entries are sorted by
type EntryOrder string

// Entry orders
const (
	OrderID            EntryOrder = "id"
	OrderStatus        EntryOrder = "status"
	OrderPublishedAt   EntryOrder = "published_at"
	OrderCategoryTitle EntryOrder = "category_title"
	OrderCategoryID    EntryOrder = "category_id"
)

// Valid reports whether o is one of the known orders.
func (o EntryOrder) Valid() bool {
	switch o {
	case OrderID, OrderStatus, OrderPublishedAt, OrderCategoryTitle, OrderCategoryID:
		return true
	}
	return false
}

// EntryDirection is the sort direction
type EntryDirection string

// Sort directions
const (
	DirectionAsc  EntryDirection = "asc"
	DirectionDesc EntryDirection = "desc"
)

// Valid reports whether d is asc or desc.
func (d EntryDirection) Valid() bool {
	return d == DirectionAsc || d == DirectionDesc
}

// Category groups feeds of a user
type Category struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"user_id"`
	Title  string `json:"title"`
}

// IconReference points to the icon of a feed
type IconReference struct {
	FeedID int64 `json:"feed_id"`
	IconID int64 `json:"icon_id"`
}

// Icon is the icon of a feed. Data is formatted as "mime/type;base64,payload".
type Icon struct {
	ID       int64  `json:"id"`
	Data     string `json:"data"`
	MimeType string `json:"mime_type"`
}

// Feed is a subscription
type Feed struct {
	ID                  int64         `json:"id"`
	UserID              int64         `json:"user_id"`
	Title               string        `json:"title"`
	SiteURL             string        `json:"site_url"`
	FeedURL             string        `json:"feed_url"`
	RewriteRules        string        `json:"rewrite_rules"`
	ScraperRules        string        `json:"scraper_rules"`
	Crawler             bool          `json:"crawler"`
	CheckedAt           time.Time     `json:"checked_at"`
	EtagHeader          string        `json:"etag_header"`
	LastModifiedHeader  string        `json:"last_modified_header"`
	ParsingErrorCount   int           `json:"parsing_error_count"`
	ParsingErrorMessage string        `json:"parsing_error_message"`
	Category            Category      `json:"category"`
	Icon                IconReference `json:"icon"`
}

// Entry is one item of a feed
type Entry struct {
	ID          int64       `json:"id"`
	UserID      int64       `json:"user_id"`
	FeedID      int64       `json:"feed_id"`
	Title       string      `json:"title"`
	URL         string      `json:"url"`
	CommentsURL string      `json:"comments_url"`
	Author      string      `json:"author"`
	Content     string      `json:"content"`
	Hash        string      `json:"hash"`
	PublishedAt time.Time   `json:"published_at"`
	Status      EntryStatus `json:"status"`
	Starred     bool        `json:"starred"`
	Feed        Feed        `json:"feed"`
}

// EntryList is one page of a, possibly filtered, list of entries
type EntryList struct {
	Total   int     `json:"total"`
	Entries []Entry `json:"entries"`
}

// User is an account on the server
type User struct {
	ID                    int64          `json:"id"`
	Username              string         `json:"username"`
	IsAdmin               bool           `json:"is_admin"`
	Language              string         `json:"language"`
	Timezone              string         `json:"timezone"`
	Theme                 string         `json:"theme"`
	EntrySortingDirection EntryDirection `json:"entry_sorting_direction"`
}

// UserSettings holds the fields to change on a user. Nil fields are not sent.
type UserSettings struct {
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
	IsAdmin  *bool   `json:"is_admin,omitempty"`
	Theme    *string `json:"theme,omitempty"`
	Language *string `json:"language,omitempty"`
	Timezone *string `json:"timezone,omitempty"`
}

// FeedLink is a feed found on a website
type FeedLink struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

// CreatedFeed is returned when a feed was created
type CreatedFeed struct {
	FeedID int64 `json:"feed_id"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	ErrorMessage string `json:"error_message"`
}

// String returns a pointer to s, for use in UserSettings and UpdateFeed.
func String(s string) *string { return &s }

// Int returns a pointer to n, for use in Filter.
func Int(n int) *int { return &n }

// Int64 returns a pointer to n.
func Int64(n int64) *int64 { return &n }

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }
