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


// Package jsonfeed reads and writes feeds in the JSON Feed format
package jsonfeed

import (
	"encoding/json"
	"io"
	"net/url"
	"strconv"
	"time"

	"p83.nl/go/flux/pkg/content"
	"p83.nl/go/flux/pkg/miniflux"
)

// Version is the version of JSON Feed that FromEntries writes
const Version = "https://jsonfeed.org/version/1.1"

// Attachment contains attachments for podcasts
type Attachment struct {
	URL               string `json:"url"`
	MimeType          string `json:"mime_type"`
	Title             string `json:"title,omitempty"`
	SizeInBytes       int    `json:"size_in_bytes,omitempty"`
	DurationInSeconds int    `json:"duration_in_seconds,omitempty"`
}

// Item is the main item in the feed
type Item struct {
	ID            string       `json:"id"`
	URL           string       `json:"url,omitempty"`
	ExternalURL   string       `json:"external_url,omitempty"`
	Title         string       `json:"title,omitempty"`
	ContentHTML   string       `json:"content_html,omitempty"`
	ContentText   string       `json:"content_text,omitempty"`
	Summary       string       `json:"summary,omitempty"`
	Image         string       `json:"image,omitempty"`
	DatePublished string       `json:"date_published,omitempty"`
	Authors       []Author     `json:"authors,omitempty"`
	Tags          []string     `json:"tags,omitempty"`
	Attachments   []Attachment `json:"attachments,omitempty"`

	// Author is the single author of version 1 feeds
	Author *Author `json:"author,omitempty"`
}

// Author is the author of the Item
type Author struct {
	Name   string `json:"name,omitempty"`
	URL    string `json:"url,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// Hub contains a reference to a feed hub
type Hub struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// Feed is the main object
type Feed struct {
	Version     string   `json:"version"`
	Title       string   `json:"title"`
	HomePageURL string   `json:"home_page_url,omitempty"`
	FeedURL     string   `json:"feed_url,omitempty"`
	Description string   `json:"description,omitempty"`
	NextURL     string   `json:"next_url,omitempty"`
	Icon        string   `json:"icon,omitempty"`
	Favicon     string   `json:"favicon,omitempty"`
	Language    string   `json:"language,omitempty"`
	Authors     []Author `json:"authors,omitempty"`
	Items       []Item   `json:"items"`
	Hubs        []Hub    `json:"hubs,omitempty"`

	// Author is the single author of version 1 feeds
	Author *Author `json:"author,omitempty"`
}

// Parse parses a jsonfeed
func Parse(body io.Reader) (Feed, error) {
	var feed Feed
	err := json.NewDecoder(body).Decode(&feed)
	return feed, err
}

// FromEntries creates a feed with one item per entry, in the order of the list.
func FromEntries(title, homePageURL string, list *miniflux.EntryList) Feed {
	feed := Feed{
		Version:     Version,
		Title:       title,
		HomePageURL: homePageURL,
		Items:       []Item{},
	}
	if list == nil {
		return feed
	}

	for _, entry := range list.Entries {
		feed.Items = append(feed.Items, itemFromEntry(entry))
	}
	return feed
}

func itemFromEntry(entry miniflux.Entry) Item {
	item := Item{
		ID:          strconv.FormatInt(entry.ID, 10),
		URL:         entry.URL,
		ExternalURL: entry.CommentsURL,
		Title:       entry.Title,
		ContentHTML: entry.Content,
	}

	if base, err := url.Parse(entry.URL); err == nil && base.IsAbs() {
		if resolved, err := content.ResolveLinks(entry.Content, base); err == nil {
			item.ContentHTML = resolved
		}
	}

	if !entry.PublishedAt.IsZero() {
		item.DatePublished = entry.PublishedAt.Format(time.RFC3339)
	}
	if entry.Author != "" {
		item.Authors = []Author{{Name: entry.Author}}
	}
	if entry.Feed.Category.Title != "" {
		item.Tags = []string{entry.Feed.Category.Title}
	}
	return item
}
