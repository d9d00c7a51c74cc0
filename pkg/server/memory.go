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
	"context"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"p83.nl/go/flux/pkg/miniflux"
)

// MemoryBackend keeps users, categories, feeds and entries in memory.
// All feeds, categories and entries belong to the owner, the first user.
type MemoryBackend struct {
	lock sync.RWMutex

	owner      int64
	users      map[int64]*memoryUser
	categories map[int64]*miniflux.Category
	feeds      map[int64]*miniflux.Feed
	icons      map[int64]*miniflux.Icon
	entries    map[int64]*miniflux.Entry
	sites      map[string][]miniflux.FeedLink
	nextID     int64

	now func() time.Time
}

type memoryUser struct {
	miniflux.User
	password string
}

var _ miniflux.Miniflux = (*MemoryBackend)(nil)

// NewMemoryBackend creates a backend with one admin user and a category
// named "All".
func NewMemoryBackend(username, password string) *MemoryBackend {
	b := &MemoryBackend{
		users:      make(map[int64]*memoryUser),
		categories: make(map[int64]*miniflux.Category),
		feeds:      make(map[int64]*miniflux.Feed),
		icons:      make(map[int64]*miniflux.Icon),
		entries:    make(map[int64]*miniflux.Entry),
		sites:      make(map[string][]miniflux.FeedLink),
		now:        time.Now,
	}

	owner := b.addUser(username, password, true)
	b.owner = owner.ID
	b.addCategory("All")

	return b
}

func notFound(msg string) error {
	return &miniflux.APIError{StatusCode: http.StatusNotFound, Message: msg}
}

func badRequest(msg string) error {
	return &miniflux.APIError{StatusCode: http.StatusBadRequest, Message: msg}
}

func (b *MemoryBackend) id() int64 {
	b.nextID++
	return b.nextID
}

func (b *MemoryBackend) addUser(username, password string, isAdmin bool) *memoryUser {
	u := &memoryUser{
		User: miniflux.User{
			ID:                    b.id(),
			Username:              username,
			IsAdmin:               isAdmin,
			Language:              "en_US",
			Timezone:              "UTC",
			Theme:                 "light_serif",
			EntrySortingDirection: miniflux.DirectionAsc,
		},
		password: password,
	}
	b.users[u.ID] = u
	return u
}

func (b *MemoryBackend) addCategory(title string) *miniflux.Category {
	c := &miniflux.Category{ID: b.id(), UserID: b.owner, Title: title}
	b.categories[c.ID] = c
	return c
}

func (b *MemoryBackend) defaultCategory() *miniflux.Category {
	var first *miniflux.Category
	for _, c := range b.categories {
		if first == nil || c.ID < first.ID {
			first = c
		}
	}
	if first == nil {
		first = b.addCategory("All")
	}
	return first
}

// entry returns a copy of the entry with the current state of its feed
func (b *MemoryBackend) entry(e *miniflux.Entry) miniflux.Entry {
	entry := *e
	if feed, ok := b.feeds[e.FeedID]; ok {
		entry.Feed = *feed
	}
	return entry
}

// Authenticate checks the password of a user
func (b *MemoryBackend) Authenticate(username, password string) bool {
	b.lock.RLock()
	defer b.lock.RUnlock()
	for _, u := range b.users {
		if u.Username == username {
			return u.password == password
		}
	}
	return false
}

// AddSubscription registers the feeds that Discover finds for siteURL.
// Without links, Discover returns an empty list for the site.
func (b *MemoryBackend) AddSubscription(siteURL string, links ...miniflux.FeedLink) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.sites[siteURL] = append(b.sites[siteURL], links...)
	if b.sites[siteURL] == nil {
		b.sites[siteURL] = []miniflux.FeedLink{}
	}
}

// AddFeed stores a feed as it is, filling in the id, the owner and the
// category when they are missing.
func (b *MemoryBackend) AddFeed(feed miniflux.Feed) miniflux.Feed {
	b.lock.Lock()
	defer b.lock.Unlock()

	if feed.ID == 0 {
		feed.ID = b.id()
	} else if feed.ID > b.nextID {
		b.nextID = feed.ID
	}
	feed.UserID = b.owner
	if c, ok := b.categories[feed.Category.ID]; ok {
		feed.Category = *c
	} else {
		feed.Category = *b.defaultCategory()
	}
	feed.Icon.FeedID = feed.ID
	if feed.CheckedAt.IsZero() {
		feed.CheckedAt = b.now()
	}

	b.feeds[feed.ID] = &feed
	return feed
}

// AddEntry stores an entry of an existing feed, filling in the id, the
// owner, the hash and the status when they are missing.
func (b *MemoryBackend) AddEntry(entry miniflux.Entry) (miniflux.Entry, error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	if _, ok := b.feeds[entry.FeedID]; !ok {
		return miniflux.Entry{}, notFound("Feed not found")
	}

	if entry.ID == 0 {
		entry.ID = b.id()
	} else if entry.ID > b.nextID {
		b.nextID = entry.ID
	}
	entry.UserID = b.owner
	if entry.Status == "" {
		entry.Status = miniflux.StatusUnread
	}
	if entry.Hash == "" {
		sum := sha256.Sum256([]byte(entry.URL + entry.Title))
		entry.Hash = fmt.Sprintf("%x", sum)
	}
	if entry.PublishedAt.IsZero() {
		entry.PublishedAt = b.now()
	}
	entry.Feed = miniflux.Feed{}

	b.entries[entry.ID] = &entry
	return b.entry(&entry), nil
}

// SetIcon sets the icon of a feed
func (b *MemoryBackend) SetIcon(feedID int64, mimeType string, data []byte) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	feed, ok := b.feeds[feedID]
	if !ok {
		return notFound("Feed not found")
	}

	icon := &miniflux.Icon{
		ID:       b.id(),
		MimeType: mimeType,
		Data:     mimeType + ";base64," + base64.StdEncoding.EncodeToString(data),
	}
	b.icons[feedID] = icon
	feed.Icon = miniflux.IconReference{FeedID: feedID, IconID: icon.ID}
	return nil
}

// Discover returns the feeds registered for siteURL and the feeds whose
// site or feed URL is siteURL.
func (b *MemoryBackend) Discover(ctx context.Context, siteURL string) ([]miniflux.FeedLink, error) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	links, found := b.sites[siteURL]
	result := append([]miniflux.FeedLink{}, links...)

	for _, feed := range b.sortedFeeds() {
		if feed.SiteURL == siteURL || feed.FeedURL == siteURL {
			found = true
			result = append(result, miniflux.FeedLink{URL: feed.FeedURL, Title: feed.Title, Type: "rss"})
		}
	}

	if !found {
		return nil, notFound("No subscription found")
	}
	return result, nil
}

func (b *MemoryBackend) sortedFeeds() []*miniflux.Feed {
	feeds := make([]*miniflux.Feed, 0, len(b.feeds))
	for _, f := range b.feeds {
		feeds = append(feeds, f)
	}
	sort.Slice(feeds, func(i, j int) bool { return feeds[i].ID < feeds[j].ID })
	return feeds
}

// Feeds returns all feeds ordered by id
func (b *MemoryBackend) Feeds(ctx context.Context) ([]miniflux.Feed, error) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	feeds := []miniflux.Feed{}
	for _, f := range b.sortedFeeds() {
		feeds = append(feeds, *f)
	}
	return feeds, nil
}

// Feed returns one feed
func (b *MemoryBackend) Feed(ctx context.Context, feedID int64) (*miniflux.Feed, error) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	feed, ok := b.feeds[feedID]
	if !ok {
		return nil, notFound("Feed not found")
	}
	f := *feed
	return &f, nil
}

// FeedIcon returns the icon of a feed
func (b *MemoryBackend) FeedIcon(ctx context.Context, feedID int64) (*miniflux.Icon, error) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	if _, ok := b.feeds[feedID]; !ok {
		return nil, notFound("Feed not found")
	}
	icon, ok := b.icons[feedID]
	if !ok {
		return nil, notFound("This feed doesn't have any icon")
	}
	i := *icon
	return &i, nil
}

// CreateFeed subscribes to a feed; categoryID 0 selects the default category
func (b *MemoryBackend) CreateFeed(ctx context.Context, feedURL string, categoryID int64) (int64, error) {
	if feedURL == "" {
		return 0, &miniflux.ValidationError{Op: "create feed", Message: "The feed URL is mandatory"}
	}
	u, err := url.Parse(feedURL)
	if err != nil || u.Host == "" {
		return 0, &miniflux.ValidationError{Op: "create feed", Message: "Invalid feed URL"}
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	for _, f := range b.feeds {
		if f.FeedURL == feedURL {
			return 0, badRequest("This feed already exists")
		}
	}

	var category *miniflux.Category
	if categoryID == 0 {
		category = b.defaultCategory()
	} else if c, ok := b.categories[categoryID]; ok {
		category = c
	} else {
		return 0, badRequest("This category does not exist or does not belong to this user")
	}

	feed := &miniflux.Feed{
		ID:        b.id(),
		UserID:    b.owner,
		Title:     u.Host,
		SiteURL:   u.Scheme + "://" + u.Host,
		FeedURL:   feedURL,
		CheckedAt: b.now(),
		Category:  *category,
	}
	feed.Icon.FeedID = feed.ID
	b.feeds[feed.ID] = feed

	return feed.ID, nil
}

// UpdateFeed changes the title and/or the category of a feed
func (b *MemoryBackend) UpdateFeed(ctx context.Context, feedID int64, title *string, categoryID *int64) (*miniflux.Feed, error) {
	if title == nil && categoryID == nil {
		return nil, &miniflux.ValidationError{Op: "update feed", Message: "No title or category specified"}
	}
	if title != nil && strings.TrimSpace(*title) == "" {
		return nil, &miniflux.ValidationError{Op: "update feed", Message: "The title is mandatory"}
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	feed, ok := b.feeds[feedID]
	if !ok {
		return nil, notFound("Feed not found")
	}

	if categoryID != nil {
		c, ok := b.categories[*categoryID]
		if !ok {
			return nil, badRequest("This category does not exist or does not belong to this user")
		}
		feed.Category = *c
	}
	if title != nil {
		feed.Title = *title
	}

	f := *feed
	return &f, nil
}

// RefreshFeed marks the feed as checked now
func (b *MemoryBackend) RefreshFeed(ctx context.Context, feedID int64) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	feed, ok := b.feeds[feedID]
	if !ok {
		return notFound("Feed not found")
	}
	feed.CheckedAt = b.now()
	feed.ParsingErrorCount = 0
	feed.ParsingErrorMessage = ""
	return nil
}

// RemoveFeed removes a feed with its entries and icon
func (b *MemoryBackend) RemoveFeed(ctx context.Context, feedID int64) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	if _, ok := b.feeds[feedID]; !ok {
		return notFound("Feed not found")
	}
	b.removeFeed(feedID)
	return nil
}

func (b *MemoryBackend) removeFeed(feedID int64) {
	delete(b.feeds, feedID)
	delete(b.icons, feedID)
	for id, e := range b.entries {
		if e.FeedID == feedID {
			delete(b.entries, id)
		}
	}
}
