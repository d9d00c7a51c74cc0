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
	"fmt"
	"sort"
	"strings"

	"p83.nl/go/flux/pkg/miniflux"
)

// FeedEntry returns an entry of a feed
func (b *MemoryBackend) FeedEntry(ctx context.Context, feedID, entryID int64) (*miniflux.Entry, error) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	e, ok := b.entries[entryID]
	if !ok || e.FeedID != feedID {
		return nil, notFound("Entry not found")
	}
	entry := b.entry(e)
	return &entry, nil
}

// FeedEntries lists the entries of a feed
func (b *MemoryBackend) FeedEntries(ctx context.Context, feedID int64, filter *miniflux.Filter) (*miniflux.EntryList, error) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	if _, ok := b.feeds[feedID]; !ok {
		return nil, notFound("Feed not found")
	}
	return b.listEntries(func(e *miniflux.Entry) bool { return e.FeedID == feedID }, filter)
}

// Entry returns one entry
func (b *MemoryBackend) Entry(ctx context.Context, entryID int64) (*miniflux.Entry, error) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	e, ok := b.entries[entryID]
	if !ok {
		return nil, notFound("Entry not found")
	}
	entry := b.entry(e)
	return &entry, nil
}

// Entries lists the entries of all feeds
func (b *MemoryBackend) Entries(ctx context.Context, filter *miniflux.Filter) (*miniflux.EntryList, error) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	return b.listEntries(func(e *miniflux.Entry) bool { return true }, filter)
}

// listEntries selects, sorts and pages entries. Total counts the selected
// entries before paging.
func (b *MemoryBackend) listEntries(match func(e *miniflux.Entry) bool, filter *miniflux.Filter) (*miniflux.EntryList, error) {
	var f miniflux.Filter
	if filter != nil {
		f = *filter
	}
	if f.Offset != nil && *f.Offset < 0 {
		return nil, &miniflux.ValidationError{Op: "filter", Message: fmt.Sprintf("Offset must be a positive number: %d", *f.Offset)}
	}
	if f.Limit != nil && *f.Limit < 0 {
		return nil, &miniflux.ValidationError{Op: "filter", Message: fmt.Sprintf("Limit must be a positive number: %d", *f.Limit)}
	}
	if f.Order == "" {
		f.Order = miniflux.OrderPublishedAt
	}
	if f.Direction == "" {
		f.Direction = b.users[b.owner].EntrySortingDirection
	}

	entries := []miniflux.Entry{}
	for _, e := range b.entries {
		if !match(e) {
			continue
		}
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		entries = append(entries, b.entry(e))
	}

	less := entryLess(f.Order)
	sort.Slice(entries, func(i, j int) bool {
		a, c := &entries[i], &entries[j]
		if f.Direction == miniflux.DirectionDesc {
			a, c = c, a
		}
		if less(a, c) {
			return true
		}
		if less(c, a) {
			return false
		}
		return a.ID < c.ID
	})

	total := len(entries)

	if f.Offset != nil {
		if *f.Offset >= len(entries) {
			entries = entries[:0]
		} else {
			entries = entries[*f.Offset:]
		}
	}
	if f.Limit != nil && *f.Limit > 0 && *f.Limit < len(entries) {
		entries = entries[:*f.Limit]
	}

	return &miniflux.EntryList{Total: total, Entries: entries}, nil
}

func entryLess(order miniflux.EntryOrder) func(a, b *miniflux.Entry) bool {
	switch order {
	case miniflux.OrderID:
		return func(a, b *miniflux.Entry) bool { return a.ID < b.ID }
	case miniflux.OrderStatus:
		return func(a, b *miniflux.Entry) bool { return a.Status < b.Status }
	case miniflux.OrderCategoryTitle:
		return func(a, b *miniflux.Entry) bool {
			return strings.ToLower(a.Feed.Category.Title) < strings.ToLower(b.Feed.Category.Title)
		}
	case miniflux.OrderCategoryID:
		return func(a, b *miniflux.Entry) bool { return a.Feed.Category.ID < b.Feed.Category.ID }
	default:
		return func(a, b *miniflux.Entry) bool { return a.PublishedAt.Before(b.PublishedAt) }
	}
}

// UpdateEntries sets the status of entries, unknown ids are skipped
func (b *MemoryBackend) UpdateEntries(ctx context.Context, entryIDs []int64, status miniflux.EntryStatus) error {
	if len(entryIDs) == 0 {
		return &miniflux.ValidationError{Op: "update entries", Message: "The list of entries cannot be empty"}
	}
	if !status.Valid() {
		return &miniflux.ValidationError{Op: "update entries", Message: fmt.Sprintf("Invalid entry status %q", status)}
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	for _, id := range entryIDs {
		if e, ok := b.entries[id]; ok {
			e.Status = status
		}
	}
	return nil
}

// ToggleBookmark flips the starred flag of an entry
func (b *MemoryBackend) ToggleBookmark(ctx context.Context, entryID int64) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	e, ok := b.entries[entryID]
	if !ok {
		return notFound("Entry not found")
	}
	e.Starred = !e.Starred
	return nil
}

// Categories returns the categories ordered by title
func (b *MemoryBackend) Categories(ctx context.Context) ([]miniflux.Category, error) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	categories := []miniflux.Category{}
	for _, c := range b.categories {
		categories = append(categories, *c)
	}
	sort.Slice(categories, func(i, j int) bool {
		return strings.ToLower(categories[i].Title) < strings.ToLower(categories[j].Title)
	})
	return categories, nil
}

func (b *MemoryBackend) categoryExists(title string, except int64) bool {
	for _, c := range b.categories {
		if c.ID != except && strings.EqualFold(c.Title, title) {
			return true
		}
	}
	return false
}

// CreateCategory creates a category with a unique title
func (b *MemoryBackend) CreateCategory(ctx context.Context, title string) (*miniflux.Category, error) {
	if strings.TrimSpace(title) == "" {
		return nil, &miniflux.ValidationError{Op: "create category", Message: "The title is mandatory"}
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	if b.categoryExists(title, 0) {
		return nil, badRequest("This category already exists")
	}
	c := *b.addCategory(title)
	return &c, nil
}

// UpdateCategory renames a category and the copies held by its feeds
func (b *MemoryBackend) UpdateCategory(ctx context.Context, categoryID int64, title string) (*miniflux.Category, error) {
	if strings.TrimSpace(title) == "" {
		return nil, &miniflux.ValidationError{Op: "update category", Message: "The title is mandatory"}
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	c, ok := b.categories[categoryID]
	if !ok {
		return nil, notFound("Category not found")
	}
	if b.categoryExists(title, categoryID) {
		return nil, badRequest("This category already exists")
	}
	c.Title = title
	for _, f := range b.feeds {
		if f.Category.ID == categoryID {
			f.Category = *c
		}
	}

	category := *c
	return &category, nil
}

// DeleteCategory deletes a category with all of its feeds
func (b *MemoryBackend) DeleteCategory(ctx context.Context, categoryID int64) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	if _, ok := b.categories[categoryID]; !ok {
		return notFound("Category not found")
	}
	delete(b.categories, categoryID)
	for id, f := range b.feeds {
		if f.Category.ID == categoryID {
			b.removeFeed(id)
		}
	}
	return nil
}
