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
	"net/http"
	"sort"
	"time"
	_ "time/tzdata"

	"github.com/gilliek/go-opml/opml"
	"github.com/pkg/errors"
	"p83.nl/go/flux/pkg/miniflux"
)

// Export returns the feeds as OPML, one outline per category
func (b *MemoryBackend) Export(ctx context.Context) (string, error) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	output := opml.OPML{}
	output.Version = "2.0"
	output.Head.Title = "Miniflux"
	output.Head.DateCreated = b.now().Format(time.RFC1123Z)

	categories := make([]*miniflux.Category, 0, len(b.categories))
	for _, c := range b.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })

	feeds := b.sortedFeeds()
	for _, c := range categories {
		var outlines []opml.Outline
		for _, f := range feeds {
			if f.Category.ID != c.ID {
				continue
			}
			outlines = append(outlines, opml.Outline{
				Title:   f.Title,
				Text:    f.Title,
				Type:    "rss",
				XMLURL:  f.FeedURL,
				HTMLURL: f.SiteURL,
			})
		}
		if len(outlines) == 0 {
			continue
		}
		output.Body.Outlines = append(output.Body.Outlines, opml.Outline{
			Text:     c.Title,
			Title:    c.Title,
			Outlines: outlines,
		})
	}

	xml, err := output.XML()
	if err != nil {
		return "", errors.Wrap(err, "could not render opml")
	}
	return xml, nil
}

func (b *MemoryBackend) findUser(username string) *memoryUser {
	for _, u := range b.users {
		if u.Username == username {
			return u
		}
	}
	return nil
}

// Users returns all users ordered by id
func (b *MemoryBackend) Users(ctx context.Context) ([]miniflux.User, error) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	users := []miniflux.User{}
	for _, u := range b.users {
		users = append(users, u.User)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// UserByID returns a user
func (b *MemoryBackend) UserByID(ctx context.Context, userID int64) (*miniflux.User, error) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	u, ok := b.users[userID]
	if !ok {
		return nil, notFound("User not found")
	}
	user := u.User
	return &user, nil
}

// UserByUsername returns a user
func (b *MemoryBackend) UserByUsername(ctx context.Context, username string) (*miniflux.User, error) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	u := b.findUser(username)
	if u == nil {
		return nil, notFound("User not found")
	}
	user := u.User
	return &user, nil
}

// CreateUser adds a user with the default settings
func (b *MemoryBackend) CreateUser(ctx context.Context, username, password string, isAdmin bool) (*miniflux.User, error) {
	if username == "" || password == "" {
		return nil, &miniflux.ValidationError{Op: "create user", Message: "The username and password are mandatory"}
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	if b.findUser(username) != nil {
		return nil, badRequest("The user already exists")
	}
	user := b.addUser(username, password, isAdmin).User
	return &user, nil
}

// UpdateUser applies the settings that are set
func (b *MemoryBackend) UpdateUser(ctx context.Context, userID int64, settings miniflux.UserSettings) (*miniflux.User, error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	u, ok := b.users[userID]
	if !ok {
		return nil, notFound("User not found")
	}

	if settings.Username != nil {
		if *settings.Username == "" {
			return nil, &miniflux.ValidationError{Op: "update user", Message: "The username is mandatory"}
		}
		if other := b.findUser(*settings.Username); other != nil && other.ID != userID {
			return nil, badRequest("This user already exists")
		}
	}
	if settings.Password != nil && *settings.Password == "" {
		return nil, &miniflux.ValidationError{Op: "update user", Message: "The password is mandatory"}
	}
	if settings.Timezone != nil {
		if _, err := time.LoadLocation(*settings.Timezone); err != nil {
			return nil, &miniflux.ValidationError{Op: "update user", Message: "Invalid timezone"}
		}
	}

	if settings.Username != nil {
		u.Username = *settings.Username
	}
	if settings.Password != nil {
		u.password = *settings.Password
	}
	if settings.IsAdmin != nil {
		u.IsAdmin = *settings.IsAdmin
	}
	if settings.Theme != nil {
		u.Theme = *settings.Theme
	}
	if settings.Language != nil {
		u.Language = *settings.Language
	}
	if settings.Timezone != nil {
		u.Timezone = *settings.Timezone
	}

	user := u.User
	return &user, nil
}

// DeleteUser removes a user. The owner can't be removed.
func (b *MemoryBackend) DeleteUser(ctx context.Context, userID int64) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	if _, ok := b.users[userID]; !ok {
		return notFound("User not found")
	}
	if userID == b.owner {
		return &miniflux.APIError{StatusCode: http.StatusForbidden, Message: "You cannot remove yourself"}
	}
	delete(b.users, userID)
	return nil
}
