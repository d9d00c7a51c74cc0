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
	"encoding/base64"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"p83.nl/go/flux/pkg/miniflux"
)

func init() {
	log.SetOutput(io.Discard)
}

type recordedRequest struct {
	Method        string
	Path          string
	RawQuery      string
	Body          string
	Authorization string
	ContentType   string
}

type recorder struct {
	lock     sync.Mutex
	requests []recordedRequest
}

func (r *recorder) all() []recordedRequest {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]recordedRequest{}, r.requests...)
}

func (r *recorder) last(t *testing.T) recordedRequest {
	t.Helper()
	all := r.all()
	require.NotEmpty(t, all, "no request was made")
	return all[len(all)-1]
}

// createTestServer answers every request with status, content type and body
func createTestServer(t *testing.T, status int, contentType, body string) (*httptest.Server, *Client, *recorder) {
	t.Helper()
	rec := &recorder{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		rec.lock.Lock()
		rec.requests = append(rec.requests, recordedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			RawQuery:      r.URL.RawQuery,
			Body:          string(data),
			Authorization: r.Header.Get("Authorization"),
			ContentType:   r.Header.Get("Content-Type"),
		})
		rec.lock.Unlock()

		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)

	c, err := New(server.URL, "isavegas", "****")
	require.NoError(t, err)
	return server, c, rec
}

func TestNew_InvalidURL(t *testing.T) {
	for _, u := range []string{"", "://example.com", "example.com", "ftp://example.com", "https://", "http://[::1"} {
		_, err := New(u, "user", "pass")
		var configErr *miniflux.ConfigurationError
		assert.ErrorAs(t, err, &configErr, u)
	}
}

func TestNew(t *testing.T) {
	c, err := New("https://reader.example.com/", "admin", "secret")
	require.NoError(t, err)
	assert.Equal(t, "https://reader.example.com/", c.URL())
	assert.Equal(t, "admin", c.Username())
	assert.True(t, c.IsOnline())
	assert.Equal(t, "Basic "+base64.StdEncoding.EncodeToString([]byte("admin:secret")), c.credential)
}

func TestClient_Endpoint(t *testing.T) {
	c, err := New("https://example.com/miniflux/", "u", "p")
	require.NoError(t, err)

	u, err := c.endpoint("/v1/entries?status=unread&limit=5")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/miniflux/v1/entries?status=unread&limit=5", u)

	u, err = c.endpoint("/v1/users/jane%20doe")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/miniflux/v1/users/jane%20doe", u)
}

func TestClient_Authorization(t *testing.T) {
	_, c, rec := createTestServer(t, http.StatusOK, "application/json", `[]`)

	_, err := c.Feeds(context.Background())
	require.NoError(t, err)
	_, err = c.Categories(context.Background())
	require.NoError(t, err)

	want := "Basic " + base64.StdEncoding.EncodeToString([]byte("isavegas:****"))
	for _, req := range rec.all() {
		assert.Equal(t, want, req.Authorization)
		assert.Equal(t, "", req.ContentType, "requests without body have no content type")
		assert.Equal(t, "", req.Body)
	}
}

func TestClient_Discover(t *testing.T) {
	_, c, rec := createTestServer(t, http.StatusOK, "application/json",
		`[{"url":"https://example.com/feed","title":"Example","type":"rss"}]`)

	links, err := c.Discover(context.Background(), "https://example.com/blog")
	if assert.NoError(t, err) {
		assert.Equal(t, []miniflux.FeedLink{{URL: "https://example.com/feed", Title: "Example", Type: "rss"}}, links)
	}

	req := rec.last(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/v1/discover", req.Path)
	assert.Equal(t, "application/json", req.ContentType)
	assert.JSONEq(t, `{"url":"https://example.com/blog"}`, req.Body)
}

func TestClient_DiscoverEmpty(t *testing.T) {
	_, c, _ := createTestServer(t, http.StatusOK, "application/json", `[]`)

	links, err := c.Discover(context.Background(), "https://example.com/")
	if assert.NoError(t, err) {
		assert.NotNil(t, links)
		assert.Len(t, links, 0)
	}
}

func TestClient_DiscoverError(t *testing.T) {
	_, c, _ := createTestServer(t, http.StatusNotFound, "application/json", `{"error_message": "No subscription found"}`)

	_, err := c.Discover(context.Background(), "https://example.com/abc")
	var apiErr *miniflux.APIError
	if assert.ErrorAs(t, err, &apiErr) {
		assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
		assert.Equal(t, "No subscription found", apiErr.Message)
	}
	assert.False(t, miniflux.IsOffline(err))
	assert.True(t, c.IsOnline())
}

func TestClient_ErrorWithoutJSON(t *testing.T) {
	_, c, _ := createTestServer(t, http.StatusBadGateway, "text/plain", "upstream down\n")

	_, err := c.Feeds(context.Background())
	var apiErr *miniflux.APIError
	if assert.ErrorAs(t, err, &apiErr) {
		assert.Equal(t, "upstream down", apiErr.Message)
	}

	_, c, _ = createTestServer(t, http.StatusInternalServerError, "", "")
	_, err = c.Feeds(context.Background())
	if assert.ErrorAs(t, err, &apiErr) {
		assert.Equal(t, "Internal Server Error", apiErr.Message)
	}
}

func TestClient_InvalidCredentials(t *testing.T) {
	_, c, _ := createTestServer(t, http.StatusUnauthorized, "application/json", `{"error_message":"Access Unauthorized"}`)

	_, err := c.Feeds(context.Background())
	assert.True(t, errors.Is(err, miniflux.ErrInvalidCredentials))

	ok, err := c.VerifyCredentials(context.Background())
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestClient_VerifyCredentials(t *testing.T) {
	_, c, rec := createTestServer(t, http.StatusOK, "application/json", `{"id":1,"username":"isavegas"}`)

	ok, err := c.VerifyCredentials(context.Background())
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/v1/users/isavegas", rec.last(t).Path)
}

func TestClient_CreateFeed(t *testing.T) {
	_, c, rec := createTestServer(t, http.StatusCreated, "application/json", `{"feed_id": 42}`)

	id, err := c.CreateFeed(context.Background(), "1", 1)
	if assert.NoError(t, err) {
		assert.Equal(t, int64(42), id)
	}
	assert.Equal(t, `{"feed_url":"1","category_id":1}`, rec.last(t).Body)

	_, err = c.CreateFeed(context.Background(), "1", 0)
	assert.NoError(t, err)
	assert.Equal(t, `{"feed_url":"1"}`, rec.last(t).Body)
	assert.Equal(t, "/v1/feeds", rec.last(t).Path)
	assert.Equal(t, http.MethodPost, rec.last(t).Method)
}

func TestClient_UpdateFeedValidation(t *testing.T) {
	_, c, rec := createTestServer(t, http.StatusOK, "application/json", `{}`)

	for _, id := range []int64{0, 1, 42, -5} {
		_, err := c.UpdateFeed(context.Background(), id, nil, nil)
		var validationErr *miniflux.ValidationError
		if assert.ErrorAs(t, err, &validationErr) {
			assert.Equal(t, "No title or category specified", validationErr.Message)
		}
	}
	assert.Empty(t, rec.all(), "no request should be made")
}

func TestClient_UpdateFeed(t *testing.T) {
	_, c, rec := createTestServer(t, http.StatusCreated, "application/json", `{"id":7,"title":"New"}`)

	feed, err := c.UpdateFeed(context.Background(), 7, miniflux.String(`Say "hi" \ 'bye' "again"`), nil)
	if assert.NoError(t, err) {
		assert.Equal(t, "New", feed.Title)
	}
	req := rec.last(t)
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/v1/feeds/7", req.Path)
	assert.Equal(t, `{"title":"Say \"hi\" \\ 'bye' \"again\""}`, req.Body)

	_, err = c.UpdateFeed(context.Background(), 7, nil, miniflux.Int64(3))
	assert.NoError(t, err)
	assert.Equal(t, `{"category":{"id":3}}`, rec.last(t).Body)

	_, err = c.UpdateFeed(context.Background(), 7, miniflux.String("Both"), miniflux.Int64(3))
	assert.NoError(t, err)
	assert.JSONEq(t, `{"title":"Both","category":{"id":3}}`, rec.last(t).Body)
}

func TestClient_NoContent(t *testing.T) {
	_, c, rec := createTestServer(t, http.StatusNoContent, "", "")
	ctx := context.Background()

	assert.NoError(t, c.RefreshFeed(ctx, 1))
	assert.NoError(t, c.RemoveFeed(ctx, 1))
	assert.NoError(t, c.ToggleBookmark(ctx, 2))
	assert.NoError(t, c.DeleteCategory(ctx, 3))
	assert.NoError(t, c.DeleteUser(ctx, 4))
	assert.NoError(t, c.UpdateEntries(ctx, []int64{1, 2, 3}, miniflux.StatusUnread))

	var got []string
	for _, req := range rec.all() {
		got = append(got, req.Method+" "+req.Path)
	}
	assert.Equal(t, []string{
		"PUT /v1/feeds/1/refresh",
		"DELETE /v1/feeds/1",
		"PUT /v1/entries/2/bookmark",
		"DELETE /v1/categories/3",
		"DELETE /v1/users/4",
		"PUT /v1/entries",
	}, got)
}

func TestClient_UpdateEntries(t *testing.T) {
	_, c, rec := createTestServer(t, http.StatusNoContent, "", "")

	err := c.UpdateEntries(context.Background(), []int64{1, 2, 3}, miniflux.StatusUnread)
	assert.NoError(t, err)
	req := rec.last(t)
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/v1/entries", req.Path)
	assert.Equal(t, `{"entry_ids":[1,2,3],"status":"unread"}`, req.Body)

	var validationErr *miniflux.ValidationError
	assert.ErrorAs(t, c.UpdateEntries(context.Background(), nil, miniflux.StatusRead), &validationErr)
	assert.ErrorAs(t, c.UpdateEntries(context.Background(), []int64{1}, "starred"), &validationErr)
	assert.Len(t, rec.all(), 1)
}

func TestClient_EntriesQuery(t *testing.T) {
	_, c, rec := createTestServer(t, http.StatusOK, "application/json", `{"total":0,"entries":[]}`)
	ctx := context.Background()

	_, err := c.Entries(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "/v1/entries", rec.last(t).Path)
	assert.Equal(t, "", rec.last(t).RawQuery)

	_, err = c.Entries(ctx, &miniflux.Filter{})
	require.NoError(t, err)
	assert.Equal(t, "", rec.last(t).RawQuery)

	_, err = c.Entries(ctx, &miniflux.Filter{
		Order:     miniflux.OrderID,
		Direction: miniflux.DirectionAsc,
		Limit:     miniflux.Int(10),
		Offset:    miniflux.Int(0),
		Status:    miniflux.StatusRead,
	})
	require.NoError(t, err)
	assert.Equal(t, "status=read&offset=0&limit=10&direction=asc&order=id", rec.last(t).RawQuery)

	_, err = c.FeedEntries(ctx, 9, &miniflux.Filter{Limit: miniflux.Int(3), Direction: miniflux.DirectionDesc})
	require.NoError(t, err)
	assert.Equal(t, "/v1/feeds/9/entries", rec.last(t).Path)
	assert.Equal(t, "limit=3&direction=desc", rec.last(t).RawQuery)
}

func TestClient_Entries(t *testing.T) {
	body := `{"total": 12, "entries": [{
		"id": 888, "user_id": 123, "feed_id": 42, "title": "Entry Title",
		"url": "http://example.org/article.html", "comments_url": "",
		"author": "Foobar", "content": "<p>HTML contents</p>",
		"hash": "29f99e4074cdacca1766f47697d03c66070ef6a14770a1fd5a867483c207a1bb",
		"published_at": "2016-12-12T16:15:19Z", "status": "read", "starred": false,
		"feed": {"id": 42, "user_id": 123, "title": "New Feed Title",
			"checked_at": "2017-12-22T21:06:03.133839-05:00",
			"category": {"id": 22, "user_id": 123, "title": "Another category"},
			"icon": {"feed_id": 42, "icon_id": 84}}
	}]}`
	_, c, _ := createTestServer(t, http.StatusOK, "application/json; charset=utf-8", body)

	list, err := c.Entries(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 12, list.Total)
	require.Len(t, list.Entries, 1)

	entry := list.Entries[0]
	assert.Equal(t, int64(888), entry.ID)
	assert.Equal(t, miniflux.StatusRead, entry.Status)
	assert.Equal(t, entry.FeedID, entry.Feed.ID)
	assert.Equal(t, "Another category", entry.Feed.Category.Title)
	assert.Equal(t, int64(84), entry.Feed.Icon.IconID)
	assert.Equal(t, time.Date(2016, 12, 12, 16, 15, 19, 0, time.UTC), entry.PublishedAt.UTC())
}

func TestClient_Export(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<opml version="2.0"><head><title>Miniflux</title></head><body><outline text="All" title="All"><outline title="Example" text="Example" xmlUrl="https://example.org/feed.xml" htmlUrl="https://example.org/" type="rss"></outline></outline></body></opml>`
	_, c, _ := createTestServer(t, http.StatusOK, "text/xml; charset=utf-8", doc)

	text, err := c.Export(context.Background())
	if assert.NoError(t, err) {
		assert.Equal(t, doc, text)
	}

	outline, err := c.ExportOPML(context.Background())
	if assert.NoError(t, err) {
		require.Len(t, outline.Body.Outlines, 1)
		assert.Equal(t, "All", outline.Body.Outlines[0].Title)
		require.Len(t, outline.Body.Outlines[0].Outlines, 1)
		assert.Equal(t, "https://example.org/feed.xml", outline.Body.Outlines[0].Outlines[0].XMLURL)
	}
}

func TestClient_UnexpectedContentType(t *testing.T) {
	_, c, _ := createTestServer(t, http.StatusOK, "text/html", "<html></html>")

	_, err := c.Feeds(context.Background())
	assert.Error(t, err)
	var apiErr *miniflux.APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestClient_CreateUser(t *testing.T) {
	_, c, rec := createTestServer(t, http.StatusCreated, "application/json", `{"id":2,"username":"bob","is_admin":true}`)

	user, err := c.CreateUser(context.Background(), `bo"b`, "pa'ss", true)
	if assert.NoError(t, err) {
		assert.Equal(t, "bob", user.Username)
		assert.True(t, user.IsAdmin)
	}
	assert.Equal(t, `{"username":"bo\"b","password":"pa'ss","is_admin":true}`, rec.last(t).Body)

	_, err = c.CreateUser(context.Background(), "", "x", false)
	var validationErr *miniflux.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Len(t, rec.all(), 1)
}

func TestClient_UpdateUser(t *testing.T) {
	_, c, rec := createTestServer(t, http.StatusCreated, "application/json", `{"id":2,"username":"bob","theme":"dark_serif"}`)

	user, err := c.UpdateUser(context.Background(), 2, miniflux.UserSettings{
		Theme:   miniflux.String("dark_serif"),
		IsAdmin: miniflux.Bool(false),
	})
	if assert.NoError(t, err) {
		assert.Equal(t, "dark_serif", user.Theme)
	}
	assert.Equal(t, "/v1/users/2", rec.last(t).Path)
	assert.Equal(t, `{"is_admin":false,"theme":"dark_serif"}`, rec.last(t).Body)
}

func TestClient_UserByUsername(t *testing.T) {
	_, c, rec := createTestServer(t, http.StatusOK, "application/json", `{"id":3,"username":"jane doe"}`)

	_, err := c.UserByUsername(context.Background(), "jane doe")
	assert.NoError(t, err)
	assert.Equal(t, "/v1/users/jane doe", rec.last(t).Path)

	_, err = c.UserByID(context.Background(), 3)
	assert.NoError(t, err)
	assert.Equal(t, "/v1/users/3", rec.last(t).Path)
}

func TestClient_Categories(t *testing.T) {
	_, c, rec := createTestServer(t, http.StatusCreated, "application/json", `{"id":5,"user_id":1,"title":"News & <Tech>"}`)

	category, err := c.CreateCategory(context.Background(), "News & <Tech>")
	if assert.NoError(t, err) {
		assert.Equal(t, int64(5), category.ID)
	}
	assert.Equal(t, `{"title":"News & <Tech>"}`, rec.last(t).Body)

	_, err = c.UpdateCategory(context.Background(), 5, `Tom's "news"`)
	assert.NoError(t, err)
	assert.Equal(t, http.MethodPut, rec.last(t).Method)
	assert.Equal(t, "/v1/categories/5", rec.last(t).Path)
	assert.Equal(t, `{"title":"Tom's \"news\""}`, rec.last(t).Body)
}

func TestClient_Offline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[]`)
	}))
	c, err := New(server.URL, "user", "pass", WithHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	require.NoError(t, err)

	_, err = c.Feeds(context.Background())
	require.NoError(t, err)
	assert.True(t, c.IsOnline())

	server.Close()

	ctx := context.Background()
	_, err = c.Feeds(ctx)
	assert.True(t, miniflux.IsOffline(err))
	assert.False(t, c.IsOnline())

	errs := []error{
		c.RefreshFeed(ctx, 1),
		c.UpdateEntries(ctx, []int64{1}, miniflux.StatusRead),
	}
	_, err = c.Discover(ctx, "https://example.com")
	errs = append(errs, err)
	_, err = c.Export(ctx)
	errs = append(errs, err)
	_, err = c.UpdateFeed(ctx, 1, miniflux.String("x"), nil)
	errs = append(errs, err)

	for _, err := range errs {
		assert.True(t, miniflux.IsOffline(err), "%v", err)
		var apiErr *miniflux.APIError
		assert.False(t, errors.As(err, &apiErr))
	}
}

func TestClient_BackOnline(t *testing.T) {
	up := true
	var lock sync.Mutex
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lock.Lock()
		defer lock.Unlock()
		if !up {
			hj, _ := w.(http.Hijacker)
			conn, _, _ := hj.Hijack()
			conn.Close()
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[]`)
	}))
	defer server.Close()

	c, err := New(server.URL, "user", "pass")
	require.NoError(t, err)

	lock.Lock()
	up = false
	lock.Unlock()

	_, err = c.Categories(context.Background())
	assert.True(t, miniflux.IsOffline(err))
	assert.False(t, c.IsOnline())

	lock.Lock()
	up = true
	lock.Unlock()

	_, err = c.Categories(context.Background())
	assert.NoError(t, err)
	assert.True(t, c.IsOnline())
}

func TestClient_Canceled(t *testing.T) {
	_, c, _ := createTestServer(t, http.StatusOK, "application/json", `[]`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Feeds(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, miniflux.IsOffline(err))
	assert.True(t, c.IsOnline())
}

func TestClient_RateLimit(t *testing.T) {
	_, c, rec := createTestServer(t, http.StatusOK, "application/json", `[]`)
	WithRateLimit(1000, 2)(c)
	require.NotNil(t, c.limiter)

	for i := 0; i < 5; i++ {
		_, err := c.Feeds(context.Background())
		require.NoError(t, err)
	}
	assert.Len(t, rec.all(), 5)

	WithRateLimit(0, 0)(c)
	assert.Nil(t, c.limiter)
}

func TestClient_Concurrent(t *testing.T) {
	_, c, rec := createTestServer(t, http.StatusOK, "application/json", `[{"id":1,"user_id":1,"title":"All"}]`)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			categories, err := c.Categories(context.Background())
			if assert.NoError(t, err) {
				assert.Len(t, categories, 1)
			}
		}()
	}
	wg.Wait()
	assert.Len(t, rec.all(), 10)
}
