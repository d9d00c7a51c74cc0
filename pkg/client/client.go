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

// Package client is a HTTP client for the Miniflux v1 API
//
// Create a client with the server URL and the credentials of a user:
//
//	c, err := client.New("https://reader.example.com", "admin", "secret")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	entries, err := c.Entries(ctx, &miniflux.Filter{Status: miniflux.StatusUnread})
package client

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/url"
	"sync/atomic"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"
	"p83.nl/go/flux/pkg/miniflux"
)

// Client is a HTTP client for Miniflux
type Client struct {
	baseURL    *url.URL
	username   string
	credential string

	httpClient *http.Client
	limiter    *rate.Limiter
	logging    bool

	online atomic.Bool
}

var _ miniflux.Miniflux = (*Client)(nil)

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets the http.Client used for all requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithRateLimit allows at most rps requests per second, with bursts of
// burst requests. Waiting for the limiter honours the request context.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogging dumps every request and response to the log.
func WithLogging(logging bool) Option {
	return func(c *Client) {
		c.logging = logging
	}
}

// New creates a client for the server at serverURL. The password is only
// used to compute the Basic credential and is not kept.
func New(serverURL, username, password string, opts ...Option) (*Client, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, &miniflux.ConfigurationError{URL: serverURL, Err: err}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, &miniflux.ConfigurationError{URL: serverURL, Err: errors.Errorf("unsupported scheme %q", u.Scheme)}
	}
	if u.Host == "" {
		return nil, &miniflux.ConfigurationError{URL: serverURL, Err: errors.New("missing host")}
	}
	u.RawQuery = ""
	u.Fragment = ""

	c := &Client{
		baseURL:    u,
		username:   username,
		credential: "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password)),
		httpClient: http.DefaultClient,
	}
	c.online.Store(true)

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// URL returns the server URL of the client
func (c *Client) URL() string {
	return c.baseURL.String()
}

// Username returns the user the client authenticates as
func (c *Client) Username() string {
	return c.username
}

// IsOnline reports whether the last request got a response from the server.
// It is true before the first request.
func (c *Client) IsOnline() bool {
	return c.online.Load()
}

// Me fetches the user the client authenticates as.
func (c *Client) Me(ctx context.Context) (*miniflux.User, error) {
	return c.UserByUsername(ctx, c.username)
}

// VerifyCredentials checks the credentials by fetching the current user.
// It returns false without an error when the server rejects them.
func (c *Client) VerifyCredentials(ctx context.Context) (bool, error) {
	user, err := c.Me(ctx)
	if errors.Is(err, miniflux.ErrInvalidCredentials) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return user.Username != "", nil
}
