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
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"mime"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"p83.nl/go/flux/pkg/miniflux"
)

type response struct {
	status      int
	contentType string
	body        []byte
}

func (r *response) isJSON() bool {
	mediaType, _, err := mime.ParseMediaType(r.contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// decode stores the body of the response in out. A 204 leaves out untouched.
// Bodies that are not JSON can only be stored in a *string or *[]byte.
func (r *response) decode(out interface{}) error {
	if r.status == http.StatusNoContent || out == nil {
		return nil
	}

	if !r.isJSON() {
		switch v := out.(type) {
		case *string:
			*v = string(r.body)
			return nil
		case *[]byte:
			*v = r.body
			return nil
		}
		return errors.Errorf("unexpected content type %q", r.contentType)
	}

	return json.Unmarshal(r.body, out)
}

func (c *Client) endpoint(path string) (string, error) {
	rel, err := url.Parse(path)
	if err != nil {
		return "", err
	}

	u := *c.baseURL
	u.Path = strings.TrimSuffix(c.baseURL.Path, "/") + rel.Path
	u.RawPath = strings.TrimSuffix(c.baseURL.EscapedPath(), "/") + rel.EscapedPath()
	u.RawQuery = rel.RawQuery

	return u.String(), nil
}

func encodeBody(body interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(body); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// request sends one request to the server and reads the whole response.
// Every operation of the client goes through here.
func (c *Client) request(ctx context.Context, path string, body interface{}, method string) (*response, error) {
	var reader io.Reader
	if body != nil {
		data, err := encodeBody(body)
		if err != nil {
			return nil, errors.Wrapf(err, "could not encode body for %s %s", method, path)
		}
		reader = bytes.NewReader(data)
	}

	u, err := c.endpoint(path)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid path %q", path)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", c.credential)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	if c.logging {
		x, _ := httputil.DumpRequestOut(req, true)
		log.Printf("REQUEST:\n\n%s\n\n", x)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(ctx, err)
	}
	defer res.Body.Close()

	if c.logging {
		x, _ := httputil.DumpResponse(res, true)
		log.Printf("RESPONSE:\n\n%s\n\n", x)
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, c.transportError(ctx, err)
	}

	c.online.Store(true)

	switch {
	case res.StatusCode == http.StatusUnauthorized:
		return nil, miniflux.ErrInvalidCredentials
	case res.StatusCode < 200 || res.StatusCode >= 300:
		return nil, apiError(res.StatusCode, data)
	}

	return &response{
		status:      res.StatusCode,
		contentType: res.Header.Get("Content-Type"),
		body:        data,
	}, nil
}

// transportError marks the client offline, unless the caller gave up.
func (c *Client) transportError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	c.online.Store(false)
	return &miniflux.OfflineError{Err: err}
}

func apiError(status int, body []byte) *miniflux.APIError {
	var resp miniflux.ErrorResponse
	if err := json.Unmarshal(body, &resp); err == nil && resp.ErrorMessage != "" {
		return &miniflux.APIError{StatusCode: status, Message: resp.ErrorMessage}
	}

	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &miniflux.APIError{StatusCode: status, Message: msg}
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	res, err := c.request(ctx, path, nil, http.MethodGet)
	if err != nil {
		return err
	}
	return errors.Wrapf(res.decode(out), "could not decode response of GET %s", path)
}

func (c *Client) put(ctx context.Context, path string, body, out interface{}) error {
	res, err := c.request(ctx, path, body, http.MethodPut)
	if err != nil {
		return err
	}
	return errors.Wrapf(res.decode(out), "could not decode response of PUT %s", path)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	res, err := c.request(ctx, path, body, http.MethodPost)
	if err != nil {
		return err
	}
	return errors.Wrapf(res.decode(out), "could not decode response of POST %s", path)
}

func (c *Client) delete(ctx context.Context, path string) error {
	_, err := c.request(ctx, path, nil, http.MethodDelete)
	return err
}
