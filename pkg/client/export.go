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

	"github.com/gilliek/go-opml/opml"
	"github.com/pkg/errors"
)

// Export returns the subscriptions of the user as an OPML document
func (c *Client) Export(ctx context.Context) (string, error) {
	var doc string
	if err := c.get(ctx, "/v1/export", &doc); err != nil {
		return "", err
	}
	return doc, nil
}

// ExportOPML returns the parsed OPML export
func (c *Client) ExportOPML(ctx context.Context) (*opml.OPML, error) {
	doc, err := c.Export(ctx)
	if err != nil {
		return nil, err
	}
	outline, err := opml.NewOPML([]byte(doc))
	if err != nil {
		return nil, errors.Wrap(err, "could not parse export")
	}
	return outline, nil
}
