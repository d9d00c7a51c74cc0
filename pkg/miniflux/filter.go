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
	"net/url"
	"strconv"
	"strings"
)

// Filter selects and pages the entries of a listing. Zero values are left
// out of the query, except Offset and Limit which are sent whenever they
// are set.
type Filter struct {
	Status    EntryStatus
	Order     EntryOrder
	Direction EntryDirection
	Limit     *int
	Offset    *int
}

// Encode returns the query string for the filter, without the leading "?".
// Parameters appear in the order status, offset, limit, direction, order.
func (f *Filter) Encode() string {
	if f == nil {
		return ""
	}

	var options []string
	if f.Status != "" {
		options = append(options, "status="+url.QueryEscape(string(f.Status)))
	}
	if f.Offset != nil {
		options = append(options, "offset="+strconv.Itoa(*f.Offset))
	}
	if f.Limit != nil {
		options = append(options, "limit="+strconv.Itoa(*f.Limit))
	}
	if f.Direction != "" {
		options = append(options, "direction="+url.QueryEscape(string(f.Direction)))
	}
	if f.Order != "" {
		options = append(options, "order="+url.QueryEscape(string(f.Order)))
	}

	return strings.Join(options, "&")
}

// ParseFilter reads a filter from query values. It returns nil when none of
// the filter parameters is present.
func ParseFilter(values url.Values) (*Filter, error) {
	var f Filter
	present := false

	if v, ok := values["status"]; ok && len(v) > 0 {
		f.Status = EntryStatus(v[0])
		if !f.Status.Valid() {
			return nil, &ValidationError{Op: "filter", Message: "Invalid entry status: " + v[0]}
		}
		present = true
	}
	if v, ok := values["offset"]; ok && len(v) > 0 {
		n, err := strconv.Atoi(v[0])
		if err != nil || n < 0 {
			return nil, &ValidationError{Op: "filter", Message: "Offset must be a positive number: " + v[0]}
		}
		f.Offset = &n
		present = true
	}
	if v, ok := values["limit"]; ok && len(v) > 0 {
		n, err := strconv.Atoi(v[0])
		if err != nil || n < 0 {
			return nil, &ValidationError{Op: "filter", Message: "Limit must be a positive number: " + v[0]}
		}
		f.Limit = &n
		present = true
	}
	if v, ok := values["direction"]; ok && len(v) > 0 {
		f.Direction = EntryDirection(v[0])
		if !f.Direction.Valid() {
			return nil, &ValidationError{Op: "filter", Message: "Invalid direction: " + v[0]}
		}
		present = true
	}
	if v, ok := values["order"]; ok && len(v) > 0 {
		f.Order = EntryOrder(v[0])
		if !f.Order.Valid() {
			return nil, &ValidationError{Op: "filter", Message: "Invalid order: " + v[0]}
		}
		present = true
	}

	if !present {
		return nil, nil
	}
	return &f, nil
}
