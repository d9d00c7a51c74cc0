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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_EncodeNil(t *testing.T) {
	var f *Filter
	assert.Equal(t, "", f.Encode())
	assert.Equal(t, "", (&Filter{}).Encode())
}

func TestFilter_EncodeOrder(t *testing.T) {
	f := &Filter{
		Order:     OrderPublishedAt,
		Direction: DirectionDesc,
		Limit:     Int(10),
		Offset:    Int(20),
		Status:    StatusUnread,
	}
	assert.Equal(t, "status=unread&offset=20&limit=10&direction=desc&order=published_at", f.Encode())
}

func TestFilter_EncodeOnlySupplied(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   string
	}{
		{"status", Filter{Status: StatusRead}, "status=read"},
		{"offset zero", Filter{Offset: Int(0)}, "offset=0"},
		{"limit", Filter{Limit: Int(5)}, "limit=5"},
		{"direction", Filter{Direction: DirectionAsc}, "direction=asc"},
		{"order", Filter{Order: OrderCategoryID}, "order=category_id"},
		{"status and order", Filter{Status: StatusRemoved, Order: OrderID}, "status=removed&order=id"},
		{"limit and direction", Filter{Direction: DirectionAsc, Limit: Int(1)}, "limit=1&direction=asc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Encode())
		})
	}
}

func TestParseFilter_RoundTrip(t *testing.T) {
	filters := []*Filter{
		{Status: StatusUnread},
		{Offset: Int(0), Limit: Int(100)},
		{Direction: DirectionDesc, Order: OrderCategoryTitle},
		{Status: StatusRead, Offset: Int(3), Limit: Int(7), Direction: DirectionAsc, Order: OrderStatus},
	}
	for _, f := range filters {
		values, err := url.ParseQuery(f.Encode())
		require.NoError(t, err)
		parsed, err := ParseFilter(values)
		if assert.NoError(t, err) {
			assert.Equal(t, f, parsed)
		}
	}
}

func TestParseFilter_Empty(t *testing.T) {
	f, err := ParseFilter(url.Values{"other": []string{"1"}})
	assert.NoError(t, err)
	assert.Nil(t, f)
}

func TestParseFilter_Invalid(t *testing.T) {
	for _, q := range []string{"status=old", "offset=-1", "limit=abc", "direction=up", "order=title"} {
		values, err := url.ParseQuery(q)
		require.NoError(t, err)
		_, err = ParseFilter(values)
		var validationErr *ValidationError
		assert.ErrorAs(t, err, &validationErr, q)
	}
}
