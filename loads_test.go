// Copyright (C) 2024 jsonshiatsu authors.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package jsonshiatsu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadsUnquotedKeysAndSingleQuotes(t *testing.T) {
	v, err := Loads(`{name: 'Ada', active: true}`)
	require.NoError(t, err)
	obj, ok := v.AsObject()
	require.True(t, ok)
	name, _ := obj.Get("name")
	s, _ := name.Str()
	require.Equal(t, "Ada", s)
}

func TestLoadsMarkdownWrappedJSON(t *testing.T) {
	v, err := Loads("Here is the result:\n```json\n{\"a\": 1}\n```\n")
	require.NoError(t, err)
	obj, _ := v.AsObject()
	a, ok := obj.Get("a")
	require.True(t, ok)
	n, _ := a.Int64()
	require.Equal(t, int64(1), n)
}

func TestLoadsSparseArrayFillsLeadingCommasWithNull(t *testing.T) {
	v, err := Loads(`[,,3]`)
	require.NoError(t, err)
	items, ok := v.Items()
	require.True(t, ok)
	require.Len(t, items, 3)
	require.True(t, items[0].IsNull())
	require.True(t, items[1].IsNull())
	n, _ := items[2].Int64()
	require.Equal(t, int64(3), n)
}

func TestLoadsMongoStyleWrapperCalls(t *testing.T) {
	v, err := Loads(`{"_id": ObjectId("507f1f77bcf86cd799439011"), "ts": ISODate("2024-01-01T00:00:00Z")}`)
	require.NoError(t, err)
	obj, _ := v.AsObject()
	id, ok := obj.Get("_id")
	require.True(t, ok)
	s, _ := id.Str()
	require.Equal(t, "507f1f77bcf86cd799439011", s)
}

func TestLoadsRejectsUnrecoverableGarbageWithDecodeError(t *testing.T) {
	_, err := Loads(`@@@ not json at all @@@`)
	require.Error(t, err)
	var de *JsonDecodeError
	require.ErrorAs(t, err, &de)
	require.NotEmpty(t, de.Error())
}

func TestLoadReadsPlainTextFromReader(t *testing.T) {
	// Load's gzip-transparency is exercised directly in the streaming
	// package; here we only confirm plain-text input still round-trips
	// through the io.Reader entry point.
	v, err := Load(strings.NewReader(`{"a": [1, 2, 3]}`))
	require.NoError(t, err)
	obj, _ := v.AsObject()
	a, _ := obj.Get("a")
	items, _ := a.Items()
	require.Len(t, items, 3)
}
