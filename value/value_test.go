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

package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectLastWins(t *testing.T) {
	o := NewObject(LastWins)
	o.Set("a", Integer(1))
	dup := o.Set("a", Integer(2))
	assert.True(t, dup)

	got, ok := o.Get("a")
	require.True(t, ok)
	i, ok := got.Int64()
	require.True(t, ok)
	assert.Equal(t, int64(2), i)
	assert.Equal(t, []string{"a"}, o.Keys())
}

func TestObjectCoalesceToArray(t *testing.T) {
	o := NewObject(CoalesceToArray)
	o.Set("a", Integer(1))
	o.Set("a", Integer(2))
	o.Set("a", Integer(3))

	got, ok := o.Get("a")
	require.True(t, ok)
	items, ok := got.Items()
	require.True(t, ok)
	require.Len(t, items, 3)
	for i, item := range items {
		n, _ := item.Int64()
		assert.Equal(t, int64(i+1), n)
	}
}

func TestObjectInsertionOrderPreserved(t *testing.T) {
	o := NewObject(LastWins)
	o.Set("z", Null())
	o.Set("a", Null())
	o.Set("m", Null())
	assert.Equal(t, []string{"z", "a", "m"}, o.Keys())
}

func TestValueKinds(t *testing.T) {
	assert.Equal(t, KindNull, Null().Kind())
	assert.Equal(t, KindBool, Bool(true).Kind())
	assert.Equal(t, KindInteger, Integer(1).Kind())
	assert.Equal(t, KindFloat, Float(1.5).Kind())
	assert.Equal(t, KindString, String("x").Kind())
	assert.Equal(t, KindArray, Array(nil).Kind())

	o := NewObject(LastWins)
	assert.Equal(t, KindObject, FromObject(o).Kind())
}

func TestHashKeyDeterministicWithinProcess(t *testing.T) {
	assert.Equal(t, hashKey("hello"), hashKey("hello"))
	assert.NotEqual(t, hashKey("hello"), hashKey("world"))
}
