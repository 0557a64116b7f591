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

package streaming

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
)

func TestReadPlainText(t *testing.T) {
	out, err := Read(strings.NewReader(`{"a": 1}`), NewCallID(), 0)
	require.NoError(t, err)
	require.Equal(t, `{"a": 1}`, out)
}

func TestReadGzipTransparentlyDecompresses(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(`{"a": [1, 2, 3]}`))
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	out, err := Read(&buf, NewCallID(), 0)
	require.NoError(t, err)
	require.Equal(t, `{"a": [1, 2, 3]}`, out)
}

func TestReadAboveStreamingThresholdStillReadsCorrectly(t *testing.T) {
	body := `{"a": "` + strings.Repeat("x", 1024) + `"}`
	out, err := Read(strings.NewReader(body), NewCallID(), 16)
	require.NoError(t, err)
	require.Equal(t, body, out)
}

func TestSizeHintReadsKnownLengthReaders(t *testing.T) {
	n, ok := sizeHint(strings.NewReader("abcde"))
	require.True(t, ok)
	require.Equal(t, 5, n)

	n, ok = sizeHint(bytes.NewBufferString("abc"))
	require.True(t, ok)
	require.Equal(t, 3, n)

	_, ok = sizeHint(io.MultiReader())
	require.False(t, ok)
}

func TestNewCallIDIsUnique(t *testing.T) {
	a := NewCallID()
	b := NewCallID()
	require.NotEqual(t, a, b)
	require.NotEmpty(t, string(a))
}
