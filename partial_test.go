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

	"github.com/JostBrand/jsonshiatsu/limits"
)

func TestParsePartialSkipFieldsDropsBadField(t *testing.T) {
	result, err := ParsePartial(`{"a":1, b: @, "c":3}`, SkipFields)
	require.NoError(t, err)
	require.NotNil(t, result.Value)
	obj, ok := result.Value.AsObject()
	require.True(t, ok)
	_, hasB := obj.Get("b")
	require.False(t, hasB)
	require.Len(t, result.Errors, 1)
}

func TestParsePartialPrependsPreprocessingDiagnosticsToWarnings(t *testing.T) {
	// The trailing comma is fixed during preprocessing (a warning, not
	// an error), so it must show up in Warnings even though the
	// recovery level never has to touch it itself.
	result, err := ParsePartial(`{"a": 1,}`, SkipFields)
	require.NoError(t, err)
	require.NotNil(t, result.Value)
	require.NotEmpty(t, result.Warnings)
}

func TestExtractValidDataReturnsBestEffortTree(t *testing.T) {
	v, err := ExtractValidData(`{"a": 1, b: @@@}`)
	require.NoError(t, err)
	obj, ok := v.AsObject()
	require.True(t, ok)
	a, ok := obj.Get("a")
	require.True(t, ok)
	n, _ := a.Int64()
	require.Equal(t, int64(1), n)
}

func TestParseWithFallbackRecoversFromStrictFailure(t *testing.T) {
	v, diags, err := ParseWithFallback(`{"a": 1, b: @@@, "c": 3}`, SkipFields)
	require.NoError(t, err)
	require.NotEmpty(t, diags)
	obj, ok := v.AsObject()
	require.True(t, ok)
	a, _ := obj.Get("a")
	n, _ := a.Int64()
	require.Equal(t, int64(1), n)
	c, _ := obj.Get("c")
	cn, _ := c.Int64()
	require.Equal(t, int64(3), cn)
}

func TestParseWithFallbackHonorsRequestedRecoveryLevel(t *testing.T) {
	// At Strict, ParsePartial behaves like ParseStrict: the same
	// malformed field that SkipFields drops instead fails the whole
	// fallback attempt, so the original Loads failure surfaces rather
	// than a recovered value.
	v, diags, err := ParseWithFallback(`{"a": 1, b: @@@, "c": 3}`, Strict)
	require.Error(t, err)
	require.NotEmpty(t, diags)
	require.True(t, v.IsNull())
}

func TestParseWithFallbackPropagatesSecurityFault(t *testing.T) {
	depth := 101
	src := strings.Repeat("[", depth) + strings.Repeat("]", depth)
	cfg := defaultOptions().cfg
	cfg.Limits.MaxNestingDepth = 100

	_, _, err := ParseWithFallback(src, BestEffort, WithConfig(cfg))
	require.Error(t, err)
	var fault *limits.SecurityFault
	require.ErrorAs(t, err, &fault)
}

func TestParsePartialRejectsOversizedInputBeforeRecovery(t *testing.T) {
	cfg := defaultOptions().cfg
	cfg.Limits.MaxInputSize = 4
	_, err := ParsePartial(`{"a": 1}`, ExtractAll, WithConfig(cfg))
	require.Error(t, err)
	var fault *limits.SecurityFault
	require.ErrorAs(t, err, &fault)
}
