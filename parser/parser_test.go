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

package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JostBrand/jsonshiatsu/config"
	"github.com/JostBrand/jsonshiatsu/diag"
	"github.com/JostBrand/jsonshiatsu/limits"
	"github.com/JostBrand/jsonshiatsu/value"
)

func newParser(t *testing.T, src string, cfg config.ParseConfig) (*Parser, *limits.Validator) {
	t.Helper()
	v := limits.New(cfg.Limits)
	p, err := New(src, v, cfg, Hooks{})
	require.NoError(t, err)
	return p, v
}

func TestParseStrictObjectAndArray(t *testing.T) {
	p, _ := newParser(t, `{"a": 1, "b": [true, null, "x"]}`, config.Aggressive().Resolve())
	v, err := p.ParseStrict()
	require.NoError(t, err)

	obj, ok := v.AsObject()
	require.True(t, ok)
	a, ok := obj.Get("a")
	require.True(t, ok)
	n, ok := a.Int64()
	require.True(t, ok)
	require.Equal(t, int64(1), n)

	bv, ok := obj.Get("b")
	require.True(t, ok)
	items, ok := bv.Items()
	require.True(t, ok)
	require.Len(t, items, 3)
	require.Equal(t, value.KindBool, items[0].Kind())
	require.True(t, items[1].IsNull())
	s, _ := items[2].Str()
	require.Equal(t, "x", s)
}

func TestParseStrictClassifiesFloatVsInteger(t *testing.T) {
	p, _ := newParser(t, `[1, 1.5, 1e10, -3]`, config.Aggressive().Resolve())
	v, err := p.ParseStrict()
	require.NoError(t, err)
	items, _ := v.Items()
	require.Equal(t, value.KindInteger, items[0].Kind())
	require.Equal(t, value.KindFloat, items[1].Kind())
	require.Equal(t, value.KindFloat, items[2].Kind())
	i3, _ := items[3].Int64()
	require.Equal(t, int64(-3), i3)
}

func TestParseStrictBigIntegerOverflow(t *testing.T) {
	p, _ := newParser(t, `99999999999999999999999999999`, config.Aggressive().Resolve())
	v, err := p.ParseStrict()
	require.NoError(t, err)
	require.Equal(t, value.KindInteger, v.Kind())
	_, fitsInt64 := v.Int64()
	require.False(t, fitsInt64)
	big, ok := v.BigInt()
	require.True(t, ok)
	require.Equal(t, "99999999999999999999999999999", big.String())
}

func TestParseStrictRejectsTrailingGarbage(t *testing.T) {
	p, _ := newParser(t, `{"a": 1} garbage`, config.Aggressive().Resolve())
	_, err := p.ParseStrict()
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
}

func TestParseStrictWrapperFunctionLateCatch(t *testing.T) {
	p, _ := newParser(t, `{"_id": ObjectId("507f1f77bcf86cd799439011")}`, config.Aggressive().Resolve())
	v, err := p.ParseStrict()
	require.NoError(t, err)
	obj, _ := v.AsObject()
	id, ok := obj.Get("_id")
	require.True(t, ok)
	s, _ := id.Str()
	require.Equal(t, "507f1f77bcf86cd799439011", s)
}

func TestParseStrictUnknownIdentifierBecomesUnquotedString(t *testing.T) {
	p, _ := newParser(t, `{"status": ACTIVE}`, config.Aggressive().Resolve())
	v, err := p.ParseStrict()
	require.NoError(t, err)
	obj, _ := v.AsObject()
	status, _ := obj.Get("status")
	s, ok := status.Str()
	require.True(t, ok)
	require.Equal(t, "ACTIVE", s)
}

func TestParseStrictTrailingCommaTolerated(t *testing.T) {
	p, _ := newParser(t, `{"a": 1,}`, config.Aggressive().Resolve())
	v, err := p.ParseStrict()
	require.NoError(t, err)
	obj, _ := v.AsObject()
	require.Equal(t, 1, obj.Len())

	p2, _ := newParser(t, `[1, 2,]`, config.Aggressive().Resolve())
	v2, err := p2.ParseStrict()
	require.NoError(t, err)
	items, _ := v2.Items()
	require.Len(t, items, 2)
}

func TestParseStrictDuplicateKeyLastWins(t *testing.T) {
	cfg := config.Aggressive().Resolve()
	cfg.Behavior.AllowDuplicateKeys = false
	p, _ := newParser(t, `{"a": 1, "a": 2}`, cfg)
	v, err := p.ParseStrict()
	require.NoError(t, err)
	obj, _ := v.AsObject()
	a, _ := obj.Get("a")
	n, _ := a.Int64()
	require.Equal(t, int64(2), n)
}

func TestParseStrictDuplicateKeyCoalesceToArray(t *testing.T) {
	cfg := config.Aggressive().Resolve()
	cfg.Behavior.AllowDuplicateKeys = true
	p, _ := newParser(t, `{"a": 1, "a": 2}`, cfg)
	v, err := p.ParseStrict()
	require.NoError(t, err)
	obj, _ := v.AsObject()
	a, _ := obj.Get("a")
	items, ok := a.Items()
	require.True(t, ok)
	require.Len(t, items, 2)
}

func TestParseStrictNegativeInfinityIsUnquotedIdentifierValue(t *testing.T) {
	p, _ := newParser(t, `[-Infinity, -NaN]`, config.Aggressive().Resolve())
	v, err := p.ParseStrict()
	require.NoError(t, err)
	items, _ := v.Items()
	s0, _ := items[0].Str()
	require.Equal(t, "-Infinity", s0)
	s1, _ := items[1].Str()
	require.Equal(t, "-NaN", s1)
}

func TestParsePartialSkipFieldsDropsBadField(t *testing.T) {
	p, _ := newParser(t, `{"a":1, b: @, "c":3}`, config.Aggressive().Resolve())
	result, err := p.ParsePartial(SkipFields)
	require.NoError(t, err)
	require.NotNil(t, result.Value)

	obj, ok := result.Value.AsObject()
	require.True(t, ok)
	require.Equal(t, 2, obj.Len())
	a, _ := obj.Get("a")
	an, _ := a.Int64()
	require.Equal(t, int64(1), an)
	c, _ := obj.Get("c")
	cn, _ := c.Int64()
	require.Equal(t, int64(3), cn)
	_, hasB := obj.Get("b")
	require.False(t, hasB)

	require.Len(t, result.Errors, 1)
	require.InDelta(t, 66.7, result.SuccessRate, 0.1)
	require.EqualValues(t, 3, result.TotalFields)
	require.EqualValues(t, 2, result.SuccessfulFields)
}

func TestParsePartialSkipFieldsReplacesArrayElementWithNull(t *testing.T) {
	p, _ := newParser(t, `[1, @, 3]`, config.Aggressive().Resolve())
	result, err := p.ParsePartial(SkipFields)
	require.NoError(t, err)
	require.NotNil(t, result.Value)
	items, ok := result.Value.Items()
	require.True(t, ok)
	require.Len(t, items, 3)
	require.True(t, items[1].IsNull())
}

func TestParsePartialBestEffortInsertsMissingColon(t *testing.T) {
	p, _ := newParser(t, `{"a" 1}`, config.Aggressive().Resolve())
	result, err := p.ParsePartial(BestEffort)
	require.NoError(t, err)
	require.NotNil(t, result.Value)
	obj, _ := result.Value.AsObject()
	a, ok := obj.Get("a")
	require.True(t, ok)
	n, _ := a.Int64()
	require.Equal(t, int64(1), n)

	var foundInsertedColon bool
	for _, act := range result.RecoveryActions {
		if act == diag.ActionInsertedColon {
			foundInsertedColon = true
		}
	}
	require.True(t, foundInsertedColon)
}

func TestParsePartialExtractAllFallsBackToEmptyObjectAtTopLevel(t *testing.T) {
	p, _ := newParser(t, `@@@`, config.Aggressive().Resolve())
	result, err := p.ParsePartial(ExtractAll)
	require.NoError(t, err)
	require.NotNil(t, result.Value)
	obj, ok := result.Value.AsObject()
	require.True(t, ok)
	require.Equal(t, 0, obj.Len())
	require.NotEmpty(t, result.Errors)
}

func TestParsePartialStrictLevelBehavesLikeParseStrict(t *testing.T) {
	p, _ := newParser(t, `{"a": 1}`, config.Aggressive().Resolve())
	result, err := p.ParsePartial(Strict)
	require.NoError(t, err)
	require.NotNil(t, result.Value)
	require.Empty(t, result.Errors)
}

func TestParseStrictNestingLimitBreachIsSecurityFault(t *testing.T) {
	cfg := config.Aggressive().Resolve()
	cfg.Limits.MaxNestingDepth = 100
	depth := 101
	src := strings.Repeat("[", depth) + strings.Repeat("]", depth)
	p, _ := newParser(t, src, cfg)
	_, err := p.ParseStrict()
	require.Error(t, err)
	var fault *limits.SecurityFault
	require.ErrorAs(t, err, &fault)
	require.Equal(t, limits.NestingTooDeep, fault.Limit)
}

func TestParsePartialNestingLimitBreachPropagatesEvenAtExtractAll(t *testing.T) {
	cfg := config.Aggressive().Resolve()
	cfg.Limits.MaxNestingDepth = 100
	depth := 101
	src := strings.Repeat("[", depth) + strings.Repeat("]", depth)
	p, _ := newParser(t, src, cfg)
	_, err := p.ParsePartial(ExtractAll)
	require.Error(t, err)
	var fault *limits.SecurityFault
	require.ErrorAs(t, err, &fault)
}

func TestHooksAppliedBottomUp(t *testing.T) {
	hooks := Hooks{
		Integer: func(v value.Value) value.Value {
			n, _ := v.Int64()
			return value.Integer(n * 2)
		},
	}
	v := limits.New(config.Aggressive().Resolve().Limits)
	p, err := New(`{"a": [1, 2]}`, v, config.Aggressive().Resolve(), hooks)
	require.NoError(t, err)
	out, err := p.ParseStrict()
	require.NoError(t, err)
	obj, _ := out.AsObject()
	a, _ := obj.Get("a")
	items, _ := a.Items()
	n0, _ := items[0].Int64()
	n1, _ := items[1].Int64()
	require.Equal(t, int64(2), n0)
	require.Equal(t, int64(4), n1)
}
