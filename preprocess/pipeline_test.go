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

package preprocess

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JostBrand/jsonshiatsu/config"
	"github.com/JostBrand/jsonshiatsu/limits"
)

func TestPipelineRepairsUnquotedKeysAndSingleQuotes(t *testing.T) {
	p := New()
	v := limits.New(limits.Default())
	out, _, err := p.Run(`{name: 'Alice', age: 30}`, config.Aggressive().Toggles, v)
	require.NoError(t, err)
	require.Equal(t, `{"name": "Alice", "age": 30}`, out)
}

func TestPipelineExtractsFromMarkdownFenceWithTrailingProse(t *testing.T) {
	p := New()
	v := limits.New(limits.Default())
	input := "Sure, here's the JSON:\n```json\n{\"a\": 1}\n```\nLet me know if you need anything else."
	out, _, err := p.Run(input, config.Aggressive().Toggles, v)
	require.NoError(t, err)
	require.Equal(t, `{"a": 1}`, out)
}

func TestPipelineRepairsSparseArrayWithTrailingComma(t *testing.T) {
	p := New()
	v := limits.New(limits.Default())
	out, _, err := p.Run(`[1, , 3, ]`, config.Aggressive().Toggles, v)
	require.NoError(t, err)
	require.Equal(t, `[1, null, 3]`, out)
}

func TestPipelineUnwrapsMongoStyleFunctionCalls(t *testing.T) {
	p := New()
	v := limits.New(limits.Default())
	out, _, err := p.Run(`{"_id": ObjectId("507f1f77bcf86cd799439011")}`, config.Aggressive().Toggles, v)
	require.NoError(t, err)
	require.Equal(t, `{"_id": "507f1f77bcf86cd799439011"}`, out)
}

func TestPipelineIsPureFunctionOfInputAndConfig(t *testing.T) {
	p := New()
	toggles := config.Aggressive().Toggles
	input := `{foo: 'bar', list: [1, , 2,]}`
	first, _, err := p.Run(input, toggles, limits.New(limits.Default()))
	require.NoError(t, err)
	second, _, err := p.Run(input, toggles, limits.New(limits.Default()))
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestPipelineRespectsInputSizeLimit(t *testing.T) {
	p := New()
	small := limits.Default()
	small.MaxInputSize = 4
	v := limits.New(small)
	_, _, err := p.Run(`{"a": 1}`, config.Aggressive().Toggles, v)
	require.Error(t, err)
}
