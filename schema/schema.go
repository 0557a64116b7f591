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

// Package schema is the optional "parse leniently, then validate
// strictly" companion to the core parser: once a permissive parse has
// produced a value tree, a caller that still wants a conformance
// guarantee can check that tree against a JSON Schema document.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/JostBrand/jsonshiatsu/value"
)

// Validator wraps a resolved JSON Schema document, ready to check
// parsed value trees against repeatedly without re-resolving the
// schema on every call.
type Validator struct {
	resolved *jsonschema.Resolved
}

// Compile parses and resolves a JSON Schema document.
func Compile(schemaDoc []byte) (*Validator, error) {
	var s jsonschema.Schema
	if err := json.Unmarshal(schemaDoc, &s); err != nil {
		return nil, fmt.Errorf("jsonshiatsu/schema: decode schema: %w", err)
	}
	resolved, err := s.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("jsonshiatsu/schema: resolve schema: %w", err)
	}
	return &Validator{resolved: resolved}, nil
}

// Validate checks v (typically the output of a permissive parse)
// against the compiled schema, bridging through value.ToAny since the
// schema validator expects plain Go data, not jsonshiatsu's own Value
// sum type.
func (s *Validator) Validate(v value.Value) error {
	if err := s.resolved.Validate(v.ToAny()); err != nil {
		return fmt.Errorf("jsonshiatsu/schema: %w", err)
	}
	return nil
}
