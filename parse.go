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
	"github.com/JostBrand/jsonshiatsu/config"
	"github.com/JostBrand/jsonshiatsu/streaming"
	"github.com/JostBrand/jsonshiatsu/value"
)

// Parse is the legacy, conservative-by-default entry point: it enables
// only the minimal repair set (markdown extraction, comment removal,
// quote normalization) rather than Loads' full aggressive toggle set,
// for callers migrating from a strict decoder who want the smallest
// possible behavior change.
func Parse(src string, opts ...Option) (value.Value, error) {
	o := options{cfg: config.Conservative()}
	for _, opt := range opts {
		opt(&o)
	}
	o.cfg = o.cfg.Resolve()
	callID := streaming.NewCallID()
	val, diags, err := run(callID, src, o)
	if err != nil {
		return value.Value{}, newDecodeError(err, diags)
	}
	return val, nil
}
