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

// Package jsonshiatsu parses JSON-ish text the way a human reading it
// would: tolerant of unquoted keys, single quotes, trailing commas,
// markdown code fences, JavaScript comments, MongoDB wrapper calls
// (ObjectId(...), ISODate(...)) and a handful of other malformations
// common in hand-written, copy-pasted or LLM-generated documents.
//
// Loads is the primary entry point for a caller that wants a standard
// JSON value tree and is willing to accept the library's default
// repair behavior. Parse is the stricter, legacy-compatible entry
// point. ParsePartial, ExtractValidData and ParseWithFallback give a
// caller progressively more control over what happens when even the
// repair pipeline cannot make full sense of the input.
package jsonshiatsu
