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

// Package streaming supplies the I/O side of the "streaming path" the
// control flow takes for large inputs: it does not change parse
// semantics (the whole value tree is still produced at once, per the
// no-incremental-parsing non-goal) — it only changes how bytes are
// pulled off an io.Reader before the rest of the pipeline sees them,
// including transparent gzip decompression.
package streaming

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"

	"github.com/JostBrand/jsonshiatsu/internal/logging"
)

var gzipMagic = [2]byte{0x1f, 0x8b}

// defaultBufSize suits the typical small request/response body; once a
// caller's configured streaming threshold is known to be exceeded, Read
// switches to streamingBufSize instead, the "different I/O buffer
// strategy" half of the control flow's streaming path (the parse
// semantics themselves never change: the whole value is still produced
// from the fully-read text).
const (
	defaultBufSize   = 4096
	streamingBufSize = 64 * 1024
)

// CallID is a per-parse-call correlation id, threaded through the
// logger's fields so a caller grepping logs for one call out of many
// concurrent ones has a join key (see AMBIENT STACK: logging).
type CallID string

// NewCallID mints a fresh correlation id for one Load/Loads/Parse
// invocation.
func NewCallID() CallID {
	return CallID(uuid.NewString())
}

// Read pulls all bytes from r, transparently gunzipping the body first
// if it begins with the gzip magic number. bufio.Reader is used for the
// magic-number peek so callers can pass an arbitrary io.Reader (a
// network connection, a pipe) without it needing to support Seek.
//
// streamingThreshold (config.Reporting.StreamingThreshold) picks the
// read buffer size: when r's length can be determined up front (a
// *bytes.Reader, *bytes.Buffer, *strings.Reader or *os.File) and it is
// at or above the threshold, Read uses a larger buffer sized for a bulk
// read rather than the small default tuned for request/response bodies.
func Read(r io.Reader, id CallID, streamingThreshold int) (string, error) {
	bufSize := defaultBufSize
	if streamingThreshold > 0 {
		if n, ok := sizeHint(r); ok && n >= streamingThreshold {
			bufSize = streamingBufSize
			logging.Get(logging.CategoryPreprocess).Debugw("input at or above streaming threshold, using bulk read buffer",
				"call_id", string(id), "threshold", streamingThreshold, "size", n)
		}
	}
	br := bufio.NewReaderSize(r, bufSize)
	magic, err := br.Peek(2)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("jsonshiatsu/streaming: peek: %w", err)
	}

	var src io.Reader = br
	if len(magic) == 2 && magic[0] == gzipMagic[0] && magic[1] == gzipMagic[1] {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return "", fmt.Errorf("jsonshiatsu/streaming: gzip: %w", err)
		}
		defer gz.Close()
		src = gz
		logging.Get(logging.CategoryPreprocess).Debugw("decompressing gzip body", "call_id", string(id))
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return "", fmt.Errorf("jsonshiatsu/streaming: read: %w", err)
	}
	logging.Get(logging.CategoryPreprocess).Debugw("read input", "call_id", string(id), "bytes", len(data))
	return string(data), nil
}

// sizeHint reports r's total byte length up front without consuming
// it, for the handful of reader types (in-memory buffers, an open file)
// that can answer cheaply. Anything else (a network connection, a
// pipe) returns ok=false and Read keeps its default buffer size.
func sizeHint(r io.Reader) (int, bool) {
	switch v := r.(type) {
	case *bytes.Reader:
		return v.Len(), true
	case *bytes.Buffer:
		return v.Len(), true
	case *strings.Reader:
		return int(v.Size()), true
	case *os.File:
		if fi, err := v.Stat(); err == nil {
			return int(fi.Size()), true
		}
	}
	return 0, false
}
