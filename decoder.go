// Copyright 2025-26 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package adiff

import (
	"context"
	"io"
	"log/slog"

	"m4o.io/adiff/internal/decoder"
	"m4o.io/adiff/model"
)

// ErrMalformedDocument is returned when the input is not well-formed XML.
var ErrMalformedDocument = decoder.ErrMalformedDocument

// Decode reads an augmented diff from r, transparently decompressing gzip,
// zstd, xz and lz4 input.  Empty input decodes to an empty document.
func Decode(ctx context.Context, r io.Reader, opts ...DecoderOption) (*model.Document, error) {
	cfg := defaultDecoderConfig

	for _, opt := range opts {
		opt(&cfg)
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	rdr, compression, err := decoder.Unpack(r)
	if err != nil {
		return nil, err
	}

	defer rdr.Close()

	if compression != decoder.None {
		logger.Debug("decompressing input", "compression", compression.String())
	}

	return decoder.Decode(ctx, rdr, logger)
}
