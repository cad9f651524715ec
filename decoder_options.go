// Copyright 2017-26 the original author or authors.
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
	"log/slog"
)

// decoderOptions provides optional configuration parameters for Decode.
type decoderOptions struct {
	logger *slog.Logger // destination of decoding diagnostics
}

// DecoderOption configures how we set up the decoder.
type DecoderOption func(*decoderOptions)

// WithLogger lets you set the logger used to report dropped elements and
// upstream remarks.
func WithLogger(l *slog.Logger) DecoderOption {
	return func(o *decoderOptions) {
		o.logger = l
	}
}

// defaultDecoderConfig provides a default configuration for decoding.
var defaultDecoderConfig = decoderOptions{}
