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

package decoder

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
	"github.com/ulikunitz/xz"
)

// Compression identifies how an input stream is compressed.
type Compression int

const (
	// None denotes an uncompressed stream.
	None Compression = iota
	Gzip
	Zstd
	XZ
	LZ4
)

func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	case XZ:
		return "xz"
	case LZ4:
		return "lz4"
	default:
		return fmt.Sprintf("Compression(%d)", int(c))
	}
}

var ErrUnknownCompressionType = errors.New("unknown compression type")

const magicLength = 6

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	xzMagic   = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// Sniff determines the compression of a stream from its leading bytes.
func Sniff(magic []byte) Compression {
	switch {
	case bytes.HasPrefix(magic, gzipMagic):
		return Gzip
	case bytes.HasPrefix(magic, zstdMagic):
		return Zstd
	case bytes.HasPrefix(magic, xzMagic):
		return XZ
	case bytes.HasPrefix(magic, lz4Magic):
		return LZ4
	default:
		return None
	}
}

// Unpack returns a reader that yields the uncompressed contents of r.  The
// compression is detected from the first bytes of the stream; anything
// unrecognized is passed through untouched.  Closing the returned reader
// does not close r.
func Unpack(r io.Reader) (io.ReadCloser, Compression, error) {
	br := bufio.NewReader(r)

	// a short or empty stream is simply uncompressed
	magic, _ := br.Peek(magicLength)

	compression := Sniff(magic)

	var factory func(r io.Reader) (io.ReadCloser, error)

	switch compression {
	case None:
		return io.NopCloser(br), None, nil
	case Gzip:
		factory = func(r io.Reader) (io.ReadCloser, error) {
			return gzip.NewReader(r)
		}
	case Zstd:
		factory = func(r io.Reader) (io.ReadCloser, error) {
			d, err := zstd.NewReader(r)
			if err != nil {
				return nil, err
			}

			return d.IOReadCloser(), nil
		}
	case XZ:
		factory = func(r io.Reader) (io.ReadCloser, error) {
			x, err := xz.NewReader(r)
			if err != nil {
				return nil, err
			}

			return io.NopCloser(x), nil
		}
	case LZ4:
		factory = func(r io.Reader) (io.ReadCloser, error) {
			return io.NopCloser(lz4.NewReader(r)), nil
		}
	default:
		return nil, compression, ErrUnknownCompressionType
	}

	rdr, err := factory(br)
	if err != nil {
		return nil, compression, fmt.Errorf("unpacker factory error: %w", err)
	}

	return rdr, compression, nil
}
