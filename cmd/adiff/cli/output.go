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

package cli

import (
	"context"
	"fmt"
	"io"

	"m4o.io/adiff/internal/cache"
	"m4o.io/adiff/internal/leaflet"
	"m4o.io/adiff/internal/overpass"
)

// Output formats of rendered maps.
const (
	FormatHTML    = "html"
	FormatGeoJSON = "geojson"
)

// Extension returns the file extension of format.
func Extension(format string) string {
	if format == FormatGeoJSON {
		return ".geojson"
	}

	return ".html"
}

// WriteMap writes m in the given format.
func WriteMap(w io.Writer, m *leaflet.Map, format, title string) error {
	switch format {
	case FormatHTML:
		return m.WriteHTML(w, leaflet.Page{Title: title})
	case FormatGeoJSON:
		return m.WriteGeoJSON(w)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// NewClient creates an upstream client from the loaded configuration.  The
// returned cache must be closed by the caller.
func NewClient(ctx context.Context) (*overpass.Client, cache.Cache, error) {
	c, err := cfg.OpenCache(ctx)
	if err != nil {
		return nil, nil, err
	}

	opts := append(cfg.ClientOptions(),
		overpass.WithCache(c, cfg.Cache.TTL.Duration),
		overpass.WithLogger(logger))

	return overpass.NewClient(opts...), c, nil
}
