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
	"maps"
	"strings"
)

const (
	// DefaultPointRadius is the radius of node markers in pixels.
	DefaultPointRadius = 5

	// DefaultLineWeight is the stroke width of way polylines in pixels.
	DefaultLineWeight = 5
)

// rendererOptions provides optional configuration parameters for Renderer construction.
type rendererOptions struct {
	palette   Palette
	radius    int
	weight    int
	bare      bool
	browseURL string
}

// RendererOption configures how we set up the renderer.
type RendererOption func(*rendererOptions)

// WithPalette overrides colors of individual tokens.
func WithPalette(p Palette) RendererOption {
	return func(o *rendererOptions) {
		maps.Copy(o.palette, p)
	}
}

// WithPointRadius sets the radius of node markers.
func WithPointRadius(r int) RendererOption {
	return func(o *rendererOptions) {
		if r > 0 {
			o.radius = r
		}
	}
}

// WithLineWeight sets the stroke width of way polylines.
func WithLineWeight(w int) RendererOption {
	return func(o *rendererOptions) {
		if w > 0 {
			o.weight = w
		}
	}
}

// WithBarePopups reduces popups to the element identifier.
func WithBarePopups(bare bool) RendererOption {
	return func(o *rendererOptions) {
		o.bare = bare
	}
}

// WithBrowseURL sets the base of element links in popups.
func WithBrowseURL(u string) RendererOption {
	return func(o *rendererOptions) {
		if u != "" {
			o.browseURL = strings.TrimRight(u, "/")
		}
	}
}

// defaultRendererConfig provides a default configuration for renderers.  The
// palette is copied per renderer.
func defaultRendererConfig() rendererOptions {
	return rendererOptions{
		palette:   maps.Clone(DefaultPalette),
		radius:    DefaultPointRadius,
		weight:    DefaultLineWeight,
		browseURL: DefaultBrowseURL,
	}
}
