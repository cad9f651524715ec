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

// Classification is the derived edit category of a drawn element.
type Classification int

const (
	// Modified denotes an element present on both sides with identical geometry.
	Modified Classification = iota

	// Created denotes an element without an old version.
	Created

	// Deleted denotes an element without a new version.
	Deleted

	// GeometryChanged denotes an element present on both sides whose
	// geometry differs.
	GeometryChanged
)

func (c Classification) String() string {
	switch c {
	case Created:
		return "created"
	case Deleted:
		return "deleted"
	case GeometryChanged:
		return "geometry-changed"
	default:
		return "modified"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Classification) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Classify derives the classification of an element from the existence of
// its two versions.
func Classify(existsOld, existsNew, geometryChanged bool) Classification {
	switch {
	case !existsOld:
		return Created
	case !existsNew:
		return Deleted
	case geometryChanged:
		return GeometryChanged
	default:
		return Modified
	}
}

// Token names the style an element is drawn with.  Geometry changes get a
// distinct token per side so before and after can be told apart.
type Token string

const (
	TokenCreated     Token = "created"
	TokenModified    Token = "modified"
	TokenDeleted     Token = "deleted"
	TokenGeometryOld Token = "geometry-old"
	TokenGeometryNew Token = "geometry-new"
)

// Tokens lists every token in legend order.
var Tokens = []Token{TokenCreated, TokenModified, TokenDeleted, TokenGeometryOld, TokenGeometryNew}

// StyleToken selects the style of an element drawn on side.
func StyleToken(existsOld, existsNew, geometryChanged bool, side Side) Token {
	switch Classify(existsOld, existsNew, geometryChanged) {
	case Created:
		return TokenCreated
	case Deleted:
		return TokenDeleted
	case GeometryChanged:
		if side == New {
			return TokenGeometryNew
		}

		return TokenGeometryOld
	default:
		return TokenModified
	}
}

// Palette maps tokens to CSS colors.
type Palette map[Token]string

// DefaultPalette is tuned for a darkened tile layer.
var DefaultPalette = Palette{
	TokenCreated:     "#faf797",
	TokenModified:    "#87cefa",
	TokenDeleted:     "#ff3333",
	TokenGeometryOld: "#8b0000",
	TokenGeometryNew: "#90ee90",
}

// Color returns the color of t, falling back to DefaultPalette for tokens
// the palette does not define.
func (p Palette) Color(t Token) string {
	if c, ok := p[t]; ok && c != "" {
		return c
	}

	return DefaultPalette[t]
}

// Style is the resolved drawing style of a primitive.
type Style struct {
	Color  string `json:"color"`
	Radius int    `json:"radius,omitempty"`
	Weight int    `json:"weight,omitempty"`
}
