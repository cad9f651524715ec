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

package model

import (
	"fmt"
)

const (
	MaxLat Degrees = 90.0
	MaxLon Degrees = 180.0
	MinLat Degrees = -90.0
	MinLon Degrees = -180.0
)

// BoundingBox is simply a bounding box.
type BoundingBox struct {
	Top    Degrees `json:"top"`
	Left   Degrees `json:"left"`
	Bottom Degrees `json:"bottom"`
	Right  Degrees `json:"right"`
}

// InitialBoundingBox creates a BoundingBox that is meant to be expanded.  It
// is not valid until at least one coordinate has been added.
func InitialBoundingBox() *BoundingBox {
	return &BoundingBox{
		Top:    MinLat,
		Left:   MaxLon,
		Bottom: MaxLat,
		Right:  MinLon,
	}
}

// IsValid reports whether the bounding box encloses at least one point.
func (b *BoundingBox) IsValid() bool {
	if b == nil {
		return false
	}

	return b.Top.IsValid() && b.Left.IsValid() && b.Bottom.IsValid() && b.Right.IsValid() &&
		b.Top >= b.Bottom && b.Right >= b.Left
}

// EqualWithin checks if two bounding boxes are within a specific epsilon.
func (b *BoundingBox) EqualWithin(o *BoundingBox, eps Epsilon) bool {
	return b.Left.EqualWithin(o.Left, eps) &&
		b.Right.EqualWithin(o.Right, eps) &&
		b.Top.EqualWithin(o.Top, eps) &&
		b.Bottom.EqualWithin(o.Bottom, eps)
}

// Contains checks if the bounding box contains the lat lng point.
func (b *BoundingBox) Contains(lat Degrees, lng Degrees) bool {
	return b.Left <= lng && lng <= b.Right && b.Bottom <= lat && lat <= b.Top
}

// ExpandWithLatLng grows the bounding box to include the point.  Invalid
// coordinates are ignored.
func (b *BoundingBox) ExpandWithLatLng(lat, lng Degrees) {
	if !lat.IsValid() || !lng.IsValid() {
		return
	}

	if b.Top < lat {
		b.Top = lat
	}

	if b.Bottom > lat {
		b.Bottom = lat
	}

	if b.Left > lng {
		b.Left = lng
	}

	if b.Right < lng {
		b.Right = lng
	}
}

// ExpandWithCoord grows the bounding box to include c.
func (b *BoundingBox) ExpandWithCoord(c Coord) {
	b.ExpandWithLatLng(c.Lat, c.Lon)
}

// ExpandWithBoundingBox grows the bounding box to include bbox.  Invalid
// boxes are ignored.
func (b *BoundingBox) ExpandWithBoundingBox(bbox *BoundingBox) {
	if !bbox.IsValid() {
		return
	}

	b.ExpandWithLatLng(bbox.Top, bbox.Left)
	b.ExpandWithLatLng(bbox.Bottom, bbox.Right)
}

func (b *BoundingBox) String() string {
	return fmt.Sprintf("[(%s, %s) (%s, %s)]",
		ftoa(float64(b.Top)), ftoa(float64(b.Left)),
		ftoa(float64(b.Bottom)), ftoa(float64(b.Right)))
}
