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
	"m4o.io/adiff/model"
)

// GeometryDiffers reports whether the geometry of an element differs between
// its old and new version.  Coordinates are compared exactly as parsed.  A
// missing version, a kind mismatch, or a missing coordinate on either side
// is always a change.
func GeometryDiffers(old, new model.Element) bool {
	switch o := old.(type) {
	case *model.Node:
		n, ok := new.(*model.Node)
		if !ok || o == nil || n == nil {
			return true
		}

		return !o.Coord().Equal(n.Coord())
	case *model.Way:
		n, ok := new.(*model.Way)
		if !ok || o == nil || n == nil {
			return true
		}

		return wayChanged(o, n)
	default:
		return true
	}
}

// wayChanged compares vertex sequences in order; reordering is a change.
func wayChanged(old, new *model.Way) bool {
	if len(old.Nodes) != len(new.Nodes) {
		return true
	}

	for i := range old.Nodes {
		if !old.Nodes[i].Coord().Equal(new.Nodes[i].Coord()) {
			return true
		}
	}

	return false
}

// Displacement returns the distance in meters a node moved, and false when
// either version is not a node with a valid position.
func Displacement(old, new model.Element) (float64, bool) {
	o, ok := old.(*model.Node)
	if !ok || o == nil {
		return 0, false
	}

	n, ok := new.(*model.Node)
	if !ok || n == nil {
		return 0, false
	}

	if !o.Coord().Valid() || !n.Coord().Valid() {
		return 0, false
	}

	return o.Coord().DistanceTo(n.Coord()), true
}
