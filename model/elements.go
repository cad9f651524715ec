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

// Package model contains the shared model for augmented diff decoding,
// classification and rendering.
package model

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidCoordinate is returned when a coordinate parses to a value that
// cannot be placed on a map.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// MinWayVertices is the number of valid vertices a way needs to be drawn.
const MinWayVertices = 2

// ID is the primary key of an element.  Identifiers are only unique within
// an ElementType.
type ID int64

// ParseID converts a string to an ID.
func ParseID(s string) (ID, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}

	return ID(id), nil
}

// ElementType is an enumeration of the element kinds found in an augmented diff.
type ElementType int32

const (
	// NODE denotes a point element.
	NODE ElementType = iota

	// WAY denotes an ordered sequence of nodes.
	WAY
)

func (t ElementType) String() string {
	switch t {
	case NODE:
		return "node"
	case WAY:
		return "way"
	default:
		return "ElementType(" + strconv.Itoa(int(t)) + ")"
	}
}

// ElementID identifies an element by kind and id.
type ElementID struct {
	Type ElementType
	ID   ID
}

func (e ElementID) String() string {
	return fmt.Sprintf("%s/%d", e.Type, e.ID)
}

// Tags maps a tag key to its value.  A nil Tags denotes an element that does
// not exist, whereas an empty Tags denotes an element without tags.
type Tags map[string]string

// Element is implemented by Node and Way.
type Element interface {
	isElement() // prevents extensions

	GetID() ID

	GetType() ElementType

	GetTags() Tags

	ElementID() ElementID
}

// Node represents a specific point on the earth's surface defined by its
// latitude and longitude.  Lat and Lon are Missing when the source did not
// carry a usable value.
type Node struct {
	ID   ID
	Tags Tags
	Lat  Degrees
	Lon  Degrees
}

var _ Element = (*Node)(nil)

func (n *Node) isElement() {}

func (n *Node) GetID() ID {
	return n.ID
}

func (n *Node) GetType() ElementType {
	return NODE
}

func (n *Node) GetTags() Tags {
	return n.Tags
}

func (n *Node) ElementID() ElementID {
	return ElementID{Type: NODE, ID: n.ID}
}

// Coord returns the node's position.
func (n *Node) Coord() Coord {
	return Coord{Lat: n.Lat, Lon: n.Lon}
}

// WayNode is a reference from a way to a node, carrying the node's position
// as denormalized by the "geom" output mode.
type WayNode struct {
	Ref ID
	Lat Degrees
	Lon Degrees
}

// Coord returns the vertex position.
func (wn WayNode) Coord() Coord {
	return Coord{Lat: wn.Lat, Lon: wn.Lon}
}

// Way is an ordered list of nodes that define a polyline.
type Way struct {
	ID    ID
	Tags  Tags
	Nodes []WayNode
}

var _ Element = (*Way)(nil)

func (w *Way) isElement() {}

func (w *Way) GetID() ID {
	return w.ID
}

func (w *Way) GetType() ElementType {
	return WAY
}

func (w *Way) GetTags() Tags {
	return w.Tags
}

func (w *Way) ElementID() ElementID {
	return ElementID{Type: WAY, ID: w.ID}
}

// Coords returns the valid vertices of the way, in order.  Vertices with a
// missing or malformed coordinate are dropped.
func (w *Way) Coords() []Coord {
	coords := make([]Coord, 0, len(w.Nodes))

	for _, wn := range w.Nodes {
		if c := wn.Coord(); c.Valid() {
			coords = append(coords, c)
		}
	}

	return coords
}

// Geometry returns the drawable coordinates of e, or nil when e cannot be
// drawn: a node with an invalid position or a way with fewer than
// MinWayVertices valid vertices.
func Geometry(e Element) []Coord {
	switch e := e.(type) {
	case *Node:
		if c := e.Coord(); c.Valid() {
			return []Coord{c}
		}
	case *Way:
		if coords := e.Coords(); len(coords) >= MinWayVertices {
			return coords
		}
	}

	return nil
}
