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

// Package leaflet implements a drawing surface that is exported as GeoJSON
// or as a standalone Leaflet web page.
package leaflet

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"m4o.io/adiff"
	"m4o.io/adiff/model"
)

var ErrUnknownHandle = errors.New("unknown group handle")

type layer struct {
	handle adiff.Handle
	group  *adiff.Group
}

// Map holds the groups currently drawn and the viewport they were fitted to.
// Groups are stacked in the order they were added.
type Map struct {
	mu     sync.RWMutex
	layers []layer
	bounds *model.BoundingBox
}

// NewMap creates an empty map.
func NewMap() *Map {
	return &Map{}
}

var _ adiff.Surface = (*Map)(nil)

func (m *Map) AddGroup(g *adiff.Group) (adiff.Handle, error) {
	if g == nil {
		return "", errors.New("nil group")
	}

	h := adiff.Handle(fmt.Sprintf("%s-%s", g.Name, uuid.NewString()))

	m.mu.Lock()
	defer m.mu.Unlock()

	m.layers = append(m.layers, layer{handle: h, group: g})

	return h, nil
}

func (m *Map) RemoveGroup(h adiff.Handle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := slices.IndexFunc(m.layers, func(l layer) bool { return l.handle == h })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownHandle, h)
	}

	m.layers = slices.Delete(m.layers, i, i+1)

	return nil
}

func (m *Map) FitBounds(b model.BoundingBox) error {
	if !b.IsValid() {
		return fmt.Errorf("cannot fit invalid bounds %s", b.String())
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.bounds = &b

	return nil
}

// Groups returns the groups currently drawn, bottom first.
func (m *Map) Groups() []*adiff.Group {
	m.mu.RLock()
	defer m.mu.RUnlock()

	groups := make([]*adiff.Group, 0, len(m.layers))
	for _, l := range m.layers {
		groups = append(groups, l.group)
	}

	return groups
}

// Bounds returns the viewport of the last fit, or nil.
func (m *Map) Bounds() *model.BoundingBox {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.bounds == nil {
		return nil
	}

	b := *m.bounds

	return &b
}

// FeatureCollection converts the drawn groups to GeoJSON.  Every feature
// carries its group, classification, style and popup as properties.
func (m *Map) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, g := range m.Groups() {
		for i := range g.Primitives {
			fc.Append(Feature(g.Name, &g.Primitives[i]))
		}
	}

	if b := m.Bounds(); b != nil {
		fc.BBox = geojson.NewBBox(orb.Bound{
			Min: orb.Point{float64(b.Left), float64(b.Bottom)},
			Max: orb.Point{float64(b.Right), float64(b.Top)},
		})
	}

	return fc
}

// Feature converts a single primitive.
func Feature(group string, p *adiff.Primitive) *geojson.Feature {
	var geom orb.Geometry

	if p.Kind == adiff.Polyline {
		ls := make(orb.LineString, 0, len(p.Coords))
		for _, c := range p.Coords {
			ls = append(ls, point(c))
		}

		geom = ls
	} else {
		geom = point(p.Coords[0])
	}

	f := geojson.NewFeature(geom)
	f.ID = p.ID.String()
	f.Properties["group"] = group
	f.Properties["class"] = p.Class.String()
	f.Properties["token"] = string(p.Token)
	f.Properties["color"] = p.Style.Color
	f.Properties["popup"] = p.Popup

	if p.Kind == adiff.Polyline {
		f.Properties["weight"] = p.Style.Weight
	} else {
		f.Properties["radius"] = p.Style.Radius
	}

	return f
}

func point(c model.Coord) orb.Point {
	return orb.Point{float64(c.Lon), float64(c.Lat)}
}
