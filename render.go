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
	"errors"
	"fmt"

	"m4o.io/adiff/model"
)

// PrimitiveKind is the shape of a drawable primitive.
type PrimitiveKind int

const (
	// Point is a circle marker with a radius.
	Point PrimitiveKind = iota

	// Polyline is a stroked line through two or more vertices.
	Polyline
)

func (k PrimitiveKind) String() string {
	if k == Polyline {
		return "polyline"
	}

	return "point"
}

// Primitive is a render-ready description of one classified element.
type Primitive struct {
	Kind   PrimitiveKind
	ID     model.ElementID
	Class  Classification
	Token  Token
	Coords []model.Coord
	Style  Style
	Popup  string
}

// Group is the set of primitives drawn for one side.
type Group struct {
	Name       string
	Side       Side
	Primitives []Primitive

	// Bounds is nil when the group is empty.
	Bounds *model.BoundingBox
}

// Overlay is the pair of groups produced by one rendering pass.
type Overlay struct {
	Old Group
	New Group

	// Bounds combines both groups and is nil when nothing can be drawn.
	Bounds *model.BoundingBox
}

// Len returns the number of primitives in both groups.
func (o *Overlay) Len() int {
	return len(o.Old.Primitives) + len(o.New.Primitives)
}

// Handle identifies a group added to a Surface.
type Handle string

// Surface is the mapping surface the overlays are drawn on.
type Surface interface {
	// AddGroup draws every primitive of g and returns a handle for later removal.
	AddGroup(g *Group) (Handle, error)

	// RemoveGroup removes a previously added group.
	RemoveGroup(h Handle) error

	// FitBounds moves the viewport so b is visible.
	FitBounds(b model.BoundingBox) error
}

// Renderer turns classified features into primitives.
type Renderer struct {
	palette   Palette
	radius    int
	weight    int
	bare      bool
	browseURL string
}

// NewRenderer returns a renderer configured with opts.
func NewRenderer(opts ...RendererOption) *Renderer {
	cfg := defaultRendererConfig()

	for _, opt := range opts {
		opt(&cfg)
	}

	return &Renderer{
		palette:   cfg.palette,
		radius:    cfg.radius,
		weight:    cfg.weight,
		bare:      cfg.bare,
		browseURL: cfg.browseURL,
	}
}

// Render builds the old and new groups of res, preserving feature order.
func (r *Renderer) Render(res *Result) *Overlay {
	o := &Overlay{
		Old: r.group(Old, res.Old),
		New: r.group(New, res.New),
	}

	if o.Old.Bounds != nil || o.New.Bounds != nil {
		b := model.InitialBoundingBox()
		b.ExpandWithBoundingBox(o.Old.Bounds)
		b.ExpandWithBoundingBox(o.New.Bounds)

		o.Bounds = b
	}

	return o
}

func (r *Renderer) group(side Side, features []Feature) Group {
	g := Group{
		Name:       side.String(),
		Side:       side,
		Primitives: make([]Primitive, 0, len(features)),
	}

	bounds := model.InitialBoundingBox()

	for i := range features {
		p := r.Primitive(&features[i])

		for _, c := range p.Coords {
			bounds.ExpandWithCoord(c)
		}

		g.Primitives = append(g.Primitives, p)
	}

	if bounds.IsValid() {
		g.Bounds = bounds
	}

	return g
}

// Primitive describes how a single feature is drawn.
func (r *Renderer) Primitive(f *Feature) Primitive {
	p := Primitive{
		ID:     f.ID,
		Class:  f.Class,
		Token:  f.Token,
		Coords: f.Coords,
		Style:  Style{Color: r.palette.Color(f.Token)},
		Popup:  r.popup(f),
	}

	if f.ID.Type == model.WAY {
		p.Kind = Polyline
		p.Style.Weight = r.weight
	} else {
		p.Kind = Point
		p.Style.Radius = r.radius
	}

	return p
}

// Show adds both groups of o to s and, when o has valid bounds, fits the
// viewport to them.  The returned handles identify the added groups even
// when a later step fails.
func (r *Renderer) Show(s Surface, o *Overlay) ([]Handle, error) {
	handles := make([]Handle, 0, 2)

	for _, g := range []*Group{&o.Old, &o.New} {
		h, err := s.AddGroup(g)
		if err != nil {
			return handles, fmt.Errorf("unable to add %s group: %w", g.Name, err)
		}

		handles = append(handles, h)
	}

	if o.Bounds.IsValid() {
		if err := s.FitBounds(*o.Bounds); err != nil {
			return handles, fmt.Errorf("unable to fit bounds: %w", err)
		}
	}

	return handles, nil
}

// Clear removes previously added groups from s.
func Clear(s Surface, handles []Handle) error {
	var errs []error

	for _, h := range handles {
		if err := s.RemoveGroup(h); err != nil {
			errs = append(errs, fmt.Errorf("unable to remove group %s: %w", h, err))
		}
	}

	return errors.Join(errs...)
}
