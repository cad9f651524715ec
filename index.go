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

// Side is one of the two versions of an action.
type Side int

const (
	// Old is the version before the edit.
	Old Side = iota

	// New is the version after the edit.
	New
)

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == Old {
		return New
	}

	return Old
}

func (s Side) String() string {
	if s == Old {
		return "old"
	}

	return "new"
}

// Index provides constant time lookup of the elements of one action by kind
// and id.  It never spans more than one action.
type Index struct {
	sides [2]map[model.ElementID]model.Element
	order [2][]model.Element
}

// NewIndex builds the index of a single action.  When the action has neither
// an old nor a new container, its direct elements are assigned to the new
// side for a create action and to the old side otherwise.
func NewIndex(a *model.Action) *Index {
	idx := &Index{}

	if a.IsFallback() {
		side := Old
		if a.FallbackIsNew() {
			side = New
		}

		idx.add(side, a.Fallback)

		return idx
	}

	idx.add(Old, a.Old)
	idx.add(New, a.New)

	return idx
}

func (idx *Index) add(side Side, c *model.Container) {
	idx.sides[side] = make(map[model.ElementID]model.Element, c.Len())

	if c == nil {
		return
	}

	idx.order[side] = c.Elements

	for _, e := range c.Elements {
		id := e.ElementID()

		// the first occurrence is the correspondent
		if _, ok := idx.sides[side][id]; !ok {
			idx.sides[side][id] = e
		}
	}
}

// Lookup returns the element with the given id on side, or nil.
func (idx *Index) Lookup(side Side, id model.ElementID) model.Element {
	return idx.sides[side][id]
}

// Old returns the old version of the element, or nil.
func (idx *Index) Old(id model.ElementID) model.Element {
	return idx.Lookup(Old, id)
}

// New returns the new version of the element, or nil.
func (idx *Index) New(id model.ElementID) model.Element {
	return idx.Lookup(New, id)
}

// Elements returns the elements of side in document order, including
// repeated ids.
func (idx *Index) Elements(side Side) []model.Element {
	return idx.order[side]
}
