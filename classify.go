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

// Feature is an element classified for drawing on one side.
type Feature struct {
	Side   Side
	ID     model.ElementID
	Class  Classification
	Token  Token
	Coords []model.Coord
	Tags   []TagRow

	// Old and New are the versions of the element within its action; either
	// may be nil.
	Old model.Element
	New model.Element
}

// Result holds the classified features of a document, grouped by side.
type Result struct {
	Old []Feature
	New []Feature

	// Skipped counts elements that could not be drawn.
	Skipped int
}

// Len returns the total number of features.
func (r *Result) Len() int {
	return len(r.Old) + len(r.New)
}

// Features returns the features drawn on side.
func (r *Result) Features(side Side) []Feature {
	if side == New {
		return r.New
	}

	return r.Old
}

// ClassifyDocument classifies every drawable element of doc.  Actions are
// processed in document order and each action's old elements precede its new
// ones.  Elements without drawable geometry are counted in Skipped and
// otherwise ignored.
func ClassifyDocument(doc *model.Document) *Result {
	res := &Result{}

	if doc == nil {
		return res
	}

	for i := range doc.Actions {
		ClassifyAction(&doc.Actions[i], res)
	}

	return res
}

// ClassifyAction appends the features of a single action to res.
func ClassifyAction(a *model.Action, res *Result) {
	idx := NewIndex(a)

	for _, side := range []Side{Old, New} {
		for _, e := range idx.Elements(side) {
			f, ok := classifyElement(idx, side, e)
			if !ok {
				res.Skipped++

				continue
			}

			if side == New {
				res.New = append(res.New, f)
			} else {
				res.Old = append(res.Old, f)
			}
		}
	}
}

func classifyElement(idx *Index, side Side, e model.Element) (Feature, bool) {
	coords := model.Geometry(e)
	if coords == nil {
		return Feature{}, false
	}

	id := e.ElementID()
	old, new := idx.Old(id), idx.New(id)

	existsOld, existsNew := old != nil, new != nil
	geometryChanged := existsOld && existsNew && GeometryDiffers(old, new)

	return Feature{
		Side:   side,
		ID:     id,
		Class:  Classify(existsOld, existsNew, geometryChanged),
		Token:  StyleToken(existsOld, existsNew, geometryChanged, side),
		Coords: coords,
		Tags:   DiffTags(tagsOf(old), tagsOf(new)),
		Old:    old,
		New:    new,
	}, true
}

func tagsOf(e model.Element) model.Tags {
	if e == nil {
		return nil
	}

	return e.GetTags()
}
