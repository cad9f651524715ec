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
	"testing"

	"github.com/stretchr/testify/assert"

	"m4o.io/adiff/model"
)

func TestIndexCorrespondence(t *testing.T) {
	oldNode := node(1, 1, 1, nil)
	newNode := node(1, 2, 2, nil)
	newWay := way(1, nil, 1, 1, 2, 2)

	a := &model.Action{
		Type: model.ActionModify,
		Old:  container(oldNode),
		New:  container(newNode, newWay),
	}

	idx := NewIndex(a)

	nodeID := model.ElementID{Type: model.NODE, ID: 1}
	wayID := model.ElementID{Type: model.WAY, ID: 1}

	assert.Same(t, oldNode, idx.Old(nodeID))
	assert.Same(t, newNode, idx.New(nodeID))
	assert.Same(t, newWay, idx.New(wayID))
	assert.Nil(t, idx.Old(wayID), "same id of another kind does not correspond")

	assert.Len(t, idx.Elements(Old), 1)
	assert.Len(t, idx.Elements(New), 2)
}

func TestIndexFallback(t *testing.T) {
	n1, n2 := node(1, 1, 1, nil), node(2, 2, 2, nil)

	create := NewIndex(&model.Action{Type: model.ActionCreate, Fallback: container(n1, n2)})
	assert.Len(t, create.Elements(New), 2)
	assert.Empty(t, create.Elements(Old))
	assert.Same(t, n2, create.New(n2.ElementID()))

	for _, typ := range []model.ActionType{model.ActionDelete, model.ActionModify, model.ActionUnknown} {
		idx := NewIndex(&model.Action{Type: typ, Fallback: container(n1, n2)})
		assert.Len(t, idx.Elements(Old), 2, string(typ))
		assert.Empty(t, idx.Elements(New), string(typ))
	}
}

func TestIndexIgnoresFallbackWithContainers(t *testing.T) {
	idx := NewIndex(&model.Action{
		Type:     model.ActionCreate,
		New:      container(node(1, 1, 1, nil)),
		Fallback: container(node(2, 2, 2, nil)),
	})

	assert.Len(t, idx.Elements(New), 1)
	assert.Nil(t, idx.New(model.ElementID{Type: model.NODE, ID: 2}))
}

func TestIndexFirstOccurrenceWins(t *testing.T) {
	first, second := node(1, 1, 1, nil), node(1, 2, 2, nil)

	idx := NewIndex(&model.Action{Old: container(first, second)})

	assert.Same(t, first, idx.Old(first.ElementID()))
	assert.Len(t, idx.Elements(Old), 2)
}

func TestIndexEmptyAction(t *testing.T) {
	idx := NewIndex(&model.Action{})

	assert.Empty(t, idx.Elements(Old))
	assert.Empty(t, idx.Elements(New))
	assert.Nil(t, idx.Old(model.ElementID{Type: model.NODE, ID: 1}))
}

func TestSideOpposite(t *testing.T) {
	assert.Equal(t, New, Old.Opposite())
	assert.Equal(t, Old, New.Opposite())
	assert.Equal(t, "old", Old.String())
}
