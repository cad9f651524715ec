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
	"github.com/stretchr/testify/require"

	"m4o.io/adiff/model"
)

func TestStyleToken(t *testing.T) {
	testCases := []struct {
		existsOld, existsNew, geometryChanged bool
		side                                  Side
		expected                              Token
	}{
		{false, true, false, New, TokenCreated},
		{false, true, true, New, TokenCreated},
		{true, false, false, Old, TokenDeleted},
		{true, false, true, Old, TokenDeleted},
		{true, true, true, Old, TokenGeometryOld},
		{true, true, true, New, TokenGeometryNew},
		{true, true, false, Old, TokenModified},
		{true, true, false, New, TokenModified},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, StyleToken(tc.existsOld, tc.existsNew, tc.geometryChanged, tc.side), "%+v", tc)
	}
}

func TestClassifyUnchangedNode(t *testing.T) {
	tags := model.Tags{"amenity": "cafe"}
	a := &model.Action{
		Type: model.ActionModify,
		Old:  container(node(1, 51.5, -0.1, tags)),
		New:  container(node(1, 51.5, -0.1, tags)),
	}

	res := &Result{}
	ClassifyAction(a, res)

	require.Len(t, res.Old, 1)
	require.Len(t, res.New, 1)

	for _, f := range []Feature{res.Old[0], res.New[0]} {
		assert.Equal(t, Modified, f.Class)
		assert.Equal(t, TokenModified, f.Token)
		assert.False(t, Summarize(f.Tags).HasChanges())
	}
}

func TestClassifyCreatedAndDeleted(t *testing.T) {
	res := ClassifyDocument(&model.Document{Actions: []model.Action{
		{Type: model.ActionCreate, New: container(node(1, 1, 1, model.Tags{"a": "b"}))},
		{Type: model.ActionDelete, Old: container(node(2, 2, 2, model.Tags{"a": "b"}))},
	}})

	require.Len(t, res.New, 1)
	require.Len(t, res.Old, 1)

	assert.Equal(t, Created, res.New[0].Class)
	assert.Equal(t, Added, res.New[0].Tags[0].Change)
	assert.Nil(t, res.New[0].Old)

	assert.Equal(t, Deleted, res.Old[0].Class)
	assert.Equal(t, Removed, res.Old[0].Tags[0].Change)
	assert.Nil(t, res.Old[0].New)
}

func TestClassifyWayGeometryChanged(t *testing.T) {
	res := ClassifyDocument(&model.Document{Actions: []model.Action{{
		Type: model.ActionModify,
		Old:  container(way(7, nil, 1, 1, 2, 2, 3, 3)),
		New:  container(way(7, nil, 1, 1, 2, 2.5, 3, 3)),
	}}})

	require.Len(t, res.Old, 1)
	require.Len(t, res.New, 1)

	assert.Equal(t, GeometryChanged, res.Old[0].Class)
	assert.Equal(t, TokenGeometryOld, res.Old[0].Token)
	assert.Equal(t, GeometryChanged, res.New[0].Class)
	assert.Equal(t, TokenGeometryNew, res.New[0].Token)
}

func TestClassifyFallbackCreate(t *testing.T) {
	res := ClassifyDocument(&model.Document{Actions: []model.Action{{
		Type:     model.ActionCreate,
		Fallback: container(node(1, 1, 1, nil), node(2, 2, 2, nil)),
	}}})

	assert.Empty(t, res.Old)
	require.Len(t, res.New, 2)

	for _, f := range res.New {
		assert.Equal(t, Created, f.Class)
		assert.Equal(t, New, f.Side)
	}
}

func TestClassifyFallbackDefaultsToOld(t *testing.T) {
	res := ClassifyDocument(&model.Document{Actions: []model.Action{{
		Fallback: container(node(1, 1, 1, nil)),
	}}})

	assert.Empty(t, res.New)
	require.Len(t, res.Old, 1)
	assert.Equal(t, Deleted, res.Old[0].Class)
}

func TestClassifySkipsUndrawable(t *testing.T) {
	nan := model.Missing

	res := ClassifyDocument(&model.Document{Actions: []model.Action{
		{Type: model.ActionCreate, New: container(node(1, nan, 1, nil))},
		{Type: model.ActionCreate, New: container(way(2, nil, 1, 1, nan, 2, 3, nan))},
		{Type: model.ActionCreate, New: container(node(3, 3, 3, nil))},
	}})

	require.Len(t, res.New, 1)
	assert.Equal(t, model.ID(3), res.New[0].ID.ID)
	assert.Equal(t, 2, res.Skipped)
}

func TestClassifyScopedToAction(t *testing.T) {
	res := ClassifyDocument(&model.Document{Actions: []model.Action{
		{Type: model.ActionDelete, Old: container(node(1, 1, 1, nil))},
		{Type: model.ActionCreate, New: container(node(1, 1, 1, nil))},
	}})

	require.Len(t, res.Old, 1)
	require.Len(t, res.New, 1)
	assert.Equal(t, Deleted, res.Old[0].Class, "correspondents are not looked up across actions")
	assert.Equal(t, Created, res.New[0].Class)
}

func TestClassifyIdempotent(t *testing.T) {
	doc := decodeSample(t)

	assert.Equal(t, ClassifyDocument(doc), ClassifyDocument(doc))
}

func TestClassifyEmpty(t *testing.T) {
	for _, doc := range []*model.Document{nil, {}} {
		res := ClassifyDocument(doc)
		assert.Empty(t, res.Old)
		assert.Empty(t, res.New)
		assert.Zero(t, res.Len())
	}
}

func TestClassifySample(t *testing.T) {
	res := ClassifyDocument(decodeSample(t))

	classes := func(features []Feature) map[string]Token {
		m := make(map[string]Token)
		for _, f := range features {
			m[f.ID.String()] = f.Token
		}

		return m
	}

	assert.Equal(t, map[string]Token{
		"node/1001": TokenModified,
		"node/1002": TokenGeometryOld,
		"way/2001":  TokenDeleted,
		"way/2002":  TokenGeometryOld,
	}, classes(res.Old))

	assert.Equal(t, map[string]Token{
		"node/1001": TokenModified,
		"node/1002": TokenGeometryNew,
		"node/1003": TokenCreated,
		"way/2002":  TokenGeometryNew,
		"node/1004": TokenCreated,
		"node/1005": TokenCreated,
	}, classes(res.New))

	assert.Equal(t, 4, res.Skipped)

	cafe := res.New[0]
	assert.Equal(t, "node/1001", cafe.ID.String())
	assert.Equal(t, []TagRow{
		{Key: "amenity", Old: "cafe", New: "cafe", Change: Unchanged},
		{Key: "name", Old: "Joe", New: "Joes", Change: Changed},
		{Key: "wifi", New: "yes", Change: Added},
	}, cafe.Tags)
	assert.Equal(t, res.Old[0].Tags, cafe.Tags, "tag rows do not depend on the side drawn")
}
