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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"m4o.io/adiff/model"
)

func TestRenderSample(t *testing.T) {
	o := NewRenderer().Render(ClassifyDocument(decodeSample(t)))

	assert.Equal(t, "old", o.Old.Name)
	assert.Equal(t, "new", o.New.Name)
	assert.Len(t, o.Old.Primitives, 4)
	assert.Len(t, o.New.Primitives, 6)
	assert.Equal(t, 10, o.Len())

	require.NotNil(t, o.Bounds)
	assert.True(t, o.Bounds.IsValid())
	assert.Equal(t, model.Degrees(51.531), o.Bounds.Top)
	assert.Equal(t, model.Degrees(51.5), o.Bounds.Bottom)
	assert.Equal(t, model.Degrees(-0.131), o.Bounds.Left)
	assert.Equal(t, model.Degrees(-0.1), o.Bounds.Right)

	cafe := o.New.Primitives[0]
	assert.Equal(t, Point, cafe.Kind)
	assert.Equal(t, Style{Color: "#87cefa", Radius: DefaultPointRadius}, cafe.Style)

	deleted := o.Old.Primitives[2]
	assert.Equal(t, Polyline, deleted.Kind)
	assert.Equal(t, Style{Color: "#ff3333", Weight: DefaultLineWeight}, deleted.Style)
	assert.Len(t, deleted.Coords, 2)
}

func TestRenderEmpty(t *testing.T) {
	o := NewRenderer().Render(ClassifyDocument(&model.Document{}))

	assert.Empty(t, o.Old.Primitives)
	assert.Empty(t, o.New.Primitives)
	assert.Nil(t, o.Bounds)

	s := newRecordingSurface()
	handles, err := NewRenderer().Show(s, o)
	require.NoError(t, err)

	assert.Len(t, handles, 2, "empty groups are still added")
	assert.Empty(t, s.fits, "no viewport change without bounds")
}

func TestRenderOptions(t *testing.T) {
	r := NewRenderer(
		WithPalette(Palette{TokenCreated: "#000000"}),
		WithPointRadius(9),
		WithLineWeight(0),
		WithBarePopups(true),
		WithBrowseURL("https://osm.example.org/"),
	)

	res := ClassifyDocument(&model.Document{Actions: []model.Action{{
		Type: model.ActionCreate,
		New:  container(node(1, 1, 1, model.Tags{"a": "b"}), way(2, nil, 1, 1, 2, 2)),
	}}})

	o := r.Render(res)
	require.Len(t, o.New.Primitives, 2)

	p := o.New.Primitives[0]
	assert.Equal(t, Style{Color: "#000000", Radius: 9}, p.Style)
	assert.Equal(t, `<b>Node <a href="https://osm.example.org/node/1" target="_blank">1</a></b>`, p.Popup)

	w := o.New.Primitives[1]
	assert.Equal(t, DefaultLineWeight, w.Style.Weight, "non-positive weights are ignored")

	assert.Equal(t, "#faf797", DefaultPalette[TokenCreated], "the default palette is not modified")
}

func TestPopupTagTable(t *testing.T) {
	r := NewRenderer()

	f := &Feature{
		ID:    model.ElementID{Type: model.NODE, ID: 1001},
		Class: Modified,
		Tags: DiffTags(
			model.Tags{"amenity": "cafe", "name": "Joe", "old": "<x>"},
			model.Tags{"amenity": "cafe", "name": "Joes", "wifi": "yes"},
		),
	}

	popup := r.popup(f)

	assert.True(t, strings.HasPrefix(popup,
		`<b>Node <a href="https://www.openstreetmap.org/node/1001" target="_blank">1001</a></b><br><table`))
	assert.Contains(t, popup, `<tr><td>amenity</td><td>cafe</td><td>cafe</td></tr>`)
	assert.Contains(t, popup, `<tr><td>name</td><td style="color:red;">Joe</td><td style="color:green;">Joes</td></tr>`)
	assert.Contains(t, popup, `<tr><td>old</td><td style="color:red;">&lt;x&gt;</td><td></td></tr>`)
	assert.Contains(t, popup, `<tr><td>wifi</td><td></td><td style="color:green;">yes</td></tr>`)
	assert.NotContains(t, popup, "No tags")
}

func TestPopupNoTags(t *testing.T) {
	popup := NewRenderer().popup(&Feature{ID: model.ElementID{Type: model.WAY, ID: 7}})

	assert.Equal(t,
		`<b>Way <a href="https://www.openstreetmap.org/way/7" target="_blank">7</a></b><br><i>No tags</i>`,
		popup)
}

func TestPopupDisplacement(t *testing.T) {
	f := &Feature{
		ID:    model.ElementID{Type: model.NODE, ID: 1},
		Class: GeometryChanged,
		Old:   node(1, 0, 0, nil),
		New:   node(1, 0, 0.001, nil),
	}

	assert.Contains(t, NewRenderer().popup(f), "<i>moved 111.2 m</i>")

	// 0.0009 degrees is about 100.08 m
	f.New = node(1, 0, 0.0009, nil)
	assert.Contains(t, NewRenderer().popup(f), "<i>moved 100.1 m</i>")
}

func TestShowFitsBounds(t *testing.T) {
	o := NewRenderer().Render(ClassifyDocument(decodeSample(t)))
	s := newRecordingSurface()

	handles, err := NewRenderer().Show(s, o)
	require.NoError(t, err)

	assert.Len(t, handles, 2)
	require.Len(t, s.fits, 1)
	assert.Equal(t, *o.Bounds, s.fits[0])

	require.NoError(t, Clear(s, handles))
	assert.Empty(t, s.groups)

	assert.Error(t, Clear(s, handles), "groups can only be removed once")
}
