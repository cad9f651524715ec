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
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"m4o.io/adiff/model"
)

const samplePath = "testdata/sample.adiff.xml"

func decodeSample(t *testing.T) *model.Document {
	t.Helper()

	in, err := os.Open(samplePath)
	require.NoError(t, err)

	defer in.Close()

	doc, err := Decode(context.Background(), in)
	require.NoError(t, err)

	return doc
}

func node(id model.ID, lat, lon model.Degrees, tags model.Tags) *model.Node {
	return &model.Node{ID: id, Lat: lat, Lon: lon, Tags: tags}
}

func way(id model.ID, tags model.Tags, coords ...model.Degrees) *model.Way {
	w := &model.Way{ID: id, Tags: tags}

	for i := 0; i+1 < len(coords); i += 2 {
		w.Nodes = append(w.Nodes, model.WayNode{Ref: model.ID(i/2 + 1), Lat: coords[i], Lon: coords[i+1]})
	}

	return w
}

func container(elements ...model.Element) *model.Container {
	return &model.Container{Elements: elements}
}

// recordingSurface is an in-memory Surface that records every call.
type recordingSurface struct {
	groups  map[Handle]*Group
	fits    []model.BoundingBox
	added   int
	removed int
	failAdd bool
	failFit bool
}

func newRecordingSurface() *recordingSurface {
	return &recordingSurface{groups: make(map[Handle]*Group)}
}

func (s *recordingSurface) AddGroup(g *Group) (Handle, error) {
	if s.failAdd {
		return "", fmt.Errorf("surface is read-only")
	}

	s.added++
	h := Handle(fmt.Sprintf("%s-%d", g.Name, s.added))
	s.groups[h] = g

	return h, nil
}

func (s *recordingSurface) RemoveGroup(h Handle) error {
	if _, ok := s.groups[h]; !ok {
		return fmt.Errorf("unknown group %s", h)
	}

	s.removed++
	delete(s.groups, h)

	return nil
}

func (s *recordingSurface) FitBounds(b model.BoundingBox) error {
	if s.failFit {
		return fmt.Errorf("viewport is locked")
	}

	s.fits = append(s.fits, b)

	return nil
}
