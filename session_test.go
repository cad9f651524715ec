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
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"m4o.io/adiff/model"
)

var errUpstream = errors.New("upstream unavailable")

type fakeSource struct {
	changesets map[model.ChangesetID]*model.Changeset
	diffs      map[model.ChangesetID][]byte
	diffErr    error
	queries    []model.Query

	// block, when set, is waited on before the diff is returned
	block chan struct{}
}

func (f *fakeSource) Changeset(_ context.Context, id model.ChangesetID) (*model.Changeset, error) {
	cs, ok := f.changesets[id]
	if !ok {
		return nil, errors.New("no changeset found")
	}

	return cs, nil
}

func (f *fakeSource) Diff(_ context.Context, q model.Query) ([]byte, error) {
	f.queries = append(f.queries, q)

	if f.block != nil {
		<-f.block
	}

	if f.diffErr != nil {
		return nil, f.diffErr
	}

	for id, cs := range f.changesets {
		if cs.From.Add(-model.QueryLeadTime).Equal(q.From) {
			return f.diffs[id], nil
		}
	}

	return nil, nil
}

func newFakeSource(t *testing.T) *fakeSource {
	t.Helper()

	sample, err := os.ReadFile(samplePath)
	require.NoError(t, err)

	from := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	return &fakeSource{
		changesets: map[model.ChangesetID]*model.Changeset{
			200: {ID: 200, From: from, To: from.Add(5 * time.Minute),
				BoundingBox: &model.BoundingBox{Top: 51.6, Left: -0.2, Bottom: 51.4, Right: 0}},
			201: {ID: 201, From: from.Add(time.Hour)},
		},
		diffs: map[model.ChangesetID][]byte{
			200: sample,
			201: nil,
		},
	}
}

func TestLoaderLoad(t *testing.T) {
	src := newFakeSource(t)
	s := newRecordingSurface()
	l := NewLoader(src, s, nil, nil)

	session, err := l.Load(context.Background(), 200)
	require.NoError(t, err)

	require.Len(t, src.queries, 1)
	assert.Equal(t, time.Date(2024, 5, 1, 9, 59, 59, 0, time.UTC), src.queries[0].From)
	assert.Equal(t, model.Degrees(51.6), src.queries[0].BoundingBox.Top)

	assert.Equal(t, uint64(1), session.Token)
	assert.Equal(t, 8, session.Document.Len())
	assert.Equal(t, 10, session.Overlay.Len())
	assert.Len(t, session.Handles(), 2)
	assert.Len(t, s.groups, 2)
	assert.Len(t, s.fits, 1)
	assert.Same(t, session, l.Current())
}

func TestLoaderReplacesPreviousSession(t *testing.T) {
	s := newRecordingSurface()
	l := NewLoader(newFakeSource(t), s, nil, nil)

	first, err := l.Load(context.Background(), 200)
	require.NoError(t, err)

	second, err := l.Load(context.Background(), 201)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 2, s.removed, "both groups of the first session are removed")
	assert.Len(t, s.groups, 2)

	for _, h := range second.Handles() {
		assert.Contains(t, s.groups, h)
	}

	assert.Equal(t, 0, second.Overlay.Len(), "an empty diff yields empty groups")
	assert.Len(t, s.fits, 1, "an empty diff does not move the viewport")
}

func TestLoaderFailureLeavesSurfaceUntouched(t *testing.T) {
	src := newFakeSource(t)
	s := newRecordingSurface()
	l := NewLoader(src, s, nil, nil)

	first, err := l.Load(context.Background(), 200)
	require.NoError(t, err)

	_, err = l.Load(context.Background(), 999)
	assert.Error(t, err)

	src.diffErr = errUpstream
	_, err = l.Load(context.Background(), 200)
	assert.ErrorIs(t, err, errUpstream)

	assert.Zero(t, s.removed)
	assert.Same(t, first, l.Current())
	assert.Len(t, s.groups, 2)
}

func TestLoaderMalformedDiff(t *testing.T) {
	src := newFakeSource(t)
	src.diffs[200] = []byte(`<osm><action>`)

	s := newRecordingSurface()
	_, err := NewLoader(src, s, nil, nil).Load(context.Background(), 200)

	assert.ErrorIs(t, err, ErrMalformedDocument)
	assert.Zero(t, s.added)
}

func TestLoaderDiscardsStaleLoad(t *testing.T) {
	src := newFakeSource(t)
	src.block = make(chan struct{})

	s := newRecordingSurface()
	l := NewLoader(src, s, nil, nil)

	type outcome struct {
		session *Session
		err     error
	}

	done := make(chan outcome)

	go func() {
		session, err := l.Load(context.Background(), 200)
		done <- outcome{session, err}
	}()

	// wait for the first load to reach the diff stage
	require.Eventually(t, func() bool { return l.seq.Load() == 1 }, time.Second, time.Millisecond)

	latest, err := l.LoadDocument(context.Background(), strings.NewReader(`<osm/>`))
	require.NoError(t, err)

	close(src.block)

	stale := <-done
	assert.ErrorIs(t, stale.err, ErrStaleLoad)
	assert.Nil(t, stale.session)
	assert.Same(t, latest, l.Current())
	assert.Equal(t, 2, s.added, "only the latest load is drawn")
}

func TestLoaderWithoutSurface(t *testing.T) {
	l := NewLoader(nil, nil, NewRenderer(WithBarePopups(true)), nil)

	in, err := os.Open(samplePath)
	require.NoError(t, err)

	defer in.Close()

	session, err := l.LoadDocument(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, 10, session.Overlay.Len())
	assert.Empty(t, session.Handles())
	assert.Nil(t, l.Current())

	_, err = l.Load(context.Background(), 1)
	assert.Error(t, err, "a loader without source cannot fetch")
}

func TestLoaderSurfaceFailure(t *testing.T) {
	s := newRecordingSurface()
	s.failAdd = true

	_, err := NewLoader(newFakeSource(t), s, nil, nil).Load(context.Background(), 200)
	assert.Error(t, err)
}

func TestLoaderSurfaceFailureKeepsPreviousSession(t *testing.T) {
	s := newRecordingSurface()
	l := NewLoader(newFakeSource(t), s, nil, nil)

	first, err := l.Load(context.Background(), 200)
	require.NoError(t, err)

	s.failFit = true

	_, err = l.Load(context.Background(), 200)
	assert.Error(t, err)

	assert.Same(t, first, l.Current())
	assert.Len(t, s.groups, 2)

	for _, h := range first.Handles() {
		assert.Contains(t, s.groups, h)
	}

	assert.Equal(t, 2, s.removed, "only the partially drawn groups are removed")
}
