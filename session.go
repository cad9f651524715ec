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
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"m4o.io/adiff/model"
)

// ErrStaleLoad is returned when a load finished after a newer load was
// started.  Its result is discarded and never reaches the surface.
var ErrStaleLoad = errors.New("superseded by a newer load")

// Source provides the two stages of fetching a changeset's augmented diff.
type Source interface {
	// Changeset returns the time range and bounding box of a changeset.
	Changeset(ctx context.Context, id model.ChangesetID) (*model.Changeset, error)

	// Diff returns the raw augmented diff for a query.
	Diff(ctx context.Context, q model.Query) ([]byte, error)
}

// Session is the outcome of one load: its input, classification and the
// groups it drew.
type Session struct {
	ID        uuid.UUID
	Token     uint64
	Changeset *model.Changeset
	Query     *model.Query
	Document  *model.Document
	Result    *Result
	Overlay   *Overlay

	handles []Handle
}

// Handles returns the handles of the groups the session added to the surface.
func (s *Session) Handles() []Handle {
	return s.handles
}

// Loader runs loads against a source and draws them on a surface.  Each load
// receives a token from a monotonically increasing sequence; only the result
// of the latest load is drawn.  On failure the previously drawn session stays
// on the surface untouched.
type Loader struct {
	source   Source
	surface  Surface
	renderer *Renderer
	logger   *slog.Logger

	seq atomic.Uint64

	mu      sync.Mutex // guards current and the surface
	current *Session
}

// NewLoader creates a loader.  The surface may be nil, in which case sessions
// are classified and rendered but not drawn.
func NewLoader(source Source, surface Surface, renderer *Renderer, logger *slog.Logger) *Loader {
	if renderer == nil {
		renderer = NewRenderer()
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Loader{
		source:   source,
		surface:  surface,
		renderer: renderer,
		logger:   logger,
	}
}

// Current returns the session currently drawn, or nil.
func (l *Loader) Current() *Session {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.current
}

// Load fetches the metadata of changeset id, then its augmented diff, and
// draws the classified result.  Any failure before classification ends the
// load without touching the surface.
func (l *Loader) Load(ctx context.Context, id model.ChangesetID) (*Session, error) {
	if l.source == nil {
		return nil, errors.New("loader has no source")
	}

	s := l.newSession()
	logger := l.logger.With("changeset", int64(id), "token", s.Token)

	cs, err := l.source.Changeset(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("unable to load changeset %d: %w", id, err)
	}

	q := model.NewQuery(cs)
	logger.Debug("changeset metadata loaded", "from", q.From, "to", q.To, "bbox", q.BoundingBox.String())

	raw, err := l.source.Diff(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("unable to load diff of changeset %d: %w", id, err)
	}

	doc, err := Decode(ctx, bytes.NewReader(raw), WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("unable to decode diff of changeset %d: %w", id, err)
	}

	s.Changeset = cs
	s.Query = &q
	s.Document = doc

	return l.present(s, logger)
}

// LoadDocument decodes an augmented diff from r and draws it.
func (l *Loader) LoadDocument(ctx context.Context, r io.Reader) (*Session, error) {
	s := l.newSession()
	logger := l.logger.With("token", s.Token)

	doc, err := Decode(ctx, r, WithLogger(logger))
	if err != nil {
		return nil, err
	}

	s.Document = doc

	return l.present(s, logger)
}

func (l *Loader) newSession() *Session {
	return &Session{
		ID:    uuid.New(),
		Token: l.seq.Add(1),
	}
}

func (l *Loader) stale(s *Session) bool {
	return s.Token != l.seq.Load()
}

func (l *Loader) present(s *Session, logger *slog.Logger) (*Session, error) {
	if l.stale(s) {
		return nil, ErrStaleLoad
	}

	s.Result = ClassifyDocument(s.Document)
	s.Overlay = l.renderer.Render(s.Result)

	logger.Debug("classified document",
		"actions", s.Document.Len(),
		"old", len(s.Result.Old),
		"new", len(s.Result.New),
		"skipped", s.Result.Skipped)

	if l.surface == nil {
		return s, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// a newer load may have finished while this one was classifying
	if l.stale(s) {
		return nil, ErrStaleLoad
	}

	// the previous session is removed only once the new one is fully drawn
	handles, err := l.renderer.Show(l.surface, s.Overlay)
	s.handles = handles

	if err != nil {
		if cerr := Clear(l.surface, handles); cerr != nil {
			logger.Warn("unable to clear partially drawn session", "error", cerr)
		}

		return nil, err
	}

	if l.current != nil {
		if err := Clear(l.surface, l.current.handles); err != nil {
			logger.Warn("unable to clear previous session", "session", l.current.ID.String(), "error", err)
		}
	}

	l.current = s

	return s, nil
}
