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

// Package overpass fetches changeset metadata from the OSM API and augmented
// diffs from an Overpass server.
package overpass

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/paulmach/osm"

	"m4o.io/adiff/internal/cache"
	"m4o.io/adiff/model"
)

var (
	// ErrNotFound is returned when the changeset does not exist.
	ErrNotFound = errors.New("changeset not found")

	// ErrNetwork is returned when an upstream server cannot be reached or
	// answers with an unexpected status.
	ErrNetwork = errors.New("upstream request failed")
)

// Client is a source of changesets and their augmented diffs.
type Client struct {
	apiURL      string
	overpassURL string
	userAgent   string
	http        *retryablehttp.Client
	cache       cache.Cache
	ttl         time.Duration
	logger      *slog.Logger
}

// NewClient creates a client.
func NewClient(opts ...Option) *Client {
	cfg := defaultClientConfig()

	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.retries
	rc.Logger = cfg.logger

	if cfg.httpClient != nil {
		rc.HTTPClient = cfg.httpClient
	} else {
		rc.HTTPClient.Timeout = cfg.timeout
	}

	return &Client{
		apiURL:      strings.TrimSuffix(cfg.apiURL, "/"),
		overpassURL: cfg.overpassURL,
		userAgent:   cfg.userAgent,
		http:        rc,
		cache:       cfg.cache,
		ttl:         cfg.ttl,
		logger:      cfg.logger,
	}
}

// Changeset returns the time range and bounding box of changeset id.
func (c *Client) Changeset(ctx context.Context, id model.ChangesetID) (*model.Changeset, error) {
	u := fmt.Sprintf("%s/changeset/%d", c.apiURL, id)

	body, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var doc osm.OSM
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("unable to parse changeset %d: %w", id, err)
	}

	if len(doc.Changesets) == 0 {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}

	return toChangeset(doc.Changesets[0]), nil
}

func toChangeset(cs *osm.Changeset) *model.Changeset {
	out := &model.Changeset{
		ID:   model.ChangesetID(cs.ID),
		From: cs.CreatedAt,
	}

	if !cs.Open {
		out.To = cs.ClosedAt
	}

	// empty changesets carry no extent
	if cs.MinLat != 0 || cs.MaxLat != 0 || cs.MinLon != 0 || cs.MaxLon != 0 {
		out.BoundingBox = &model.BoundingBox{
			Top:    model.Degrees(cs.MaxLat),
			Left:   model.Degrees(cs.MinLon),
			Bottom: model.Degrees(cs.MinLat),
			Right:  model.Degrees(cs.MaxLon),
		}
	}

	return out
}

// Diff returns the augmented diff of query q.  Diffs of closed ranges never
// change and are served from the cache when present.
func (c *Client) Diff(ctx context.Context, q model.Query) ([]byte, error) {
	u := c.DiffURL(q)

	cacheable := !q.To.IsZero()
	key := "adiff:" + u

	if cacheable {
		data, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			c.logger.Warn("unable to read cache", "error", err)
		} else if ok {
			c.logger.Debug("diff served from cache", "url", u)

			return data, nil
		}
	}

	body, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := c.cache.Set(ctx, key, body, c.ttl); err != nil {
			c.logger.Warn("unable to write cache", "error", err)
		}
	}

	return body, nil
}

// DiffURL builds the Overpass request for query q.
func (c *Client) DiffURL(q model.Query) string {
	v := url.Values{}
	v.Set("data", Query(q))

	if q.BoundingBox.IsValid() {
		b := q.BoundingBox
		v.Set("bbox", strings.Join([]string{
			b.Left.Decimal(), b.Bottom.Decimal(), b.Right.Decimal(), b.Top.Decimal(),
		}, ","))
	}

	return c.overpassURL + "?" + v.Encode()
}

// Query builds the Overpass QL statement requesting the augmented diff of
// the nodes and ways changed within q.
func Query(q model.Query) string {
	var sb strings.Builder

	sb.WriteString(`[adiff:"`)
	sb.WriteString(timestamp(q.From))
	sb.WriteString(`"`)

	if !q.To.IsZero() {
		sb.WriteString(`,"`)
		sb.WriteString(timestamp(q.To))
		sb.WriteString(`"`)
	}

	sb.WriteString("];")

	if q.BoundingBox.IsValid() {
		sb.WriteString("(node(bbox)(changed);way(bbox)(changed););out meta geom(bbox);")
	} else {
		sb.WriteString("(node(changed);way(changed););out meta geom;")
	}

	return sb.String()
}

func timestamp(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", c.userAgent)

	c.logger.Debug("requesting", "url", u)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("unable to close response body", "error", err)
		}
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return nil, ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%w: %s returned %d", ErrNetwork, u, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}

	return body, nil
}
