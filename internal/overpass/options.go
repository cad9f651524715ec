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

package overpass

import (
	"log/slog"
	"net/http"
	"time"

	"m4o.io/adiff/internal/cache"
)

const (
	// DefaultAPIURL is the OSM editing API used for changeset metadata.
	DefaultAPIURL = "https://www.openstreetmap.org/api/0.6"

	// DefaultOverpassURL is the Overpass interpreter used for augmented diffs.
	DefaultOverpassURL = "https://overpass-api.de/api/interpreter"

	DefaultTimeout = 3 * time.Minute
	DefaultRetries = 3
	DefaultTTL     = 7 * 24 * time.Hour
)

// clientOptions provides optional configuration parameters for Client
// construction.
type clientOptions struct {
	apiURL      string
	overpassURL string
	httpClient  *http.Client
	retries     int
	timeout     time.Duration
	cache       cache.Cache
	ttl         time.Duration
	logger      *slog.Logger
	userAgent   string
}

// Option configures how we create the Client.
type Option func(*clientOptions)

// WithAPIURL sets the base URL of the OSM API.
func WithAPIURL(u string) Option {
	return func(o *clientOptions) {
		o.apiURL = u
	}
}

// WithOverpassURL sets the URL of the Overpass interpreter.
func WithOverpassURL(u string) Option {
	return func(o *clientOptions) {
		o.overpassURL = u
	}
}

// WithHTTPClient sets the underlying http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = c
	}
}

// WithRetries sets the maximum number of retries of a failed request.
func WithRetries(n int) Option {
	return func(o *clientOptions) {
		o.retries = n
	}
}

// WithTimeout sets the timeout of a single request.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = d
	}
}

// WithCache caches the diffs of closed changesets for ttl.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(o *clientOptions) {
		o.cache = c
		o.ttl = ttl
	}
}

// WithLogger sets the logger for requests and retries.
func WithLogger(l *slog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = l
	}
}

// WithUserAgent sets the User-Agent header sent upstream.
func WithUserAgent(ua string) Option {
	return func(o *clientOptions) {
		o.userAgent = ua
	}
}

func defaultClientConfig() clientOptions {
	return clientOptions{
		apiURL:      DefaultAPIURL,
		overpassURL: DefaultOverpassURL,
		retries:     DefaultRetries,
		timeout:     DefaultTimeout,
		cache:       cache.NewNullCache(),
		ttl:         DefaultTTL,
		userAgent:   "adiff",
	}
}
