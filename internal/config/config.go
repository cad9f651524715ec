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

// Package config loads the TOML configuration of the adiff tools.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"m4o.io/adiff"
	"m4o.io/adiff/internal/cache"
	"m4o.io/adiff/internal/overpass"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Cache backends.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Duration is a time.Duration written as "90s" or "3m" in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}

	d.Duration = v

	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type Config struct {
	API     API               `toml:"api"`
	Cache   Cache             `toml:"cache"`
	Style   Style             `toml:"style"`
	Server  Server            `toml:"server"`
	Palette map[string]string `toml:"palette"`
}

type API struct {
	OSM       string   `toml:"osm"`
	Overpass  string   `toml:"overpass"`
	Browse    string   `toml:"browse"`
	UserAgent string   `toml:"user_agent"`
	Timeout   Duration `toml:"timeout"`
	Retries   int      `toml:"retries"`
}

type Cache struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	TTL       Duration `toml:"ttl"`
}

type Style struct {
	PointRadius int  `toml:"point_radius"`
	LineWeight  int  `toml:"line_weight"`
	BarePopups  bool `toml:"bare_popups"`
}

type Server struct {
	Addr string `toml:"addr"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}

	return &Config{
		API: API{
			OSM:       overpass.DefaultAPIURL,
			Overpass:  overpass.DefaultOverpassURL,
			Browse:    adiff.DefaultBrowseURL,
			UserAgent: "adiff",
			Timeout:   Duration{overpass.DefaultTimeout},
			Retries:   overpass.DefaultRetries,
		},
		Cache: Cache{
			Backend: BackendFile,
			Dir:     filepath.Join(dir, "adiff"),
			TTL:     Duration{overpass.DefaultTTL},
		},
		Style: Style{
			PointRadius: adiff.DefaultPointRadius,
			LineWeight:  adiff.DefaultLineWeight,
		},
		Server: Server{
			Addr: "localhost:8080",
		},
		Palette: map[string]string{},
	}
}

// Load reads the file at path over the defaults.  An empty path returns the
// defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", path, err)
	}

	for _, key := range md.Undecoded() {
		slog.Warn("ignoring unknown configuration key", "file", path, "key", key.String())
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the values that cannot be corrected silently.
func (c *Config) Validate() error {
	var errs []error

	switch c.Cache.Backend {
	case BackendNone, BackendFile, BackendRedis:
	default:
		errs = append(errs, fmt.Errorf("%w: unknown cache backend %q", ErrInvalidConfig, c.Cache.Backend))
	}

	if c.Cache.Backend == BackendRedis && c.Cache.RedisAddr == "" {
		errs = append(errs, fmt.Errorf("%w: redis backend needs redis_addr", ErrInvalidConfig))
	}

	if c.API.Retries < 0 {
		errs = append(errs, fmt.Errorf("%w: negative retries", ErrInvalidConfig))
	}

	for key := range c.Palette {
		if !slices.Contains(adiff.Tokens, adiff.Token(key)) {
			errs = append(errs, fmt.Errorf("%w: unknown palette entry %q", ErrInvalidConfig, key))
		}
	}

	return errors.Join(errs...)
}

// RendererOptions translates the style and palette sections.
func (c *Config) RendererOptions() []adiff.RendererOption {
	p := adiff.Palette{}
	for k, v := range c.Palette {
		p[adiff.Token(k)] = strings.TrimSpace(v)
	}

	return []adiff.RendererOption{
		adiff.WithPalette(p),
		adiff.WithPointRadius(c.Style.PointRadius),
		adiff.WithLineWeight(c.Style.LineWeight),
		adiff.WithBarePopups(c.Style.BarePopups),
		adiff.WithBrowseURL(c.API.Browse),
	}
}

// ClientOptions translates the api section.
func (c *Config) ClientOptions() []overpass.Option {
	return []overpass.Option{
		overpass.WithAPIURL(c.API.OSM),
		overpass.WithOverpassURL(c.API.Overpass),
		overpass.WithTimeout(c.API.Timeout.Duration),
		overpass.WithRetries(c.API.Retries),
		overpass.WithUserAgent(c.API.UserAgent),
	}
}

// OpenCache opens the configured cache backend.
func (c *Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Backend {
	case BackendFile:
		return cache.NewFileCache(c.Cache.Dir)
	case BackendRedis:
		return cache.NewRedisCache(ctx, c.Cache.RedisAddr, "adiff:")
	default:
		return cache.NewNullCache(), nil
	}
}
