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

package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileCache(t *testing.T) {
	ctx := context.Background()

	c, err := NewFileCache(filepath.Join(t.TempDir(), "nested"))
	require.NoError(t, err)

	defer c.Close()

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "diff:1", []byte("<osm/>"), 0))

	data, ok, err := c.Get(ctx, "diff:1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "<osm/>", string(data))

	require.NoError(t, c.Delete(ctx, "diff:1"))
	require.NoError(t, c.Delete(ctx, "diff:1"))

	_, ok, err = c.Get(ctx, "diff:1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()

	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)

	defer c.Close()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Nanosecond))
	time.Sleep(time.Millisecond)

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()

	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)

	defer c.Close()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, os.WriteFile(c.path("k"), []byte("garbage"), 0o644))

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = os.Stat(c.path("k"))
	assert.True(t, os.IsNotExist(err))
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, c.Delete(ctx, "k"))
	assert.NoError(t, c.Close())
}

func TestHash(t *testing.T) {
	assert.Len(t, Hash([]byte("k")), 64)
	assert.Equal(t, Hash([]byte("k")), Hash([]byte("k")))
}
