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

package changeset

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"github.com/destel/rill"
	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"m4o.io/adiff"
	"m4o.io/adiff/cmd/adiff/cli"
	"m4o.io/adiff/internal/leaflet"
	"m4o.io/adiff/model"
)

var out io.Writer = os.Stdout

// loaded is the outcome of rendering one changeset.
type loaded struct {
	ID      model.ChangesetID
	Path    string
	Old     int
	New     int
	Skipped int
	Err     error
}

type job struct {
	source adiff.Source
	dir    string
	format string
	opts   []adiff.RendererOption
}

func init() {
	cli.RootCmd.AddCommand(changesetCmd)

	flags := changesetCmd.Flags()
	flags.StringP("dir", "d", ".", "directory the maps are written to")
	flags.StringP("format", "f", cli.FormatHTML, "output format: html or geojson")
	flags.Uint16P("concurrency", "n", uint16(min(runtime.GOMAXPROCS(-1), 4)), "number of changesets loaded at once")
}

var changesetCmd = &cobra.Command{
	Use:   "changeset <id>...",
	Short: "Fetch changesets and render their augmented diffs",
	Long:  "Fetch changesets and render their augmented diffs, one map per changeset",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()

		dir, err := flags.GetString("dir")
		if err != nil {
			log.Fatal(err)
		}

		format, err := flags.GetString("format")
		if err != nil {
			log.Fatal(err)
		}

		n, err := flags.GetUint16("concurrency")
		if err != nil {
			log.Fatal(err)
		}

		ids := make([]model.ChangesetID, 0, len(args))

		for _, arg := range args {
			id, err := model.ParseID(arg)
			if err != nil || id <= 0 {
				log.Fatalf("invalid changeset id %q", arg)
			}

			ids = append(ids, model.ChangesetID(id))
		}

		client, c, err := cli.NewClient(cmd.Context())
		if err != nil {
			log.Fatal(err)
		}

		j := &job{
			source: client,
			dir:    dir,
			format: format,
			opts:   cli.Config().RendererOptions(),
		}

		results, err := runChangesets(cmd.Context(), j, ids, int(max(n, 1)))

		if cerr := c.Close(); cerr != nil {
			cli.Logger().Warn("unable to close cache", "error", cerr)
		}

		if err != nil {
			log.Fatal(err)
		}

		if failed := renderTxt(results); failed > 0 {
			os.Exit(1)
		}
	},
}

// runChangesets loads ids with n workers and returns their outcomes in the
// order the ids were given.  Failures are reported per changeset.
func runChangesets(ctx context.Context, j *job, ids []model.ChangesetID, n int) ([]loaded, error) {
	if err := os.MkdirAll(j.dir, 0o755); err != nil {
		return nil, err
	}

	in := rill.FromSlice(ids, nil)

	results := rill.OrderedMap(in, n, func(id model.ChangesetID) (loaded, error) {
		return j.load(ctx, id), nil
	})

	return rill.ToSlice(results)
}

func (j *job) load(ctx context.Context, id model.ChangesetID) loaded {
	r := loaded{ID: id}

	m := leaflet.NewMap()
	l := adiff.NewLoader(j.source, m, adiff.NewRenderer(j.opts...), cli.Logger())

	s, err := l.Load(ctx, id)
	if err != nil {
		r.Err = err

		return r
	}

	r.Old = len(s.Result.Old)
	r.New = len(s.Result.New)
	r.Skipped = s.Result.Skipped
	r.Path = filepath.Join(j.dir, fmt.Sprintf("changeset-%d%s", id, cli.Extension(j.format)))

	f, err := os.Create(r.Path)
	if err != nil {
		r.Err = err

		return r
	}

	if err := cli.WriteMap(f, m, j.format, fmt.Sprintf("Changeset %d", id)); err != nil {
		_ = f.Close()
		r.Err = err

		return r
	}

	r.Err = f.Close()

	return r
}

func renderTxt(results []loaded) int {
	var failed int

	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(out, "%d: %v\n", r.ID, r.Err)

			continue
		}

		fmt.Fprintf(out, "%d: %s old, %s new, %s skipped -> %s\n", r.ID,
			humanize.Comma(int64(r.Old)), humanize.Comma(int64(r.New)), humanize.Comma(int64(r.Skipped)), r.Path)
	}

	return failed
}
