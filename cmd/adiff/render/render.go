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

package render

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"m4o.io/adiff"
	"m4o.io/adiff/cmd/adiff/cli"
	"m4o.io/adiff/internal/leaflet"
)

var output *os.File

func init() {
	cli.RootCmd.AddCommand(renderCmd)

	flags := renderCmd.Flags()
	flags.VarP(cli.NewWriterValue(os.Stdout, &output, "file"), "output", "o", "write the map to file instead of stdout")
	flags.StringP("format", "f", cli.FormatHTML, "output format: html or geojson")
	flags.StringP("title", "t", "Augmented diff", "title of the HTML page")
	flags.BoolP("bare-popups", "b", false, "reduce popups to the element link")
	flags.BoolP("quiet", "q", false, "do not show a progress bar")
}

var renderCmd = &cobra.Command{
	Use:   "render [<adiff file>]",
	Short: "Render an augmented diff as a map",
	Long:  "Render an augmented diff as a Leaflet page or as GeoJSON",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()

		format, err := flags.GetString("format")
		if err != nil {
			log.Fatal(err)
		}

		title, err := flags.GetString("title")
		if err != nil {
			log.Fatal(err)
		}

		quiet, err := flags.GetBool("quiet")
		if err != nil {
			log.Fatal(err)
		}

		opts := cli.Config().RendererOptions()

		if flags.Changed("bare-popups") {
			bare, err := flags.GetBool("bare-popups")
			if err != nil {
				log.Fatal(err)
			}

			opts = append(opts, adiff.WithBarePopups(bare))
		}

		var name string
		if len(args) == 1 {
			name = args[0]
		}

		in, err := cli.OpenInput(name, quiet)
		if err != nil {
			log.Fatal(err)
		}

		if err := runRender(cmd.Context(), in, output, format, title, opts...); err != nil {
			log.Fatal(err)
		}

		if err := in.Close(); err != nil {
			log.Fatal(err)
		}

		if output != os.Stdout {
			if err := output.Close(); err != nil {
				log.Fatal(err)
			}
		}
	},
}

func runRender(ctx context.Context, in io.Reader, w io.Writer, format, title string, opts ...adiff.RendererOption) error {
	m := leaflet.NewMap()
	l := adiff.NewLoader(nil, m, adiff.NewRenderer(opts...), cli.Logger())

	s, err := l.LoadDocument(ctx, in)
	if err != nil {
		return err
	}

	cli.Logger().Info("rendered",
		"session", s.ID.String(),
		"old", len(s.Overlay.Old.Primitives),
		"new", len(s.Overlay.New.Primitives),
		"skipped", s.Result.Skipped)

	return cli.WriteMap(w, m, format, title)
}
