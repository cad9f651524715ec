// Copyright 2017-26 the original author or authors.
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

package info

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"m4o.io/adiff"
	"m4o.io/adiff/cmd/adiff/cli"
	"m4o.io/adiff/model"
)

var out io.Writer = os.Stdout

type summary struct {
	Generator string             `json:"generator"`
	Timestamp time.Time          `json:"timestamp"`
	Remark    string             `json:"remark,omitempty"`
	Actions   int                `json:"actions"`
	Types     map[string]int     `json:"types"`
	Elements  int                `json:"elements"`
	Old       int                `json:"old"`
	New       int                `json:"new"`
	Skipped   int                `json:"skipped"`
	Tokens    map[string]int     `json:"tokens"`
	Tags      adiff.TagSummary   `json:"tags"`
	Bounds    *model.BoundingBox `json:"bounds,omitempty"`
}

func init() {
	cli.RootCmd.AddCommand(infoCmd)

	flags := infoCmd.Flags()
	flags.BoolP("json", "j", false, "format information in JSON")
	flags.BoolP("quiet", "q", false, "do not show a progress bar")
}

var infoCmd = &cobra.Command{
	Use:   "info [<adiff file>]",
	Short: "Print information about an augmented diff",
	Long:  "Print information about an augmented diff",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()

		quiet, err := flags.GetBool("quiet")
		if err != nil {
			log.Fatal(err)
		}

		jsonfmt, err := flags.GetBool("json")
		if err != nil {
			log.Fatal(err)
		}

		var name string
		if len(args) == 1 {
			name = args[0]
		}

		in, err := cli.OpenInput(name, quiet || jsonfmt)
		if err != nil {
			log.Fatal(err)
		}

		info, err := runInfo(cmd.Context(), in)
		if err != nil {
			log.Fatal(err)
		}

		if err := in.Close(); err != nil {
			log.Fatal(err)
		}

		if jsonfmt {
			renderJSON(info)
		} else {
			renderTxt(info)
		}
	},
}

func runInfo(ctx context.Context, in io.Reader) (*summary, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	doc, err := adiff.Decode(ctx, in, adiff.WithLogger(cli.Logger()))
	if err != nil {
		return nil, err
	}

	res := adiff.ClassifyDocument(doc)

	info := &summary{
		Generator: doc.Generator,
		Timestamp: doc.Timestamp,
		Remark:    doc.Remark,
		Actions:   doc.Len(),
		Types:     make(map[string]int),
		Old:       len(res.Old),
		New:       len(res.New),
		Skipped:   res.Skipped,
		Tokens:    make(map[string]int),
		Bounds:    adiff.NewRenderer().Render(res).Bounds,
	}

	for _, a := range doc.Actions {
		t := string(a.Type)
		if t == "" {
			t = "unknown"
		}

		info.Types[t]++
	}

	// tags are counted once per element even when it is drawn on both sides
	seen := make(map[model.ElementID]bool)

	for _, side := range []adiff.Side{adiff.Old, adiff.New} {
		for _, f := range res.Features(side) {
			info.Tokens[string(f.Token)]++

			if !seen[f.ID] {
				seen[f.ID] = true
				info.Tags.Add(adiff.Summarize(f.Tags))
			}
		}
	}

	info.Elements = len(seen)

	return info, nil
}

func renderJSON(info *summary) {
	b, err := json.Marshal(info)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Fprint(out, string(b))
}

func renderTxt(info *summary) {
	fmt.Fprintf(out, "Generator: %s\n", info.Generator)
	fmt.Fprintf(out, "Timestamp: %s\n", info.Timestamp.UTC().Format(time.RFC3339))

	if info.Remark != "" {
		fmt.Fprintf(out, "Remark: %s\n", info.Remark)
	}

	fmt.Fprintf(out, "Actions: %s (create %s, modify %s, delete %s)\n",
		humanize.Comma(int64(info.Actions)),
		humanize.Comma(int64(info.Types["create"])),
		humanize.Comma(int64(info.Types["modify"])),
		humanize.Comma(int64(info.Types["delete"])))
	fmt.Fprintf(out, "Elements: %s\n", humanize.Comma(int64(info.Elements)))
	fmt.Fprintf(out, "Features: %s old, %s new\n", humanize.Comma(int64(info.Old)), humanize.Comma(int64(info.New)))
	fmt.Fprintf(out, "Skipped: %s\n", humanize.Comma(int64(info.Skipped)))
	fmt.Fprintf(out, "Tags: %d added, %d removed, %d changed, %d unchanged\n",
		info.Tags.Added, info.Tags.Removed, info.Tags.Changed, info.Tags.Unchanged)

	if info.Bounds != nil {
		fmt.Fprintf(out, "Bounds: %s\n", info.Bounds)
	}

	for _, t := range adiff.Tokens {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(adiff.DefaultPalette.Color(t))).Render("●")
		fmt.Fprintf(out, "%s %-12s %s\n", swatch, t, humanize.Comma(int64(info.Tokens[string(t)])))
	}
}
