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
	"html/template"
	"log/slog"
	"math"
	"strings"

	humanize "github.com/dustin/go-humanize"

	"m4o.io/adiff/model"
)

// DefaultBrowseURL is the base of element links in popups.
const DefaultBrowseURL = "https://www.openstreetmap.org"

var popupTemplate = template.Must(template.New("popup").Parse(
	`<b>{{.Kind}} <a href="{{.URL}}" target="_blank">{{.ID}}</a></b>` +
		`{{if not .Bare}}<br>` +
		`{{if .Moved}}<i>moved {{.Moved}}</i><br>{{end}}` +
		`{{if .Rows}}<table border="1" cellpadding="3"><tr><th>Key</th><th>Old</th><th>New</th></tr>` +
		`{{range .Rows}}<tr><td>{{.Key}}</td>` +
		`{{if eq .Change.String "added"}}<td></td><td style="color:green;">{{.New}}</td>` +
		`{{else if eq .Change.String "removed"}}<td style="color:red;">{{.Old}}</td><td></td>` +
		`{{else if eq .Change.String "changed"}}<td style="color:red;">{{.Old}}</td><td style="color:green;">{{.New}}</td>` +
		`{{else}}<td>{{.Old}}</td><td>{{.New}}</td>{{end}}</tr>{{end}}</table>` +
		`{{else}}<i>No tags</i>{{end}}{{end}}`))

type popupData struct {
	Kind  string
	ID    model.ID
	URL   string
	Bare  bool
	Moved string
	Rows  []TagRow
}

// popup renders the markup shown when a primitive is clicked.
func (r *Renderer) popup(f *Feature) string {
	kind := f.ID.Type.String()

	data := popupData{
		Kind: strings.ToUpper(kind[:1]) + kind[1:],
		ID:   f.ID.ID,
		URL:  r.browseURL + "/" + f.ID.String(),
		Bare: r.bare,
		Rows: f.Tags,
	}

	if f.Class == GeometryChanged {
		if m, ok := Displacement(f.Old, f.New); ok {
			// SIWithDigits truncates
			data.Moved = humanize.SIWithDigits(math.Round(m*10)/10, 1, "m")
		}
	}

	var sb strings.Builder
	if err := popupTemplate.Execute(&sb, data); err != nil {
		slog.Error("unable to render popup", "element", f.ID.String(), "error", err)

		return template.HTMLEscapeString(f.ID.String())
	}

	return sb.String()
}
