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

package leaflet

import (
	"bytes"
	"encoding/json"
	"html/template"
	"io"
)

// TileDarkness is the CSS filter applied to the base tiles so the overlay
// colors stand out.
const TileDarkness = "brightness(30%)"

// Page describes the web page around the map.
type Page struct {
	Title string

	// Form adds a changeset input that navigates to /changeset/{id}.
	Form bool

	// Changeset prefills the form.
	Changeset int64
}

type pageData struct {
	Page
	Darkness template.CSS
	Data     template.JS
	Bounds   []float64
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>
html, body { height: 100%; margin: 0; }
#map { position: absolute; top: 0; bottom: 0; width: 100%; }
#controls { position: absolute; top: 10px; left: 50px; z-index: 1000; background: #fff; padding: 4px; }
.tiles { filter: {{.Darkness}}; }
</style>
</head>
<body>
{{if .Form}}<form id="controls" onsubmit="location.href='/changeset/'+encodeURIComponent(this.id.value);return false;">
<input id="changesetId" name="id" type="number" min="1" placeholder="Changeset"{{if .Changeset}} value="{{.Changeset}}"{{end}}>
<button id="loadBtn" type="submit">Load</button>
</form>
{{end}}<div id="map"></div>
<script>
const map = L.map('map').setView([51.505, -0.09], 13);
L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
  maxZoom: 19,
  className: 'tiles',
  attribution: '&copy; <a href="http://www.openstreetmap.org/copyright">OpenStreetMap</a>'
}).addTo(map);
const data = {{.Data}};
const groups = {};
for (const f of data.features) {
  const name = f.properties.group;
  groups[name] = groups[name] || L.featureGroup().addTo(map);
  L.geoJSON(f, {
    pointToLayer: (feature, latlng) => L.circleMarker(latlng, {radius: feature.properties.radius, color: feature.properties.color}),
    style: (feature) => ({color: feature.properties.color, weight: feature.properties.weight}),
    onEachFeature: (feature, layer) => layer.bindPopup(feature.properties.popup)
  }).addTo(groups[name]);
}
{{with .Bounds}}map.fitBounds([[{{index . 1}}, {{index . 0}}], [{{index . 3}}, {{index . 2}}]]);{{end}}
</script>
</body>
</html>
`))

// WriteGeoJSON writes the drawn groups as a GeoJSON feature collection.
func (m *Map) WriteGeoJSON(w io.Writer) error {
	data, err := json.Marshal(m.FeatureCollection())
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

// WriteHTML writes a standalone page showing the drawn groups.
func (m *Map) WriteHTML(w io.Writer, p Page) error {
	var buf bytes.Buffer
	if err := m.WriteGeoJSON(&buf); err != nil {
		return err
	}

	d := pageData{
		Page:     p,
		Darkness: template.CSS(TileDarkness),
		Data:     template.JS(buf.String()),
	}

	if b := m.Bounds(); b != nil {
		d.Bounds = []float64{float64(b.Left), float64(b.Bottom), float64(b.Right), float64(b.Top)}
	}

	return pageTemplate.Execute(w, d)
}
