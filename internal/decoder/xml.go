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

// Package decoder turns augmented diff XML into the shared model.
package decoder

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"m4o.io/adiff/model"
)

var ErrMalformedDocument = errors.New("malformed augmented diff")

type xmlTag struct {
	K string `xml:"k,attr"`
	V string `xml:"v,attr"`
}

type xmlNd struct {
	Ref string `xml:"ref,attr"`
	Lat string `xml:"lat,attr"`
	Lon string `xml:"lon,attr"`
}

type xmlNode struct {
	ID   string   `xml:"id,attr"`
	Lat  string   `xml:"lat,attr"`
	Lon  string   `xml:"lon,attr"`
	Tags []xmlTag `xml:"tag"`
}

type xmlWay struct {
	ID   string   `xml:"id,attr"`
	Nds  []xmlNd  `xml:"nd"`
	Tags []xmlTag `xml:"tag"`
}

type xmlContainer struct {
	Nodes []xmlNode `xml:"node"`
	Ways  []xmlWay  `xml:"way"`
}

type xmlAction struct {
	Type string        `xml:"type,attr"`
	Old  *xmlContainer `xml:"old"`
	New  *xmlContainer `xml:"new"`

	// elements placed directly below the action
	Nodes []xmlNode `xml:"node"`
	Ways  []xmlWay  `xml:"way"`
}

// Decode reads an augmented diff from r.  Empty input yields an empty
// document.  Elements with unusable identifiers are dropped; unusable
// coordinates are kept as model.Missing so that later stages can decide
// whether the element is drawable.
func Decode(ctx context.Context, r io.Reader, logger *slog.Logger) (*model.Document, error) {
	if logger == nil {
		logger = slog.Default()
	}

	doc := &model.Document{}
	d := xml.NewDecoder(r)

	var inRemark bool

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "osm":
				doc.Generator = attr(t, "generator")
			case "meta":
				if ts, err := time.Parse(time.RFC3339, attr(t, "osm_base")); err == nil {
					doc.Timestamp = ts
				}
			case "remark":
				inRemark = true
			case "action":
				var xa xmlAction
				if err := d.DecodeElement(&xa, &t); err != nil {
					return nil, fmt.Errorf("%w: action %d: %w", ErrMalformedDocument, len(doc.Actions), err)
				}

				doc.Actions = append(doc.Actions, convertAction(&xa, logger))
			}
		case xml.CharData:
			if inRemark {
				doc.Remark += string(t)
			}
		case xml.EndElement:
			if t.Name.Local == "remark" {
				inRemark = false
			}
		}
	}

	doc.Remark = strings.TrimSpace(doc.Remark)
	if doc.Remark != "" {
		logger.Warn("augmented diff carries a remark", "remark", doc.Remark)
	}

	return doc, nil
}

func attr(se xml.StartElement, name string) string {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}

	return ""
}

func convertAction(xa *xmlAction, logger *slog.Logger) model.Action {
	a := model.Action{
		Type: model.ActionType(strings.TrimSpace(xa.Type)),
	}

	if xa.Old != nil {
		a.Old = convertContainer(xa.Old.Nodes, xa.Old.Ways, logger)
	}

	if xa.New != nil {
		a.New = convertContainer(xa.New.Nodes, xa.New.Ways, logger)
	}

	if len(xa.Nodes) > 0 || len(xa.Ways) > 0 {
		a.Fallback = convertContainer(xa.Nodes, xa.Ways, logger)
	}

	return a
}

// convertContainer keeps nodes ahead of ways, each in document order.
func convertContainer(nodes []xmlNode, ways []xmlWay, logger *slog.Logger) *model.Container {
	c := &model.Container{
		Elements: make([]model.Element, 0, len(nodes)+len(ways)),
	}

	for _, xn := range nodes {
		id, err := model.ParseID(xn.ID)
		if err != nil {
			logger.Debug("dropping node with unusable id", "id", xn.ID, "error", err)

			continue
		}

		c.Elements = append(c.Elements, &model.Node{
			ID:   id,
			Tags: convertTags(xn.Tags),
			Lat:  degrees(xn.Lat),
			Lon:  degrees(xn.Lon),
		})
	}

	for _, xw := range ways {
		id, err := model.ParseID(xw.ID)
		if err != nil {
			logger.Debug("dropping way with unusable id", "id", xw.ID, "error", err)

			continue
		}

		w := &model.Way{
			ID:    id,
			Tags:  convertTags(xw.Tags),
			Nodes: make([]model.WayNode, len(xw.Nds)),
		}

		for i, nd := range xw.Nds {
			ref, _ := model.ParseID(nd.Ref)
			w.Nodes[i] = model.WayNode{Ref: ref, Lat: degrees(nd.Lat), Lon: degrees(nd.Lon)}
		}

		c.Elements = append(c.Elements, w)
	}

	return c
}

func convertTags(tags []xmlTag) model.Tags {
	m := make(model.Tags, len(tags))
	for _, t := range tags {
		m[t.K] = t.V
	}

	return m
}

func degrees(s string) model.Degrees {
	d, err := model.ParseDegrees(s)
	if err != nil {
		return model.Missing
	}

	return d
}
