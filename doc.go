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

/*
Package adiff reconciles and classifies the elements of an OpenStreetMap
augmented diff and turns them into render-ready overlays.

An augmented diff is a sequence of actions, each carrying the old and/or new
version of the nodes and ways touched by an edit.  Within an action the old
and new versions of an element correspond when they share kind and id.  Every
drawable element is classified as created, deleted, geometry-changed or
modified, styled per side, and given a popup with a row-per-key tag diff.

The pipeline is:

	doc, err := adiff.Decode(ctx, r)
	res := adiff.ClassifyDocument(doc)
	overlay := adiff.NewRenderer().Render(res)

A Loader chains the same steps behind a changeset Source and draws the
overlay on a Surface, discarding results of loads that were superseded.
*/
package adiff
