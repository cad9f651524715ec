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

package model

import (
	"time"
)

// ChangesetID is the primary key of a changeset.
type ChangesetID int64

// Changeset is the metadata needed to query the augmented diff of a changeset.
type Changeset struct {
	ID          ChangesetID  `json:"id"`
	From        time.Time    `json:"from"`
	To          time.Time    `json:"to,omitempty"`
	BoundingBox *BoundingBox `json:"bounding_box,omitempty"`
}

// IsClosed reports whether the changeset has an end time.
func (c *Changeset) IsClosed() bool {
	return !c.To.IsZero()
}

// QueryLeadTime is subtracted from the changeset start so that edits made
// in the changeset's first second are included in the diff.
const QueryLeadTime = time.Second

// Query is the time range and area for which an augmented diff is requested.
// A zero To asks for everything since From.
type Query struct {
	From        time.Time
	To          time.Time
	BoundingBox BoundingBox
}

// NewQuery derives the diff query for a changeset.
func NewQuery(cs *Changeset) Query {
	q := Query{
		From: cs.From.Add(-QueryLeadTime).UTC(),
	}

	if cs.IsClosed() {
		q.To = cs.To.UTC()
	}

	if cs.BoundingBox != nil {
		q.BoundingBox = *cs.BoundingBox
	}

	return q
}
