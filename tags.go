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
	"maps"
	"slices"

	"m4o.io/adiff/model"
)

// TagChange classifies one key of a tag diff.
type TagChange int

const (
	// Unchanged denotes a key present on both sides with equal values.
	Unchanged TagChange = iota

	// Added denotes a key only present on the new side.
	Added

	// Removed denotes a key only present on the old side.
	Removed

	// Changed denotes a key present on both sides with different values.
	Changed
)

func (c TagChange) String() string {
	switch c {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Changed:
		return "changed"
	default:
		return "unchanged"
	}
}

// TagRow is one row of a tag diff.  Old or New is empty when the key is
// absent on that side; Change tells the two cases apart from an empty value.
type TagRow struct {
	Key    string    `json:"key"`
	Old    string    `json:"old,omitempty"`
	New    string    `json:"new,omitempty"`
	Change TagChange `json:"-"`
}

// DiffTags computes the row-per-key diff of two tag sets.  A nil set means the
// element does not exist on that side.  Every key of the union appears
// exactly once, ordered by key.  Values are compared as opaque strings.  The
// result is nil when neither side has tags.
func DiffTags(old, new model.Tags) []TagRow {
	if len(old) == 0 && len(new) == 0 {
		return nil
	}

	keys := make(map[string]struct{}, len(old)+len(new))
	for k := range old {
		keys[k] = struct{}{}
	}

	for k := range new {
		keys[k] = struct{}{}
	}

	rows := make([]TagRow, 0, len(keys))

	for _, k := range slices.Sorted(maps.Keys(keys)) {
		vOld, inOld := old[k]
		vNew, inNew := new[k]

		row := TagRow{Key: k, Old: vOld, New: vNew}

		switch {
		case !inOld:
			row.Change = Added
		case !inNew:
			row.Change = Removed
		case vOld != vNew:
			row.Change = Changed
		default:
			row.Change = Unchanged
		}

		rows = append(rows, row)
	}

	return rows
}

// TagSummary counts the rows of a tag diff by change.
type TagSummary struct {
	Added     int `json:"added"`
	Removed   int `json:"removed"`
	Changed   int `json:"changed"`
	Unchanged int `json:"unchanged"`
}

// Summarize counts rows by change.
func Summarize(rows []TagRow) TagSummary {
	var s TagSummary

	for _, r := range rows {
		switch r.Change {
		case Added:
			s.Added++
		case Removed:
			s.Removed++
		case Changed:
			s.Changed++
		case Unchanged:
			s.Unchanged++
		}
	}

	return s
}

// Add accumulates o into s.
func (s *TagSummary) Add(o TagSummary) {
	s.Added += o.Added
	s.Removed += o.Removed
	s.Changed += o.Changed
	s.Unchanged += o.Unchanged
}

// HasChanges reports whether any key was added, removed or changed.
func (s TagSummary) HasChanges() bool {
	return s.Added+s.Removed+s.Changed > 0
}
