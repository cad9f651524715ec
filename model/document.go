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

// ActionType is the advisory edit type of an action.
type ActionType string

const (
	ActionCreate ActionType = "create"
	ActionModify ActionType = "modify"
	ActionDelete ActionType = "delete"

	// ActionUnknown is used when the action carries no type attribute.
	ActionUnknown ActionType = ""
)

// Container holds the elements of one version of an action in document order.
type Container struct {
	Elements []Element
}

// Len returns the number of elements in the container.  A nil container has
// no elements.
func (c *Container) Len() int {
	if c == nil {
		return 0
	}

	return len(c.Elements)
}

// Action is one edit unit of an augmented diff.
//
// Old and New are nil when the corresponding <old>/<new> element is absent.
// Fallback holds elements that appeared directly below the action and is
// only consulted when both Old and New are nil.
type Action struct {
	Type     ActionType
	Old      *Container
	New      *Container
	Fallback *Container
}

// IsFallback reports whether the action has neither an old nor a new container.
func (a *Action) IsFallback() bool {
	return a.Old == nil && a.New == nil
}

// FallbackIsNew reports which side fallback elements belong to.  Only a
// create action is treated as new; every other type, including an absent
// one, is treated as old.
func (a *Action) FallbackIsNew() bool {
	return a.Type == ActionCreate
}

// Document is an augmented diff: an ordered sequence of actions.
type Document struct {
	Generator string
	Remark    string
	Timestamp time.Time
	Actions   []Action
}

// Len returns the number of actions in the document.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}

	return len(d.Actions)
}
