/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package model

import (
	"bytes"
	"encoding/json"
	"slices"
)

// ModelIDs is the trainer answer for a source
type ModelIDs struct {
	Available []string `json:"available"`
	Pending   []string `json:"pending"`
}

// Model is the trainer model document. Raw keeps the document as received so it reaches the
// worker unmodified.
type Model struct {
	ID       string                 `json:"id"`
	Created  json.RawMessage        `json:"created,omitempty"`
	Columns  []string               `json:"columns"`
	Defaults map[string]interface{} `json:"defaults,omitempty"`
	Data     json.RawMessage        `json:"data,omitempty"`
	Raw      json.RawMessage        `json:"-"`
}

// HasData tells whether the model carries trained parameters
func (m Model) HasData() bool {
	trimmed := bytes.TrimSpace(m.Data)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// Document is what is sent to the worker for this model
func (m Model) Document() (json.RawMessage, error) {
	if len(m.Raw) > 0 {
		return m.Raw, nil
	}
	return json.Marshal(m)
}

// ColumnSetKey identifies a column set regardless of order and duplicates. It is the JSON
// encoding of the canonical column list, so two keys are equal iff the sets are equal.
type ColumnSetKey string

// CanonicalColumns returns the sorted, deduplicated copy of columns
func CanonicalColumns(columns []string) []string {
	canonical := slices.Clone(columns)
	slices.Sort(canonical)
	canonical = slices.Compact(canonical)
	if canonical == nil {
		canonical = []string{}
	}
	return canonical
}

func NewColumnSetKey(columns []string) ColumnSetKey {
	encoded, _ := json.Marshal(CanonicalColumns(columns))
	return ColumnSetKey(encoded)
}

// Columns decodes the canonical column list back from the key
func (k ColumnSetKey) Columns() []string {
	var columns []string
	if err := json.Unmarshal([]byte(k), &columns); err != nil {
		return nil
	}
	return columns
}

func (k ColumnSetKey) String() string {
	return string(k)
}

// ModelGroup holds the models sharing one column set
type ModelGroup struct {
	Key     ColumnSetKey
	Columns []string
	Models  []Model
}

func (g ModelGroup) ModelIDs() []string {
	ids := make([]string, 0, len(g.Models))
	for _, m := range g.Models {
		ids = append(ids, m.ID)
	}
	return ids
}

// Defaults merges the per-column defaults of the group, the first model declaring a column wins
func (g ModelGroup) Defaults() map[string]interface{} {
	defaults := make(map[string]interface{})
	for _, m := range g.Models {
		for column, value := range m.Defaults {
			if _, ok := defaults[column]; !ok && value != nil {
				defaults[column] = value
			}
		}
	}
	return defaults
}

type FailedModel struct {
	ModelID string `json:"model_id"`
	Kind    string `json:"kind"`
	Reason  string `json:"reason"`
}

// Resolution is the outcome of resolving the models of one source
type Resolution struct {
	Groups         []ModelGroup
	SkippedPending []string
	FailedModels   []FailedModel
}
