/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package job

import "encoding/json"

// Status is the job status reported by the worker
type Status string

const (
	StatusCreated  Status = "created"
	StatusRunning  Status = "running"
	StatusFinished Status = "finished"
	StatusFailed   Status = "failed"
)

// State is the client side lifecycle of a job
type State string

const (
	StateNew       State = "new"
	StateCreated   State = "created"
	StateSubmitted State = "submitted"
	StateFinished  State = "finished"
	StateFailed    State = "failed"
)

var transitions = map[State][]State{
	StateNew:       {StateCreated, StateFailed},
	StateCreated:   {StateSubmitted, StateFailed},
	StateSubmitted: {StateSubmitted, StateFinished, StateFailed},
}

// CanTransition reports whether a job may move from one state to the other. Submitted loops on
// itself for every not-done poll observation.
func CanTransition(from State, to State) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (s State) IsTerminal() bool {
	return s == StateFinished || s == StateFailed
}

// PredictionResult maps an output key to the values produced for it
type PredictionResult map[string][]interface{}

type CreateJobRequest struct {
	TimeField  string            `json:"time_field"`
	SortedData bool              `json:"sorted_data"`
	Models     []json.RawMessage `json:"models"`
}

type CreateJobResponse struct {
	ID string `json:"id"`
}

type JobStatusResponse struct {
	ID     string           `json:"id,omitempty"`
	Status Status           `json:"status"`
	Result PredictionResult `json:"result,omitempty"`
	Reason string           `json:"reason,omitempty"`
}
