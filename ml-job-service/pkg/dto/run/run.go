/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package run

import (
	"mlbridge/ml-job-service/pkg/dto/job"
	"mlbridge/ml-job-service/pkg/dto/model"
)

type Status string

const (
	StatusCompleted Status = "completed"
	// StatusPartial means at least one model group failed while others produced predictions
	StatusPartial Status = "partial"
	StatusFailed  Status = "failed"
)

// StepAttempts counts the attempts made by each network step of a job
type StepAttempts struct {
	Create uint `json:"create"`
	Submit uint `json:"submit"`
	Poll   uint `json:"poll"`
}

// GroupOutcome is the result of running one job for one model group
type GroupOutcome struct {
	Group     model.ColumnSetKey   `json:"group"`
	Columns   []string             `json:"columns"`
	ModelIDs  []string             `json:"model_ids"`
	JobID     string               `json:"job_id,omitempty"`
	State     job.State            `json:"state"`
	Attempts  StepAttempts         `json:"attempts"`
	ErrorKind string               `json:"error_kind,omitempty"`
	Reason    string               `json:"reason,omitempty"`
	Result    job.PredictionResult `json:"-"`
	Err       error                `json:"-"`
}

func (o GroupOutcome) Succeeded() bool {
	return o.State == job.StateFinished
}

type GroupFailure struct {
	Group   model.ColumnSetKey `json:"group"`
	Columns []string           `json:"columns"`
	Kind    string             `json:"kind"`
	Reason  string             `json:"reason"`
}

// RunRecord describes one orchestration run, it is persisted as run history
type RunRecord struct {
	ID             string               `json:"id"`
	SourceID       string               `json:"source_id"`
	Service        string               `json:"service"`
	CorrelationID  string               `json:"correlation_id,omitempty"`
	WindowStart    string               `json:"window_start"`
	WindowEnd      string               `json:"window_end"`
	RecordCount    int                  `json:"record_count"`
	Status         Status               `json:"status"`
	SkippedPending []string             `json:"skipped_pending,omitempty"`
	FailedModels   []model.FailedModel  `json:"failed_models,omitempty"`
	Groups         []GroupOutcome       `json:"groups"`
	Predictions    job.PredictionResult `json:"predictions"`
	Error          string               `json:"error,omitempty"`
	StartedAt      int64                `json:"started_at"`
	FinishedAt     int64                `json:"finished_at"`
}

func (r *RunRecord) FailedGroups() []GroupFailure {
	failures := make([]GroupFailure, 0)
	for _, g := range r.Groups {
		if g.Succeeded() {
			continue
		}
		failures = append(failures, GroupFailure{Group: g.Group, Columns: g.Columns, Kind: g.ErrorKind, Reason: g.Reason})
	}
	return failures
}

// OutputMessage is emitted by the pipeline for every run that is not aborted
type OutputMessage struct {
	RunID          string               `json:"run_id"`
	SourceID       string               `json:"source_id"`
	Service        string               `json:"service"`
	WindowStart    string               `json:"window_start"`
	WindowEnd      string               `json:"window_end"`
	RecordCount    int                  `json:"record_count"`
	Status         Status               `json:"status"`
	ModelGroups    int                  `json:"model_groups"`
	SkippedPending int                  `json:"skipped_pending"`
	FailedModels   []model.FailedModel  `json:"failed_models,omitempty"`
	FailedGroups   []GroupFailure       `json:"failed_groups,omitempty"`
	Predictions    job.PredictionResult `json:"predictions"`
	Timestamp      int64                `json:"timestamp"`
}

func NewOutputMessage(record *RunRecord) OutputMessage {
	predictions := record.Predictions
	if predictions == nil {
		predictions = job.PredictionResult{}
	}
	return OutputMessage{
		RunID:          record.ID,
		SourceID:       record.SourceID,
		Service:        record.Service,
		WindowStart:    record.WindowStart,
		WindowEnd:      record.WindowEnd,
		RecordCount:    record.RecordCount,
		Status:         record.Status,
		ModelGroups:    len(record.Groups),
		SkippedPending: len(record.SkippedPending),
		FailedModels:   record.FailedModels,
		FailedGroups:   record.FailedGroups(),
		Predictions:    predictions,
		Timestamp:      record.FinishedAt,
	}
}

// RunSummary is the run history listing entry
type RunSummary struct {
	ID          string `json:"id"`
	SourceID    string `json:"source_id"`
	Status      Status `json:"status"`
	WindowStart string `json:"window_start"`
	WindowEnd   string `json:"window_end"`
	ModelGroups int    `json:"model_groups"`
	FinishedAt  int64  `json:"finished_at"`
}

func (r *RunRecord) Summary() RunSummary {
	return RunSummary{
		ID:          r.ID,
		SourceID:    r.SourceID,
		Status:      r.Status,
		WindowStart: r.WindowStart,
		WindowEnd:   r.WindowEnd,
		ModelGroups: len(r.Groups),
		FinishedAt:  r.FinishedAt,
	}
}
