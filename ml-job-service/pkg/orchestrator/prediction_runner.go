/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	bridgeErrors "mlbridge/common/errors"
	"mlbridge/ml-job-service/pkg/dto/data"
	"mlbridge/ml-job-service/pkg/dto/job"
	"mlbridge/ml-job-service/pkg/dto/model"
	"mlbridge/ml-job-service/pkg/dto/run"
)

type ModelResolver interface {
	ResolveModelGroups(ctx context.Context, sourceID string, waitForPending bool) (model.Resolution, error)
}

type GroupRunner interface {
	RunGroups(ctx context.Context, groups []model.ModelGroup, batch data.Batch) (job.PredictionResult, []run.GroupOutcome)
}

type RunnerOptions struct {
	ServiceName          string
	TimeField            string
	WaitForPendingModels bool
	// FailRunOnGroupFailure turns any failed group into a failed run
	FailRunOnGroupFailure bool
}

// PredictionRunner performs one orchestration run: resolve the models of the source, run one
// job per model group and merge the results.
type PredictionRunner struct {
	resolver     ModelResolver
	orchestrator GroupRunner
	options      RunnerOptions
	lc           logger.LoggingClient
}

func NewPredictionRunner(resolver ModelResolver, orchestrator GroupRunner, options RunnerOptions, lc logger.LoggingClient) *PredictionRunner {
	return &PredictionRunner{
		resolver:     resolver,
		orchestrator: orchestrator,
		options:      options,
		lc:           lc,
	}
}

// Run always returns the record of the run. The error is set when the run was aborted, in which
// case no predictions are to be published.
func (r *PredictionRunner) Run(ctx context.Context, sourceID string, batch data.Batch) (*run.RunRecord, error) {
	record := &run.RunRecord{
		ID:          uuid.NewString(),
		SourceID:    sourceID,
		Service:     r.options.ServiceName,
		RecordCount: len(batch),
		Groups:      make([]run.GroupOutcome, 0),
		StartedAt:   time.Now().UnixMilli(),
	}

	if strings.TrimSpace(sourceID) == "" {
		return r.abort(record, bridgeErrors.NewCommonBridgeError(bridgeErrors.ErrorTypeConfig, "input source name must not be blank"))
	}
	if len(batch) == 0 {
		return r.abort(record, bridgeErrors.NewCommonBridgeError(bridgeErrors.ErrorTypeBadRequest,
			fmt.Sprintf("no records received for source %s", sourceID)))
	}
	record.WindowStart, record.WindowEnd = batch.Window(r.options.TimeField)
	r.lc.Infof("run %s: source %s window %s - %s, %d records", record.ID, sourceID, record.WindowStart, record.WindowEnd, len(batch))

	resolution, err := r.resolver.ResolveModelGroups(ctx, sourceID, r.options.WaitForPendingModels)
	record.SkippedPending = resolution.SkippedPending
	record.FailedModels = resolution.FailedModels
	if len(resolution.SkippedPending) > 0 {
		r.lc.Infof("run %s: %d pending models skipped", record.ID, len(resolution.SkippedPending))
	}
	if err != nil {
		return r.abort(record, err)
	}

	predictions, outcomes := r.orchestrator.RunGroups(ctx, resolution.Groups, batch)
	record.Groups = outcomes
	if err := ctx.Err(); err != nil {
		return r.abort(record, err)
	}

	var failures *multierror.Error
	var firstFailure error
	for _, outcome := range outcomes {
		if !outcome.Succeeded() {
			if firstFailure == nil {
				firstFailure = outcome.Err
			}
			failures = multierror.Append(failures, fmt.Errorf("group %s: %w", outcome.Group, outcome.Err))
		}
	}

	switch {
	case failures == nil:
		record.Status = run.StatusCompleted
	case failures.Len() == len(outcomes):
		return r.abort(record, bridgeErrors.WrapBridgeError(bridgeErrors.ErrorTypeOf(firstFailure), "all model groups failed", failures.ErrorOrNil()))
	case r.options.FailRunOnGroupFailure:
		return r.abort(record, bridgeErrors.WrapBridgeError(bridgeErrors.ErrorTypeOf(firstFailure),
			fmt.Sprintf("%d of %d model groups failed", failures.Len(), len(outcomes)), failures.ErrorOrNil()))
	default:
		record.Status = run.StatusPartial
	}

	record.Predictions = predictions
	record.FinishedAt = time.Now().UnixMilli()
	r.lc.Infof("run %s: %s with %d model groups, %d prediction keys", record.ID, record.Status, len(outcomes), len(predictions))
	return record, nil
}

func (r *PredictionRunner) abort(record *run.RunRecord, err error) (*run.RunRecord, error) {
	record.Status = run.StatusFailed
	record.Error = err.Error()
	record.Predictions = job.PredictionResult{}
	record.FinishedAt = time.Now().UnixMilli()
	r.lc.Errorf("run %s for source %s aborted: %v", record.ID, record.SourceID, err)
	return record, err
}
