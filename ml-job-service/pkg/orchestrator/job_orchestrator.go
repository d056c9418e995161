/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

// Package orchestrator drives the prediction job of every model group through
// create, submit and poll, and folds the results of one run.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
	bridgeErrors "mlbridge/common/errors"
	"mlbridge/ml-job-service/pkg/aggregator"
	"mlbridge/ml-job-service/pkg/dto/data"
	"mlbridge/ml-job-service/pkg/dto/job"
	"mlbridge/ml-job-service/pkg/dto/model"
	"mlbridge/ml-job-service/pkg/dto/run"
	"mlbridge/ml-job-service/pkg/retry"
	"mlbridge/ml-job-service/pkg/worker"
)

// Encoder turns a batch into the CSV text handed to a job
type Encoder interface {
	TimeField() string
	Encode(batch data.Batch, expectedColumns []string, defaults map[string]interface{}) (string, error)
}

type Options struct {
	// FixFeatures encodes each group against exactly the columns its models expect
	FixFeatures bool
	// ParallelGroups runs up to MaxParallelGroups jobs at the same time
	ParallelGroups    bool
	MaxParallelGroups int
}

type JobOrchestrator struct {
	jobClient worker.JobClient
	encoder   Encoder
	policy    retry.Policy
	options   Options
	lc        logger.LoggingClient
}

func NewJobOrchestrator(jobClient worker.JobClient, encoder Encoder, policy retry.Policy, options Options, lc logger.LoggingClient) *JobOrchestrator {
	if options.MaxParallelGroups < 1 {
		options.MaxParallelGroups = 1
	}
	return &JobOrchestrator{
		jobClient: jobClient,
		encoder:   encoder,
		policy:    policy,
		options:   options,
		lc:        lc,
	}
}

// RunGroups runs one job per group. A failing group never stops the others. Results are
// merged in completion order; outcomes keep the order of groups.
func (o *JobOrchestrator) RunGroups(ctx context.Context, groups []model.ModelGroup, batch data.Batch) (job.PredictionResult, []run.GroupOutcome) {
	results := aggregator.New()
	outcomes := make([]run.GroupOutcome, len(groups))

	runOne := func(i int) {
		outcome := o.RunGroup(ctx, groups[i], batch)
		if outcome.Succeeded() {
			results.Add(outcome.Result)
		}
		outcomes[i] = outcome
	}

	if o.options.ParallelGroups && len(groups) > 1 {
		var g errgroup.Group
		g.SetLimit(o.options.MaxParallelGroups)
		for i := range groups {
			g.Go(func() error {
				runOne(i)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i := range groups {
			runOne(i)
		}
	}

	var failures *multierror.Error
	for _, outcome := range outcomes {
		if !outcome.Succeeded() {
			failures = multierror.Append(failures, fmt.Errorf("group %s: %w", outcome.Group, outcome.Err))
		}
	}
	if failures != nil {
		o.lc.Warnf("%d of %d model groups failed: %v", failures.Len(), len(groups), failures)
	}
	return results.Result(), outcomes
}

// RunGroup takes the job of one group through create, submit and poll. Each step has its own
// retry budget. A job reported failed by the worker is never retried.
func (o *JobOrchestrator) RunGroup(ctx context.Context, group model.ModelGroup, batch data.Batch) run.GroupOutcome {
	outcome := run.GroupOutcome{
		Group:    group.Key,
		Columns:  group.Columns,
		ModelIDs: group.ModelIDs(),
		State:    job.StateNew,
	}

	var expected []string
	if o.options.FixFeatures {
		expected = group.Columns
	}
	csv, err := o.encoder.Encode(batch, expected, group.Defaults())
	if err != nil {
		return o.fail(outcome, err)
	}

	request := job.CreateJobRequest{
		TimeField:  o.encoder.TimeField(),
		SortedData: true,
		Models:     make([]json.RawMessage, 0, len(group.Models)),
	}
	for _, m := range group.Models {
		doc, err := m.Document()
		if err != nil {
			return o.fail(outcome, bridgeErrors.WrapBridgeError(bridgeErrors.ErrorTypeServerError, fmt.Sprintf("failed to encode model %s", m.ID), err))
		}
		request.Models = append(request.Models, doc)
	}

	attempts, err := o.stepPolicy("create job", group.Key).Run(ctx, func(ctx context.Context) error {
		jobID, err := o.jobClient.CreateJob(ctx, request)
		if err != nil {
			return err
		}
		outcome.JobID = jobID
		return nil
	})
	outcome.Attempts.Create = attempts
	if err != nil {
		return o.fail(outcome, err)
	}
	o.transition(&outcome, job.StateCreated)
	o.lc.Infof("group %s: job %s created for models %v", group.Key, outcome.JobID, outcome.ModelIDs)

	attempts, err = o.stepPolicy("submit data to job "+outcome.JobID, group.Key).Run(ctx, func(ctx context.Context) error {
		return o.jobClient.SubmitData(ctx, outcome.JobID, csv)
	})
	outcome.Attempts.Submit = attempts
	if err != nil {
		return o.fail(outcome, err)
	}
	o.transition(&outcome, job.StateSubmitted)

	var result job.PredictionResult
	attempts, err = o.stepPolicy("poll job "+outcome.JobID, group.Key).Run(ctx, func(ctx context.Context) error {
		status, err := o.jobClient.GetJob(ctx, outcome.JobID)
		if err != nil {
			return err
		}
		switch status.Status {
		case job.StatusFinished:
			result = status.Result
			return nil
		case job.StatusFailed:
			return bridgeErrors.NewCommonBridgeError(bridgeErrors.ErrorTypeWorkerJobFailed,
				fmt.Sprintf("job %s failed: %s", outcome.JobID, status.Reason))
		default:
			o.transition(&outcome, job.StateSubmitted)
			return bridgeErrors.NewCommonBridgeError(bridgeErrors.ErrorTypeJobNotDone,
				fmt.Sprintf("job %s is %s", outcome.JobID, status.Status))
		}
	})
	outcome.Attempts.Poll = attempts
	if bridgeErrors.IsErrorType(err, bridgeErrors.ErrorTypeJobNotDone) && ctx.Err() == nil {
		err = bridgeErrors.WrapBridgeError(bridgeErrors.ErrorTypeWorkerJobTimedOut,
			fmt.Sprintf("job %s not finished after %d polls", outcome.JobID, attempts), err)
	}
	if err != nil {
		return o.fail(outcome, err)
	}

	if result == nil {
		result = job.PredictionResult{}
	}
	outcome.Result = result
	o.transition(&outcome, job.StateFinished)
	o.lc.Infof("group %s: job %s finished with %d result keys", group.Key, outcome.JobID, len(result))
	return outcome
}

func (o *JobOrchestrator) stepPolicy(step string, key model.ColumnSetKey) retry.Policy {
	return o.policy.WithOnRetry(func(attempt uint, err error) {
		o.lc.Debugf("group %s: %s attempt %d/%d: %v", key, step, attempt, o.policy.Attempts(), err)
	})
}

func (o *JobOrchestrator) transition(outcome *run.GroupOutcome, to job.State) {
	if !job.CanTransition(outcome.State, to) {
		o.lc.Errorf("group %s: invalid job state change %s -> %s", outcome.Group, outcome.State, to)
	}
	outcome.State = to
}

func (o *JobOrchestrator) fail(outcome run.GroupOutcome, err error) run.GroupOutcome {
	o.transition(&outcome, job.StateFailed)
	outcome.Err = err
	outcome.ErrorKind = string(bridgeErrors.ErrorTypeOf(err))
	outcome.Reason = err.Error()
	o.lc.Errorf("group %s: job %s abandoned: %v", outcome.Group, outcome.JobID, err)
	return outcome
}
