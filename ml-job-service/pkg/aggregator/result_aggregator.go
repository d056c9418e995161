/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

// Package aggregator folds the prediction results of several jobs into one result.
package aggregator

import (
	"sync"

	"mlbridge/ml-job-service/pkg/dto/job"
)

// ResultAggregator appends values per key in the order results are added. Keys emitted by
// several jobs are concatenated, never deduplicated or overwritten. Safe for concurrent use.
type ResultAggregator struct {
	mu     sync.Mutex
	result job.PredictionResult
}

func New() *ResultAggregator {
	return &ResultAggregator{result: make(job.PredictionResult)}
}

func (a *ResultAggregator) Add(result job.PredictionResult) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for key, values := range result {
		existing, ok := a.result[key]
		if !ok {
			existing = make([]interface{}, 0, len(values))
		}
		a.result[key] = append(existing, values...)
	}
}

// Result returns a copy of the accumulated result
func (a *ResultAggregator) Result() job.PredictionResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(job.PredictionResult, len(a.result))
	for key, values := range a.result {
		out[key] = append(make([]interface{}, 0, len(values)), values...)
	}
	return out
}

// Merge folds results in the given order
func Merge(results ...job.PredictionResult) job.PredictionResult {
	aggregator := New()
	for _, result := range results {
		aggregator.Add(result)
	}
	return aggregator.Result()
}
