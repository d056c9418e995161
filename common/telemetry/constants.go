/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package telemetry

const (
	// MetricPrefix marks the metrics the reporter publishes, others in the registry are skipped
	MetricPrefix = "mlb_"

	RunsCompletedCount = "mlb_runs_completed_count"
	RunsFailedCount    = "mlb_runs_failed_count"
	JobsFinishedCount  = "mlb_jobs_finished_count"
	JobsFailedCount    = "mlb_jobs_failed_count"
	JobsTimedOutCount  = "mlb_jobs_timed_out_count"
	PollAttemptsCount  = "mlb_poll_attempts_count"
)
