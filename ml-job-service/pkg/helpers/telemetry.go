/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package helpers

import (
	"os"

	sdkinterfaces "github.com/edgexfoundry/app-functions-sdk-go/v3/pkg/interfaces"
	"github.com/edgexfoundry/go-mod-bootstrap/v3/bootstrap/interfaces"
	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	gometrics "github.com/rcrowley/go-metrics"
	"mlbridge/common/client"
	"mlbridge/common/db"
	"mlbridge/common/db/redis"
	bridgeErrors "mlbridge/common/errors"
	common "mlbridge/common/telemetry"
	"mlbridge/ml-job-service/pkg/dto/run"
)

const metricsLockName = "ml_job_client_metrics_lock"

type Telemetry struct {
	RunsCompleted gometrics.Counter
	RunsFailed    gometrics.Counter
	JobsFinished  gometrics.Counter
	JobsFailed    gometrics.Counter
	JobsTimedOut  gometrics.Counter
	PollAttempts  gometrics.Counter
	counters      map[string]gometrics.Counter
	redisClient   redis.CommonRedisDBInterface
	lc            logger.LoggingClient
}

// NewTelemetry registers the run and job counters. metricsManager and redisClient are optional,
// without redisClient the counters are local to this instance.
func NewTelemetry(service sdkinterfaces.ApplicationService, serviceName string, metricsManager interfaces.MetricsManager, redisClient redis.CommonRedisDBInterface) *Telemetry {
	telemetry := Telemetry{
		RunsCompleted: gometrics.NewCounter(),
		RunsFailed:    gometrics.NewCounter(),
		JobsFinished:  gometrics.NewCounter(),
		JobsFailed:    gometrics.NewCounter(),
		JobsTimedOut:  gometrics.NewCounter(),
		PollAttempts:  gometrics.NewCounter(),
		redisClient:   redisClient,
		lc:            service.LoggingClient(),
	}
	telemetry.counters = map[string]gometrics.Counter{
		common.RunsCompletedCount: telemetry.RunsCompleted,
		common.RunsFailedCount:    telemetry.RunsFailed,
		common.JobsFinishedCount:  telemetry.JobsFinished,
		common.JobsFailedCount:    telemetry.JobsFailed,
		common.JobsTimedOutCount:  telemetry.JobsTimedOut,
		common.PollAttemptsCount:  telemetry.PollAttempts,
	}

	if redisClient != nil {
		telemetry.syncFromDb()
	}
	if metricsManager == nil {
		return &telemetry
	}
	hostName, err := os.Hostname()
	if err != nil {
		telemetry.lc.Warnf("Error getting host name, will continue: %v", err)
	}
	tags := map[string]string{
		client.LabelService: serviceName,
		client.LabelHost:    hostName,
	}
	for name, counter := range telemetry.counters {
		if err := metricsManager.Register(name, counter, tags); err != nil {
			telemetry.lc.Errorf("failed to register metric %s: %v", name, err)
		}
	}
	return &telemetry
}

// ProcessRun counts the run and its jobs. With a redis client the totals are shared by all
// instances of the service.
func (t *Telemetry) ProcessRun(record *run.RunRecord) bridgeErrors.BridgeError {
	deltas := runDeltas(record)
	if t.redisClient == nil {
		for name, delta := range deltas {
			t.counters[name].Inc(delta)
		}
		return nil
	}

	mutex, err := t.redisClient.AcquireRedisLock(metricsLockName)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = mutex.Unlock()
	}()

	for name, delta := range deltas {
		total, err := t.redisClient.IncrMetricCounterBy(db.MetricCounter+":"+name, delta)
		if err != nil {
			return err
		}
		t.counters[name].Clear()
		t.counters[name].Inc(total)
	}
	return nil
}

func runDeltas(record *run.RunRecord) map[string]int64 {
	deltas := make(map[string]int64)
	if record.Status == run.StatusFailed {
		deltas[common.RunsFailedCount]++
	} else {
		deltas[common.RunsCompletedCount]++
	}
	for _, outcome := range record.Groups {
		switch {
		case outcome.Succeeded():
			deltas[common.JobsFinishedCount]++
		case outcome.ErrorKind == string(bridgeErrors.ErrorTypeWorkerJobTimedOut):
			deltas[common.JobsTimedOutCount]++
		default:
			deltas[common.JobsFailedCount]++
		}
		if outcome.Attempts.Poll > 0 {
			deltas[common.PollAttemptsCount] += int64(outcome.Attempts.Poll)
		}
	}
	return deltas
}

// syncFromDb seeds the counters with the totals of all service instances
func (t *Telemetry) syncFromDb() {
	for name, counter := range t.counters {
		value, err := t.redisClient.GetMetricCounter(db.MetricCounter + ":" + name)
		if err != nil {
			t.lc.Warnf("failed to read metric counter %s, starting from 0: %v", name, err)
			continue
		}
		counter.Clear()
		counter.Inc(value)
	}
}
