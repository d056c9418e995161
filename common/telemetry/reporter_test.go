/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package telemetry

import (
	"errors"
	"testing"

	sdkinterfaces "github.com/edgexfoundry/app-functions-sdk-go/v3/pkg/interfaces"
	"github.com/edgexfoundry/go-mod-core-contracts/v3/common"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"mlbridge/common/dto"
	"mlbridge/mocks/mlbridge/common/infrastructure/interfaces/utils"
)

type recordingSender struct {
	ok   bool
	sent []any
}

func (s *recordingSender) MQTTSend(_ sdkinterfaces.AppFunctionContext, data any) (bool, any) {
	s.sent = append(s.sent, data)
	if !s.ok {
		return false, errors.New("broker unreachable")
	}
	return true, nil
}

func newReporterUnderTest(sender MetricSender) *MQTTMetricReporter {
	mockUtils := utils.NewApplicationServiceMock(nil)
	mockUtils.AppService.On("BuildContext", mock.Anything, common.ContentTypeJSON).Return(mockUtils.AppFunctionContext)
	return newMQTTMetricReporter(mockUtils.AppService, "telemetry/ml-job-client", "ml-job-client", map[string]string{"service": "ml-job-client"}, sender)
}

func TestMQTTMetricReporter_Report(t *testing.T) {
	sender := &recordingSender{ok: true}
	reporter := newReporterUnderTest(sender)

	registry := gometrics.NewRegistry()
	finished := gometrics.NewCounter()
	finished.Inc(3)
	idle := gometrics.NewCounter()
	_ = registry.Register(JobsFinishedCount, finished)
	_ = registry.Register(JobsFailedCount, idle)
	_ = registry.Register("other_counter", gometrics.NewCounter())

	err := reporter.Report(registry, map[string]map[string]string{JobsFinishedCount: {"host": "node-1"}})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	metrics := sender.sent[0].(dto.Metrics)
	require.Len(t, metrics.MetricGroup.Samples, 1)
	assert.Equal(t, JobsFinishedCount, metrics.MetricGroup.Samples[0].Name)
	assert.Equal(t, "3", metrics.MetricGroup.Samples[0].Value)
	assert.Equal(t, "ml-job-client", metrics.MetricGroup.Tags["service"])
	assert.Equal(t, "node-1", metrics.MetricGroup.Tags["host"])

	// unchanged values are not published again
	require.NoError(t, reporter.Report(registry, nil))
	assert.Len(t, sender.sent, 1)
}

func TestMQTTMetricReporter_ReportErrors(t *testing.T) {
	registry := gometrics.NewRegistry()
	counter := gometrics.NewCounter()
	counter.Inc(1)
	_ = registry.Register(RunsCompletedCount, counter)

	t.Run("no sender", func(t *testing.T) {
		reporter := newReporterUnderTest(nil)
		assert.Error(t, reporter.Report(registry, nil))
	})
	t.Run("publish failure", func(t *testing.T) {
		reporter := newReporterUnderTest(&recordingSender{ok: false})
		err := reporter.Report(registry, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "telemetry/ml-job-client")
	})
}
