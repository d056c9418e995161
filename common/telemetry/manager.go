/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package telemetry

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	sdkinterfaces "github.com/edgexfoundry/app-functions-sdk-go/v3/pkg/interfaces"
	"github.com/edgexfoundry/go-mod-bootstrap/v3/bootstrap/interfaces"
	"github.com/edgexfoundry/go-mod-bootstrap/v3/bootstrap/metrics"
)

type MetricsManager struct {
	wg         sync.WaitGroup
	Ctx        context.Context
	MetricsMgr interfaces.MetricsManager
}

// NewMetricsManager builds a manager that publishes the registered counters over MQTT every
// MetricReportInterval seconds under MetricPublishTopicPrefix/<serviceName>
func NewMetricsManager(service sdkinterfaces.ApplicationService, serviceName string) (*MetricsManager, error) {
	lc := service.LoggingClient()

	interval, err := service.GetAppSetting("MetricReportInterval")
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve MetricReportInterval from configuration: %w", err)
	}
	seconds, err := strconv.Atoi(interval)
	if err != nil || seconds <= 0 {
		return nil, fmt.Errorf("invalid MetricReportInterval %q", interval)
	}

	baseTopic, err := service.GetAppSetting("MetricPublishTopicPrefix")
	if err != nil || baseTopic == "" {
		return nil, errors.New("failed to retrieve MetricPublishTopicPrefix from configuration")
	}
	reporter := NewMQTTMetricReporter(service, baseTopic, serviceName, map[string]string{})

	mmgr := MetricsManager{Ctx: service.AppContext()}
	mmgr.MetricsMgr = metrics.NewManager(lc, time.Duration(seconds)*time.Second, reporter)
	if mmgr.MetricsMgr == nil {
		return nil, errors.New("failed to create metrics manager")
	}
	return &mmgr, nil
}

func (s *MetricsManager) Run() {
	s.MetricsMgr.Run(s.Ctx, &s.wg)
}
