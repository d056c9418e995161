/*******************************************************************************
 * Copyright 2022 Intel Corp.
 * (c) Copyright 2020-2025 BMC Software, Inc.
 *
 * Contributors: BMC Software, Inc. - BMC Helix Edge
 *
 * Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License. You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software distributed under the License
 * is distributed on an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express
 * or implied. See the License for the specific language governing permissions and limitations under
 * the License.
 *******************************************************************************/

package telemetry

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	sdkinterfaces "github.com/edgexfoundry/app-functions-sdk-go/v3/pkg/interfaces"
	"github.com/edgexfoundry/app-functions-sdk-go/v3/pkg/transforms"
	"github.com/edgexfoundry/go-mod-bootstrap/v3/bootstrap/interfaces"
	"github.com/edgexfoundry/go-mod-core-contracts/v3/common"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	gometrics "github.com/rcrowley/go-metrics"
	"mlbridge/common/config"
	"mlbridge/common/dto"
)

// MetricSender is the part of transforms.MQTTSecretSender the reporter needs
type MetricSender interface {
	MQTTSend(ctx sdkinterfaces.AppFunctionContext, data any) (bool, any)
}

type MQTTMetricReporter struct {
	service           sdkinterfaces.ApplicationService
	serviceName       string
	topic             string
	tags              map[string]string
	mqttSender        MetricSender
	mu                sync.Mutex
	lastReportedValue map[string]int64
}

// NewMQTTMetricReporter creates a reporter which publishes the service counters to the MQTT broker
func NewMQTTMetricReporter(
	service sdkinterfaces.ApplicationService,
	baseTopic string,
	serviceName string,
	tags map[string]string,
) interfaces.MetricsReporter {
	lc := service.LoggingClient()
	topic := baseTopic + "/" + serviceName
	mqttConfig, err := config.BuildMQTTSecretConfig(service, topic, serviceName+"-metrics")
	if err != nil {
		lc.Errorf("failed to create MQTT configuration: %s", err.Error())
		return newMQTTMetricReporter(service, topic, serviceName, tags, nil)
	}
	return newMQTTMetricReporter(service, topic, serviceName, tags, transforms.NewMQTTSecretSender(mqttConfig, false))
}

func newMQTTMetricReporter(
	service sdkinterfaces.ApplicationService,
	topic string,
	serviceName string,
	tags map[string]string,
	sender MetricSender,
) *MQTTMetricReporter {
	return &MQTTMetricReporter{
		tags:              tags,
		service:           service,
		serviceName:       serviceName,
		topic:             topic,
		mqttSender:        sender,
		lastReportedValue: make(map[string]int64),
	}
}

func (r *MQTTMetricReporter) Report(
	registry gometrics.Registry,
	metricTags map[string]map[string]string,
) error {
	var errs error
	publishedCount := 0

	lc := r.service.LoggingClient()

	if r.mqttSender == nil {
		return errors.New("mqtt client not available. Unable to report metrics")
	}

	metricGroup := dto.MetricGroup{
		Tags:    make(map[string]interface{}),
		Samples: make([]dto.Data, 0),
	}
	for key, value := range r.tags {
		metricGroup.Tags[key] = value
	}

	registry.Each(func(name string, item interface{}) {
		if !strings.HasPrefix(name, MetricPrefix) {
			return
		}
		var value int64
		switch metric := item.(type) {
		case gometrics.Counter:
			value = metric.Count()
			if value == 0 {
				return
			}
			if value >= (math.MaxInt64 - 1000) {
				lc.Warnf("Resetting counter '%s' with value: %d to avoid overflow", name, value)
				metric.Clear()
			}
		case gometrics.Gauge:
			value = metric.Value()
			metric.Update(0)
		default:
			errs = multierror.Append(errs, fmt.Errorf("metric type %T not supported", metric))
			return
		}

		r.mu.Lock()
		if lastValue, exists := r.lastReportedValue[name]; !exists || lastValue != value {
			metricGroup.Samples = append(metricGroup.Samples, dto.Data{
				Name:      name,
				TimeStamp: time.Now().UnixNano(),
				Value:     strconv.FormatInt(value, 10),
				ValueType: common.ValueTypeInt64,
			})
			r.lastReportedValue[name] = value
			publishedCount++
		}
		r.mu.Unlock()

		// The tags are same for all metrics of a service
		for key, value := range metricTags[name] {
			if _, ok := metricGroup.Tags[key]; !ok {
				metricGroup.Tags[key] = value
			}
		}
	})

	if publishedCount == 0 {
		lc.Debugf("No telemetry metrics to publish.")
		return errs
	}

	metrics := dto.Metrics{
		IsCompressed: false,
		MetricGroup:  metricGroup,
	}
	ok, result := r.mqttSender.MQTTSend(r.service.BuildContext(uuid.NewString(), common.ContentTypeJSON), metrics)
	if !ok {
		errs = multierror.Append(errs, fmt.Errorf("failed to publish telemetry to topic '%s': %v", r.topic, result))
	} else {
		lc.Debugf("Published %d telemetry metrics to '%s'", publishedCount, r.topic)
	}
	return errs
}
