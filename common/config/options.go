/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package config

import (
	"strconv"

	"github.com/edgexfoundry/app-functions-sdk-go/v3/pkg/interfaces"
)

// GetBoolSetting reads an optional boolean app setting, falling back to def when absent or invalid
func GetBoolSetting(service interfaces.ApplicationService, name string, def bool) bool {
	lc := service.LoggingClient()
	value, err := service.GetAppSetting(name)
	if err != nil || value == "" {
		return def
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		lc.Errorf("Invalid value specified for %s in configuration: %s", name, err.Error())
		return def
	}
	return parsed
}

// GetPersistOnError is used for the MQTT export of predictions
func GetPersistOnError(service interfaces.ApplicationService) bool {
	return GetBoolSetting(service, "PersistOnError", false)
}

func GetMQTTRetain(service interfaces.ApplicationService) bool {
	return GetBoolSetting(service, "Retain", false)
}

func GetMQTTQoS(service interfaces.ApplicationService) byte {
	lc := service.LoggingClient()
	qoS, err := service.GetAppSetting("QoS")
	if err != nil {
		lc.Errorf("failed to retrieve MqttQoS from configuration: %s", err.Error())
		lc.Info("Set MqttQoS to 0")
		qoS = "0"
	}
	switch qoS {
	case "1":
		return 1
	case "2":
		return 2
	default:
		lc.Debugf("MqttQoS configuration defaulting to 0")
		return 0
	}
}
