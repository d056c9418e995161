/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"mlbridge/mocks/mlbridge/common/infrastructure/interfaces/utils"
)

func TestBuildMQTTSecretConfig(t *testing.T) {
	t.Setenv("MESSAGEBUS_BASETOPICPREFIX", "")
	mockUtils := utils.NewApplicationServiceMock(map[string]string{
		"MqttServer":   "vm-loc-xxxx",
		"MqttPort":     "1884",
		"MqttAuthMode": "usernamepassword",
		"QoS":          "1",
		"Retain":       "true",
	})

	mqttConfig, err := BuildMQTTSecretConfig(mockUtils.AppService, "ml-job-client/predictions", "ml-job-client")

	assert.NoError(t, err)
	assert.Equal(t, "edgex/ml-job-client/predictions", mqttConfig.Topic)
	assert.Equal(t, "tcp://vm-loc-xxxx:1884", mqttConfig.BrokerAddress)
	assert.Equal(t, "usernamepassword", mqttConfig.AuthMode)
	assert.Equal(t, "mbconnection", mqttConfig.SecretName)
	assert.Equal(t, byte(1), mqttConfig.QoS)
	assert.True(t, mqttConfig.Retain)
	assert.True(t, strings.HasPrefix(mqttConfig.ClientId, "ml-job-client-"))
}

func TestBuildTopicNameFromBaseTopicPrefix(t *testing.T) {
	t.Setenv("MESSAGEBUS_BASETOPICPREFIX", "site-a")
	assert.Equal(t, "site-a/predictions", BuildTopicNameFromBaseTopicPrefix("predictions", "/"))
	assert.Equal(t, "site-a/predictions", BuildTopicNameFromBaseTopicPrefix("site-a/predictions", "/"))
}

func TestGetBoolSetting(t *testing.T) {
	mockUtils := utils.NewApplicationServiceMock(map[string]string{
		"FixFeatures":    "true",
		"ParallelGroups": "not-a-bool",
		"PersistOnError": "ERR:missing",
	})
	service := mockUtils.AppService

	assert.True(t, GetBoolSetting(service, "FixFeatures", false))
	assert.True(t, GetBoolSetting(service, "ParallelGroups", true))
	assert.False(t, GetBoolSetting(service, "ParallelGroups", false))
	assert.False(t, GetPersistOnError(service))
	assert.True(t, GetBoolSetting(service, "Unknown", true))
}

func TestGetMQTTQoS(t *testing.T) {
	assert.Equal(t, byte(2), GetMQTTQoS(utils.NewApplicationServiceMock(map[string]string{"QoS": "2"}).AppService))
	assert.Equal(t, byte(0), GetMQTTQoS(utils.NewApplicationServiceMock(map[string]string{"QoS": "ERR:none"}).AppService))
}
