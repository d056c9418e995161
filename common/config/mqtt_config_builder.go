/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package config

import (
	"os"
	"strings"

	"github.com/edgexfoundry/app-functions-sdk-go/v3/pkg/interfaces"
	"github.com/edgexfoundry/app-functions-sdk-go/v3/pkg/transforms"
	"github.com/lithammer/shortuuid/v3"
)

const (
	defaultTopicPrefix = "edgex"
)

// GenerateClientId needs to be unique per instance, several replicas may publish on the same topic
func GenerateClientId(clientId string) string {
	return clientId + "-" + shortuuid.New()
}

func getSettingOrDefault(service interfaces.ApplicationService, name string, def string) string {
	value, err := service.GetAppSetting(name)
	if err != nil || value == "" {
		return def
	}
	return value
}

func BuildMQTTSecretConfig(service interfaces.ApplicationService, topic string, clientId string) (transforms.MQTTSecretConfig, error) {
	lc := service.LoggingClient()

	scheme := getSettingOrDefault(service, "Scheme", "tcp")
	mqttServer := getSettingOrDefault(service, "MqttServer", "edgex-mqtt-broker")
	lc.Infof("MQTT Server is %v", mqttServer)
	mqttPort := getSettingOrDefault(service, "MqttPort", "1883")
	lc.Infof("MQTT Port is %s", mqttPort)
	mqttAuthMode := getSettingOrDefault(service, "MqttAuthMode", "none")
	lc.Infof("MQTT AuthMode is %v", mqttAuthMode)
	// This is the path in the secret store for the calling service
	mqttSecretName := getSettingOrDefault(service, "MqttSecretName", "mbconnection")
	lc.Infof("MQTT SecretName is %v", mqttSecretName)

	brokerAddress := scheme + "://" + mqttServer + ":" + mqttPort

	mqttConfig := transforms.MQTTSecretConfig{
		BrokerAddress:  brokerAddress,
		ClientId:       GenerateClientId(clientId),
		SecretName:     mqttSecretName,
		AutoReconnect:  true,
		KeepAlive:      "30s",
		ConnectTimeout: "60s",
		Topic:          BuildTopicNameFromBaseTopicPrefix(topic, "/"),
		QoS:            GetMQTTQoS(service),
		Retain:         GetMQTTRetain(service),
		SkipCertVerify: true,
		AuthMode:       mqttAuthMode, // usernamepassword or none
	}
	return mqttConfig, nil
}

func BuildTopicNameFromBaseTopicPrefix(topic string, separator string) string {
	prefix := os.Getenv("MESSAGEBUS_BASETOPICPREFIX")
	if prefix == "" {
		prefix = defaultTopicPrefix
	}
	if !strings.HasPrefix(topic, prefix) {
		return prefix + separator + topic
	}
	return topic
}
