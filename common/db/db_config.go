/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package db

import (
	"github.com/edgexfoundry/app-functions-sdk-go/v3/pkg/interfaces"
)

type DatabaseConfig struct {
	RedisHost     string
	RedisPort     string
	RedisName     string
	RedisUsername string
	RedisPassword string
}

func NewDatabaseConfig() *DatabaseConfig {
	return new(DatabaseConfig)
}

// LoadAppConfigurations reads the redis connection settings and the redisdb secret
func (dbConfig *DatabaseConfig) LoadAppConfigurations(service interfaces.ApplicationService) {
	lc := service.LoggingClient()

	redisHost, err := service.GetAppSetting("RedisHost")
	if err != nil {
		lc.Error(err.Error())
	}
	lc.Infof("RedisHost %s", redisHost)

	redisPort, err := service.GetAppSetting("RedisPort")
	if err != nil {
		lc.Error(err.Error())
	}
	lc.Infof("RedisPort %s", redisPort)

	redisName, err := service.GetAppSetting("RedisName")
	if err != nil {
		lc.Error(err.Error())
	}

	lc.Infof("RedisName %v, will read redisdb secret now", redisName)
	redisSecrets, err := service.SecretProvider().GetSecret("redisdb", "username", "password")
	if err == nil {
		dbConfig.RedisUsername = redisSecrets["username"]
		dbConfig.RedisPassword = redisSecrets["password"]
	} else {
		lc.Error(err.Error())
	}

	dbConfig.RedisHost = redisHost
	dbConfig.RedisPort = redisPort
	dbConfig.RedisName = redisName
}
