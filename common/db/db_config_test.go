/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"mlbridge/mocks/mlbridge/common/infrastructure/interfaces/utils"
)

func TestDatabaseConfig_LoadAppConfigurations(t *testing.T) {
	mockUtils := utils.NewApplicationServiceMock(map[string]string{
		"RedisHost": "edgex-redis",
		"RedisPort": "6379",
		"RedisName": "redisdb",
	})

	dbConfig := NewDatabaseConfig()
	dbConfig.LoadAppConfigurations(mockUtils.AppService)

	assert.Equal(t, "edgex-redis", dbConfig.RedisHost)
	assert.Equal(t, "6379", dbConfig.RedisPort)
	assert.Equal(t, "redisdb", dbConfig.RedisName)
	assert.Equal(t, "username", dbConfig.RedisUsername)
	assert.Equal(t, "password", dbConfig.RedisPassword)
}
