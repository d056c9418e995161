/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package main

import (
	"testing"
	"time"

	"github.com/edgexfoundry/app-functions-sdk-go/v3/pkg/interfaces"
	"github.com/edgexfoundry/app-functions-sdk-go/v3/pkg/interfaces/mocks"
	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"mlbridge/common/client"
	"mlbridge/ml-job-service/internal/config"
	"mlbridge/mocks/mlbridge/common/infrastructure/interfaces/utils"
	svcmocks "mlbridge/mocks/mlbridge/common/service"
)

func validSettings() map[string]string {
	return map[string]string{
		"TimeField":            "timestamp",
		"WorkerURL":            "http://worker:8080/jobs",
		"TrainerURL":           "http://trainer:5000/models",
		"MLConfig":             `{"algorithm":"isolation_forest"}`,
		"WaitForPendingModels": "false",
	}
}

func TestMain_getAppService(t *testing.T) {
	t.Run("getAppService - Passed", func(t *testing.T) {
		appService := utils.NewApplicationServiceMock(nil).AppService
		mockCreator := &svcmocks.MockAppServiceCreator{}
		appServiceCreator = mockCreator
		mockCreator.On("NewAppServiceWithTargetType", client.MLJobClientServiceKey, mock.Anything).
			Return(appService, true)

		getAppService()

		assert.Equal(t, appService, serviceInt)
		serviceInt = nil
	})
	t.Run("getAppService - Failed", func(t *testing.T) {
		mockCreator := &svcmocks.MockAppServiceCreator{}
		mockCreator.On("NewAppServiceWithTargetType", client.MLJobClientServiceKey, mock.Anything).
			Return(nil, false)
		appServiceCreator = mockCreator

		exitCode := 0
		originalOsExit := osExit
		osExit = func(code int) { exitCode = code }
		defer func() { osExit = originalOsExit }()

		getAppService()

		assert.Equal(t, -1, exitCode)
		assert.Nil(t, serviceInt)
	})
}

func TestMain_main(t *testing.T) {
	t.Run("main - Passed", func(t *testing.T) {
		appSvcMock := utils.NewApplicationServiceMock(validSettings()).AppService
		appSvcMock.On("AddFunctionsPipelineForTopics", pipelineID, []string{config.DefaultSubscribeTopic},
			mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		appSvcMock.On("AddCustomRoute", mock.Anything, interfaces.Authenticated, mock.Anything, mock.Anything).Return(nil)
		appSvcMock.On("Run").Return(nil)

		exitCode := -2
		originalOsExit := osExit
		osExit = func(code int) { exitCode = code }
		defer func() { osExit = originalOsExit }()

		serviceInt = appSvcMock
		main()
		serviceInt = nil

		assert.Equal(t, 0, exitCode)
		appSvcMock.AssertCalled(t, "Run")
		appSvcMock.AssertNumberOfCalls(t, "AddCustomRoute", 3)
	})
	t.Run("main - invalid configuration", func(t *testing.T) {
		settings := validSettings()
		delete(settings, "WaitForPendingModels")
		appSvcMock := utils.NewApplicationServiceMock(settings).AppService

		exitCode := 0
		originalOsExit := osExit
		osExit = func(code int) { exitCode = code }
		defer func() { osExit = originalOsExit }()

		serviceInt = appSvcMock
		main()
		serviceInt = nil

		assert.Equal(t, -1, exitCode)
		appSvcMock.AssertNotCalled(t, "Run")
	})
}

func TestBuildJobClientPipeline(t *testing.T) {
	t.Run("publishes over MQTT when a topic is set", func(t *testing.T) {
		settings := validSettings()
		settings["PublishTopic"] = "ml/predictions"
		u := utils.NewApplicationServiceMock(settings)
		appConfig, err := config.LoadClientConfig(u.AppService)
		require.NoError(t, err)

		jobPipeline, err := buildJobClientPipeline(u.AppService, appConfig, nil, nil)

		require.NoError(t, err)
		assert.NotNil(t, jobPipeline)
	})
	t.Run("invalid delimiter", func(t *testing.T) {
		u := utils.NewApplicationServiceMock(validSettings())
		appConfig := &config.ClientConfig{TimeField: "t", Delimiter: "||", WorkerURL: "http://worker", TrainerURL: "http://trainer", MLConfig: "{}"}

		_, err := buildJobClientPipeline(u.AppService, appConfig, nil, nil)

		assert.Error(t, err)
	})
	t.Run("blank worker url", func(t *testing.T) {
		u := utils.NewApplicationServiceMock(validSettings())
		appConfig := &config.ClientConfig{TimeField: "t", Delimiter: ",", TrainerURL: "http://trainer", MLConfig: "{}"}

		_, err := buildJobClientPipeline(u.AppService, appConfig, nil, nil)

		assert.Error(t, err)
	})
}

func TestNewHTTPClient(t *testing.T) {
	assert.Equal(t, 7*time.Second, newHTTPClient(&config.ClientConfig{RequestTimeoutSeconds: 7}).Timeout)
	assert.Equal(t, time.Minute, newHTTPClient(&config.ClientConfig{RequestPollDelaySeconds: 15}).Timeout)
}

func TestAddJobClientPipeline(t *testing.T) {
	u := utils.NewApplicationServiceMock(validSettings())
	appConfig, err := config.LoadClientConfig(u.AppService)
	require.NoError(t, err)
	jobPipeline, err := buildJobClientPipeline(u.AppService, appConfig, nil, nil)
	require.NoError(t, err)

	newService := func() *mocks.ApplicationService {
		svc := &mocks.ApplicationService{}
		svc.On("LoggingClient").Return(logger.NewMockClient())
		return svc
	}

	t.Run("without compression", func(t *testing.T) {
		svc := newService()
		svc.On("AddFunctionsPipelineForTopics", pipelineID, appConfig.SubscribeTopics,
			mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		require.NoError(t, addJobClientPipeline(svc, appConfig, jobPipeline))
		svc.AssertExpectations(t)
	})
	t.Run("with gzip output", func(t *testing.T) {
		compressed := *appConfig
		compressed.CompressOutput = true
		svc := newService()
		svc.On("AddFunctionsPipelineForTopics", pipelineID, appConfig.SubscribeTopics,
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		require.NoError(t, addJobClientPipeline(svc, &compressed, jobPipeline))
		svc.AssertExpectations(t)
	})
}
