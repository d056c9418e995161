/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

// ml-job-client forwards windows of records to a prediction worker, one job per model group,
// and publishes the merged predictions.
//
//	@title			ml-job-client APIs
//	@version		v3
//
// @BasePath	/
// @host		localhost:48140
//
// @securityDefinitions.basic  BasicAuth
// @Security BasicAuth
package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/edgexfoundry/app-functions-sdk-go/v3/pkg/interfaces"
	"github.com/edgexfoundry/app-functions-sdk-go/v3/pkg/transforms"
	"mlbridge/common/client"
	commonConfig "mlbridge/common/config"
	"mlbridge/common/db"
	redis2 "mlbridge/common/db/redis"
	commService "mlbridge/common/service"
	"mlbridge/common/telemetry"
	"mlbridge/ml-job-service/internal/config"
	"mlbridge/ml-job-service/internal/pipeline"
	"mlbridge/ml-job-service/internal/router"
	"mlbridge/ml-job-service/pkg/db/redis"
	"mlbridge/ml-job-service/pkg/encoder"
	"mlbridge/ml-job-service/pkg/helpers"
	"mlbridge/ml-job-service/pkg/orchestrator"
	"mlbridge/ml-job-service/pkg/retry"
	"mlbridge/ml-job-service/pkg/trainer"
	"mlbridge/ml-job-service/pkg/worker"
)

const pipelineID = "ml-job-client"

var (
	serviceInt        interfaces.ApplicationService
	Client            client.HTTPClient
	appServiceCreator commService.AppServiceCreator
	osExit            = os.Exit
)

func getAppService() {
	if appServiceCreator == nil {
		appServiceCreator = &commService.AppService{}
	}
	svc, ok := appServiceCreator.NewAppServiceWithTargetType(client.MLJobClientServiceKey, &[]byte{})
	if !ok {
		err := fmt.Errorf("failed to start App Service: %s", client.MLJobClientServiceKey)
		fmt.Println(err)
		exitWrapper(-1)
	} else {
		serviceInt = svc
	}
}

func main() {
	if serviceInt == nil {
		getAppService()
	}
	service := serviceInt
	if service == nil {
		return
	}
	lc := service.LoggingClient()

	appConfig, err := config.LoadClientConfig(service)
	if err != nil {
		lc.Errorf("Failed to load ml-job-client configuration: %v", err)
		exitWrapper(-1)
		return
	}

	if Client == nil {
		Client = newHTTPClient(appConfig)
	}

	var dbClient *redis2.DBClient
	var runStore redis.RunStore
	if appConfig.PersistRuns {
		dbConfig := db.NewDatabaseConfig()
		dbConfig.LoadAppConfigurations(service)
		dbClient, err = redis2.CreateDBClient(dbConfig, lc)
		if err != nil {
			lc.Errorf("Failed to connect to redis, run history and shared metrics are disabled: %v", err)
			dbClient = nil
		} else {
			runStore = redis.NewRunStore(dbClient, appConfig.RunHistoryLimit)
		}
	}

	jobPipeline, err := buildJobClientPipeline(service, appConfig, dbClient, runStore)
	if err != nil {
		lc.Errorf("Failed to build the ml-job-client pipeline: %v", err)
		exitWrapper(-1)
		return
	}
	if err = addJobClientPipeline(service, appConfig, jobPipeline); err != nil {
		lc.Errorf("SDK AddFunctionsPipelineForTopics failed: %v", err)
		exitWrapper(-1)
		return
	}

	router.NewRouter(service, appConfig, runStore).AddRoutes()

	err = service.Run()
	if dbClient != nil {
		dbClient.CloseSession()
	}
	if err != nil {
		lc.Errorf("Run returned error: %v", err)
		return
	}

	lc.Info("ml-job-client terminating")
	exitWrapper(0)
}

// newHTTPClient bounds every trainer and worker request so a silent peer costs one attempt
func newHTTPClient(appConfig *config.ClientConfig) *http.Client {
	return &http.Client{Timeout: appConfig.RequestTimeout()}
}

// buildJobClientPipeline wires encoder, model resolver, worker client, orchestrator and runner
// behind the pipeline functions. dbClient and runStore may be nil.
func buildJobClientPipeline(
	service interfaces.ApplicationService,
	appConfig *config.ClientConfig,
	dbClient *redis2.DBClient,
	runStore redis.RunStore,
) (*pipeline.JobClientPipeline, error) {
	lc := service.LoggingClient()

	csvEncoder, err := encoder.NewCSVEncoder(appConfig.TimeField, appConfig.Delimiter, appConfig.EmptyPlaceholder, lc)
	if err != nil {
		return nil, err
	}
	policy := retry.NewPolicy(appConfig.MaxRetries(), appConfig.PollDelay())

	resolver, err := trainer.NewModelResolver(appConfig.TrainerURL, appConfig.MLConfigJSON(), Client, policy, lc)
	if err != nil {
		return nil, err
	}
	jobClient, err := worker.NewJobClient(appConfig.WorkerURL, Client, lc)
	if err != nil {
		return nil, err
	}
	jobOrchestrator := orchestrator.NewJobOrchestrator(jobClient, csvEncoder, policy, orchestrator.Options{
		FixFeatures:       appConfig.FixFeatures,
		ParallelGroups:    appConfig.ParallelGroups,
		MaxParallelGroups: appConfig.MaxParallelGroups,
	}, lc)
	runner := orchestrator.NewPredictionRunner(resolver, jobOrchestrator, orchestrator.RunnerOptions{
		ServiceName:           client.MLJobClientServiceName,
		TimeField:             appConfig.TimeField,
		WaitForPendingModels:  appConfig.WaitForPendingModels,
		FailRunOnGroupFailure: appConfig.FailRunOnGroupFailure,
	}, lc)

	var redisClient redis2.CommonRedisDBInterface
	if dbClient != nil {
		redisClient = dbClient
	}
	var runTelemetry *helpers.Telemetry
	metricsManager, err := telemetry.NewMetricsManager(service, client.MLJobClientServiceName)
	if err != nil {
		lc.Warnf("Run metrics are not reported: %v", err)
		runTelemetry = helpers.NewTelemetry(service, client.MLJobClientServiceName, nil, redisClient)
	} else {
		runTelemetry = helpers.NewTelemetry(service, client.MLJobClientServiceName, metricsManager.MetricsMgr, redisClient)
		metricsManager.Run()
	}

	jobPipeline := pipeline.NewJobClientPipeline(service.AppContext(), appConfig, runner, runStore, runTelemetry)

	if appConfig.PublishTopic != "" {
		mqttConfig, err := commonConfig.BuildMQTTSecretConfig(service, appConfig.PublishTopic, client.MLJobClientServiceName)
		if err != nil {
			return nil, err
		}
		jobPipeline.SetSender(transforms.NewMQTTSecretSender(mqttConfig, commonConfig.GetPersistOnError(service)))
	}
	return jobPipeline, nil
}

func addJobClientPipeline(service interfaces.ApplicationService, appConfig *config.ClientConfig, jobPipeline *pipeline.JobClientPipeline) error {
	functions := []interfaces.AppFunction{
		jobPipeline.ParseInputMessage,
		jobPipeline.RunPredictionJobs,
		jobPipeline.BuildOutputMessage,
	}
	if appConfig.CompressOutput {
		functions = append(functions, transforms.NewCompression().CompressWithGZIP)
	}
	functions = append(functions, jobPipeline.PublishPredictions)

	service.LoggingClient().Infof("ml-job-client pipeline subscribed to %v", appConfig.SubscribeTopics)
	return service.AddFunctionsPipelineForTopics(pipelineID, appConfig.SubscribeTopics, functions...)
}

func exitWrapper(code int) {
	osExit(code)
}
