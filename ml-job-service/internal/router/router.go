/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package router

import (
	"net/http"
	"strconv"

	"github.com/edgexfoundry/app-functions-sdk-go/v3/pkg/interfaces"
	"github.com/labstack/echo/v4"
	"mlbridge/ml-job-service/internal/config"
	"mlbridge/ml-job-service/pkg/db/redis"
)

type Router struct {
	service   interfaces.ApplicationService
	appConfig *config.ClientConfig
	runStore  redis.RunStore
}

// NewRouter exposes the run history and the effective configuration. runStore is nil when
// runs are not persisted, the run routes then answer 503.
func NewRouter(service interfaces.ApplicationService, appConfig *config.ClientConfig, runStore redis.RunStore) *Router {
	return &Router{
		service:   service,
		appConfig: appConfig,
		runStore:  runStore,
	}
}

// AddRoutes adds routes to the service
func (r *Router) AddRoutes() {
	r.addGetRunsRoute()
	r.addGetRunRoute()
	r.addGetConfigRoute()
}

func (r *Router) getRuns(c echo.Context) *echo.HTTPError {
	if r.runStore == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Run history is not enabled")
	}

	limit := r.appConfig.RunHistoryLimit
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		requested, err := strconv.Atoi(limitStr)
		if err != nil || requested <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive number")
		}
		if requested < limit {
			limit = requested
		}
	}
	sourceID := c.QueryParam("source")

	runs, hErr := r.runStore.GetRuns(sourceID, limit)
	if hErr != nil {
		r.service.LoggingClient().Errorf("Failed to get prediction runs for source '%s': %v", sourceID, hErr)
		return hErr.ConvertToHTTPError()
	}

	_ = c.JSON(http.StatusOK, runs)
	return nil
}

func (r *Router) getRun(c echo.Context) *echo.HTTPError {
	if r.runStore == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Run history is not enabled")
	}

	runID := c.Param("runId")
	record, hErr := r.runStore.GetRun(runID)
	if hErr != nil {
		r.service.LoggingClient().Errorf("Failed to get prediction run %s: %v", runID, hErr)
		return hErr.ConvertToHTTPError()
	}

	_ = c.JSON(http.StatusOK, record)
	return nil
}

func (r *Router) getConfig(c echo.Context) *echo.HTTPError {
	_ = c.JSON(http.StatusOK, r.appConfig)
	return nil
}
