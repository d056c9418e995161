/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package router

import (
	"net/http"

	"github.com/edgexfoundry/app-functions-sdk-go/v3/pkg/interfaces"
	"github.com/labstack/echo/v4"
)

// @Summary      Get Prediction Runs
// @Description  Lists the most recent prediction runs, newest first.
// @Tags         ML Job Client - Runs
// @Param        source  query  string  false  "Only runs of this input source."
// @Param        limit   query  int     false  "Maximum number of runs, capped by RunHistoryLimit."
// @Success      200  {array}   run.RunSummary
// @Failure			400			{object}	error	"{"message":"Error message"}"
// @Failure			503			{object}	error	"{"message":"Error message"}"
// @Router       /api/v3/ml_job_client/runs [get]
func (r *Router) addGetRunsRoute() {
	_ = r.service.AddCustomRoute(
		"/api/v3/ml_job_client/runs",
		interfaces.Authenticated,
		handler(r.getRuns),
		http.MethodGet)
}

// @Summary      Get Prediction Run
// @Description  Returns one prediction run with its per group outcomes and predictions.
// @Tags         ML Job Client - Runs
// @Param        runId  path  string  true  "Run id"
// @Success      200  {object}  run.RunRecord
// @Failure			404			{object}	error	"{"message":"Error message"}"
// @Failure			503			{object}	error	"{"message":"Error message"}"
// @Router       /api/v3/ml_job_client/runs/{runId} [get]
func (r *Router) addGetRunRoute() {
	_ = r.service.AddCustomRoute(
		"/api/v3/ml_job_client/runs/:runId",
		interfaces.Authenticated,
		handler(r.getRun),
		http.MethodGet)
}

// @Summary      Get Client Configuration
// @Tags         ML Job Client - Config
// @Success      200  {object}  config.ClientConfig
// @Router       /api/v3/ml_job_client/config [get]
func (r *Router) addGetConfigRoute() {
	_ = r.service.AddCustomRoute(
		"/api/v3/ml_job_client/config",
		interfaces.Authenticated,
		handler(r.getConfig),
		http.MethodGet)
}

// handler keeps a nil *echo.HTTPError from turning into a non-nil error
func handler(fn func(c echo.Context) *echo.HTTPError) echo.HandlerFunc {
	return func(c echo.Context) error {
		if hErr := fn(c); hErr != nil {
			return hErr
		}
		return nil
	}
}
