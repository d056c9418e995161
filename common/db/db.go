/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package db

import (
	"errors"
	"time"
)

const (
	// ml-job-client storage keys, mlb short for ML bridge
	PredictionRun         = "mlb:run"
	PredictionRunBySource = PredictionRun + ":src"
	PredictionRunAll      = PredictionRun + ":all"

	ServiceConfig = "mlb:cfg"
	MetricCounter = ServiceConfig + ":mc"
)

var (
	ErrNotFound = errors.New("item not found")
)

func MakeTimestamp() int64 {
	return time.Now().UnixNano() / int64(time.Millisecond)
}
