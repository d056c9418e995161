/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package client

import "time"

// Constants related to how services identify themselves in the Service Registry
const (
	ServiceKeyPrefix = "app-"

	MLJobClientServiceName = "ml-job-client"
	// ServiceKeys - note that the service key should start with app- for appservices
	MLJobClientServiceKey = ServiceKeyPrefix + MLJobClientServiceName
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeCSV  = "text/csv"

	DefaultRequestTimeout = 60 * time.Second
)

const (
	LabelSource  = "source"
	LabelService = "service"
	LabelHost    = "host"
)
